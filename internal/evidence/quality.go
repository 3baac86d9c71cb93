// Package evidence grades how much trust an interview-derived score can
// place on the evidence behind it.
//
// Each construct's evidence walks a downgrade-only ladder:
//
//	RecalledExample > ScenarioResponse > BareHypothetical > NoResponse
//
// NoResponse is further split into ConfirmedAvoidance and GenuineAbsence.
// The grade carries a weight, a score-range cap and a confidence label that
// the external scoring prompt is instructed to respect; the grader never
// produces the 0-10 score itself.
package evidence

import "fmt"

// Quality is the evidence tier. Higher values are stronger evidence.
type Quality int

const (
	NoResponse Quality = iota
	BareHypothetical
	ScenarioResponse
	RecalledExample
)

var qualityNames = map[Quality]string{
	NoResponse:       "no_response",
	BareHypothetical: "bare_hypothetical",
	ScenarioResponse: "scenario_response",
	RecalledExample:  "recalled_example",
}

func (q Quality) String() string {
	if s, ok := qualityNames[q]; ok {
		return s
	}
	return fmt.Sprintf("quality(%d)", int(q))
}

// MarshalText encodes the quality by name.
func (q Quality) MarshalText() ([]byte, error) { return []byte(q.String()), nil }

// UnmarshalText decodes a quality name.
func (q *Quality) UnmarshalText(b []byte) error {
	for k, v := range qualityNames {
		if v == string(b) {
			*q = k
			return nil
		}
	}
	return fmt.Errorf("unknown evidence quality %q", string(b))
}

// Subtype refines NoResponse.
type Subtype string

const (
	ConfirmedAvoidance Subtype = "confirmed_avoidance"
	GenuineAbsence     Subtype = "genuine_absence"
)

// Confidence is the confidence label attached to a construct's score.
type Confidence string

const (
	ConfidenceHigh     Confidence = "high"
	ConfidenceModerate Confidence = "moderate"
	ConfidenceLow      Confidence = "low"
)

// --- Ladder ---

// Ladder tracks a construct's evidence quality. It starts at
// RecalledExample and only ever moves down.
type Ladder struct {
	q Quality
}

// NewLadder returns a ladder at RecalledExample.
func NewLadder() *Ladder { return &Ladder{q: RecalledExample} }

// Quality returns the current tier.
func (l *Ladder) Quality() Quality { return l.q }

// Downgrade moves to q if q is weaker than the current tier and reports
// whether it moved. Attempts to upgrade are ignored.
func (l *Ladder) Downgrade(q Quality) bool {
	if q >= l.q {
		return false
	}
	l.q = q
	return true
}

// --- Policy ---

// Policy is the weighting and range cap for one tier.
type Policy struct {
	Weight     float64
	ScoreMin   float64
	ScoreMax   float64
	Confidence Confidence
}

// Scenario weight is 0.65 plus 0.01 per criterion met, so 0.65-0.70.
const (
	scenarioBaseWeight    = 0.65
	scenarioCriterionStep = 0.01
)

var policies = map[Quality]Policy{
	RecalledExample:  {Weight: 1.0, ScoreMin: 0, ScoreMax: 10, Confidence: ConfidenceHigh},
	ScenarioResponse: {Weight: scenarioBaseWeight, ScoreMin: 3, ScoreMax: 8, Confidence: ConfidenceModerate},
	BareHypothetical: {Weight: 0.5, ScoreMin: 4, ScoreMax: 7, Confidence: ConfidenceLow},
}

var noResponsePolicies = map[Subtype]Policy{
	ConfirmedAvoidance: {Weight: 0, ScoreMin: 0, ScoreMax: 6, Confidence: ConfidenceLow},
	GenuineAbsence:     {Weight: 0, ScoreMin: 5, ScoreMax: 5, Confidence: ConfidenceLow},
}

// PolicyFor returns the policy of a tier. Subtype is only consulted for
// NoResponse and defaults to GenuineAbsence.
func PolicyFor(q Quality, sub Subtype) Policy {
	if q == NoResponse {
		if p, ok := noResponsePolicies[sub]; ok {
			return p
		}
		return noResponsePolicies[GenuineAbsence]
	}
	return policies[q]
}
