package judge

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/HendryAvila/rapport/internal/evidence"
	"github.com/HendryAvila/rapport/internal/pillar"
)

var (
	ErrNoJSON           = errors.New("no JSON object in response")
	ErrInvalidJudgement = errors.New("invalid judgement")
)

// Judgement is the JSON contract the scoring model must return. Map keys
// are pillar ids as decimal strings.
type Judgement struct {
	PillarScores           map[string]float64 `json:"pillarScores"`
	PillarConfidence       map[string]string  `json:"pillarConfidence,omitempty"`
	KeyEvidence            map[string]string  `json:"keyEvidence"`
	NarrativeCoherence     string             `json:"narrativeCoherence"`
	BehavioralSpecificity  string             `json:"behavioralSpecificity"`
	NotableInconsistencies []string           `json:"notableInconsistencies"`
	InterviewSummary       string             `json:"interviewSummary"`

	Fallback       bool   `json:"fallback,omitempty"`
	FallbackReason string `json:"fallbackReason,omitempty"`
}

// Scores returns the pillar scores keyed by id.
func (j *Judgement) Scores() map[pillar.ID]float64 {
	out := make(map[pillar.ID]float64, len(j.PillarScores))
	for k, v := range j.PillarScores {
		if id, err := pillar.Parse(k); err == nil {
			out[id] = v
		}
	}
	return out
}

// Overall is the weighted overall score over the pillars present.
func (j *Judgement) Overall() float64 {
	return pillar.Overall(j.Scores())
}

// ParseJudgement extracts and validates the judgement JSON from a model
// reply. Markdown fences and surrounding prose are tolerated.
func ParseJudgement(raw string) (*Judgement, error) {
	body, err := extractObject(raw)
	if err != nil {
		return nil, err
	}
	var j Judgement
	if err := json.Unmarshal([]byte(body), &j); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJudgement, err)
	}
	if err := j.validate(); err != nil {
		return nil, err
	}
	return &j, nil
}

func (j *Judgement) validate() error {
	if len(j.PillarScores) == 0 {
		return fmt.Errorf("%w: pillarScores is empty", ErrInvalidJudgement)
	}
	for k, v := range j.PillarScores {
		if _, err := pillar.Parse(k); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidJudgement, err)
		}
		if v < 0 || v > 10 {
			return fmt.Errorf("%w: pillar %s score %g outside 0-10", ErrInvalidJudgement, k, v)
		}
	}
	for k, c := range j.PillarConfidence {
		switch evidence.Confidence(c) {
		case evidence.ConfidenceHigh, evidence.ConfidenceModerate, evidence.ConfidenceLow:
		default:
			return fmt.Errorf("%w: pillar %s confidence %q", ErrInvalidJudgement, k, c)
		}
	}
	return nil
}

// extractObject returns the outermost {...} span of s.
func extractObject(s string) (string, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return "", ErrNoJSON
	}
	return s[start : end+1], nil
}

// --- Fallback ---

const fallbackSummary = "The automated scoring response could not be read, so these scores are neutral placeholders. " +
	"They reflect only how much evidence the interview produced, not its content. " +
	"Re-run scoring before relying on this profile."

// Fallback returns the documented neutral judgement for ids. A pillar with
// a grade scores the midpoint of its capped range; one without scores 5.
// Every confidence is low.
func Fallback(ids []pillar.ID, grades []evidence.Grade) *Judgement {
	byID := make(map[pillar.ID]evidence.Grade, len(grades))
	for _, g := range grades {
		byID[g.Construct] = g
	}
	j := &Judgement{
		PillarScores:           make(map[string]float64, len(ids)),
		PillarConfidence:       make(map[string]string, len(ids)),
		KeyEvidence:            make(map[string]string, len(ids)),
		NarrativeCoherence:     string(evidence.ConfidenceModerate),
		BehavioralSpecificity:  string(evidence.ConfidenceModerate),
		NotableInconsistencies: []string{},
		InterviewSummary:       fallbackSummary,
		Fallback:               true,
	}
	for _, id := range ids {
		score := 5.0
		if g, ok := byID[id]; ok {
			score = g.FallbackScore()
		}
		j.PillarScores[id.String()] = score
		j.PillarConfidence[id.String()] = string(evidence.ConfidenceLow)
		j.KeyEvidence[id.String()] = "Not available (fallback)."
	}
	return j
}

// ParseOrFallback parses raw and substitutes the neutral fallback on any
// failure. It never fails; FallbackReason records why a fallback was used.
func ParseOrFallback(raw string, ids []pillar.ID, grades []evidence.Grade) *Judgement {
	j, err := ParseJudgement(raw)
	if err == nil {
		return j
	}
	fb := Fallback(ids, grades)
	fb.FallbackReason = err.Error()
	return fb
}
