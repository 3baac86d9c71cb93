package evidence

import (
	"fmt"
	"strings"

	"github.com/HendryAvila/rapport/internal/interview"
	"github.com/HendryAvila/rapport/internal/pillar"
)

// Criterion is one of the five sub-criteria that modulate a
// ScenarioResponse within its tier.
type Criterion string

const (
	BalancedAttribution    Criterion = "balanced_attribution"
	EmotionalDimension     Criterion = "emotional_dimension"
	DiagnosisFixCoherence  Criterion = "diagnosis_fix_coherence"
	SelfReferentialDetail  Criterion = "self_referential_specificity"
	SpontaneousPerspective Criterion = "perspective_taking"
)

// Criteria lists the scenario sub-criteria in evaluation order.
var Criteria = []Criterion{
	BalancedAttribution,
	EmotionalDimension,
	DiagnosisFixCoherence,
	SelfReferentialDetail,
	SpontaneousPerspective,
}

// Grade is the evidence metadata for one construct. Pending is set when a
// scenario or hypothetical was just offered and the respondent has not
// reacted yet.
type Grade struct {
	Construct   pillar.ID   `json:"construct"`
	Quality     Quality     `json:"quality"`
	Subtype     Subtype     `json:"subtype,omitempty"`
	Weight      float64     `json:"weight"`
	ScoreMin    float64     `json:"score_min"`
	ScoreMax    float64     `json:"score_max"`
	Confidence  Confidence  `json:"confidence"`
	Criteria    []Criterion `json:"criteria,omitempty"`
	Deflections []string    `json:"deflections,omitempty"`
	Probes      int         `json:"probes"`
	Flagged     bool        `json:"flagged"`
	Pending     bool        `json:"pending,omitempty"`
	Quotes      []string    `json:"quotes,omitempty"`
}

// FallbackScore is the midpoint of the capped range. It is only used to
// build the neutral fallback judgement when the scoring model's reply
// cannot be parsed.
func (g Grade) FallbackScore() float64 {
	return (g.ScoreMin + g.ScoreMax) / 2
}

// Label renders the tier with its subtype, e.g. "no_response/genuine_absence".
func (g Grade) Label() string {
	if g.Quality == NoResponse && g.Subtype != "" {
		return g.Quality.String() + "/" + string(g.Subtype)
	}
	return g.Quality.String()
}

// Guidance is the one-line weighting instruction embedded in the scoring
// prompt for this construct.
func (g Grade) Guidance() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: weight %.2f, score range %g-%g, confidence %s",
		g.Label(), g.Weight, g.ScoreMin, g.ScoreMax, g.Confidence)
	if len(g.Criteria) > 0 {
		names := make([]string, len(g.Criteria))
		for i, c := range g.Criteria {
			names[i] = string(c)
		}
		fmt.Fprintf(&b, "; criteria met: %s", strings.Join(names, ", "))
	}
	if len(g.Deflections) > 0 {
		fmt.Fprintf(&b, "; %d deflection(s) detected", len(g.Deflections))
	}
	if g.Flagged {
		b.WriteString("; FLAGGED: confirmed avoidance")
	}
	if g.Subtype == GenuineAbsence {
		b.WriteString("; absence of evidence is not negative evidence, score neutral")
	}
	return b.String()
}

// --- Grading ---

// GradeSpan classifies the evidence for one construct from the ordered
// turns that concern it.
func GradeSpan(construct pillar.ID, span []interview.Turn) Grade {
	g := Grade{Construct: construct}
	ladder := NewLadder()

	var (
		answered        bool // respondent reacted at the current tier
		recalled        bool // a real incident was given before any scenario
		awaiting        bool // a scenario or hypothetical is on the table
		hypothetical    bool // the open question is hypothetical
		declined        bool // the respondent said they have no example
		scenarioOffered bool
		scenarioAnswers []string
		resisted        int
		circumstance    bool
	)

	for i, turn := range span {
		text := normalize(turn.Content)
		if turn.Role == interview.Interviewer {
			g.Probes++
			if recalled {
				continue
			}
			switch {
			case isScenario(construct, text):
				ladder.Downgrade(ScenarioResponse)
				scenarioOffered = true
				awaiting, answered, hypothetical = true, false, false
			case hypotheticalQuestionCue.MatchString(text) && !scenarioOffered:
				// The tier only drops on the respondent's reaction: a
				// hypothetical phrasing may still draw a real incident.
				awaiting, answered, hypothetical = true, false, true
			}
			continue
		}

		explains := circumstanceCue.MatchString(text)
		if explains {
			circumstance = true
		}
		if isDeflection(span, i) {
			g.Deflections = append(g.Deflections, strings.TrimSpace(turn.Content))
		}

		switch {
		case resistanceCue.MatchString(text):
			resisted++
		case (noExampleCue.MatchString(text) || explains) && !recallCue.MatchString(text):
			// no example; the cascade continues with a scenario or hypothetical
			declined = true
		case isQuestionOnly(text) || !substantive(text):
			// acknowledgement or clarifying question
		default:
			if !recalled && ladder.Quality() == RecalledExample {
				if isIncident(text) {
					recalled = true
				} else {
					ladder.Downgrade(BareHypothetical)
				}
			}
			answered, awaiting, hypothetical = true, false, false
			g.Quotes = append(g.Quotes, strings.TrimSpace(turn.Content))
			if ladder.Quality() == ScenarioResponse {
				scenarioAnswers = append(scenarioAnswers, text)
			}
		}
	}

	g.Pending = !answered && awaiting && lastIsInterviewer(span)
	if g.Pending && hypothetical && declined {
		ladder.Downgrade(BareHypothetical)
	}
	if !answered && !g.Pending {
		ladder.Downgrade(NoResponse)
	}
	g.Quality = ladder.Quality()

	switch g.Quality {
	case ScenarioResponse:
		if !g.Pending {
			g.Criteria = scoreCriteria(construct, scenarioAnswers)
		}
	case NoResponse:
		// Ties favour genuine absence: avoidance needs an offered scenario,
		// resistance across at least two probes and no circumstance that
		// explains the gap.
		resistance := resisted + len(g.Deflections)
		if scenarioOffered && g.Probes >= 2 && resistance >= 2 && !circumstance {
			g.Subtype = ConfirmedAvoidance
			g.Flagged = true
		} else {
			g.Subtype = GenuineAbsence
		}
	}

	p := PolicyFor(g.Quality, g.Subtype)
	g.Weight, g.ScoreMin, g.ScoreMax, g.Confidence = p.Weight, p.ScoreMin, p.ScoreMax, p.Confidence
	if g.Quality == ScenarioResponse {
		g.Weight = scenarioBaseWeight + scenarioCriterionStep*float64(len(g.Criteria))
	}
	return g
}

// isIncident reports whether a respondent turn narrates a specific real
// incident: an explicit recall marker, or first-person past-tense narration
// that is not framed as a habit or a hypothetical.
func isIncident(text string) bool {
	if recallCue.MatchString(text) {
		return true
	}
	return narrationCue.MatchString(text) &&
		!hypotheticalCue.MatchString(text) && !generalisationCue.MatchString(text)
}

func lastIsInterviewer(span []interview.Turn) bool {
	return len(span) > 0 && span[len(span)-1].Role == interview.Interviewer
}

// isScenario reports whether an interviewer turn presents a canned
// scenario: the construct's own characters, or a generic scenario opener.
func isScenario(construct pillar.ID, text string) bool {
	if s, err := Scenario(construct); err == nil && s.Mentions(text) >= 2 {
		return true
	}
	return scenarioCue.MatchString(text)
}

// scoreCriteria evaluates the respondent's scenario reactions against the
// five sub-criteria.
func scoreCriteria(construct pillar.ID, answers []string) []Criterion {
	joined := strings.Join(answers, " ")
	var met []Criterion

	balanced := balancedCue.MatchString(joined)
	if s, err := Scenario(construct); err == nil && s.Mentions(joined) >= 2 {
		balanced = true
	}
	if balanced {
		met = append(met, BalancedAttribution)
	}
	if emotionCue.MatchString(joined) {
		met = append(met, EmotionalDimension)
	}
	if diagnosisCue.MatchString(joined) && fixCue.MatchString(joined) {
		met = append(met, DiagnosisFixCoherence)
	}
	for _, a := range answers {
		if selfReferenceCue.MatchString(a) && wordCount(a) >= 12 {
			met = append(met, SelfReferentialDetail)
			break
		}
	}
	if perspectiveCue.MatchString(joined) {
		met = append(met, SpontaneousPerspective)
	}
	return met
}

func normalize(s string) string {
	return strings.NewReplacer("’", "'", "‘", "'").Replace(s)
}
