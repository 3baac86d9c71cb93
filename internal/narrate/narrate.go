// Package narrate turns classifier output into short human-readable
// insights. Every branch is a fixed table entry; there is no randomness and
// no external call.
package narrate

import (
	"fmt"

	"github.com/HendryAvila/rapport/internal/classify"
	"github.com/HendryAvila/rapport/internal/composite"
)

// Insight is one narrated card.
type Insight struct {
	Headline        string `json:"headline"`
	Body            string `json:"body"`
	Edge            string `json:"edge"`
	Stat            string `json:"stat"`
	CalibrationNote string `json:"calibration_note,omitempty"`
}

// History is the respondent's self-reported relationship history, asked
// once before the attachment instrument.
type History string

const (
	HistorySubstantial History = "substantial"
	HistoryLimited     History = "limited"
	HistoryNone        History = "none"
)

// ParseHistory validates a history value. Empty means substantial.
func ParseHistory(s string) (History, error) {
	switch History(s) {
	case "", HistorySubstantial:
		return HistorySubstantial, nil
	case HistoryLimited, HistoryNone:
		return History(s), nil
	default:
		return "", fmt.Errorf("invalid relationship history %q: must be substantial, limited or none", s)
	}
}

// Calibrated reports whether attachment scores need a calibration note.
func (h History) Calibrated() bool {
	return h == HistoryLimited || h == HistoryNone
}

// Band is the +/- confidence band stated around attachment scores.
func (h History) Band() float64 {
	if h.Calibrated() {
		return 1.0
	}
	return 0.5
}

// --- Attachment ---

var attachmentBranches = map[classify.AttachmentStyle]Insight{
	classify.Secure: {
		Headline: "Steady in closeness",
		Body:     "You're comfortable depending on a partner and letting them depend on you, and you don't spend much energy worrying about being left.",
		Edge:     "Your calm can read as low urgency to a partner who needs more explicit reassurance.",
	},
	classify.AnxiousPreoccupied: {
		Headline: "Tuned in to connection",
		Body:     "You notice shifts in closeness quickly and care a lot about where you stand. Reassurance matters to you.",
		Edge:     "Under stress you may pursue contact harder than the moment calls for.",
	},
	classify.DismissiveAvoidant: {
		Headline: "Self-reliant by default",
		Body:     "You value independence and tend to handle things on your own before leaning on a partner.",
		Edge:     "A partner may experience your self-sufficiency as distance when they reach for you.",
	},
	classify.FearfulAvoidant: {
		Headline: "Wanting closeness, wary of it",
		Body:     "You want deep connection and also feel exposed when you get it, so you can swing between reaching out and pulling back.",
		Edge:     "Mixed signals are the main risk; naming the push and pull out loud helps.",
	},
}

var attachmentMidRange = Insight{
	Headline: "Flexible middle ground",
	Body:     "Your scores sit between the clear patterns: neither strongly anxious nor strongly avoidant, with some of each showing up depending on the relationship.",
	Edge:     "Which way you lean probably depends on how secure your partner is.",
}

// Attachment narrates an attachment label. The calibration note is set only
// when history is limited or none, and widens the stated band; the scores
// themselves are untouched.
func Attachment(label classify.AttachmentLabel, a composite.Attachment, history History) Insight {
	in := attachmentBranches[label.Style]
	if label.MidRange {
		in = attachmentMidRange
	}
	band := history.Band()
	in.Stat = fmt.Sprintf("Anxiety %.1f (±%.1f) · Avoidance %.1f (±%.1f) on a 1-7 scale", a.Anxiety, band, a.Avoidance, band)
	if history.Calibrated() {
		in.CalibrationNote = "These results lean on limited relationship history, so treat them as a provisional read rather than a settled pattern."
	}
	return in
}

// --- Resilience x neuroticism ---

type resilienceKey struct {
	resilience, neuroticism classify.Level
}

var resilienceBranches = map[resilienceKey]Insight{
	{classify.High, classify.Low}: {
		Headline: "Bends without breaking",
		Body:     "Setbacks register but don't linger, and your baseline mood stays even. Partners can lean on you when things go wrong.",
		Edge:     "You may underestimate how hard the same event hits someone wired differently.",
	},
	{classify.High, classify.High}: {
		Headline: "Feels it deeply, recovers anyway",
		Body:     "Stress lands hard for you emotionally, yet you reliably find your way back. The bounce-back is real even when the dip is steep.",
		Edge:     "A partner may only see the dip; telling them you will recover helps.",
	},
	{classify.Low, classify.Low}: {
		Headline: "Calm surface, slow recovery",
		Body:     "You don't get rattled easily, but when something does knock you down it takes a while to regain footing.",
		Edge:     "Because you look fine, a partner may not realise you're still recovering.",
	},
	{classify.Low, classify.High}: {
		Headline: "Stress travels far",
		Body:     "Difficult events hit hard and stay with you. Steady routines and a responsive partner make a big difference.",
		Edge:     "Strain can spill into the relationship before either of you names it.",
	},
}

// Resilience narrates the pairwise resilience x neuroticism interaction.
// Combinations outside the four named corners use a moderate fallback with
// an interpolated sentence.
func Resilience(brs, neuroticism float64) Insight {
	r, n := classify.Resilience(brs), classify.Neuroticism(neuroticism)
	in, ok := resilienceBranches[resilienceKey{r, n}]
	if !ok {
		in = Insight{
			Headline: "Recovering at a steady pace",
			Body: fmt.Sprintf("Your resilience reads as %s and your emotional reactivity as %s, so you recover from setbacks at a fairly ordinary pace.",
				lower(r), lower(n)),
			Edge: "Knowing what speeds your recovery up is more useful than the average.",
		}
	}
	in.Stat = fmt.Sprintf("Resilience %.1f/5 (%s) · Neuroticism %.1f/7 (%s)", brs, r, neuroticism, n)
	return in
}

// --- Values polarity ---

// Values narrates the value-axis polarity: transcendence over enhancement,
// the reverse, an openness/conservation tension, or balanced.
func Values(label classify.ValuesLabel, axes composite.ValueAxes) Insight {
	var in Insight
	switch {
	case label.TranscendenceTension() && label.TranscendenceGap > 0:
		in = Insight{
			Headline: "Other-focused values",
			Body:     "Caring for people and fairness clearly outranks status and personal success for you.",
			Edge:     "A partner driven by achievement may feel judged rather than understood.",
		}
	case label.TranscendenceTension():
		in = Insight{
			Headline: "Driven by achievement",
			Body:     "Success, recognition and influence rank well above broader social concerns in what motivates you.",
			Edge:     "A partner who leads with care for others may read your drive as self-interest.",
		}
	case label.OpennessTension():
		in = Insight{
			Headline: "Change versus stability",
			Body: fmt.Sprintf("You lean strongly toward %s over %s, which shapes how you approach risk, routine and family expectations.",
				lean(label.OpennessGap)...),
			Edge: "This axis is where everyday friction with a differently wired partner tends to show up.",
		}
	default:
		in = Insight{
			Headline: "Balanced values",
			Body:     fmt.Sprintf("No single value pole dominates; %s edges ahead of the rest.", label.Dominant.Label()),
			Edge:     "Balanced profiles adapt well but can struggle to name what is non-negotiable.",
		}
	}
	in.Stat = fmt.Sprintf("Self-Transcendence %.1f · Self-Enhancement %.1f · Openness %.1f · Conservation %.1f",
		axes.SelfTranscendence, axes.SelfEnhancement, axes.OpennessToChange, axes.Conservation)
	return in
}

func lean(gap float64) []any {
	if gap > 0 {
		return []any{"openness and novelty", "security and tradition"}
	}
	return []any{"security and tradition", "openness and novelty"}
}

// --- Differentiation ---

var differentiationBranches = map[classify.Level]Insight{
	classify.High: {
		Headline: "Close without losing yourself",
		Body:     "You can stay connected to a partner during strong emotion and still hold your own position.",
		Edge:     "Your steadiness can feel detached to someone who needs you to match their intensity.",
	},
	classify.Moderate: {
		Headline: "Mostly grounded",
		Body:     "You usually keep your footing in close relationships, with some slippage when emotions run high.",
		Edge:     "High-stakes conflict is where you are most likely to lose your own view.",
	},
	classify.Low: {
		Headline: "Strongly shaped by others",
		Body:     "Other people's emotions and expectations pull hard on you, whether you merge with them or cut off to cope.",
		Edge:     "Partners may find it hard to tell what you want apart from what you think they want.",
	},
}

// Differentiation narrates a DSI-SF mean.
func Differentiation(dsi float64) Insight {
	lvl := classify.Differentiation(dsi)
	in := differentiationBranches[lvl]
	in.Stat = fmt.Sprintf("Differentiation %.1f/6 (%s)", dsi, lvl)
	return in
}

// --- Personality ---

var traitBranches = map[classify.Trait]Insight{
	classify.TraitExtraversion: {
		Headline: "Energised by people",
		Body:     "Social energy is your strongest trait; you recharge through company and shared activity.",
		Edge:     "A quieter partner may need more downtime than you instinctively plan for.",
	},
	classify.TraitAgreeableness: {
		Headline: "Warm and cooperative",
		Body:     "Warmth and cooperation lead your profile; you look for the version of events where everyone is okay.",
		Edge:     "Keeping the peace can mean your own needs go unspoken.",
	},
	classify.TraitConscientiousness: {
		Headline: "Dependable and organised",
		Body:     "Follow-through is your strongest trait; plans happen and commitments hold.",
		Edge:     "A more spontaneous partner may experience structure as pressure.",
	},
	classify.TraitNeuroticism: {
		Headline: "Emotionally alert",
		Body:     "You feel things strongly and notice risk early, which makes you attentive and sometimes uneasy.",
		Edge:     "Worry can look like criticism from the outside.",
	},
	classify.TraitOpenness: {
		Headline: "Curious and exploratory",
		Body:     "Openness leads your profile; new ideas, places and experiences keep you engaged.",
		Edge:     "Routine-loving partners may feel the pull toward novelty as restlessness.",
	},
}

// Personality narrates the dominant Big Five trait.
func Personality(p composite.Personality) Insight {
	t := classify.DominantTrait(p)
	in := traitBranches[t]
	in.Stat = fmt.Sprintf("E %.1f · A %.1f · C %.1f · N %.1f · O %.1f",
		p.Extraversion, p.Agreeableness, p.Conscientiousness, p.Neuroticism, p.Openness)
	return in
}

func lower(l classify.Level) string {
	switch l {
	case classify.High:
		return "high"
	case classify.Low:
		return "low"
	default:
		return "moderate"
	}
}
