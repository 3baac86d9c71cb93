// Package classify maps composite and subscale scores to categorical labels
// using fixed cut points. Every function is pure and total.
package classify

import (
	"math"

	"github.com/HendryAvila/rapport/internal/composite"
)

// --- Attachment ---

// Attachment grid cut points on the 1-7 ECR-12 scale. Low is strict,
// high is inclusive.
const (
	AttachmentLowBelow    = 3.0
	AttachmentHighAtLeast = 4.5
)

// AttachmentStyle is one of the four grid cells.
type AttachmentStyle string

const (
	Secure             AttachmentStyle = "Secure"
	AnxiousPreoccupied AttachmentStyle = "Anxious-Preoccupied"
	DismissiveAvoidant AttachmentStyle = "Dismissive-Avoidant"
	FearfulAvoidant    AttachmentStyle = "Fearful-Avoidant"
)

// AttachmentLabel is the classified attachment style. MidRange is set when
// neither axis is high and at least one sits between the cut points; the
// style is then Secure by default and narrated as its own branch.
type AttachmentLabel struct {
	Style    AttachmentStyle `json:"style"`
	MidRange bool            `json:"mid_range"`
}

func (l AttachmentLabel) String() string {
	if l.MidRange {
		return string(l.Style) + " (mid-range)"
	}
	return string(l.Style)
}

// IsLow reports whether an attachment axis is strictly below 3.
func IsLow(v float64) bool { return v < AttachmentLowBelow }

// IsHigh reports whether an attachment axis is at least 4.5.
func IsHigh(v float64) bool { return v >= AttachmentHighAtLeast }

// ClassifyAttachment resolves the 2x2 grid from the anxiety and avoidance
// subscale means.
func ClassifyAttachment(a composite.Attachment) AttachmentLabel {
	anxHigh, avoHigh := IsHigh(a.Anxiety), IsHigh(a.Avoidance)
	switch {
	case anxHigh && avoHigh:
		return AttachmentLabel{Style: FearfulAvoidant}
	case anxHigh:
		return AttachmentLabel{Style: AnxiousPreoccupied}
	case avoHigh:
		return AttachmentLabel{Style: DismissiveAvoidant}
	case IsLow(a.Anxiety) && IsLow(a.Avoidance):
		return AttachmentLabel{Style: Secure}
	default:
		return AttachmentLabel{Style: Secure, MidRange: true}
	}
}

// --- Three-band levels ---

// Level is a three-band ordinal label.
type Level string

const (
	High     Level = "High"
	Moderate Level = "Moderate"
	Low      Level = "Low"
)

// band classifies v with inclusive cut points on both ends.
func band(v, highAtLeast, lowAtMost float64) Level {
	switch {
	case v >= highAtLeast:
		return High
	case v <= lowAtMost:
		return Low
	default:
		return Moderate
	}
}

// Resilience classifies a BRS mean (1-5): >=3.8 High, <=2.8 Low.
func Resilience(brs float64) Level { return band(brs, 3.8, 2.8) }

// Differentiation classifies a DSI-SF mean (1-6): >=4.5 High, <=3.0 Low.
func Differentiation(dsi float64) Level { return band(dsi, 4.5, 3.0) }

// Neuroticism classifies the TIPI neuroticism trait (1-7): >=4.5 High,
// <=3.5 Low.
func Neuroticism(n float64) Level { return band(n, 4.5, 3.5) }

// --- Values ---

// PolarityGap is the axis difference above which two opposing value axes
// are reported as in tension.
const PolarityGap = 1.5

// ValuesLabel summarises the PVQ-21 value axes. TranscendenceGap is
// SelfTranscendence minus SelfEnhancement; OpennessGap is OpennessToChange
// minus Conservation.
type ValuesLabel struct {
	Dominant         composite.Axis `json:"dominant"`
	Least            composite.Axis `json:"least"`
	TranscendenceGap float64        `json:"transcendence_gap"`
	OpennessGap      float64        `json:"openness_gap"`
}

// TranscendenceTension reports a gap above PolarityGap on the
// transcendence/enhancement pole, in either direction.
func (v ValuesLabel) TranscendenceTension() bool {
	return math.Abs(v.TranscendenceGap) > PolarityGap
}

// OpennessTension reports a gap above PolarityGap on the
// openness/conservation pole, in either direction.
func (v ValuesLabel) OpennessTension() bool {
	return math.Abs(v.OpennessGap) > PolarityGap
}

// Tension reports whether either pole is in tension.
func (v ValuesLabel) Tension() bool {
	return v.TranscendenceTension() || v.OpennessTension()
}

// ClassifyValues finds the dominant and least dominant axes. Ties resolve
// to the earlier axis in composite.AxisOrder.
func ClassifyValues(axes composite.ValueAxes) ValuesLabel {
	dom, least := composite.AxisOrder[0], composite.AxisOrder[0]
	for _, a := range composite.AxisOrder[1:] {
		if axes.Get(a) > axes.Get(dom) {
			dom = a
		}
		if axes.Get(a) < axes.Get(least) {
			least = a
		}
	}
	return ValuesLabel{
		Dominant:         dom,
		Least:            least,
		TranscendenceGap: axes.SelfTranscendence - axes.SelfEnhancement,
		OpennessGap:      axes.OpennessToChange - axes.Conservation,
	}
}

// --- Personality ---

// Trait names a Big Five trait.
type Trait string

const (
	TraitExtraversion      Trait = "extraversion"
	TraitAgreeableness     Trait = "agreeableness"
	TraitConscientiousness Trait = "conscientiousness"
	TraitNeuroticism       Trait = "neuroticism"
	TraitOpenness          Trait = "openness"
)

// TraitOrder fixes iteration and tie-breaking for DominantTrait.
var TraitOrder = []Trait{TraitExtraversion, TraitAgreeableness, TraitConscientiousness, TraitNeuroticism, TraitOpenness}

// TraitScore returns the score of one trait.
func TraitScore(p composite.Personality, t Trait) float64 {
	switch t {
	case TraitExtraversion:
		return p.Extraversion
	case TraitAgreeableness:
		return p.Agreeableness
	case TraitConscientiousness:
		return p.Conscientiousness
	case TraitNeuroticism:
		return p.Neuroticism
	case TraitOpenness:
		return p.Openness
	default:
		return 0
	}
}

// DominantTrait returns the highest-scoring trait; ties go to the earlier
// trait in TraitOrder.
func DominantTrait(p composite.Personality) Trait {
	best := TraitOrder[0]
	for _, t := range TraitOrder[1:] {
		if TraitScore(p, t) > TraitScore(p, best) {
			best = t
		}
	}
	return best
}
