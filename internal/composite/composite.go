// Package composite derives higher-order axes from instrument subscales.
//
// The four PVQ-21 value axes, not the ten raw values, are the primary signal
// for downstream matching.
package composite

import "github.com/HendryAvila/rapport/internal/instruments"

// Mean is the unweighted arithmetic mean. It returns 0 for no values;
// callers always pass at least two subscale scores.
func Mean(values ...float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// --- Value axes ---

// Axis names one of the four higher-order Schwartz dimensions.
type Axis string

const (
	SelfTranscendence Axis = "self_transcendence"
	SelfEnhancement   Axis = "self_enhancement"
	OpennessToChange  Axis = "openness_to_change"
	Conservation      Axis = "conservation"
)

// AxisOrder is the fixed order used for iteration and tie-breaking.
var AxisOrder = []Axis{SelfTranscendence, SelfEnhancement, OpennessToChange, Conservation}

// Label returns a human-readable axis name.
func (a Axis) Label() string {
	switch a {
	case SelfTranscendence:
		return "Self-Transcendence"
	case SelfEnhancement:
		return "Self-Enhancement"
	case OpennessToChange:
		return "Openness to Change"
	case Conservation:
		return "Conservation"
	default:
		return string(a)
	}
}

// Constituents lists the PVQ-21 values averaged into each axis. Hedonism
// sits between openness and enhancement and is not part of any axis.
var Constituents = map[Axis][]instruments.Tag{
	SelfTranscendence: {instruments.TagBenevolence, instruments.TagUniversalism},
	SelfEnhancement:   {instruments.TagAchievement, instruments.TagPower},
	OpennessToChange:  {instruments.TagSelfDirection, instruments.TagStimulation},
	Conservation:      {instruments.TagSecurity, instruments.TagConformity, instruments.TagTradition},
}

// ValueAxes holds the four composite value scores on the PVQ 1-6 scale.
type ValueAxes struct {
	SelfTranscendence float64 `json:"self_transcendence"`
	SelfEnhancement   float64 `json:"self_enhancement"`
	OpennessToChange  float64 `json:"openness_to_change"`
	Conservation      float64 `json:"conservation"`
}

// Get returns the score of one axis.
func (v ValueAxes) Get(a Axis) float64 {
	switch a {
	case SelfTranscendence:
		return v.SelfTranscendence
	case SelfEnhancement:
		return v.SelfEnhancement
	case OpennessToChange:
		return v.OpennessToChange
	case Conservation:
		return v.Conservation
	default:
		return 0
	}
}

// ComposeValues derives the four value axes from a scored PVQ-21 result.
func ComposeValues(pvq instruments.Result) ValueAxes {
	axis := func(a Axis) float64 {
		tags := Constituents[a]
		vals := make([]float64, len(tags))
		for i, t := range tags {
			vals[i] = pvq.Subscale(t)
		}
		return Mean(vals...)
	}
	return ValueAxes{
		SelfTranscendence: axis(SelfTranscendence),
		SelfEnhancement:   axis(SelfEnhancement),
		OpennessToChange:  axis(OpennessToChange),
		Conservation:      axis(Conservation),
	}
}

// --- Personality view ---

// Personality is a typed view over the TIPI Big Five trait means.
type Personality struct {
	Extraversion      float64 `json:"extraversion"`
	Agreeableness     float64 `json:"agreeableness"`
	Conscientiousness float64 `json:"conscientiousness"`
	Neuroticism       float64 `json:"neuroticism"`
	Openness          float64 `json:"openness"`
}

// ComposePersonality lifts a scored TIPI result into a Personality.
func ComposePersonality(tipi instruments.Result) Personality {
	return Personality{
		Extraversion:      tipi.Subscale(instruments.TagExtraversion),
		Agreeableness:     tipi.Subscale(instruments.TagAgreeableness),
		Conscientiousness: tipi.Subscale(instruments.TagConscientiousness),
		Neuroticism:       tipi.Subscale(instruments.TagNeuroticism),
		Openness:          tipi.Subscale(instruments.TagOpenness),
	}
}

// Attachment is the pair of ECR-12 dimensions the attachment grid uses.
type Attachment struct {
	Anxiety   float64 `json:"anxiety"`
	Avoidance float64 `json:"avoidance"`
}

// ComposeAttachment extracts the attachment dimensions from an ECR-12 result.
func ComposeAttachment(ecr instruments.Result) Attachment {
	return Attachment{
		Anxiety:   ecr.Subscale(instruments.TagAnxiety),
		Avoidance: ecr.Subscale(instruments.TagAvoidance),
	}
}
