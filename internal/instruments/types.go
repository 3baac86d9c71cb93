// Package instruments holds the psychometric item banks and the scorer that
// turns raw answers into subscale means.
//
// The banks are data, not behavior: each instrument is defined once in an
// embedded YAML file under bank/ and loaded into a Registry at startup.
// Scoring is a pure function of an Instrument and an AnswerSet.
package instruments

import (
	"errors"
	"fmt"
)

// --- Instrument identifiers ---

// ID names one of the five supported instruments.
type ID string

const (
	ECR12 ID = "ecr12" // attachment anxiety / avoidance
	TIPI  ID = "tipi"  // Big Five, two items per trait
	DSISF ID = "dsisf" // differentiation of self
	BRS   ID = "brs"   // brief resilience
	PVQ21 ID = "pvq21" // Schwartz basic values
)

// Order is the canonical presentation order of the instruments.
var Order = []ID{ECR12, TIPI, DSISF, BRS, PVQ21}

// Short returns the conventional abbreviation, e.g. "ECR-12".
func (id ID) Short() string {
	switch id {
	case ECR12:
		return "ECR-12"
	case TIPI:
		return "TIPI"
	case DSISF:
		return "DSI-SF"
	case BRS:
		return "BRS"
	case PVQ21:
		return "PVQ-21"
	default:
		return string(id)
	}
}

// ParseID normalizes s into an ID, returning ErrUnknownInstrument when it
// does not name a supported instrument.
func ParseID(s string) (ID, error) {
	for _, id := range Order {
		if string(id) == s {
			return id, nil
		}
	}
	return "", fmt.Errorf("%w: %q (must be one of: ecr12, tipi, dsisf, brs, pvq21)", ErrUnknownInstrument, s)
}

// --- Subscale tags ---

// Tag names a subscale, trait or value that items are grouped under.
type Tag string

const (
	TagAnxiety   Tag = "anxiety"
	TagAvoidance Tag = "avoidance"

	TagExtraversion      Tag = "extraversion"
	TagAgreeableness     Tag = "agreeableness"
	TagConscientiousness Tag = "conscientiousness"
	TagNeuroticism       Tag = "neuroticism"
	TagOpenness          Tag = "openness"

	TagEmotionalReactivity Tag = "emotional_reactivity"
	TagIPosition           Tag = "i_position"
	TagEmotionalCutoff     Tag = "emotional_cutoff"
	TagFusionWithOthers    Tag = "fusion_with_others"

	TagResilience Tag = "resilience"

	TagSelfDirection Tag = "self_direction"
	TagPower         Tag = "power"
	TagUniversalism  Tag = "universalism"
	TagAchievement   Tag = "achievement"
	TagSecurity      Tag = "security"
	TagStimulation   Tag = "stimulation"
	TagConformity    Tag = "conformity"
	TagTradition     Tag = "tradition"
	TagHedonism      Tag = "hedonism"
	TagBenevolence   Tag = "benevolence"
)

// --- Core data structures ---

// Item is a single questionnaire statement.
type Item struct {
	ID      string `yaml:"id" json:"id"`
	Text    string `yaml:"text" json:"text"`
	Tag     Tag    `yaml:"tag" json:"tag"`
	Reverse bool   `yaml:"reverse" json:"reverse"`
}

// Instrument is an immutable item bank with its scale bounds.
type Instrument struct {
	ID       ID      `yaml:"id" json:"id"`
	Name     string  `yaml:"name" json:"name"`
	ScaleMin int     `yaml:"scale_min" json:"scale_min"`
	ScaleMax int     `yaml:"scale_max" json:"scale_max"`
	Neutral  float64 `yaml:"neutral" json:"neutral"` // score used for a tag with no answered items
	Anchors  string  `yaml:"anchors" json:"anchors"`
	Tags     []Tag   `yaml:"tags" json:"tags"`
	Items    []Item  `yaml:"items" json:"items"`
}

// Item returns the item with the given id.
func (in *Instrument) Item(id string) (Item, bool) {
	for _, it := range in.Items {
		if it.ID == id {
			return it, true
		}
	}
	return Item{}, false
}

// ReverseItems returns the ids of the reverse-coded items in bank order.
func (in *Instrument) ReverseItems() []string {
	var ids []string
	for _, it := range in.Items {
		if it.Reverse {
			ids = append(ids, it.ID)
		}
	}
	return ids
}

// AnswerSet maps item ids to raw integer answers. Unanswered items are
// absent keys, never zero placeholders.
type AnswerSet map[string]int

// Result is the scored output of one instrument.
type Result struct {
	Instrument ID              `json:"instrument"`
	Subscales  map[Tag]float64 `json:"subscales"`
	// Overall is the mean over every answered item after reversal. It is the
	// reported score for single-factor instruments such as BRS and DSI-SF.
	Overall  float64 `json:"overall"`
	Answered int     `json:"answered"`
	Total    int     `json:"total"`
	// Defaulted lists tags that fell back to the neutral default because no
	// item of that tag was answered.
	Defaulted []Tag `json:"defaulted,omitempty"`
}

// Subscale returns the score for tag, or 0 if the tag is not part of the
// instrument.
func (r Result) Subscale(tag Tag) float64 {
	return r.Subscales[tag]
}

// Complete reports whether every item was answered.
func (r Result) Complete() bool {
	return r.Answered == r.Total
}

// --- Errors ---

var (
	ErrUnknownInstrument = errors.New("unknown instrument")
	ErrUnknownItem       = errors.New("unknown item")
	ErrOutOfRange        = errors.New("answer out of range")
)

// AnswerError describes a rejected answer. It wraps ErrUnknownItem or
// ErrOutOfRange so callers can use errors.Is.
type AnswerError struct {
	Instrument ID
	ItemID     string
	Value      int
	Min, Max   int
	Err        error
}

func (e *AnswerError) Error() string {
	if errors.Is(e.Err, ErrOutOfRange) {
		return fmt.Sprintf("%s item %s: %v: %d not in [%d, %d]", e.Instrument, e.ItemID, e.Err, e.Value, e.Min, e.Max)
	}
	return fmt.Sprintf("%s item %s: %v", e.Instrument, e.ItemID, e.Err)
}

func (e *AnswerError) Unwrap() error { return e.Err }
