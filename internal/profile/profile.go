// Package profile assembles a person's typology: every instrument scored,
// composed, classified and narrated in one pass.
package profile

import (
	"fmt"

	"github.com/HendryAvila/rapport/internal/classify"
	"github.com/HendryAvila/rapport/internal/composite"
	"github.com/HendryAvila/rapport/internal/instruments"
	"github.com/HendryAvila/rapport/internal/narrate"
)

// Card is one narrated insight tied to its instrument.
type Card struct {
	Instrument instruments.ID  `json:"instrument"`
	Insight    narrate.Insight `json:"insight"`
}

// Typology is the deterministic part of a relational profile.
type Typology struct {
	Results map[instruments.ID]instruments.Result `json:"results"`
	History narrate.History                       `json:"history"`

	Attachment      composite.Attachment     `json:"attachment"`
	AttachmentLabel classify.AttachmentLabel `json:"attachment_label"`

	Personality   composite.Personality `json:"personality"`
	DominantTrait classify.Trait        `json:"dominant_trait"`
	Neuroticism   classify.Level        `json:"neuroticism_level"`

	Differentiation      float64        `json:"differentiation"`
	DifferentiationLevel classify.Level `json:"differentiation_level"`

	Resilience      float64        `json:"resilience"`
	ResilienceLevel classify.Level `json:"resilience_level"`

	Values      composite.ValueAxes  `json:"values"`
	ValuesLabel classify.ValuesLabel `json:"values_label"`

	Cards []Card `json:"cards"`
}

// Build scores every instrument in canonical order. Instruments missing
// from answers are scored as empty and fall back to their neutral
// defaults.
func Build(reg *instruments.Registry, answers map[instruments.ID]instruments.AnswerSet, history narrate.History) (*Typology, error) {
	t := &Typology{Results: make(map[instruments.ID]instruments.Result, len(instruments.Order)), History: history}
	for _, in := range reg.All() {
		res, err := instruments.Score(in, answers[in.ID])
		if err != nil {
			return nil, fmt.Errorf("scoring %s: %w", in.ID, err)
		}
		t.Results[in.ID] = res
	}

	t.Attachment = composite.ComposeAttachment(t.Results[instruments.ECR12])
	t.AttachmentLabel = classify.ClassifyAttachment(t.Attachment)

	t.Personality = composite.ComposePersonality(t.Results[instruments.TIPI])
	t.DominantTrait = classify.DominantTrait(t.Personality)
	t.Neuroticism = classify.Neuroticism(t.Personality.Neuroticism)

	t.Differentiation = t.Results[instruments.DSISF].Overall
	t.DifferentiationLevel = classify.Differentiation(t.Differentiation)

	t.Resilience = t.Results[instruments.BRS].Overall
	t.ResilienceLevel = classify.Resilience(t.Resilience)

	t.Values = composite.ComposeValues(t.Results[instruments.PVQ21])
	t.ValuesLabel = classify.ClassifyValues(t.Values)

	t.Cards = []Card{
		{instruments.ECR12, narrate.Attachment(t.AttachmentLabel, t.Attachment, history)},
		{instruments.TIPI, narrate.Personality(t.Personality)},
		{instruments.DSISF, narrate.Differentiation(t.Differentiation)},
		{instruments.BRS, narrate.Resilience(t.Resilience, t.Personality.Neuroticism)},
		{instruments.PVQ21, narrate.Values(t.ValuesLabel, t.Values)},
	}
	return t, nil
}

// Labels lists the classification labels in a fixed order.
func (t *Typology) Labels() []string {
	labels := []string{
		"Attachment: " + t.AttachmentLabel.String(),
		"Dominant trait: " + string(t.DominantTrait),
		"Neuroticism: " + string(t.Neuroticism),
		"Differentiation: " + string(t.DifferentiationLevel),
		"Resilience: " + string(t.ResilienceLevel),
		"Dominant value axis: " + t.ValuesLabel.Dominant.Label(),
		"Least dominant value axis: " + t.ValuesLabel.Least.Label(),
	}
	if t.ValuesLabel.Tension() {
		labels = append(labels, "Value polarity tension: yes")
	}
	return labels
}

// Complete reports whether every instrument was fully answered.
func (t *Typology) Complete() bool {
	for _, r := range t.Results {
		if !r.Complete() {
			return false
		}
	}
	return len(t.Results) == len(instruments.Order)
}
