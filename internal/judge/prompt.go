// Package judge builds the text contracts sent to the external scoring
// model and parses what comes back.
//
// Nothing here calls a model. Prompt building is pure templating; parsing
// tolerates the usual model noise and degrades to a documented neutral
// fallback instead of surfacing an error to the end user.
package judge

import (
	"fmt"

	"github.com/HendryAvila/rapport/internal/composite"
	"github.com/HendryAvila/rapport/internal/coverage"
	"github.com/HendryAvila/rapport/internal/evidence"
	"github.com/HendryAvila/rapport/internal/instruments"
	"github.com/HendryAvila/rapport/internal/interview"
	"github.com/HendryAvila/rapport/internal/pillar"
	"github.com/HendryAvila/rapport/internal/profile"
	"github.com/HendryAvila/rapport/internal/templates"
)

// Builder renders scoring and algorithm prompts.
type Builder struct {
	registry *instruments.Registry
	renderer templates.Renderer
}

// NewBuilder creates a prompt builder.
func NewBuilder(reg *instruments.Registry, r templates.Renderer) *Builder {
	return &Builder{registry: reg, renderer: r}
}

// ScoringOptions controls the scoring prompt.
type ScoringOptions struct {
	// Itemised embeds question/answer pairs instead of the raw transcript.
	Itemised bool
	// Grades overrides the evidence grades; nil grades the transcript with
	// the keyword classifier.
	Grades []evidence.Grade
}

// BuildScoringPrompt renders the interview scoring prompt.
func (b *Builder) BuildScoringPrompt(tr *interview.Transcript, typ *profile.Typology, opts ScoringOptions) (string, error) {
	if tr == nil || tr.Len() == 0 {
		return "", fmt.Errorf("building scoring prompt: %w", interview.ErrEmptyContent)
	}
	grades := opts.Grades
	if grades == nil {
		grades = evidence.GradeTranscript(tr.Turns(), nil)
	}

	data := templates.ScoringData{
		Instruments:     b.instrumentRows(typ),
		ValueAxes:       axisRows(typ.Values),
		Labels:          typ.Labels(),
		History:         string(typ.History),
		Calibrated:      typ.History.Calibrated(),
		CalibrationBand: typ.History.Band(),
		Itemised:        opts.Itemised,
		Transcript:      tr.Render(),
		Pillars:         pillarRows(pillar.Interviewed()),
		Evidence:        evidenceRows(grades),
	}
	for _, qa := range tr.Pairs() {
		data.QA = append(data.QA, templates.QARow{Question: qa.Question, Answer: qa.Answer})
	}

	out, err := b.renderer.Render(templates.Scoring, data)
	if err != nil {
		return "", fmt.Errorf("building scoring prompt: %w", err)
	}
	return out, nil
}

// BuildAlgorithmPrompt renders the nine-pillar profile prompt from the
// typology and the answers grouped by pillar. Pillars without answers are
// still listed so the model scores them from the typology alone.
func (b *Builder) BuildAlgorithmPrompt(typ *profile.Typology, answers map[pillar.ID][]interview.QAPair) (string, error) {
	data := templates.AlgorithmData{
		Instruments: b.instrumentRows(typ),
		ValueAxes:   axisRows(typ.Values),
		Labels:      typ.Labels(),
		Calibrated:  typ.History.Calibrated(),
	}
	for _, p := range pillar.All() {
		row := templates.PillarAnswers{ID: int(p.ID), Name: p.Name, Weight: p.Weight}
		for _, qa := range answers[p.ID] {
			row.Answers = append(row.Answers, templates.QARow{Question: qa.Question, Answer: qa.Answer})
		}
		data.Pillars = append(data.Pillars, row)
	}

	out, err := b.renderer.Render(templates.Algorithm, data)
	if err != nil {
		return "", fmt.Errorf("building algorithm prompt: %w", err)
	}
	return out, nil
}

// --- Rows ---

func (b *Builder) instrumentRows(typ *profile.Typology) []templates.InstrumentRow {
	labels := map[instruments.ID]string{
		instruments.ECR12: typ.AttachmentLabel.String(),
		instruments.TIPI:  "dominant " + string(typ.DominantTrait),
		instruments.DSISF: string(typ.DifferentiationLevel) + " differentiation",
		instruments.BRS:   string(typ.ResilienceLevel) + " resilience",
		instruments.PVQ21: "dominant " + typ.ValuesLabel.Dominant.Label(),
	}
	var rows []templates.InstrumentRow
	for _, in := range b.registry.All() {
		res, ok := typ.Results[in.ID]
		if !ok {
			continue
		}
		row := templates.InstrumentRow{Name: in.ID.Short(), Label: labels[in.ID]}
		for _, tag := range in.Tags {
			row.Subscales = append(row.Subscales, templates.ScoreRow{Name: string(tag), Value: res.Subscale(tag)})
		}
		rows = append(rows, row)
	}
	return rows
}

func axisRows(v composite.ValueAxes) []templates.ScoreRow {
	rows := make([]templates.ScoreRow, 0, len(composite.AxisOrder))
	for _, a := range composite.AxisOrder {
		rows = append(rows, templates.ScoreRow{Name: a.Label(), Value: v.Get(a)})
	}
	return rows
}

func pillarRows(ids []pillar.ID) []templates.PillarRow {
	rows := make([]templates.PillarRow, 0, len(ids))
	for _, id := range ids {
		p, ok := pillar.Get(id)
		if !ok {
			continue
		}
		rows = append(rows, templates.PillarRow{ID: int(p.ID), Name: p.Name, Weight: p.Weight, Description: p.Description})
	}
	return rows
}

func evidenceRows(grades []evidence.Grade) []templates.EvidenceRow {
	rows := make([]templates.EvidenceRow, 0, len(grades))
	for _, g := range grades {
		rows = append(rows, templates.EvidenceRow{
			ID:       int(g.Construct),
			Name:     g.Construct.Name(),
			Guidance: g.Guidance(),
			Quotes:   g.Quotes,
		})
	}
	return rows
}

// GroupAnswers files each question/answer pair under every construct its
// question or answer touches. Untagged pairs are dropped.
func GroupAnswers(pairs []interview.QAPair, c coverage.TextClassifier) map[pillar.ID][]interview.QAPair {
	if c == nil {
		c = coverage.NewKeywordClassifier()
	}
	out := make(map[pillar.ID][]interview.QAPair)
	for _, qa := range pairs {
		for _, id := range c.Classify(qa.Question + "\n" + qa.Answer) {
			out[id] = append(out[id], qa)
		}
	}
	return out
}
