package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HendryAvila/rapport/internal/classify"
	"github.com/HendryAvila/rapport/internal/composite"
	"github.com/HendryAvila/rapport/internal/instruments"
	"github.com/HendryAvila/rapport/internal/narrate"
)

func mustRegistry(t *testing.T) *instruments.Registry {
	t.Helper()
	reg, err := instruments.NewRegistry()
	require.NoError(t, err)
	return reg
}

func TestBuild_EmptyAnswersAreNeutral(t *testing.T) {
	typ, err := Build(mustRegistry(t), nil, narrate.HistorySubstantial)
	require.NoError(t, err)

	assert.Len(t, typ.Results, 5)
	assert.Equal(t, composite.Attachment{Anxiety: 4, Avoidance: 4}, typ.Attachment)
	assert.Equal(t, classify.AttachmentLabel{Style: classify.Secure, MidRange: true}, typ.AttachmentLabel)
	assert.Equal(t, 3.0, typ.Resilience)
	assert.Equal(t, classify.Moderate, typ.ResilienceLevel)
	assert.Equal(t, 3.0, typ.Differentiation)
	assert.Equal(t, classify.Low, typ.DifferentiationLevel)
	assert.False(t, typ.Complete())

	require.Len(t, typ.Cards, 5)
	for i, id := range instruments.Order {
		assert.Equal(t, id, typ.Cards[i].Instrument)
		assert.NotEmpty(t, typ.Cards[i].Insight.Headline)
	}
}

func TestBuild_FullProfile(t *testing.T) {
	reg := mustRegistry(t)
	answers := map[instruments.ID]instruments.AnswerSet{}
	for _, in := range reg.All() {
		set := instruments.AnswerSet{}
		for _, it := range in.Items {
			set[it.ID] = in.ScaleMin
			if it.Reverse {
				set[it.ID] = in.ScaleMax
			}
		}
		answers[in.ID] = set
	}
	// Low everything except BRS, which we push high via its reverse items
	// answered at the minimum.
	brs, _ := reg.Get(instruments.BRS)
	for _, it := range brs.Items {
		if it.Reverse {
			answers[instruments.BRS][it.ID] = brs.ScaleMin
		} else {
			answers[instruments.BRS][it.ID] = brs.ScaleMax
		}
	}

	typ, err := Build(reg, answers, narrate.HistoryNone)
	require.NoError(t, err)
	assert.True(t, typ.Complete())
	assert.Equal(t, classify.Secure, typ.AttachmentLabel.Style)
	assert.False(t, typ.AttachmentLabel.MidRange)
	assert.Equal(t, classify.High, typ.ResilienceLevel)
	assert.Equal(t, 5.0, typ.Resilience)
	assert.NotEmpty(t, typ.Cards[0].Insight.CalibrationNote, "history none calibrates attachment")
	for _, c := range typ.Cards[1:] {
		assert.Empty(t, c.Insight.CalibrationNote, "only attachment carries a calibration note")
	}
}

func TestBuild_RejectsOutOfRange(t *testing.T) {
	_, err := Build(mustRegistry(t), map[instruments.ID]instruments.AnswerSet{
		instruments.BRS: {"b1": 9},
	}, narrate.HistorySubstantial)
	assert.ErrorIs(t, err, instruments.ErrOutOfRange)
}

func TestTypology_Labels(t *testing.T) {
	typ, err := Build(mustRegistry(t), nil, narrate.HistorySubstantial)
	require.NoError(t, err)
	labels := typ.Labels()
	assert.Contains(t, labels, "Attachment: Secure (mid-range)")
	assert.Contains(t, labels, "Resilience: Moderate")
	assert.NotContains(t, labels, "Value polarity tension: yes")
}
