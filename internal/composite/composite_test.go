package composite

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HendryAvila/rapport/internal/instruments"
)

func scorePVQ(t *testing.T, answers instruments.AnswerSet) instruments.Result {
	t.Helper()
	reg, err := instruments.NewRegistry()
	require.NoError(t, err)
	in, err := reg.Get(instruments.PVQ21)
	require.NoError(t, err)
	res, err := instruments.Score(in, answers)
	require.NoError(t, err)
	return res
}

func TestMean(t *testing.T) {
	assert.Equal(t, 0.0, Mean())
	assert.Equal(t, 2.5, Mean(2, 3))
	assert.Equal(t, 3.0, Mean(1, 3, 5))
}

func TestComposeValues_KnownDistinctConstituents(t *testing.T) {
	// Each value gets a distinct score; items of the same value agree.
	res := scorePVQ(t, instruments.AnswerSet{
		"p12": 6, "p18": 6, // benevolence 6
		"p3": 4, "p8": 4, "p19": 4, // universalism 4
		"p4": 3, "p13": 3, // achievement 3
		"p2": 1, "p17": 1, // power 1
		"p1": 5, "p11": 5, // self_direction 5
		"p6": 2, "p15": 2, // stimulation 2
		"p5": 6, "p14": 6, // security 6
		"p7": 3, "p16": 3, // conformity 3
		"p9": 3, "p20": 3, // tradition 3
		"p10": 1, "p21": 1, // hedonism 1, in no axis
	})

	got := ComposeValues(res)
	want := ValueAxes{
		SelfTranscendence: 5,   // mean(6, 4)
		SelfEnhancement:   2,   // mean(3, 1)
		OpennessToChange:  3.5, // mean(5, 2)
		Conservation:      4,   // mean(6, 3, 3)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ComposeValues mismatch (-want +got):\n%s", diff)
	}
}

func TestComposeValues_HedonismIgnored(t *testing.T) {
	base := ComposeValues(scorePVQ(t, instruments.AnswerSet{}))
	withHedonism := ComposeValues(scorePVQ(t, instruments.AnswerSet{"p10": 6, "p21": 6}))
	assert.Equal(t, base, withHedonism)
}

func TestComposeValues_EmptyIsNeutral(t *testing.T) {
	got := ComposeValues(scorePVQ(t, nil))
	for _, a := range AxisOrder {
		assert.Equal(t, 3.5, got.Get(a), "axis %s", a)
	}
}

func TestValueAxes_Get(t *testing.T) {
	v := ValueAxes{SelfTranscendence: 1, SelfEnhancement: 2, OpennessToChange: 3, Conservation: 4}
	for i, a := range AxisOrder {
		assert.Equal(t, float64(i+1), v.Get(a), "axis %s", a)
	}
	assert.Zero(t, v.Get(Axis("nope")))
}

func TestConstituents_CoverAxesOnly(t *testing.T) {
	require.Len(t, Constituents, 4)
	for _, a := range AxisOrder {
		assert.GreaterOrEqual(t, len(Constituents[a]), 2, "axis %s", a)
	}
}

func TestComposeAttachmentAndPersonality(t *testing.T) {
	reg, err := instruments.NewRegistry()
	require.NoError(t, err)

	ecr, _ := reg.Get(instruments.ECR12)
	ecrRes, err := instruments.Score(ecr, instruments.AnswerSet{"e1": 6, "e2": 2})
	require.NoError(t, err)
	assert.Equal(t, Attachment{Anxiety: 6, Avoidance: 2}, ComposeAttachment(ecrRes))

	tipi, _ := reg.Get(instruments.TIPI)
	tipiRes, err := instruments.Score(tipi, instruments.AnswerSet{"t4": 6, "t9": 2})
	require.NoError(t, err)
	p := ComposePersonality(tipiRes)
	assert.Equal(t, 6.0, p.Neuroticism) // t9 reverses to 6
	assert.Equal(t, 4.0, p.Openness)
}
