package narrate

import (
	"strings"
	"testing"

	"github.com/HendryAvila/rapport/internal/classify"
	"github.com/HendryAvila/rapport/internal/composite"
)

func TestParseHistory(t *testing.T) {
	tests := []struct {
		in      string
		want    History
		wantErr bool
	}{
		{"", HistorySubstantial, false},
		{"substantial", HistorySubstantial, false},
		{"limited", HistoryLimited, false},
		{"none", HistoryNone, false},
		{"lots", "", true},
	}
	for _, tt := range tests {
		got, err := ParseHistory(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseHistory(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseHistory(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

// --- Attachment ---

func TestAttachment_FiveDistinctBranches(t *testing.T) {
	labels := []classify.AttachmentLabel{
		{Style: classify.Secure},
		{Style: classify.AnxiousPreoccupied},
		{Style: classify.DismissiveAvoidant},
		{Style: classify.FearfulAvoidant},
		{Style: classify.Secure, MidRange: true},
	}
	seen := map[string]bool{}
	for _, l := range labels {
		in := Attachment(l, composite.Attachment{Anxiety: 2, Avoidance: 2}, HistorySubstantial)
		if in.Headline == "" || in.Body == "" || in.Edge == "" {
			t.Errorf("label %v produced an incomplete insight: %+v", l, in)
		}
		seen[in.Headline] = true
	}
	if len(seen) != 5 {
		t.Errorf("expected 5 distinct attachment headlines, got %d", len(seen))
	}
}

func TestAttachment_CalibrationNote(t *testing.T) {
	a := composite.Attachment{Anxiety: 2.25, Avoidance: 1.75}
	label := classify.ClassifyAttachment(a)

	substantial := Attachment(label, a, HistorySubstantial)
	if substantial.CalibrationNote != "" {
		t.Errorf("substantial history should not carry a calibration note, got %q", substantial.CalibrationNote)
	}
	if !strings.Contains(substantial.Stat, "±0.5") {
		t.Errorf("substantial Stat should state ±0.5, got %q", substantial.Stat)
	}

	for _, h := range []History{HistoryLimited, HistoryNone} {
		in := Attachment(label, a, h)
		if in.CalibrationNote == "" {
			t.Errorf("history %q should carry a calibration note", h)
		}
		if !strings.Contains(in.Stat, "±1.0") {
			t.Errorf("history %q Stat should widen to ±1.0, got %q", h, in.Stat)
		}
		// Scores themselves are unchanged.
		if !strings.Contains(in.Stat, "Anxiety 2.2") && !strings.Contains(in.Stat, "Anxiety 2.3") {
			t.Errorf("history %q altered the stated score: %q", h, in.Stat)
		}
	}
}

// --- Resilience x neuroticism ---

func TestResilience_Branches(t *testing.T) {
	tests := []struct {
		name     string
		brs, neu float64
		headline string
	}{
		{"high/low", 4.2, 2.0, "Bends without breaking"},
		{"high/high", 4.2, 6.0, "Feels it deeply, recovers anyway"},
		{"low/low", 2.0, 2.0, "Calm surface, slow recovery"},
		{"low/high", 2.0, 6.0, "Stress travels far"},
		{"moderate fallback", 3.3, 4.0, "Recovering at a steady pace"},
		{"mixed falls back", 4.2, 4.0, "Recovering at a steady pace"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := Resilience(tt.brs, tt.neu)
			if in.Headline != tt.headline {
				t.Errorf("Headline = %q, want %q", in.Headline, tt.headline)
			}
			if in.Stat == "" {
				t.Error("Stat should be populated")
			}
		})
	}
}

func TestResilience_FallbackInterpolates(t *testing.T) {
	in := Resilience(4.2, 4.0)
	if !strings.Contains(in.Body, "high") || !strings.Contains(in.Body, "moderate") {
		t.Errorf("fallback body should interpolate both levels, got %q", in.Body)
	}
}

// --- Values ---

func TestValues_FourPolarityBranches(t *testing.T) {
	tests := []struct {
		name     string
		axes     composite.ValueAxes
		headline string
	}{
		{"transcendence over enhancement", composite.ValueAxes{SelfTranscendence: 5.5, SelfEnhancement: 2, OpennessToChange: 3.5, Conservation: 3.5}, "Other-focused values"},
		{"enhancement over transcendence", composite.ValueAxes{SelfTranscendence: 2, SelfEnhancement: 5.5, OpennessToChange: 3.5, Conservation: 3.5}, "Driven by achievement"},
		{"openness tension", composite.ValueAxes{SelfTranscendence: 4, SelfEnhancement: 3.5, OpennessToChange: 5.5, Conservation: 2}, "Change versus stability"},
		{"balanced", composite.ValueAxes{SelfTranscendence: 4, SelfEnhancement: 3.5, OpennessToChange: 3.8, Conservation: 3.6}, "Balanced values"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := Values(classify.ClassifyValues(tt.axes), tt.axes)
			if in.Headline != tt.headline {
				t.Errorf("Headline = %q, want %q", in.Headline, tt.headline)
			}
		})
	}
}

func TestValues_OpennessLeanDirection(t *testing.T) {
	axes := composite.ValueAxes{SelfTranscendence: 4, SelfEnhancement: 4, OpennessToChange: 2, Conservation: 5.5}
	in := Values(classify.ClassifyValues(axes), axes)
	if !strings.HasPrefix(in.Body, "You lean strongly toward security") {
		t.Errorf("Body = %q, want conservation lean", in.Body)
	}
}

// --- Differentiation / personality ---

func TestDifferentiation_ThreeBranches(t *testing.T) {
	seen := map[string]bool{}
	for _, v := range []float64{6.0, 3.8, 2.0} {
		seen[Differentiation(v).Headline] = true
	}
	if len(seen) != 3 {
		t.Errorf("expected 3 distinct differentiation headlines, got %d", len(seen))
	}
	if got := Differentiation(6.0).Stat; !strings.Contains(got, "High") {
		t.Errorf("Stat = %q, want High", got)
	}
}

func TestPersonality_DominantTrait(t *testing.T) {
	in := Personality(composite.Personality{Extraversion: 3, Agreeableness: 4, Conscientiousness: 6.5, Neuroticism: 2, Openness: 5})
	if in.Headline != "Dependable and organised" {
		t.Errorf("Headline = %q", in.Headline)
	}
	for _, tr := range classify.TraitOrder {
		if traitBranches[tr].Headline == "" {
			t.Errorf("trait %s has no branch", tr)
		}
	}
}
