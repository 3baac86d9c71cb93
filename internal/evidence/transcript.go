package evidence

import (
	"github.com/HendryAvila/rapport/internal/coverage"
	"github.com/HendryAvila/rapport/internal/interview"
	"github.com/HendryAvila/rapport/internal/pillar"
)

// Spans splits a transcript into per-construct spans. An interviewer turn
// that is tagged with constructs (or presents a construct's scenario)
// opens those constructs; later untagged turns belong to whatever the
// interviewer last opened. Respondent turns also join any construct they
// touch themselves.
func Spans(turns []interview.Turn, c coverage.TextClassifier) map[pillar.ID][]interview.Turn {
	if c == nil {
		c = coverage.NewKeywordClassifier()
	}
	tags := coverage.TagTranscript(c, turns)
	spans := make(map[pillar.ID][]interview.Turn)
	var active []pillar.ID

	for i, turn := range turns {
		own := tags[i]
		if turn.Role == interview.Interviewer {
			if id, ok := scenarioFor(normalize(turn.Content)); ok {
				own = []pillar.ID{id}
			}
			if len(own) > 0 {
				active = own
			}
		}
		set := make(map[pillar.ID]bool, len(own)+len(active))
		for _, id := range active {
			set[id] = true
		}
		for _, id := range own {
			set[id] = true
		}
		for _, id := range pillar.Sorted(set) {
			spans[id] = append(spans[id], turn)
		}
	}
	return spans
}

// GradeTranscript grades every interviewed construct, in id order.
// Constructs the conversation never reached grade as genuine absence.
func GradeTranscript(turns []interview.Turn, c coverage.TextClassifier) []Grade {
	spans := Spans(turns, c)
	ids := pillar.Interviewed()
	out := make([]Grade, 0, len(ids))
	for _, id := range ids {
		out = append(out, GradeSpan(id, spans[id]))
	}
	return out
}
