package coverage

import (
	"github.com/HendryAvila/rapport/internal/interview"
	"github.com/HendryAvila/rapport/internal/pillar"
)

// ConstructStatus is one row of the coverage report.
type ConstructStatus struct {
	ID      pillar.ID `json:"id"`
	Name    string    `json:"name"`
	Hits    int       `json:"hits"`
	Covered bool      `json:"covered"`
}

// Report summarises coverage across the interviewed constructs.
type Report struct {
	Constructs    []ConstructStatus `json:"constructs"`
	CoveredCount  int               `json:"covered_count"`
	Total         int               `json:"total"`
	Percent       int               `json:"percent"`
	TurnsObserved int               `json:"turns_observed"`
	Adequate      bool              `json:"adequate"`
}

// Tracker accumulates construct hits turn by turn. It is owned by one
// session and is not safe for concurrent use.
type Tracker struct {
	classifier TextClassifier
	minHits    int
	hits       map[pillar.ID]int
	turns      int
}

// NewTracker returns a tracker. A nil classifier uses the keyword
// classifier; minHits below 1 is treated as 1.
func NewTracker(c TextClassifier, minHits int) *Tracker {
	if c == nil {
		c = NewKeywordClassifier()
	}
	if minHits < 1 {
		minHits = 1
	}
	return &Tracker{classifier: c, minHits: minHits, hits: make(map[pillar.ID]int)}
}

// Replay builds a tracker and observes every turn in order.
func Replay(c TextClassifier, minHits int, turns []interview.Turn) *Tracker {
	t := NewTracker(c, minHits)
	for _, turn := range turns {
		t.Observe(turn)
	}
	return t
}

// Observe tags one turn, interviewer or respondent, and returns its tags.
// Tags outside the interviewed set are ignored.
func (t *Tracker) Observe(turn interview.Turn) []pillar.ID {
	t.turns++
	var tags []pillar.ID
	for _, id := range t.classifier.Classify(turn.Content) {
		if !id.IsInterviewed() {
			continue
		}
		t.hits[id]++
		tags = append(tags, id)
	}
	return tags
}

// Hits returns how many turns touched id.
func (t *Tracker) Hits(id pillar.ID) int { return t.hits[id] }

// Covered returns constructs hit at least once, in id order.
func (t *Tracker) Covered() []pillar.ID {
	set := make(map[pillar.ID]bool, len(t.hits))
	for id, n := range t.hits {
		set[id] = n > 0
	}
	return pillar.Sorted(set)
}

// Uncovered returns interviewed constructs below the adequacy threshold.
func (t *Tracker) Uncovered() []pillar.ID {
	var out []pillar.ID
	for _, id := range pillar.Interviewed() {
		if t.hits[id] < t.minHits {
			out = append(out, id)
		}
	}
	return out
}

// Adequate reports whether every interviewed construct has at least
// minHits tagged turns.
func (t *Tracker) Adequate() bool { return len(t.Uncovered()) == 0 }

// Progress builds the coverage report.
func (t *Tracker) Progress() Report {
	ids := pillar.Interviewed()
	r := Report{Total: len(ids), TurnsObserved: t.turns}
	for _, id := range ids {
		n := t.hits[id]
		st := ConstructStatus{ID: id, Name: id.Name(), Hits: n, Covered: n >= t.minHits}
		if st.Covered {
			r.CoveredCount++
		}
		r.Constructs = append(r.Constructs, st)
	}
	if r.Total > 0 {
		r.Percent = r.CoveredCount * 100 / r.Total
	}
	r.Adequate = r.CoveredCount == r.Total
	return r
}

// TagTranscript tags every turn independently. It yields the same tags as
// feeding the turns to a Tracker one at a time.
func TagTranscript(c TextClassifier, turns []interview.Turn) [][]pillar.ID {
	if c == nil {
		c = NewKeywordClassifier()
	}
	out := make([][]pillar.ID, len(turns))
	for i, turn := range turns {
		for _, id := range c.Classify(turn.Content) {
			if id.IsInterviewed() {
				out[i] = append(out[i], id)
			}
		}
	}
	return out
}
