package store

import (
	"database/sql"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/HendryAvila/rapport/internal/instruments"
	"github.com/HendryAvila/rapport/internal/interview"
	"github.com/HendryAvila/rapport/internal/narrate"
)

// newTestStore creates a Store backed by a temp directory for isolation.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(Config{DataDir: t.TempDir()})
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func newTestSession(t *testing.T, s *Store) *Session {
	t.Helper()
	sess, err := s.CreateSession("")
	if err != nil {
		t.Fatalf("CreateSession() error: %v", err)
	}
	return sess
}

// ─── New / Initialization ───────────────────────────────────────────────────

func TestNew_OpenError(t *testing.T) {
	orig := openDB
	t.Cleanup(func() { openDB = orig })
	openDB = func(driver, dsn string) (*sql.DB, error) {
		return nil, errors.New("boom")
	}

	if _, err := New(Config{DataDir: t.TempDir()}); err == nil {
		t.Fatal("expected error when open fails")
	}
}

func TestNew_IdempotentReopen(t *testing.T) {
	dir := t.TempDir()
	s1, err := New(Config{DataDir: dir})
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	sess, err := s1.CreateSession(narrate.HistoryLimited)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	s1.Close()

	s2, err := New(Config{DataDir: dir})
	if err != nil {
		t.Fatalf("second open: %v", err)
	}
	defer s2.Close()
	got, err := s2.GetSession(sess.ID)
	if err != nil {
		t.Fatalf("GetSession after reopen: %v", err)
	}
	if got.History != narrate.HistoryLimited {
		t.Errorf("History = %q, want limited", got.History)
	}
}

// ─── Sessions ────────────────────────────────────────────────────────────────

func TestCreateSession_DefaultsAndClock(t *testing.T) {
	orig := timeNow
	t.Cleanup(func() { timeNow = orig })
	timeNow = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }

	s := newTestStore(t)
	sess := newTestSession(t, s)

	if sess.ID == "" {
		t.Fatal("expected generated id")
	}
	if sess.History != narrate.HistorySubstantial {
		t.Errorf("History = %q, want substantial", sess.History)
	}
	if sess.CreatedAt != "2026-03-01 12:00:00" {
		t.Errorf("CreatedAt = %q", sess.CreatedAt)
	}
}

func TestGetSession_NotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.GetSession("missing")
	if !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("err = %v, want ErrSessionNotFound", err)
	}
}

func TestSetHistory(t *testing.T) {
	s := newTestStore(t)
	sess := newTestSession(t, s)

	if err := s.SetHistory(sess.ID, narrate.HistoryNone); err != nil {
		t.Fatalf("SetHistory() error: %v", err)
	}
	got, err := s.GetSession(sess.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.History != narrate.HistoryNone {
		t.Errorf("History = %q, want none", got.History)
	}

	if err := s.SetHistory("missing", narrate.HistoryNone); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("err = %v, want ErrSessionNotFound", err)
	}
}

// ─── Turns ───────────────────────────────────────────────────────────────────

func TestAppendTurn_OrderAndTranscript(t *testing.T) {
	s := newTestStore(t)
	sess := newTestSession(t, s)

	turns := []interview.Turn{
		{Role: interview.Interviewer, Content: "How do you handle disagreements?"},
		{Role: interview.Respondent, Content: "I try to listen first."},
		{Role: interview.Interviewer, Content: "Can you give an example?"},
	}
	for i, turn := range turns {
		seq, err := s.AppendTurn(sess.ID, turn)
		if err != nil {
			t.Fatalf("AppendTurn(%d) error: %v", i, err)
		}
		if seq != i {
			t.Errorf("seq = %d, want %d", seq, i)
		}
	}

	tr, err := s.Transcript(sess.ID)
	if err != nil {
		t.Fatalf("Transcript() error: %v", err)
	}
	if tr.Len() != len(turns) {
		t.Fatalf("Len() = %d, want %d", tr.Len(), len(turns))
	}
	for i, got := range tr.Turns() {
		if want := turns[i]; got != want {
			t.Errorf("turn %d = %+v, want %+v", i, got, want)
		}
	}
}

func TestAppendTurn_Rejects(t *testing.T) {
	s := newTestStore(t)
	sess := newTestSession(t, s)

	if _, err := s.AppendTurn(sess.ID, interview.Turn{Role: interview.Respondent, Content: "  "}); !errors.Is(err, interview.ErrEmptyContent) {
		t.Errorf("empty content: err = %v", err)
	}
	if _, err := s.AppendTurn(sess.ID, interview.Turn{Role: "narrator", Content: "hi"}); !errors.Is(err, interview.ErrInvalidRole) {
		t.Errorf("bad role: err = %v", err)
	}
	if _, err := s.AppendTurn("missing", interview.Turn{Role: interview.Respondent, Content: "hi"}); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("missing session: err = %v", err)
	}
}

func TestAppendTurn_Concurrent(t *testing.T) {
	s := newTestStore(t)
	sess := newTestSession(t, s)

	const n = 20
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.AppendTurn(sess.ID, interview.Turn{Role: interview.Respondent, Content: "yes"}); err != nil {
				t.Errorf("AppendTurn error: %v", err)
			}
		}()
	}
	wg.Wait()

	tr, err := s.Transcript(sess.ID)
	if err != nil {
		t.Fatal(err)
	}
	if tr.Len() != n {
		t.Errorf("Len() = %d, want %d", tr.Len(), n)
	}
}

func TestTranscript_Empty(t *testing.T) {
	s := newTestStore(t)
	sess := newTestSession(t, s)

	tr, err := s.Transcript(sess.ID)
	if err != nil {
		t.Fatal(err)
	}
	if tr.Len() != 0 {
		t.Errorf("Len() = %d, want 0", tr.Len())
	}
}

// ─── Answers ─────────────────────────────────────────────────────────────────

func TestPutAnswer_UpsertAndGroup(t *testing.T) {
	s := newTestStore(t)
	sess := newTestSession(t, s)

	puts := []struct {
		inst  instruments.ID
		item  string
		value int
	}{
		{instruments.BRS, "b1", 4},
		{instruments.BRS, "b2", 2},
		{instruments.TIPI, "t1", 6},
		{instruments.BRS, "b1", 5}, // revised
	}
	for _, p := range puts {
		if err := s.PutAnswer(sess.ID, p.inst, p.item, p.value); err != nil {
			t.Fatalf("PutAnswer(%s, %s) error: %v", p.inst, p.item, err)
		}
	}

	got, err := s.Answers(sess.ID)
	if err != nil {
		t.Fatalf("Answers() error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("instruments = %d, want 2", len(got))
	}
	if got[instruments.BRS]["b1"] != 5 || got[instruments.BRS]["b2"] != 2 {
		t.Errorf("BRS answers = %v", got[instruments.BRS])
	}
	if got[instruments.TIPI]["t1"] != 6 {
		t.Errorf("TIPI answers = %v", got[instruments.TIPI])
	}
}

func TestAnswers_MissingSession(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.Answers("missing"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("err = %v, want ErrSessionNotFound", err)
	}
	if err := s.PutAnswer("missing", instruments.BRS, "b1", 3); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("err = %v, want ErrSessionNotFound", err)
	}
}
