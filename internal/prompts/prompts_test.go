package prompts

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/rapport/internal/coverage"
	"github.com/HendryAvila/rapport/internal/interview"
	"github.com/HendryAvila/rapport/internal/narrate"
	"github.com/HendryAvila/rapport/internal/pillar"
	"github.com/HendryAvila/rapport/internal/store"
	"github.com/HendryAvila/rapport/internal/templates"
)

func newInterviewPrompt(t *testing.T) (*InterviewPrompt, *store.Store) {
	t.Helper()
	s, err := store.New(store.Config{DataDir: t.TempDir()})
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	r, err := templates.NewRenderer()
	if err != nil {
		t.Fatalf("renderer: %v", err)
	}
	return NewInterviewPrompt(s, r, nil, 1), s
}

func promptText(t *testing.T, res *mcp.GetPromptResult) string {
	t.Helper()
	if res == nil || len(res.Messages) == 0 {
		t.Fatal("empty prompt result")
	}
	tc, ok := res.Messages[0].Content.(mcp.TextContent)
	if !ok {
		t.Fatalf("content is %T, want TextContent", res.Messages[0].Content)
	}
	return tc.Text
}

func TestInterviewPrompt_FreshSession(t *testing.T) {
	p, _ := newInterviewPrompt(t)
	res, err := p.Handle(context.Background(), mcp.GetPromptRequest{})
	if err != nil {
		t.Fatalf("Handle() error: %v", err)
	}
	text := promptText(t, res)

	for _, want := range []string{"## Still to cover", "- Conflict & Repair:", "- Stress Resilience:", "## Scenarios", "rapport_start_session"} {
		if !strings.Contains(text, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
	if strings.Contains(text, "## Already covered") {
		t.Error("fresh session has nothing covered")
	}
}

func TestInterviewPrompt_ResumesSession(t *testing.T) {
	p, s := newInterviewPrompt(t)
	sess, err := s.CreateSession(narrate.HistoryNone)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.AppendTurn(sess.ID, interview.Turn{Role: interview.Interviewer, Content: "Tell me about a recent argument."}); err != nil {
		t.Fatal(err)
	}

	req := mcp.GetPromptRequest{}
	req.Params.Arguments = map[string]string{"session_id": sess.ID}
	res, err := p.Handle(context.Background(), req)
	if err != nil {
		t.Fatalf("Handle() error: %v", err)
	}
	text := promptText(t, res)

	if !strings.Contains(text, "## Already covered\n\n- Conflict & Repair") {
		t.Errorf("conflict should be listed as covered:\n%s", text)
	}
	if strings.Contains(text, "- Conflict & Repair:") {
		t.Error("conflict should no longer be listed as still to cover")
	}
	if !strings.Contains(text, "limited relationship history") {
		t.Error("history none should add the calibration note")
	}
	if !strings.Contains(text, "session_id='"+sess.ID+"'") {
		t.Error("prompt should carry the session id")
	}
}

func TestInterviewPrompt_UnknownSession(t *testing.T) {
	p, _ := newInterviewPrompt(t)
	req := mcp.GetPromptRequest{}
	req.Params.Arguments = map[string]string{"session_id": "missing"}
	if _, err := p.Handle(context.Background(), req); err == nil {
		t.Fatal("expected error for unknown session")
	}
}

func TestStatusPrompt(t *testing.T) {
	p := NewStatusPrompt()
	if p.Definition().Name != "rapport-status" {
		t.Errorf("Name = %q", p.Definition().Name)
	}

	req := mcp.GetPromptRequest{}
	req.Params.Arguments = map[string]string{"session_id": "abc"}
	res, err := p.Handle(context.Background(), req)
	if err != nil {
		t.Fatalf("Handle() error: %v", err)
	}
	text := promptText(t, res)
	for _, tool := range []string{"rapport_score_instrument", "rapport_coverage", "rapport_grade_evidence"} {
		if !strings.Contains(text, tool) {
			t.Errorf("status prompt should mention %s", tool)
		}
	}
	if !strings.Contains(text, "session_id='abc'") {
		t.Error("status prompt should carry the session id")
	}

	if _, err := p.Handle(context.Background(), mcp.GetPromptRequest{}); err == nil {
		t.Error("expected error without session_id")
	}
}

func TestInterviewerData_CoveredHonoursMinHits(t *testing.T) {
	turns := []interview.Turn{
		{Role: interview.Interviewer, Content: "Tell me about a recent argument."},
	}
	data, err := interviewerData(coverage.Replay(nil, 2, turns), narrate.HistorySubstantial, 2)
	if err != nil {
		t.Fatalf("interviewerData() error: %v", err)
	}
	if len(data.Covered) != 0 {
		t.Errorf("Covered = %v, want none below two hits", data.Covered)
	}
	if len(data.Uncovered) != len(pillar.Interviewed()) {
		t.Fatalf("Uncovered has %d rows, want %d", len(data.Uncovered), len(pillar.Interviewed()))
	}
	if data.Uncovered[0].ID != int(pillar.ConflictRepair) {
		t.Errorf("first uncovered = %d, want conflict", data.Uncovered[0].ID)
	}

	turns = append(turns, interview.Turn{Role: interview.Respondent, Content: "We argued about the dishes."})
	data, err = interviewerData(coverage.Replay(nil, 2, turns), narrate.HistorySubstantial, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(data.Covered) != 1 || data.Covered[0].ID != int(pillar.ConflictRepair) {
		t.Errorf("Covered = %v, want only conflict", data.Covered)
	}
	for _, row := range data.Uncovered {
		if row.ID == int(pillar.ConflictRepair) {
			t.Error("conflict listed as both covered and uncovered")
		}
	}
}
