// Package prompts implements the MCP prompt handlers.
//
// MCP prompts are user-triggered workflows (like slash commands) that
// instruct the AI to execute a specific sequence. Unlike tools (which
// the AI calls), prompts are initiated by the user.
package prompts

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/rapport/internal/coverage"
	"github.com/HendryAvila/rapport/internal/evidence"
	"github.com/HendryAvila/rapport/internal/interview"
	"github.com/HendryAvila/rapport/internal/narrate"
	"github.com/HendryAvila/rapport/internal/pillar"
	"github.com/HendryAvila/rapport/internal/store"
	"github.com/HendryAvila/rapport/internal/templates"
)

// SessionReader is the read side of the session store.
type SessionReader interface {
	GetSession(id string) (*store.Session, error)
	Transcript(sessionID string) (*interview.Transcript, error)
}

// InterviewPrompt handles the rapport-interview MCP prompt.
// It renders the interviewer system prompt with the constructs the
// session has not yet covered and the canned scenarios.
type InterviewPrompt struct {
	store      SessionReader
	renderer   templates.Renderer
	classifier coverage.TextClassifier
	minHits    int
}

// NewInterviewPrompt creates an InterviewPrompt.
func NewInterviewPrompt(s SessionReader, r templates.Renderer, c coverage.TextClassifier, minHits int) *InterviewPrompt {
	return &InterviewPrompt{store: s, renderer: r, classifier: c, minHits: minHits}
}

// Definition returns the MCP prompt definition for registration.
func (p *InterviewPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("rapport-interview",
		mcp.WithPromptDescription(
			"Run (or resume) the relationship interview. Produces interviewer instructions "+
				"listing the areas still to cover and the scenarios to offer when the "+
				"respondent has no real example.",
		),
		mcp.WithArgument("session_id",
			mcp.ArgumentDescription("Session to resume. Omit to start fresh with every area uncovered."),
		),
	)
}

// Handle processes the rapport-interview prompt request.
func (p *InterviewPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	sessionID := strings.TrimSpace(req.Params.Arguments["session_id"])

	history := narrate.HistorySubstantial
	var turns []interview.Turn
	if sessionID != "" {
		sess, err := p.store.GetSession(sessionID)
		if err != nil {
			return nil, fmt.Errorf("loading session: %w", err)
		}
		history = sess.History
		tr, err := p.store.Transcript(sessionID)
		if err != nil {
			return nil, fmt.Errorf("loading transcript: %w", err)
		}
		turns = tr.Turns()
	}

	data, err := interviewerData(coverage.Replay(p.classifier, p.minHits, turns), history, p.minHits)
	if err != nil {
		return nil, err
	}
	body, err := p.renderer.Render(templates.Interviewer, data)
	if err != nil {
		return nil, fmt.Errorf("rendering interviewer prompt: %w", err)
	}

	if sessionID != "" {
		body += fmt.Sprintf("\n\nRecord every turn with `rapport_record_turn` using session_id='%s'.", sessionID)
	} else {
		body += "\n\nFirst ask about their relationship history and call `rapport_start_session`. Then record every turn with `rapport_record_turn`."
	}

	return &mcp.GetPromptResult{
		Description: "Rapport interviewer instructions",
		Messages: []mcp.PromptMessage{
			{Role: mcp.RoleUser, Content: mcp.NewTextContent(body)},
		},
	}, nil
}

func interviewerData(t *coverage.Tracker, history narrate.History, minHits int) (templates.InterviewerData, error) {
	data := templates.InterviewerData{MinHits: minHits, Calibrated: history.Calibrated()}
	for _, st := range t.Progress().Constructs {
		if st.Covered {
			data.Covered = append(data.Covered, pillarRow(st.ID))
		} else {
			data.Uncovered = append(data.Uncovered, pillarRow(st.ID))
		}
	}
	cards, err := evidence.Scenarios()
	if err != nil {
		return data, fmt.Errorf("loading scenarios: %w", err)
	}
	for _, c := range cards {
		data.Scenarios = append(data.Scenarios, templates.ScenarioRow{
			ID:    int(c.Construct),
			Name:  c.Construct.Name(),
			Title: c.Title,
			Text:  c.Text,
		})
	}
	return data, nil
}

func pillarRow(id pillar.ID) templates.PillarRow {
	p, _ := pillar.Get(id)
	return templates.PillarRow{ID: int(p.ID), Name: p.Name, Weight: p.Weight, Description: p.Description}
}
