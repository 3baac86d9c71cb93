package prompts

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// StatusPrompt handles the rapport-status MCP prompt.
// It instructs the AI to gather and present a session's progress.
type StatusPrompt struct{}

// NewStatusPrompt creates a StatusPrompt.
func NewStatusPrompt() *StatusPrompt {
	return &StatusPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *StatusPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("rapport-status",
		mcp.WithPromptDescription(
			"Check the progress of an assessment session: questionnaires answered, "+
				"interview coverage, evidence quality, and what to do next.",
		),
		mcp.WithArgument("session_id",
			mcp.ArgumentDescription("Session to report on"),
			mcp.RequiredArgument(),
		),
	)
}

// Handle processes the rapport-status prompt request.
func (p *StatusPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	sessionID := strings.TrimSpace(req.Params.Arguments["session_id"])
	if sessionID == "" {
		return nil, fmt.Errorf("session_id is required")
	}

	return &mcp.GetPromptResult{
		Description: "Rapport Session Status",
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(fmt.Sprintf(
					"Please check the status of assessment session '%s'.\n\n"+
						"1. Run `rapport_score_instrument` with instrument='profile' and session_id='%[1]s' to see the typology\n"+
						"2. Run `rapport_coverage` with session_id='%[1]s' to see which interview areas are covered\n"+
						"3. Run `rapport_grade_evidence` with session_id='%[1]s' to see the evidence quality per area\n\n"+
						"Then:\n"+
						"- Summarise progress in a short, clear format\n"+
						"- Point out unanswered questionnaire items and uncovered areas\n"+
						"- Tell me exactly what to do next. Do not share scores with the respondent.",
					sessionID,
				)),
			},
		},
	}, nil
}
