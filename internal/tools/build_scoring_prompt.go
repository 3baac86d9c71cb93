package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/rapport/internal/coverage"
	"github.com/HendryAvila/rapport/internal/evidence"
	"github.com/HendryAvila/rapport/internal/instruments"
	"github.com/HendryAvila/rapport/internal/judge"
	"github.com/HendryAvila/rapport/internal/metrics"
	"github.com/HendryAvila/rapport/internal/profile"
)

// BuildScoringPromptTool handles the rapport_build_scoring_prompt MCP tool.
// It combines a session's typology, transcript and evidence grades into
// the prompt the host sends to its scoring model.
type BuildScoringPromptTool struct {
	store      SessionStore
	registry   *instruments.Registry
	builder    *judge.Builder
	classifier coverage.TextClassifier
	metrics    *metrics.Metrics
}

// NewBuildScoringPromptTool creates a BuildScoringPromptTool. m may be nil.
func NewBuildScoringPromptTool(store SessionStore, reg *instruments.Registry, b *judge.Builder, c coverage.TextClassifier, m *metrics.Metrics) *BuildScoringPromptTool {
	return &BuildScoringPromptTool{store: store, registry: reg, builder: b, classifier: c, metrics: m}
}

// Definition returns the MCP tool definition for registration.
func (t *BuildScoringPromptTool) Definition() mcp.Tool {
	return mcp.NewTool("rapport_build_scoring_prompt",
		mcp.WithDescription(
			"Build the interview scoring prompt for a session. Send the returned prompt to a "+
				"scoring model as-is, then pass its reply to rapport_parse_judgement with kind='scoring'.",
		),
		mcp.WithString("session_id",
			mcp.Required(),
			mcp.Description("Session ID from rapport_start_session"),
		),
		mcp.WithBoolean("itemised",
			mcp.Description("Embed numbered question/answer pairs instead of the raw transcript (default false)"),
		),
	)
}

// Handle processes the rapport_build_scoring_prompt tool call.
func (t *BuildScoringPromptTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := strings.TrimSpace(req.GetString("session_id", ""))
	if sessionID == "" {
		return mcp.NewToolResultError("'session_id' is required"), nil
	}
	typ, err := sessionTypology(t.store, t.registry, sessionID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	tr, err := t.store.Transcript(sessionID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if tr.Len() == 0 {
		return mcp.NewToolResultError("the session has no transcript yet: record the interview with rapport_record_turn first"), nil
	}

	out, err := t.builder.BuildScoringPrompt(tr, typ, judge.ScoringOptions{
		Itemised: boolArg(req, "itemised", false),
		Grades:   evidence.GradeTranscript(tr.Turns(), t.classifier),
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to build scoring prompt: %v", err)), nil
	}
	t.metrics.IncPromptBuilt("scoring")
	return mcp.NewToolResultText(out), nil
}

// sessionTypology builds the typology from a session's stored answers and
// history.
func sessionTypology(s SessionStore, reg *instruments.Registry, sessionID string) (*profile.Typology, error) {
	sess, err := s.GetSession(sessionID)
	if err != nil {
		return nil, err
	}
	answers, err := s.Answers(sessionID)
	if err != nil {
		return nil, err
	}
	return profile.Build(reg, answers, sess.History)
}
