package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/rapport/internal/coverage"
	"github.com/HendryAvila/rapport/internal/instruments"
	"github.com/HendryAvila/rapport/internal/judge"
	"github.com/HendryAvila/rapport/internal/metrics"
)

// BuildAlgorithmPromptTool handles the rapport_build_algorithm_prompt MCP
// tool. It builds the nine-pillar profile prompt, filing interview answers
// under the pillars they touch.
type BuildAlgorithmPromptTool struct {
	store      SessionStore
	registry   *instruments.Registry
	builder    *judge.Builder
	classifier coverage.TextClassifier
	metrics    *metrics.Metrics
}

// NewBuildAlgorithmPromptTool creates a BuildAlgorithmPromptTool. m may be nil.
func NewBuildAlgorithmPromptTool(store SessionStore, reg *instruments.Registry, b *judge.Builder, c coverage.TextClassifier, m *metrics.Metrics) *BuildAlgorithmPromptTool {
	return &BuildAlgorithmPromptTool{store: store, registry: reg, builder: b, classifier: c, metrics: m}
}

// Definition returns the MCP tool definition for registration.
func (t *BuildAlgorithmPromptTool) Definition() mcp.Tool {
	return mcp.NewTool("rapport_build_algorithm_prompt",
		mcp.WithDescription(
			"Build the nine-pillar profile prompt for a session. Pillars the interview never reached "+
				"are scored from the typology alone. Pass the model's reply to rapport_parse_judgement "+
				"with kind='algorithm'.",
		),
		mcp.WithString("session_id",
			mcp.Required(),
			mcp.Description("Session ID from rapport_start_session"),
		),
	)
}

// Handle processes the rapport_build_algorithm_prompt tool call.
func (t *BuildAlgorithmPromptTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
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

	out, err := t.builder.BuildAlgorithmPrompt(typ, judge.GroupAnswers(tr.Pairs(), t.classifier))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to build algorithm prompt: %v", err)), nil
	}
	t.metrics.IncPromptBuilt("algorithm")
	return mcp.NewToolResultText(out), nil
}
