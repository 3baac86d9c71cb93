package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"github.com/HendryAvila/rapport/internal/instruments"
	"github.com/HendryAvila/rapport/internal/logging"
	"github.com/HendryAvila/rapport/internal/narrate"
)

// StartSessionTool handles the rapport_start_session MCP tool.
// It opens a new assessment session and records the respondent's
// relationship history, which calibrates the attachment results.
type StartSessionTool struct {
	store  SessionStore
	logger *zap.Logger
}

// NewStartSessionTool creates a StartSessionTool.
func NewStartSessionTool(store SessionStore, logger *zap.Logger) *StartSessionTool {
	return &StartSessionTool{store: store, logger: logging.OrNop(logger)}
}

// Definition returns the MCP tool definition for registration.
func (t *StartSessionTool) Definition() mcp.Tool {
	return mcp.NewTool("rapport_start_session",
		mcp.WithDescription(
			"Start a new relational-compatibility assessment session. "+
				"Ask the respondent about their relationship history BEFORE calling this: "+
				"it calibrates how firmly the attachment results are stated. "+
				"Returns the session_id every other rapport tool needs.",
		),
		mcp.WithString("history",
			mcp.Description("Relationship history: substantial (default), limited or none"),
			mcp.Enum(string(narrate.HistorySubstantial), string(narrate.HistoryLimited), string(narrate.HistoryNone)),
		),
	)
}

// Handle processes the rapport_start_session tool call.
func (t *StartSessionTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	history, err := narrate.ParseHistory(strings.TrimSpace(req.GetString("history", "")))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	sess, err := t.store.CreateSession(history)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to start session: %v", err)), nil
	}
	t.logger.Info("session started", zap.String("session_id", sess.ID), zap.String("history", string(history)))

	var sb strings.Builder
	sb.WriteString("## Session Started\n\n")
	fmt.Fprintf(&sb, "**Session ID:** %s\n", sess.ID)
	fmt.Fprintf(&sb, "**Relationship history:** %s\n", history)
	if history.Calibrated() {
		fmt.Fprintf(&sb, "\nAttachment results will be reported as provisional (±%.1f).\n", history.Band())
	}
	sb.WriteString("\n### Next Steps\n\n")
	sb.WriteString("1. Administer the questionnaires item by item with `rapport_record_answer` (")
	for i, id := range instruments.Order {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(id.Short())
	}
	sb.WriteString(")\n")
	sb.WriteString("2. Run the interview, recording every turn with `rapport_record_turn`\n")
	sb.WriteString("3. Check `rapport_coverage` before closing the interview\n")
	sb.WriteString("4. Build the scoring prompt with `rapport_build_scoring_prompt`\n")
	return mcp.NewToolResultText(sb.String()), nil
}
