package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"github.com/HendryAvila/rapport/internal/coverage"
	"github.com/HendryAvila/rapport/internal/interview"
	"github.com/HendryAvila/rapport/internal/logging"
	"github.com/HendryAvila/rapport/internal/metrics"
	"github.com/HendryAvila/rapport/internal/pillar"
)

// RecordTurnTool handles the rapport_record_turn MCP tool.
// It appends one turn to the session transcript and reports which
// constructs it touched plus the running coverage.
type RecordTurnTool struct {
	store      SessionStore
	classifier coverage.TextClassifier
	minHits    int
	metrics    *metrics.Metrics
	logger     *zap.Logger
}

// NewRecordTurnTool creates a RecordTurnTool. A nil classifier uses the
// keyword classifier; m and logger may be nil.
func NewRecordTurnTool(store SessionStore, c coverage.TextClassifier, minHits int, m *metrics.Metrics, logger *zap.Logger) *RecordTurnTool {
	if c == nil {
		c = coverage.NewKeywordClassifier()
	}
	return &RecordTurnTool{store: store, classifier: c, minHits: minHits, metrics: m, logger: logging.OrNop(logger)}
}

// Definition returns the MCP tool definition for registration.
func (t *RecordTurnTool) Definition() mcp.Tool {
	return mcp.NewTool("rapport_record_turn",
		mcp.WithDescription(
			"Append one interview turn to the session transcript. Record EVERY turn, "+
				"your own questions as 'interviewer' and the user's replies as 'respondent', "+
				"verbatim and in order. The transcript is append-only.",
		),
		mcp.WithString("session_id",
			mcp.Required(),
			mcp.Description("Session ID from rapport_start_session"),
		),
		mcp.WithString("role",
			mcp.Required(),
			mcp.Description("Who spoke"),
			mcp.Enum(string(interview.Interviewer), string(interview.Respondent)),
		),
		mcp.WithString("content",
			mcp.Required(),
			mcp.Description("What was said, verbatim"),
		),
	)
}

// Handle processes the rapport_record_turn tool call.
func (t *RecordTurnTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := strings.TrimSpace(req.GetString("session_id", ""))
	if sessionID == "" {
		return mcp.NewToolResultError("'session_id' is required"), nil
	}
	role, err := interview.ParseRole(req.GetString("role", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	turn := interview.Turn{Role: role, Content: req.GetString("content", "")}

	seq, err := t.store.AppendTurn(sessionID, turn)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to record turn: %v", err)), nil
	}
	t.metrics.IncTurnRecorded(string(role))

	tr, err := t.store.Transcript(sessionID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to read transcript: %v", err)), nil
	}
	tracker := coverage.Replay(t.classifier, t.minHits, tr.Turns())
	report := tracker.Progress()
	touched := t.classifier.Classify(turn.Content)

	t.logger.Debug("turn recorded",
		zap.String("session_id", sessionID),
		zap.Int("seq", seq),
		zap.String("role", string(role)),
		zap.Int("covered", report.CoveredCount),
	)

	var sb strings.Builder
	fmt.Fprintf(&sb, "Recorded turn %d (%s).\n", seq, role)
	if len(touched) > 0 {
		fmt.Fprintf(&sb, "Touched: %s\n", pillarNames(touched))
	}
	fmt.Fprintf(&sb, "Coverage: %d/%d constructs (%d%%).\n", report.CoveredCount, report.Total, report.Percent)
	if report.Adequate {
		sb.WriteString("All constructs are covered. You may close the interview.\n")
	} else {
		fmt.Fprintf(&sb, "Still to cover: %s\n", pillarNames(tracker.Uncovered()))
	}
	return mcp.NewToolResultText(sb.String()), nil
}

func pillarNames(ids []pillar.ID) string {
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = id.Name()
	}
	return strings.Join(names, ", ")
}
