package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/rapport/internal/instruments"
	"github.com/HendryAvila/rapport/internal/narrate"
)

// RecordAnswerTool handles the rapport_record_answer MCP tool.
// Answers are range-checked against the item bank before they are stored;
// nothing out of range is ever persisted or clamped.
type RecordAnswerTool struct {
	store    SessionStore
	registry *instruments.Registry
}

// NewRecordAnswerTool creates a RecordAnswerTool.
func NewRecordAnswerTool(store SessionStore, reg *instruments.Registry) *RecordAnswerTool {
	return &RecordAnswerTool{store: store, registry: reg}
}

// Definition returns the MCP tool definition for registration.
func (t *RecordAnswerTool) Definition() mcp.Tool {
	return mcp.NewTool("rapport_record_answer",
		mcp.WithDescription(
			"Record the respondent's answer to one questionnaire item. "+
				"Re-recording an item replaces the earlier answer. "+
				"Read rapport://instruments for item ids, wording and scale anchors.",
		),
		mcp.WithString("session_id",
			mcp.Required(),
			mcp.Description("Session ID from rapport_start_session"),
		),
		mcp.WithString("instrument",
			mcp.Required(),
			mcp.Description("Instrument id"),
			mcp.Enum(instrumentEnum()...),
		),
		mcp.WithString("item_id",
			mcp.Required(),
			mcp.Description("Item id within the instrument (e.g. 'e1', 'b4')"),
		),
		mcp.WithNumber("value",
			mcp.Required(),
			mcp.Description("Raw integer answer on the instrument's scale"),
		),
		mcp.WithString("history",
			mcp.Description("Revise the respondent's relationship history, e.g. when an ECR-12 item reveals it. It changes how attachment scores are calibrated."),
			mcp.Enum(string(narrate.HistorySubstantial), string(narrate.HistoryLimited), string(narrate.HistoryNone)),
		),
	)
}

// Handle processes the rapport_record_answer tool call.
func (t *RecordAnswerTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := strings.TrimSpace(req.GetString("session_id", ""))
	if sessionID == "" {
		return mcp.NewToolResultError("'session_id' is required"), nil
	}
	id, err := instruments.ParseID(req.GetString("instrument", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	itemID := strings.TrimSpace(req.GetString("item_id", ""))
	if itemID == "" {
		return mcp.NewToolResultError("'item_id' is required"), nil
	}
	raw := req.GetFloat("value", -1)
	value := int(raw)
	if float64(value) != raw {
		return mcp.NewToolResultError(fmt.Sprintf("'value' must be a whole number, got %g", raw)), nil
	}

	var history narrate.History
	if raw := strings.TrimSpace(req.GetString("history", "")); raw != "" {
		if history, err = narrate.ParseHistory(raw); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}

	in, err := t.registry.Get(id)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := instruments.ValidateAnswer(in, itemID, value); err != nil {
		if errors.Is(err, instruments.ErrOutOfRange) {
			return mcp.NewToolResultError(fmt.Sprintf("%v. Ask again using the anchors: %s", err, in.Anchors)), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}

	if history != "" {
		if err := t.store.SetHistory(sessionID, history); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to update history: %v", err)), nil
		}
	}
	if err := t.store.PutAnswer(sessionID, id, itemID, value); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to record answer: %v", err)), nil
	}
	answers, err := t.store.Answers(sessionID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to read answers: %v", err)), nil
	}

	answered := len(answers[id])
	var sb strings.Builder
	fmt.Fprintf(&sb, "Recorded %s %s = %d.\n", id.Short(), itemID, value)
	if history != "" {
		fmt.Fprintf(&sb, "Relationship history set to %s.\n", history)
	}
	fmt.Fprintf(&sb, "%s progress: %d/%d items answered.\n", id.Short(), answered, len(in.Items))
	if next := nextUnanswered(in, answers[id]); next != nil {
		fmt.Fprintf(&sb, "\nNext item %s: %q (%s)\n", next.ID, next.Text, in.Anchors)
	} else {
		fmt.Fprintf(&sb, "\n%s is complete. Score it with `rapport_score_instrument`.\n", id.Short())
	}
	return mcp.NewToolResultText(sb.String()), nil
}

func nextUnanswered(in *instruments.Instrument, answered instruments.AnswerSet) *instruments.Item {
	for i := range in.Items {
		if _, ok := answered[in.Items[i].ID]; !ok {
			return &in.Items[i]
		}
	}
	return nil
}
