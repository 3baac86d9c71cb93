package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/rapport/internal/instruments"
	"github.com/HendryAvila/rapport/internal/metrics"
	"github.com/HendryAvila/rapport/internal/narrate"
	"github.com/HendryAvila/rapport/internal/profile"
)

// profileTarget asks rapport_score_instrument for the whole typology.
const profileTarget = "profile"

// ScoreInstrumentTool handles the rapport_score_instrument MCP tool.
// It scores one instrument, or every instrument at once as a typology,
// from a session's stored answers or from an inline answer map.
type ScoreInstrumentTool struct {
	store    SessionStore
	registry *instruments.Registry
	metrics  *metrics.Metrics
}

// NewScoreInstrumentTool creates a ScoreInstrumentTool. m may be nil.
func NewScoreInstrumentTool(store SessionStore, reg *instruments.Registry, m *metrics.Metrics) *ScoreInstrumentTool {
	return &ScoreInstrumentTool{store: store, registry: reg, metrics: m}
}

// Definition returns the MCP tool definition for registration.
func (t *ScoreInstrumentTool) Definition() mcp.Tool {
	return mcp.NewTool("rapport_score_instrument",
		mcp.WithDescription(
			"Score a psychometric instrument into subscale means, or pass instrument='profile' "+
				"to score all five and get the full typology with classifications and narrated insights. "+
				"Missing answers fall back to neutral defaults; out-of-range answers are rejected.",
		),
		mcp.WithString("instrument",
			mcp.Required(),
			mcp.Description("Instrument id, or 'profile' for the full typology"),
			mcp.Enum(append(instrumentEnum(), profileTarget)...),
		),
		mcp.WithString("session_id",
			mcp.Description("Score the answers stored for this session"),
		),
		mcp.WithString("answers",
			mcp.Description("Inline JSON object of item id to raw answer, e.g. {\"b1\": 4}. Ignored when session_id is set. Not valid with 'profile'."),
		),
	)
}

// Handle processes the rapport_score_instrument tool call.
func (t *ScoreInstrumentTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	target := strings.TrimSpace(req.GetString("instrument", ""))
	sessionID := strings.TrimSpace(req.GetString("session_id", ""))

	history := narrate.HistorySubstantial
	var stored map[instruments.ID]instruments.AnswerSet
	if sessionID != "" {
		sess, err := t.store.GetSession(sessionID)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		history = sess.History
		if stored, err = t.store.Answers(sessionID); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to read answers: %v", err)), nil
		}
	}

	if target == profileTarget {
		if sessionID == "" {
			return mcp.NewToolResultError("'session_id' is required to score the full profile"), nil
		}
		return t.scoreProfile(stored, history)
	}

	id, err := instruments.ParseID(target)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	in, err := t.registry.Get(id)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	answers := stored[id]
	if sessionID == "" {
		if raw := strings.TrimSpace(req.GetString("answers", "")); raw != "" {
			if err := json.Unmarshal([]byte(raw), &answers); err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("'answers' must be a JSON object of item id to integer: %v", err)), nil
			}
		}
	}

	res, err := instruments.Score(in, answers)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	t.metrics.IncInstrumentScored(string(id))

	var sb strings.Builder
	fmt.Fprintf(&sb, "## %s (%s)\n\n", in.Name, id.Short())
	fmt.Fprintf(&sb, "**Answered:** %d/%d\n", res.Answered, res.Total)
	if len(res.Defaulted) > 0 {
		fmt.Fprintf(&sb, "**Neutral defaults used for:** %s\n", joinTags(res.Defaulted))
	}
	sb.WriteString("\n")
	block, err := jsonBlock(res)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	sb.WriteString(block)
	return mcp.NewToolResultText(sb.String()), nil
}

func (t *ScoreInstrumentTool) scoreProfile(answers map[instruments.ID]instruments.AnswerSet, history narrate.History) (*mcp.CallToolResult, error) {
	typ, err := profile.Build(t.registry, answers, history)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	for _, id := range instruments.Order {
		t.metrics.IncInstrumentScored(string(id))
	}

	var sb strings.Builder
	sb.WriteString("## Typology\n\n")
	for _, l := range typ.Labels() {
		fmt.Fprintf(&sb, "- %s\n", l)
	}
	if !typ.Complete() {
		sb.WriteString("\n_Some items are unanswered; neutral defaults were used._\n")
	}
	sb.WriteString("\n## Insights\n\n")
	for _, c := range typ.Cards {
		fmt.Fprintf(&sb, "### %s: %s\n\n%s\n\n", c.Instrument.Short(), c.Insight.Headline, c.Insight.Body)
		if c.Insight.Edge != "" {
			fmt.Fprintf(&sb, "**Growth edge:** %s\n\n", c.Insight.Edge)
		}
		fmt.Fprintf(&sb, "_%s_\n\n", c.Insight.Stat)
		if c.Insight.CalibrationNote != "" {
			fmt.Fprintf(&sb, "> %s\n\n", c.Insight.CalibrationNote)
		}
	}
	block, err := jsonBlock(typ)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	sb.WriteString(block)
	return mcp.NewToolResultText(sb.String()), nil
}

func joinTags(tags []instruments.Tag) string {
	s := make([]string, len(tags))
	for i, t := range tags {
		s[i] = string(t)
	}
	return strings.Join(s, ", ")
}
