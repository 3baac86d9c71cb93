package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"github.com/HendryAvila/rapport/internal/coverage"
	"github.com/HendryAvila/rapport/internal/evidence"
	"github.com/HendryAvila/rapport/internal/judge"
	"github.com/HendryAvila/rapport/internal/logging"
	"github.com/HendryAvila/rapport/internal/pillar"
)

// Judgement kinds accepted by rapport_parse_judgement.
const (
	kindScoring   = "scoring"
	kindAlgorithm = "algorithm"
)

// ParseJudgementTool handles the rapport_parse_judgement MCP tool.
// A reply that cannot be parsed degrades to the neutral fallback; the
// tool never fails on bad model output.
type ParseJudgementTool struct {
	store      SessionStore
	classifier coverage.TextClassifier
	logger     *zap.Logger
}

// NewParseJudgementTool creates a ParseJudgementTool. logger may be nil.
func NewParseJudgementTool(store SessionStore, c coverage.TextClassifier, logger *zap.Logger) *ParseJudgementTool {
	return &ParseJudgementTool{store: store, classifier: c, logger: logging.OrNop(logger)}
}

// Definition returns the MCP tool definition for registration.
func (t *ParseJudgementTool) Definition() mcp.Tool {
	return mcp.NewTool("rapport_parse_judgement",
		mcp.WithDescription(
			"Parse the scoring model's JSON reply into pillar scores and the weighted overall score. "+
				"Markdown fences are tolerated. If the reply is unusable, a neutral fallback judgement "+
				"is returned and marked as such.",
		),
		mcp.WithString("response",
			mcp.Required(),
			mcp.Description("The scoring model's raw reply"),
		),
		mcp.WithString("kind",
			mcp.Description("Which prompt produced the reply: scoring (interviewed pillars, default) or algorithm (all nine)"),
			mcp.Enum(kindScoring, kindAlgorithm),
		),
		mcp.WithString("session_id",
			mcp.Description("Session whose evidence grades shape the fallback scores"),
		),
	)
}

// Handle processes the rapport_parse_judgement tool call.
func (t *ParseJudgementTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ids := pillar.Interviewed()
	switch kind := req.GetString("kind", kindScoring); kind {
	case kindScoring:
	case kindAlgorithm:
		ids = make([]pillar.ID, 0, len(pillar.All()))
		for _, p := range pillar.All() {
			ids = append(ids, p.ID)
		}
	default:
		return mcp.NewToolResultError(fmt.Sprintf("invalid kind %q: must be scoring or algorithm", kind)), nil
	}

	var grades []evidence.Grade
	sessionID := strings.TrimSpace(req.GetString("session_id", ""))
	if sessionID != "" {
		tr, err := t.store.Transcript(sessionID)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		grades = evidence.GradeTranscript(tr.Turns(), t.classifier)
	}

	j := judge.ParseOrFallback(req.GetString("response", ""), ids, grades)
	if j.Fallback {
		t.logger.Warn("judgement fallback used",
			zap.String("session_id", sessionID),
			zap.String("reason", j.FallbackReason),
		)
	}

	var sb strings.Builder
	sb.WriteString("## Judgement\n\n")
	if j.Fallback {
		fmt.Fprintf(&sb, "**FALLBACK:** the reply could not be used (%s). Scores below are neutral placeholders.\n\n", j.FallbackReason)
	}
	scores := j.Scores()
	for _, id := range ids {
		s, ok := scores[id]
		if !ok {
			continue
		}
		fmt.Fprintf(&sb, "- %d %s: %.1f", id, id.Name(), s)
		if c := j.PillarConfidence[id.String()]; c != "" {
			fmt.Fprintf(&sb, " (%s confidence)", c)
		}
		sb.WriteString("\n")
	}
	fmt.Fprintf(&sb, "\n**Overall (weighted):** %.2f\n\n", j.Overall())
	block, err := jsonBlock(j)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	sb.WriteString(block)
	return mcp.NewToolResultText(sb.String()), nil
}
