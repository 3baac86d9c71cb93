package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/rapport/internal/coverage"
	"github.com/HendryAvila/rapport/internal/evidence"
	"github.com/HendryAvila/rapport/internal/metrics"
)

// GradeEvidenceTool handles the rapport_grade_evidence MCP tool.
// It grades the quality of evidence behind each interviewed construct.
type GradeEvidenceTool struct {
	store      SessionStore
	classifier coverage.TextClassifier
	metrics    *metrics.Metrics
}

// NewGradeEvidenceTool creates a GradeEvidenceTool. m may be nil.
func NewGradeEvidenceTool(store SessionStore, c coverage.TextClassifier, m *metrics.Metrics) *GradeEvidenceTool {
	return &GradeEvidenceTool{store: store, classifier: c, metrics: m}
}

// Definition returns the MCP tool definition for registration.
func (t *GradeEvidenceTool) Definition() mcp.Tool {
	return mcp.NewTool("rapport_grade_evidence",
		mcp.WithDescription(
			"Grade the evidence quality for each interviewed construct: recalled example, "+
				"scenario response, bare hypothetical or no response, with the weight, score range "+
				"and confidence the scorer must respect. Also lists deflections and whether a scenario "+
				"is still awaiting an answer.",
		),
		mcp.WithString("session_id",
			mcp.Description("Session whose transcript to grade"),
		),
		mcp.WithString("transcript",
			mcp.Description("Inline JSON array of {role, content} turns, used when session_id is not set"),
		),
	)
}

// Handle processes the rapport_grade_evidence tool call.
func (t *GradeEvidenceTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tr, err := transcriptArg(t.store, req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	grades := evidence.GradeTranscript(tr.Turns(), t.classifier)

	var sb strings.Builder
	sb.WriteString("## Evidence Grades\n\n")
	for _, g := range grades {
		t.metrics.IncEvidenceGrade(g.Construct.String(), g.Quality.String())
		fmt.Fprintf(&sb, "- **%d %s**: %s", g.Construct, g.Construct.Name(), g.Guidance())
		if g.Pending {
			sb.WriteString(" (awaiting the respondent's reaction)")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
	block, err := jsonBlock(grades)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	sb.WriteString(block)
	return mcp.NewToolResultText(sb.String()), nil
}
