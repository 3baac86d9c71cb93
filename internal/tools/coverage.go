package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/rapport/internal/coverage"
)

// CoverageTool handles the rapport_coverage MCP tool.
type CoverageTool struct {
	store      SessionStore
	classifier coverage.TextClassifier
	minHits    int
}

// NewCoverageTool creates a CoverageTool. minHits is the default adequacy
// threshold; callers may raise it per call.
func NewCoverageTool(store SessionStore, c coverage.TextClassifier, minHits int) *CoverageTool {
	return &CoverageTool{store: store, classifier: c, minHits: minHits}
}

// Definition returns the MCP tool definition for registration.
func (t *CoverageTool) Definition() mcp.Tool {
	return mcp.NewTool("rapport_coverage",
		mcp.WithDescription(
			"Report which interview constructs the conversation has touched so far. "+
				"Coverage is a keyword heuristic that only guides pacing: it never scores anything. "+
				"Do not close the interview until it reports adequate coverage.",
		),
		mcp.WithString("session_id",
			mcp.Description("Session whose transcript to check"),
		),
		mcp.WithString("transcript",
			mcp.Description("Inline JSON array of {role, content} turns, used when session_id is not set"),
		),
		mcp.WithNumber("min_hits",
			mcp.Description("Tagged turns a construct needs to count as covered (default from server config)"),
		),
	)
}

// Handle processes the rapport_coverage tool call.
func (t *CoverageTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tr, err := transcriptArg(t.store, req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	minHits := intArg(req, "min_hits", t.minHits)
	tracker := coverage.Replay(t.classifier, minHits, tr.Turns())
	report := tracker.Progress()

	var sb strings.Builder
	sb.WriteString("## Interview Coverage\n\n")
	fmt.Fprintf(&sb, "**Covered:** %d/%d (%d%%) over %d turns\n\n", report.CoveredCount, report.Total, report.Percent, report.TurnsObserved)
	sb.WriteString("| Construct | Hits | Covered |\n|---|---|---|\n")
	for _, c := range report.Constructs {
		mark := "no"
		if c.Covered {
			mark = "yes"
		}
		fmt.Fprintf(&sb, "| %d %s | %d | %s |\n", c.ID, c.Name, c.Hits, mark)
	}
	if report.Adequate {
		sb.WriteString("\nCoverage is adequate. You may close the interview.\n")
	} else {
		fmt.Fprintf(&sb, "\nSteer the conversation toward: %s\n", pillarNames(tracker.Uncovered()))
	}
	return mcp.NewToolResultText(sb.String()), nil
}
