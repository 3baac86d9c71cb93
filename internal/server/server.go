// Package server wires all MCP components and creates the server instance.
//
// This is the composition root: it creates concrete implementations and
// injects them into the tools, prompts and resources that depend on
// abstractions. No business logic lives here, only wiring.
package server

import (
	"fmt"

	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/HendryAvila/rapport/internal/config"
	"github.com/HendryAvila/rapport/internal/coverage"
	"github.com/HendryAvila/rapport/internal/instruments"
	"github.com/HendryAvila/rapport/internal/judge"
	"github.com/HendryAvila/rapport/internal/logging"
	"github.com/HendryAvila/rapport/internal/metrics"
	"github.com/HendryAvila/rapport/internal/prompts"
	"github.com/HendryAvila/rapport/internal/resources"
	"github.com/HendryAvila/rapport/internal/store"
	"github.com/HendryAvila/rapport/internal/templates"
	"github.com/HendryAvila/rapport/internal/tools"
)

// Version is set at build time via ldflags.
var Version = "dev"

// New creates and configures the MCP server with all tools, prompts and
// resources registered. This is the single place where all dependencies
// are resolved.
//
// The returned cleanup function closes the session store and must be
// called on shutdown (typically via defer). It is always non-nil.
// m and logger may be nil.
func New(cfg config.Config, m *metrics.Metrics, logger *zap.Logger) (*server.MCPServer, func(), error) {
	logger = logging.OrNop(logger)

	// --- Create shared dependencies ---

	registry, err := instruments.NewRegistry()
	if err != nil {
		return nil, noop, fmt.Errorf("loading item banks: %w", err)
	}

	renderer, err := templates.NewRenderer()
	if err != nil {
		return nil, noop, fmt.Errorf("creating template renderer: %w", err)
	}
	builder := judge.NewBuilder(registry, renderer)
	classifier := coverage.NewKeywordClassifier()

	sessions, err := store.New(cfg.Store())
	if err != nil {
		return nil, noop, fmt.Errorf("opening session store: %w", err)
	}
	cleanup := func() {
		if err := sessions.Close(); err != nil {
			logger.Warn("session store close", zap.Error(err))
		}
	}

	// --- Create the MCP server ---

	s := server.NewMCPServer(
		"rapport",
		Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithPromptCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	// --- Register session tools ---

	startSession := tools.NewStartSessionTool(sessions, logger)
	s.AddTool(startSession.Definition(), startSession.Handle)

	recordAnswer := tools.NewRecordAnswerTool(sessions, registry)
	s.AddTool(recordAnswer.Definition(), recordAnswer.Handle)

	recordTurn := tools.NewRecordTurnTool(sessions, classifier, cfg.MinHits, m, logger)
	s.AddTool(recordTurn.Definition(), recordTurn.Handle)

	// --- Register scoring tools ---

	scoreInstrument := tools.NewScoreInstrumentTool(sessions, registry, m)
	s.AddTool(scoreInstrument.Definition(), scoreInstrument.Handle)

	coverageTool := tools.NewCoverageTool(sessions, classifier, cfg.MinHits)
	s.AddTool(coverageTool.Definition(), coverageTool.Handle)

	gradeEvidence := tools.NewGradeEvidenceTool(sessions, classifier, m)
	s.AddTool(gradeEvidence.Definition(), gradeEvidence.Handle)

	// --- Register judge tools ---

	scoringPrompt := tools.NewBuildScoringPromptTool(sessions, registry, builder, classifier, m)
	s.AddTool(scoringPrompt.Definition(), scoringPrompt.Handle)

	algorithmPrompt := tools.NewBuildAlgorithmPromptTool(sessions, registry, builder, classifier, m)
	s.AddTool(algorithmPrompt.Definition(), algorithmPrompt.Handle)

	parseJudgement := tools.NewParseJudgementTool(sessions, classifier, logger)
	s.AddTool(parseJudgement.Definition(), parseJudgement.Handle)

	// --- Register prompts ---

	interviewPrompt := prompts.NewInterviewPrompt(sessions, renderer, classifier, cfg.MinHits)
	s.AddPrompt(interviewPrompt.Definition(), interviewPrompt.Handle)

	statusPrompt := prompts.NewStatusPrompt()
	s.AddPrompt(statusPrompt.Definition(), statusPrompt.Handle)

	// --- Register resources ---

	resourceHandler := resources.NewHandler(registry)
	s.AddResource(resourceHandler.InstrumentsResource(), resourceHandler.HandleInstruments)
	s.AddResource(resourceHandler.PillarsResource(), resourceHandler.HandlePillars)

	logger.Info("mcp server ready",
		zap.String("version", Version),
		zap.String("data_dir", cfg.DataDir),
		zap.Int("min_hits", cfg.MinHits),
	)
	return s, cleanup, nil
}

// noop is a no-op cleanup function used when initialization fails.
func noop() {}

// serverInstructions returns the system instructions that tell the AI
// how to run an assessment.
func serverInstructions() string {
	return `You have access to Rapport, a relational-compatibility assessment server.

## FLOW

1. Ask the respondent about their relationship history (substantial, limited or none), then call rapport_start_session.
2. Administer the five questionnaires one item at a time with rapport_record_answer. Read rapport://instruments for the wording and anchors. Never reword an item's meaning.
3. Run the interview. Use the rapport-interview prompt for your instructions and record EVERY turn, yours and theirs, with rapport_record_turn.
4. Before closing, call rapport_coverage. Do not close until coverage is adequate or the respondent asks to stop.
5. Build the scoring prompt with rapport_build_scoring_prompt, send it to a scoring model, and pass the reply to rapport_parse_judgement.

## RULES

- Never tell the respondent their scores or labels during the interview.
- Out-of-range answers are rejected: re-ask using the anchors, never guess.
- Coverage is a pacing aid only. It never scores anything.
- If the respondent has no real example, offer the area's scenario instead of pressing.`
}
