// Package tools implements the MCP tool handlers for the assessment.
//
// Each tool is a struct that receives its dependencies via its constructor
// and exposes Definition() for registration and Handle() for calls.
// One file per tool. Handlers report failures with mcp.NewToolResultError
// so the host LLM always gets a readable answer.
package tools

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/rapport/internal/instruments"
	"github.com/HendryAvila/rapport/internal/interview"
	"github.com/HendryAvila/rapport/internal/narrate"
	"github.com/HendryAvila/rapport/internal/store"
)

// SessionStore is the persistence the tools need. *store.Store satisfies it.
type SessionStore interface {
	CreateSession(history narrate.History) (*store.Session, error)
	GetSession(id string) (*store.Session, error)
	SetHistory(id string, history narrate.History) error
	AppendTurn(sessionID string, turn interview.Turn) (int, error)
	Transcript(sessionID string) (*interview.Transcript, error)
	PutAnswer(sessionID string, id instruments.ID, itemID string, value int) error
	Answers(sessionID string) (map[instruments.ID]instruments.AnswerSet, error)
}

var _ SessionStore = (*store.Store)(nil)

// instrumentEnum lists the instrument ids accepted by tool arguments.
func instrumentEnum() []string {
	out := make([]string, len(instruments.Order))
	for i, id := range instruments.Order {
		out[i] = string(id)
	}
	return out
}

// intArg extracts an integer argument from a tool request, returning
// defaultVal if the key is missing or not a number (JSON numbers are float64).
func intArg(req mcp.CallToolRequest, key string, defaultVal int) int {
	v, ok := req.GetArguments()[key].(float64)
	if !ok {
		return defaultVal
	}
	return int(v)
}

// boolArg extracts a boolean argument from a tool request.
func boolArg(req mcp.CallToolRequest, key string, defaultVal bool) bool {
	v, ok := req.GetArguments()[key].(bool)
	if !ok {
		return defaultVal
	}
	return v
}

// transcriptArg loads the transcript named by session_id, or parses the
// inline "transcript" JSON array of {role, content} turns.
func transcriptArg(s SessionStore, req mcp.CallToolRequest) (*interview.Transcript, error) {
	if id := strings.TrimSpace(req.GetString("session_id", "")); id != "" {
		return s.Transcript(id)
	}
	raw := strings.TrimSpace(req.GetString("transcript", ""))
	if raw == "" {
		return nil, fmt.Errorf("either 'session_id' or 'transcript' is required")
	}
	var turns []interview.Turn
	if err := json.Unmarshal([]byte(raw), &turns); err != nil {
		return nil, fmt.Errorf("parsing transcript: %w", err)
	}
	return interview.NewTranscript(turns...)
}

// jsonBlock renders v as an indented JSON code block.
func jsonBlock(v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling result: %w", err)
	}
	return "```json\n" + string(data) + "\n```\n", nil
}
