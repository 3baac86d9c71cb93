// Package resources implements the MCP resource handlers.
//
// Resources provide read-only data that the host can consume for context.
// They use URI-based addressing (rapport://...) following MCP conventions.
package resources

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/rapport/internal/instruments"
	"github.com/HendryAvila/rapport/internal/pillar"
)

// Resource URIs.
const (
	InstrumentsURI = "rapport://instruments"
	PillarsURI     = "rapport://pillars"
)

// Handler serves the item banks and the pillar catalogue.
type Handler struct {
	registry *instruments.Registry
}

// NewHandler creates a resource Handler with its dependencies.
func NewHandler(reg *instruments.Registry) *Handler {
	return &Handler{registry: reg}
}

// InstrumentsResource returns the MCP resource definition for the item banks.
func (h *Handler) InstrumentsResource() mcp.Resource {
	return mcp.NewResource(
		InstrumentsURI,
		"Psychometric Instruments",
		mcp.WithResourceDescription("The five item banks: item ids, wording, scale bounds, anchors and reverse-coded items"),
		mcp.WithMIMEType("application/json"),
	)
}

// HandleInstruments returns every instrument as JSON, in canonical order.
func (h *Handler) HandleInstruments(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return jsonResource(req.Params.URI, h.registry.All())
}

// PillarsResource returns the MCP resource definition for the pillar catalogue.
func (h *Handler) PillarsResource() mcp.Resource {
	return mcp.NewResource(
		PillarsURI,
		"Compatibility Pillars",
		mcp.WithResourceDescription("The nine pillars with their weights and whether the interview probes them"),
		mcp.WithMIMEType("application/json"),
	)
}

// HandlePillars returns the pillar catalogue as JSON.
func (h *Handler) HandlePillars(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return jsonResource(req.Params.URI, pillar.All())
}

func jsonResource(uri string, v any) ([]mcp.ResourceContents, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling %s: %w", uri, err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
