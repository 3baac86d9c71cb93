package resources

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/rapport/internal/instruments"
	"github.com/HendryAvila/rapport/internal/pillar"
)

func newHandler(t *testing.T) *Handler {
	t.Helper()
	reg, err := instruments.NewRegistry()
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	return NewHandler(reg)
}

func readText(t *testing.T, contents []mcp.ResourceContents) string {
	t.Helper()
	if len(contents) != 1 {
		t.Fatalf("got %d contents, want 1", len(contents))
	}
	tc, ok := contents[0].(mcp.TextResourceContents)
	if !ok {
		t.Fatalf("content is %T", contents[0])
	}
	if tc.MIMEType != "application/json" {
		t.Errorf("MIMEType = %q", tc.MIMEType)
	}
	return tc.Text
}

func TestHandleInstruments(t *testing.T) {
	h := newHandler(t)
	req := mcp.ReadResourceRequest{}
	req.Params.URI = InstrumentsURI

	contents, err := h.HandleInstruments(context.Background(), req)
	if err != nil {
		t.Fatalf("HandleInstruments() error: %v", err)
	}
	var got []instruments.Instrument
	if err := json.Unmarshal([]byte(readText(t, contents)), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(got) != len(instruments.Order) {
		t.Fatalf("got %d instruments, want %d", len(got), len(instruments.Order))
	}
	for i, id := range instruments.Order {
		if got[i].ID != id {
			t.Errorf("instrument %d = %s, want %s", i, got[i].ID, id)
		}
		if len(got[i].Items) == 0 {
			t.Errorf("%s has no items", id)
		}
	}
}

func TestHandlePillars(t *testing.T) {
	h := newHandler(t)
	req := mcp.ReadResourceRequest{}
	req.Params.URI = PillarsURI

	contents, err := h.HandlePillars(context.Background(), req)
	if err != nil {
		t.Fatalf("HandlePillars() error: %v", err)
	}
	var got []pillar.Pillar
	if err := json.Unmarshal([]byte(readText(t, contents)), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(got) != 9 {
		t.Fatalf("got %d pillars, want 9", len(got))
	}
	total := 0
	for _, p := range got {
		total += p.Weight
	}
	if total != 100 {
		t.Errorf("weights sum to %d, want 100", total)
	}
}

func TestResourceDefinitions(t *testing.T) {
	h := newHandler(t)
	if h.InstrumentsResource().URI != InstrumentsURI {
		t.Errorf("instruments URI = %q", h.InstrumentsResource().URI)
	}
	if h.PillarsResource().URI != PillarsURI {
		t.Errorf("pillars URI = %q", h.PillarsResource().URI)
	}
}
