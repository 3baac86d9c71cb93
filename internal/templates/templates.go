// Package templates renders the prompt assets sent to the external scoring
// model and to the interviewing host.
//
// The prompts are versioned configuration, not code: they live as embedded
// .tmpl files with named placeholders, and every placeholder must resolve
// against its data struct (missing keys are an error, never "<no value>").
package templates

import (
	"bytes"
	"embed"
	"fmt"
	"text/template"
)

//go:embed assets/*.tmpl
var assets embed.FS

// Template names.
const (
	Scoring     = "scoring.tmpl"
	Algorithm   = "algorithm.tmpl"
	Interviewer = "interviewer.tmpl"
)

// Names lists every embedded template.
var Names = []string{Scoring, Algorithm, Interviewer}

// Renderer renders a named template with data.
type Renderer interface {
	Render(name string, data any) (string, error)
}

// EmbedRenderer renders the embedded prompt assets.
type EmbedRenderer struct {
	tmpl *template.Template
}

// NewRenderer parses every embedded template.
func NewRenderer() (*EmbedRenderer, error) {
	tmpl, err := template.New("").
		Option("missingkey=error").
		Funcs(funcs).
		ParseFS(assets, "assets/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parsing prompt templates: %w", err)
	}
	for _, name := range Names {
		if tmpl.Lookup(name) == nil {
			return nil, fmt.Errorf("prompt template %q not embedded", name)
		}
	}
	return &EmbedRenderer{tmpl: tmpl}, nil
}

// Render executes the named template.
func (r *EmbedRenderer) Render(name string, data any) (string, error) {
	t := r.tmpl.Lookup(name)
	if t == nil {
		return "", fmt.Errorf("unknown template %q", name)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering %s: %w", name, err)
	}
	return buf.String(), nil
}

// Template returns the parsed template, for placeholder inspection.
func (r *EmbedRenderer) Template(name string) *template.Template {
	return r.tmpl.Lookup(name)
}

var funcs = template.FuncMap{
	"f2":  func(v float64) string { return fmt.Sprintf("%.2f", v) },
	"f1":  func(v float64) string { return fmt.Sprintf("%.1f", v) },
	"inc": func(i int) int { return i + 1 },
}
