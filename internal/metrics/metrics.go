// Package metrics exposes Prometheus counters for the scoring pipeline.
// A nil *Metrics is valid and records nothing.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks scoring, grading, prompt building and transcript growth.
type Metrics struct {
	InstrumentsScored *prometheus.CounterVec
	EvidenceGrades    *prometheus.CounterVec
	PromptsBuilt      *prometheus.CounterVec
	TurnsRecorded     *prometheus.CounterVec
}

// New registers the metrics on reg. Pass prometheus.NewRegistry() in tests
// to avoid clashing with the default registry.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		InstrumentsScored: f.NewCounterVec(prometheus.CounterOpts{
			Name: "rapport_instruments_scored_total",
			Help: "Total number of instrument scorings",
		}, []string{"instrument"}),
		EvidenceGrades: f.NewCounterVec(prometheus.CounterOpts{
			Name: "rapport_evidence_grades_total",
			Help: "Total number of construct evidence grades by quality tier",
		}, []string{"construct", "quality"}),
		PromptsBuilt: f.NewCounterVec(prometheus.CounterOpts{
			Name: "rapport_prompts_built_total",
			Help: "Total number of prompts rendered",
		}, []string{"kind"}),
		TurnsRecorded: f.NewCounterVec(prometheus.CounterOpts{
			Name: "rapport_turns_recorded_total",
			Help: "Total number of transcript turns recorded",
		}, []string{"role"}),
	}
}

// IncInstrumentScored records one instrument scoring.
func (m *Metrics) IncInstrumentScored(instrument string) {
	if m == nil {
		return
	}
	m.InstrumentsScored.WithLabelValues(instrument).Inc()
}

// IncEvidenceGrade records one construct grade.
func (m *Metrics) IncEvidenceGrade(construct, quality string) {
	if m == nil {
		return
	}
	m.EvidenceGrades.WithLabelValues(construct, quality).Inc()
}

// IncPromptBuilt records one rendered prompt of the given kind.
func (m *Metrics) IncPromptBuilt(kind string) {
	if m == nil {
		return
	}
	m.PromptsBuilt.WithLabelValues(kind).Inc()
}

// IncTurnRecorded records one appended transcript turn.
func (m *Metrics) IncTurnRecorded(role string) {
	if m == nil {
		return
	}
	m.TurnsRecorded.WithLabelValues(role).Inc()
}
