package httpapi

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HendryAvila/rapport/internal/coverage"
	"github.com/HendryAvila/rapport/internal/evidence"
	"github.com/HendryAvila/rapport/internal/instruments"
	"github.com/HendryAvila/rapport/internal/judge"
	"github.com/HendryAvila/rapport/internal/metrics"
	"github.com/HendryAvila/rapport/internal/templates"
)

type testAPI struct {
	srv     *httptest.Server
	metrics *metrics.Metrics
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	reg, err := instruments.NewRegistry()
	require.NoError(t, err)
	r, err := templates.NewRenderer()
	require.NoError(t, err)

	promReg := prometheus.NewRegistry()
	m := metrics.New(promReg)
	h := New(reg, judge.NewBuilder(reg, r), nil, Options{Metrics: m, Gatherer: promReg})
	srv := httptest.NewServer(h.Routes())
	t.Cleanup(srv.Close)
	return &testAPI{srv: srv, metrics: m}
}

func (a *testAPI) post(t *testing.T, path, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(a.srv.URL+path, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func (a *testAPI) get(t *testing.T, path string) *http.Response {
	t.Helper()
	resp, err := http.Get(a.srv.URL + path)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

const transcriptJSON = `[
  {"role": "interviewer", "content": "Tell me about a recent argument with a partner."},
  {"role": "respondent", "content": "Last month we argued about money and I apologised for raising my voice."}
]`

func TestHealth(t *testing.T) {
	a := newTestAPI(t)
	resp := a.get(t, "/healthz")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var got map[string]string
	decodeBody(t, resp, &got)
	assert.Equal(t, "ok", got["status"])
}

func TestListInstruments(t *testing.T) {
	a := newTestAPI(t)
	resp := a.get(t, "/v1/instruments")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got []instruments.Instrument
	decodeBody(t, resp, &got)
	require.Len(t, got, len(instruments.Order))
	for i, id := range instruments.Order {
		assert.Equal(t, id, got[i].ID)
	}
}

func TestScoreInstrument(t *testing.T) {
	a := newTestAPI(t)
	resp := a.post(t, "/v1/instruments/brs/score", `{"answers": {"b1": 5, "b3": 4, "b5": 4}}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var res instruments.Result
	decodeBody(t, resp, &res)
	assert.Equal(t, instruments.BRS, res.Instrument)
	assert.InDelta(t, 13.0/3.0, res.Overall, 1e-9)
	assert.Equal(t, 3, res.Answered)
	assert.Equal(t, 1.0, testutil.ToFloat64(a.metrics.InstrumentsScored.WithLabelValues("brs")))
}

func TestScoreInstrument_Errors(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		body   string
		status int
	}{
		{"unknown instrument", "/v1/instruments/mbti/score", `{"answers": {}}`, http.StatusNotFound},
		{"out of range", "/v1/instruments/brs/score", `{"answers": {"b1": 9}}`, http.StatusUnprocessableEntity},
		{"unknown item", "/v1/instruments/brs/score", `{"answers": {"z9": 3}}`, http.StatusUnprocessableEntity},
		{"malformed body", "/v1/instruments/brs/score", `{"answers":`, http.StatusBadRequest},
		{"unknown field", "/v1/instruments/brs/score", `{"scores": {}}`, http.StatusBadRequest},
	}
	a := newTestAPI(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := a.post(t, tt.path, tt.body)
			assert.Equal(t, tt.status, resp.StatusCode)
			var body errorBody
			decodeBody(t, resp, &body)
			assert.NotEmpty(t, body.Error)
		})
	}
}

func TestProfile(t *testing.T) {
	a := newTestAPI(t)
	resp := a.post(t, "/v1/profile", `{"answers": {"brs": {"b1": 5, "b3": 5, "b5": 5}}, "history": "none"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got map[string]any
	decodeBody(t, resp, &got)
	assert.Equal(t, "none", got["history"])
	assert.Equal(t, 5.0, got["resilience"])
	assert.Len(t, got["cards"], len(instruments.Order))
}

func TestProfile_BadInput(t *testing.T) {
	a := newTestAPI(t)
	assert.Equal(t, http.StatusBadRequest, a.post(t, "/v1/profile", `{"answers": {"mbti": {}}}`).StatusCode)
	assert.Equal(t, http.StatusBadRequest, a.post(t, "/v1/profile", `{"history": "lots"}`).StatusCode)
}

func TestGradeEvidence(t *testing.T) {
	a := newTestAPI(t)
	resp := a.post(t, "/v1/evidence/grade", `{"turns": `+transcriptJSON+`}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var grades []evidence.Grade
	decodeBody(t, resp, &grades)
	require.NotEmpty(t, grades)
	assert.Equal(t, 1, int(grades[0].Construct))
}

func TestGradeEvidence_InvalidTurn(t *testing.T) {
	a := newTestAPI(t)
	resp := a.post(t, "/v1/evidence/grade", `{"turns": [{"role": "narrator", "content": "hi"}]}`)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestCoverage(t *testing.T) {
	a := newTestAPI(t)
	resp := a.post(t, "/v1/coverage", `{"turns": `+transcriptJSON+`}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var rep coverage.Report
	decodeBody(t, resp, &rep)
	assert.GreaterOrEqual(t, rep.CoveredCount, 1)
	assert.False(t, rep.Adequate)
	assert.Equal(t, 2, rep.TurnsObserved)
}

func TestScoringPrompt(t *testing.T) {
	a := newTestAPI(t)
	resp := a.post(t, "/v1/prompts/scoring", `{"turns": `+transcriptJSON+`, "history": "limited", "itemised": true}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got promptResponse
	decodeBody(t, resp, &got)
	assert.Contains(t, got.Prompt, "Q1: Tell me about a recent argument")
	assert.Contains(t, got.Prompt, "CALIBRATION")
	assert.Equal(t, 1.0, testutil.ToFloat64(a.metrics.PromptsBuilt.WithLabelValues("scoring")))
}

func TestScoringPrompt_NoTurns(t *testing.T) {
	a := newTestAPI(t)
	assert.Equal(t, http.StatusBadRequest, a.post(t, "/v1/prompts/scoring", `{}`).StatusCode)
}

func TestAlgorithmPrompt(t *testing.T) {
	a := newTestAPI(t)
	resp := a.post(t, "/v1/prompts/algorithm", `{"turns": `+transcriptJSON+`}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got promptResponse
	decodeBody(t, resp, &got)
	assert.Contains(t, got.Prompt, "### Pillar 9")
}

func TestParseJudgement(t *testing.T) {
	a := newTestAPI(t)

	resp := a.post(t, "/v1/judgements", `{"response": "{\"pillarScores\": {\"1\": 8}}"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got map[string]any
	decodeBody(t, resp, &got)
	assert.Equal(t, 8.0, got["overall"])

	resp = a.post(t, "/v1/judgements", `{"response": "sorry", "kind": "algorithm"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var fb judge.Judgement
	decodeBody(t, resp, &fb)
	assert.True(t, fb.Fallback)
	assert.Len(t, fb.PillarScores, 9)

	assert.Equal(t, http.StatusBadRequest, a.post(t, "/v1/judgements", `{"response": "x", "kind": "vibes"}`).StatusCode)
}

func TestMetricsEndpoint(t *testing.T) {
	a := newTestAPI(t)
	a.post(t, "/v1/instruments/tipi/score", `{"answers": {}}`)

	resp := a.get(t, "/metrics")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	buf := new(strings.Builder)
	_, err := io.Copy(buf, resp.Body)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `rapport_instruments_scored_total{instrument="tipi"} 1`)
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, statusFor(instruments.ErrUnknownInstrument))
	assert.Equal(t, http.StatusInternalServerError, statusFor(assert.AnError))
}
