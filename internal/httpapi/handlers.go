package httpapi

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/HendryAvila/rapport/internal/coverage"
	"github.com/HendryAvila/rapport/internal/evidence"
	"github.com/HendryAvila/rapport/internal/instruments"
	"github.com/HendryAvila/rapport/internal/interview"
	"github.com/HendryAvila/rapport/internal/judge"
	"github.com/HendryAvila/rapport/internal/narrate"
	"github.com/HendryAvila/rapport/internal/pillar"
	"github.com/HendryAvila/rapport/internal/profile"
)

// --- Request bodies ---

type scoreRequest struct {
	Answers instruments.AnswerSet `json:"answers"`
}

type profileRequest struct {
	Answers map[string]instruments.AnswerSet `json:"answers"`
	History string                           `json:"history"`
}

type transcriptRequest struct {
	Turns []interview.Turn `json:"turns"`
}

type scoringPromptRequest struct {
	profileRequest
	Turns    []interview.Turn `json:"turns"`
	Itemised bool             `json:"itemised"`
}

type algorithmPromptRequest struct {
	profileRequest
	Turns []interview.Turn `json:"turns"`
}

type judgementRequest struct {
	Response string           `json:"response"`
	Kind     string           `json:"kind"`
	Turns    []interview.Turn `json:"turns"`
}

type promptResponse struct {
	Prompt string `json:"prompt"`
}

type judgementResponse struct {
	*judge.Judgement
	Overall float64 `json:"overall"`
}

// --- Handlers ---

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) handleListInstruments(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.registry.All())
}

func (h *Handler) handleScoreInstrument(w http.ResponseWriter, r *http.Request) {
	id, err := instruments.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	in, err := h.registry.Get(id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var req scoreRequest
	if err := decode(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	res, err := instruments.Score(in, req.Answers)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.metrics.IncInstrumentScored(string(id))
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) handleProfile(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if err := decode(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	typ, err := h.typology(req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, typ)
}

func (h *Handler) handleGradeEvidence(w http.ResponseWriter, r *http.Request) {
	var req transcriptRequest
	if err := decode(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	tr, err := interview.NewTranscript(req.Turns...)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	grades := evidence.GradeTranscript(tr.Turns(), h.classifier)
	for _, g := range grades {
		h.metrics.IncEvidenceGrade(g.Construct.String(), g.Quality.String())
	}
	writeJSON(w, http.StatusOK, grades)
}

func (h *Handler) handleCoverage(w http.ResponseWriter, r *http.Request) {
	var req transcriptRequest
	if err := decode(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	tr, err := interview.NewTranscript(req.Turns...)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, coverage.Replay(h.classifier, h.minHits, tr.Turns()).Progress())
}

func (h *Handler) handleScoringPrompt(w http.ResponseWriter, r *http.Request) {
	var req scoringPromptRequest
	if err := decode(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	if len(req.Turns) == 0 {
		h.writeError(w, r, fmt.Errorf("%w: 'turns' must hold the interview transcript", errBadRequest))
		return
	}
	typ, err := h.typology(req.profileRequest)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	tr, err := interview.NewTranscript(req.Turns...)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	out, err := h.builder.BuildScoringPrompt(tr, typ, judge.ScoringOptions{
		Itemised: req.Itemised,
		Grades:   evidence.GradeTranscript(tr.Turns(), h.classifier),
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.metrics.IncPromptBuilt("scoring")
	writeJSON(w, http.StatusOK, promptResponse{Prompt: out})
}

func (h *Handler) handleAlgorithmPrompt(w http.ResponseWriter, r *http.Request) {
	var req algorithmPromptRequest
	if err := decode(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	typ, err := h.typology(req.profileRequest)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	tr, err := interview.NewTranscript(req.Turns...)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	out, err := h.builder.BuildAlgorithmPrompt(typ, judge.GroupAnswers(tr.Pairs(), h.classifier))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.metrics.IncPromptBuilt("algorithm")
	writeJSON(w, http.StatusOK, promptResponse{Prompt: out})
}

func (h *Handler) handleParseJudgement(w http.ResponseWriter, r *http.Request) {
	var req judgementRequest
	if err := decode(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	var ids []pillar.ID
	switch req.Kind {
	case "", "scoring":
		ids = pillar.Interviewed()
	case "algorithm":
		for _, p := range pillar.All() {
			ids = append(ids, p.ID)
		}
	default:
		h.writeError(w, r, fmt.Errorf("%w: kind %q must be scoring or algorithm", errBadRequest, req.Kind))
		return
	}
	var grades []evidence.Grade
	if len(req.Turns) > 0 {
		tr, err := interview.NewTranscript(req.Turns...)
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		grades = evidence.GradeTranscript(tr.Turns(), h.classifier)
	}
	j := judge.ParseOrFallback(req.Response, ids, grades)
	writeJSON(w, http.StatusOK, judgementResponse{Judgement: j, Overall: j.Overall()})
}

// typology validates the answer map keys and history, then builds the
// typology.
func (h *Handler) typology(req profileRequest) (*profile.Typology, error) {
	history, err := narrate.ParseHistory(req.History)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errBadRequest, err)
	}
	answers := make(map[instruments.ID]instruments.AnswerSet, len(req.Answers))
	for key, set := range req.Answers {
		id, err := instruments.ParseID(key)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", errBadRequest, err)
		}
		answers[id] = set
	}
	return profile.Build(h.registry, answers, history)
}
