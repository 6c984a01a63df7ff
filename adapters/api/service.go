// Package api exposes the search over HTTP: submit a matrix, run the
// search, fetch stored runs and rendered reports.
package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"gocausal/domain/core"
	"gocausal/domain/dataset"
	"gocausal/domain/knowledge"
	"gocausal/fask"
	"gocausal/internal"
	"gocausal/ports"
	"gocausal/report"
	"gocausal/skeleton"
)

// Service wires the HTTP surface to a run repository
type Service struct {
	repo   ports.RunRepository
	router *chi.Mux
	log    *internal.Logger
}

// NewService builds the router over the given repository
func NewService(repo ports.RunRepository) *Service {
	s := &Service{
		repo:   repo,
		router: chi.NewRouter(),
		log:    internal.NewDefaultLogger(),
	}

	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Recoverer)

	s.router.Route("/runs", func(r chi.Router) {
		r.Post("/", s.handleCreateRun)
		r.Get("/", s.handleListRuns)
		r.Get("/{id}", s.handleGetRun)
		r.Get("/{id}/report", s.handleRunReport)
	})

	return s
}

// Handler returns the root http handler
func (s *Service) Handler() http.Handler {
	return s.router
}

func (s *Service) handleCreateRun(w http.ResponseWriter, r *http.Request) {
	var req RunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	keys := make([]core.VariableKey, len(req.Variables))
	for i, name := range req.Variables {
		keys[i] = core.VariableKey(name)
	}
	sample, err := dataset.New(keys, req.Columns)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	cfg := fask.DefaultConfig()
	screen := skeleton.New()
	applyConfig(&cfg, screen, req.Config)

	know, err := buildKnowledge(sample, req.Knowledge)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	search, err := fask.New(sample, cfg,
		fask.WithSkeletonBuilder(screen),
		fask.WithKnowledge(know),
	)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	res, err := search.Run(r.Context())
	if err != nil {
		s.writeError(w, http.StatusUnprocessableEntity, err)
		return
	}

	rec := res.Record()
	if err := s.repo.Save(r.Context(), rec); err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.log.Info("run %s: %d edges, %d feedback pairs", rec.ID, len(rec.Edges), rec.TwoCycles)

	s.writeJSON(w, http.StatusCreated, rec)
}

func (s *Service) handleListRuns(w http.ResponseWriter, r *http.Request) {
	recs, err := s.repo.List(r.Context(), 50)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, http.StatusOK, recs)
}

func (s *Service) handleGetRun(w http.ResponseWriter, r *http.Request) {
	rec, err := s.repo.Get(r.Context(), core.RunID(chi.URLParam(r, "id")))
	if err != nil {
		s.writeError(w, http.StatusNotFound, err)
		return
	}
	s.writeJSON(w, http.StatusOK, rec)
}

func (s *Service) handleRunReport(w http.ResponseWriter, r *http.Request) {
	rec, err := s.repo.Get(r.Context(), core.RunID(chi.URLParam(r, "id")))
	if err != nil {
		s.writeError(w, http.StatusNotFound, err)
		return
	}

	md := report.Markdown(rec)
	if r.URL.Query().Get("format") == "html" {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(report.HTML(md))
		return
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.Write(md)
}

// applyConfig folds request overrides into the search and screen defaults
func applyConfig(cfg *fask.Config, screen *skeleton.FisherZ, rc *RunConfig) {
	if rc == nil {
		return
	}
	if rc.TwoCycleAlpha != nil {
		cfg.TwoCycleAlpha = *rc.TwoCycleAlpha
	}
	if rc.Depth != nil {
		cfg.Depth = *rc.Depth
	}
	if rc.MaxIterations != nil {
		cfg.MaxIterations = *rc.MaxIterations
	}
	if rc.PenaltyDiscount != nil {
		cfg.PenaltyDiscount = *rc.PenaltyDiscount
	}
	if rc.ScreenAlpha != nil {
		screen.Alpha = *rc.ScreenAlpha
	}
	cfg.Verbose = rc.Verbose
}

// buildKnowledge resolves constraint variable names against the sample
func buildKnowledge(sample *dataset.Sample, rk *RunKnowledge) (knowledge.Knowledge, error) {
	if rk == nil {
		return knowledge.Empty{}, nil
	}

	byKey := make(map[string]int)
	vars := sample.Variables()
	for i, v := range vars {
		byKey[v.Key.String()] = i
	}
	lookup := func(name string) (int, error) {
		i, ok := byKey[name]
		if !ok {
			return 0, fmt.Errorf("%w: knowledge references %q", core.ErrVariableNotFound, name)
		}
		return i, nil
	}

	store := knowledge.NewStore()
	for _, pair := range rk.Forbidden {
		a, err := lookup(pair[0])
		if err != nil {
			return nil, err
		}
		b, err := lookup(pair[1])
		if err != nil {
			return nil, err
		}
		store.SetForbidden(vars[a], vars[b])
	}
	for _, pair := range rk.Required {
		a, err := lookup(pair[0])
		if err != nil {
			return nil, err
		}
		b, err := lookup(pair[1])
		if err != nil {
			return nil, err
		}
		store.SetRequired(vars[a], vars[b])
	}
	for name, tier := range rk.Tiers {
		i, err := lookup(name)
		if err != nil {
			return nil, err
		}
		store.SetTier(vars[i], tier)
	}
	return store, nil
}

func (s *Service) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error("failed to encode response: %v", err)
	}
}

func (s *Service) writeError(w http.ResponseWriter, status int, err error) {
	s.log.Warn("request failed (%d): %v", status, err)
	s.writeJSON(w, status, errorResponse{Error: err.Error()})
}
