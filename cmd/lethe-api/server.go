package main

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/semaphore"

	"github.com/lethe-storage/lethe/pkg/domain"
	"github.com/lethe-storage/lethe/pkg/hermes"
	"github.com/lethe-storage/lethe/pkg/lethe"
	"github.com/lethe-storage/lethe/pkg/render"
)

// server exposes the manager over the local control socket. The two
// mutating actions share a single-slot gate: the manager itself performs no
// locking, so overlapping control-plane transactions are rejected here.
type server struct {
	manager *lethe.Manager
	variant string
	logger  hermes.Logger
	metrics hermes.Metrics
	gate    *semaphore.Weighted
}

func newServer(manager *lethe.Manager, variant string, logger hermes.Logger, metrics hermes.Metrics) *server {
	return &server{
		manager: manager,
		variant: variant,
		logger:  logger,
		metrics: metrics,
		gate:    semaphore.NewWeighted(1),
	}
}

func (s *server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/actions/ephemeral-storage/init", s.handleInit)
	mux.HandleFunc("/actions/ephemeral-storage/bind", s.handleBind)
	mux.HandleFunc("/actions/ephemeral-storage/list-disks", s.handleListDisks)
	mux.HandleFunc("/actions/ephemeral-storage/list-dirs", s.handleListDirs)
	mux.HandleFunc("/actions/ephemeral-storage/status", s.handleStatus)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.Handle("/metrics", promhttp.Handler())
	return s.withMiddleware(mux)
}

func (s *server) handleInit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req domain.InitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	if !s.gate.TryAcquire(1) {
		http.Error(w, "another storage operation is in progress", http.StatusConflict)
		return
	}
	defer s.gate.Release(1)

	if err := s.manager.Initialize(r.Context(), req); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) handleBind(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req domain.BindRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.Variant == "" {
		req.Variant = s.variant
	}

	if !s.gate.TryAcquire(1) {
		http.Error(w, "another storage operation is in progress", http.StatusConflict)
		return
	}
	defer s.gate.Release(1)

	if err := s.manager.Bind(r.Context(), req); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) handleListDisks(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	disks, err := s.manager.ListDisks(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeRendered(w, r, disks)
}

func (s *server) handleListDirs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	variant := r.URL.Query().Get("variant")
	if variant == "" {
		variant = s.variant
	}
	s.writeRendered(w, r, s.manager.ListDirs(variant))
}

func (s *server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	status, err := s.manager.Status(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeRendered(w, r, status)
}

// writeRendered serializes v per the opaque format hint on the request.
func (s *server) writeRendered(w http.ResponseWriter, r *http.Request, v any) {
	format := r.URL.Query().Get("format")
	switch format {
	case render.FormatYAML:
		w.Header().Set("Content-Type", "application/yaml")
	case render.FormatText:
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	default:
		w.Header().Set("Content-Type", "application/json")
	}
	if err := render.Render(w, v, format); err != nil {
		s.writeError(w, err)
	}
}

func (s *server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	var invalid *domain.InvalidParameterError
	if errors.As(err, &invalid) {
		status = http.StatusBadRequest
	}
	http.Error(w, err.Error(), status)
}
