package api

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/krishimitra/krishirag/internal/pipeline"
	"github.com/krishimitra/krishirag/internal/scheduler"
)

// Server exposes the query pipeline and scheduler over HTTP. Store
// failures surface as structured JSON bodies, never as unhandled 5xx.
type Server struct {
	pipeline  *pipeline.Pipeline
	scheduler *scheduler.Scheduler
	logger    *log.Logger
}

func NewServer(p *pipeline.Pipeline, sched *scheduler.Scheduler, logger *log.Logger) *Server {
	return &Server{
		pipeline:  p,
		scheduler: sched,
		logger:    logger,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Post("/query", s.handleQuery)
		r.Get("/stats", s.handleStats)
		r.Get("/scheduler/status", s.handleSchedulerStatus)
		r.Post("/admin/reindex", s.handleReindex)
	})

	return r
}

type queryRequest struct {
	Query   string `json:"query"`
	Context struct {
		State      string `json:"state,omitempty"`
		FarmerType string `json:"farmer_type,omitempty"`
		Location   string `json:"location,omitempty"`
	} `json:"context"`
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Query == "" {
		writeError(w, http.StatusBadRequest, "query is required")
		return
	}

	resp := s.pipeline.ProcessQuery(req.Query, pipeline.QueryContext{
		State:      req.Context.State,
		FarmerType: req.Context.FarmerType,
		Location:   req.Context.Location,
	})
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.pipeline.SystemStats()
	if err != nil {
		writeError(w, http.StatusOK, "failed to read stats: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":         true,
		"total_documents": stats.TotalDocuments,
		"total_schemes":   stats.TotalSchemes,
	})
}

func (s *Server) handleSchedulerStatus(w http.ResponseWriter, r *http.Request) {
	current, state := s.scheduler.Status()

	body := map[string]any{
		"success":     true,
		"current_job": string(current),
		"idle":        current == "",
		"last_stats":  state.LastStats,
	}
	if !state.LastReindexTime.IsZero() {
		body["last_reindex_time"] = state.LastReindexTime.Format(time.RFC3339)
	}
	if !state.LastFullReindex.IsZero() {
		body["last_full_reindex"] = state.LastFullReindex.Format(time.RFC3339)
	}
	writeJSON(w, http.StatusOK, body)
}

func (s *Server) handleReindex(w http.ResponseWriter, r *http.Request) {
	kind := scheduler.JobKind(r.URL.Query().Get("type"))
	switch kind {
	case "":
		kind = scheduler.JobFull
	case scheduler.JobFull, scheduler.JobIncremental, scheduler.JobMaintenance:
	default:
		writeError(w, http.StatusBadRequest, "unknown reindex type")
		return
	}

	if err := s.scheduler.ForceReindex(r.Context(), kind); err != nil {
		writeError(w, http.StatusConflict, err.Error())
		return
	}

	_, state := s.scheduler.Status()
	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"type":       string(kind),
		"last_stats": state.LastStats,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("failed to write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{
		"success": false,
		"error":   message,
	})
}
