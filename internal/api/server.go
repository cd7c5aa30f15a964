// Package api provides the HTTP server for petapd.
// It exposes the challenge catalog, reward claims, step-report ingestion,
// the sticker album, and the creation-chance budget as a per-user REST API.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/apukou/petapd/internal/app/challenge"
	"github.com/apukou/petapd/internal/app/entitlement"
	"github.com/apukou/petapd/internal/app/sticker"
	"github.com/apukou/petapd/internal/domain"
)

// Version reported by /api/version.
const Version = "0.1.0"

// Server is the petapd HTTP API server.
type Server struct {
	engine         *challenge.Engine
	album          *sticker.Album
	ents           *entitlement.Manager
	metricsEnabled bool
}

// NewServer creates a new API server.
func NewServer(engine *challenge.Engine, album *sticker.Album, ents *entitlement.Manager) *Server {
	return &Server{engine: engine, album: album, ents: ents}
}

// EnableMetrics enables the /metrics Prometheus endpoint.
func (s *Server) EnableMetrics() { s.metricsEnabled = true }

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(corsMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status": "ok",
		})
	})

	r.Get("/api/status", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status": "petapd is running",
		})
	})

	r.Get("/api/version", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"version": Version,
		})
	})

	r.Get("/api/challenges/catalog", s.handleCatalog)

	r.Route("/api/users/{user}", func(r chi.Router) {
		r.Get("/challenges", s.handleListChallenges)
		r.Post("/challenges/claim", s.handleClaim)
		r.Get("/challenges/history", s.handleHistory)
		r.Post("/steps", s.handleReportSteps)
		r.Get("/entitlement", s.handleEntitlement)
		r.Get("/stickers", s.handleListStickers)
		r.Post("/stickers", s.handleCreateSticker)
		r.Delete("/stickers/{id}", s.handleDeleteSticker)
		r.Get("/profile", s.handleProfile)
		r.Post("/reset", s.handleReset)
	})

	if s.metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	return r
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]interface{}{
		"error": map[string]interface{}{
			"message": msg,
			"type":    "error",
		},
	})
}

// writeDomainError maps domain sentinels to HTTP statuses.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotAuthenticated):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrUnknownChallenge),
		errors.Is(err, domain.ErrStickerNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrNoCreationChances):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrNegativeSteps),
		errors.Is(err, domain.ErrChallengeNotCompleted):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

// corsMiddleware adds CORS headers for local development.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
