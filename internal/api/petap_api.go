package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/apukou/petapd/internal/app/challenge"
)

// ─── Petap REST API (/api/*) ─────────────────────────────────────────────────
// Every per-user route takes the user id from the path. An empty id is
// rejected with 401 before any store access.

func userID(r *http.Request) string {
	return chi.URLParam(r, "user")
}

// --- /api/challenges/catalog ---

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"challenges": challenge.Catalog(),
	})
}

// --- GET /api/users/{user}/challenges ---

func (s *Server) handleListChallenges(w http.ResponseWriter, r *http.Request) {
	// Optional ?steps=N reports today's count before evaluating, so a
	// client can refresh and list in one round trip.
	if v := r.URL.Query().Get("steps"); v != "" {
		steps, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "steps must be an integer")
			return
		}
		if err := s.engine.ReportSteps(userID(r), steps); err != nil {
			writeDomainError(w, err)
			return
		}
	}

	statuses, err := s.engine.ListChallenges(userID(r))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"challenges": statuses,
	})
}

// --- POST /api/users/{user}/challenges/claim ---

type claimRequest struct {
	StepGoal        int  `json:"step_goal"`
	IsConsecutive   bool `json:"is_consecutive"`
	ConsecutiveDays int  `json:"consecutive_days"`
}

func (s *Server) handleClaim(w http.ResponseWriter, r *http.Request) {
	var req claimRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	def, err := challenge.Lookup(req.StepGoal, req.IsConsecutive, req.ConsecutiveDays)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	res, err := s.engine.AttemptClaim(userID(r), def)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// --- GET /api/users/{user}/challenges/history ---

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	days := 30
	if v := r.URL.Query().Get("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "days must be a positive integer")
			return
		}
		days = n
	}

	history, err := s.engine.History(userID(r), days)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"history": history,
	})
}

// --- POST /api/users/{user}/steps ---

type stepsRequest struct {
	Steps int `json:"steps"`
}

func (s *Server) handleReportSteps(w http.ResponseWriter, r *http.Request) {
	var req stepsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.engine.ReportSteps(userID(r), req.Steps); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"steps": req.Steps,
	})
}

// --- GET /api/users/{user}/entitlement ---

func (s *Server) handleEntitlement(w http.ResponseWriter, r *http.Request) {
	e, err := s.ents.Get(userID(r))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"remaining":       e.Remaining(),
		"total_chances":   e.TotalChances,
		"daily_used":      e.DailyUsedCount,
		"last_reset_date": e.LastResetDate,
	})
}

// --- GET /api/users/{user}/stickers ---

func (s *Server) handleListStickers(w http.ResponseWriter, r *http.Request) {
	stickers, err := s.album.List(userID(r))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"stickers": stickers,
	})
}

// --- POST /api/users/{user}/stickers ---

type createStickerRequest struct {
	Name string `json:"name"`
}

func (s *Server) handleCreateSticker(w http.ResponseWriter, r *http.Request) {
	var req createStickerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	st, err := s.album.Create(userID(r), req.Name)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, st)
}

// --- DELETE /api/users/{user}/stickers/{id} ---

func (s *Server) handleDeleteSticker(w http.ResponseWriter, r *http.Request) {
	if err := s.album.Delete(userID(r), chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- GET /api/users/{user}/profile ---

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	p, err := s.engine.Profile(userID(r))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// --- POST /api/users/{user}/reset ---

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if err := s.engine.ResetAccount(userID(r)); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "reset",
	})
}
