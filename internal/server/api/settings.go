// Package api provides the HTTP API handlers for session parameters and
// navigation state.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/ayusman/abhyasa/internal/config"
	"github.com/ayusman/abhyasa/internal/log"
	"github.com/ayusman/abhyasa/internal/store"
)

// SessionStore is the live session configuration.
type SessionStore interface {
	Snapshot() config.Session
	Set(key, raw string) (config.Session, error)
}

// SettingsHandler serves /api/settings and /api/settings/{key}.
type SettingsHandler struct {
	live SessionStore
	repo *store.SettingsRepository
}

// NewSettingsHandler creates a handler updating live. When repo is not nil
// accepted values are persisted.
func NewSettingsHandler(live SessionStore, repo *store.SettingsRepository) *SettingsHandler {
	return &SettingsHandler{live: live, repo: repo}
}

// Request and response types

type settingResponse struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type settingsResponse struct {
	Settings map[string]string `json:"settings"`
}

type updateRequest struct {
	Value *string `json:"value"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// ServeHTTP routes collection and item requests.
func (h *SettingsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	key := strings.TrimPrefix(r.URL.Path, "/api/settings")
	key = strings.TrimPrefix(key, "/")

	if key == "" {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		writeJSON(w, http.StatusOK, settingsResponse{Settings: h.live.Snapshot().Values()})
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.get(w, key)
	case http.MethodPut:
		h.update(w, r, key)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *SettingsHandler) get(w http.ResponseWriter, key string) {
	v, err := h.live.Snapshot().Get(key)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, settingResponse{Key: key, Value: v})
}

func (h *SettingsHandler) update(w http.ResponseWriter, r *http.Request, key string) {
	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Value == nil {
		writeError(w, http.StatusBadRequest, "value is required")
		return
	}

	s, err := h.live.Set(key, *req.Value)
	if err != nil {
		switch {
		case errors.Is(err, config.ErrUnknownParameter):
			writeError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, config.ErrMalformedValue):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	// the effective value may have been clamped
	v, _ := s.Get(key)
	if h.repo != nil {
		if err := h.repo.Set(key, v); err != nil {
			log.Error("persist setting failed", "key", key, "err", err)
			writeError(w, http.StatusInternalServerError, "failed to persist setting")
			return
		}
	}
	log.Info("setting updated", "key", key, "value", v)
	writeJSON(w, http.StatusOK, settingResponse{Key: key, Value: v})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
