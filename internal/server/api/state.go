package api

import (
	"net/http"

	"github.com/ayusman/abhyasa/internal/navigation"
)

// StateProvider exposes the latest navigation snapshot.
type StateProvider interface {
	State() navigation.State
	Paused() bool
}

// StateHandler serves GET /api/state.
type StateHandler struct {
	provider StateProvider
}

// NewStateHandler creates a StateHandler.
func NewStateHandler(p StateProvider) *StateHandler {
	return &StateHandler{provider: p}
}

type stateResponse struct {
	navigation.State
	Paused bool `json:"paused"`
}

func (h *StateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, stateResponse{State: h.provider.State(), Paused: h.provider.Paused()})
}
