package api

import (
	"net/http"

	"github.com/TanoojVardhan/sloth-planner/internal/api/respond"
)

// HealthReporter is the cached service-health flag maintained by the
// background checkers.
type HealthReporter interface {
	IsHealthy() bool
}

type HealthHandler struct {
	reporter HealthReporter
}

func NewHealthHandler(reporter HealthReporter) *HealthHandler {
	return &HealthHandler{reporter: reporter}
}

// Health returns 200 when all dependencies are up, 503 otherwise. The check
// is non-blocking; it reads the cached flag.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if h.reporter != nil && !h.reporter.IsHealthy() {
		respond.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "DOWN"})
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]string{"status": "UP"})
}
