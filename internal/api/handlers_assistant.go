package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/TanoojVardhan/sloth-planner/internal/api/respond"
	"github.com/TanoojVardhan/sloth-planner/internal/assistant"
)

type AssistantHandler struct {
	svc *assistant.Service
}

func NewAssistantHandler(svc *assistant.Service) *AssistantHandler {
	return &AssistantHandler{svc: svc}
}

// ExecuteCommand parses a free-text command and creates the matching record.
func (h *AssistantHandler) ExecuteCommand(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	var in struct {
		Input string `json:"input"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respond.WriteBadRequest(w, "invalid json")
		return
	}
	if strings.TrimSpace(in.Input) == "" {
		respond.WriteBadRequest(w, "input is required")
		return
	}

	out, err := h.svc.Execute(r.Context(), userID, in.Input)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}
