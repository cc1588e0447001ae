package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/TanoojVardhan/sloth-planner/internal/api/respond"
	"github.com/TanoojVardhan/sloth-planner/internal/model"
	"github.com/TanoojVardhan/sloth-planner/internal/services"
)

type ProjectHandler struct {
	svc *services.ProjectService
}

func NewProjectHandler(svc *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{svc: svc}
}

func (h *ProjectHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	var in struct {
		Title          string                  `json:"title"`
		Difficulty     model.ProjectDifficulty `json:"difficulty,omitempty"`
		Status         model.ProjectStatus     `json:"status,omitempty"`
		EstimatedHours *float64                `json:"estimatedHours,omitempty"`
		Category       *string                 `json:"category,omitempty"`
		Tags           []string                `json:"tags,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respond.WriteBadRequest(w, "invalid json")
		return
	}

	out, err := h.svc.CreateProject(r.Context(), &model.Project{
		UserID:         userID,
		Title:          in.Title,
		Difficulty:     in.Difficulty,
		Status:         in.Status,
		EstimatedHours: in.EstimatedHours,
		Category:       in.Category,
		Tags:           in.Tags,
	})
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, out)
}

func (h *ProjectHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]
	q := r.URL.Query()

	f := model.ProjectFilter{UserID: userID, Limit: intQuery(q.Get("limit"))}
	if v := q.Get("status"); v != "" {
		s := model.ProjectStatus(v)
		f.Status = &s
	}
	if v := q.Get("category"); v != "" {
		f.Category = &v
	}

	out, err := h.svc.ListProjects(r.Context(), f)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"projects": out, "count": len(out)})
}

func (h *ProjectHandler) GetProject(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	out, err := h.svc.GetProject(r.Context(), vars["userId"], vars["projectId"])
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

func (h *ProjectHandler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	userID, projectID := vars["userId"], vars["projectId"]

	current, err := h.svc.GetProject(r.Context(), userID, projectID)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}

	var in struct {
		Title          *string                  `json:"title,omitempty"`
		Difficulty     *model.ProjectDifficulty `json:"difficulty,omitempty"`
		Status         *model.ProjectStatus     `json:"status,omitempty"`
		EstimatedHours *float64                 `json:"estimatedHours,omitempty"`
		Category       *string                  `json:"category,omitempty"`
		Tags           *[]string                `json:"tags,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respond.WriteBadRequest(w, "invalid json")
		return
	}

	if in.Title != nil {
		current.Title = *in.Title
	}
	if in.Difficulty != nil {
		current.Difficulty = *in.Difficulty
	}
	if in.Status != nil {
		current.Status = *in.Status
	}
	if in.EstimatedHours != nil {
		current.EstimatedHours = in.EstimatedHours
	}
	if in.Category != nil {
		current.Category = in.Category
	}
	if in.Tags != nil {
		current.Tags = *in.Tags
	}

	out, err := h.svc.UpdateProject(r.Context(), userID, current)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

// SetStatus moves the project to any status; transitions are unguarded.
func (h *ProjectHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	var in struct {
		Status model.ProjectStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respond.WriteBadRequest(w, "invalid json")
		return
	}

	out, err := h.svc.SetStatus(r.Context(), vars["userId"], vars["projectId"], in.Status)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

func (h *ProjectHandler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := h.svc.DeleteProject(r.Context(), vars["userId"], vars["projectId"]); err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
