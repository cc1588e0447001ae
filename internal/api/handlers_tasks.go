package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/TanoojVardhan/sloth-planner/internal/api/respond"
	"github.com/TanoojVardhan/sloth-planner/internal/model"
	"github.com/TanoojVardhan/sloth-planner/internal/services"
)

type TaskHandler struct {
	svc *services.TaskService
}

func NewTaskHandler(svc *services.TaskService) *TaskHandler { return &TaskHandler{svc: svc} }

func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	var in struct {
		Title       string         `json:"title"`
		Description *string        `json:"description,omitempty"`
		Priority    model.Priority `json:"priority,omitempty"`
		DueDate     *model.Date    `json:"dueDate,omitempty"`
		Tags        []string       `json:"tags,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respond.WriteBadRequest(w, "invalid json")
		return
	}

	out, err := h.svc.CreateTask(r.Context(), &model.Task{
		UserID:      userID,
		Title:       in.Title,
		Description: in.Description,
		Priority:    in.Priority,
		DueDate:     in.DueDate,
		Tags:        in.Tags,
	})
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, out)
}

func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]
	q := r.URL.Query()

	f := model.TaskFilter{
		UserID:     userID,
		OrderBy:    q.Get("orderBy"),
		Descending: q.Get("order") == "desc",
	}
	if v := q.Get("completed"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			respond.WriteBadRequest(w, "completed must be a boolean")
			return
		}
		f.Completed = &b
	}
	if v := q.Get("priority"); v != "" {
		p := model.Priority(v)
		f.Priority = &p
	}
	if v := q.Get("tag"); v != "" {
		f.Tag = &v
	}
	if v := q.Get("dueBefore"); v != "" {
		d, err := model.ParseDate(v)
		if err != nil {
			respond.WriteBadRequest(w, err.Error())
			return
		}
		f.DueBefore = &d
	}
	if v := q.Get("dueAfter"); v != "" {
		d, err := model.ParseDate(v)
		if err != nil {
			respond.WriteBadRequest(w, err.Error())
			return
		}
		f.DueAfter = &d
	}
	f.Limit = intQuery(q.Get("limit"))
	f.Offset = intQuery(q.Get("offset"))

	out, err := h.svc.ListTasks(r.Context(), f)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"tasks": out, "count": len(out)})
}

func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	out, err := h.svc.GetTask(r.Context(), vars["userId"], vars["taskId"])
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	userID, taskID := vars["userId"], vars["taskId"]

	current, err := h.svc.GetTask(r.Context(), userID, taskID)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}

	var in struct {
		Title       *string         `json:"title,omitempty"`
		Description *string         `json:"description,omitempty"`
		Completed   *bool           `json:"completed,omitempty"`
		Priority    *model.Priority `json:"priority,omitempty"`
		DueDate     *model.Date     `json:"dueDate,omitempty"`
		Tags        *[]string       `json:"tags,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respond.WriteBadRequest(w, "invalid json")
		return
	}

	if in.Title != nil {
		current.Title = *in.Title
	}
	if in.Description != nil {
		current.Description = in.Description
	}
	if in.Completed != nil {
		current.Completed = *in.Completed
	}
	if in.Priority != nil {
		current.Priority = *in.Priority
	}
	if in.DueDate != nil {
		current.DueDate = in.DueDate
	}
	if in.Tags != nil {
		current.Tags = *in.Tags
	}

	out, err := h.svc.UpdateTask(r.Context(), userID, current)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

// ToggleTask flips completion without a body.
func (h *TaskHandler) ToggleTask(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	out, err := h.svc.ToggleTask(r.Context(), vars["userId"], vars["taskId"])
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := h.svc.DeleteTask(r.Context(), vars["userId"], vars["taskId"]); err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func intQuery(v string) int {
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
