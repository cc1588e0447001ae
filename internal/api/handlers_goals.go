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

type GoalHandler struct {
	svc *services.GoalService
}

func NewGoalHandler(svc *services.GoalService) *GoalHandler { return &GoalHandler{svc: svc} }

func (h *GoalHandler) CreateGoal(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	var in struct {
		Title         string      `json:"title"`
		TargetAmount  float64     `json:"targetAmount"`
		CurrentAmount float64     `json:"currentAmount"`
		Category      *string     `json:"category,omitempty"`
		DueDate       *model.Date `json:"dueDate,omitempty"`
		Tags          []string    `json:"tags,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respond.WriteBadRequest(w, "invalid json")
		return
	}

	out, err := h.svc.CreateGoal(r.Context(), &model.Goal{
		UserID:        userID,
		Title:         in.Title,
		TargetAmount:  in.TargetAmount,
		CurrentAmount: in.CurrentAmount,
		Category:      in.Category,
		DueDate:       in.DueDate,
		Tags:          in.Tags,
	})
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, out)
}

func (h *GoalHandler) ListGoals(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]
	q := r.URL.Query()

	f := model.GoalFilter{UserID: userID, Limit: intQuery(q.Get("limit"))}
	if v := q.Get("completed"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			respond.WriteBadRequest(w, "completed must be a boolean")
			return
		}
		f.Completed = &b
	}
	if v := q.Get("category"); v != "" {
		f.Category = &v
	}

	out, err := h.svc.ListGoals(r.Context(), f)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"goals": out, "count": len(out)})
}

func (h *GoalHandler) GetGoal(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	out, err := h.svc.GetGoal(r.Context(), vars["userId"], vars["goalId"])
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

// UpdateGoal merges provided fields. completed is absent on purpose: the
// store derives it from the amounts.
func (h *GoalHandler) UpdateGoal(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	userID, goalID := vars["userId"], vars["goalId"]

	current, err := h.svc.GetGoal(r.Context(), userID, goalID)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}

	var in struct {
		Title         *string     `json:"title,omitempty"`
		TargetAmount  *float64    `json:"targetAmount,omitempty"`
		CurrentAmount *float64    `json:"currentAmount,omitempty"`
		Category      *string     `json:"category,omitempty"`
		DueDate       *model.Date `json:"dueDate,omitempty"`
		Tags          *[]string   `json:"tags,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respond.WriteBadRequest(w, "invalid json")
		return
	}

	if in.Title != nil {
		current.Title = *in.Title
	}
	if in.TargetAmount != nil {
		current.TargetAmount = *in.TargetAmount
	}
	if in.CurrentAmount != nil {
		current.CurrentAmount = *in.CurrentAmount
	}
	if in.Category != nil {
		current.Category = in.Category
	}
	if in.DueDate != nil {
		current.DueDate = in.DueDate
	}
	if in.Tags != nil {
		current.Tags = *in.Tags
	}

	out, err := h.svc.UpdateGoal(r.Context(), userID, current)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

func (h *GoalHandler) UpdateProgress(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	var in struct {
		CurrentAmount float64 `json:"currentAmount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respond.WriteBadRequest(w, "invalid json")
		return
	}

	out, err := h.svc.UpdateProgress(r.Context(), vars["userId"], vars["goalId"], in.CurrentAmount)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

func (h *GoalHandler) DeleteGoal(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := h.svc.DeleteGoal(r.Context(), vars["userId"], vars["goalId"]); err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
