package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/TanoojVardhan/sloth-planner/internal/api/respond"
	"github.com/TanoojVardhan/sloth-planner/internal/model"
	"github.com/TanoojVardhan/sloth-planner/internal/services"
)

type EventHandler struct {
	svc *services.EventService
}

func NewEventHandler(svc *services.EventService) *EventHandler { return &EventHandler{svc: svc} }

func (h *EventHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	var in struct {
		Title       string            `json:"title"`
		Description *string           `json:"description,omitempty"`
		Location    *string           `json:"location,omitempty"`
		StartTime   time.Time         `json:"startTime"`
		EndTime     time.Time         `json:"endTime"`
		AllDay      bool              `json:"allDay"`
		Color       *string           `json:"color,omitempty"`
		Tags        []string          `json:"tags,omitempty"`
		Recurrence  *model.Recurrence `json:"recurrence,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respond.WriteBadRequest(w, "invalid json")
		return
	}

	out, err := h.svc.CreateEvent(r.Context(), &model.Event{
		UserID:      userID,
		Title:       in.Title,
		Description: in.Description,
		Location:    in.Location,
		StartTime:   in.StartTime,
		EndTime:     in.EndTime,
		AllDay:      in.AllDay,
		Color:       in.Color,
		Tags:        in.Tags,
		Recurrence:  in.Recurrence,
	})
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, out)
}

// ListEvents returns events overlapping the start/end range params (RFC3339).
func (h *EventHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]
	q := r.URL.Query()

	rng := model.EventRange{UserID: userID, Limit: intQuery(q.Get("limit"))}
	if v := q.Get("start"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			respond.WriteBadRequest(w, "start must be RFC3339")
			return
		}
		rng.Start = t
	}
	if v := q.Get("end"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			respond.WriteBadRequest(w, "end must be RFC3339")
			return
		}
		rng.End = t
	}

	out, err := h.svc.ListEvents(r.Context(), rng)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"events": out, "count": len(out)})
}

func (h *EventHandler) GetEvent(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	out, err := h.svc.GetEvent(r.Context(), vars["userId"], vars["eventId"])
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

func (h *EventHandler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	userID, eventID := vars["userId"], vars["eventId"]

	current, err := h.svc.GetEvent(r.Context(), userID, eventID)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}

	var in struct {
		Title       *string           `json:"title,omitempty"`
		Description *string           `json:"description,omitempty"`
		Location    *string           `json:"location,omitempty"`
		StartTime   *time.Time        `json:"startTime,omitempty"`
		EndTime     *time.Time        `json:"endTime,omitempty"`
		AllDay      *bool             `json:"allDay,omitempty"`
		Color       *string           `json:"color,omitempty"`
		Tags        *[]string         `json:"tags,omitempty"`
		Recurrence  *model.Recurrence `json:"recurrence,omitempty"`
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
	if in.Location != nil {
		current.Location = in.Location
	}
	if in.StartTime != nil {
		current.StartTime = *in.StartTime
	}
	if in.EndTime != nil {
		current.EndTime = *in.EndTime
	}
	if in.AllDay != nil {
		current.AllDay = *in.AllDay
	}
	if in.Color != nil {
		current.Color = in.Color
	}
	if in.Tags != nil {
		current.Tags = *in.Tags
	}
	if in.Recurrence != nil {
		current.Recurrence = in.Recurrence
	}

	out, err := h.svc.UpdateEvent(r.Context(), userID, current)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

func (h *EventHandler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := h.svc.DeleteEvent(r.Context(), vars["userId"], vars["eventId"]); err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
