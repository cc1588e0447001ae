package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/TanoojVardhan/sloth-planner/internal/api/respond"
	"github.com/TanoojVardhan/sloth-planner/internal/model"
	"github.com/TanoojVardhan/sloth-planner/internal/services"
)

type NotificationHandler struct {
	svc *services.NotificationService
}

func NewNotificationHandler(svc *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{svc: svc}
}

// ListNotifications returns the caller's direct and broadcast notifications.
func (h *NotificationHandler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]
	q := r.URL.Query()

	unreadOnly := false
	if v := q.Get("unread"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			respond.WriteBadRequest(w, "unread must be a boolean")
			return
		}
		unreadOnly = b
	}
	includeExpired := q.Get("includeExpired") == "true"

	out, err := h.svc.List(r.Context(), userID, unreadOnly, includeExpired, intQuery(q.Get("limit")))
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"notifications": out, "count": len(out)})
}

func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := h.svc.MarkRead(r.Context(), vars["userId"], vars["notificationId"]); err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *NotificationHandler) DeleteNotification(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := h.svc.Delete(r.Context(), vars["userId"], vars["notificationId"]); err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Broadcast sends an announcement to all users. Admin-only route.
func (h *NotificationHandler) Broadcast(w http.ResponseWriter, r *http.Request) {
	actor, ok := ActorFromContext(r.Context())
	if !ok {
		respond.WriteUnauthorized(w, "no actor")
		return
	}

	var in struct {
		Title     string                 `json:"title"`
		Message   string                 `json:"message"`
		Type      model.NotificationType `json:"type,omitempty"`
		ExpiresAt *time.Time             `json:"expiresAt,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respond.WriteBadRequest(w, "invalid json")
		return
	}

	out, err := h.svc.Broadcast(r.Context(), actor.UserID, &model.Notification{
		Title:     in.Title,
		Message:   in.Message,
		Type:      in.Type,
		ExpiresAt: in.ExpiresAt,
	})
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, out)
}

// AdminDelete removes any notification, broadcasts included. Admin-only route.
func (h *NotificationHandler) AdminDelete(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := h.svc.AdminDelete(r.Context(), vars["notificationId"]); err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
