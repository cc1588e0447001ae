package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/TanoojVardhan/sloth-planner/internal/api/respond"
	"github.com/TanoojVardhan/sloth-planner/internal/model"
	"github.com/TanoojVardhan/sloth-planner/internal/services"
)

type UserHandler struct {
	svc *services.UserService
}

func NewUserHandler(svc *services.UserService) *UserHandler { return &UserHandler{svc: svc} }

// CreateUser registers the authenticated identity as a profile. The body may
// override display fields; the id and email always come from the token.
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	actor, ok := ActorFromContext(r.Context())
	if !ok {
		respond.WriteUnauthorized(w, "no actor")
		return
	}

	var in struct {
		DisplayName *string `json:"displayName,omitempty"`
		PhotoURL    *string `json:"photoUrl,omitempty"`
		TimeZone    string  `json:"timeZone"`
	}
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			respond.WriteBadRequest(w, "invalid json")
			return
		}
	}

	u := &model.User{
		UserID:      actor.UserID,
		Email:       actor.Email,
		DisplayName: in.DisplayName,
		PhotoURL:    in.PhotoURL,
		TimeZone:    in.TimeZone,
	}
	if u.DisplayName == nil && actor.DisplayName != "" {
		name := actor.DisplayName
		u.DisplayName = &name
	}
	if u.PhotoURL == nil && actor.PhotoURL != "" {
		url := actor.PhotoURL
		u.PhotoURL = &url
	}

	out, err := h.svc.EnsureUser(r.Context(), u)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, out)
}

func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]
	u, err := h.svc.GetUser(r.Context(), userID)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, u)
}

func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	current, err := h.svc.GetUser(r.Context(), userID)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}

	var in struct {
		DisplayName *string `json:"displayName,omitempty"`
		PhotoURL    *string `json:"photoUrl,omitempty"`
		TimeZone    *string `json:"timeZone,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respond.WriteBadRequest(w, "invalid json")
		return
	}

	if in.DisplayName != nil {
		current.DisplayName = in.DisplayName
	}
	if in.PhotoURL != nil {
		current.PhotoURL = in.PhotoURL
	}
	if in.TimeZone != nil {
		current.TimeZone = *in.TimeZone
	}

	out, err := h.svc.UpdateUser(r.Context(), current)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

func (h *UserHandler) GetRole(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]
	role, err := h.svc.GetRole(r.Context(), userID)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"userId": userID, "role": role})
}

// SetRole is admin-only (routed under /api/admin).
func (h *UserHandler) SetRole(w http.ResponseWriter, r *http.Request) {
	actor, ok := ActorFromContext(r.Context())
	if !ok {
		respond.WriteUnauthorized(w, "no actor")
		return
	}
	userID := mux.Vars(r)["userId"]

	var in struct {
		Role model.Role `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respond.WriteBadRequest(w, "invalid json")
		return
	}

	out, err := h.svc.SetRole(r.Context(), actor.Role, userID, in.Role)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}
