package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/TanoojVardhan/sloth-planner/internal/api/respond"
	"github.com/TanoojVardhan/sloth-planner/internal/model"
	"github.com/TanoojVardhan/sloth-planner/internal/services"
)

type ReportHandler struct {
	svc *services.ReportService
}

func NewReportHandler(svc *services.ReportService) *ReportHandler { return &ReportHandler{svc: svc} }

// FileReport lets any signed-in user report content or another user.
func (h *ReportHandler) FileReport(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	var in struct {
		Subject string `json:"subject"`
		Reason  string `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respond.WriteBadRequest(w, "invalid json")
		return
	}

	out, err := h.svc.FileReport(r.Context(), &model.ModerationReport{
		ReporterID: userID,
		Subject:    in.Subject,
		Reason:     in.Reason,
	})
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, out)
}

// ListReports is admin-only; ?status= filters by lifecycle state.
func (h *ReportHandler) ListReports(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var status *model.ReportStatus
	if v := q.Get("status"); v != "" {
		s := model.ReportStatus(v)
		status = &s
	}

	out, err := h.svc.ListReports(r.Context(), status, intQuery(q.Get("limit")))
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"reports": out, "count": len(out)})
}

// ResolveReport is admin-only.
func (h *ReportHandler) ResolveReport(w http.ResponseWriter, r *http.Request) {
	actor, ok := ActorFromContext(r.Context())
	if !ok {
		respond.WriteUnauthorized(w, "no actor")
		return
	}
	reportID := mux.Vars(r)["reportId"]

	var in struct {
		Status     model.ReportStatus `json:"status"`
		Resolution string             `json:"resolution"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respond.WriteBadRequest(w, "invalid json")
		return
	}

	out, err := h.svc.ResolveReport(r.Context(), reportID, actor.UserID, in.Resolution, in.Status)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}
