package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TanoojVardhan/sloth-planner/internal/api"
	"github.com/TanoojVardhan/sloth-planner/internal/auth"
	"github.com/TanoojVardhan/sloth-planner/internal/model"
	"github.com/TanoojVardhan/sloth-planner/internal/store"
	"github.com/TanoojVardhan/sloth-planner/internal/store/sqlite"
)

type alwaysHealthy struct{}

func (alwaysHealthy) IsHealthy() bool { return true }

func newServer(t *testing.T) (*httptest.Server, store.Store) {
	t.Helper()
	db, err := sqlite.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	st, err := sqlite.NewWithDB(db)
	require.NoError(t, err)

	router := api.NewRouter(api.RouterDeps{
		Store:      st,
		Authorizer: auth.NewStaticAuthorizer(),
		Health:     alwaysHealthy{},
		Log:        zerolog.Nop(),
	})
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv, st
}

func doJSON(t *testing.T, method, url, token string, body interface{}) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decode(t *testing.T, resp *http.Response, into interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(into))
}

func TestHealthNeedsNoToken(t *testing.T) {
	srv, _ := newServer(t)

	resp, err := http.Get(srv.URL + "/api/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestMissingTokenRejected(t *testing.T) {
	srv, _ := newServer(t)

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/users/local-dev/tasks", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestTaskCRUDOverHTTP(t *testing.T) {
	srv, _ := newServer(t)
	base := srv.URL + "/api/users/local-dev/tasks"

	resp := doJSON(t, http.MethodPost, base, auth.LocalDevToken, map[string]interface{}{
		"title":    "write blog post",
		"priority": "high",
		"dueDate":  "2026-09-20",
		"tags":     []string{"writing"},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created model.Task
	decode(t, resp, &created)
	assert.NotEmpty(t, created.TaskID)
	assert.Equal(t, model.PriorityHigh, created.Priority)

	resp = doJSON(t, http.MethodGet, base+"/"+created.TaskID, auth.LocalDevToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got model.Task
	decode(t, resp, &got)
	assert.Equal(t, "write blog post", got.Title)
	require.NotNil(t, got.DueDate)
	assert.Equal(t, "2026-09-20", got.DueDate.String())

	resp = doJSON(t, http.MethodPatch, base+"/"+created.TaskID, auth.LocalDevToken, map[string]interface{}{
		"title": "write two blog posts",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var updated model.Task
	decode(t, resp, &updated)
	assert.Equal(t, "write two blog posts", updated.Title)
	assert.Equal(t, model.PriorityHigh, updated.Priority) // untouched fields survive a merge

	resp = doJSON(t, http.MethodPost, base+"/"+created.TaskID+"/complete", auth.LocalDevToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var toggled model.Task
	decode(t, resp, &toggled)
	assert.True(t, toggled.Completed)

	resp = doJSON(t, http.MethodDelete, base+"/"+created.TaskID, auth.LocalDevToken, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doJSON(t, http.MethodGet, base+"/"+created.TaskID, auth.LocalDevToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPathScopingForbidsOtherUsers(t *testing.T) {
	srv, _ := newServer(t)

	// local-dev is not an admin and cannot read another user's tasks
	resp := doJSON(t, http.MethodGet, srv.URL+"/api/users/someone-else/tasks", auth.LocalDevToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// the admin token can
	resp = doJSON(t, http.MethodGet, srv.URL+"/api/users/someone-else/tasks", auth.LocalDevAdminToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestValidationMapsTo400(t *testing.T) {
	srv, _ := newServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/users/local-dev/tasks", auth.LocalDevToken, map[string]interface{}{
		"title": "   ",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAdminRoutesRequireAdminRole(t *testing.T) {
	srv, _ := newServer(t)

	payload := map[string]interface{}{"title": "maintenance", "message": "restart at midnight", "type": "announcement"}

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/admin/notifications", auth.LocalDevToken, payload)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = doJSON(t, http.MethodPost, srv.URL+"/api/admin/notifications", auth.LocalDevAdminToken, payload)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var n model.Notification
	decode(t, resp, &n)
	assert.Equal(t, model.BroadcastRecipient, n.RecipientID)

	// the broadcast is visible to a regular user
	resp = doJSON(t, http.MethodGet, srv.URL+"/api/users/local-dev/notifications", auth.LocalDevToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list struct {
		Notifications []model.Notification `json:"notifications"`
		Count         int                  `json:"count"`
	}
	decode(t, resp, &list)
	require.Equal(t, 1, list.Count)
	assert.False(t, list.Notifications[0].Read)

	// mark it read for local-dev only
	resp = doJSON(t, http.MethodPost, srv.URL+"/api/users/local-dev/notifications/"+n.NotificationID+"/read", auth.LocalDevToken, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestRoleEndpoints(t *testing.T) {
	srv, st := newServer(t)

	_, err := st.Users().Create(context.Background(), &model.User{UserID: "local-dev", Email: "dev@localhost"})
	require.NoError(t, err)

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/users/local-dev/role", auth.LocalDevToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var role struct {
		UserID string     `json:"userId"`
		Role   model.Role `json:"role"`
	}
	decode(t, resp, &role)
	assert.Equal(t, model.RoleUser, role.Role)

	resp = doJSON(t, http.MethodPut, srv.URL+"/api/admin/users/local-dev/role", auth.LocalDevAdminToken, map[string]string{"role": "admin"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/users/local-dev/role", auth.LocalDevToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, resp, &role)
	assert.Equal(t, model.RoleAdmin, role.Role)
}

func TestCalendarEndpoint(t *testing.T) {
	srv, st := newServer(t)
	ctx := context.Background()

	_, err := st.Tasks().Create(ctx, &model.Task{
		UserID: "local-dev", Title: "pay rent", Priority: model.PriorityHigh,
		DueDate: mustDate(t, "2026-09-10"),
	})
	require.NoError(t, err)

	url := fmt.Sprintf("%s/api/users/local-dev/calendar?view=agenda&date=2026-09-01", srv.URL)
	resp := doJSON(t, http.MethodGet, url, auth.LocalDevToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		View    string `json:"view"`
		Buckets []struct {
			Date  string `json:"date"`
			Items []struct {
				Type  string `json:"type"`
				Title string `json:"title"`
			} `json:"items"`
		} `json:"buckets"`
	}
	decode(t, resp, &out)
	assert.Equal(t, "agenda", out.View)
	require.Len(t, out.Buckets, 1)
	assert.Equal(t, "2026-09-10", out.Buckets[0].Date)
	require.Len(t, out.Buckets[0].Items, 1)
	assert.Equal(t, "task", out.Buckets[0].Items[0].Type)

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/users/local-dev/calendar?view=sideways", auth.LocalDevToken, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAssistantEndpoint(t *testing.T) {
	srv, st := newServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/users/local-dev/assistant/commands", auth.LocalDevToken, map[string]string{
		"input": "add task buy milk tomorrow high priority",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		Command struct {
			Intent string `json:"intent"`
			Title  string `json:"title"`
		} `json:"command"`
		Task *model.Task `json:"task"`
	}
	decode(t, resp, &out)
	assert.Equal(t, "task", out.Command.Intent)
	assert.Equal(t, "buy milk", out.Command.Title)
	require.NotNil(t, out.Task)

	stored, err := st.Tasks().GetByID(context.Background(), out.Task.TaskID)
	require.NoError(t, err)
	assert.Equal(t, "local-dev", stored.UserID)
	assert.Equal(t, model.PriorityHigh, stored.Priority)
}

func TestReportFlow(t *testing.T) {
	srv, _ := newServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/users/local-dev/reports", auth.LocalDevToken, map[string]string{
		"subject": "user spammer-7", "reason": "unsolicited invites",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var report model.ModerationReport
	decode(t, resp, &report)
	assert.Equal(t, model.ReportOpen, report.Status)

	// listing is admin-only
	resp = doJSON(t, http.MethodGet, srv.URL+"/api/admin/reports?status=open", auth.LocalDevToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/admin/reports?status=open", auth.LocalDevAdminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list struct {
		Reports []model.ModerationReport `json:"reports"`
	}
	decode(t, resp, &list)
	require.Len(t, list.Reports, 1)

	resp = doJSON(t, http.MethodPost, srv.URL+"/api/admin/reports/"+report.ReportID+"/resolve", auth.LocalDevAdminToken, map[string]string{
		"status": "resolved", "resolution": "account suspended",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var resolved model.ModerationReport
	decode(t, resp, &resolved)
	assert.Equal(t, model.ReportResolved, resolved.Status)
	require.NotNil(t, resolved.ResolvedBy)
	assert.Equal(t, "local-admin", *resolved.ResolvedBy)
}

func mustDate(t *testing.T, s string) *model.Date {
	t.Helper()
	d, err := model.ParseDate(s)
	require.NoError(t, err)
	return &d
}
