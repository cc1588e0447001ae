package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"golang.org/x/sync/errgroup"

	"github.com/TanoojVardhan/sloth-planner/internal/api/respond"
	"github.com/TanoojVardhan/sloth-planner/internal/calendar"
	"github.com/TanoojVardhan/sloth-planner/internal/model"
	"github.com/TanoojVardhan/sloth-planner/internal/services"
)

type CalendarHandler struct {
	tasks    *services.TaskService
	events   *services.EventService
	goals    *services.GoalService
	projects *services.ProjectService
	users    *services.UserService
}

func NewCalendarHandler(tasks *services.TaskService, events *services.EventService, goals *services.GoalService, projects *services.ProjectService, users *services.UserService) *CalendarHandler {
	return &CalendarHandler{tasks: tasks, events: events, goals: goals, projects: projects, users: users}
}

// GetCalendar derives a calendar view for one user.
// Query params: view=month|week|day|agenda (default month), date=YYYY-MM-DD
// (default today in the user's time zone).
func (h *CalendarHandler) GetCalendar(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := mux.Vars(r)["userId"]
	q := r.URL.Query()

	view := q.Get("view")
	if view == "" {
		view = "month"
	}

	loc := time.UTC
	if u, err := h.users.GetUser(ctx, userID); err == nil && u.TimeZone != "" {
		if l, err := time.LoadLocation(u.TimeZone); err == nil {
			loc = l
		}
	}

	anchor := time.Now().In(loc)
	if v := q.Get("date"); v != "" {
		d, err := model.ParseDate(v)
		if err != nil {
			respond.WriteBadRequest(w, err.Error())
			return
		}
		anchor = time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc)
	}

	from, to, ok := viewRange(view, anchor)
	if !ok {
		respond.WriteBadRequest(w, "view must be one of month, week, day, agenda")
		return
	}

	snap, err := h.fetchSnapshot(ctx, userID, from, to)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}

	var buckets []calendar.Bucket
	switch view {
	case "month":
		buckets = calendar.Month(snap, anchor)
	case "week":
		buckets = calendar.Week(snap, anchor)
	case "day":
		buckets = []calendar.Bucket{calendar.Day(snap, anchor)}
	case "agenda":
		buckets = calendar.Agenda(snap, from, to)
	}

	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"view":     view,
		"date":     model.NewDate(anchor),
		"buckets":  buckets,
		"projects": snap.Projects,
	})
}

// fetchSnapshot loads the four collections for the visible range in parallel.
func (h *CalendarHandler) fetchSnapshot(ctx context.Context, userID string, from, to time.Time) (calendar.Snapshot, error) {
	var snap calendar.Snapshot
	dueAfter := model.NewDate(from)
	dueBefore := model.NewDate(to)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		events, err := h.events.ListEvents(gctx, model.EventRange{UserID: userID, Start: from, End: to})
		snap.Events = events
		return err
	})
	g.Go(func() error {
		tasks, err := h.tasks.ListTasks(gctx, model.TaskFilter{UserID: userID, DueAfter: &dueAfter, DueBefore: &dueBefore})
		snap.Tasks = tasks
		return err
	})
	g.Go(func() error {
		goals, err := h.goals.ListGoals(gctx, model.GoalFilter{UserID: userID})
		snap.Goals = goals
		return err
	})
	g.Go(func() error {
		projects, err := h.projects.ListProjects(gctx, model.ProjectFilter{UserID: userID})
		snap.Projects = projects
		return err
	})
	if err := g.Wait(); err != nil {
		return calendar.Snapshot{}, err
	}
	return snap, nil
}

// viewRange computes the fetch window for a view anchored at anchor.
// Agenda looks 30 days ahead from the anchor day.
func viewRange(view string, anchor time.Time) (time.Time, time.Time, bool) {
	day := time.Date(anchor.Year(), anchor.Month(), anchor.Day(), 0, 0, 0, 0, anchor.Location())
	switch view {
	case "month":
		first := time.Date(anchor.Year(), anchor.Month(), 1, 0, 0, 0, 0, anchor.Location())
		gridStart := first.AddDate(0, 0, -int(first.Weekday()))
		last := first.AddDate(0, 1, -1)
		gridEnd := last.AddDate(0, 0, -int(last.Weekday())).AddDate(0, 0, 7)
		return gridStart, gridEnd, true
	case "week":
		start := day.AddDate(0, 0, -int(day.Weekday()))
		return start, start.AddDate(0, 0, 7), true
	case "day":
		return day, day.AddDate(0, 0, 1), true
	case "agenda":
		return day, day.AddDate(0, 0, 30), true
	default:
		return time.Time{}, time.Time{}, false
	}
}
