package api

import (
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/TanoojVardhan/sloth-planner/internal/api/recovery"
	"github.com/TanoojVardhan/sloth-planner/internal/assistant"
	"github.com/TanoojVardhan/sloth-planner/internal/auth"
	"github.com/TanoojVardhan/sloth-planner/internal/services"
	"github.com/TanoojVardhan/sloth-planner/internal/store"
)

// RouterDeps carries everything the router needs.
type RouterDeps struct {
	Store      store.Store
	Authorizer auth.Authorizer
	Health     HealthReporter
	Log        zerolog.Logger
}

// NewRouter wires every route. The health endpoint is unauthenticated; all
// /api routes require a bearer token; /api/admin additionally requires an
// admin role.
func NewRouter(deps RouterDeps) *mux.Router {
	userSvc := services.NewUserService(deps.Store)
	taskSvc := services.NewTaskService(deps.Store)
	eventSvc := services.NewEventService(deps.Store)
	goalSvc := services.NewGoalService(deps.Store)
	projectSvc := services.NewProjectService(deps.Store)
	notifSvc := services.NewNotificationService(deps.Store)
	reportSvc := services.NewReportService(deps.Store)
	assistantSvc := assistant.NewService(taskSvc, eventSvc, notifSvc, deps.Log)

	users := NewUserHandler(userSvc)
	tasks := NewTaskHandler(taskSvc)
	events := NewEventHandler(eventSvc)
	goals := NewGoalHandler(goalSvc)
	projects := NewProjectHandler(projectSvc)
	notifications := NewNotificationHandler(notifSvc)
	reports := NewReportHandler(reportSvc)
	cal := NewCalendarHandler(taskSvc, eventSvc, goalSvc, projectSvc, userSvc)
	ai := NewAssistantHandler(assistantSvc)
	health := NewHealthHandler(deps.Health)

	r := mux.NewRouter()
	r.Use(recovery.Middleware(deps.Log))

	// registered before the authed subrouter so probes need no token
	r.HandleFunc("/api/health", health.Health).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.Use(AuthMiddleware(deps.Authorizer))

	api.HandleFunc("/users", users.CreateUser).Methods("POST")
	api.HandleFunc("/users/{userId}", users.GetUser).Methods("GET")
	api.HandleFunc("/users/{userId}", users.UpdateUser).Methods("PATCH")
	api.HandleFunc("/users/{userId}/role", users.GetRole).Methods("GET")

	api.HandleFunc("/users/{userId}/tasks", tasks.CreateTask).Methods("POST")
	api.HandleFunc("/users/{userId}/tasks", tasks.ListTasks).Methods("GET")
	api.HandleFunc("/users/{userId}/tasks/{taskId}", tasks.GetTask).Methods("GET")
	api.HandleFunc("/users/{userId}/tasks/{taskId}", tasks.UpdateTask).Methods("PATCH")
	api.HandleFunc("/users/{userId}/tasks/{taskId}", tasks.DeleteTask).Methods("DELETE")
	api.HandleFunc("/users/{userId}/tasks/{taskId}/complete", tasks.ToggleTask).Methods("POST")

	api.HandleFunc("/users/{userId}/events", events.CreateEvent).Methods("POST")
	api.HandleFunc("/users/{userId}/events", events.ListEvents).Methods("GET")
	api.HandleFunc("/users/{userId}/events/{eventId}", events.GetEvent).Methods("GET")
	api.HandleFunc("/users/{userId}/events/{eventId}", events.UpdateEvent).Methods("PATCH")
	api.HandleFunc("/users/{userId}/events/{eventId}", events.DeleteEvent).Methods("DELETE")

	api.HandleFunc("/users/{userId}/goals", goals.CreateGoal).Methods("POST")
	api.HandleFunc("/users/{userId}/goals", goals.ListGoals).Methods("GET")
	api.HandleFunc("/users/{userId}/goals/{goalId}", goals.GetGoal).Methods("GET")
	api.HandleFunc("/users/{userId}/goals/{goalId}", goals.UpdateGoal).Methods("PATCH")
	api.HandleFunc("/users/{userId}/goals/{goalId}", goals.DeleteGoal).Methods("DELETE")
	api.HandleFunc("/users/{userId}/goals/{goalId}/progress", goals.UpdateProgress).Methods("POST")

	api.HandleFunc("/users/{userId}/projects", projects.CreateProject).Methods("POST")
	api.HandleFunc("/users/{userId}/projects", projects.ListProjects).Methods("GET")
	api.HandleFunc("/users/{userId}/projects/{projectId}", projects.GetProject).Methods("GET")
	api.HandleFunc("/users/{userId}/projects/{projectId}", projects.UpdateProject).Methods("PATCH")
	api.HandleFunc("/users/{userId}/projects/{projectId}", projects.DeleteProject).Methods("DELETE")
	api.HandleFunc("/users/{userId}/projects/{projectId}/status", projects.SetStatus).Methods("POST")

	api.HandleFunc("/users/{userId}/notifications", notifications.ListNotifications).Methods("GET")
	api.HandleFunc("/users/{userId}/notifications/{notificationId}/read", notifications.MarkRead).Methods("POST")
	api.HandleFunc("/users/{userId}/notifications/{notificationId}", notifications.DeleteNotification).Methods("DELETE")

	api.HandleFunc("/users/{userId}/reports", reports.FileReport).Methods("POST")
	api.HandleFunc("/users/{userId}/calendar", cal.GetCalendar).Methods("GET")
	api.HandleFunc("/users/{userId}/assistant/commands", ai.ExecuteCommand).Methods("POST")

	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(RequireAdmin)
	admin.HandleFunc("/users/{userId}/role", users.SetRole).Methods("PUT")
	admin.HandleFunc("/notifications", notifications.Broadcast).Methods("POST")
	admin.HandleFunc("/notifications/{notificationId}", notifications.AdminDelete).Methods("DELETE")
	admin.HandleFunc("/reports", reports.ListReports).Methods("GET")
	admin.HandleFunc("/reports/{reportId}/resolve", reports.ResolveReport).Methods("POST")

	return r
}
