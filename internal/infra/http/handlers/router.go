package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/solarcrm/pipeline-crm/internal/infra/http/middleware"
	"github.com/solarcrm/pipeline-crm/internal/infra/notify"
	"github.com/solarcrm/pipeline-crm/internal/usecase"
)

type RouterDeps struct {
	Auth            *usecase.Auth
	Workspace       *usecase.Workspace
	Users           *usecase.UserService
	Inbox           *notify.Inbox
	Health          *HealthHandler
	AllowedOrigins  []string
	LoginsPerMinute int
	Log             *zap.Logger
}

func NewRouter(d RouterDeps) http.Handler {
	auth := NewAuthHandler(d.Auth, d.Workspace, d.Inbox, d.LoginsPerMinute, d.Log)
	leads := NewLeadHandler(d.Workspace)
	reports := NewReportHandler(d.Workspace, d.Log)
	users := NewUserHandler(d.Users)
	notifications := NewNotificationHandler(d.Inbox)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", SessionHeader},
		AllowCredentials: true,
	}))

	r.Get("/health", d.Health.Handle)
	r.Handle("/metrics", promhttp.Handler())
	r.Post("/auth/login", auth.Login)
	r.Get("/stages", reports.Stages)

	r.Group(func(r chi.Router) {
		r.Use(RequireSession(d.Auth, d.Log))

		r.Post("/auth/logout", auth.Logout)
		r.Get("/auth/me", auth.Me)

		r.Get("/leads", leads.List)
		r.Post("/leads", leads.Create)
		r.Get("/leads/{fila}", leads.Get)
		r.Patch("/leads/{fila}", leads.Update)
		r.Put("/leads/{fila}/etapa", leads.UpdateStage)
		r.Delete("/leads/{fila}", leads.Delete)

		r.Get("/pipeline", reports.Pipeline)
		r.Get("/dashboard", reports.Dashboard)
		r.Get("/reports", reports.Reports)
		r.Get("/reports/export.xlsx", reports.Export)

		r.Get("/ambassadors", users.Ambassadors)
		r.Get("/users", users.List)
		r.Post("/users", users.Create)
		r.Patch("/users/{id}", users.Update)
		r.Delete("/users/{id}", users.Delete)

		r.Get("/notifications", notifications.Drain)
	})

	return r
}
