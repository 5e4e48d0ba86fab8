package httpserver

import (
	"net/http"

	"github.com/Rishad-007/BRUDF/internal/auth"
	"github.com/Rishad-007/BRUDF/internal/config"
	"github.com/Rishad-007/BRUDF/internal/transport/httpserver/handler"
	"github.com/Rishad-007/BRUDF/internal/transport/httpserver/middleware"
	"github.com/Rishad-007/BRUDF/pkg/logger"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

func NewRouter(cfg config.Config, handlers *handler.Handlers, verifier auth.Verifier, metrics *middleware.Metrics, log logger.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(log))
	r.Use(chimw.Recoverer)
	r.Use(metrics.Middleware)
	if cfg.HTTP.RequestTimeout > 0 {
		r.Use(chimw.Timeout(cfg.HTTP.RequestTimeout))
	}
	r.Use(middleware.NewCORS(cfg.HTTP.AllowedOrigins))

	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handlers.Health)
		r.Post("/members", handlers.SubmitMember)

		admin := middleware.NewAdminAuth(verifier, log)
		r.Group(func(r chi.Router) {
			r.Use(admin.Middleware)

			r.Get("/members", handlers.ListMembers)
			r.Get("/members/stats", handlers.MemberStats)
			r.Get("/members/export", handlers.ExportMembers)
			r.Get("/members/{id}", handlers.GetMember)
			r.Put("/members/{id}", handlers.UpdateMember)
			r.Delete("/members/{id}", handlers.DeleteMember)
		})
	})

	return r
}
