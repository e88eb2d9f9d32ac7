package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/jansssss/jbfPL/internal"
	"github.com/jansssss/jbfPL/internal/auth"
	"github.com/jansssss/jbfPL/internal/employee"
	"github.com/jansssss/jbfPL/internal/proposal"
	"github.com/jansssss/jbfPL/internal/transport/middleware"
	"github.com/jansssss/jbfPL/internal/transport/swagger"
	"github.com/jansssss/jbfPL/internal/workitem"
)

// RegisterAllRoutes mounts the full API. Authentication endpoints are
// open; everything else sits behind the bearer-token middleware, and
// decision plus employee-management routes additionally require an
// administrator.
func RegisterAllRoutes(
	router *chi.Mux,
	db *sql.DB,
	cfg *internal.Config,
	authHandler *auth.Handler,
	proposalHandler *proposal.Handler,
	workItemHandler *workitem.Handler,
	employeeHandler *employee.Handler,
	logger *slog.Logger,
) {
	healthHandler := NewHealthHandler(db)

	router.Use(middleware.CORS(cfg.Server.AllowedOrigins))
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))

	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	router.Handle("/swagger/*", swagger.Handler())

	router.Get("/ping", healthHandler.pingHandler)
	router.Get("/health", healthHandler.healthCheckHandler)

	router.Route("/api/v1", func(api chi.Router) {
		api.Post("/auth/login", authHandler.Login)
		api.Post("/auth/signup", authHandler.SignUp)
		api.Post("/auth/refresh", authHandler.RefreshToken)

		api.Group(func(pr chi.Router) {
			pr.Use(authHandler.Middleware)

			pr.Post("/auth/logout", authHandler.Logout)
			pr.Get("/users/me", authHandler.Me)
			pr.Patch("/users/me", authHandler.UpdateProfile)
			pr.Put("/users/me/password", authHandler.ChangePassword)

			pr.Route("/proposals", func(r chi.Router) {
				r.Get("/", proposalHandler.List)
				r.Post("/", proposalHandler.Create)
				r.Get("/{id}", proposalHandler.Get)
				r.Patch("/{id}", proposalHandler.Update)

				r.Group(func(ar chi.Router) {
					ar.Use(authHandler.RequireAdministrator)
					ar.Patch("/{id}/approve", proposalHandler.Approve)
					ar.Patch("/{id}/reject", proposalHandler.Reject)
				})
			})

			pr.Route("/work-items", func(r chi.Router) {
				r.Get("/", workItemHandler.List)
				r.Post("/", workItemHandler.Create)
				r.Get("/{id}", workItemHandler.Get)
				r.Patch("/{id}", workItemHandler.Update)

				r.Group(func(ar chi.Router) {
					ar.Use(authHandler.RequireAdministrator)
					ar.Patch("/{id}/approve", workItemHandler.Approve)
					ar.Patch("/{id}/reject", workItemHandler.Reject)
				})
			})

			pr.Route("/employees", func(r chi.Router) {
				r.Use(authHandler.RequireAdministrator)
				r.Get("/", employeeHandler.List)
				r.Post("/", employeeHandler.Create)
				r.Get("/{id}", employeeHandler.Get)
				r.Patch("/{id}", employeeHandler.Update)
				r.Post("/{id}/reset-password", employeeHandler.ResetPassword)
				r.Delete("/{id}", employeeHandler.Delete)
			})
		})
	})
}
