// Package api maps the HTTP surface onto the service layer. All
// /api/v1 routes require a verified bearer token; /cron routes take the
// shared cron secret instead.
package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/grand-thief-cash/focusboard/internal/auth"
	"github.com/grand-thief-cash/focusboard/internal/components/httpserver"
)

// Routes builds the registrar mounted on the HTTP server component.
func Routes(verifier *auth.Verifier, cronSecret string, tasks *TaskController, categories *CategoryController, sweep *SweepController) httpserver.RouteRegisterFunc {
	return func(r chi.Router) error {
		r.Route("/api/v1", func(r chi.Router) {
			r.Use(verifier.Middleware)
			tasks.Mount(r)
			categories.Mount(r)
			sweep.Mount(r)
		})
		r.Route("/cron", func(r chi.Router) {
			r.Use(auth.CronMiddleware(cronSecret))
			sweep.MountCron(r)
		})
		return nil
	}
}
