package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/anil1907/fidi-api/internal/middleware"
)

// Routes wires the full /api surface. The credential endpoints sit behind
// the per-IP rate limiter; everything else requires a bearer token.
func (h *Handler) Routes(rl *middleware.RateLimiter, corsOrigins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(middleware.AccessLog(h.log))

	if len(corsOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   corsOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(rl.Middleware)
			r.Post("/auth/register", h.Register)
			r.Post("/auth/login", h.Login)
			r.Post("/auth/refresh", h.Refresh)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(h.tokens))

			r.Post("/auth/logout", h.Logout)

			r.Route("/clients", func(r chi.Router) {
				r.Get("/", h.ListClients)
				r.Post("/", h.CreateClient)
				r.Get("/{id}", h.GetClient)
				r.Put("/{id}", h.UpdateClient)
				r.Delete("/{id}", h.DeleteClient)
			})

			r.Route("/templates", func(r chi.Router) {
				r.Get("/", h.ListTemplates)
				r.Post("/", h.CreateTemplate)
				r.Get("/{id}", h.GetTemplate)
				r.Put("/{id}", h.UpdateTemplate)
				r.Delete("/{id}", h.DeleteTemplate)
			})

			r.Route("/plans", func(r chi.Router) {
				r.Get("/", h.ListPlans)
				r.Post("/", h.CreatePlan)
				r.Get("/{id}", h.GetPlan)
				r.Put("/{id}", h.UpdatePlan)
				r.Delete("/{id}", h.DeletePlan)
			})

			r.Route("/appointments", func(r chi.Router) {
				r.Get("/calendar", h.Calendar)
				r.Get("/", h.ListAppointments)
				r.Post("/", h.CreateAppointment)
				r.Get("/{id}", h.GetAppointment)
				r.Put("/{id}", h.UpdateAppointment)
				r.Delete("/{id}", h.DeleteAppointment)
			})
		})
	})

	return r
}
