package router

import (
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/newsroom-dev/newsroom/internal/middleware"
	"github.com/newsroom-dev/newsroom/internal/middleware/metrics"
	"github.com/newsroom-dev/newsroom/internal/middleware/ratelimiter"
	"github.com/newsroom-dev/newsroom/internal/setup"
)

// New configures the chi router with all the routes.
// IMPORTANT! ratelimiters set with .Use limit requests for all endpoints combined in that group
func New(deps *setup.Dependencies) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(metrics.Middleware)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.Config.Public.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	h := deps.Handler
	authMw := deps.AuthMiddleware

	r.Get("/health", h.Health)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/auth", func(r chi.Router) {
		// Email-sending endpoints. One address cannot be flooded from many
		// IPs and one IP cannot spray many addresses.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimit(ratelimiter.New(1.0/60, 3, 1*time.Hour), middleware.GetEmailFromBody)) // 3 burst, then 1 per minute by email
			r.Use(middleware.RateLimit(ratelimiter.New(1.0/10, 5, 1*time.Hour), middleware.GetIP))            // 5 burst, then 1 per 10s by IP
			r.Use(middleware.GlobalRateLimit(ratelimiter.New(100, 100, 1*time.Hour)))                         // 100 global RPS

			r.Post("/register/", h.Register)
			r.Post("/resend-verification/", h.ResendVerification)
			r.Post("/password-reset/", h.PasswordReset)
		})

		// Token redemption (stricter limits to prevent brute force)
		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimit(ratelimiter.New(5.0/600, 5, 1*time.Hour), middleware.GetIP)) // 5 attempts per 10 minutes by IP
			r.Use(middleware.GlobalRateLimit(ratelimiter.New(100, 100, 1*time.Hour)))

			r.Post("/verify-email/", h.VerifyEmail)
			r.Post("/password-reset/confirm/", h.PasswordResetConfirm)
		})

		// Login (separate rate limiting)
		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimit(ratelimiter.OncePerSecond(), middleware.GetIP))
			r.Use(middleware.GlobalRateLimit(ratelimiter.New(1000, 1000, 1*time.Hour)))

			r.Post("/login/", h.Login)
		})

		// No rate limits
		r.Post("/logout/", h.Logout)
		r.Post("/token/refresh/", h.Refresh)

		// Logged-in user routes
		r.Group(func(r chi.Router) {
			r.Use(authMw.RequireAuth())

			r.Get("/check/", h.Check)
			r.Post("/change-password/", h.ChangePassword)
			r.Get("/profile/", h.Profile)
			r.Patch("/profile/", h.UpdateProfile)
			r.Get("/login-history/", h.LoginHistory)
		})
	})

	r.Route("/notes", func(r chi.Router) {
		r.Use(authMw.RequireAuth())

		r.Get("/", h.ListNotes)
		r.Post("/", h.CreateNote)
		r.Get("/{note}/", h.GetNote)
		r.Put("/{note}/", h.UpdateNote)
		r.Delete("/{note}/", h.DeleteNote)
	})

	return r
}
