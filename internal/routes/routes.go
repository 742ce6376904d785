package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/JaswanthKSnjit/IS601-final/internal/auth"
	"github.com/JaswanthKSnjit/IS601-final/internal/handlers"
	"github.com/JaswanthKSnjit/IS601-final/internal/middleware"
	"github.com/JaswanthKSnjit/IS601-final/internal/models"
)

// RegisterRoutes registers all application routes
func RegisterRoutes(
	router chi.Router,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	analyticsHandler *handlers.AnalyticsHandler,
	tokenManager *auth.TokenManager,
) {
	rateLimitConfig := middleware.DefaultAuthRateLimit()
	rateLimited := middleware.RateLimitByIP(rateLimitConfig)

	// Public routes: credential endpoints are IP rate limited
	router.With(rateLimited).Post("/auth/register", authHandler.Register)
	router.With(rateLimited).Post("/auth/login", authHandler.Login)
	router.With(rateLimited).Post("/auth/verify-email", authHandler.VerifyEmail)
	router.With(rateLimited).Post("/auth/password-reset/request", authHandler.RequestPasswordReset)
	router.With(rateLimited).Post("/auth/password-reset/confirm", authHandler.ConfirmPasswordReset)

	// Protected routes: valid access token required
	router.Group(func(r chi.Router) {
		r.Use(auth.Middleware(tokenManager))

		// Self-scoped access is checked inside the service layer
		r.Get("/users/{id}", userHandler.GetUser)
		r.Put("/users/{id}", userHandler.UpdateUser)
		r.Post("/users/change-password", userHandler.ChangePassword)

		// Manager and admin
		r.Group(func(r chi.Router) {
			r.Use(auth.RequirePermission(models.PermManageAllUsers))
			r.Get("/users", userHandler.ListUsers)
		})
		r.Group(func(r chi.Router) {
			r.Use(auth.RequirePermission(models.PermViewAnalytics))
			r.Get("/analytics/retention", analyticsHandler.GetRetention)
		})

		// Admin only
		r.Group(func(r chi.Router) {
			r.Use(auth.RequirePermission(models.PermDeleteUsers))
			r.Delete("/users/{id}", userHandler.DeleteUser)
		})
		r.Group(func(r chi.Router) {
			r.Use(auth.RequirePermission(models.PermUnlockAccounts))
			r.Post("/users/{id}/unlock", userHandler.UnlockUser)
		})
	})
}
