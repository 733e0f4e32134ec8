package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/pragatibook/pragatibook-backend/internal/handlers"
	"github.com/pragatibook/pragatibook-backend/internal/middleware"
	"github.com/pragatibook/pragatibook-backend/internal/services"
	"github.com/pragatibook/pragatibook-backend/internal/storage"
)

// SetupRoutes configures all API routes
func SetupRoutes(app *fiber.App, store storage.Store, otpService *services.OTPService, mailer services.Mailer) {
	authHandler := handlers.NewAuthHandler(store, otpService, mailer)
	billHandler := handlers.NewBillHandler(store)
	templateHandler := handlers.NewTemplateHandler(store)

	api := app.Group("/api")

	// Auth routes (public)
	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/forgot-password", authHandler.ForgotPassword)
	auth.Post("/verify-otp", authHandler.VerifyOTP)
	auth.Post("/reset-password", authHandler.ResetPassword)

	// Bill routes (authenticated, owner-scoped)
	bills := api.Group("/bills", middleware.RequireAuth(store))
	bills.Get("/", billHandler.List)
	bills.Post("/", billHandler.Create)
	bills.Get("/:id", billHandler.Get)
	bills.Put("/:id", billHandler.Update)
	bills.Delete("/:id", billHandler.Delete)

	// Template settings routes (authenticated)
	templates := api.Group("/templates", middleware.RequireAuth(store))
	templates.Get("/", templateHandler.Get)
	templates.Put("/", templateHandler.Save)
}
