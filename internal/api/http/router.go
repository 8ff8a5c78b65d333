package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/callcenter-service/internal/api/http/handlers"
	"github.com/spec-kit/callcenter-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Subscriptions  *handlers.SubscriptionsHandler
	Tickets        *handlers.TicketsHandler
	Services       *handlers.ServicesHandler
	Complaints     *handlers.ComplaintsHandler
	Notifications  *handlers.NotificationsHandler
	Payments       *handlers.PaymentsHandler
	Reports        *handlers.ReportsHandler
	Admin          *handlers.AdminHandler
	Metrics        *handlers.MetricsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Users.Register)
	authGroup.Post("/login", cfg.Users.Login)
	authGroup.Post("/staff/login", cfg.Users.LoginStaff)

	authed := app.Group("", cfg.AuthMiddleware.Handle)
	authed.Get("/me", cfg.Users.Me)
	authed.Patch("/me", cfg.Users.UpdateMe)

	subs := authed.Group("/subscriptions")
	subs.Get("/", cfg.Subscriptions.List)
	subs.Get("/unlocked", cfg.Subscriptions.Unlocked)
	subs.Post("/purchase", cfg.Subscriptions.Purchase)
	subs.Post("/consume", cfg.Subscriptions.Consume)

	tickets := authed.Group("/tickets")
	tickets.Post("/", cfg.Tickets.Create)
	tickets.Get("/", cfg.Tickets.List)
	tickets.Get("/:id", cfg.Tickets.Get)
	tickets.Patch("/:id", auth.RequireStaff(), cfg.Tickets.Update)
	tickets.Post("/:id/archive", auth.RequireAdmin(), cfg.Tickets.Archive)
	tickets.Post("/:id/unarchive", auth.RequireAdmin(), cfg.Tickets.Unarchive)
	tickets.Get("/:id/messages", cfg.Tickets.ListMessages)
	tickets.Post("/:id/messages", cfg.Tickets.AddMessage)
	tickets.Post("/:id/rating", cfg.Tickets.Rate)

	services := authed.Group("/services")
	services.Post("/", cfg.Services.Create)
	services.Get("/", cfg.Services.List)
	services.Get("/:id", cfg.Services.Get)
	services.Patch("/:id", auth.RequireStaff(), cfg.Services.Update)
	services.Post("/:id/rating", cfg.Services.Rate)

	complaints := authed.Group("/complaints")
	complaints.Post("/", cfg.Complaints.Create)
	complaints.Get("/", cfg.Complaints.List)
	complaints.Get("/:id", cfg.Complaints.Get)
	complaints.Patch("/:id/status", auth.RequireStaff(), cfg.Complaints.UpdateStatus)

	notifications := authed.Group("/notifications")
	notifications.Get("/", cfg.Notifications.List)
	notifications.Get("/unread-count", cfg.Notifications.UnreadCount)
	notifications.Post("/read-all", cfg.Notifications.MarkAllRead)
	notifications.Post("/:id/read", cfg.Notifications.MarkRead)
	notifications.Delete("/:id", cfg.Notifications.Delete)

	payments := authed.Group("/payments")
	payments.Get("/", cfg.Payments.List)
	payments.Get("/:id", cfg.Payments.Get)
	payments.Patch("/:id/status", auth.RequireAdmin(), cfg.Payments.UpdateStatus)

	reports := authed.Group("/reports", auth.RequireStaff())
	reports.Post("/", cfg.Reports.Create)
	reports.Get("/", cfg.Reports.List)

	admin := authed.Group("/admin", auth.RequireAdmin())
	admin.Get("/users", cfg.Admin.ListUsers)
	admin.Post("/users", cfg.Admin.CreateStaff)
	admin.Get("/users/:id", cfg.Admin.GetUser)
	admin.Patch("/users/:id/status", cfg.Admin.SetUserStatus)
	admin.Patch("/users/:id/role", cfg.Admin.SetUserRole)
	admin.Delete("/users/:id", cfg.Admin.DeleteUser)
	admin.Get("/stats", cfg.Admin.Stats)
	admin.Get("/metrics", cfg.Metrics.Get)
}
