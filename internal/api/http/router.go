package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/project-tracker/internal/api/http/handlers"
	"github.com/spec-kit/project-tracker/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health   *handlers.HealthHandler
	Auth     *handlers.AuthHandler
	Projects *handlers.ProjectsHandler
	Tickets  *handlers.TicketsHandler
	Comments *handlers.CommentsHandler
	Session  *auth.Middleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/health/metrics", cfg.Health.Metrics)

	api := app.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/logout", cfg.Auth.Logout)
	authGroup.Get("/me", cfg.Session.Handle, cfg.Auth.Me)

	projects := api.Group("/projects", cfg.Session.Handle)
	projects.Post("/", cfg.Projects.Create)
	projects.Get("/", cfg.Projects.ListMine)
	projects.Get("/assigned", cfg.Projects.ListAssigned)
	projects.Post("/:id/members", cfg.Projects.AddMember)
	projects.Get("/:projectId/members", cfg.Projects.ListMembers)

	tickets := api.Group("/tickets", cfg.Session.Handle)
	tickets.Post("/", cfg.Tickets.Create)
	tickets.Get("/", cfg.Tickets.ListByProject)
	tickets.Get("/all", cfg.Tickets.ListAll)
	tickets.Put("/:id", cfg.Tickets.Update)
	tickets.Delete("/:id", cfg.Tickets.Delete)
	tickets.Patch("/:id/assign", cfg.Tickets.Assign)

	comments := api.Group("/comments", cfg.Session.Handle)
	comments.Post("/", cfg.Comments.Create)
	comments.Get("/:ticketId", cfg.Comments.ListByTicket)
}
