package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/support-engine/internal/api/http/handlers"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health   *handlers.HealthHandler
	Messages *handlers.MessagesHandler
	Tickets  *handlers.TicketsHandler
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	v1 := app.Group("/v1")
	v1.Post("/messages", cfg.Messages.Process)
	v1.Get("/tickets", cfg.Tickets.ListTickets)
	v1.Get("/tickets/:userId", cfg.Tickets.GetTicket)
	v1.Delete("/tickets/:userId", cfg.Tickets.CloseTicket)
}
