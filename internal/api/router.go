package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"route-session-service/internal/api/handlers"
	"route-session-service/internal/services"
)

// NewRouter wires HTTP handlers with their dependencies and returns the
// fiber application. This is the API composition root.
func NewRouter(session *services.Session, scheduler *services.Scheduler, log zerolog.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})
	app.Use(NewRequestLogger(log))

	sessionHandler := &handlers.SessionHandler{
		Session:   session,
		Scheduler: scheduler,
	}

	app.Get("/health", handlers.Health)

	group := app.Group("/session")
	group.Get("/", sessionHandler.Snapshot)
	group.Get("/steps", sessionHandler.Steps)
	group.Put("/endpoints", sessionHandler.UpdateEndpoints)
	group.Put("/monitoring", sessionHandler.SetMonitoring)
	group.Delete("/notification", sessionHandler.DismissNotification)

	return app
}
