package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inventario-x3/internal/application/reconciliation"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AppName        string
	Reconciliation *reconciliation.Service
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.AppName})
	})

	api := app.Group("/api")

	// Sesiones de reconciliación
	sessions := api.Group("/sessions")
	h := NewReconciliationHandler(deps.Reconciliation)
	sessions.Post("/", h.Import)
	sessions.Get("/", h.List)
	sessions.Get("/:id", h.GetByID)
	sessions.Delete("/:id", h.Delete)
	sessions.Get("/:id/template", h.Template)
	sessions.Post("/:id/process", h.Process)
	sessions.Get("/:id/final", h.Final)
	sessions.Get("/:id/report", h.Report)
}
