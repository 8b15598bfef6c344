package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(app *fiber.App, analyzeHandler *AnalyzeHandler, healthHandler *HealthHandler) {
	app.Post("/analyze", analyzeHandler.HandleAnalyze)

	api := app.Group("/api/v1")
	api.Get("/health", healthHandler.HandleHealth)
	api.Post("/analyze", analyzeHandler.HandleAnalyze)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Resume Match Analyzer",
			"version": "1.0.0",
			"time":    time.Now(),
			"endpoints": []string{
				"POST /analyze",
				"POST /api/v1/analyze",
				"GET /api/v1/health",
			},
		})
	})
}

// ErrorHandler renders framework errors (body limit, malformed requests) in
// the same JSON error shape the handlers use.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}
