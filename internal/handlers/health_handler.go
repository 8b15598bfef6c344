package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/alfredoptarigan/resume-match/internal/models"
	"github.com/alfredoptarigan/resume-match/internal/services"
)

type HealthHandler struct {
	geminiService services.GeminiService
}

func NewHealthHandler(geminiService services.GeminiService) *HealthHandler {
	return &HealthHandler{geminiService: geminiService}
}

// HandleHealth reports liveness and whether the AI client is usable. A
// missing client is not unhealthy: the service keeps answering in degraded
// mode.
func (h *HealthHandler) HandleHealth(c *fiber.Ctx) error {
	return c.JSON(models.HealthResponse{
		Status:   "healthy",
		AIClient: h.geminiService.Status().String(),
	})
}
