package handler

import (
	"career-compass/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

type HealthHandler struct {
	vectorizerVersion string
	classifierVersion string
}

func NewHealthHandler(vectorizerVersion, classifierVersion string) *HealthHandler {
	return &HealthHandler{
		vectorizerVersion: vectorizerVersion,
		classifierVersion: classifierVersion,
	}
}

func (h *HealthHandler) RegisterRoutes(app *fiber.App) {
	if app == nil {
		return
	}
	app.Get("/health", h.Health)
}

func (h *HealthHandler) Health(c fiber.Ctx) error {
	return response.Success(c, fiber.StatusOK, response.MessageOK, fiber.Map{
		"vectorizer_version": h.vectorizerVersion,
		"classifier_version": h.classifierVersion,
	})
}
