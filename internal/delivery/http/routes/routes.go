package routes

import (
	"career-compass/internal/delivery/http/handler"

	"github.com/gofiber/fiber/v3"
)

type Registry struct {
	health          *handler.HealthHandler
	recommendations *handler.RecommendationHandler
	insights        *handler.InsightsHandler
}

func NewRegistry(health *handler.HealthHandler, recommendations *handler.RecommendationHandler, insights *handler.InsightsHandler) *Registry {
	return &Registry{
		health:          health,
		recommendations: recommendations,
		insights:        insights,
	}
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil || r == nil {
		return
	}

	r.health.RegisterRoutes(app)

	api := app.Group("/api")
	v1 := api.Group("/v1")
	r.recommendations.RegisterRoutes(v1)
	r.insights.RegisterRoutes(v1)
}
