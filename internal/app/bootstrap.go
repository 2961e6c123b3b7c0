package app

import (
	"fmt"
	"strings"

	"career-compass/internal/delivery/http/handler"
	"career-compass/internal/delivery/http/middleware"
	"career-compass/internal/delivery/http/routes"
	"career-compass/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type App struct {
	Fiber *fiber.App
}

func New(c *Container) *App {
	f := fiber.New(fiber.Config{
		AppName: c.Config.App.AppName,
	})

	registerGlobalMiddleware(f)

	recommendUC := usecase.NewRecommendationUsecase(c.Models, c.Postings)
	insightsUC := usecase.NewInsightsUsecase(c.Postings)

	vecVersion, clfVersion := c.Models.Versions()
	registry := routes.NewRegistry(
		handler.NewHealthHandler(vecVersion, clfVersion),
		handler.NewRecommendationHandler(recommendUC),
		handler.NewInsightsHandler(insightsUC),
	)
	registry.Register(f)

	return &App{Fiber: f}
}

func Bootstrap(c *Container) (*App, func() error, error) {
	if c == nil {
		return nil, nil, fmt.Errorf("nil container")
	}
	app := New(c)
	return app, c.Close, nil
}

func registerGlobalMiddleware(app *fiber.App) {
	if app == nil {
		return
	}

	app.Use(middleware.NewAccessLogMiddleware(nil).Middleware())
	app.Use(middleware.NewErrorMiddleware().Middleware())
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
