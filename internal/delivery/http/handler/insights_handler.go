package handler

import (
	"errors"

	"career-compass/internal/delivery/http/dto"
	"career-compass/internal/delivery/http/middleware"
	"career-compass/internal/pkg/response"
	"career-compass/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type InsightsHandler struct {
	uc usecase.InsightsUsecase
}

func NewInsightsHandler(uc usecase.InsightsUsecase) *InsightsHandler {
	return &InsightsHandler{uc: uc}
}

func (h *InsightsHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	grp := r.Group("/market")
	grp.Get("/insights", h.GetMarketInsights)
}

func (h *InsightsHandler) GetMarketInsights(c fiber.Ctx) error {
	res, err := h.uc.MarketInsights(c.Context())
	if err != nil {
		return mapInsightsUsecaseError(err)
	}

	out := dto.MarketInsightsResponse{
		Overview: dto.MarketOverviewResponse{
			TotalJobs:         res.Overview.TotalJobs,
			AvgSalary:         res.Overview.AvgSalary,
			TotalApplications: res.Overview.TotalApplications,
		},
		Levels: make([]dto.InsightLevelResponse, 0, len(res.Levels)),
	}
	for _, lv := range res.Levels {
		out.Levels = append(out.Levels, dto.InsightLevelResponse{
			ExperienceLevel:    lv.ExperienceLevel,
			AvgSalary:          lv.AvgSalary,
			JobCount:           lv.JobCount,
			AvgViews:           lv.AvgViews,
			AvgApplies:         lv.AvgApplies,
			ApplicationsPerJob: lv.ApplicationsPerJob,
		})
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}

func mapInsightsUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, usecase.ErrStoreUnavailable):
		return middleware.NewAppError(fiber.StatusServiceUnavailable, "Posting store unavailable", nil, err)
	case errors.Is(err, usecase.ErrNoInsights):
		return middleware.NewAppError(fiber.StatusNotFound, "No market data available", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
