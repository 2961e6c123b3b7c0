package handler

import (
	"errors"
	"strings"

	"career-compass/internal/delivery/http/dto"
	"career-compass/internal/delivery/http/middleware"
	"career-compass/internal/pkg/response"
	"career-compass/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type RecommendationHandler struct {
	uc usecase.RecommendationUsecase
}

func NewRecommendationHandler(uc usecase.RecommendationUsecase) *RecommendationHandler {
	return &RecommendationHandler{uc: uc}
}

func (h *RecommendationHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Post("/recommendations", h.GetRecommendations)
}

func (h *RecommendationHandler) GetRecommendations(c fiber.Ctx) error {
	var req dto.RecommendationRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	if strings.TrimSpace(req.Profile) == "" {
		return middleware.NewAppError(fiber.StatusBadRequest, "Profile text required", nil, nil)
	}

	res, err := h.uc.Recommend(c.Context(), usecase.RecommendationParams{
		Profile:         strings.TrimSpace(req.Profile),
		ExperienceLevel: strings.TrimSpace(req.ExperienceLevel),
		Location:        strings.TrimSpace(req.Location),
		WorkType:        strings.TrimSpace(req.WorkType),
	})
	if err != nil {
		return mapRecommendationUsecaseError(err)
	}

	out := dto.RecommendationResponse{
		Recommendations: make([]dto.RecommendationItemResponse, 0, len(res.Items)),
		Filters: dto.RecommendationFilters{
			ExperienceLevel: strings.TrimSpace(req.ExperienceLevel),
			Location:        strings.TrimSpace(req.Location),
			WorkType:        strings.TrimSpace(req.WorkType),
		},
		Degraded:       res.Degraded,
		DegradedReason: res.DegradedReason,
	}
	for _, it := range res.Items {
		details := make([]dto.PostingDetailResponse, 0, len(it.Details))
		for _, d := range it.Details {
			details = append(details, dto.PostingDetailResponse{
				Title:           d.Title,
				CompanyName:     d.CompanyName,
				Location:        d.Location,
				Description:     d.Description,
				SkillsDesc:      d.SkillsDesc,
				ExperienceLevel: d.ExperienceLevel,
				WorkType:        d.WorkType,
				RemoteAllowed:   d.RemoteAllowed,
				MinSalary:       d.MinSalary,
				MaxSalary:       d.MaxSalary,
				AvgMinSalary:    d.AvgMinSalary,
				AvgMaxSalary:    d.AvgMaxSalary,
				Views:           d.Views,
				Applies:         d.Applies,
			})
		}
		out.Recommendations = append(out.Recommendations, dto.RecommendationItemResponse{
			Title:        it.Title,
			MatchPercent: it.MatchPercent,
			DetailsFound: it.DetailsFound,
			Details:      details,
		})
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}

func mapRecommendationUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, usecase.ErrEmptyProfile):
		return middleware.NewAppError(fiber.StatusBadRequest, "Profile text required", nil, err)
	case errors.Is(err, usecase.ErrModelNotLoaded):
		return middleware.NewAppError(fiber.StatusServiceUnavailable, "Model not available", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
