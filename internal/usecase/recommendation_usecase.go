package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"

	"career-compass/internal/domain/ranking"
	"career-compass/internal/model"
	"career-compass/internal/repository"
)

var (
	ErrEmptyProfile     = errors.New("Profile text empty")
	ErrModelNotLoaded   = errors.New("Model artifacts not loaded")
	ErrStoreUnavailable = errors.New("Posting store unavailable")
	ErrInternal         = errors.New("internal error")
)

// RecommendationParams carries the free-text profile plus display-only
// filters. The filters are echoed back, never used for ranking.
type RecommendationParams struct {
	Profile         string
	ExperienceLevel string
	Location        string
	WorkType        string
}

type RecommendationItem struct {
	Title        string
	MatchPercent int
	Probability  float64
	DetailsFound bool
	Details      []repository.PostingDetail
}

type RecommendationResult struct {
	Items          []RecommendationItem
	Degraded       bool
	DegradedReason string
}

type RecommendationUsecase interface {
	Recommend(ctx context.Context, params RecommendationParams) (RecommendationResult, error)
}

type Recommendation struct {
	models   *model.Registry
	postings repository.PostingRepository
	topK     int
}

// NewRecommendationUsecase wires the loaded artifacts and the posting
// store. postings may be nil when the store could not be opened; the
// usecase then serves predictions without enrichment.
func NewRecommendationUsecase(models *model.Registry, postings repository.PostingRepository) *Recommendation {
	return &Recommendation{models: models, postings: postings, topK: ranking.DefaultTopK}
}

func (u *Recommendation) Recommend(ctx context.Context, params RecommendationParams) (RecommendationResult, error) {
	if params.Profile == "" {
		return RecommendationResult{}, ErrEmptyProfile
	}
	if u == nil || u.models == nil || u.models.Vectorizer() == nil || u.models.Classifier() == nil {
		return RecommendationResult{}, ErrModelNotLoaded
	}

	vec, err := u.models.Vectorizer().TransformOne(params.Profile)
	if err != nil {
		return RecommendationResult{}, fmt.Errorf("%w: %v", ErrModelNotLoaded, err)
	}
	probs, err := u.models.Classifier().PredictProba(vec)
	if err != nil {
		return RecommendationResult{}, fmt.Errorf("%w: %v", ErrModelNotLoaded, err)
	}
	preds, err := ranking.TopK(probs, u.topK)
	if err != nil {
		return RecommendationResult{}, ErrInternal
	}

	res := RecommendationResult{Items: make([]RecommendationItem, 0, len(preds))}
	for _, p := range preds {
		item := RecommendationItem{
			Title:        p.Label,
			MatchPercent: ranking.Percent(p.Probability),
			Probability:  p.Probability,
		}

		// Enrichment failures stay scoped to their own title; the
		// remaining recommendations are still returned.
		details, err := u.resolve(ctx, p.Label)
		switch {
		case err == nil:
			item.DetailsFound = true
			item.Details = details
		case errors.Is(err, repository.ErrNoPostings):
			// Explicit lookup miss, not a failure.
		default:
			log.Printf("enrichment lookup failed for %q: %v", p.Label, err)
			res.Degraded = true
			res.DegradedReason = ErrStoreUnavailable.Error()
		}

		res.Items = append(res.Items, item)
	}

	return res, nil
}

func (u *Recommendation) resolve(ctx context.Context, title string) ([]repository.PostingDetail, error) {
	if u.postings == nil {
		return nil, ErrStoreUnavailable
	}
	return u.postings.ResolveTitle(ctx, title)
}
