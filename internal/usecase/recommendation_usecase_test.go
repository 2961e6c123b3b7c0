package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"career-compass/internal/domain/features"
	"career-compass/internal/domain/forest"
	"career-compass/internal/model"
	"career-compass/internal/repository"
)

type mockPostingRepo struct {
	byTitle map[string][]repository.PostingDetail
	errFor  map[string]error
	calls   []string
}

func (m *mockPostingRepo) EnsureSchema(context.Context) error { return nil }
func (m *mockPostingRepo) TrainingRows(context.Context) ([]repository.TrainingRow, error) {
	return nil, nil
}
func (m *mockPostingRepo) MarketInsights(context.Context) ([]repository.ExperienceInsight, error) {
	return nil, nil
}
func (m *mockPostingRepo) ResolveTitle(_ context.Context, title string) ([]repository.PostingDetail, error) {
	m.calls = append(m.calls, title)
	if err, ok := m.errFor[title]; ok {
		return nil, err
	}
	if d, ok := m.byTitle[title]; ok {
		return d, nil
	}
	return nil, repository.ErrNoPostings
}

func loadedRegistry(t *testing.T) *model.Registry {
	t.Helper()

	corpus := []string{
		"python developer web services backend",
		"python api microservices deployment",
		"sql analysis reporting dashboards",
		"sql queries data visualization",
		"project roadmap stakeholder planning",
		"product backlog roadmap delivery",
	}
	labels := []string{
		"Software Engineer", "Software Engineer",
		"Data Analyst", "Data Analyst",
		"Product Manager", "Product Manager",
	}

	v := features.NewVectorizer(0)
	if err := v.Fit(corpus); err != nil {
		t.Fatalf("fit vectorizer: %v", err)
	}
	vectors, err := v.Transform(corpus)
	if err != nil {
		t.Fatalf("transform: %v", err)
	}
	f := forest.New(20, 42)
	if err := f.Fit(vectors, labels); err != nil {
		t.Fatalf("fit forest: %v", err)
	}

	dir := t.TempDir()
	s := model.NewStore(dir)
	if err := s.SaveVectorizer(model.VectorizerArtifact{Version: "test", Model: v}); err != nil {
		t.Fatalf("save vectorizer: %v", err)
	}
	if err := s.SaveClassifier(model.ClassifierArtifact{Version: "test", Model: f}); err != nil {
		t.Fatalf("save classifier: %v", err)
	}

	reg, err := model.LoadRegistry(dir)
	if err != nil {
		t.Fatalf("load registry: %v", err)
	}
	return reg
}

func TestRecommendation_EmptyProfile(t *testing.T) {
	uc := NewRecommendationUsecase(loadedRegistry(t), &mockPostingRepo{})
	_, err := uc.Recommend(context.Background(), RecommendationParams{Profile: ""})
	if !errors.Is(err, ErrEmptyProfile) {
		t.Fatalf("expected ErrEmptyProfile, got %v", err)
	}
}

func TestRecommendation_NilRegistry(t *testing.T) {
	uc := NewRecommendationUsecase(nil, &mockPostingRepo{})
	_, err := uc.Recommend(context.Background(), RecommendationParams{Profile: "python developer"})
	if !errors.Is(err, ErrModelNotLoaded) {
		t.Fatalf("expected ErrModelNotLoaded, got %v", err)
	}
}

func TestRecommendation_TopThreeWithEnrichment(t *testing.T) {
	salary := 95000.0
	repo := &mockPostingRepo{byTitle: map[string][]repository.PostingDetail{
		"Software Engineer": {{Title: "Software Engineer", CompanyName: "Acme", AvgMinSalary: &salary}},
	}}
	uc := NewRecommendationUsecase(loadedRegistry(t), repo)

	res, err := uc.Recommend(context.Background(), RecommendationParams{Profile: "python web developer"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(res.Items) != 3 {
		t.Fatalf("expected 3 recommendations, got %d", len(res.Items))
	}
	if res.Degraded {
		t.Fatalf("unexpected degraded result: %+v", res)
	}

	top := res.Items[0]
	if top.Title != "Software Engineer" {
		t.Fatalf("expected Software Engineer first, got %q", top.Title)
	}
	if !top.DetailsFound || len(top.Details) != 1 {
		t.Fatalf("expected enrichment on top item, got %+v", top)
	}
	if top.MatchPercent < 0 || top.MatchPercent > 100 {
		t.Fatalf("match percent out of range: %d", top.MatchPercent)
	}

	for i := 1; i < len(res.Items); i++ {
		if res.Items[i].Probability > res.Items[i-1].Probability {
			t.Fatalf("items not ordered by probability: %+v", res.Items)
		}
	}
}

func TestRecommendation_LookupMissIsNotAnError(t *testing.T) {
	uc := NewRecommendationUsecase(loadedRegistry(t), &mockPostingRepo{})

	res, err := uc.Recommend(context.Background(), RecommendationParams{Profile: "python web developer"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if res.Degraded {
		t.Fatalf("lookup miss must not degrade the result: %+v", res)
	}
	for _, it := range res.Items {
		if it.DetailsFound || len(it.Details) != 0 {
			t.Fatalf("expected explicit no-data items, got %+v", it)
		}
	}
}

func TestRecommendation_OneFailingLookupKeepsOtherItems(t *testing.T) {
	salary := 80000.0
	repo := &mockPostingRepo{
		byTitle: map[string][]repository.PostingDetail{
			"Data Analyst": {{Title: "Data Analyst", AvgMinSalary: &salary}},
		},
		errFor: map[string]error{
			"Software Engineer": fmt.Errorf("connection reset"),
		},
	}
	uc := NewRecommendationUsecase(loadedRegistry(t), repo)

	res, err := uc.Recommend(context.Background(), RecommendationParams{Profile: "python web developer sql"})
	if err != nil {
		t.Fatalf("one failing lookup must not fail the request: %v", err)
	}
	if len(res.Items) != 3 {
		t.Fatalf("expected all 3 items, got %d", len(res.Items))
	}
	if !res.Degraded {
		t.Fatalf("expected degraded flag after a store failure")
	}

	enriched := 0
	for _, it := range res.Items {
		if it.DetailsFound {
			enriched++
		}
	}
	if enriched != 1 {
		t.Fatalf("expected exactly one enriched item, got %+v", res.Items)
	}
}

func TestRecommendation_NilStoreDegrades(t *testing.T) {
	uc := NewRecommendationUsecase(loadedRegistry(t), nil)

	res, err := uc.Recommend(context.Background(), RecommendationParams{Profile: "python web developer"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !res.Degraded {
		t.Fatalf("expected degraded result without a posting store")
	}
	if len(res.Items) != 3 {
		t.Fatalf("predictions must survive a missing store, got %d items", len(res.Items))
	}
}
