package model

import (
	"errors"
	"testing"
	"time"

	"career-compass/internal/domain/features"
	"career-compass/internal/domain/forest"
)

func fitArtifacts(t *testing.T) (*features.Vectorizer, *forest.Forest) {
	t.Helper()

	corpus := []string{
		"python developer web services",
		"sql analysis reporting dashboards",
		"python backend api development",
		"data analysis sql queries",
	}
	labels := []string{"Software Engineer", "Data Analyst", "Software Engineer", "Data Analyst"}

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
	return v, f
}

func TestStore_RoundTripPreservesPredictions(t *testing.T) {
	v, f := fitArtifacts(t)
	s := NewStore(t.TempDir())

	trainedAt := time.Now().UTC()
	if err := s.SaveVectorizer(VectorizerArtifact{Version: "v1", TrainedAt: trainedAt, Model: v}); err != nil {
		t.Fatalf("save vectorizer: %v", err)
	}
	if err := s.SaveClassifier(ClassifierArtifact{Version: "v1", TrainedAt: trainedAt, Model: f}); err != nil {
		t.Fatalf("save classifier: %v", err)
	}

	va, err := s.LoadVectorizer()
	if err != nil {
		t.Fatalf("load vectorizer: %v", err)
	}
	ca, err := s.LoadClassifier()
	if err != nil {
		t.Fatalf("load classifier: %v", err)
	}
	if va.Version != "v1" || ca.Version != "v1" {
		t.Fatalf("version lost in round trip: %q, %q", va.Version, ca.Version)
	}

	sample := "python web developer"

	beforeVec, err := v.TransformOne(sample)
	if err != nil {
		t.Fatalf("transform before: %v", err)
	}
	afterVec, err := va.Model.TransformOne(sample)
	if err != nil {
		t.Fatalf("transform after: %v", err)
	}
	if len(beforeVec) != len(afterVec) {
		t.Fatalf("dimension changed: %d vs %d", len(beforeVec), len(afterVec))
	}
	for i := range beforeVec {
		if beforeVec[i] != afterVec[i] {
			t.Fatalf("vector differs at %d after reload", i)
		}
	}

	beforeProbs, err := f.PredictProba(beforeVec)
	if err != nil {
		t.Fatalf("predict before: %v", err)
	}
	afterProbs, err := ca.Model.PredictProba(afterVec)
	if err != nil {
		t.Fatalf("predict after: %v", err)
	}
	if len(beforeProbs) != len(afterProbs) {
		t.Fatalf("label set changed after reload")
	}
	for label, p := range beforeProbs {
		if afterProbs[label] != p {
			t.Fatalf("distribution differs after reload: %v vs %v", beforeProbs, afterProbs)
		}
	}
}

func TestStore_LoadMissingArtifact(t *testing.T) {
	s := NewStore(t.TempDir())
	if _, err := s.LoadVectorizer(); !errors.Is(err, ErrNotLoaded) {
		t.Fatalf("expected ErrNotLoaded, got %v", err)
	}
	if _, err := s.LoadClassifier(); !errors.Is(err, ErrNotLoaded) {
		t.Fatalf("expected ErrNotLoaded, got %v", err)
	}
}

func TestStore_SaveUnfittedRejected(t *testing.T) {
	s := NewStore(t.TempDir())
	err := s.SaveVectorizer(VectorizerArtifact{Version: "v1", Model: features.NewVectorizer(0)})
	if !errors.Is(err, features.ErrNotFitted) {
		t.Fatalf("expected ErrNotFitted, got %v", err)
	}
	err = s.SaveClassifier(ClassifierArtifact{Version: "v1", Model: forest.New(5, 1)})
	if !errors.Is(err, forest.ErrNotFitted) {
		t.Fatalf("expected ErrNotFitted, got %v", err)
	}
}

func TestLoadRegistry(t *testing.T) {
	v, f := fitArtifacts(t)
	dir := t.TempDir()
	s := NewStore(dir)

	if err := s.SaveVectorizer(VectorizerArtifact{Version: "abc", Model: v}); err != nil {
		t.Fatalf("save vectorizer: %v", err)
	}
	if err := s.SaveClassifier(ClassifierArtifact{Version: "def", Model: f}); err != nil {
		t.Fatalf("save classifier: %v", err)
	}

	reg, err := LoadRegistry(dir)
	if err != nil {
		t.Fatalf("load registry: %v", err)
	}
	if reg.Vectorizer() == nil || reg.Classifier() == nil {
		t.Fatalf("registry missing models")
	}
	vecVersion, clfVersion := reg.Versions()
	if vecVersion != "abc" || clfVersion != "def" {
		t.Fatalf("unexpected versions %q, %q", vecVersion, clfVersion)
	}
}

func TestLoadRegistry_MissingDir(t *testing.T) {
	if _, err := LoadRegistry(t.TempDir()); !errors.Is(err, ErrNotLoaded) {
		t.Fatalf("expected ErrNotLoaded, got %v", err)
	}
}
