package model

import (
	"career-compass/internal/domain/features"
	"career-compass/internal/domain/forest"
)

// Registry is the process-wide, read-only view of the loaded artifacts.
// It is populated once at startup and never written afterwards, so
// concurrent request handlers share it without locking.
type Registry struct {
	vectorizer VectorizerArtifact
	classifier ClassifierArtifact
}

func LoadRegistry(dir string) (*Registry, error) {
	s := NewStore(dir)

	vec, err := s.LoadVectorizer()
	if err != nil {
		return nil, err
	}
	clf, err := s.LoadClassifier()
	if err != nil {
		return nil, err
	}

	return &Registry{vectorizer: vec, classifier: clf}, nil
}

func (r *Registry) Vectorizer() *features.Vectorizer {
	if r == nil {
		return nil
	}
	return r.vectorizer.Model
}

func (r *Registry) Classifier() *forest.Forest {
	if r == nil {
		return nil
	}
	return r.classifier.Model
}

// Versions reports the artifact versions currently served.
func (r *Registry) Versions() (vectorizer, classifier string) {
	if r == nil {
		return "", ""
	}
	return r.vectorizer.Version, r.classifier.Version
}
