// Package model persists and reloads fitted artifacts. The vectorizer
// and the classifier are two independent versioned blobs; Save replaces
// a blob atomically (temp file + rename) so a concurrent reader never
// observes a half-written artifact.
package model

import (
	"encoding/gob"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"career-compass/internal/domain/features"
	"career-compass/internal/domain/forest"
)

var ErrNotLoaded = errors.New("model artifact not loaded")

const (
	VectorizerFile = "vectorizer.gob"
	ClassifierFile = "classifier.gob"
)

type VectorizerArtifact struct {
	Version   string
	TrainedAt time.Time
	Model     *features.Vectorizer
}

type ClassifierArtifact struct {
	Version   string
	TrainedAt time.Time
	Model     *forest.Forest
}

type Store struct {
	dir string
}

func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

func (s *Store) SaveVectorizer(a VectorizerArtifact) error {
	if a.Model == nil || !a.Model.Fitted() {
		return features.ErrNotFitted
	}
	return s.write(VectorizerFile, a)
}

func (s *Store) SaveClassifier(a ClassifierArtifact) error {
	if a.Model == nil || !a.Model.Fitted() {
		return forest.ErrNotFitted
	}
	return s.write(ClassifierFile, a)
}

func (s *Store) LoadVectorizer() (VectorizerArtifact, error) {
	var a VectorizerArtifact
	if err := s.read(VectorizerFile, &a); err != nil {
		return VectorizerArtifact{}, err
	}
	if a.Model == nil || !a.Model.Fitted() {
		return VectorizerArtifact{}, fmt.Errorf("%w: %s holds no fitted state", ErrNotLoaded, VectorizerFile)
	}
	return a, nil
}

func (s *Store) LoadClassifier() (ClassifierArtifact, error) {
	var a ClassifierArtifact
	if err := s.read(ClassifierFile, &a); err != nil {
		return ClassifierArtifact{}, err
	}
	if a.Model == nil || !a.Model.Fitted() {
		return ClassifierArtifact{}, fmt.Errorf("%w: %s holds no fitted state", ErrNotLoaded, ClassifierFile)
	}
	return a, nil
}

func (s *Store) write(name string, v any) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("failed to create artifact dir %s: %w", s.dir, err)
	}

	tmp, err := os.CreateTemp(s.dir, name+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp artifact: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := gob.NewEncoder(tmp).Encode(v); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to encode artifact %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to flush artifact %s: %w", name, err)
	}

	if err := os.Rename(tmp.Name(), filepath.Join(s.dir, name)); err != nil {
		return fmt.Errorf("failed to replace artifact %s: %w", name, err)
	}
	return nil
}

func (s *Store) read(name string, v any) error {
	path := filepath.Join(s.dir, name)
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrNotLoaded, path)
		}
		return fmt.Errorf("failed to read artifact %s: %w", path, err)
	}
	defer f.Close()

	if err := gob.NewDecoder(f).Decode(v); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrNotLoaded, path, err)
	}
	return nil
}
