// Package pipeline orchestrates offline training: load labeled
// examples, fit the vectorizer, split, fit the classifier, persist both
// artifacts. Retraining never reads the old artifacts; it overwrites
// them wholesale.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"career-compass/internal/domain/features"
	"career-compass/internal/domain/forest"
	"career-compass/internal/model"

	"github.com/google/uuid"
)

// ErrInsufficientData aborts training when a label has too few
// examples for the requested stratified split.
var ErrInsufficientData = errors.New("insufficient examples per label for stratified split")

const (
	DefaultTestFraction = 0.2
	DefaultSeed         = 42
)

type Trainer struct {
	MaxFeatures  int
	NumTrees     int
	Seed         int64
	TestFraction float64
	// Stratify splits per label; requires every label to appear at
	// least twice. The CSV skill/demand path trains unstratified.
	Stratify bool

	Artifacts *model.Store
}

type Result struct {
	Version      string
	TrainedAt    time.Time
	Labels       int
	TrainCount   int
	HeldOutCount int
}

// Train runs the full pipeline over the examples, in strict order.
func (t *Trainer) Train(ctx context.Context, examples []Example) (Result, error) {
	if t == nil || t.Artifacts == nil {
		return Result{}, fmt.Errorf("trainer not configured")
	}
	if len(examples) == 0 {
		return Result{}, ErrNoExamples
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	seed := t.Seed
	if seed == 0 {
		seed = DefaultSeed
	}
	testFraction := t.TestFraction
	if testFraction <= 0 || testFraction >= 1 {
		testFraction = DefaultTestFraction
	}

	corpus := make([]string, len(examples))
	labels := make([]string, len(examples))
	for i, ex := range examples {
		corpus[i] = ex.Text
		labels[i] = ex.Label
	}

	vectorizer := features.NewVectorizer(t.MaxFeatures)
	if err := vectorizer.Fit(corpus); err != nil {
		return Result{}, err
	}
	vectors, err := vectorizer.Transform(corpus)
	if err != nil {
		return Result{}, err
	}

	trainIdx, testIdx, err := split(labels, testFraction, seed, t.Stratify)
	if err != nil {
		return Result{}, err
	}

	trainVecs := make([][]float64, len(trainIdx))
	trainLabels := make([]string, len(trainIdx))
	for i, idx := range trainIdx {
		trainVecs[i] = vectors[idx]
		trainLabels[i] = labels[idx]
	}

	clf := forest.New(t.NumTrees, seed)
	if err := clf.Fit(trainVecs, trainLabels); err != nil {
		return Result{}, err
	}

	version := uuid.NewString()
	trainedAt := time.Now().UTC()

	if err := t.Artifacts.SaveVectorizer(model.VectorizerArtifact{
		Version:   version,
		TrainedAt: trainedAt,
		Model:     vectorizer,
	}); err != nil {
		return Result{}, err
	}
	if err := t.Artifacts.SaveClassifier(model.ClassifierArtifact{
		Version:   version,
		TrainedAt: trainedAt,
		Model:     clf,
	}); err != nil {
		return Result{}, err
	}

	return Result{
		Version:      version,
		TrainedAt:    trainedAt,
		Labels:       len(clf.Classes),
		TrainCount:   len(trainIdx),
		HeldOutCount: len(testIdx),
	}, nil
}

// split partitions example indexes into train and held-out sets with a
// seeded shuffle. Stratified mode splits each label group separately,
// keeping at least one training example per label, and fails when a
// label has fewer than two examples (the per-label split is undefined
// then).
func split(labels []string, testFraction float64, seed int64, stratify bool) (train, test []int, err error) {
	rng := rand.New(rand.NewSource(seed))

	if !stratify {
		idx := rng.Perm(len(labels))
		nTest := int(float64(len(labels)) * testFraction)
		if nTest >= len(labels) {
			nTest = len(labels) - 1
		}
		return idx[nTest:], idx[:nTest], nil
	}

	groups := make(map[string][]int)
	for i, l := range labels {
		groups[l] = append(groups[l], i)
	}

	names := make([]string, 0, len(groups))
	for l, members := range groups {
		if len(members) < 2 {
			return nil, nil, fmt.Errorf("%w: label %q has %d example(s)", ErrInsufficientData, l, len(members))
		}
		names = append(names, l)
	}
	sort.Strings(names)

	for _, l := range names {
		members := groups[l]
		rng.Shuffle(len(members), func(i, j int) {
			members[i], members[j] = members[j], members[i]
		})

		nTest := int(float64(len(members)) * testFraction)
		if nTest >= len(members) {
			nTest = len(members) - 1
		}
		test = append(test, members[:nTest]...)
		train = append(train, members[nTest:]...)
	}

	sort.Ints(train)
	sort.Ints(test)
	return train, test, nil
}
