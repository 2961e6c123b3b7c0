// Package forest implements a bagged decision-tree classifier over a
// fixed label set. Randomness (bootstrap samples, feature subsampling)
// is confined to Fit; a fitted forest is immutable and every prediction
// over it is deterministic, so one instance can serve concurrent
// readers without locking.
package forest

import (
	"errors"
	"math/rand"
	"sort"
)

var (
	ErrNotFitted         = errors.New("forest not fitted")
	ErrNoTrainingData    = errors.New("no training data")
	ErrDimensionMismatch = errors.New("vector and label counts differ")
)

const (
	DefaultNumTrees = 200
	DefaultSeed     = 42
	DefaultMaxDepth = 25
	DefaultMinLeaf  = 1
)

// Forest holds the fitted ensemble. Exported fields round-trip through
// gob; Classes is sorted and fixes both the prediction label set and
// the layout of per-leaf distributions.
type Forest struct {
	NumTrees int
	Seed     int64
	MaxDepth int
	MinLeaf  int
	Classes  []string
	Features int
	Trees    []Tree
}

func New(numTrees int, seed int64) *Forest {
	if numTrees <= 0 {
		numTrees = DefaultNumTrees
	}
	return &Forest{
		NumTrees: numTrees,
		Seed:     seed,
		MaxDepth: DefaultMaxDepth,
		MinLeaf:  DefaultMinLeaf,
	}
}

func (f *Forest) Fitted() bool {
	return f != nil && len(f.Trees) > 0 && len(f.Classes) > 0
}

// Fit trains the ensemble. Each tree draws a bootstrap sample and grows
// on a sqrt-sized feature subset per split; tree t seeds its own RNG
// from Seed+t so retraining with identical inputs rebuilds an identical
// forest.
func (f *Forest) Fit(vectors [][]float64, labels []string) error {
	if f == nil {
		return ErrNotFitted
	}
	if len(vectors) == 0 || len(labels) == 0 {
		return ErrNoTrainingData
	}
	if len(vectors) != len(labels) {
		return ErrDimensionMismatch
	}

	classSet := make(map[string]int)
	for _, l := range labels {
		classSet[l] = 0
	}
	classes := make([]string, 0, len(classSet))
	for c := range classSet {
		classes = append(classes, c)
	}
	sort.Strings(classes)
	for i, c := range classes {
		classSet[c] = i
	}

	y := make([]int, len(labels))
	for i, l := range labels {
		y[i] = classSet[l]
	}

	f.Classes = classes
	f.Features = len(vectors[0])
	f.Trees = make([]Tree, f.NumTrees)

	maxDepth := f.MaxDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	minLeaf := f.MinLeaf
	if minLeaf <= 0 {
		minLeaf = DefaultMinLeaf
	}

	for t := 0; t < f.NumTrees; t++ {
		rng := rand.New(rand.NewSource(f.Seed + int64(t)))
		sample := make([]int, len(vectors))
		for i := range sample {
			sample[i] = rng.Intn(len(vectors))
		}

		b := treeBuilder{
			vectors:     vectors,
			labels:      y,
			numClasses:  len(classes),
			numFeatures: f.Features,
			maxDepth:    maxDepth,
			minLeaf:     minLeaf,
			mtry:        defaultMtry(f.Features),
			rng:         rng,
		}
		f.Trees[t] = b.build(sample)
	}
	return nil
}

// PredictProba returns the label->probability distribution averaged
// over all trees. Probabilities cover the full training label set and
// sum to 1.
func (f *Forest) PredictProba(vec []float64) (map[string]float64, error) {
	if !f.Fitted() {
		return nil, ErrNotFitted
	}

	sums := make([]float64, len(f.Classes))
	voted := 0
	for i := range f.Trees {
		dist := f.Trees[i].leafDist(vec)
		if dist == nil {
			continue
		}
		for c, p := range dist {
			sums[c] += p
		}
		voted++
	}

	out := make(map[string]float64, len(f.Classes))
	if voted == 0 {
		// Degenerate forest: fall back to a uniform distribution.
		uniform := 1.0 / float64(len(f.Classes))
		for _, c := range f.Classes {
			out[c] = uniform
		}
		return out, nil
	}

	for i, c := range f.Classes {
		out[c] = sums[i] / float64(voted)
	}
	return out, nil
}

// Predict returns the most probable label, ties broken by ascending
// label order.
func (f *Forest) Predict(vec []float64) (string, error) {
	probs, err := f.PredictProba(vec)
	if err != nil {
		return "", err
	}

	best := ""
	bestP := -1.0
	for _, c := range f.Classes {
		if probs[c] > bestP {
			best = c
			bestP = probs[c]
		}
	}
	return best, nil
}
