package ranking

import (
	"errors"
	"sort"
)

var ErrEmptyDistribution = errors.New("empty probability distribution")

const DefaultTopK = 3

type Prediction struct {
	Label       string
	Probability float64
}

// TopK selects the k most probable labels, sorted by probability
// descending with ties broken by ascending label so the order is
// reproducible across calls. Returns min(k, len(probs)) entries.
func TopK(probs map[string]float64, k int) ([]Prediction, error) {
	if len(probs) == 0 {
		return nil, ErrEmptyDistribution
	}
	if k <= 0 {
		k = DefaultTopK
	}

	out := make([]Prediction, 0, len(probs))
	for label, p := range probs {
		out = append(out, Prediction{Label: label, Probability: p})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Probability != out[j].Probability {
			return out[i].Probability > out[j].Probability
		}
		return out[i].Label < out[j].Label
	})

	if len(out) > k {
		out = out[:k]
	}
	return out, nil
}

// Percent converts a probability to a display percentage. Truncates
// rather than rounds: 0.349 -> 34.
func Percent(p float64) int {
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 100
	}
	return int(p * 100)
}
