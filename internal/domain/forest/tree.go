package forest

import (
	"math"
	"math/rand"
	"sort"
)

// Node is one decision point of a fitted tree. Leaves keep the class
// distribution of the training samples that reached them; internal
// nodes route on Feature <= Threshold. Child indexes are -1 on leaves.
// Exported for gob.
type Node struct {
	Feature   int
	Threshold float64
	Left      int
	Right     int
	Dist      []float64
}

type Tree struct {
	Nodes []Node
}

func (t *Tree) leafDist(vec []float64) []float64 {
	if t == nil || len(t.Nodes) == 0 {
		return nil
	}
	i := 0
	for {
		n := t.Nodes[i]
		if n.Left < 0 {
			return n.Dist
		}
		f := 0.0
		if n.Feature < len(vec) {
			f = vec[n.Feature]
		}
		if f <= n.Threshold {
			i = n.Left
		} else {
			i = n.Right
		}
	}
}

type treeBuilder struct {
	vectors     [][]float64
	labels      []int
	numClasses  int
	numFeatures int
	maxDepth    int
	minLeaf     int
	mtry        int
	rng         *rand.Rand
	nodes       []Node
}

func (b *treeBuilder) build(sample []int) Tree {
	b.nodes = b.nodes[:0]
	b.grow(sample, 0)
	return Tree{Nodes: append([]Node(nil), b.nodes...)}
}

// grow appends the subtree for the given sample indexes and returns its
// root node index.
func (b *treeBuilder) grow(sample []int, depth int) int {
	counts := make([]float64, b.numClasses)
	for _, i := range sample {
		counts[b.labels[i]]++
	}

	idx := len(b.nodes)
	if depth >= b.maxDepth || len(sample) < 2*b.minLeaf || isPure(counts) {
		b.nodes = append(b.nodes, leaf(counts))
		return idx
	}

	feature, threshold, ok := b.bestSplit(sample, counts)
	if !ok {
		b.nodes = append(b.nodes, leaf(counts))
		return idx
	}

	left := make([]int, 0, len(sample))
	right := make([]int, 0, len(sample))
	for _, i := range sample {
		if b.vectors[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	if len(left) < b.minLeaf || len(right) < b.minLeaf {
		b.nodes = append(b.nodes, leaf(counts))
		return idx
	}

	b.nodes = append(b.nodes, Node{Feature: feature, Threshold: threshold, Left: -1, Right: -1})
	l := b.grow(left, depth+1)
	r := b.grow(right, depth+1)
	b.nodes[idx].Left = l
	b.nodes[idx].Right = r
	return idx
}

func (b *treeBuilder) bestSplit(sample []int, counts []float64) (int, float64, bool) {
	parent := gini(counts, float64(len(sample)))

	bestGain := 0.0
	bestFeature := -1
	bestThreshold := 0.0

	for _, f := range b.candidateFeatures() {
		values := make([]float64, len(sample))
		for i, s := range sample {
			values[i] = b.vectors[s][f]
		}
		sorted := append([]float64(nil), values...)
		sort.Float64s(sorted)

		prev := sorted[0]
		for _, v := range sorted[1:] {
			if v == prev {
				continue
			}
			threshold := prev + (v-prev)/2
			prev = v

			leftCounts := make([]float64, b.numClasses)
			rightCounts := make([]float64, b.numClasses)
			nLeft := 0.0
			for i, s := range sample {
				if values[i] <= threshold {
					leftCounts[b.labels[s]]++
					nLeft++
				} else {
					rightCounts[b.labels[s]]++
				}
			}
			nRight := float64(len(sample)) - nLeft
			if nLeft == 0 || nRight == 0 {
				continue
			}

			weighted := (nLeft*gini(leftCounts, nLeft) + nRight*gini(rightCounts, nRight)) / float64(len(sample))
			gain := parent - weighted
			if gain > bestGain+1e-12 {
				bestGain = gain
				bestFeature = f
				bestThreshold = threshold
			}
		}
	}

	if bestFeature < 0 {
		return 0, 0, false
	}
	return bestFeature, bestThreshold, true
}

// candidateFeatures draws mtry distinct feature indexes for one split.
func (b *treeBuilder) candidateFeatures() []int {
	if b.mtry >= b.numFeatures {
		out := make([]int, b.numFeatures)
		for i := range out {
			out[i] = i
		}
		return out
	}
	perm := b.rng.Perm(b.numFeatures)
	return perm[:b.mtry]
}

func leaf(counts []float64) Node {
	total := 0.0
	for _, c := range counts {
		total += c
	}
	dist := make([]float64, len(counts))
	if total > 0 {
		for i, c := range counts {
			dist[i] = c / total
		}
	}
	return Node{Feature: -1, Left: -1, Right: -1, Dist: dist}
}

func gini(counts []float64, total float64) float64 {
	if total <= 0 {
		return 0
	}
	impurity := 1.0
	for _, c := range counts {
		p := c / total
		impurity -= p * p
	}
	return impurity
}

func isPure(counts []float64) bool {
	seen := false
	for _, c := range counts {
		if c == 0 {
			continue
		}
		if seen {
			return false
		}
		seen = true
	}
	return true
}

func defaultMtry(numFeatures int) int {
	if numFeatures <= 1 {
		return 1
	}
	m := int(math.Sqrt(float64(numFeatures)))
	if m < 1 {
		m = 1
	}
	return m
}
