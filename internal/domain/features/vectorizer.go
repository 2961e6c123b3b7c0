package features

import (
	"errors"
	"math"
	"sort"
	"strings"
	"unicode"
)

var (
	ErrNotFitted   = errors.New("vectorizer not fitted")
	ErrEmptyCorpus = errors.New("empty training corpus")
)

const DefaultMaxFeatures = 5000

// Vectorizer maps free text onto a fixed-dimension TF-IDF vector space.
// The vocabulary and document frequencies are frozen by Fit; Transform
// never mutates them, so the same input always yields the same vector.
// Fields are exported for gob round-tripping of fitted state.
type Vectorizer struct {
	MaxFeatures int
	Vocabulary  map[string]int
	IDF         []float64
	NumDocs     int
}

func NewVectorizer(maxFeatures int) *Vectorizer {
	if maxFeatures <= 0 {
		maxFeatures = DefaultMaxFeatures
	}
	return &Vectorizer{MaxFeatures: maxFeatures}
}

func (v *Vectorizer) Fitted() bool {
	return v != nil && len(v.Vocabulary) > 0
}

// NumFeatures is the dimension of vectors produced by Transform.
func (v *Vectorizer) NumFeatures() int {
	if v == nil {
		return 0
	}
	return len(v.Vocabulary)
}

// Fit builds the vocabulary and inverse document frequencies from the
// corpus. When the distinct term count exceeds MaxFeatures, the terms
// with the highest corpus frequency are kept, ties broken by
// lexicographic order so refitting the same corpus is reproducible.
func (v *Vectorizer) Fit(corpus []string) error {
	if v == nil {
		return ErrNotFitted
	}
	if len(corpus) == 0 {
		return ErrEmptyCorpus
	}

	df := make(map[string]int)
	totals := make(map[string]int)
	for _, doc := range corpus {
		counts := termCounts(Tokenize(doc))
		for term, n := range counts {
			df[term]++
			totals[term] += n
		}
	}

	terms := make([]string, 0, len(totals))
	for t := range totals {
		terms = append(terms, t)
	}
	sort.Slice(terms, func(i, j int) bool {
		if totals[terms[i]] != totals[terms[j]] {
			return totals[terms[i]] > totals[terms[j]]
		}
		return terms[i] < terms[j]
	})
	if len(terms) > v.MaxFeatures {
		terms = terms[:v.MaxFeatures]
	}

	// Index assignment follows term order so vector layout does not
	// depend on map iteration.
	sort.Strings(terms)

	v.NumDocs = len(corpus)
	v.Vocabulary = make(map[string]int, len(terms))
	v.IDF = make([]float64, len(terms))
	for i, t := range terms {
		v.Vocabulary[t] = i
		v.IDF[i] = math.Log(float64(1+v.NumDocs)/float64(1+df[t])) + 1
	}
	return nil
}

// Transform projects texts into the fitted vector space. Terms outside
// the vocabulary contribute nothing; they never extend it.
func (v *Vectorizer) Transform(texts []string) ([][]float64, error) {
	if !v.Fitted() {
		return nil, ErrNotFitted
	}
	out := make([][]float64, len(texts))
	for i, t := range texts {
		vec, err := v.TransformOne(t)
		if err != nil {
			return nil, err
		}
		out[i] = vec
	}
	return out, nil
}

func (v *Vectorizer) TransformOne(text string) ([]float64, error) {
	if !v.Fitted() {
		return nil, ErrNotFitted
	}

	vec := make([]float64, len(v.IDF))
	for term, n := range termCounts(Tokenize(text)) {
		idx, ok := v.Vocabulary[term]
		if !ok {
			continue
		}
		vec[idx] = float64(n) * v.IDF[idx]
	}

	var norm float64
	for _, x := range vec {
		norm += x * x
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for i := range vec {
			vec[i] /= norm
		}
	}
	return vec, nil
}

// Tokenize lowercases the input, keeps letter/digit runs and drops stop
// words and single-rune tokens.
func Tokenize(text string) []string {
	text = strings.ToLower(strings.TrimSpace(text))
	if text == "" {
		return nil
	}

	var tokens []string
	b := strings.Builder{}
	flush := func() {
		if b.Len() == 0 {
			return
		}
		tok := b.String()
		b.Reset()
		if len([]rune(tok)) < 2 {
			return
		}
		if isStopWord(tok) {
			return
		}
		tokens = append(tokens, tok)
	}

	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			b.WriteRune(r)
			continue
		}
		flush()
	}
	flush()
	return tokens
}

func termCounts(tokens []string) map[string]int {
	if len(tokens) == 0 {
		return nil
	}
	counts := make(map[string]int, len(tokens))
	for _, t := range tokens {
		counts[t]++
	}
	return counts
}
