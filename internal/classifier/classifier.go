// Package classifier maps free-text titles to commodity-group labels
// using a pre-trained TF-IDF vectorizer and multinomial naive Bayes
// model. Classification is deterministic, never fails on string input,
// and performs no I/O after the artifacts are loaded.
package classifier

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"unicode"

	"prokura/internal/domain"
)

// Classifier implements port.Classifier over loaded artifacts.
type Classifier struct {
	vec      *VectorizerArtifact
	model    *ModelArtifact
	majority int // class index with the highest prior
}

// New builds a Classifier from loaded artifacts, checking that their
// shapes agree.
func New(vec *VectorizerArtifact, model *ModelArtifact) (*Classifier, error) {
	for ci, row := range model.FeatureLogProb {
		if len(row) != len(vec.Vocabulary) {
			return nil, fmt.Errorf("class %d: %d feature weights for vocabulary size %d", ci, len(row), len(vec.Vocabulary))
		}
	}
	majority := 0
	for ci, prior := range model.ClassLogPrior {
		if prior > model.ClassLogPrior[majority] {
			majority = ci
		}
	}
	return &Classifier{vec: vec, model: model, majority: majority}, nil
}

// Load reads both artifacts from disk and builds a Classifier. Missing
// or corrupt artifacts are a startup-fatal condition for callers.
func Load(vectorizerPath, modelPath string) (*Classifier, error) {
	vec, err := LoadVectorizer(vectorizerPath)
	if err != nil {
		return nil, err
	}
	model, err := LoadModel(modelPath)
	if err != nil {
		return nil, err
	}
	return New(vec, model)
}

// Classify returns the commodity-group suggestion for a title. Empty or
// entirely out-of-vocabulary input degrades to the majority class with
// its prior-derived (low) confidence rather than failing.
func (c *Classifier) Classify(title string) domain.CommodityGroupSuggestion {
	features := c.vectorize(Normalize(title))

	// Accumulation order must be fixed: summing floats in map iteration
	// order gives a slightly different score on every call.
	idxs := make([]int, 0, len(features))
	for idx := range features {
		idxs = append(idxs, idx)
	}
	sort.Ints(idxs)

	scores := make([]float64, len(c.model.Classes))
	copy(scores, c.model.ClassLogPrior)
	for _, idx := range idxs {
		weight := features[idx]
		for ci := range scores {
			scores[ci] += weight * c.model.FeatureLogProb[ci][idx]
		}
	}

	best := 0
	for ci := range scores {
		if scores[ci] > scores[best] {
			best = ci
		}
	}
	if len(features) == 0 {
		best = c.majority
	}

	return domain.CommodityGroupSuggestion{
		Label:      c.model.Classes[best],
		Confidence: softmaxAt(scores, best),
	}
}

// vectorize builds a sparse TF-IDF feature map for normalized text.
func (c *Classifier) vectorize(normalized string) map[int]float64 {
	counts := make(map[int]float64)
	for _, tok := range Tokenize(normalized) {
		if idx, ok := c.vec.Vocabulary[tok]; ok {
			counts[idx]++
		}
	}
	for idx := range counts {
		counts[idx] *= c.vec.IDF[idx]
	}
	return counts
}

// Normalize lower-cases and whitespace-normalizes a title so that case
// and spacing never change the classification result.
func Normalize(title string) string {
	return strings.Join(strings.Fields(strings.ToLower(title)), " ")
}

// Tokenize splits normalized text on non-alphanumeric runes.
func Tokenize(normalized string) []string {
	return strings.FieldsFunc(normalized, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}

// softmaxAt returns the softmax probability of index i over scores,
// shifted by the maximum for numerical stability.
func softmaxAt(scores []float64, i int) float64 {
	maxScore := scores[0]
	for _, s := range scores {
		if s > maxScore {
			maxScore = s
		}
	}
	var sum float64
	for _, s := range scores {
		sum += math.Exp(s - maxScore)
	}
	return math.Exp(scores[i]-maxScore) / sum
}
