package classifier

import (
	"fmt"
	"math"
	"sort"
)

// Sample is one labeled training example.
type Sample struct {
	Title string
	Label string
}

// Fit trains the TF-IDF vectorizer and multinomial naive Bayes model on
// labeled titles. Classes and vocabulary are ordered deterministically so
// retraining on the same data reproduces identical artifacts.
func Fit(samples []Sample) (*VectorizerArtifact, *ModelArtifact, error) {
	if len(samples) == 0 {
		return nil, nil, fmt.Errorf("no training samples")
	}

	// Vocabulary and document frequencies.
	df := make(map[string]int)
	docs := make([][]string, len(samples))
	for i, s := range samples {
		tokens := Tokenize(Normalize(s.Title))
		docs[i] = tokens
		seen := make(map[string]bool, len(tokens))
		for _, tok := range tokens {
			if !seen[tok] {
				seen[tok] = true
				df[tok]++
			}
		}
	}
	if len(df) == 0 {
		return nil, nil, fmt.Errorf("training samples contain no tokens")
	}

	terms := make([]string, 0, len(df))
	for tok := range df {
		terms = append(terms, tok)
	}
	sort.Strings(terms)

	vocab := make(map[string]int, len(terms))
	idf := make([]float64, len(terms))
	n := float64(len(samples))
	for i, tok := range terms {
		vocab[tok] = i
		// Smoothed IDF, never zero so every known token contributes.
		idf[i] = math.Log((1+n)/(1+float64(df[tok]))) + 1
	}

	// Class universe, sorted for determinism.
	classIdx := make(map[string]int)
	var classes []string
	for _, s := range samples {
		if _, ok := classIdx[s.Label]; !ok {
			classIdx[s.Label] = 0
			classes = append(classes, s.Label)
		}
	}
	sort.Strings(classes)
	for i, label := range classes {
		classIdx[label] = i
	}

	// Per-class TF-IDF feature sums.
	featureSum := make([][]float64, len(classes))
	for i := range featureSum {
		featureSum[i] = make([]float64, len(terms))
	}
	classCount := make([]float64, len(classes))
	for i, s := range samples {
		ci := classIdx[s.Label]
		classCount[ci]++
		for _, tok := range docs[i] {
			fi := vocab[tok]
			featureSum[ci][fi] += idf[fi]
		}
	}

	// Laplace-smoothed log likelihoods and log priors.
	const alpha = 1.0
	logProb := make([][]float64, len(classes))
	prior := make([]float64, len(classes))
	for ci := range classes {
		total := 0.0
		for _, v := range featureSum[ci] {
			total += v
		}
		denom := total + alpha*float64(len(terms))
		row := make([]float64, len(terms))
		for fi, v := range featureSum[ci] {
			row[fi] = math.Log((v + alpha) / denom)
		}
		logProb[ci] = row
		prior[ci] = math.Log(classCount[ci] / n)
	}

	vec := &VectorizerArtifact{Version: ArtifactVersion, Vocabulary: vocab, IDF: idf}
	model := &ModelArtifact{
		Version:        ArtifactVersion,
		Classes:        classes,
		ClassLogPrior:  prior,
		FeatureLogProb: logProb,
	}
	return vec, model, nil
}
