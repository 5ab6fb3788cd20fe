// Package detection holds the decision layer: ranking classifier predictions,
// evaluating operator alerts against the top prediction, and rendering the
// final report. Everything in this package is a pure transformation over
// in-memory data; acquisition, decoding and inference live elsewhere.
package detection

import "strings"

// Prediction is one (species label, confidence score) pair from the classifier.
// Scores are independent confidence values in [0,1], not a normalized distribution.
type Prediction struct {
	Label string
	Score float64
}

// PredictionSet is the unordered set of predictions for one audio input.
// A valid set is never empty.
type PredictionSet []Prediction

// RankedPredictions is a PredictionSet sorted by score descending with a
// stable order for equal scores. The first element is the top prediction.
type RankedPredictions []Prediction

// Top returns the highest-scored prediction.
func (rp RankedPredictions) Top() Prediction {
	return rp[0]
}

// Registry is an immutable case-insensitive set of species labels treated as
// rare. Construct it once with NewRegistry and never mutate it afterwards.
type Registry struct {
	labels map[string]struct{}
}

// NewRegistry builds a registry from the given labels. Matching is
// whole-string and case-folded, no partial or fuzzy matching.
func NewRegistry(labels []string) *Registry {
	set := make(map[string]struct{}, len(labels))
	for _, label := range labels {
		set[strings.ToLower(label)] = struct{}{}
	}
	return &Registry{labels: set}
}

// Contains reports whether label is in the registry, ignoring case.
func (r *Registry) Contains(label string) bool {
	_, ok := r.labels[strings.ToLower(label)]
	return ok
}

// Len returns the number of registered labels.
func (r *Registry) Len() int {
	return len(r.labels)
}
