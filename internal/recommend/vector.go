// ReadNext - Content Recommendation Engine for the NachoWeb3 Blog
// Copyright 2026 NachoWeb3
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nachoweb3/readnext

package recommend

import "math"

// FeatureVector is a sparse mapping from feature token to non-negative weight.
// The feature vocabulary is open-ended, so a sparse map beats a fixed-size
// dense vector. Vectors are derived values: recomputed on demand, never
// mutated in place once handed to a scorer.
type FeatureVector map[string]float64

// Add increments the weight of a token.
func (v FeatureVector) Add(token string, weight float64) {
	v[token] += weight
}

// AddScaled accumulates another vector scaled by a factor.
func (v FeatureVector) AddScaled(other FeatureVector, scale float64) {
	for token, weight := range other {
		v[token] += weight * scale
	}
}

// Clone returns an independent copy of the vector.
func (v FeatureVector) Clone() FeatureVector {
	out := make(FeatureVector, len(v))
	for token, weight := range v {
		out[token] = weight
	}
	return out
}

// Norm returns the Euclidean magnitude of the vector.
func (v FeatureVector) Norm() float64 {
	var sum float64
	for _, w := range v {
		sum += w * w
	}
	return math.Sqrt(sum)
}

// CosineSimilarity computes the cosine of the angle between two sparse
// vectors. For non-negative weights the result is bounded in [0, 1].
// Returns 0 when either vector is empty or zero.
func CosineSimilarity(a, b FeatureVector) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	// Iterate the smaller map for the dot product.
	if len(b) < len(a) {
		a, b = b, a
	}

	var dot float64
	for token, wa := range a {
		if wb, ok := b[token]; ok {
			dot += wa * wb
		}
	}
	if dot == 0 {
		return 0
	}

	normA := a.Norm()
	normB := b.Norm()
	if normA == 0 || normB == 0 {
		return 0
	}

	sim := dot / (normA * normB)

	// Guard against floating point drift above 1.0
	if sim > 1 {
		return 1
	}
	return sim
}

// JaccardSimilarity computes |A ∩ B| / |A ∪ B| over two token sets.
// Returns 0 when both sets are empty.
func JaccardSimilarity(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}

	if len(b) < len(a) {
		a, b = b, a
	}

	intersection := 0
	for token := range a {
		if _, ok := b[token]; ok {
			intersection++
		}
	}

	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

// tokenSet collects the distinct members of the given string slices.
func tokenSet(slices ...[]string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, s := range slices {
		for _, v := range s {
			set[v] = struct{}{}
		}
	}
	return set
}
