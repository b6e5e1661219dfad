// ReadNext - Content Recommendation Engine for the NachoWeb3 Blog
// Copyright 2026 NachoWeb3
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nachoweb3/readnext

package recommend

import "sort"

// Insights summarizes the last recommendation list served to a user: which
// strategies contributed, how scores were distributed, and how varied the
// list was. Useful for debugging recommendation quality from the admin UI.
type Insights struct {
	Count             int            `json:"count"`
	Algorithms        []string       `json:"algorithms"`
	AverageScore      float64        `json:"average_score"`
	ScoreDistribution map[string]int `json:"score_distribution"`
	CategoryDiversity int            `json:"category_diversity"`
	TagDiversity      int            `json:"tag_diversity"`
}

// Insights returns the summary for the user's most recently served list.
// Returns an empty summary when nothing has been served yet.
func (e *Engine) Insights(userID string) Insights {
	e.mu.RLock()
	served := e.lastServed[userID]
	e.mu.RUnlock()

	out := Insights{
		ScoreDistribution: map[string]int{"low": 0, "medium": 0, "high": 0},
	}
	if len(served) == 0 {
		return out
	}

	algorithms := make(map[string]struct{})
	categories := make(map[string]struct{})
	tags := make(map[string]struct{})
	var total float64

	for _, item := range served {
		total += item.Score
		for _, alg := range item.Algorithms {
			algorithms[alg] = struct{}{}
		}
		for _, cat := range item.Content.Categories {
			categories[cat] = struct{}{}
		}
		for _, tag := range item.Content.Tags {
			tags[tag] = struct{}{}
		}

		switch {
		case item.Score < 0.5:
			out.ScoreDistribution["low"]++
		case item.Score < 1.0:
			out.ScoreDistribution["medium"]++
		default:
			out.ScoreDistribution["high"]++
		}
	}

	out.Count = len(served)
	out.AverageScore = total / float64(len(served))
	out.CategoryDiversity = len(categories)
	out.TagDiversity = len(tags)

	out.Algorithms = make([]string, 0, len(algorithms))
	for alg := range algorithms {
		out.Algorithms = append(out.Algorithms, alg)
	}
	sort.Strings(out.Algorithms)

	return out
}
