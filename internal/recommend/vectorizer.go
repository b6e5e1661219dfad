// ReadNext - Content Recommendation Engine for the NachoWeb3 Blog
// Copyright 2026 NachoWeb3
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nachoweb3/readnext

package recommend

import (
	"strings"
	"time"
	"unicode"
)

// Vectorizer turns content items and user profiles into comparable sparse
// feature vectors. It is deterministic: the same input and reference time
// always produce the same vector.
type Vectorizer struct {
	now func() time.Time
}

// NewVectorizer creates a vectorizer using the given clock. A nil clock
// defaults to time.Now.
func NewVectorizer(now func() time.Time) *Vectorizer {
	if now == nil {
		now = time.Now
	}
	return &Vectorizer{now: now}
}

// stopWords are high-frequency Spanish function words excluded from title
// tokens. The blog's content is written in Spanish.
var stopWords = map[string]struct{}{
	"el": {}, "la": {}, "de": {}, "y": {}, "en": {}, "para": {}, "con": {},
	"por": {}, "que": {}, "como": {}, "los": {}, "las": {}, "un": {}, "una": {},
	"del": {}, "se": {}, "sus": {}, "les": {}, "mis": {}, "misma": {},
	"sin": {}, "esta": {}, "este": {}, "ser": {}, "será": {}, "han": {},
	"hemos": {},
}

// ItemVector derives the feature vector for a content item.
//
// Emitted tokens: title:<word> for each significant title word, tag:<t>,
// category:<c>, type:<t>, difficulty:<d>, plus bucketed readingTime:,
// length: and recency: features.
func (v *Vectorizer) ItemVector(item ContentItem) FeatureVector {
	vec := make(FeatureVector)

	for _, word := range extractWords(item.Title) {
		vec.Add("title:"+word, 1)
	}

	// Tags and categories are emitted twice: once in their own namespace
	// and once as interest: tokens, the namespace page views accumulate
	// profile interests under. Without the mirror, profile and item
	// vectors would share no tokens and content similarity would always
	// be zero.
	for _, tag := range item.Tags {
		t := strings.ToLower(tag)
		vec.Add("tag:"+t, 1)
		vec.Add("interest:"+t, 1)
	}
	for _, cat := range item.Categories {
		c := strings.ToLower(cat)
		vec.Add("category:"+c, 1)
		vec.Add("interest:"+c, 1)
	}

	if item.Type != "" {
		vec.Add("type:"+strings.ToLower(item.Type), 1)
	}
	if item.Difficulty != "" {
		vec.Add("difficulty:"+strings.ToLower(item.Difficulty), 1)
	}

	vec.Add("readingTime:"+readingTimeBucket(item.ReadingTime), 1)
	vec.Add("length:"+lengthBucket(item.WordCount), 1)
	vec.Add("recency:"+recencyBucket(item.PublishedAt, v.now()), 1)

	return vec
}

// ProfileVector derives the feature vector for a user profile.
//
// Interest counts saturate at 10 so a single obsession cannot drown out the
// rest of the profile. Explicit preferences are emitted at weight 1.
func (v *Vectorizer) ProfileVector(p *Profile) FeatureVector {
	vec := make(FeatureVector)
	if p == nil {
		return vec
	}

	for topic, count := range p.Interests {
		c := count
		if c > 10 {
			c = 10
		}
		vec.Add("interest:"+topic, float64(c)/10)
	}

	for _, cat := range p.Preferences.Categories {
		vec.Add("preference:category:"+strings.ToLower(cat), 1)
	}
	for _, tag := range p.Preferences.Tags {
		vec.Add("preference:tag:"+strings.ToLower(tag), 1)
	}

	return vec
}

// extractWords tokenizes a title: lowercase, punctuation stripped, tokens of
// three or more characters, stop words removed.
func extractWords(text string) []string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}

	fields := strings.Fields(b.String())
	words := make([]string, 0, len(fields))
	for _, w := range fields {
		if len([]rune(w)) <= 2 {
			continue
		}
		if _, stop := stopWords[w]; stop {
			continue
		}
		words = append(words, w)
	}
	return words
}

func readingTimeBucket(minutes int) string {
	switch {
	case minutes <= 5:
		return "short"
	case minutes <= 10:
		return "medium"
	case minutes <= 20:
		return "long"
	default:
		return "very-long"
	}
}

func lengthBucket(wordCount int) string {
	switch {
	case wordCount <= 1000:
		return "short"
	case wordCount <= 3000:
		return "medium"
	case wordCount <= 6000:
		return "long"
	default:
		return "very-long"
	}
}

func recencyBucket(published, now time.Time) string {
	days := int(now.Sub(published).Hours() / 24)
	switch {
	case days <= 7:
		return "very-recent"
	case days <= 30:
		return "recent"
	case days <= 90:
		return "moderately-old"
	default:
		return "old"
	}
}
