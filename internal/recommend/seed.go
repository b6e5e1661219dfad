// ReadNext - Content Recommendation Engine for the NachoWeb3 Blog
// Copyright 2026 NachoWeb3
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nachoweb3/readnext

package recommend

import "time"

// SeedCatalog returns the built-in fallback catalog used when the content
// feed is unreachable. It mirrors a handful of evergreen posts so the widget
// degrades to generic recommendations instead of an empty box.
func SeedCatalog() []ContentItem {
	now := time.Now()
	return []ContentItem{
		{
			ID:          "intro-web3",
			Title:       "Introducción al desarrollo Web3 desde cero",
			Tags:        []string{"web3", "blockchain", "ethereum"},
			Categories:  []string{"desarrollo"},
			Type:        "tutorial",
			Difficulty:  "beginner",
			PublishedAt: now.AddDate(0, 0, -14),
			WordCount:   2400,
			ReadingTime: 9,
			Views:       3200,
			Likes:       145,
			Shares:      38,
			Engagement:  0.41,
		},
		{
			ID:          "python-trading-bot",
			Title:       "Cómo construir un bot de trading con Python",
			Tags:        []string{"python", "trading", "bots"},
			Categories:  []string{"desarrollo", "trading"},
			Type:        "tutorial",
			Difficulty:  "intermediate",
			PublishedAt: now.AddDate(0, 0, -30),
			WordCount:   3800,
			ReadingTime: 14,
			Views:       5100,
			Likes:       260,
			Shares:      72,
			Engagement:  0.52,
		},
		{
			ID:          "smart-contracts-solidity",
			Title:       "Contratos inteligentes con Solidity paso a paso",
			Tags:        []string{"solidity", "smart-contracts", "ethereum"},
			Categories:  []string{"desarrollo"},
			Type:        "tutorial",
			Difficulty:  "intermediate",
			PublishedAt: now.AddDate(0, 0, -45),
			WordCount:   4500,
			ReadingTime: 17,
			Views:       2800,
			Likes:       120,
			Shares:      31,
			Engagement:  0.38,
		},
		{
			ID:          "defi-analisis",
			Title:       "Análisis del ecosistema DeFi en 2026",
			Tags:        []string{"defi", "analisis", "finanzas"},
			Categories:  []string{"trading"},
			Type:        "article",
			Difficulty:  "beginner",
			PublishedAt: now.AddDate(0, 0, -5),
			WordCount:   1800,
			ReadingTime: 7,
			Views:       4400,
			Likes:       210,
			Shares:      95,
			Engagement:  0.47,
		},
		{
			ID:          "ia-generativa-contenido",
			Title:       "IA generativa aplicada a la creación de contenido",
			Tags:        []string{"ia", "machine-learning", "contenido"},
			Categories:  []string{"tecnologia"},
			Type:        "article",
			Difficulty:  "beginner",
			PublishedAt: now.AddDate(0, 0, -2),
			WordCount:   1500,
			ReadingTime: 6,
			Views:       6100,
			Likes:       330,
			Shares:      140,
			Engagement:  0.58,
		},
		{
			ID:          "seguridad-wallets",
			Title:       "Seguridad en wallets: errores que debes evitar",
			Tags:        []string{"seguridad", "wallets", "cripto"},
			Categories:  []string{"seguridad"},
			Type:        "guide",
			Difficulty:  "beginner",
			PublishedAt: now.AddDate(0, 0, -60),
			WordCount:   2100,
			ReadingTime: 8,
			Views:       3900,
			Likes:       175,
			Shares:      64,
			Engagement:  0.44,
		},
	}
}
