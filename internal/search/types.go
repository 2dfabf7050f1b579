// Package search implements Hermes's tiered hybrid search engine: three
// independent scorers (literal, full-text, vector) fused into a single
// ranked result list, plus the TTL search-result cache and the
// capacity-bounded fetch cache.
package search

import "github.com/hermeskg/hermes/internal/graph"

// Tier identifies which scorer produced a SearchResult.
type Tier string

const (
	TierLiteral Tier = "literal" // L0
	TierFTS     Tier = "fts"     // L1
	TierVector  Tier = "vector"  // L2
)

// tierBonus is added to a result's raw score before fusion: L0 beats L1
// beats L2 at equal raw score.
var tierBonus = map[Tier]float64{
	TierLiteral: 0.3,
	TierFTS:     0.1,
	TierVector:  0.0,
}

// tierLimit bounds how many results any single tier contributes.
const tierLimit = 20

// Result is one scored hit from a single tier.
type Result struct {
	Node           *graph.Node
	Score          float64 // raw score in [0,1]
	Tier           Tier
	MatchedContent string // optional, tier-specific
}

// ShortCircuit records which tiers a query actually ran, for observability.
type ShortCircuit string

const (
	SkipAll ShortCircuit = "SKIP_ALL" // L0 alone sufficed
	SkipL2  ShortCircuit = "SKIP_L2"  // L0 + L1 sufficed
	RunAll  ShortCircuit = "RUN_ALL"
)
