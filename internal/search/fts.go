package search

import (
	"context"
	"math"
	"strings"

	"github.com/hermeskg/hermes/internal/graph"
)

// minHitsToAccept is the strategy-escalation threshold: a strategy's
// result is used once it yields at least this many hits, or once it's the
// last strategy tried.
const minHitsToAccept = 3

// FTSTier implements L1: BM25-backed full text search with a
// three-strategy escalation (phrase -> prefix AND -> OR), limit 20.
type FTSTier struct {
	Graph *graph.Graph
}

// Search runs the escalating FTS5 MATCH strategies for query, returning
// the first one whose hit count reaches minHitsToAccept (or the last
// strategy's result, whatever its count).
func (t *FTSTier) Search(ctx context.Context, projectID, query string) ([]Result, error) {
	tokens := ExtractTokens(query)
	if len(tokens) == 0 {
		return nil, nil
	}

	strategies := []string{
		phraseQuery(tokens),
		prefixAndQuery(tokens),
		orQuery(tokens),
	}

	var matches []graph.FTSMatch
	for i, strategy := range strategies {
		hits, err := t.Graph.FtsSearch(ctx, projectID, strategy, tierLimit)
		if err != nil {
			return nil, err
		}
		matches = hits
		if len(hits) >= minHitsToAccept || i == len(strategies)-1 {
			break
		}
	}

	results := make([]Result, 0, len(matches))
	for _, m := range matches {
		results = append(results, Result{
			Node:  m.Node,
			Score: normalizeBM25(m.Rank),
			Tier:  TierFTS,
		})
	}
	return results, nil
}

func phraseQuery(tokens []string) string {
	return `"` + strings.Join(tokens, " ") + `"`
}

func prefixAndQuery(tokens []string) string {
	quoted := make([]string, len(tokens))
	for i, tok := range tokens {
		quoted[i] = `"` + tok + `"*`
	}
	return strings.Join(quoted, " AND ")
}

func orQuery(tokens []string) string {
	quoted := make([]string, len(tokens))
	for i, tok := range tokens {
		quoted[i] = `"` + tok + `"`
	}
	return strings.Join(quoted, " OR ")
}

// normalizeBM25 maps an unbounded, negative BM25 rank into [0,1] per the
// design note: 1 - 1/(1+|rank|), with a 0.5 floor when the rank is
// numerically tiny.
func normalizeBM25(rank float64) float64 {
	abs := math.Abs(rank)
	if abs < 0.001 {
		return 0.5
	}
	score := 1 - 1/(1+abs)
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}
