package search

import (
	"context"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/hermeskg/hermes/internal/graph"
)

var literalLower = cases.Lower(language.Und)

// LiteralTier implements L0: name-based scoring, limit 20.
type LiteralTier struct {
	Graph *graph.Graph
}

// Search scores every node graph.LiteralSearchByName surfaces for query:
// exact name match scores highest, then prefix/suffix match, then a
// bounded score for any other substring match.
func (t *LiteralTier) Search(ctx context.Context, projectID, query string) ([]Result, error) {
	candidates, err := t.Graph.LiteralSearchByName(ctx, projectID, query)
	if err != nil {
		return nil, err
	}

	q := literalLower.String(strings.TrimSpace(query))
	results := make([]Result, 0, len(candidates))
	for _, n := range candidates {
		name := literalLower.String(n.Name)
		results = append(results, Result{
			Node:  n,
			Score: literalScore(q, name),
			Tier:  TierLiteral,
		})
		if len(results) == tierLimit {
			break
		}
	}
	return results, nil
}

func literalScore(query, name string) float64 {
	switch {
	case name == query:
		return 1.0
	case strings.HasPrefix(name, query), strings.HasSuffix(name, query):
		return 0.9
	}

	nameLen := len(name)
	if nameLen == 0 {
		nameLen = 1
	}
	score := 0.5 + (float64(len(query))/float64(nameLen))*0.4
	if score < 0.5 {
		return 0.5
	}
	if score > 0.9 {
		return 0.9
	}
	return score
}
