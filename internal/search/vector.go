package search

import (
	"context"
	"sort"

	"github.com/hermeskg/hermes/internal/embed"
	"github.com/hermeskg/hermes/internal/graph"
)

// vectorMinScore is the floor below which a candidate is dropped.
const vectorMinScore = 0.20

// VectorTier implements L2: cosine similarity between the query's
// embedding and each node's. Embedder defaults to the hash-based scheme
// when no external provider is configured; swapping it for a provider
// leaves this scoring code unchanged.
type VectorTier struct {
	Graph    *graph.Graph
	Embedder embed.Embedder
}

// Search embeds query and every candidate node's text (name + summary +
// filePath), scores by cosine similarity, drops anything below
// vectorMinScore, and returns the top 20 by descending score.
func (t *VectorTier) Search(ctx context.Context, projectID, query string) ([]Result, error) {
	embedder := t.Embedder
	if embedder == nil {
		embedder = embed.HashEmbedder{}
	}

	queryVec, err := embedder.Embed(ctx, query)
	if err != nil {
		return nil, err
	}

	nodes, err := t.Graph.AllNodes(ctx, projectID)
	if err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(nodes))
	for _, n := range nodes {
		text := n.Name + " " + n.Summary + " " + n.FilePath
		nodeVec, err := embedder.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		score := embed.Cosine(queryVec, nodeVec)
		if score < vectorMinScore {
			continue
		}
		results = append(results, Result{Node: n, Score: score, Tier: TierVector})
	}

	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	if len(results) > tierLimit {
		results = results[:tierLimit]
	}
	return results, nil
}
