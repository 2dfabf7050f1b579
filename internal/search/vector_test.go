package search

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hermeskg/hermes/internal/graph"
)

func TestVectorSearchFindsSimilarNodeAboveFloor(t *testing.T) {
	ctx := context.Background()
	g := newTestGraph(t)

	require.NoError(t, g.AddNode(ctx, &graph.Node{
		ID: "n1", ProjectID: "p", Name: "retry_with_backoff", NodeType: graph.NodeTypeFunction,
		FilePath: "a.rs", StartLine: 1, EndLine: 5, Summary: "exponential backoff retry helper",
	}))
	require.NoError(t, g.AddNode(ctx, &graph.Node{
		ID: "n2", ProjectID: "p", Name: "unrelated_thing", NodeType: graph.NodeTypeFunction,
		FilePath: "b.rs", StartLine: 1, EndLine: 5, Summary: "totally different concept entirely",
	}))

	tier := &VectorTier{Graph: g}
	hits, err := tier.Search(ctx, "p", "retry with backoff")
	require.NoError(t, err)
	for _, h := range hits {
		require.GreaterOrEqual(t, h.Score, vectorMinScore)
		require.Equal(t, TierVector, h.Tier)
	}
}

func TestVectorSearchDropsBelowFloorAndSortsDescending(t *testing.T) {
	ctx := context.Background()
	g := newTestGraph(t)
	for i := 0; i < 3; i++ {
		require.NoError(t, g.AddNode(ctx, &graph.Node{
			ID: string(rune('a' + i)), ProjectID: "p", Name: "node_" + string(rune('a'+i)),
			NodeType: graph.NodeTypeFunction, FilePath: "f.rs", StartLine: 1, EndLine: 1,
			Summary: "content " + string(rune('a'+i)),
		}))
	}

	tier := &VectorTier{Graph: g}
	hits, err := tier.Search(ctx, "p", "node_a content a")
	require.NoError(t, err)
	for i := 1; i < len(hits); i++ {
		require.GreaterOrEqual(t, hits[i-1].Score, hits[i].Score)
	}
}
