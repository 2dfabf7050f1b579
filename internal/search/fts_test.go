package search

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hermeskg/hermes/internal/graph"
)

func TestFTSSearchFindsIndexedContent(t *testing.T) {
	ctx := context.Background()
	g := newTestGraph(t)

	n := &graph.Node{ID: "n1", ProjectID: "p", Name: "retry_with_backoff", NodeType: graph.NodeTypeFunction, FilePath: "a.rs", StartLine: 1, EndLine: 5}
	require.NoError(t, g.AddNode(ctx, n))
	require.NoError(t, g.IndexFTS(ctx, n, "fn retry_with_backoff() { exponential backoff retry logic }"))

	tier := &FTSTier{Graph: g}
	hits, err := tier.Search(ctx, "p", "exponential backoff")
	require.NoError(t, err)
	require.NotEmpty(t, hits)
	require.Equal(t, "n1", hits[0].Node.ID)
	require.Equal(t, TierFTS, hits[0].Tier)
	require.GreaterOrEqual(t, hits[0].Score, 0.0)
	require.LessOrEqual(t, hits[0].Score, 1.0)
}

func TestFTSSearchEmptyTokensReturnsNil(t *testing.T) {
	ctx := context.Background()
	g := newTestGraph(t)
	tier := &FTSTier{Graph: g}

	hits, err := tier.Search(ctx, "p", "and or not")
	require.NoError(t, err)
	require.Nil(t, hits)
}

func TestNormalizeBM25FloorAndClamp(t *testing.T) {
	require.Equal(t, 0.5, normalizeBM25(0.0))
	require.Equal(t, 0.5, normalizeBM25(0.0005))
	got := normalizeBM25(-9.0)
	require.Greater(t, got, 0.0)
	require.LessOrEqual(t, got, 1.0)
}

func TestFTSStrategyEscalationQueries(t *testing.T) {
	tokens := []string{"foo", "bar"}
	require.Equal(t, `"foo bar"`, phraseQuery(tokens))
	require.Equal(t, `"foo"* AND "bar"*`, prefixAndQuery(tokens))
	require.Equal(t, `"foo" OR "bar"`, orQuery(tokens))
}
