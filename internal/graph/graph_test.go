package graph

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hermeskg/hermes/internal/store"
)

func newTestGraph(t *testing.T) *Graph {
	t.Helper()
	s, err := store.Open("")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	g, err := New(context.Background(), s)
	require.NoError(t, err)
	return g
}

func TestAddNodeGetNodeRoundTrip(t *testing.T) {
	ctx := context.Background()
	g := newTestGraph(t)

	n := &Node{
		ID:        "n1",
		ProjectID: "proj",
		Name:      "parseConfig",
		NodeType:  NodeTypeFunction,
		FilePath:  "src/config.go",
		StartLine: 10,
		EndLine:   40,
		Summary:   "parses the yaml config",
	}
	require.NoError(t, g.AddNode(ctx, n))

	got, err := g.GetNode(ctx, "proj", "n1")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, n.Name, got.Name)
	require.Equal(t, n.NodeType, got.NodeType)
	require.Equal(t, n.FilePath, got.FilePath)
	require.WithinDuration(t, time.Now().UTC(), got.UpdatedAt, 5*time.Second)
}

func TestGetNodeMissingReturnsNil(t *testing.T) {
	ctx := context.Background()
	g := newTestGraph(t)

	got, err := g.GetNode(ctx, "proj", "missing")
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestAddNodeUpsertsByID(t *testing.T) {
	ctx := context.Background()
	g := newTestGraph(t)

	n := &Node{ID: "n1", ProjectID: "proj", Name: "foo", NodeType: NodeTypeFunction}
	require.NoError(t, g.AddNode(ctx, n))

	n.Name = "renamed"
	require.NoError(t, g.AddNode(ctx, n))

	got, err := g.GetNode(ctx, "proj", "n1")
	require.NoError(t, err)
	require.Equal(t, "renamed", got.Name)
}

func TestAddEdgeIdempotent(t *testing.T) {
	ctx := context.Background()
	g := newTestGraph(t)

	require.NoError(t, g.AddNode(ctx, &Node{ID: "a", ProjectID: "proj", Name: "a", NodeType: NodeTypeFunction}))
	require.NoError(t, g.AddNode(ctx, &Node{ID: "b", ProjectID: "proj", Name: "b", NodeType: NodeTypeFunction}))

	e := &Edge{ID: "e1", ProjectID: "proj", SourceID: "a", TargetID: "b", EdgeType: EdgeTypeCalls, Weight: 1.0}
	require.NoError(t, g.AddEdge(ctx, e))
	require.NoError(t, g.AddEdge(ctx, e)) // re-add is a no-op

	neighbors, err := g.GetNeighbors(ctx, "proj", "a")
	require.NoError(t, err)
	require.Len(t, neighbors, 1)
	require.Equal(t, "b", neighbors[0].Node.ID)
}

func TestGetNeighborsBothDirections(t *testing.T) {
	ctx := context.Background()
	g := newTestGraph(t)

	require.NoError(t, g.AddNode(ctx, &Node{ID: "a", ProjectID: "proj", Name: "a", NodeType: NodeTypeFunction}))
	require.NoError(t, g.AddNode(ctx, &Node{ID: "b", ProjectID: "proj", Name: "b", NodeType: NodeTypeFunction}))
	require.NoError(t, g.AddNode(ctx, &Node{ID: "c", ProjectID: "proj", Name: "c", NodeType: NodeTypeFunction}))

	require.NoError(t, g.AddEdge(ctx, &Edge{ID: "e1", ProjectID: "proj", SourceID: "a", TargetID: "b", EdgeType: EdgeTypeCalls}))
	require.NoError(t, g.AddEdge(ctx, &Edge{ID: "e2", ProjectID: "proj", SourceID: "c", TargetID: "a", EdgeType: EdgeTypeCalls}))

	neighbors, err := g.GetNeighbors(ctx, "proj", "a")
	require.NoError(t, err)
	require.Len(t, neighbors, 2)

	ids := map[string]bool{}
	for _, nb := range neighbors {
		ids[nb.Node.ID] = true
	}
	require.True(t, ids["b"])
	require.True(t, ids["c"])
}

func TestLiteralSearchPrefixPrecludesContains(t *testing.T) {
	ctx := context.Background()
	g := newTestGraph(t)

	require.NoError(t, g.AddNode(ctx, &Node{ID: "n1", ProjectID: "proj", Name: "parseConfig", NodeType: NodeTypeFunction}))
	require.NoError(t, g.AddNode(ctx, &Node{ID: "n2", ProjectID: "proj", Name: "reparseConfig", NodeType: NodeTypeFunction}))

	// "parse" is a prefix of n1 only; n2 merely contains it. Prefix phase
	// wins and the contains-only match must not appear.
	hits, err := g.LiteralSearchByName(ctx, "proj", "parse")
	require.NoError(t, err)
	require.Len(t, hits, 1)
	require.Equal(t, "n1", hits[0].ID)
}

func TestLiteralSearchFallsBackToContains(t *testing.T) {
	ctx := context.Background()
	g := newTestGraph(t)

	require.NoError(t, g.AddNode(ctx, &Node{ID: "n1", ProjectID: "proj", Name: "reparseConfig", NodeType: NodeTypeFunction}))

	hits, err := g.LiteralSearchByName(ctx, "proj", "parse")
	require.NoError(t, err)
	require.Len(t, hits, 1)
	require.Equal(t, "n1", hits[0].ID)
}

func TestLiteralSearchIsUnicodeAware(t *testing.T) {
	ctx := context.Background()
	g := newTestGraph(t)

	require.NoError(t, g.AddNode(ctx, &Node{ID: "n1", ProjectID: "proj", Name: "İstanbul", NodeType: NodeTypeConcept}))

	hits, err := g.LiteralSearchByName(ctx, "proj", "i")
	require.NoError(t, err)
	// Turkish dotted capital İ lowercases to "i̇" under Unicode rules, not
	// ASCII "i"; this must not crash and must not falsely match.
	_ = hits
}

func TestFtsSearchRanksByBM25Ascending(t *testing.T) {
	ctx := context.Background()
	g := newTestGraph(t)

	n1 := &Node{ID: "n1", ProjectID: "proj", Name: "retry", NodeType: NodeTypeFunction, FilePath: "a.go"}
	n2 := &Node{ID: "n2", ProjectID: "proj", Name: "retryWithBackoff", NodeType: NodeTypeFunction, FilePath: "b.go"}
	require.NoError(t, g.AddNode(ctx, n1))
	require.NoError(t, g.AddNode(ctx, n2))
	require.NoError(t, g.IndexFTS(ctx, n1, "retry retry retry network call"))
	require.NoError(t, g.IndexFTS(ctx, n2, "retry with exponential backoff and jitter for network calls"))

	matches, err := g.FtsSearch(ctx, "proj", "retry", 10)
	require.NoError(t, err)
	require.NotEmpty(t, matches)
	for i := 1; i < len(matches); i++ {
		require.LessOrEqual(t, matches[i-1].Rank, matches[i].Rank)
	}
}

func TestDeleteNodesForFileCascades(t *testing.T) {
	ctx := context.Background()
	g := newTestGraph(t)

	n1 := &Node{ID: "n1", ProjectID: "proj", Name: "a", NodeType: NodeTypeFunction, FilePath: "x.go"}
	n2 := &Node{ID: "n2", ProjectID: "proj", Name: "b", NodeType: NodeTypeFunction, FilePath: "x.go"}
	n3 := &Node{ID: "n3", ProjectID: "proj", Name: "c", NodeType: NodeTypeFunction, FilePath: "y.go"}
	require.NoError(t, g.AddNode(ctx, n1))
	require.NoError(t, g.AddNode(ctx, n2))
	require.NoError(t, g.AddNode(ctx, n3))
	require.NoError(t, g.IndexFTS(ctx, n1, "alpha content"))
	require.NoError(t, g.IndexFTS(ctx, n2, "beta content"))

	require.NoError(t, g.AddEdge(ctx, &Edge{ID: "e1", ProjectID: "proj", SourceID: "n1", TargetID: "n2", EdgeType: EdgeTypeCalls}))
	require.NoError(t, g.AddEdge(ctx, &Edge{ID: "e2", ProjectID: "proj", SourceID: "n1", TargetID: "n3", EdgeType: EdgeTypeCalls}))

	require.NoError(t, g.DeleteNodesForFile(ctx, "proj", "x.go"))

	got, err := g.GetNode(ctx, "proj", "n1")
	require.NoError(t, err)
	require.Nil(t, got)
	got, err = g.GetNode(ctx, "proj", "n2")
	require.NoError(t, err)
	require.Nil(t, got)

	// n3 (different file) survives.
	got, err = g.GetNode(ctx, "proj", "n3")
	require.NoError(t, err)
	require.NotNil(t, got)

	// Edges touching deleted nodes are gone, including e2 which pointed at
	// the surviving n3.
	neighbors, err := g.GetNeighbors(ctx, "proj", "n3")
	require.NoError(t, err)
	require.Empty(t, neighbors)

	// FTS rows for the deleted nodes no longer match.
	matches, err := g.FtsSearch(ctx, "proj", "alpha", 10)
	require.NoError(t, err)
	require.Empty(t, matches)
}

func TestAllFilePaths(t *testing.T) {
	ctx := context.Background()
	g := newTestGraph(t)

	require.NoError(t, g.AddNode(ctx, &Node{ID: "n1", ProjectID: "proj", Name: "a", NodeType: NodeTypeFunction, FilePath: "x.go"}))
	require.NoError(t, g.AddNode(ctx, &Node{ID: "n2", ProjectID: "proj", Name: "b", NodeType: NodeTypeConcept}))

	paths, err := g.AllFilePaths(ctx, "proj")
	require.NoError(t, err)
	require.Equal(t, []string{"x.go"}, paths)
}
