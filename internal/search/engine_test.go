package search

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hermeskg/hermes/internal/graph"
)

func TestFuseAllTierBonusBreaksScoreTies(t *testing.T) {
	shared := &graph.Node{ID: "n1", Name: "shared"}
	groups := [][]Result{
		{{Node: shared, Score: 0.5, Tier: TierVector}},
		{{Node: shared, Score: 0.5, Tier: TierLiteral}},
	}
	fused := fuseAll(groups, 10)
	require.Len(t, fused, 1)
	require.Equal(t, TierLiteral, fused[0].Tier, "literal's +0.3 bonus should win over vector's +0.0 at equal raw score")
}

func TestFuseAllDedupesByNodeIDKeepingHighestBoostedTier(t *testing.T) {
	n := &graph.Node{ID: "dup", Name: "dup"}
	groups := [][]Result{
		{{Node: n, Score: 0.4, Tier: TierFTS}},   // boosted 0.5
		{{Node: n, Score: 0.35, Tier: TierLiteral}}, // boosted 0.65, wins
	}
	fused := fuseAll(groups, 10)
	require.Len(t, fused, 1)
	require.Equal(t, TierLiteral, fused[0].Tier)
}

func TestFuseAllTruncatesToTopK(t *testing.T) {
	var group []Result
	for i := 0; i < 5; i++ {
		group = append(group, Result{Node: &graph.Node{ID: string(rune('a' + i))}, Score: float64(i), Tier: TierFTS})
	}
	fused := fuseAll([][]Result{group}, 2)
	require.Len(t, fused, 2)
	require.Equal(t, "e", fused[0].Node.ID) // score 4, highest
	require.Equal(t, "d", fused[1].Node.ID) // score 3, second
}

func TestFuseAllBreaksEqualScoreTiesByNodeIDDeterministically(t *testing.T) {
	var group []Result
	for _, id := range []string{"n5", "n1", "n9", "n3"} {
		group = append(group, Result{Node: &graph.Node{ID: id}, Score: 1.0, Tier: TierLiteral})
	}

	for i := 0; i < 20; i++ {
		fused := fuseAll([][]Result{group}, 10)
		require.Len(t, fused, 4)
		require.Equal(t, []string{"n1", "n3", "n5", "n9"},
			[]string{fused[0].Node.ID, fused[1].Node.ID, fused[2].Node.ID, fused[3].Node.ID},
			"equal-score survivors must sort by node ID regardless of map iteration order")
	}
}

func TestMinOfTopKRequiresAtLeastTopKResults(t *testing.T) {
	results := []Result{{Score: 0.9}, {Score: 0.95}}
	_, ok := minOfTopK(results, 5)
	require.False(t, ok)

	min, ok := minOfTopK(results, 2)
	require.True(t, ok)
	require.Equal(t, 0.9, min)
}

func TestEngineSearchShortCircuitsWhenL0IsStrong(t *testing.T) {
	ctx := context.Background()
	g := newTestGraph(t)

	for i := 0; i < 10; i++ {
		name := "needle"
		require.NoError(t, g.AddNode(ctx, &graph.Node{
			ID: "n" + string(rune('0'+i)), ProjectID: "p", Name: name, NodeType: graph.NodeTypeFunction,
		}))
	}

	e := NewEngine(g, nil)
	outcome, err := e.Search(ctx, "p", "needle", 10)
	require.NoError(t, err)
	require.Equal(t, SkipAll, outcome.ShortCircuit, "10 exact-name matches should all score 1.0, well above the 0.9 skip-all floor")

	ids := make([]string, len(outcome.Response.Pointers))
	for i, p := range outcome.Response.Pointers {
		ids[i] = p.ID
	}
	require.True(t, sort.StringsAreSorted(ids), "tied-score pointers must come back in deterministic (node ID) order: %v", ids)
}

func TestEngineSearchRunsAllTiersWhenL0IsWeak(t *testing.T) {
	ctx := context.Background()
	g := newTestGraph(t)
	require.NoError(t, g.AddNode(ctx, &graph.Node{ID: "n1", ProjectID: "p", Name: "something_else", NodeType: graph.NodeTypeFunction}))

	e := NewEngine(g, nil)
	outcome, err := e.Search(ctx, "p", "unrelated query text", 10)
	require.NoError(t, err)
	require.Equal(t, RunAll, outcome.ShortCircuit)
}

func TestEngineSearchCachesRepeatedQuery(t *testing.T) {
	ctx := context.Background()
	g := newTestGraph(t)
	require.NoError(t, g.AddNode(ctx, &graph.Node{ID: "n1", ProjectID: "p", Name: "cache_me", NodeType: graph.NodeTypeFunction}))

	e := NewEngine(g, nil)
	first, err := e.Search(ctx, "p", "cache_me", 10)
	require.NoError(t, err)

	second, err := e.Search(ctx, "p", "cache_me", 10)
	require.NoError(t, err)
	require.Same(t, first, second, "a repeated query within the cache TTL must return the identical cached object")
}

func TestEngineInvalidateCachesDropsCachedResult(t *testing.T) {
	ctx := context.Background()
	g := newTestGraph(t)
	require.NoError(t, g.AddNode(ctx, &graph.Node{ID: "n1", ProjectID: "p", Name: "cache_me", NodeType: graph.NodeTypeFunction}))

	e := NewEngine(g, nil)
	first, err := e.Search(ctx, "p", "cache_me", 10)
	require.NoError(t, err)

	e.InvalidateCaches()

	second, err := e.Search(ctx, "p", "cache_me", 10)
	require.NoError(t, err)
	require.NotSame(t, first, second)
}

func TestEngineFetchReturnsPlaceholderForMissingFile(t *testing.T) {
	ctx := context.Background()
	g := newTestGraph(t)
	require.NoError(t, g.AddNode(ctx, &graph.Node{
		ID: "n1", ProjectID: "p", Name: "gone", NodeType: graph.NodeTypeFunction,
		FilePath: "/no/such/file.rs", StartLine: 1, EndLine: 3,
	}))

	e := NewEngine(g, nil)
	body, node, err := e.Fetch(ctx, "p", "n1")
	require.NoError(t, err)
	require.NotNil(t, node)
	require.Contains(t, body, "File not found")
}

func TestEngineFetchClampsLineRangeAndCaches(t *testing.T) {
	ctx := context.Background()
	g := newTestGraph(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "f.txt")
	require.NoError(t, os.WriteFile(path, []byte("l1\nl2\nl3"), 0o644))

	require.NoError(t, g.AddNode(ctx, &graph.Node{
		ID: "n1", ProjectID: "p", Name: "f", NodeType: graph.NodeTypeFile,
		FilePath: path, StartLine: 1, EndLine: 100, // past EOF, must clamp
	}))

	e := NewEngine(g, nil)
	body, node, err := e.Fetch(ctx, "p", "n1")
	require.NoError(t, err)
	require.NotNil(t, node)
	require.Equal(t, "l1\nl2\nl3", body)

	// second fetch should hit the fetch cache (same result, no re-read needed)
	body2, _, err := e.Fetch(ctx, "p", "n1")
	require.NoError(t, err)
	require.Equal(t, body, body2)
}

func TestEngineFetchSyntheticNodeReturnsEmptyBody(t *testing.T) {
	ctx := context.Background()
	g := newTestGraph(t)
	require.NoError(t, g.AddNode(ctx, &graph.Node{ID: "n1", ProjectID: "p", Name: "concept", NodeType: graph.NodeTypeConcept}))

	e := NewEngine(g, nil)
	body, node, err := e.Fetch(ctx, "p", "n1")
	require.NoError(t, err)
	require.NotNil(t, node)
	require.Empty(t, body)
}

func TestEngineFetchMissingNodeReturnsNil(t *testing.T) {
	ctx := context.Background()
	g := newTestGraph(t)

	e := NewEngine(g, nil)
	body, node, err := e.Fetch(ctx, "p", "does-not-exist")
	require.NoError(t, err)
	require.Nil(t, node)
	require.Empty(t, body)
}
