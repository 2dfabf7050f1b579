package search

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"golang.org/x/sync/singleflight"

	"github.com/hermeskg/hermes/internal/embed"
	"github.com/hermeskg/hermes/internal/graph"
	"github.com/hermeskg/hermes/internal/pointer"
)

// smartTopK is the default top-K used by the external "search(query)"
// tool.
const smartTopK = 10

// Outcome is what one Search call returns: the pointer response plus
// which tiers actually ran. It's what the result cache stores, so a
// cache hit reports the same short-circuit decision as the original run.
type Outcome struct {
	Response    pointer.Response
	ShortCircuit ShortCircuit
}

// Engine fuses the three tiers, enforces the short-circuit policy, and
// owns the search-result and fetch caches — the engine's only mutable
// state.
type Engine struct {
	graph   *graph.Graph
	literal *LiteralTier
	fts     *FTSTier
	vector  *VectorTier
	results *resultCache
	fetches *fetchCache
	inflight singleflight.Group
}

// NewEngine constructs an Engine. embedder may be nil to use the
// always-available hash-based scheme.
func NewEngine(g *graph.Graph, embedder embed.Embedder) *Engine {
	return &Engine{
		graph:   g,
		literal: &LiteralTier{Graph: g},
		fts:     &FTSTier{Graph: g},
		vector:  &VectorTier{Graph: g, Embedder: embedder},
		results: newResultCache(),
		fetches: newFetchCache(),
	}
}

// InvalidateCaches drops every cached search result and fetched body,
// called whenever an ingestion run completes.
func (e *Engine) InvalidateCaches() {
	e.results.invalidate()
	e.fetches.lru.Purge()
}

// Search runs the tiered hybrid search for query with top-K topK,
// enforcing the short-circuit policy and fusing survivors by tier-
// boosted rank merge.
func (e *Engine) Search(ctx context.Context, projectID, query string, topK int) (*Outcome, error) {
	key := resultCacheKey(query, topK)
	if cached, ok := e.results.get(key); ok {
		return cached, nil
	}

	// singleflight collapses concurrent identical cache-miss queries (e.g.
	// two callers racing the same search right after a reindex) into one
	// tier run; every waiter gets the same *Outcome the leader computed.
	v, err, _ := e.inflight.Do(key, func() (any, error) {
		return e.runSearch(ctx, projectID, query, topK, key)
	})
	if err != nil {
		return nil, err
	}
	return v.(*Outcome), nil
}

func (e *Engine) runSearch(ctx context.Context, projectID, query string, topK int, key string) (*Outcome, error) {
	if cached, ok := e.results.get(key); ok {
		return cached, nil
	}

	l0, err := e.literal.Search(ctx, projectID, query)
	if err != nil {
		l0 = nil // tier errors degrade to an empty result, never fail the query
	}

	circuit := RunAll
	var l1, l2 []Result

	if minScore, ok := minOfTopK(l0, topK); ok {
		switch {
		case minScore >= 0.9:
			circuit = SkipAll
		case minScore >= 0.8:
			circuit = SkipL2
		}
	}

	if circuit != SkipAll {
		hits, err := e.fts.Search(ctx, projectID, query)
		if err == nil {
			l1 = hits
		}
	}
	if circuit == RunAll {
		hits, err := e.vector.Search(ctx, projectID, query)
		if err == nil {
			l2 = hits
		}
	}

	fused := fuseAll([][]Result{l0, l1, l2}, topK)
	pointers := toPointers(fused)
	acc := pointer.NewAccounting(sumPointerTokens(pointers), 0)

	outcome := &Outcome{
		Response:     pointer.Response{Pointers: pointers, Accounting: acc},
		ShortCircuit: circuit,
	}
	e.results.put(key, outcome)
	return outcome, nil
}

// minOfTopK returns the minimum raw score among the top topK results (by
// score descending), and whether there were at least topK of them.
func minOfTopK(results []Result, topK int) (float64, bool) {
	if len(results) < topK {
		return 0, false
	}
	sorted := append([]Result(nil), results...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Score > sorted[j].Score })
	return sorted[topK-1].Score, true
}

// fuseAll fuses the tiers' result lists: boosted score = rawScore +
// tierBonus; within one node id the highest boosted score wins (keeping
// its original tier/score); survivors sort by raw score descending,
// ties broken by node ID, and truncate to topK.
func fuseAll(groups [][]Result, topK int) []Result {
	best := make(map[string]Result)
	boosted := make(map[string]float64)

	for _, group := range groups {
		for _, r := range group {
			b := r.Score + tierBonus[r.Tier]
			id := r.Node.ID
			if prior, ok := boosted[id]; !ok || b > prior {
				boosted[id] = b
				best[id] = r
			}
		}
	}

	survivors := make([]Result, 0, len(best))
	for _, r := range best {
		survivors = append(survivors, r)
	}
	// best is built from a map, so iteration order is random; break score
	// ties by node ID so fusion is deterministic for a fixed input set.
	sort.SliceStable(survivors, func(i, j int) bool {
		if survivors[i].Score != survivors[j].Score {
			return survivors[i].Score > survivors[j].Score
		}
		return survivors[i].Node.ID < survivors[j].Node.ID
	})
	if len(survivors) > topK {
		survivors = survivors[:topK]
	}
	return survivors
}

func toPointers(results []Result) []pointer.Pointer {
	out := make([]pointer.Pointer, 0, len(results))
	for _, r := range results {
		n := r.Node
		p := pointer.Pointer{
			ID:        n.ID,
			Source:    n.FilePath,
			Chunk:     n.Name,
			Lines:     fmt.Sprintf("%d-%d", n.StartLine, n.EndLine),
			Relevance: r.Score,
			Summary:   n.Summary,
			NodeType:  string(n.NodeType),
		}
		if !n.UpdatedAt.IsZero() {
			t := n.UpdatedAt
			p.LastModified = &t
		}
		out = append(out, p)
	}
	return out
}

func sumPointerTokens(ptrs []pointer.Pointer) int {
	total := 0
	for i := range ptrs {
		total += ptrs[i].TokenEstimate()
	}
	return total
}

// Fetch loads node, reads its underlying file, and slices lines
// [startLine, endLine] (1-based, inclusive). A missing file returns a
// placeholder string instead of an error. Results are cached by
// (filePath, startLine, endLine) with FIFO eviction.
func (e *Engine) Fetch(ctx context.Context, projectID, nodeID string) (string, *graph.Node, error) {
	node, err := e.graph.GetNode(ctx, projectID, nodeID)
	if err != nil {
		return "", nil, err
	}
	if node == nil {
		return "", nil, nil
	}
	if !node.HasFile() {
		return "", node, nil
	}

	key := fetchKey{FilePath: node.FilePath, StartLine: node.StartLine, EndLine: node.EndLine}
	if body, ok := e.fetches.get(key); ok {
		return body, node, nil
	}

	body := fetchLines(node.FilePath, node.StartLine, node.EndLine)
	e.fetches.put(key, body)
	return body, node, nil
}

func fetchLines(path string, start, end int) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Sprintf("[File not found: %s]", path)
	}

	lines := strings.Split(string(data), "\n")
	if start < 1 {
		start = 1
	}
	if end > len(lines) {
		end = len(lines)
	}
	if start > end || start > len(lines) {
		return ""
	}
	return strings.Join(lines[start-1:end], "\n")
}
