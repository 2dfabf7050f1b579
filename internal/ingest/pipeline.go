package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/hermeskg/hermes/internal/chunk"
	"github.com/hermeskg/hermes/internal/graph"
	"github.com/hermeskg/hermes/internal/hashtrack"
)

// Report summarizes one pipeline run: totalFiles, indexed, skipped,
// errors, nodesCreated, plus the count of stale files the sweep
// removed. Per-file ingestion errors are counted, never propagated:
// index is best-effort with per-unit accounting.
type Report struct {
	ProjectID    string
	TotalFiles   int
	Skipped      int
	Indexed      int
	Errors       int
	NodesCreated int
	Removed      int
	ErrorLog     []string
}

// Pipeline orchestrates crawl -> chunk -> hash-gate -> upsert -> sweep for
// one project root.
type Pipeline struct {
	graph     *graph.Graph
	tracker   *hashtrack.Tracker
	projectID string
	root      string
	logger    *slog.Logger
}

// New constructs a Pipeline. logger may be nil, in which case errors are
// logged as text to stderr.
func New(g *graph.Graph, tracker *hashtrack.Tracker, projectID, root string, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	}
	return &Pipeline{graph: g, tracker: tracker, projectID: projectID, root: root, logger: logger}
}

// Run executes one full pipeline pass: crawl, gate, ingest, sweep. Files
// are processed in the crawl's lexicographic order so node-creation
// traces are reproducible across runs.
func (p *Pipeline) Run(ctx context.Context) (*Report, error) {
	paths, err := Crawl(ctx, p.root)
	if err != nil {
		return nil, fmt.Errorf("crawl %s: %w", p.root, err)
	}

	report := &Report{ProjectID: p.projectID}
	report.TotalFiles = len(paths)

	for _, path := range paths {
		if p.tracker.IsUnchanged(ctx, path) {
			report.Skipped++
			continue
		}
		created, err := p.ingestFile(ctx, path)
		if err != nil {
			report.Errors++
			report.ErrorLog = append(report.ErrorLog, fmt.Sprintf("%s: %v", path, err))
			p.logger.Error("ingest file failed", "path", path, "error", err)
			continue
		}
		report.Indexed++
		report.NodesCreated += created
	}

	removed, err := p.sweep(ctx, paths)
	if err != nil {
		return report, fmt.Errorf("sweep: %w", err)
	}
	report.Removed = removed

	return report, nil
}

// ingestFile reads path, decodes it permissively, chunks it, and upserts
// a file node plus one node per changed chunk. It returns the number of
// nodes created or refreshed.
func (p *Pipeline) ingestFile(ctx context.Context, path string) (int, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read: %w", err)
	}
	// Never fail on non-UTF-8: invalid sequences become the replacement
	// character.
	text := strings.ToValidUTF8(string(raw), "�")

	fileNode := &graph.Node{
		ID:          path,
		ProjectID:   p.projectID,
		Name:        path,
		NodeType:    graph.NodeTypeFile,
		FilePath:    path,
		StartLine:   1,
		EndLine:     lineCount(text),
		ContentHash: hashtrack.ContentHash(text),
	}
	if err := p.graph.AddNode(ctx, fileNode); err != nil {
		return 0, fmt.Errorf("upsert file node: %w", err)
	}
	if err := p.graph.IndexFTS(ctx, fileNode, text); err != nil {
		return 0, fmt.Errorf("index file fts: %w", err)
	}
	nodesCreated := 1

	chunks := chunk.Chunk(path, text)
	for _, c := range chunks {
		unchanged, err := p.tracker.IsChunkUnchanged(ctx, path, c.Name, c.Text)
		if err != nil {
			return nodesCreated, fmt.Errorf("chunk hash check for %s: %w", c.Name, err)
		}
		if unchanged {
			continue
		}

		chunkID := hashtrack.ChunkKey(path, c.Name)
		chunkNode := &graph.Node{
			ID:          chunkID,
			ProjectID:   p.projectID,
			Name:        c.Name,
			NodeType:    c.NodeType,
			FilePath:    path,
			StartLine:   c.StartLine,
			EndLine:     c.EndLine,
			Summary:     c.Summary,
			ContentHash: hashtrack.ContentHash(c.Text),
		}
		if err := p.graph.AddNode(ctx, chunkNode); err != nil {
			return nodesCreated, fmt.Errorf("upsert chunk node %s: %w", c.Name, err)
		}
		if err := p.graph.IndexFTS(ctx, chunkNode, c.Text); err != nil {
			return nodesCreated, fmt.Errorf("index chunk fts %s: %w", c.Name, err)
		}
		if err := p.graph.AddEdge(ctx, &graph.Edge{
			ID:        "contains:" + fileNode.ID + "->" + chunkID,
			ProjectID: p.projectID,
			SourceID:  fileNode.ID,
			TargetID:  chunkID,
			EdgeType:  graph.EdgeTypeContains,
			Weight:    1.0,
		}); err != nil {
			return nodesCreated, fmt.Errorf("link chunk edge %s: %w", c.Name, err)
		}

		if err := p.tracker.UpdateChunkHash(ctx, path, c.Name, c.Text); err != nil {
			return nodesCreated, fmt.Errorf("update chunk hash %s: %w", c.Name, err)
		}
		nodesCreated++
	}

	if err := p.tracker.UpdateHash(ctx, path, text); err != nil {
		return nodesCreated, fmt.Errorf("update file hash: %w", err)
	}
	return nodesCreated, nil
}

// sweep removes nodes for any previously-indexed file no longer present
// in crawledPaths (the set-difference storedFilePaths \ crawledPaths).
func (p *Pipeline) sweep(ctx context.Context, crawledPaths []string) (int, error) {
	stored, err := p.graph.AllFilePaths(ctx, p.projectID)
	if err != nil {
		return 0, fmt.Errorf("list stored paths: %w", err)
	}

	crawled := make(map[string]bool, len(crawledPaths))
	for _, p := range crawledPaths {
		crawled[p] = true
	}

	removed := 0
	for _, path := range stored {
		if crawled[path] {
			continue
		}
		if err := p.graph.DeleteNodesForFile(ctx, p.projectID, path); err != nil {
			return removed, fmt.Errorf("delete stale file %s: %w", path, err)
		}
		removed++
	}
	return removed, nil
}

func lineCount(text string) int {
	return strings.Count(text, "\n") + 1
}
