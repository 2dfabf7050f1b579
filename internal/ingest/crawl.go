// Package ingest orchestrates Hermes's index-time pipeline: crawl, chunk,
// hash-gate, upsert, and stale-node sweep.
package ingest

import (
	"context"
	"os"
	"path/filepath"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/hermeskg/hermes/internal/chunk"
)

// ignoreSet is the hard-coded directory leaf names skipped during crawl
// (build outputs, VCS, dependency caches).
var ignoreSet = map[string]bool{
	"target": true, "node_modules": true, ".git": true, ".venv": true,
	".mypy_cache": true, ".pytest_cache": true, ".ruff_cache": true,
	"dist": true, ".next": true, ".vite": true, "build": true,
	".gradle": true, ".idea": true, "out": true,
}

// Crawl recursively walks root, skipping ignored directories, and returns
// every file whose extension is supported, as a sorted list of absolute
// paths. Per-entry stat work is parallelized with an errgroup and the
// result is re-sorted afterward, since directory walk order and goroutine
// completion order don't match lexicographic order.
func Crawl(ctx context.Context, root string) ([]string, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	var candidates []string
	walkErr := filepath.WalkDir(abs, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != abs && ignoreSet[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if chunk.IsSupportedExtension(filepath.Ext(path)) {
			candidates = append(candidates, path)
		}
		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}

	// Parallel stat pass (existence/readability check) so a crawl over a
	// large tree isn't serialized on disk latency; ordering is restored
	// below regardless of completion order.
	g, gctx := errgroup.WithContext(ctx)
	results := make([]string, len(candidates))
	for i, p := range candidates {
		i, p := i, p
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			if _, err := os.Stat(p); err != nil {
				return nil // vanished between walk and stat; just drop it
			}
			results[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]string, 0, len(results))
	for _, p := range results {
		if p != "" {
			out = append(out, p)
		}
	}
	sort.Strings(out)
	return out, nil
}
