package ingest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hermeskg/hermes/internal/graph"
	"github.com/hermeskg/hermes/internal/hashtrack"
	"github.com/hermeskg/hermes/internal/store"
)

func TestCrawlSkipsIgnoredDirsAndSortsResults(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "node_modules"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "node_modules", "vendored.go"), []byte("package x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "z.go"), []byte("package x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.go"), []byte("package x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ignored.exe"), []byte("bin"), 0o644))

	paths, err := Crawl(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, paths, 2)
	require.Contains(t, paths[0], "a.go")
	require.Contains(t, paths[1], "z.go")
}

func TestPipelineRunIngestsAndSkipsUnchanged(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "lib.rs"),
		[]byte("pub fn hello() -> String {\n    \"hi\".to_string()\n}\n"), 0o644))

	s, err := store.Open("")
	require.NoError(t, err)
	defer s.Close()
	g, err := graph.New(ctx, s)
	require.NoError(t, err)
	tr := hashtrack.New(s, "proj")

	p := New(g, tr, "proj", dir, nil)
	report, err := p.Run(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, report.TotalFiles)
	require.Equal(t, 1, report.Indexed)
	require.Equal(t, 0, report.Errors)
	require.Equal(t, 2, report.NodesCreated) // file node + the "hello" fn chunk

	// Second run: nothing changed, file is skipped.
	report2, err := p.Run(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, report2.Skipped)
	require.Equal(t, 0, report2.Indexed)
}

func TestPipelineSweepRemovesDeletedFiles(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	filePath := filepath.Join(dir, "gone.go")
	require.NoError(t, os.WriteFile(filePath, []byte("package x\n\nfunc X() {}\n"), 0o644))

	s, err := store.Open("")
	require.NoError(t, err)
	defer s.Close()
	g, err := graph.New(ctx, s)
	require.NoError(t, err)
	tr := hashtrack.New(s, "proj")

	p := New(g, tr, "proj", dir, nil)
	_, err = p.Run(ctx)
	require.NoError(t, err)

	node, err := g.GetNode(ctx, "proj", filePath)
	require.NoError(t, err)
	require.NotNil(t, node)

	require.NoError(t, os.Remove(filePath))

	report, err := p.Run(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, report.Removed)

	node, err = g.GetNode(ctx, "proj", filePath)
	require.NoError(t, err)
	require.Nil(t, node)
}
