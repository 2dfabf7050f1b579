package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// runCmd executes one fresh root command invocation with args, capturing
// combined stdout.
func runCmd(t *testing.T, args ...string) string {
	t.Helper()
	cmd := NewRootCmd()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	require.NoError(t, cmd.Execute())
	return buf.String()
}

func TestIndexThenSearchThenFetchRoundTrip(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.go"), []byte("package main\n\nfunc main() {}\n"), 0o644))
	dbPath := filepath.Join(dir, "hermes.db")

	out := runCmd(t, "index", "--project-root", dir, "--db-path", dbPath, "--skip-check", "--plain")
	require.Contains(t, out, "done:")

	out = runCmd(t, "search", "main", "--project-root", dir, "--db-path", dbPath, "--skip-check")
	require.Contains(t, out, "main.go")
}

func TestFactThenFactsRoundTrip(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.go"), []byte("package main\n\nfunc main() {}\n"), 0o644))
	dbPath := filepath.Join(dir, "hermes.db")

	out := runCmd(t, "fact", "use sqlite for storage", "--type", "decision", "--project-root", dir, "--db-path", dbPath, "--skip-check")
	require.NotEmpty(t, out)

	out = runCmd(t, "facts", "--project-root", dir, "--db-path", dbPath, "--skip-check")
	require.Contains(t, out, "use sqlite for storage")
}

func TestConfigShowPrintsProjectRoot(t *testing.T) {
	dir := t.TempDir()
	out := runCmd(t, "config", "show", "--project-root", dir)
	require.Contains(t, out, dir)
}

func TestConfigPathPrintsUserConfigLocation(t *testing.T) {
	out := runCmd(t, "config", "path")
	require.Contains(t, out, "hermes")
}
