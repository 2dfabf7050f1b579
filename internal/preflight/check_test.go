package preflight

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunPassesForWritableProject(t *testing.T) {
	dir := t.TempDir()
	report := Run(context.Background(), dir, filepath.Join(dir, ".hermes", "hermes.db"), "")
	require.True(t, report.OK())
	require.Len(t, report.Results, 2)
}

func TestRunFailsForMissingProjectRoot(t *testing.T) {
	report := Run(context.Background(), "/no/such/project/root", "/tmp/hermes.db", "")
	require.False(t, report.OK())
}

func TestRunDegradesEmbeddingProbeToWarning(t *testing.T) {
	dir := t.TempDir()
	report := Run(context.Background(), dir, filepath.Join(dir, ".hermes", "hermes.db"), "http://127.0.0.1:1/no-such-endpoint")
	require.True(t, report.OK(), "a failed optional embedding probe must not fail the overall report")

	var embedResult Result
	for _, r := range report.Results {
		if r.Name == "embed_endpoint" {
			embedResult = r
		}
	}
	require.Equal(t, StatusWarn, embedResult.Status)
}

func TestRunPassesEmbeddingProbeWhenReachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	dir := t.TempDir()
	report := Run(context.Background(), dir, filepath.Join(dir, ".hermes", "hermes.db"), srv.URL)
	require.True(t, report.OK())
}
