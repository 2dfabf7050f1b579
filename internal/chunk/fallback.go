package chunk

import (
	"path/filepath"
	"strings"

	"github.com/hermeskg/hermes/internal/graph"
)

// supportedExtensions is the fixed set of extensions Hermes indexes; the
// crawler consults the same set so nothing reaches the chunker that
// isn't listed here.
var supportedExtensions = map[string]bool{
	".rs": true, ".tsx": true, ".ts": true, ".jsx": true, ".js": true,
	".md": true, ".toml": true, ".json": true, ".css": true,
	".kt": true, ".kts": true, ".java": true, ".py": true, ".go": true,
	".yaml": true, ".yml": true,
}

// IsSupportedExtension reports whether ext (as returned by filepath.Ext,
// including the leading dot) is in the supported set.
func IsSupportedExtension(ext string) bool {
	return supportedExtensions[strings.ToLower(ext)]
}

// chunkWholeFile produces the fallback whole-file chunk used for every
// supported extension without a dedicated language heuristic, and as the
// rescue path when a language-specific chunker finds nothing to chunk.
func chunkWholeFile(path, text string) []Chunk {
	lines := strings.Split(text, "\n")
	name := filepath.Base(path)
	return []Chunk{{
		Name:      name,
		NodeType:  graph.NodeTypeFile,
		StartLine: 1,
		EndLine:   len(lines),
		Text:      text,
		Summary:   firstLineSummary(graph.NodeTypeFile, name, text),
	}}
}
