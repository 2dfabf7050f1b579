package chunk

import (
	"path/filepath"
	"strings"
)

// Chunk dispatches by extension and never fails: empty input yields no
// chunks, and any language-specific heuristic that finds nothing to
// chunk falls back to a whole-file chunk.
func Chunk(path, text string) []Chunk {
	if text == "" {
		return nil
	}

	var chunks []Chunk
	switch strings.ToLower(filepath.Ext(path)) {
	case ".rs":
		chunks = ChunkRust(text)
	case ".kt", ".kts", ".java":
		chunks = ChunkJVM(text)
	case ".md":
		chunks = ChunkMarkdown(text)
	case ".ts", ".tsx", ".js", ".jsx":
		chunks = ChunkTSJS(text)
	}

	if len(chunks) == 0 {
		return chunkWholeFile(path, text)
	}
	return chunks
}
