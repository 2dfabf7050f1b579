// Package chunk implements Hermes's chunker: a pure, deterministic function
// from (path, text) to a sequence of nameable sub-units, dispatched by file
// extension. It never fails; unsupported content falls back to a
// whole-file chunk.
package chunk

import (
	"strings"

	"github.com/hermeskg/hermes/internal/graph"
)

// Chunk is one nameable unit extracted from a file: a function, type,
// section, or (fallback) the whole file.
type Chunk struct {
	Name      string
	NodeType  graph.NodeType
	StartLine int // 1-based, inclusive
	EndLine   int // 1-based, inclusive
	Text      string
	Summary   string
}

// firstLineSummary returns text's first line truncated to 80 characters;
// if the first line is longer than that, it falls back to "<nodeType>: <name>".
// This is the general summary rule; Markdown overrides it with the
// stripped heading text instead.
func firstLineSummary(nodeType graph.NodeType, name, text string) string {
	first := text
	if i := strings.IndexByte(text, '\n'); i != -1 {
		first = text[:i]
	}
	if len(first) <= 80 {
		return first
	}
	return string(nodeType) + ": " + name
}
