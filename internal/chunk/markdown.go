package chunk

import (
	"strings"

	"github.com/hermeskg/hermes/internal/graph"
)

// ChunkMarkdown chunks Markdown by heading: one chunk per top-level or
// second-level heading. A new heading closes the previous
// section at the preceding line; the trailing section runs to EOF. Name
// and summary are both the stripped heading text, overriding the general
// first-line summary rule.
func ChunkMarkdown(text string) []Chunk {
	lines := strings.Split(text, "\n")

	var headingIdx []int
	for i, l := range lines {
		t := strings.TrimSpace(l)
		if strings.HasPrefix(t, "# ") || strings.HasPrefix(t, "## ") {
			headingIdx = append(headingIdx, i)
		}
	}
	if len(headingIdx) == 0 {
		return nil
	}

	chunks := make([]Chunk, 0, len(headingIdx))
	for i, start := range headingIdx {
		end := len(lines) - 1
		if i+1 < len(headingIdx) {
			end = headingIdx[i+1] - 1
		}

		heading := strings.TrimLeft(strings.TrimSpace(lines[start]), "#")
		name := strings.TrimSpace(heading)
		body := strings.Join(lines[start:end+1], "\n")

		chunks = append(chunks, Chunk{
			Name:      name,
			NodeType:  graph.NodeTypeDocument,
			StartLine: start + 1,
			EndLine:   end + 1,
			Text:      body,
			Summary:   name,
		})
	}
	return chunks
}
