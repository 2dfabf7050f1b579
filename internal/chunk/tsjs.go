package chunk

import (
	"fmt"
	"strings"

	"github.com/hermeskg/hermes/internal/graph"
)

type tsjsOpener struct {
	prefix        string
	requireCallLike bool // only qualifies if the rest of the line has "=>" or "("
}

// tsjsOpeners is checked in order; every prefix's next literal token
// differs from its neighbors, so first match is also the intended match.
var tsjsOpeners = []tsjsOpener{
	{"export default function ", false},
	{"export default class ", false},
	{"export function ", false},
	{"function ", false},
	{"export const ", true},
	{"const ", true},
}

// matchTSJSLine recognizes a TS/JS declaration line that opens a chunk.
// lineIdx is the 0-based line index, used to name an anonymous chunk.
func matchTSJSLine(trimmed string, lineIdx int) (name string, nodeType graph.NodeType, ok bool) {
	for _, o := range tsjsOpeners {
		if !strings.HasPrefix(trimmed, o.prefix) {
			continue
		}
		rest := trimmed[len(o.prefix):]
		if o.requireCallLike && !strings.Contains(rest, "=>") && !strings.Contains(rest, "(") {
			continue
		}

		name = extractIdentifier(rest)
		if name == "" {
			name = fmt.Sprintf("anonymous_%d", lineIdx)
		}
		return name, graph.NodeTypeFunction, true
	}
	return "", "", false
}

// ChunkTSJS chunks TypeScript/JavaScript source by brace-balanced
// declarations.
func ChunkTSJS(text string) []Chunk {
	lines := strings.Split(text, "\n")
	var chunks []Chunk

	i := 0
	for i < len(lines) {
		trimmed := strings.TrimSpace(lines[i])
		name, nodeType, ok := matchTSJSLine(trimmed, i)
		if !ok {
			i++
			continue
		}

		startIdx := i
		endIdx, found := scanBraceBlock(lines, startIdx)
		if !found {
			endIdx = startIdx + 1
			if endIdx >= len(lines) {
				endIdx = len(lines) - 1
			}
		}

		body := strings.Join(lines[startIdx:endIdx+1], "\n")
		chunks = append(chunks, Chunk{
			Name:      name,
			NodeType:  nodeType,
			StartLine: startIdx + 1,
			EndLine:   endIdx + 1,
			Text:      body,
			Summary:   firstLineSummary(nodeType, name, body),
		})
		i++
	}
	return chunks
}
