package chunk

import (
	"strings"

	"github.com/hermeskg/hermes/internal/graph"
)

// extractIdentifier returns the leading run of identifier characters
// (ASCII letters, digits, underscore) in s, after trimming leading space.
// It stops at the first character that can't extend an identifier —
// '(', '<', ':', whitespace, '{' — which is how generics and parameter
// lists get stripped off for free.
func extractIdentifier(s string) string {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) {
		c := s[end]
		if c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') {
			end++
			continue
		}
		break
	}
	return s[:end]
}

// scanBraceBlock finds the first '{' at or after startIdx and returns the
// line index at which brace balance returns to zero. Every '{' and '}' in
// the scanned text counts, including ones inside string/char literals or
// comments (string/comment-awareness is an explicit non-goal). If no '{'
// is ever found, found is false and the caller applies the bounded
// two-line fallback.
func scanBraceBlock(lines []string, startIdx int) (endIdx int, found bool) {
	balance := 0
	seenOpen := false

	for i := startIdx; i < len(lines); i++ {
		for _, r := range lines[i] {
			switch r {
			case '{':
				balance++
				seenOpen = true
			case '}':
				if seenOpen {
					balance--
				}
			}
		}
		if seenOpen && balance <= 0 {
			return i, true
		}
	}
	if !seenOpen {
		return 0, false
	}
	// Unbalanced to EOF: spec documents this as an open question — don't
	// assert exact endLine for pathological input, just stop at EOF.
	return len(lines) - 1, true
}

// braceMatcher recognizes whether a trimmed line opens a block, returning
// the extracted name and node type if so.
type braceMatcher func(trimmed string) (name string, nodeType graph.NodeType, ok bool)

// braceChunks scans lines for lines that open a block according to match;
// each match becomes one Chunk whose body ends at brace balance zero, or
// (if no '{' ever appears after it) spans exactly two lines.
func braceChunks(lines []string, match braceMatcher) []Chunk {
	var chunks []Chunk

	i := 0
	for i < len(lines) {
		trimmed := strings.TrimSpace(lines[i])
		name, nodeType, ok := match(trimmed)
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

		text := strings.Join(lines[startIdx:endIdx+1], "\n")
		chunks = append(chunks, Chunk{
			Name:      name,
			NodeType:  nodeType,
			StartLine: startIdx + 1,
			EndLine:   endIdx + 1,
			Text:      text,
			Summary:   firstLineSummary(nodeType, name, text),
		})
		// Advance by one line, not past endIdx: nested openers (a method
		// inside a class, say) still get their own chunk.
		i++
	}
	return chunks
}
