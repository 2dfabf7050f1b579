package chunk

import (
	"strings"

	"github.com/hermeskg/hermes/internal/graph"
)

// matchJVMOpener recognizes a Kotlin/Java declaration line: a function
// (`fun ` with a following `(`), an interface, an `enum class`, a
// Kotlin `object`, or a class-declaring prefix that has its opening
// brace on the same line.
func matchJVMOpener(trimmed string) (name string, nodeType graph.NodeType, ok bool) {
	switch {
	case strings.Contains(trimmed, "fun ") && strings.Contains(trimmed, "("):
		idx := strings.Index(trimmed, "fun ")
		return extractIdentifier(trimmed[idx+len("fun "):]), graph.NodeTypeFunction, true

	case strings.Contains(trimmed, "enum class "):
		idx := strings.Index(trimmed, "enum class ")
		return extractIdentifier(trimmed[idx+len("enum class "):]), graph.NodeTypeEnum, true

	case strings.Contains(trimmed, "interface "):
		idx := strings.Index(trimmed, "interface ")
		return extractIdentifier(trimmed[idx+len("interface "):]), graph.NodeTypeTrait, true

	case strings.Contains(trimmed, "class ") && strings.Contains(trimmed, "{"):
		idx := strings.Index(trimmed, "class ")
		return extractIdentifier(trimmed[idx+len("class "):]), graph.NodeTypeStruct, true

	case strings.Contains(trimmed, "object "):
		idx := strings.Index(trimmed, "object ")
		return extractIdentifier(trimmed[idx+len("object "):]), graph.NodeTypeStruct, true
	}
	return "", "", false
}

// ChunkJVM chunks Kotlin/Java source by brace-balanced declarations.
func ChunkJVM(text string) []Chunk {
	lines := strings.Split(text, "\n")
	return braceChunks(lines, matchJVMOpener)
}
