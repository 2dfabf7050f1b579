package chunk

import (
	"strings"

	"github.com/hermeskg/hermes/internal/graph"
)

// rustOpeners is checked in order; each entry's next literal token is
// distinct from every other, so first-match is also longest-match.
var rustOpeners = []struct {
	prefix   string
	nodeType graph.NodeType
}{
	{"pub async fn ", graph.NodeTypeFunction},
	{"async fn ", graph.NodeTypeFunction},
	{"pub fn ", graph.NodeTypeFunction},
	{"fn ", graph.NodeTypeFunction},
	{"pub struct ", graph.NodeTypeStruct},
	{"struct ", graph.NodeTypeStruct},
	{"pub enum ", graph.NodeTypeEnum},
	{"enum ", graph.NodeTypeEnum},
	{"pub trait ", graph.NodeTypeTrait},
	{"trait ", graph.NodeTypeTrait},
	{"impl ", graph.NodeTypeImpl},
}

func matchRustOpener(trimmed string) (name string, nodeType graph.NodeType, ok bool) {
	for _, o := range rustOpeners {
		if !strings.HasPrefix(trimmed, o.prefix) {
			continue
		}
		rest := trimmed[len(o.prefix):]
		if o.nodeType == graph.NodeTypeImpl {
			return rustImplName(rest), graph.NodeTypeImpl, true
		}
		return extractIdentifier(rest), o.nodeType, true
	}
	return "", "", false
}

// rustImplName extracts the type name from an impl block: the segment
// after "for " if present, else the segment right after "impl ",
// stripped of generics either way.
func rustImplName(rest string) string {
	if idx := strings.Index(rest, " for "); idx != -1 {
		return extractIdentifier(rest[idx+len(" for "):])
	}
	return extractIdentifier(rest)
}

// ChunkRust chunks Rust source by brace-balanced declarations.
func ChunkRust(text string) []Chunk {
	lines := strings.Split(text, "\n")
	return braceChunks(lines, matchRustOpener)
}
