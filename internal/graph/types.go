// Package graph implements Hermes's knowledge graph: typed nodes and edges
// scoped to a project, full-text index maintenance, and file-scoped
// deletion. It is a stateless view over internal/store.
package graph

import "time"

// NodeType is a closed enumeration of the kinds of things a Node can
// represent. Parsing from an unknown string falls back to Concept per
// the "variants, not inheritance" design note.
type NodeType string

const (
	NodeTypeFile     NodeType = "file"
	NodeTypeModule   NodeType = "module"
	NodeTypeFunction NodeType = "function"
	NodeTypeStruct   NodeType = "struct"
	NodeTypeImpl     NodeType = "impl"
	NodeTypeTrait    NodeType = "trait"
	NodeTypeEnum     NodeType = "enum"
	NodeTypeConcept  NodeType = "concept"
	NodeTypeDocument NodeType = "document"
)

// ParseNodeType lenently coerces an arbitrary string into a NodeType,
// defaulting to Concept for anything unrecognized.
func ParseNodeType(s string) NodeType {
	switch NodeType(s) {
	case NodeTypeFile, NodeTypeModule, NodeTypeFunction, NodeTypeStruct,
		NodeTypeImpl, NodeTypeTrait, NodeTypeEnum, NodeTypeConcept, NodeTypeDocument:
		return NodeType(s)
	default:
		return NodeTypeConcept
	}
}

// EdgeType is a closed enumeration of relationships between nodes.
type EdgeType string

const (
	EdgeTypeCalls     EdgeType = "calls"
	EdgeTypeImports   EdgeType = "imports"
	EdgeTypeImplement EdgeType = "implements"
	EdgeTypeDependsOn EdgeType = "depends_on"
	EdgeTypeContains  EdgeType = "contains"
	EdgeTypeDocuments EdgeType = "documents"
)

// ParseEdgeType lenently coerces an arbitrary string, defaulting to
// DependsOn for anything unrecognized.
func ParseEdgeType(s string) EdgeType {
	switch EdgeType(s) {
	case EdgeTypeCalls, EdgeTypeImports, EdgeTypeImplement, EdgeTypeDependsOn,
		EdgeTypeContains, EdgeTypeDocuments:
		return EdgeType(s)
	default:
		return EdgeTypeDependsOn
	}
}

// Node is a node in the knowledge graph. An empty FilePath means the node is
// a synthetic concept with no fetchable content; per the data-model
// invariant, a line range is present if and only if FilePath is present.
type Node struct {
	ID          string
	ProjectID   string
	Name        string
	NodeType    NodeType
	FilePath    string // empty means synthetic concept
	StartLine   int    // 0 when FilePath is empty
	EndLine     int    // 0 when FilePath is empty
	Summary     string
	ContentHash string
	UpdatedAt   time.Time
}

// HasFile reports whether the node represents fetchable file content.
func (n *Node) HasFile() bool {
	return n.FilePath != ""
}

// Edge is a directed, weighted relationship between two nodes. Edges are
// upserted idempotently by ID and are never implicitly deleted except by
// cascade from a file-scoped node delete.
type Edge struct {
	ID       string
	ProjectID string
	SourceID string
	TargetID string
	EdgeType EdgeType
	Weight   float64
}

// Neighbor pairs an edge with the node at its other endpoint, as returned
// by GetNeighbors (a join, not two round-trips).
type Neighbor struct {
	Edge *Edge
	Node *Node
}
