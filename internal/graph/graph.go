package graph

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/hermeskg/hermes/internal/herrors"
	"github.com/hermeskg/hermes/internal/store"
)

// lowerer does Unicode-aware lowercasing for name search, per the
// requirement that non-ASCII bytes are preserved verbatim rather than
// mangled by a byte-wise ASCII fold.
var lowerer = cases.Lower(language.Und)

// Graph is a stateless view over the store's nodes/edges/fts_content
// tables, scoped implicitly by the projectID callers pass to each method.
// It keeps a RoaringBitmap-backed file->node index in memory to make
// deleteNodesForFile cheap; the index is rebuilt from the database at
// construction and never the source of truth.
type Graph struct {
	store *store.Store
	files *fileIndex
}

// New constructs a Graph over an already-open store and rebuilds the
// in-memory file index from existing rows.
func New(ctx context.Context, s *store.Store) (*Graph, error) {
	g := &Graph{store: s, files: newFileIndex()}
	if err := g.rebuildFileIndex(ctx); err != nil {
		return nil, herrors.Wrap(herrors.ErrCodeStoreOpen, err)
	}
	return g, nil
}

func (g *Graph) rebuildFileIndex(ctx context.Context) error {
	rows, err := g.store.DB().QueryContext(ctx,
		`SELECT id, file_path FROM nodes WHERE file_path IS NOT NULL AND file_path != ''`)
	if err != nil {
		return fmt.Errorf("rebuild file index: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id, path string
		if err := rows.Scan(&id, &path); err != nil {
			return fmt.Errorf("rebuild file index scan: %w", err)
		}
		g.files.add(id, path)
	}
	return rows.Err()
}

// AddNode upserts n by (projectID, id), refreshing UpdatedAt to now.
func (g *Graph) AddNode(ctx context.Context, n *Node) error {
	n.UpdatedAt = time.Now().UTC()

	var filePath, summary, contentHash sql.NullString
	if n.FilePath != "" {
		filePath = sql.NullString{String: n.FilePath, Valid: true}
	}
	if n.Summary != "" {
		summary = sql.NullString{String: n.Summary, Valid: true}
	}
	if n.ContentHash != "" {
		contentHash = sql.NullString{String: n.ContentHash, Valid: true}
	}

	_, err := g.store.DB().ExecContext(ctx, `
		INSERT INTO nodes (id, project_id, name, node_type, file_path, start_line, end_line, summary, content_hash, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (project_id, id) DO UPDATE SET
			name = excluded.name,
			node_type = excluded.node_type,
			file_path = excluded.file_path,
			start_line = excluded.start_line,
			end_line = excluded.end_line,
			summary = excluded.summary,
			content_hash = excluded.content_hash,
			updated_at = excluded.updated_at`,
		n.ID, n.ProjectID, n.Name, string(n.NodeType), filePath, n.StartLine, n.EndLine, summary, contentHash, n.UpdatedAt)
	if err != nil {
		return herrors.Wrap(herrors.ErrCodeUpsertNode, err)
	}

	if n.FilePath != "" {
		g.files.add(n.ID, n.FilePath)
	}
	return nil
}

// GetNode returns the node with id in projectID, or nil if absent.
func (g *Graph) GetNode(ctx context.Context, projectID, id string) (*Node, error) {
	row := g.store.DB().QueryRowContext(ctx, `
		SELECT id, project_id, name, node_type, file_path, start_line, end_line, summary, content_hash, updated_at
		FROM nodes WHERE project_id = ? AND id = ?`, projectID, id)

	n, err := scanNode(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, herrors.Wrap(herrors.ErrCodeNodeNotFound, err)
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNode(row rowScanner) (*Node, error) {
	var n Node
	var nodeType string
	var filePath, summary, contentHash sql.NullString
	var startLine, endLine sql.NullInt64

	if err := row.Scan(&n.ID, &n.ProjectID, &n.Name, &nodeType, &filePath,
		&startLine, &endLine, &summary, &contentHash, &n.UpdatedAt); err != nil {
		return nil, err
	}

	n.NodeType = ParseNodeType(nodeType)
	n.FilePath = filePath.String
	n.Summary = summary.String
	n.ContentHash = contentHash.String
	n.StartLine = int(startLine.Int64)
	n.EndLine = int(endLine.Int64)
	return &n, nil
}

// AddEdge inserts e if an edge with the same (projectID, id) doesn't
// already exist. Edges are otherwise immutable; re-adding the same ID is a
// no-op, per the idempotency invariant.
func (g *Graph) AddEdge(ctx context.Context, e *Edge) error {
	_, err := g.store.DB().ExecContext(ctx, `
		INSERT INTO edges (id, project_id, source_id, target_id, edge_type, weight)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (project_id, id) DO NOTHING`,
		e.ID, e.ProjectID, e.SourceID, e.TargetID, string(e.EdgeType), e.Weight)
	if err != nil {
		return herrors.Wrap(herrors.ErrCodeInternal, fmt.Errorf("add edge: %w", err))
	}
	return nil
}

// GetNeighbors returns every edge touching id, each paired with the node
// at its other endpoint via a single join query.
func (g *Graph) GetNeighbors(ctx context.Context, projectID, id string) ([]Neighbor, error) {
	rows, err := g.store.DB().QueryContext(ctx, `
		SELECT e.id, e.project_id, e.source_id, e.target_id, e.edge_type, e.weight,
		       n.id, n.project_id, n.name, n.node_type, n.file_path, n.start_line, n.end_line, n.summary, n.content_hash, n.updated_at
		FROM edges e
		JOIN nodes n ON n.project_id = e.project_id
			AND n.id = CASE WHEN e.source_id = ? THEN e.target_id ELSE e.source_id END
		WHERE e.project_id = ? AND (e.source_id = ? OR e.target_id = ?)`,
		id, projectID, id, id)
	if err != nil {
		return nil, herrors.Wrap(herrors.ErrCodeInternal, fmt.Errorf("get neighbors: %w", err))
	}
	defer rows.Close()

	var out []Neighbor
	for rows.Next() {
		var e Edge
		var edgeType string
		var nodeType string
		var filePath, summary, contentHash sql.NullString
		var startLine, endLine sql.NullInt64
		var n Node

		if err := rows.Scan(
			&e.ID, &e.ProjectID, &e.SourceID, &e.TargetID, &edgeType, &e.Weight,
			&n.ID, &n.ProjectID, &n.Name, &nodeType, &filePath, &startLine, &endLine, &summary, &contentHash, &n.UpdatedAt,
		); err != nil {
			return nil, herrors.Wrap(herrors.ErrCodeInternal, fmt.Errorf("scan neighbor: %w", err))
		}
		e.EdgeType = ParseEdgeType(edgeType)
		n.NodeType = ParseNodeType(nodeType)
		n.FilePath = filePath.String
		n.Summary = summary.String
		n.ContentHash = contentHash.String
		n.StartLine = int(startLine.Int64)
		n.EndLine = int(endLine.Int64)

		out = append(out, Neighbor{Edge: &e, Node: &n})
	}
	return out, rows.Err()
}

// IndexFTS replaces n's full-text row atomically (delete-then-insert,
// since FTS5 virtual tables have no upsert).
func (g *Graph) IndexFTS(ctx context.Context, n *Node, content string) error {
	tx, err := g.store.DB().BeginTx(ctx, nil)
	if err != nil {
		return herrors.Wrap(herrors.ErrCodeInternal, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM fts_content WHERE project_id = ? AND node_id = ?`, n.ProjectID, n.ID); err != nil {
		return herrors.Wrap(herrors.ErrCodeInternal, fmt.Errorf("clear fts row: %w", err))
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO fts_content (node_id, project_id, name, content, file_path) VALUES (?, ?, ?, ?, ?)`,
		n.ID, n.ProjectID, n.Name, content, n.FilePath); err != nil {
		return herrors.Wrap(herrors.ErrCodeInternal, fmt.Errorf("insert fts row: %w", err))
	}
	return tx.Commit()
}

// LiteralSearchByName returns nodes whose lowercased name begins with
// q's lowercase form; if none match, it falls back to nodes whose name
// merely contains q. The two phases never mix: a single prefix hit
// precludes returning any contains-only matches.
func (g *Graph) LiteralSearchByName(ctx context.Context, projectID, q string) ([]*Node, error) {
	needle := lowerer.String(q)

	prefix, err := g.queryByNamePattern(ctx, projectID, needle+"%")
	if err != nil {
		return nil, err
	}
	if len(prefix) > 0 {
		return prefix, nil
	}

	return g.queryByNamePattern(ctx, projectID, "%"+needle+"%")
}

func (g *Graph) queryByNamePattern(ctx context.Context, projectID, pattern string) ([]*Node, error) {
	rows, err := g.store.DB().QueryContext(ctx, `
		SELECT id, project_id, name, node_type, file_path, start_line, end_line, summary, content_hash, updated_at
		FROM nodes WHERE project_id = ? AND LOWER(name) LIKE ?
		ORDER BY name`, projectID, pattern)
	if err != nil {
		return nil, herrors.Wrap(herrors.ErrCodeInternal, fmt.Errorf("literal search: %w", err))
	}
	defer rows.Close()

	var out []*Node
	for rows.Next() {
		n, err := scanNode(rows)
		if err != nil {
			return nil, herrors.Wrap(herrors.ErrCodeInternal, fmt.Errorf("scan literal match: %w", err))
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// FTSMatch is a single full-text hit: the matching node and its BM25 rank
// (smaller is better; callers normalize before mixing with other tiers).
type FTSMatch struct {
	Node *Node
	Rank float64
}

// FtsSearch runs an FTS5 MATCH query scoped to projectID, returning up to
// limit hits ordered by BM25 ascending.
func (g *Graph) FtsSearch(ctx context.Context, projectID, query string, limit int) ([]FTSMatch, error) {
	rows, err := g.store.DB().QueryContext(ctx, `
		SELECT n.id, n.project_id, n.name, n.node_type, n.file_path, n.start_line, n.end_line, n.summary, n.content_hash, n.updated_at,
		       bm25(fts_content) AS rank
		FROM fts_content f
		JOIN nodes n ON n.project_id = f.project_id AND n.id = f.node_id
		WHERE f.project_id = ? AND fts_content MATCH ?
		ORDER BY rank ASC
		LIMIT ?`, projectID, query, limit)
	if err != nil {
		return nil, herrors.Wrap(herrors.ErrCodeTierFailed, fmt.Errorf("fts search: %w", err))
	}
	defer rows.Close()

	var out []FTSMatch
	for rows.Next() {
		var n Node
		var nodeType string
		var filePath, summary, contentHash sql.NullString
		var startLine, endLine sql.NullInt64
		var rank float64

		if err := rows.Scan(&n.ID, &n.ProjectID, &n.Name, &nodeType, &filePath,
			&startLine, &endLine, &summary, &contentHash, &n.UpdatedAt, &rank); err != nil {
			return nil, herrors.Wrap(herrors.ErrCodeInternal, fmt.Errorf("scan fts match: %w", err))
		}
		n.NodeType = ParseNodeType(nodeType)
		n.FilePath = filePath.String
		n.Summary = summary.String
		n.ContentHash = contentHash.String
		n.StartLine = int(startLine.Int64)
		n.EndLine = int(endLine.Int64)

		out = append(out, FTSMatch{Node: &n, Rank: rank})
	}
	return out, rows.Err()
}

// DeleteNodesForFile removes every node that originated from path,
// cascading in order: FTS rows, then edges touching those nodes, then the
// nodes themselves. Candidate IDs come from the in-memory file index
// rather than a table scan.
func (g *Graph) DeleteNodesForFile(ctx context.Context, projectID, path string) error {
	ids := g.files.removeFile(path)
	if len(ids) == 0 {
		return nil
	}

	tx, err := g.store.DB().BeginTx(ctx, nil)
	if err != nil {
		return herrors.Wrap(herrors.ErrCodeInternal, err)
	}
	defer tx.Rollback()

	for _, id := range ids {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM fts_content WHERE project_id = ? AND node_id = ?`, projectID, id); err != nil {
			return herrors.Wrap(herrors.ErrCodeInternal, fmt.Errorf("delete fts row for %s: %w", id, err))
		}
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM edges WHERE project_id = ? AND (source_id = ? OR target_id = ?)`, projectID, id, id); err != nil {
			return herrors.Wrap(herrors.ErrCodeInternal, fmt.Errorf("delete edges for %s: %w", id, err))
		}
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM nodes WHERE project_id = ? AND id = ?`, projectID, id); err != nil {
			return herrors.Wrap(herrors.ErrCodeInternal, fmt.Errorf("delete node %s: %w", id, err))
		}
	}
	return tx.Commit()
}

// AllNodes returns every node in projectID. The vector tier uses this for
// its brute-force cosine scan: the corpus scale this engine targets
// doesn't warrant an approximate-nearest-neighbor index, so similarity is
// computed fresh against every candidate each query.
func (g *Graph) AllNodes(ctx context.Context, projectID string) ([]*Node, error) {
	rows, err := g.store.DB().QueryContext(ctx, `
		SELECT id, project_id, name, node_type, file_path, start_line, end_line, summary, content_hash, updated_at
		FROM nodes WHERE project_id = ?`, projectID)
	if err != nil {
		return nil, herrors.Wrap(herrors.ErrCodeInternal, err)
	}
	defer rows.Close()

	var out []*Node
	for rows.Next() {
		n, err := scanNode(rows)
		if err != nil {
			return nil, herrors.Wrap(herrors.ErrCodeInternal, fmt.Errorf("scan node: %w", err))
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// AllFilePaths returns every distinct file path currently indexed for
// projectID, used by the ingestion sweep to compute which files were
// removed since the last crawl.
func (g *Graph) AllFilePaths(ctx context.Context, projectID string) ([]string, error) {
	rows, err := g.store.DB().QueryContext(ctx,
		`SELECT DISTINCT file_path FROM nodes WHERE project_id = ? AND file_path IS NOT NULL AND file_path != ''`,
		projectID)
	if err != nil {
		return nil, herrors.Wrap(herrors.ErrCodeInternal, err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, herrors.Wrap(herrors.ErrCodeInternal, err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
