// Package temporal is Hermes's append-only fact store: durable assertions
// about the project carrying a validity interval and an optional
// supersession chain. Facts are never deleted, only invalidated.
package temporal

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hermeskg/hermes/internal/herrors"
	"github.com/hermeskg/hermes/internal/store"
)

// FactType is a closed enumeration of what a Fact asserts. Parsing from an
// unknown string falls back to Decision, matching the graph package's
// "variants, not inheritance" lenient-parse convention.
type FactType string

const (
	FactArchitecture FactType = "architecture"
	FactAPIContract  FactType = "api_contract"
	FactDecision     FactType = "decision"
	FactErrorPattern FactType = "error_pattern"
	FactConstraint   FactType = "constraint"
	FactLearning     FactType = "learning"
)

// ParseFactType lenently coerces an arbitrary string into a FactType,
// defaulting to Decision for anything unrecognized.
func ParseFactType(s string) FactType {
	switch FactType(s) {
	case FactArchitecture, FactAPIContract, FactDecision, FactErrorPattern, FactConstraint, FactLearning:
		return FactType(s)
	default:
		return FactDecision
	}
}

// Fact is one row of the temporal store. ValidTo is nil while the fact is
// active; SupersededBy is only ever set alongside ValidTo.
type Fact struct {
	ID              string
	ProjectID       string
	NodeID          string
	FactType        FactType
	Content         string
	ValidFrom       time.Time
	ValidTo         *time.Time
	SupersededBy    string
	SourceReference string
}

// Active reports whether the fact currently holds.
func (f *Fact) Active() bool {
	return f.ValidTo == nil
}

// Store is the append-only fact journal, scoped to one project.
type Store struct {
	store     *store.Store
	projectID string
}

// New constructs a Store scoped to projectID.
func New(s *store.Store, projectID string) *Store {
	return &Store{store: s, projectID: projectID}
}

// AddFact records a new fact, coercing an unrecognized factType to
// Decision, and returns its generated ID.
func (s *Store) AddFact(ctx context.Context, factType, content, nodeID, sourceReference string) (string, error) {
	if content == "" {
		return "", herrors.New(herrors.ErrCodeInvalidInput, "fact content must not be empty", nil)
	}

	id := uuid.New().String()
	ft := ParseFactType(factType)
	now := time.Now().UTC()

	var nodeIDArg, sourceRefArg sql.NullString
	if nodeID != "" {
		nodeIDArg = sql.NullString{String: nodeID, Valid: true}
	}
	if sourceReference != "" {
		sourceRefArg = sql.NullString{String: sourceReference, Valid: true}
	}

	_, err := s.store.DB().ExecContext(ctx, `
		INSERT INTO temporal_facts (id, project_id, node_id, fact_type, content, valid_from, valid_to, superseded_by, source_reference)
		VALUES (?, ?, ?, ?, ?, ?, NULL, NULL, ?)`,
		id, s.projectID, nodeIDArg, string(ft), content, now, sourceRefArg)
	if err != nil {
		return "", herrors.Wrap(herrors.ErrCodeInternal, fmt.Errorf("add fact: %w", err))
	}
	return id, nil
}

// InvalidateFact sets validTo to now for id, and records supersededBy if
// given. Invalidating an already-invalidated or nonexistent fact is a
// no-op rather than an error, keeping the operation idempotent.
func (s *Store) InvalidateFact(ctx context.Context, id, supersededBy string) error {
	now := time.Now().UTC()

	var supersededByArg sql.NullString
	if supersededBy != "" {
		supersededByArg = sql.NullString{String: supersededBy, Valid: true}
	}

	_, err := s.store.DB().ExecContext(ctx, `
		UPDATE temporal_facts SET valid_to = ?, superseded_by = ?
		WHERE project_id = ? AND id = ? AND valid_to IS NULL`,
		now, supersededByArg, s.projectID, id)
	if err != nil {
		return herrors.Wrap(herrors.ErrCodeInternal, fmt.Errorf("invalidate fact: %w", err))
	}
	return nil
}

// GetActiveFacts returns every fact with a null validTo, newest first. An
// empty factType returns facts of every type.
func (s *Store) GetActiveFacts(ctx context.Context, factType string) ([]*Fact, error) {
	query := `SELECT id, project_id, node_id, fact_type, content, valid_from, valid_to, superseded_by, source_reference
		FROM temporal_facts WHERE project_id = ? AND valid_to IS NULL`
	args := []any{s.projectID}

	if factType != "" {
		query += " AND fact_type = ?"
		args = append(args, string(ParseFactType(factType)))
	}
	query += " ORDER BY valid_from DESC"

	return s.queryFacts(ctx, query, args...)
}

// GetFactHistory returns every fact (active or invalidated) recorded
// against nodeID, newest first.
func (s *Store) GetFactHistory(ctx context.Context, nodeID string) ([]*Fact, error) {
	query := `SELECT id, project_id, node_id, fact_type, content, valid_from, valid_to, superseded_by, source_reference
		FROM temporal_facts WHERE project_id = ? AND node_id = ?
		ORDER BY valid_from DESC`
	return s.queryFacts(ctx, query, s.projectID, nodeID)
}

func (s *Store) queryFacts(ctx context.Context, query string, args ...any) ([]*Fact, error) {
	rows, err := s.store.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, herrors.Wrap(herrors.ErrCodeInternal, fmt.Errorf("query facts: %w", err))
	}
	defer rows.Close()

	var out []*Fact
	for rows.Next() {
		var f Fact
		var factType string
		var nodeID, supersededBy, sourceReference sql.NullString
		var validTo sql.NullTime

		if err := rows.Scan(&f.ID, &f.ProjectID, &nodeID, &factType, &f.Content,
			&f.ValidFrom, &validTo, &supersededBy, &sourceReference); err != nil {
			return nil, herrors.Wrap(herrors.ErrCodeInternal, fmt.Errorf("scan fact: %w", err))
		}

		f.FactType = FactType(factType)
		f.NodeID = nodeID.String
		f.SupersededBy = supersededBy.String
		f.SourceReference = sourceReference.String
		if validTo.Valid {
			t := validTo.Time
			f.ValidTo = &t
		}
		out = append(out, &f)
	}
	return out, rows.Err()
}
