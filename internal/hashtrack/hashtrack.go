// Package hashtrack implements Hermes's content-hash gate: it maps a file
// path (or a "<path>::<chunkName>" chunk key) to the SHA-256 hash it was
// last ingested with, and decides whether re-ingestion is necessary.
package hashtrack

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"os"
	"time"

	"github.com/hermeskg/hermes/internal/herrors"
	"github.com/hermeskg/hermes/internal/store"
)

// Tracker wraps the store's file_hashes table.
type Tracker struct {
	store     *store.Store
	projectID string
}

// New constructs a Tracker scoped to projectID.
func New(s *store.Store, projectID string) *Tracker {
	return &Tracker{store: s, projectID: projectID}
}

// ContentHash returns the hex-encoded SHA-256 of s.
func ContentHash(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

// ChunkKey builds the composite key used to hash-track an individual
// chunk within a file.
func ChunkKey(path, chunkName string) string {
	return path + "::" + chunkName
}

// IsUnchanged rereads the file at path from disk and compares its content
// hash against the stored one. Any I/O error (missing file, permission
// denied) returns false so the caller re-ingests rather than silently
// skipping.
func (t *Tracker) IsUnchanged(ctx context.Context, path string) bool {
	stored, ok, err := t.get(ctx, path)
	if err != nil || !ok {
		return false
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	return ContentHash(string(data)) == stored
}

// IsChunkUnchanged compares the stored hash for <path>::<chunkName>
// against the given current chunk text's hash.
func (t *Tracker) IsChunkUnchanged(ctx context.Context, path, chunkName, text string) (bool, error) {
	stored, ok, err := t.get(ctx, ChunkKey(path, chunkName))
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}
	return stored == ContentHash(text), nil
}

func (t *Tracker) get(ctx context.Context, key string) (hash string, ok bool, err error) {
	row := t.store.DB().QueryRowContext(ctx,
		`SELECT content_hash FROM file_hashes WHERE project_id = ? AND path_or_key = ?`, t.projectID, key)
	if err := row.Scan(&hash); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, herrors.Wrap(herrors.ErrCodeInternal, err)
	}
	return hash, true, nil
}

// UpdateHash upserts the content hash recorded for path.
func (t *Tracker) UpdateHash(ctx context.Context, path, text string) error {
	return t.upsert(ctx, path, ContentHash(text))
}

// UpdateChunkHash upserts the content hash recorded for a chunk key.
func (t *Tracker) UpdateChunkHash(ctx context.Context, path, chunkName, text string) error {
	return t.upsert(ctx, ChunkKey(path, chunkName), ContentHash(text))
}

func (t *Tracker) upsert(ctx context.Context, key, hash string) error {
	_, err := t.store.DB().ExecContext(ctx, `
		INSERT INTO file_hashes (path_or_key, project_id, content_hash, indexed_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (project_id, path_or_key) DO UPDATE SET
			content_hash = excluded.content_hash,
			indexed_at = excluded.indexed_at`,
		key, t.projectID, hash, time.Now().UTC())
	if err != nil {
		return herrors.Wrap(herrors.ErrCodeInternal, err)
	}
	return nil
}
