package store

import "fmt"

// schemaVersion is bumped whenever migrations are added.
const schemaVersion = 1

// migrations are applied in order, each wrapped in its own statement so a
// failure reports the offending statement.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL)`,

	`CREATE TABLE IF NOT EXISTS nodes (
		id            TEXT NOT NULL,
		project_id    TEXT NOT NULL,
		name          TEXT NOT NULL,
		node_type     TEXT NOT NULL,
		file_path     TEXT,
		start_line    INTEGER,
		end_line      INTEGER,
		summary       TEXT,
		content_hash  TEXT,
		updated_at    TIMESTAMP NOT NULL,
		PRIMARY KEY (project_id, id)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_nodes_file_path ON nodes(project_id, file_path)`,
	`CREATE INDEX IF NOT EXISTS idx_nodes_name ON nodes(project_id, name)`,

	`CREATE TABLE IF NOT EXISTS edges (
		id          TEXT NOT NULL,
		project_id  TEXT NOT NULL,
		source_id   TEXT NOT NULL,
		target_id   TEXT NOT NULL,
		edge_type   TEXT NOT NULL,
		weight      REAL NOT NULL DEFAULT 1.0,
		PRIMARY KEY (project_id, id)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_edges_source ON edges(project_id, source_id)`,
	`CREATE INDEX IF NOT EXISTS idx_edges_target ON edges(project_id, target_id)`,

	`CREATE VIRTUAL TABLE IF NOT EXISTS fts_content USING fts5(
		node_id UNINDEXED,
		project_id UNINDEXED,
		name,
		content,
		file_path UNINDEXED
	)`,

	`CREATE TABLE IF NOT EXISTS file_hashes (
		path_or_key  TEXT NOT NULL,
		project_id   TEXT NOT NULL,
		content_hash TEXT NOT NULL,
		indexed_at   TIMESTAMP NOT NULL,
		PRIMARY KEY (project_id, path_or_key)
	)`,

	`CREATE TABLE IF NOT EXISTS accounting (
		id              INTEGER PRIMARY KEY AUTOINCREMENT,
		project_id      TEXT NOT NULL,
		session_id      TEXT NOT NULL,
		query_text      TEXT NOT NULL,
		pointer_tokens  INTEGER NOT NULL,
		fetched_tokens  INTEGER NOT NULL,
		traditional_est INTEGER NOT NULL,
		created_at      TIMESTAMP NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_accounting_project ON accounting(project_id, created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_accounting_session ON accounting(project_id, session_id)`,

	`CREATE TABLE IF NOT EXISTS temporal_facts (
		id               TEXT NOT NULL,
		project_id       TEXT NOT NULL,
		node_id          TEXT,
		fact_type        TEXT NOT NULL,
		content          TEXT NOT NULL,
		valid_from       TIMESTAMP NOT NULL,
		valid_to         TIMESTAMP,
		superseded_by    TEXT,
		source_reference TEXT,
		PRIMARY KEY (project_id, id)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_facts_node ON temporal_facts(project_id, node_id)`,
	`CREATE INDEX IF NOT EXISTS idx_facts_active ON temporal_facts(project_id, valid_to)`,
}

// migrate runs every migration statement idempotently and records the
// schema version. Each statement is its own Exec so a failure can report
// which one broke.
func (s *Store) migrate() error {
	for _, stmt := range migrations {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("migration failed (%s): %w", stmt, err)
		}
	}

	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM schema_version").Scan(&count); err != nil {
		return fmt.Errorf("check schema_version: %w", err)
	}
	if count == 0 {
		if _, err := s.db.Exec("INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
			return fmt.Errorf("record schema_version: %w", err)
		}
	}
	return nil
}
