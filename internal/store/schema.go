package store

import (
	"context"
	"fmt"
)

// schemaDDL is the store-owned part of the schema. The doc_chunks,
// doc_sync_status and code_symbols tables belong to collaborators; they are
// created here only so a fresh database is usable end to end, and the store
// never writes to them.
const schemaDDL = `
CREATE TABLE IF NOT EXISTS nodes (
	ref_id  TEXT PRIMARY KEY,
	kind    TEXT NOT NULL DEFAULT '',
	summary TEXT NOT NULL DEFAULT '',
	source  TEXT NOT NULL DEFAULT '',
	extra   JSONB NOT NULL DEFAULT '{}'
);

CREATE TABLE IF NOT EXISTS edges (
	src_ref_id TEXT NOT NULL REFERENCES nodes(ref_id) ON DELETE CASCADE,
	dst_ref_id TEXT NOT NULL REFERENCES nodes(ref_id) ON DELETE CASCADE,
	kind       TEXT NOT NULL,
	extra      JSONB NOT NULL DEFAULT '{}',
	PRIMARY KEY (src_ref_id, dst_ref_id, kind)
);

CREATE TABLE IF NOT EXISTS graph_snapshots (
	id            BIGSERIAL PRIMARY KEY,
	label         TEXT NOT NULL DEFAULT '',
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
	nodes_json    JSONB NOT NULL,
	edges_json    JSONB NOT NULL,
	node_count    INTEGER NOT NULL,
	edge_count    INTEGER NOT NULL,
	symbols_count INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS doc_chunks (
	ref_id  TEXT NOT NULL,
	path    TEXT NOT NULL,
	heading TEXT NOT NULL DEFAULT '',
	content TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_doc_chunks_ref_id ON doc_chunks(ref_id);

CREATE TABLE IF NOT EXISTS doc_sync_status (
	ref_id     TEXT PRIMARY KEY,
	stale      BOOLEAN NOT NULL DEFAULT FALSE,
	checked_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS code_symbols (
	ref_id TEXT NOT NULL,
	name   TEXT NOT NULL,
	path   TEXT NOT NULL,
	line   INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_code_symbols_ref_id ON code_symbols(ref_id);
`

// EnsureSchema creates any missing tables. Safe to run on every start.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schemaDDL); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}
