package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/kestrelworks/archgraph-cli/api/schemas"
)

// DocChunksFor reads the documentation chunks attached to a node. The
// doc_chunks table is collaborator-owned; this is the stable read-only query
// contract over it.
func (s *Store) DocChunksFor(ctx context.Context, refID string) ([]schemas.DocChunk, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT ref_id, path, heading, content
		FROM doc_chunks WHERE ref_id = $1 ORDER BY path, heading;
	`, refID)
	if err != nil {
		return nil, fmt.Errorf("failed to query doc chunks: %w", err)
	}
	defer rows.Close()

	var chunks []schemas.DocChunk
	for rows.Next() {
		var c schemas.DocChunk
		if err := rows.Scan(&c.RefID, &c.Path, &c.Heading, &c.Content); err != nil {
			return nil, fmt.Errorf("failed to scan doc chunk row: %w", err)
		}
		chunks = append(chunks, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during doc chunk iteration: %w", err)
	}
	return chunks, nil
}

// SyncStatusFor reads the doc-sync status for a node. Nodes the sync
// collaborator has never checked report a zero status, not an error.
func (s *Store) SyncStatusFor(ctx context.Context, refID string) (schemas.SyncStatus, error) {
	var status schemas.SyncStatus
	err := s.pool.QueryRow(ctx, `
		SELECT ref_id, stale, checked_at
		FROM doc_sync_status WHERE ref_id = $1;
	`, refID).Scan(&status.RefID, &status.Stale, &status.CheckedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return schemas.SyncStatus{RefID: refID}, nil
		}
		return schemas.SyncStatus{}, fmt.Errorf("failed to read sync status: %w", err)
	}
	return status, nil
}
