package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/kestrelworks/archgraph-cli/api/schemas"
)

// SaveSnapshot appends a new immutable snapshot record and returns its id.
// The payloads and counts are computed by the caller at save time; the store
// never re-derives them.
func (s *Store) SaveSnapshot(ctx context.Context, label string, nodesJSON, edgesJSON []byte, nodeCount, edgeCount, symbolsCount int) (int64, error) {
	var id int64
	err := s.pool.QueryRow(ctx, `
		INSERT INTO graph_snapshots (label, nodes_json, edges_json, node_count, edge_count, symbols_count)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id;
	`, label, nodesJSON, edgesJSON, nodeCount, edgeCount, symbolsCount).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to save snapshot: %w", err)
	}
	return id, nil
}

// ListSnapshots returns every snapshot, newest first, using the counts cached
// at save time so no payload is deserialized.
func (s *Store) ListSnapshots(ctx context.Context) ([]schemas.SnapshotInfo, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, label, created_at, node_count, edge_count, symbols_count
		FROM graph_snapshots ORDER BY id DESC;
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer rows.Close()

	var infos []schemas.SnapshotInfo
	for rows.Next() {
		var info schemas.SnapshotInfo
		if err := rows.Scan(&info.ID, &info.Label, &info.CreatedAt, &info.NodeCount, &info.EdgeCount, &info.SymbolsCount); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot row: %w", err)
		}
		infos = append(infos, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during snapshot iteration: %w", err)
	}
	return infos, nil
}

// GetSnapshotPayload returns the serialized node and edge sets of one
// snapshot. A missing id is ErrSnapshotNotFound.
func (s *Store) GetSnapshotPayload(ctx context.Context, id int64) ([]byte, []byte, error) {
	var nodesJSON, edgesJSON []byte
	err := s.pool.QueryRow(ctx, `
		SELECT nodes_json, edges_json FROM graph_snapshots WHERE id = $1;
	`, id).Scan(&nodesJSON, &edgesJSON)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, fmt.Errorf("%w: id %d", ErrSnapshotNotFound, id)
		}
		return nil, nil, fmt.Errorf("failed to read snapshot %d: %w", id, err)
	}
	return nodesJSON, edgesJSON, nil
}

// SymbolsCount reports how many code symbols the annotation collaborator has
// recorded. Cached into each snapshot at save time.
func (s *Store) SymbolsCount(ctx context.Context) (int, error) {
	var count int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM code_symbols;`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count code symbols: %w", err)
	}
	return count, nil
}
