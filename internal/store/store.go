// Package store is the PostgreSQL substrate for the architecture graph. All
// writes happen inside a transaction; a full reindex is one atomic
// drop-and-reload. The store also answers the read-only query contracts over
// the collaborator-owned doc-chunk and code-symbol tables.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/kestrelworks/archgraph-cli/api/schemas"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var (
	// ErrNodeNotFound is returned when a ref_id lookup matches nothing.
	ErrNodeNotFound = errors.New("node not found")
	// ErrSnapshotNotFound is returned when a snapshot id does not exist.
	ErrSnapshotNotFound = errors.New("snapshot not found")
)

// DBPool abstracts the pgxpool.Pool so tests can substitute pgxmock.
type DBPool interface {
	Ping(ctx context.Context) error
	Begin(ctx context.Context) (pgx.Tx, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
}

// Store provides the PostgreSQL implementation of the graph, snapshot and
// collaborator read interfaces.
type Store struct {
	pool DBPool
	log  *zap.Logger
}

var (
	_ schemas.GraphStore    = (*Store)(nil)
	_ schemas.SnapshotStore = (*Store)(nil)
	_ schemas.DocProvider   = (*Store)(nil)
	_ schemas.SyncProvider  = (*Store)(nil)
)

// New creates a store instance and verifies the connection.
func New(ctx context.Context, pool DBPool, logger *zap.Logger) (*Store, error) {
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return &Store{
		pool: pool,
		log:  logger.Named("store"),
	}, nil
}

const (
	sqlInsertNodes = `
		INSERT INTO nodes (ref_id, kind, summary, source, extra)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (ref_id) DO UPDATE SET
			kind = EXCLUDED.kind,
			summary = EXCLUDED.summary,
			source = EXCLUDED.source,
			extra = EXCLUDED.extra;
	`
	sqlInsertEdges = `
		INSERT INTO edges (src_ref_id, dst_ref_id, kind, extra)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (src_ref_id, dst_ref_id, kind) DO UPDATE SET
			extra = EXCLUDED.extra;
	`
)

// ReplaceGraph atomically swaps the entire graph for the given sets. Edges are
// deleted first to satisfy the foreign keys, nodes are bulk-copied, then edges
// are batch-inserted with conflict handling so duplicate triples collapse.
func (s *Store) ReplaceGraph(ctx context.Context, nodes []schemas.Node, edges []schemas.Edge) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if rollbackErr := tx.Rollback(ctx); rollbackErr != nil && !errors.Is(rollbackErr, pgx.ErrTxClosed) {
			s.log.Error("Failed to rollback transaction", zap.Error(rollbackErr))
		}
	}()

	if _, err := tx.Exec(ctx, `DELETE FROM edges;`); err != nil {
		return fmt.Errorf("failed to clear edges: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM nodes;`); err != nil {
		return fmt.Errorf("failed to clear nodes: %w", err)
	}

	if len(nodes) > 0 {
		rows := make([][]any, len(nodes))
		for i, n := range nodes {
			extra, err := marshalExtra(n.Extra)
			if err != nil {
				return fmt.Errorf("failed to marshal extra for node %s: %w", n.RefID, err)
			}
			rows[i] = []any{n.RefID, string(n.Kind), n.Summary, n.Source, extra}
		}
		copied, err := tx.CopyFrom(ctx,
			pgx.Identifier{"nodes"},
			[]string{"ref_id", "kind", "summary", "source", "extra"},
			pgx.CopyFromRows(rows))
		if err != nil {
			return fmt.Errorf("failed to copy nodes: %w", err)
		}
		if int(copied) != len(nodes) {
			return fmt.Errorf("mismatch in copied node count: expected %d, got %d", len(nodes), copied)
		}
	}

	if err := queueEdges(ctx, tx, edges); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	s.log.Debug("Graph replaced", zap.Int("nodes", len(nodes)), zap.Int("edges", len(edges)))
	return nil
}

// UpsertGraph inserts or updates the given nodes and edges without touching
// the rest of the graph (the incremental reindex path).
func (s *Store) UpsertGraph(ctx context.Context, nodes []schemas.Node, edges []schemas.Edge) error {
	if len(nodes) == 0 && len(edges) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if rollbackErr := tx.Rollback(ctx); rollbackErr != nil && !errors.Is(rollbackErr, pgx.ErrTxClosed) {
			s.log.Error("Failed to rollback transaction", zap.Error(rollbackErr))
		}
	}()

	batch := &pgx.Batch{}
	for _, n := range nodes {
		extra, err := marshalExtra(n.Extra)
		if err != nil {
			return fmt.Errorf("failed to marshal extra for node %s: %w", n.RefID, err)
		}
		batch.Queue(sqlInsertNodes, n.RefID, string(n.Kind), n.Summary, n.Source, extra)
	}
	for _, e := range edges {
		extra, err := marshalExtra(e.Extra)
		if err != nil {
			return fmt.Errorf("failed to marshal extra for edge %s->%s: %w", e.Src, e.Dst, err)
		}
		batch.Queue(sqlInsertEdges, e.Src, e.Dst, string(e.Kind), extra)
	}

	if err := sendBatch(ctx, tx, batch); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// queueEdges batch-inserts edges within an existing transaction.
func queueEdges(ctx context.Context, tx pgx.Tx, edges []schemas.Edge) error {
	if len(edges) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, e := range edges {
		extra, err := marshalExtra(e.Extra)
		if err != nil {
			return fmt.Errorf("failed to marshal extra for edge %s->%s: %w", e.Src, e.Dst, err)
		}
		batch.Queue(sqlInsertEdges, e.Src, e.Dst, string(e.Kind), extra)
	}
	return sendBatch(ctx, tx, batch)
}

func sendBatch(ctx context.Context, tx pgx.Tx, batch *pgx.Batch) error {
	br := tx.SendBatch(ctx, batch)
	if br == nil {
		return fmt.Errorf("failed to send batch: batch results is nil")
	}
	defer func() {
		_ = br.Close()
	}()
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("failed to execute batch statement %d: %w", i, err)
		}
	}
	return nil
}

// GetGraph reads the full node and edge sets, ordered by their natural keys.
func (s *Store) GetGraph(ctx context.Context) (schemas.Subgraph, error) {
	var sub schemas.Subgraph

	rows, err := s.pool.Query(ctx, `
		SELECT ref_id, kind, summary, source, extra
		FROM nodes ORDER BY ref_id ASC;
	`)
	if err != nil {
		return schemas.Subgraph{}, fmt.Errorf("failed to query nodes: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		n, err := scanNode(rows)
		if err != nil {
			return schemas.Subgraph{}, err
		}
		sub.Nodes = append(sub.Nodes, n)
	}
	if err := rows.Err(); err != nil {
		return schemas.Subgraph{}, fmt.Errorf("error during node iteration: %w", err)
	}
	rows.Close()

	edgeRows, err := s.pool.Query(ctx, `
		SELECT src_ref_id, dst_ref_id, kind, extra
		FROM edges ORDER BY src_ref_id, dst_ref_id, kind ASC;
	`)
	if err != nil {
		return schemas.Subgraph{}, fmt.Errorf("failed to query edges: %w", err)
	}
	defer edgeRows.Close()
	for edgeRows.Next() {
		var e schemas.Edge
		var kind string
		var extra []byte
		if err := edgeRows.Scan(&e.Src, &e.Dst, &kind, &extra); err != nil {
			return schemas.Subgraph{}, fmt.Errorf("failed to scan edge row: %w", err)
		}
		e.Kind = schemas.EdgeKind(kind)
		if e.Extra, err = unmarshalExtra(extra); err != nil {
			return schemas.Subgraph{}, fmt.Errorf("failed to unmarshal edge extra: %w", err)
		}
		sub.Edges = append(sub.Edges, e)
	}
	if err := edgeRows.Err(); err != nil {
		return schemas.Subgraph{}, fmt.Errorf("error during edge iteration: %w", err)
	}

	return sub, nil
}

// GetNode retrieves a single node by ref_id.
func (s *Store) GetNode(ctx context.Context, refID string) (schemas.Node, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT ref_id, kind, summary, source, extra
		FROM nodes WHERE ref_id = $1;
	`, refID)

	n, err := scanNode(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return schemas.Node{}, fmt.Errorf("%w: %q", ErrNodeNotFound, refID)
		}
		return schemas.Node{}, err
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNode(row rowScanner) (schemas.Node, error) {
	var n schemas.Node
	var kind string
	var extra []byte
	if err := row.Scan(&n.RefID, &kind, &n.Summary, &n.Source, &extra); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return schemas.Node{}, err
		}
		return schemas.Node{}, fmt.Errorf("failed to scan node row: %w", err)
	}
	n.Kind = schemas.NodeKind(kind)
	var err error
	if n.Extra, err = unmarshalExtra(extra); err != nil {
		return schemas.Node{}, fmt.Errorf("failed to unmarshal node extra: %w", err)
	}
	return n, nil
}

// marshalExtra renders the open field bag as JSONB input, normalizing empty
// bags to an empty object so the column is never NULL.
func marshalExtra(extra schemas.Extra) ([]byte, error) {
	if len(extra) == 0 {
		return []byte("{}"), nil
	}
	return json.Marshal(extra)
}

func unmarshalExtra(data []byte) (schemas.Extra, error) {
	if len(data) == 0 || string(data) == "{}" || string(data) == "null" {
		return nil, nil
	}
	var extra schemas.Extra
	if err := json.Unmarshal(data, &extra); err != nil {
		return nil, err
	}
	return extra, nil
}
