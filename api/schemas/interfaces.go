package schemas

import "context"

// -- Store Interface --

// GraphStore defines the contract for the persistent graph substrate. This
// abstraction keeps the engines independent of the specific database
// implementation and lets tests substitute a mock.
type GraphStore interface {
	// ReplaceGraph atomically drops the current node and edge tables and
	// installs the given sets in a single transaction (full reindex).
	ReplaceGraph(ctx context.Context, nodes []Node, edges []Edge) error
	// UpsertGraph inserts or updates the given nodes and edges without
	// touching anything else (incremental reindex).
	UpsertGraph(ctx context.Context, nodes []Node, edges []Edge) error
	// GetGraph reads the full current node and edge sets.
	GetGraph(ctx context.Context) (Subgraph, error)
	// GetNode retrieves a single node by ref_id.
	GetNode(ctx context.Context, refID string) (Node, error)
}

// SnapshotStore persists and retrieves immutable point-in-time serializations
// of the full graph. Snapshots are append-only; there is no update or delete.
type SnapshotStore interface {
	// SaveSnapshot writes a new snapshot of the given payload and returns its id.
	SaveSnapshot(ctx context.Context, label string, nodesJSON, edgesJSON []byte, nodeCount, edgeCount, symbolsCount int) (int64, error)
	// ListSnapshots returns all snapshots, newest first, without payloads.
	ListSnapshots(ctx context.Context) ([]SnapshotInfo, error)
	// GetSnapshotPayload returns the serialized node and edge sets of one snapshot.
	GetSnapshotPayload(ctx context.Context, id int64) (nodesJSON, edgesJSON []byte, err error)
}

// -- Collaborator Interfaces --

// DocProvider exposes the collaborator-owned documentation chunks, looked up
// by node ref_id. Implementations are treated as black boxes.
type DocProvider interface {
	DocChunksFor(ctx context.Context, refID string) ([]DocChunk, error)
}

// SyncProvider exposes the collaborator-owned doc-sync status for a node.
// A ref_id with no recorded status yields a zero SyncStatus and no error.
type SyncProvider interface {
	SyncStatusFor(ctx context.Context, refID string) (SyncStatus, error)
}
