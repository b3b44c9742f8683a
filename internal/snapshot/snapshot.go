// Package snapshot persists and compares immutable point-in-time
// serializations of the full graph. Snapshots are append-only: there is no
// update or delete, only save, list and compare.
package snapshot

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"

	"github.com/kestrelworks/archgraph-cli/api/schemas"
	"github.com/kestrelworks/archgraph-cli/internal/graphdiff"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// SymbolCounter reports the current code-symbol count, cached into each
// snapshot at save time.
type SymbolCounter interface {
	SymbolsCount(ctx context.Context) (int, error)
}

// Service implements save/list/compare over a graph store and snapshot store.
type Service struct {
	graph   schemas.GraphStore
	store   schemas.SnapshotStore
	symbols SymbolCounter
}

// New wires a snapshot service. symbols may be nil when no symbol collaborator
// is present; counts are then recorded as zero.
func New(graph schemas.GraphStore, store schemas.SnapshotStore, symbols SymbolCounter) *Service {
	return &Service{graph: graph, store: store, symbols: symbols}
}

// Save serializes the entire current graph into a new snapshot and returns
// its id. An empty label gets a short generated tag so listings stay legible.
func (s *Service) Save(ctx context.Context, label string) (int64, error) {
	sub, err := s.graph.GetGraph(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to read graph for snapshot: %w", err)
	}

	nodesJSON, err := json.Marshal(sub.Nodes)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize nodes: %w", err)
	}
	edgesJSON, err := json.Marshal(sub.Edges)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize edges: %w", err)
	}

	symbolsCount := 0
	if s.symbols != nil {
		if symbolsCount, err = s.symbols.SymbolsCount(ctx); err != nil {
			return 0, fmt.Errorf("failed to count symbols: %w", err)
		}
	}

	if label == "" {
		label = "snap-" + uuid.NewString()[:8]
	}

	id, err := s.store.SaveSnapshot(ctx, label, nodesJSON, edgesJSON, len(sub.Nodes), len(sub.Edges), symbolsCount)
	if err != nil {
		return 0, err
	}
	return id, nil
}

// List returns all snapshots, newest first.
func (s *Service) List(ctx context.Context) ([]schemas.SnapshotInfo, error) {
	return s.store.ListSnapshots(ctx)
}

// Compare deserializes two snapshots and delegates to the structural diff.
// A missing id aborts before any diff computation.
func (s *Service) Compare(ctx context.Context, oldID, newID int64) (schemas.GraphDiff, error) {
	oldGraph, err := s.load(ctx, oldID)
	if err != nil {
		return schemas.GraphDiff{}, err
	}
	newGraph, err := s.load(ctx, newID)
	if err != nil {
		return schemas.GraphDiff{}, err
	}
	return graphdiff.Compute(oldGraph, newGraph), nil
}

func (s *Service) load(ctx context.Context, id int64) (schemas.Subgraph, error) {
	nodesJSON, edgesJSON, err := s.store.GetSnapshotPayload(ctx, id)
	if err != nil {
		return schemas.Subgraph{}, err
	}

	var sub schemas.Subgraph
	if err := json.Unmarshal(nodesJSON, &sub.Nodes); err != nil {
		return schemas.Subgraph{}, fmt.Errorf("failed to deserialize nodes of snapshot %d: %w", id, err)
	}
	if err := json.Unmarshal(edgesJSON, &sub.Edges); err != nil {
		return schemas.Subgraph{}, fmt.Errorf("failed to deserialize edges of snapshot %d: %w", id, err)
	}
	return sub, nil
}
