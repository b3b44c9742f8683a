// Package indexer orchestrates a reindex: discover definition files, run the
// loader pipeline, and install the result in the store. Reindex is an
// exclusive maintenance operation; callers that trigger it from watchers must
// serialize invocations themselves.
package indexer

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/kestrelworks/archgraph-cli/api/schemas"
	"github.com/kestrelworks/archgraph-cli/internal/loader"
)

// ErrStrictDiagnostics is returned in strict mode when the load produced any
// diagnostics. Nothing is committed in that case.
var ErrStrictDiagnostics = errors.New("load produced diagnostics in strict mode")

// Indexer wires the loader pipeline to a graph store.
type Indexer struct {
	store schemas.GraphStore
	log   *zap.Logger
}

// Options tune a single reindex run.
type Options struct {
	// Strict aborts before any write when the load reports errors or warnings.
	Strict bool
	// Incremental upserts the loaded records instead of dropping the graph.
	Incremental bool
}

// New creates an indexer over the given store.
func New(store schemas.GraphStore, logger *zap.Logger) *Indexer {
	return &Indexer{store: store, log: logger.Named("indexer")}
}

// Reindex discovers definition files under root, loads them, and installs the
// result. The returned report is valid even when the error is
// ErrStrictDiagnostics, so callers can render what went wrong.
func (ix *Indexer) Reindex(ctx context.Context, root string, patterns []string, opts Options) (schemas.LoadReport, error) {
	paths, err := loader.Discover(root, patterns)
	if err != nil {
		return schemas.LoadReport{}, err
	}
	docs, err := loader.ParseFiles(paths)
	if err != nil {
		return schemas.LoadReport{}, err
	}
	return ix.Load(ctx, docs, opts)
}

// Load runs the two-stage pipeline over already-parsed documents and commits
// the result. Node insertions are committed before any edge processing runs
// inside the store transaction, so edge validation always saw the full
// accepted set.
func (ix *Indexer) Load(ctx context.Context, docs []schemas.Document, opts Options) (schemas.LoadReport, error) {
	res := loader.Build(docs)

	if opts.Strict && !res.Report.Clean() {
		return res.Report, fmt.Errorf("%w: %d errors, %d warnings",
			ErrStrictDiagnostics, len(res.Report.Errors), len(res.Report.Warnings))
	}

	var err error
	if opts.Incremental {
		err = ix.store.UpsertGraph(ctx, res.Nodes, res.Edges)
	} else {
		err = ix.store.ReplaceGraph(ctx, res.Nodes, res.Edges)
	}
	if err != nil {
		return res.Report, err
	}

	ix.log.Info("Graph reindexed",
		zap.Int("nodes", res.Report.NodesLoaded),
		zap.Int("edges", res.Report.EdgesLoaded),
		zap.Int("errors", len(res.Report.Errors)),
		zap.Int("warnings", len(res.Report.Warnings)),
		zap.Bool("incremental", opts.Incremental))
	return res.Report, nil
}
