package indexer

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kestrelworks/archgraph-cli/api/schemas"
	"github.com/kestrelworks/archgraph-cli/internal/loader"
)

// recordingStore captures what the indexer writes.
type recordingStore struct {
	replaced  bool
	upserted  bool
	lastNodes []schemas.Node
	lastEdges []schemas.Edge
}

func (r *recordingStore) ReplaceGraph(_ context.Context, nodes []schemas.Node, edges []schemas.Edge) error {
	r.replaced = true
	r.lastNodes, r.lastEdges = nodes, edges
	return nil
}

func (r *recordingStore) UpsertGraph(_ context.Context, nodes []schemas.Node, edges []schemas.Edge) error {
	r.upserted = true
	r.lastNodes, r.lastEdges = nodes, edges
	return nil
}

func (r *recordingStore) GetGraph(context.Context) (schemas.Subgraph, error) {
	return schemas.Subgraph{Nodes: r.lastNodes, Edges: r.lastEdges}, nil
}

func (r *recordingStore) GetNode(context.Context, string) (schemas.Node, error) {
	return schemas.Node{}, nil
}

func writeDefinitions(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "graph"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "graph", "core.yaml"), []byte(`
nodes:
  - ref_id: core
    kind: domain
    summary: Core domain
  - ref_id: login
    kind: feature
    summary: Login
edges:
  - src: login
    dst: core
    kind: part_of
  - src: login
    dst: ghost
    kind: uses
`), 0o644))
	return dir
}

func TestReindex_FullReplace(t *testing.T) {
	rec := &recordingStore{}
	ix := New(rec, zap.NewNop())

	report, err := ix.Reindex(context.Background(), writeDefinitions(t), []string{"graph/**/*.yaml"}, Options{})
	require.NoError(t, err)

	assert.True(t, rec.replaced)
	assert.False(t, rec.upserted)
	assert.Equal(t, 2, report.NodesLoaded)
	assert.Equal(t, 1, report.EdgesLoaded)
	require.Len(t, report.Warnings, 1, "dangling edge surfaces as warning")
	assert.Empty(t, report.Errors)
	require.Len(t, rec.lastEdges, 1)
	assert.Equal(t, "core", rec.lastEdges[0].Dst)
}

func TestReindex_Incremental(t *testing.T) {
	rec := &recordingStore{}
	ix := New(rec, zap.NewNop())

	_, err := ix.Reindex(context.Background(), writeDefinitions(t), []string{"graph/**/*.yaml"}, Options{Incremental: true})
	require.NoError(t, err)

	assert.True(t, rec.upserted)
	assert.False(t, rec.replaced)
}

func TestLoad_StrictAbortsBeforeWrite(t *testing.T) {
	rec := &recordingStore{}
	ix := New(rec, zap.NewNop())

	doc, err := loader.ParseDocument("graph/a.yaml", []byte(`
nodes:
  - ref_id: core
    kind: domain
    summary: Core
edges:
  - src: core
    dst: nowhere
    kind: uses
`))
	require.NoError(t, err)

	report, err := ix.Load(context.Background(), []schemas.Document{doc}, Options{Strict: true})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStrictDiagnostics)
	assert.False(t, rec.replaced, "strict failures must not commit")
	assert.False(t, rec.upserted)
	require.Len(t, report.Warnings, 1, "report still carries the diagnostics")
}

func TestReindex_MalformedDocumentIsFatal(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.yaml"), []byte("nodes: [broken"), 0o644))

	rec := &recordingStore{}
	ix := New(rec, zap.NewNop())

	_, err := ix.Reindex(context.Background(), dir, []string{"*.yaml"}, Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, loader.ErrMalformedDocument)
	assert.False(t, rec.replaced, "nothing committed on a fatal parse failure")
}
