package traverse

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/kestrelworks/archgraph-cli/api/schemas"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// chainGraph is A -> B -> C -> D, all part_of.
func chainGraph() *Graph {
	return New(schemas.Subgraph{
		Nodes: []schemas.Node{
			{RefID: "A", Kind: schemas.KindFeature, Summary: "a"},
			{RefID: "B", Kind: schemas.KindDomain, Summary: "b"},
			{RefID: "C", Kind: schemas.KindDomain, Summary: "c"},
			{RefID: "D", Kind: schemas.KindDomain, Summary: "d"},
		},
		Edges: []schemas.Edge{
			{Src: "A", Dst: "B", Kind: schemas.EdgePartOf},
			{Src: "B", Dst: "C", Kind: schemas.EdgePartOf},
			{Src: "C", Dst: "D", Kind: schemas.EdgePartOf},
		},
	})
}

func TestBFS_DepthBound(t *testing.T) {
	g := chainGraph()

	depth1 := g.BFS("A", schemas.DirectionForward, 1)
	require.True(t, depth1.Found)
	require.Len(t, depth1.Root.Children, 1)
	assert.Equal(t, "B", depth1.Root.Children[0].RefID)
	assert.Empty(t, depth1.Root.Children[0].Children, "depth 1 must not expand past B")

	depth2 := g.BFS("A", schemas.DirectionForward, 2)
	require.True(t, depth2.Found)
	b := depth2.Root.Children[0]
	require.Len(t, b.Children, 1)
	assert.Equal(t, "C", b.Children[0].RefID)
	assert.Empty(t, b.Children[0].Children)
	assert.Equal(t, 3, depth2.Root.Size())
}

func TestBFS_ReverseDirection(t *testing.T) {
	g := chainGraph()

	tree := g.BFS("D", schemas.DirectionReverse, 3)
	require.True(t, tree.Found)
	assert.Equal(t, 4, tree.Root.Size())
	assert.Equal(t, "C", tree.Root.Children[0].RefID)
	assert.Equal(t, schemas.EdgePartOf, tree.Root.Children[0].Via)
}

func TestBFS_UnknownStartIsNotFound(t *testing.T) {
	tree := chainGraph().BFS("nope", schemas.DirectionForward, 3)
	assert.False(t, tree.Found)
	assert.Nil(t, tree.Root)
	assert.Equal(t, 0, tree.Root.Size())
}

func TestBFS_Deterministic(t *testing.T) {
	sub := schemas.Subgraph{
		Nodes: []schemas.Node{
			{RefID: "root", Kind: schemas.KindDomain},
			{RefID: "zeta", Kind: schemas.KindService},
			{RefID: "alpha", Kind: schemas.KindService},
			{RefID: "mid", Kind: schemas.KindService},
		},
		Edges: []schemas.Edge{
			{Src: "root", Dst: "zeta", Kind: schemas.EdgeUses},
			{Src: "root", Dst: "alpha", Kind: schemas.EdgeUses},
			{Src: "root", Dst: "mid", Kind: schemas.EdgeUses},
		},
	}

	first := New(sub).BFS("root", schemas.DirectionForward, 1)
	second := New(sub).BFS("root", schemas.DirectionForward, 1)

	if d := cmp.Diff(first, second); d != "" {
		t.Fatalf("two identical walks diverged:\n%s", d)
	}
	require.Len(t, first.Root.Children, 3)
	assert.Equal(t, "alpha", first.Root.Children[0].RefID, "children sorted by destination ref_id")
	assert.Equal(t, "mid", first.Root.Children[1].RefID)
	assert.Equal(t, "zeta", first.Root.Children[2].RefID)
}

func TestBFS_ShortestPathWinsTies(t *testing.T) {
	// Diamond: root -> left -> deep, root -> right -> deep. deep must appear
	// exactly once, under the first-discovered parent (left).
	g := New(schemas.Subgraph{
		Nodes: []schemas.Node{
			{RefID: "root", Kind: schemas.KindDomain},
			{RefID: "left", Kind: schemas.KindService},
			{RefID: "right", Kind: schemas.KindService},
			{RefID: "deep", Kind: schemas.KindEntity},
		},
		Edges: []schemas.Edge{
			{Src: "root", Dst: "left", Kind: schemas.EdgeUses},
			{Src: "root", Dst: "right", Kind: schemas.EdgeUses},
			{Src: "left", Dst: "deep", Kind: schemas.EdgeDependsOn},
			{Src: "right", Dst: "deep", Kind: schemas.EdgeDependsOn},
		},
	})

	tree := g.BFS("root", schemas.DirectionForward, 3)
	require.True(t, tree.Found)
	assert.Equal(t, 4, tree.Root.Size(), "deep counted once despite two paths")

	left := tree.Root.Children[0]
	right := tree.Root.Children[1]
	require.Equal(t, "left", left.RefID)
	require.Len(t, left.Children, 1)
	assert.Equal(t, "deep", left.Children[0].RefID)
	assert.Empty(t, right.Children)
}

// -- fakes for the collaborator providers --

type fakeDocs struct {
	chunks map[string][]schemas.DocChunk
	err    error
}

func (f *fakeDocs) DocChunksFor(_ context.Context, refID string) ([]schemas.DocChunk, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.chunks[refID], nil
}

type fakeSync struct {
	stale map[string]bool
}

func (f *fakeSync) SyncStatusFor(_ context.Context, refID string) (schemas.SyncStatus, error) {
	return schemas.SyncStatus{RefID: refID, Stale: f.stale[refID]}, nil
}

func TestBuildBundle_AttachesChunksInDiscoveryOrder(t *testing.T) {
	docs := &fakeDocs{chunks: map[string][]schemas.DocChunk{
		"A": {{RefID: "A", Heading: "Overview", Content: "alpha doc"}},
		"B": {{RefID: "B", Heading: "Design", Content: "beta doc"}},
	}}

	bundle, err := BuildBundle(context.Background(), chainGraph(), "A", docs, BundleOptions{MaxDepth: 2})
	require.NoError(t, err)

	require.True(t, bundle.Found)
	assert.False(t, bundle.Truncated)
	require.Len(t, bundle.Nodes, 3)
	assert.Equal(t, "A", bundle.Nodes[0].RefID)
	assert.Equal(t, 0, bundle.Nodes[0].Depth)
	require.Len(t, bundle.Nodes[0].Chunks, 1)
	assert.Equal(t, "alpha doc", bundle.Nodes[0].Chunks[0].Content)
	assert.Equal(t, "B", bundle.Nodes[1].RefID)
	assert.Equal(t, schemas.EdgePartOf, bundle.Nodes[1].Via)
	assert.Empty(t, bundle.Nodes[2].Chunks)
}

func TestBuildBundle_NodeBudgetTruncatesDeterministically(t *testing.T) {
	bundle, err := BuildBundle(context.Background(), chainGraph(), "A", nil, BundleOptions{MaxDepth: 3, MaxNodes: 2})
	require.NoError(t, err)

	assert.True(t, bundle.Truncated)
	require.Len(t, bundle.Nodes, 2)
	assert.Equal(t, "A", bundle.Nodes[0].RefID, "truncation favors closer nodes")
	assert.Equal(t, "B", bundle.Nodes[1].RefID)
}

func TestBuildBundle_ChunkBudgetStopsAdmission(t *testing.T) {
	docs := &fakeDocs{chunks: map[string][]schemas.DocChunk{
		"A": {{RefID: "A"}, {RefID: "A"}},
		"B": {{RefID: "B"}},
	}}

	bundle, err := BuildBundle(context.Background(), chainGraph(), "A", docs, BundleOptions{MaxDepth: 3, MaxChunks: 2})
	require.NoError(t, err)

	assert.True(t, bundle.Truncated)
	require.Len(t, bundle.Nodes, 1, "chunk budget hit after the focus node")
}

func TestBuildBundle_UnknownFocus(t *testing.T) {
	bundle, err := BuildBundle(context.Background(), chainGraph(), "missing", nil, BundleOptions{})
	require.NoError(t, err)
	assert.False(t, bundle.Found)
	assert.Empty(t, bundle.Nodes)
}

func TestBuildBundle_DocProviderErrorPropagates(t *testing.T) {
	docs := &fakeDocs{err: errors.New("chunk table offline")}
	_, err := BuildBundle(context.Background(), chainGraph(), "A", docs, BundleOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chunk table offline")
}

func TestImpact_Counts(t *testing.T) {
	// user-service has two direct dependents, one of which has its own
	// dependent: direct=2, transitive=3.
	g := New(schemas.Subgraph{
		Nodes: []schemas.Node{
			{RefID: "user-service", Kind: schemas.KindService},
			{RefID: "login", Kind: schemas.KindFeature},
			{RefID: "signup", Kind: schemas.KindFeature},
			{RefID: "onboarding", Kind: schemas.KindFeature},
			{RefID: "core", Kind: schemas.KindDomain},
		},
		Edges: []schemas.Edge{
			{Src: "login", Dst: "user-service", Kind: schemas.EdgeUses},
			{Src: "signup", Dst: "user-service", Kind: schemas.EdgeUses},
			{Src: "onboarding", Dst: "signup", Kind: schemas.EdgeDependsOn},
			{Src: "user-service", Dst: "core", Kind: schemas.EdgePartOf},
		},
	})
	sync := &fakeSync{stale: map[string]bool{"signup": true, "core": true, "unrelated": true}}

	report, err := Impact(context.Background(), g, "user-service", 5, sync)
	require.NoError(t, err)

	require.True(t, report.Found)
	assert.Equal(t, 2, report.DirectDownstream)
	assert.Equal(t, 3, report.TransitiveDownstream)
	assert.Equal(t, 2, report.StaleDocs, "only reachable nodes count")
	require.NotNil(t, report.Upstream)
	assert.Equal(t, 2, report.Upstream.Root.Size(), "user-service plus core")
}

func TestImpact_UnknownFocusIsZeroed(t *testing.T) {
	report, err := Impact(context.Background(), chainGraph(), "ghost", 3, &fakeSync{})
	require.NoError(t, err)

	assert.False(t, report.Found)
	assert.Zero(t, report.DirectDownstream)
	assert.Zero(t, report.TransitiveDownstream)
	assert.Zero(t, report.StaleDocs)
	assert.Nil(t, report.Downstream)
	assert.Nil(t, report.Upstream)
}
