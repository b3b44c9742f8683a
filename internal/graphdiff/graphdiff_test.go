package graphdiff

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kestrelworks/archgraph-cli/api/schemas"
)

func baseGraph() schemas.Subgraph {
	return schemas.Subgraph{
		Nodes: []schemas.Node{
			{RefID: "auth-login", Kind: schemas.KindFeature, Summary: "Login flow"},
			{RefID: "user-service", Kind: schemas.KindService, Summary: "User CRUD"},
		},
		Edges: []schemas.Edge{
			{Src: "auth-login", Dst: "user-service", Kind: schemas.EdgeUses},
		},
	}
}

func TestCompute_IdenticalGraphsAreEmpty(t *testing.T) {
	g := baseGraph()
	diff := Compute(g, g)

	assert.False(t, diff.HasChanges())
	assert.Empty(t, diff.AddedNodes)
	assert.Empty(t, diff.RemovedNodes)
	assert.Empty(t, diff.ChangedNodes)
	assert.Empty(t, diff.AddedEdges)
	assert.Empty(t, diff.RemovedEdges)
}

func TestCompute_AddedNode(t *testing.T) {
	old := baseGraph()
	new := baseGraph()
	new.Nodes = append(new.Nodes, schemas.Node{RefID: "new-svc", Kind: schemas.KindService, Summary: "Fresh"})

	diff := Compute(old, new)

	require.True(t, diff.HasChanges())
	require.Len(t, diff.AddedNodes, 1)
	assert.Equal(t, "new-svc", diff.AddedNodes[0].RefID)
	assert.Empty(t, diff.RemovedNodes)
	assert.Empty(t, diff.AddedEdges)
	assert.Empty(t, diff.RemovedEdges)
}

func TestCompute_Symmetry(t *testing.T) {
	old := baseGraph()
	new := baseGraph()
	new.Nodes = append(new.Nodes, schemas.Node{RefID: "billing", Kind: schemas.KindDomain, Summary: "Billing"})
	new.Edges = append(new.Edges, schemas.Edge{Src: "user-service", Dst: "billing", Kind: schemas.EdgePartOf})

	forward := Compute(old, new)
	backward := Compute(new, old)

	if d := cmp.Diff(forward.AddedNodes, backward.RemovedNodes); d != "" {
		t.Errorf("added/removed asymmetry (-forward +backward):\n%s", d)
	}
	if d := cmp.Diff(forward.AddedEdges, backward.RemovedEdges); d != "" {
		t.Errorf("edge added/removed asymmetry (-forward +backward):\n%s", d)
	}
}

func TestCompute_ChangedNodeTracksKindAndSummaryOnly(t *testing.T) {
	old := baseGraph()
	new := baseGraph()
	new.Nodes[0].Summary = "Login and MFA flow"
	// Source and extra changes must not register.
	new.Nodes[1].Source = "services/user/main.go"
	new.Nodes[1].Extra = schemas.Extra{"owner": "identity-team"}

	diff := Compute(old, new)

	require.Len(t, diff.ChangedNodes, 1)
	change := diff.ChangedNodes[0]
	assert.Equal(t, "auth-login", change.RefID)
	assert.Equal(t, schemas.KindFeature, change.Kind)
	assert.Equal(t, "Login flow", change.OldSummary)
	assert.Equal(t, "Login and MFA flow", change.NewSummary)
}

func TestCompute_DuplicateEdgeTriplesCollapse(t *testing.T) {
	old := baseGraph()
	new := baseGraph()
	new.Edges = append(new.Edges, schemas.Edge{Src: "auth-login", Dst: "user-service", Kind: schemas.EdgeUses})

	diff := Compute(old, new)
	assert.False(t, diff.HasChanges(), "duplicate triple must not produce diff noise")
}

func TestCompute_RemovedEdge(t *testing.T) {
	old := baseGraph()
	new := baseGraph()
	new.Edges = nil

	diff := Compute(old, new)
	require.Len(t, diff.RemovedEdges, 1)
	assert.Equal(t, "auth-login", diff.RemovedEdges[0].Src)
	assert.True(t, diff.HasChanges())
}

func TestCompute_OutputIsSorted(t *testing.T) {
	old := schemas.Subgraph{}
	new := schemas.Subgraph{
		Nodes: []schemas.Node{
			{RefID: "zeta", Kind: schemas.KindService},
			{RefID: "alpha", Kind: schemas.KindDomain},
			{RefID: "mid", Kind: schemas.KindFeature},
		},
		Edges: []schemas.Edge{
			{Src: "zeta", Dst: "alpha", Kind: schemas.EdgeUses},
			{Src: "alpha", Dst: "mid", Kind: schemas.EdgePartOf},
			{Src: "alpha", Dst: "mid", Kind: schemas.EdgeDependsOn},
		},
	}

	diff := Compute(old, new)

	require.Len(t, diff.AddedNodes, 3)
	assert.Equal(t, "alpha", diff.AddedNodes[0].RefID)
	assert.Equal(t, "mid", diff.AddedNodes[1].RefID)
	assert.Equal(t, "zeta", diff.AddedNodes[2].RefID)

	require.Len(t, diff.AddedEdges, 3)
	assert.Equal(t, schemas.EdgeDependsOn, diff.AddedEdges[0].Kind, "same src/dst ordered by kind")
	assert.Equal(t, schemas.EdgePartOf, diff.AddedEdges[1].Kind)
	assert.Equal(t, "zeta", diff.AddedEdges[2].Src)
}
