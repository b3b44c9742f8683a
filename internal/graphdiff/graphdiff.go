// Package graphdiff structurally compares two graph states. It is a pure,
// source-agnostic primitive: the same function serves "diff against a git
// revision" and "compare two snapshots" -- only the origin of the two
// (nodes, edges) pairs differs.
package graphdiff

import (
	"sort"

	"github.com/kestrelworks/archgraph-cli/api/schemas"
)

// Compute classifies the structural differences between the old and new graph
// states. Node identity is ref_id; a node counts as changed only when its kind
// or summary differs (source and extra are deliberately ignored). Edge
// identity is the (src, dst, kind) triple; edges are present or absent, never
// "changed". All output lists are sorted by their natural key.
func Compute(old, new schemas.Subgraph) schemas.GraphDiff {
	var diff schemas.GraphDiff

	oldNodes := old.NodeByRef()
	newNodes := new.NodeByRef()

	for ref, n := range newNodes {
		prev, ok := oldNodes[ref]
		if !ok {
			diff.AddedNodes = append(diff.AddedNodes, n)
			continue
		}
		if prev.Kind != n.Kind || prev.Summary != n.Summary {
			diff.ChangedNodes = append(diff.ChangedNodes, schemas.NodeChange{
				RefID:      ref,
				Kind:       n.Kind,
				OldSummary: prev.Summary,
				NewSummary: n.Summary,
			})
		}
	}
	for ref, n := range oldNodes {
		if _, ok := newNodes[ref]; !ok {
			diff.RemovedNodes = append(diff.RemovedNodes, n)
		}
	}

	oldEdges := edgeSet(old.Edges)
	newEdges := edgeSet(new.Edges)

	for key, e := range newEdges {
		if _, ok := oldEdges[key]; !ok {
			diff.AddedEdges = append(diff.AddedEdges, e)
		}
	}
	for key, e := range oldEdges {
		if _, ok := newEdges[key]; !ok {
			diff.RemovedEdges = append(diff.RemovedEdges, e)
		}
	}

	sortNodes(diff.AddedNodes)
	sortNodes(diff.RemovedNodes)
	sort.Slice(diff.ChangedNodes, func(i, j int) bool {
		return diff.ChangedNodes[i].RefID < diff.ChangedNodes[j].RefID
	})
	sortEdges(diff.AddedEdges)
	sortEdges(diff.RemovedEdges)

	return diff
}

// edgeSet indexes edges by their identity triple. Duplicate triples collapse,
// which keeps the diff free of double-insert noise.
func edgeSet(edges []schemas.Edge) map[schemas.EdgeKey]schemas.Edge {
	set := make(map[schemas.EdgeKey]schemas.Edge, len(edges))
	for _, e := range edges {
		set[e.Key()] = e
	}
	return set
}

func sortNodes(nodes []schemas.Node) {
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].RefID < nodes[j].RefID })
}

func sortEdges(edges []schemas.Edge) {
	sort.Slice(edges, func(i, j int) bool {
		a, b := edges[i], edges[j]
		if a.Src != b.Src {
			return a.Src < b.Src
		}
		if a.Dst != b.Dst {
			return a.Dst < b.Dst
		}
		return a.Kind < b.Kind
	})
}
