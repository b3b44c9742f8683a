// Package traverse performs bounded breadth-first walks over the loaded
// graph. It backs two consumers with different aggregation: context-bundle
// assembly and dependency-impact ("why") reports.
package traverse

import (
	"sort"

	"github.com/kestrelworks/archgraph-cli/api/schemas"
)

// Graph is a ref_id-indexed adjacency view over a subgraph, built once and
// then walked any number of times. Adjacency lists are pre-sorted by neighbor
// ref_id so every walk is deterministic given the same edge set.
type Graph struct {
	nodes    map[string]schemas.Node
	outgoing map[string][]schemas.Edge
	incoming map[string][]schemas.Edge
}

// New indexes the subgraph for traversal.
func New(sub schemas.Subgraph) *Graph {
	g := &Graph{
		nodes:    sub.NodeByRef(),
		outgoing: make(map[string][]schemas.Edge),
		incoming: make(map[string][]schemas.Edge),
	}
	for _, e := range sub.Edges {
		g.outgoing[e.Src] = append(g.outgoing[e.Src], e)
		g.incoming[e.Dst] = append(g.incoming[e.Dst], e)
	}
	for src := range g.outgoing {
		edges := g.outgoing[src]
		sort.Slice(edges, func(i, j int) bool {
			if edges[i].Dst != edges[j].Dst {
				return edges[i].Dst < edges[j].Dst
			}
			return edges[i].Kind < edges[j].Kind
		})
	}
	for dst := range g.incoming {
		edges := g.incoming[dst]
		sort.Slice(edges, func(i, j int) bool {
			if edges[i].Src != edges[j].Src {
				return edges[i].Src < edges[j].Src
			}
			return edges[i].Kind < edges[j].Kind
		})
	}
	return g
}

// Node looks up a node by ref_id.
func (g *Graph) Node(refID string) (schemas.Node, bool) {
	n, ok := g.nodes[refID]
	return n, ok
}

// visit is one node admitted during a walk, in discovery order.
type visit struct {
	refID  string
	kind   schemas.NodeKind
	depth  int
	via    schemas.EdgeKind
	parent string
}

// walk runs the bounded BFS and returns the visits in discovery order. The
// start node is visit zero. A start ref_id absent from the graph yields
// (nil, false).
func (g *Graph) walk(start string, dir schemas.Direction, maxDepth int) ([]visit, bool) {
	root, ok := g.nodes[start]
	if !ok {
		return nil, false
	}

	visits := []visit{{refID: start, kind: root.Kind}}
	visited := map[string]struct{}{start: {}}
	frontier := []string{start}

	for depth := 1; depth <= maxDepth && len(frontier) > 0; depth++ {
		var next []string
		for _, current := range frontier {
			for _, e := range g.neighbors(current, dir) {
				neighbor := e.Dst
				if dir == schemas.DirectionReverse {
					neighbor = e.Src
				}
				if _, seen := visited[neighbor]; seen {
					continue
				}
				node, exists := g.nodes[neighbor]
				if !exists {
					continue
				}
				visited[neighbor] = struct{}{}
				visits = append(visits, visit{
					refID:  neighbor,
					kind:   node.Kind,
					depth:  depth,
					via:    e.Kind,
					parent: current,
				})
				next = append(next, neighbor)
			}
		}
		frontier = next
	}
	return visits, true
}

func (g *Graph) neighbors(refID string, dir schemas.Direction) []schemas.Edge {
	if dir == schemas.DirectionReverse {
		return g.incoming[refID]
	}
	return g.outgoing[refID]
}

// BFS produces the rooted reachability tree from start, expanding at most
// maxDepth levels in the given direction. Ties between equally short paths go
// to the first-discovered parent; child order follows the pre-sorted
// adjacency, so the tree is reproducible. An unknown start yields an empty
// not-found tree, never an error.
func (g *Graph) BFS(start string, dir schemas.Direction, maxDepth int) schemas.Tree {
	visits, found := g.walk(start, dir, maxDepth)
	if !found {
		return schemas.Tree{}
	}

	byRef := make(map[string]*schemas.TreeNode, len(visits))
	var root *schemas.TreeNode
	for _, v := range visits {
		node := &schemas.TreeNode{RefID: v.refID, Kind: v.kind, Via: v.via}
		byRef[v.refID] = node
		if v.parent == "" {
			root = node
			continue
		}
		parent := byRef[v.parent]
		parent.Children = append(parent.Children, node)
	}
	return schemas.Tree{Root: root, Found: true}
}
