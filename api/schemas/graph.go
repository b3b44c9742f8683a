package schemas

import "time"

// -- Canonical Architecture Graph Data Model --

// NodeKind is the coarse category of an architectural unit. The set is open;
// these are the kinds the loader and rule documents use today.
type NodeKind string

const (
	KindDomain  NodeKind = "domain"
	KindFeature NodeKind = "feature"
	KindService NodeKind = "service"
	KindEntity  NodeKind = "entity"
)

// EdgeKind is the relationship type between two nodes. Open vocabulary; these
// are the kinds emitted by the stock definition files.
type EdgeKind string

const (
	EdgePartOf      EdgeKind = "part_of"
	EdgeUses        EdgeKind = "uses"
	EdgeDependsOn   EdgeKind = "depends_on"
	EdgeTouchesCode EdgeKind = "touches_code"
)

// Extra is the open field bag attached to nodes and edges. Any YAML field not
// mapped to a typed column lands here verbatim, so unknown fields survive a
// load -> save round trip.
type Extra map[string]any

// Node is a single named architectural unit in the graph.
type Node struct {
	RefID   string   `json:"ref_id"`
	Kind    NodeKind `json:"kind"`
	Summary string   `json:"summary"`
	Source  string   `json:"source,omitempty"`
	Extra   Extra    `json:"extra,omitempty"`
}

// Edge is a directed, typed relation between two nodes. Identity for diffing
// and storage is the (Src, Dst, Kind) triple; inserting the same triple twice
// is idempotent.
type Edge struct {
	Src   string   `json:"src"`
	Dst   string   `json:"dst"`
	Kind  EdgeKind `json:"kind"`
	Extra Extra    `json:"extra,omitempty"`
}

// Key returns the identity triple of the edge.
func (e Edge) Key() EdgeKey {
	return EdgeKey{Src: e.Src, Dst: e.Dst, Kind: e.Kind}
}

// EdgeKey is the identity triple of an edge, usable as a map key.
type EdgeKey struct {
	Src  string   `json:"src"`
	Dst  string   `json:"dst"`
	Kind EdgeKind `json:"kind"`
}

// Subgraph is a materialized subset (or the whole) of the graph, the unit the
// engines operate on once the store has been read.
type Subgraph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// NodeByRef builds a ref_id index over the subgraph's nodes.
func (s Subgraph) NodeByRef() map[string]Node {
	idx := make(map[string]Node, len(s.Nodes))
	for _, n := range s.Nodes {
		idx[n.RefID] = n
	}
	return idx
}

// -- Collaborator-owned records (read-only query contract) --

// DocChunk is one documentation fragment attached to a node, owned by the
// documentation pipeline. The core only ever reads these by ref_id.
type DocChunk struct {
	RefID   string `json:"ref_id"`
	Path    string `json:"path"`
	Heading string `json:"heading"`
	Content string `json:"content"`
}

// SyncStatus reports whether a node's documentation is current relative to the
// code it describes. Owned by the doc-sync collaborator.
type SyncStatus struct {
	RefID     string    `json:"ref_id"`
	Stale     bool      `json:"stale"`
	CheckedAt time.Time `json:"checked_at"`
}
