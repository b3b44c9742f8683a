package schemas

// NodeChange records a node present in both graph states whose identity-
// relevant fields (kind or summary) differ. Changes confined to source or
// extra are deliberately not surfaced here.
type NodeChange struct {
	RefID      string   `json:"ref_id"`
	Kind       NodeKind `json:"kind"`
	OldSummary string   `json:"old_summary"`
	NewSummary string   `json:"new_summary"`
}

// GraphDiff is the structural difference between two graph states. It is
// always derived on demand, never stored. All five lists are sorted by their
// natural key so output is stable and diffable.
type GraphDiff struct {
	AddedNodes   []Node       `json:"added_nodes"`
	RemovedNodes []Node       `json:"removed_nodes"`
	ChangedNodes []NodeChange `json:"changed_nodes"`
	AddedEdges   []Edge       `json:"added_edges"`
	RemovedEdges []Edge       `json:"removed_edges"`
}

// HasChanges reports whether any of the five lists is non-empty.
func (d GraphDiff) HasChanges() bool {
	return len(d.AddedNodes) > 0 ||
		len(d.RemovedNodes) > 0 ||
		len(d.ChangedNodes) > 0 ||
		len(d.AddedEdges) > 0 ||
		len(d.RemovedEdges) > 0
}
