package schemas

// -- Graph Definition Document Model --

// NodeRecord is a raw node declaration as it appears in a definition document,
// before validation. Fields holds the full decoded mapping so the loader can
// fold unmapped keys into Extra.
type NodeRecord struct {
	RefID   string
	Kind    string
	Summary string
	Source  string
	Fields  map[string]any
}

// EdgeRecord is a raw edge declaration as it appears in a definition document.
type EdgeRecord struct {
	Src    string
	Dst    string
	Kind   string
	Fields map[string]any
}

// Document is one parsed graph-definition source. Path is recorded for
// diagnostics and for the deterministic file-then-declaration ordering.
type Document struct {
	Path  string
	Nodes []NodeRecord
	Edges []EdgeRecord
}

// LoadReport collects the outcome of a load: how much was accepted and every
// per-record problem encountered along the way. Errors mean a record was
// dropped; warnings are advisory.
type LoadReport struct {
	NodesLoaded int      `json:"nodes_loaded"`
	EdgesLoaded int      `json:"edges_loaded"`
	Errors      []string `json:"errors"`
	Warnings    []string `json:"warnings"`
}

// Clean reports whether the load produced no diagnostics at all.
func (r LoadReport) Clean() bool {
	return len(r.Errors) == 0 && len(r.Warnings) == 0
}
