package schemas

// Direction selects which way the traversal walks the edge set.
type Direction string

const (
	// DirectionForward follows edges from src to dst (outgoing).
	DirectionForward Direction = "forward"
	// DirectionReverse follows edges from dst to src (incoming).
	DirectionReverse Direction = "reverse"
)

// TreeNode is one entry in a traversal result: the node reached, the edge kind
// that connected it to its parent, and the children discovered beneath it.
// The root carries an empty Via.
type TreeNode struct {
	RefID    string      `json:"ref_id"`
	Kind     NodeKind    `json:"kind"`
	Via      EdgeKind    `json:"via,omitempty"`
	Children []*TreeNode `json:"children,omitempty"`
}

// Size returns the number of nodes in the tree rooted at t, including t.
func (t *TreeNode) Size() int {
	if t == nil {
		return 0
	}
	n := 1
	for _, c := range t.Children {
		n += c.Size()
	}
	return n
}

// Tree is the result of a bounded BFS from a single start node. Found is false
// when the start ref_id does not exist in the graph; the root is nil and all
// derived counts are zero in that case.
type Tree struct {
	Root  *TreeNode `json:"root,omitempty"`
	Found bool      `json:"found"`
}

// ContextBundle is a depth- and budget-bounded neighborhood of a focus node,
// with the documentation chunks attached to each admitted node. Used to brief
// a consumer (human or LLM collaborator) about the node's surroundings.
type ContextBundle struct {
	Focus     string       `json:"focus"`
	Found     bool         `json:"found"`
	Nodes     []BundleNode `json:"nodes"`
	Truncated bool         `json:"truncated"`
}

// BundleNode is one admitted node in a context bundle, in BFS discovery order.
type BundleNode struct {
	RefID   string     `json:"ref_id"`
	Kind    NodeKind   `json:"kind"`
	Summary string     `json:"summary"`
	Depth   int        `json:"depth"`
	Via     EdgeKind   `json:"via,omitempty"`
	Chunks  []DocChunk `json:"chunks,omitempty"`
}

// ImpactReport summarizes what depends on a focus node, in both directions.
type ImpactReport struct {
	Focus                string `json:"focus"`
	Found                bool   `json:"found"`
	DirectDownstream     int    `json:"direct_downstream"`
	TransitiveDownstream int    `json:"transitive_downstream"`
	StaleDocs            int    `json:"stale_docs"`
	Upstream             *Tree  `json:"upstream,omitempty"`
	Downstream           *Tree  `json:"downstream,omitempty"`
}
