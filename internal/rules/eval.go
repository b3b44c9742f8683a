package rules

import (
	"fmt"
	"sort"

	"github.com/kestrelworks/archgraph-cli/api/schemas"
)

// EvaluateAll runs every rule against the graph and concatenates the
// violations in rule-declaration order, then by subject ref_id ascending
// within a rule. The rule set must already have passed Parse; evaluation
// itself cannot fail.
func EvaluateAll(graph schemas.Subgraph, ruleSet []Rule) []schemas.Violation {
	outgoing := make(map[string][]schemas.Edge, len(graph.Nodes))
	for _, e := range graph.Edges {
		outgoing[e.Src] = append(outgoing[e.Src], e)
	}
	byRef := graph.NodeByRef()

	subjects := make([]schemas.Node, len(graph.Nodes))
	copy(subjects, graph.Nodes)
	sort.Slice(subjects, func(i, j int) bool { return subjects[i].RefID < subjects[j].RefID })

	var violations []schemas.Violation
	for _, rule := range ruleSet {
		for _, node := range subjects {
			if !rule.For.Matches(node) {
				continue
			}
			if v, ok := evaluateNode(rule, node, outgoing[node.RefID], byRef); ok {
				violations = append(violations, v)
			}
		}
	}
	return violations
}

// evaluateNode applies one rule to one subject node.
func evaluateNode(rule Rule, node schemas.Node, edges []schemas.Edge, byRef map[string]schemas.Node) (schemas.Violation, bool) {
	var qualifying []schemas.Edge
	for _, e := range edges {
		if e.Kind != rule.EdgeKind {
			continue
		}
		dst, ok := byRef[e.Dst]
		if !ok {
			// The store never holds dangling edges; an in-memory subgraph
			// assembled by hand might. Skip rather than match blindly.
			continue
		}
		if rule.Target.Matches(dst) {
			qualifying = append(qualifying, e)
		}
	}

	switch rule.Mode {
	case ModeRequire:
		if len(qualifying) == 0 {
			return schemas.Violation{
				Rule:     rule.Name,
				Severity: rule.Severity,
				RefID:    node.RefID,
				Description: fmt.Sprintf("node %q (%s) has no %q edge to %s",
					node.RefID, node.Kind, rule.EdgeKind, rule.Target.Describe()),
			}, true
		}
	case ModeDeny:
		if len(qualifying) > 0 {
			return schemas.Violation{
				Rule:     rule.Name,
				Severity: rule.Severity,
				RefID:    node.RefID,
				Description: fmt.Sprintf("node %q (%s) has a forbidden %q edge to %q",
					node.RefID, node.Kind, rule.EdgeKind, qualifying[0].Dst),
			}, true
		}
	}
	return schemas.Violation{}, false
}
