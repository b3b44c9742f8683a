package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/kestrelworks/archgraph-cli/api/schemas"
	"github.com/kestrelworks/archgraph-cli/internal/observability"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func cmdLogger() *zap.Logger {
	return observability.GetLogger()
}

// renderJSON writes v as indented JSON with a trailing newline.
func renderJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func renderLoadReport(w io.Writer, report schemas.LoadReport, format string) error {
	switch format {
	case "json":
		return renderJSON(w, report)
	case "text":
		fmt.Fprintf(w, "loaded %d nodes, %d edges\n", report.NodesLoaded, report.EdgesLoaded)
		for _, e := range report.Errors {
			fmt.Fprintf(w, "error: %s\n", e)
		}
		for _, warn := range report.Warnings {
			fmt.Fprintf(w, "warning: %s\n", warn)
		}
		return nil
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

func renderViolations(w io.Writer, violations []schemas.Violation, format string) error {
	switch format {
	case "json":
		if violations == nil {
			violations = []schemas.Violation{}
		}
		return renderJSON(w, violations)
	case "porcelain":
		// One violation per line, tab-separated, for scripts and CI gates.
		for _, v := range violations {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", v.Severity, v.Rule, v.RefID, v.Description)
		}
		return nil
	case "text":
		if len(violations) == 0 {
			fmt.Fprintln(w, "no violations")
			return nil
		}
		for _, v := range violations {
			fmt.Fprintf(w, "[%s] %s: %s (%s)\n", v.Severity, v.Rule, v.Description, v.RefID)
		}
		fmt.Fprintf(w, "%d violation(s)\n", len(violations))
		return nil
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

func renderDiff(w io.Writer, diff schemas.GraphDiff, format string) error {
	switch format {
	case "json":
		return renderJSON(w, diff)
	case "text":
		if !diff.HasChanges() {
			fmt.Fprintln(w, "no changes")
			return nil
		}
		for _, n := range diff.AddedNodes {
			fmt.Fprintf(w, "+ node %s (%s)\n", n.RefID, n.Kind)
		}
		for _, n := range diff.RemovedNodes {
			fmt.Fprintf(w, "- node %s (%s)\n", n.RefID, n.Kind)
		}
		for _, c := range diff.ChangedNodes {
			fmt.Fprintf(w, "~ node %s (%s): %q -> %q\n", c.RefID, c.Kind, c.OldSummary, c.NewSummary)
		}
		for _, e := range diff.AddedEdges {
			fmt.Fprintf(w, "+ edge %s -%s-> %s\n", e.Src, e.Kind, e.Dst)
		}
		for _, e := range diff.RemovedEdges {
			fmt.Fprintf(w, "- edge %s -%s-> %s\n", e.Src, e.Kind, e.Dst)
		}
		return nil
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

func renderImpact(w io.Writer, report schemas.ImpactReport, format string) error {
	switch format {
	case "json":
		return renderJSON(w, report)
	case "text":
		if !report.Found {
			fmt.Fprintf(w, "node %q not found\n", report.Focus)
			return nil
		}
		fmt.Fprintf(w, "impact of %s\n", report.Focus)
		fmt.Fprintf(w, "  direct downstream:     %d\n", report.DirectDownstream)
		fmt.Fprintf(w, "  transitive downstream: %d\n", report.TransitiveDownstream)
		fmt.Fprintf(w, "  stale docs:            %d\n", report.StaleDocs)
		if report.Downstream != nil && report.Downstream.Root != nil {
			fmt.Fprintln(w, "depends on it:")
			renderTree(w, report.Downstream.Root, 1)
		}
		if report.Upstream != nil && report.Upstream.Root != nil {
			fmt.Fprintln(w, "it depends on:")
			renderTree(w, report.Upstream.Root, 1)
		}
		return nil
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

// renderTree prints a traversal tree with two-space indentation per level.
// The root itself is the focus node, so only its children are printed.
func renderTree(w io.Writer, node *schemas.TreeNode, depth int) {
	for _, child := range node.Children {
		fmt.Fprintf(w, "%*s%s (%s", depth*2, "", child.RefID, child.Kind)
		if child.Via != "" {
			fmt.Fprintf(w, ", via %s", child.Via)
		}
		fmt.Fprintln(w, ")")
		renderTree(w, child, depth+1)
	}
}

func renderSnapshots(w io.Writer, infos []schemas.SnapshotInfo, format string) error {
	switch format {
	case "json":
		if infos == nil {
			infos = []schemas.SnapshotInfo{}
		}
		return renderJSON(w, infos)
	case "text":
		if len(infos) == 0 {
			fmt.Fprintln(w, "no snapshots")
			return nil
		}
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tLABEL\tCREATED\tNODES\tEDGES\tSYMBOLS")
		for _, info := range infos {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%d\t%d\n",
				info.ID, info.Label, info.CreatedAt.Format("2006-01-02 15:04:05"),
				info.NodeCount, info.EdgeCount, info.SymbolsCount)
		}
		return tw.Flush()
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}
