package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kestrelworks/archgraph-cli/api/schemas"
)

func TestRenderLoadReport(t *testing.T) {
	report := schemas.LoadReport{
		NodesLoaded: 4,
		EdgesLoaded: 7,
		Errors:      []string{"graph/a.yaml: node missing ref_id"},
		Warnings:    []string{"graph/b.yaml: edge references unknown node \"ghost\""},
	}

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, renderLoadReport(&buf, report, "text"))
		out := buf.String()
		assert.Contains(t, out, "loaded 4 nodes, 7 edges")
		assert.Contains(t, out, "error: graph/a.yaml")
		assert.Contains(t, out, "warning: graph/b.yaml")
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, renderLoadReport(&buf, report, "json"))
		assert.Contains(t, buf.String(), `"nodes_loaded": 4`)
	})

	t.Run("unknown format", func(t *testing.T) {
		err := renderLoadReport(&bytes.Buffer{}, report, "yaml")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown format")
	})
}

func TestRenderViolations(t *testing.T) {
	violations := []schemas.Violation{
		{Rule: "features-have-owners", Severity: schemas.SeverityError, RefID: "feature:checkout", Description: "feature:checkout has no part_of edge"},
		{Rule: "no-direct-entity-use", Severity: schemas.SeverityWarning, RefID: "service:billing", Description: "service:billing touches entity:invoice directly"},
	}

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, renderViolations(&buf, violations, "text"))
		out := buf.String()
		assert.Contains(t, out, "[error] features-have-owners")
		assert.Contains(t, out, "2 violation(s)")
	})

	t.Run("text empty", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, renderViolations(&buf, nil, "text"))
		assert.Equal(t, "no violations\n", buf.String())
	})

	t.Run("porcelain is one line per violation", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, renderViolations(&buf, violations, "porcelain"))
		assert.Equal(t,
			"error\tfeatures-have-owners\tfeature:checkout\tfeature:checkout has no part_of edge\n"+
				"warning\tno-direct-entity-use\tservice:billing\tservice:billing touches entity:invoice directly\n",
			buf.String())
	})

	t.Run("json nil renders empty array", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, renderViolations(&buf, nil, "json"))
		assert.Equal(t, "[]\n", buf.String())
	})
}

func TestRenderDiff(t *testing.T) {
	diff := schemas.GraphDiff{
		AddedNodes:   []schemas.Node{{RefID: "service:search", Kind: schemas.KindService}},
		RemovedEdges: []schemas.Edge{{Src: "service:web", Dst: "service:legacy", Kind: schemas.EdgeDependsOn}},
		ChangedNodes: []schemas.NodeChange{{RefID: "domain:sales", Kind: schemas.KindDomain, OldSummary: "old", NewSummary: "new"}},
	}

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, renderDiff(&buf, diff, "text"))
		out := buf.String()
		assert.Contains(t, out, "+ node service:search (service)")
		assert.Contains(t, out, "- edge service:web -depends_on-> service:legacy")
		assert.Contains(t, out, `~ node domain:sales (domain): "old" -> "new"`)
	})

	t.Run("text no changes", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, renderDiff(&buf, schemas.GraphDiff{}, "text"))
		assert.Equal(t, "no changes\n", buf.String())
	})
}

func TestRenderImpact(t *testing.T) {
	report := schemas.ImpactReport{
		Focus:                "entity:order",
		Found:                true,
		DirectDownstream:     2,
		TransitiveDownstream: 3,
		StaleDocs:            1,
		Downstream: &schemas.Tree{
			Found: true,
			Root: &schemas.TreeNode{
				RefID: "entity:order",
				Kind:  schemas.KindEntity,
				Children: []*schemas.TreeNode{
					{
						RefID: "service:billing",
						Kind:  schemas.KindService,
						Via:   schemas.EdgeUses,
						Children: []*schemas.TreeNode{
							{RefID: "feature:invoicing", Kind: schemas.KindFeature, Via: schemas.EdgePartOf},
						},
					},
				},
			},
		},
	}

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, renderImpact(&buf, report, "text"))
		out := buf.String()
		assert.Contains(t, out, "impact of entity:order")
		assert.Contains(t, out, "direct downstream:     2")
		assert.Contains(t, out, "  service:billing (service, via uses)")
		assert.Contains(t, out, "    feature:invoicing (feature, via part_of)")
	})

	t.Run("text not found", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, renderImpact(&buf, schemas.ImpactReport{Focus: "ghost"}, "text"))
		assert.Equal(t, "node \"ghost\" not found\n", buf.String())
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, renderImpact(&buf, report, "json"))
		assert.Contains(t, buf.String(), `"transitive_downstream": 3`)
	})
}

func TestRenderSnapshots(t *testing.T) {
	t.Run("text empty", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, renderSnapshots(&buf, nil, "text"))
		assert.Equal(t, "no snapshots\n", buf.String())
	})

	t.Run("text table", func(t *testing.T) {
		var buf bytes.Buffer
		infos := []schemas.SnapshotInfo{
			{ID: 2, Label: "pre-release", NodeCount: 40, EdgeCount: 61, SymbolsCount: 5},
			{ID: 1, Label: "snap-1a2b3c4d", NodeCount: 38, EdgeCount: 60},
		}
		require.NoError(t, renderSnapshots(&buf, infos, "text"))
		out := buf.String()
		assert.Contains(t, out, "ID")
		assert.Contains(t, out, "pre-release")
		assert.Contains(t, out, "snap-1a2b3c4d")
	})

	t.Run("json nil renders empty array", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, renderSnapshots(&buf, nil, "json"))
		assert.Equal(t, "[]\n", buf.String())
	})
}
