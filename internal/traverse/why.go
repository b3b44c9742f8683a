package traverse

import (
	"context"
	"fmt"

	"github.com/kestrelworks/archgraph-cli/api/schemas"
)

// Impact runs the traversal in both directions from a focus node and
// aggregates the dependency-impact summary: direct downstream dependents
// (depth-1 reverse children), transitive downstream (full reverse tree minus
// the root), and how many reachable nodes have stale documentation according
// to the sync collaborator. An unknown focus yields a zeroed not-found report.
func Impact(ctx context.Context, g *Graph, focus string, maxDepth int, sync schemas.SyncProvider) (schemas.ImpactReport, error) {
	report := schemas.ImpactReport{Focus: focus}

	downstream := g.BFS(focus, schemas.DirectionReverse, maxDepth)
	if !downstream.Found {
		return report, nil
	}
	upstream := g.BFS(focus, schemas.DirectionForward, maxDepth)

	report.Found = true
	report.Downstream = &downstream
	report.Upstream = &upstream
	report.DirectDownstream = len(downstream.Root.Children)
	report.TransitiveDownstream = downstream.Root.Size() - 1

	if sync != nil {
		reachable := make(map[string]struct{})
		collectRefs(downstream.Root, reachable)
		collectRefs(upstream.Root, reachable)
		for refID := range reachable {
			status, err := sync.SyncStatusFor(ctx, refID)
			if err != nil {
				return schemas.ImpactReport{}, fmt.Errorf("failed to fetch sync status for %q: %w", refID, err)
			}
			if status.Stale {
				report.StaleDocs++
			}
		}
	}
	return report, nil
}

func collectRefs(node *schemas.TreeNode, out map[string]struct{}) {
	if node == nil {
		return
	}
	out[node.RefID] = struct{}{}
	for _, c := range node.Children {
		collectRefs(c, out)
	}
}
