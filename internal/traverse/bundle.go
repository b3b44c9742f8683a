package traverse

import (
	"context"
	"fmt"

	"github.com/kestrelworks/archgraph-cli/api/schemas"
)

// BundleOptions bound a context bundle. Zero budgets fall back to defaults;
// truncation is always in BFS discovery order so closer nodes win.
type BundleOptions struct {
	Direction schemas.Direction
	MaxDepth  int
	MaxNodes  int
	MaxChunks int
}

const (
	defaultBundleDepth  = 2
	defaultBundleNodes  = 25
	defaultBundleChunks = 50
)

func (o BundleOptions) withDefaults() BundleOptions {
	if o.Direction == "" {
		o.Direction = schemas.DirectionForward
	}
	if o.MaxDepth <= 0 {
		o.MaxDepth = defaultBundleDepth
	}
	if o.MaxNodes <= 0 {
		o.MaxNodes = defaultBundleNodes
	}
	if o.MaxChunks <= 0 {
		o.MaxChunks = defaultBundleChunks
	}
	return o
}

// BuildBundle assembles the context bundle for a focus node: the bounded BFS
// neighborhood plus the documentation chunks attached to each admitted node.
// Admission stops as soon as either the node or the chunk budget is reached.
func BuildBundle(ctx context.Context, g *Graph, focus string, docs schemas.DocProvider, opts BundleOptions) (schemas.ContextBundle, error) {
	opts = opts.withDefaults()

	bundle := schemas.ContextBundle{Focus: focus}
	visits, found := g.walk(focus, opts.Direction, opts.MaxDepth)
	if !found {
		return bundle, nil
	}
	bundle.Found = true

	chunkTotal := 0
	for i, v := range visits {
		node, _ := g.Node(v.refID)
		entry := schemas.BundleNode{
			RefID:   v.refID,
			Kind:    v.kind,
			Summary: node.Summary,
			Depth:   v.depth,
			Via:     v.via,
		}
		if docs != nil {
			chunks, err := docs.DocChunksFor(ctx, v.refID)
			if err != nil {
				return schemas.ContextBundle{}, fmt.Errorf("failed to fetch doc chunks for %q: %w", v.refID, err)
			}
			entry.Chunks = chunks
			chunkTotal += len(chunks)
		}
		bundle.Nodes = append(bundle.Nodes, entry)

		if i < len(visits)-1 && (len(bundle.Nodes) >= opts.MaxNodes || chunkTotal >= opts.MaxChunks) {
			bundle.Truncated = true
			break
		}
	}
	return bundle, nil
}
