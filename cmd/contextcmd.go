package cmd

import (
	"github.com/spf13/cobra"

	"github.com/kestrelworks/archgraph-cli/api/schemas"
	"github.com/kestrelworks/archgraph-cli/internal/traverse"
)

func newContextCmd(provider storeProvider) *cobra.Command {
	var (
		depth     int
		maxNodes  int
		maxChunks int
		reverse   bool
	)

	contextCmd := &cobra.Command{
		Use:   "context <ref_id>",
		Short: "Assemble a context bundle for a node",
		Long: `Walks the node's neighborhood breadth-first, bounded by depth and budget,
and emits the admitted nodes with their documentation chunks as JSON.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := getConfigFromContext(ctx)
			if err != nil {
				return err
			}

			s, cleanup, err := provider.Create(ctx, cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			graph, err := s.GetGraph(ctx)
			if err != nil {
				return err
			}

			opts := traverse.BundleOptions{
				MaxDepth:  cfg.Traversal.MaxDepth,
				MaxNodes:  cfg.Traversal.MaxNodes,
				MaxChunks: cfg.Traversal.MaxChunks,
			}
			if depth > 0 {
				opts.MaxDepth = depth
			}
			if maxNodes > 0 {
				opts.MaxNodes = maxNodes
			}
			if maxChunks > 0 {
				opts.MaxChunks = maxChunks
			}
			if reverse {
				opts.Direction = schemas.DirectionReverse
			}

			bundle, err := traverse.BuildBundle(ctx, traverse.New(graph), args[0], s, opts)
			if err != nil {
				return err
			}
			return renderJSON(cmd.OutOrStdout(), bundle)
		},
	}

	contextCmd.Flags().IntVarP(&depth, "depth", "d", 0, "maximum traversal depth")
	contextCmd.Flags().IntVar(&maxNodes, "max-nodes", 0, "node budget for the bundle")
	contextCmd.Flags().IntVar(&maxChunks, "max-chunks", 0, "doc-chunk budget for the bundle")
	contextCmd.Flags().BoolVar(&reverse, "reverse", false, "walk incoming edges instead of outgoing")
	return contextCmd
}
