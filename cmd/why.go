package cmd

import (
	"github.com/spf13/cobra"

	"github.com/kestrelworks/archgraph-cli/internal/traverse"
)

func newWhyCmd(provider storeProvider) *cobra.Command {
	var (
		depth  int
		format string
	)

	whyCmd := &cobra.Command{
		Use:   "why <ref_id>",
		Short: "Show what depends on a node, and what it depends on",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := getConfigFromContext(ctx)
			if err != nil {
				return err
			}
			if depth <= 0 {
				depth = cfg.Traversal.MaxDepth
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

			report, err := traverse.Impact(ctx, traverse.New(graph), args[0], depth, s)
			if err != nil {
				return err
			}
			return renderImpact(cmd.OutOrStdout(), report, format)
		},
	}

	whyCmd.Flags().IntVarP(&depth, "depth", "d", 0, "maximum traversal depth (default: traversal.max_depth)")
	whyCmd.Flags().StringVarP(&format, "format", "f", "text", "output format: text or json")
	return whyCmd
}
