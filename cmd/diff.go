package cmd

import (
	"github.com/spf13/cobra"

	"github.com/kestrelworks/archgraph-cli/api/schemas"
	"github.com/kestrelworks/archgraph-cli/internal/gitsource"
	"github.com/kestrelworks/archgraph-cli/internal/graphdiff"
	"github.com/kestrelworks/archgraph-cli/internal/loader"
)

// newDiffCmd compares YAML-derived states, not the stored graph, so it takes
// no store provider.
func newDiffCmd() *cobra.Command {
	var (
		fromRev string
		toRev   string
		format  string
	)

	diffCmd := &cobra.Command{
		Use:   "diff",
		Short: "Compare the graph against a git revision",
		Long: `Loads the graph-definition files as they existed at --from (and optionally
--to) and reports the structural differences. When --to is omitted the working
tree is the new side of the comparison.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := getConfigFromContext(cmd.Context())
			if err != nil {
				return err
			}

			old, err := revisionGraph(cfg.Sources.Root, fromRev, cfg.Sources.Patterns)
			if err != nil {
				return err
			}

			var newState schemas.Subgraph
			if toRev != "" {
				if newState, err = revisionGraph(cfg.Sources.Root, toRev, cfg.Sources.Patterns); err != nil {
					return err
				}
			} else {
				if newState, err = workingTreeGraph(cfg.Sources.Root, cfg.Sources.Patterns); err != nil {
					return err
				}
			}

			diff := graphdiff.Compute(old, newState)
			return renderDiff(cmd.OutOrStdout(), diff, format)
		},
	}

	diffCmd.Flags().StringVar(&fromRev, "from", "HEAD", "revision for the old side of the comparison")
	diffCmd.Flags().StringVar(&toRev, "to", "", "revision for the new side (default: working tree)")
	diffCmd.Flags().StringVarP(&format, "format", "f", "text", "output format: text or json")
	return diffCmd
}

// revisionGraph builds the graph state as it existed at a revision. Loader
// diagnostics are ignored here on purpose: a historical revision cannot be
// fixed, only compared.
func revisionGraph(root, revision string, patterns []string) (schemas.Subgraph, error) {
	docs, err := gitsource.DocumentsAt(root, revision, patterns)
	if err != nil {
		return schemas.Subgraph{}, err
	}
	res := loader.Build(docs)
	return schemas.Subgraph{Nodes: res.Nodes, Edges: res.Edges}, nil
}

func workingTreeGraph(root string, patterns []string) (schemas.Subgraph, error) {
	paths, err := loader.Discover(root, patterns)
	if err != nil {
		return schemas.Subgraph{}, err
	}
	docs, err := loader.ParseFiles(paths)
	if err != nil {
		return schemas.Subgraph{}, err
	}
	res := loader.Build(docs)
	return schemas.Subgraph{Nodes: res.Nodes, Edges: res.Edges}, nil
}
