package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kestrelworks/archgraph-cli/internal/indexer"
)

func newReindexCmd(provider storeProvider) *cobra.Command {
	var (
		strict      bool
		incremental bool
		format      string
	)

	reindexCmd := &cobra.Command{
		Use:   "reindex",
		Short: "Rebuild the graph from the definition files",
		Long: `Discovers graph-definition YAML files, validates them, and replaces the
stored graph in a single transaction. With --incremental, loaded records are
upserted instead and nothing else is touched.`,
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

			ix := indexer.New(s, cmdLogger())
			report, err := ix.Reindex(ctx, cfg.Sources.Root, cfg.Sources.Patterns, indexer.Options{
				Strict:      strict,
				Incremental: incremental,
			})
			if err != nil && !errors.Is(err, indexer.ErrStrictDiagnostics) {
				return err
			}

			if renderErr := renderLoadReport(cmd.OutOrStdout(), report, format); renderErr != nil {
				return renderErr
			}
			if err != nil {
				return fmt.Errorf("reindex aborted: %w", err)
			}
			return nil
		},
	}

	reindexCmd.Flags().BoolVar(&strict, "strict", false, "treat any diagnostic as fatal and commit nothing")
	reindexCmd.Flags().BoolVar(&incremental, "incremental", false, "upsert loaded records instead of replacing the graph")
	reindexCmd.Flags().StringVarP(&format, "format", "f", "text", "output format: text or json")
	return reindexCmd
}
