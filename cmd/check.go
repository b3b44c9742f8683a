package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kestrelworks/archgraph-cli/api/schemas"
	"github.com/kestrelworks/archgraph-cli/internal/rules"
)

func newCheckCmd(provider storeProvider) *cobra.Command {
	var (
		rulesFile string
		format    string
		strict    bool
	)

	checkCmd := &cobra.Command{
		Use:   "check",
		Short: "Evaluate architectural rules against the stored graph",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := getConfigFromContext(ctx)
			if err != nil {
				return err
			}

			data, err := os.ReadFile(rulesFile)
			if err != nil {
				return fmt.Errorf("failed to read rules file: %w", err)
			}
			ruleSet, err := rules.Parse(data)
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

			violations := rules.EvaluateAll(graph, ruleSet)
			if err := renderViolations(cmd.OutOrStdout(), violations, format); err != nil {
				return err
			}

			for _, v := range violations {
				if v.Severity == schemas.SeverityError || strict {
					return fmt.Errorf("%d rule violation(s)", len(violations))
				}
			}
			return nil
		},
	}

	checkCmd.Flags().StringVarP(&rulesFile, "rules", "r", "graph/rules.yaml", "rule document to evaluate")
	checkCmd.Flags().StringVarP(&format, "format", "f", "text", "output format: text, porcelain or json")
	checkCmd.Flags().BoolVar(&strict, "strict", false, "fail on warnings as well as errors")
	return checkCmd
}
