package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/kestrelworks/archgraph-cli/internal/snapshot"
)

func newSnapshotCmd(provider storeProvider) *cobra.Command {
	snapshotCmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Save, list, and compare point-in-time copies of the graph",
	}
	snapshotCmd.AddCommand(
		newSnapshotSaveCmd(provider),
		newSnapshotListCmd(provider),
		newSnapshotCompareCmd(provider),
	)
	return snapshotCmd
}

func newSnapshotSaveCmd(provider storeProvider) *cobra.Command {
	var label string

	saveCmd := &cobra.Command{
		Use:   "save",
		Short: "Store the current graph as a new snapshot",
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

			id, err := snapshot.New(s, s, s).Save(ctx, label)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "saved snapshot %d\n", id)
			return nil
		},
	}

	saveCmd.Flags().StringVarP(&label, "label", "l", "", "label for the snapshot (default: generated)")
	return saveCmd
}

func newSnapshotListCmd(provider storeProvider) *cobra.Command {
	var format string

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List stored snapshots, newest first",
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

			infos, err := snapshot.New(s, s, s).List(ctx)
			if err != nil {
				return err
			}
			return renderSnapshots(cmd.OutOrStdout(), infos, format)
		},
	}

	listCmd.Flags().StringVarP(&format, "format", "f", "text", "output format: text or json")
	return listCmd
}

func newSnapshotCompareCmd(provider storeProvider) *cobra.Command {
	var format string

	compareCmd := &cobra.Command{
		Use:   "compare <old-id> <new-id>",
		Short: "Diff two stored snapshots",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			oldID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid snapshot id %q: %w", args[0], err)
			}
			newID, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid snapshot id %q: %w", args[1], err)
			}

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

			diff, err := snapshot.New(s, s, s).Compare(ctx, oldID, newID)
			if err != nil {
				return err
			}
			return renderDiff(cmd.OutOrStdout(), diff, format)
		},
	}

	compareCmd.Flags().StringVarP(&format, "format", "f", "text", "output format: text or json")
	return compareCmd
}
