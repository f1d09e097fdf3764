package cmd

import (
	"context"
	"fmt"

	internalApp "github.com/haierkeys/fast-latex-notes/internal/app"

	"github.com/spf13/cobra"
)

func newBackupCmd() *cobra.Command {
	backupCmd := &cobra.Command{
		Use:          "backup",
		Short:        "Snapshots of the equation document",
		SilenceUsage: true,
	}

	snapshotCmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Copy the current document and prune old snapshots",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, a *internalApp.App) error {
				snap, ok, err := a.BackupService.Snapshot(ctx)
				if err != nil {
					return err
				}
				if !ok {
					_, err = fmt.Fprintln(cmd.OutOrStdout(), "nothing to back up")
					return err
				}
				return printJSON(cmd.OutOrStdout(), snap)
			})
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List snapshots, oldest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, a *internalApp.App) error {
				list, err := a.BackupService.List(ctx)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), list)
			})
		},
	}

	backupCmd.AddCommand(snapshotCmd, listCmd)
	return backupCmd
}

func init() {
	rootCmd.AddCommand(newBackupCmd())
}
