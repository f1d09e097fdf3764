package cmd

import (
	"context"
	"fmt"

	internalApp "github.com/haierkeys/fast-latex-notes/internal/app"

	"github.com/spf13/cobra"
)

func newRenderURLCmd() *cobra.Command {
	var dark bool
	cmd := &cobra.Command{
		Use:          "render-url <latex> [--dark]",
		Short:        "Print the image url of a LaTeX expression",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, a *internalApp.App) error {
				var theme *bool
				if cmd.Flags().Changed("dark") {
					theme = &dark
				}
				_, err := fmt.Fprintln(cmd.OutOrStdout(), a.RenderService.DisplayURL(args[0], theme).URL)
				return err
			})
		},
	}
	cmd.Flags().BoolVar(&dark, "dark", false, "white text for dark backgrounds, defaults to render.dark")
	return cmd
}

func init() {
	rootCmd.AddCommand(newRenderURLCmd())
}
