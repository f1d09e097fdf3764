package cmd

import (
	"context"

	internalApp "github.com/haierkeys/fast-latex-notes/internal/app"

	"github.com/spf13/cobra"
)

func newTemplateCmd() *cobra.Command {
	templateCmd := &cobra.Command{
		Use:          "template",
		Short:        "Browse the formula template catalog",
		SilenceUsage: true,
	}

	categoriesCmd := &cobra.Command{
		Use:   "categories",
		Short: "List category names in display order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, a *internalApp.App) error {
				return printJSON(cmd.OutOrStdout(), a.TemplateService.Categories())
			})
		},
	}

	var category string
	listCmd := &cobra.Command{
		Use:   "list [--category <name>]",
		Short: "List templates of one category or of all",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, a *internalApp.App) error {
				cats, err := a.TemplateService.Templates(category)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), cats)
			})
		},
	}
	listCmd.Flags().StringVar(&category, "category", "", "category name, empty or all for every category")

	templateCmd.AddCommand(categoriesCmd, listCmd)
	return templateCmd
}

func init() {
	rootCmd.AddCommand(newTemplateCmd())
}
