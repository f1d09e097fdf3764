package cmd

import (
	"context"

	internalApp "github.com/haierkeys/fast-latex-notes/internal/app"
	"github.com/haierkeys/fast-latex-notes/internal/dto"
	"github.com/haierkeys/fast-latex-notes/pkg/code"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// validateRequest 使用与 HTTP 接口相同的 binding 规则校验参数
func validateRequest(req any) error {
	v, err := newValidator()
	if err != nil {
		return err
	}
	if err := v.ValidateStruct(req); err != nil {
		return errors.Wrap(code.ErrorInvalidParams, err.Error())
	}
	return nil
}

func newEquationCmd() *cobra.Command {
	equationCmd := &cobra.Command{
		Use:          "equation",
		Short:        "Manage saved equations",
		SilenceUsage: true,
	}

	var (
		filter  string
		grouped bool
	)
	listCmd := &cobra.Command{
		Use:   "list [--filter all|favorite|<group>] [--grouped]",
		Short: "List equations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, a *internalApp.App) error {
				if grouped {
					sections, err := a.EquationService.Sections(ctx, filter)
					if err != nil {
						return err
					}
					return printJSON(cmd.OutOrStdout(), sections)
				}
				list, err := a.EquationService.List(ctx, filter)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), list)
			})
		},
	}
	listCmd.Flags().StringVar(&filter, "filter", "", "all, favorite or a group name such as Blue or Other")
	listCmd.Flags().BoolVar(&grouped, "grouped", false, "group the result by color tag")

	getCmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Show one equation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, a *internalApp.App) error {
				e, err := a.EquationService.Get(ctx, args[0])
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), e)
			})
		},
	}

	create := &dto.EquationCreateRequest{}
	createCmd := &cobra.Command{
		Use:   "create --title <title> --latex <latex> --tag <tag> [--tag <tag>...]",
		Short: "Create an equation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateRequest(create); err != nil {
				return err
			}
			return withApp(func(ctx context.Context, a *internalApp.App) error {
				e, err := a.EquationService.Create(ctx, create)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), e)
			})
		},
	}
	createCmd.Flags().StringVar(&create.Title, "title", "", "equation title")
	createCmd.Flags().StringVar(&create.Latex, "latex", "", "LaTeX source")
	createCmd.Flags().StringSliceVar(&create.Tags, "tag", nil, "color tag name or value, repeatable")

	edit := &dto.EquationEditRequest{}
	editCmd := &cobra.Command{
		Use:   "edit <id> --title <title> --latex <latex> --tag <tag>",
		Short: "Replace title, LaTeX and tags of an equation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			edit.ID = args[0]
			if err := validateRequest(edit); err != nil {
				return err
			}
			return withApp(func(ctx context.Context, a *internalApp.App) error {
				e, err := a.EquationService.Edit(ctx, edit)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), e)
			})
		},
	}
	editCmd.Flags().StringVar(&edit.Title, "title", "", "equation title")
	editCmd.Flags().StringVar(&edit.Latex, "latex", "", "LaTeX source")
	editCmd.Flags().StringSliceVar(&edit.Tags, "tag", nil, "color tag name or value, repeatable")

	duplicateCmd := &cobra.Command{
		Use:   "duplicate <id>",
		Short: "Copy an equation under a new id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, a *internalApp.App) error {
				e, err := a.EquationService.Duplicate(ctx, args[0])
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), e)
			})
		},
	}

	favoriteCmd := &cobra.Command{
		Use:   "favorite <id>",
		Short: "Toggle the favorite flag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, a *internalApp.App) error {
				e, err := a.EquationService.Favorite(ctx, args[0])
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), e)
			})
		},
	}

	deleteCmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an equation, unknown ids are ignored",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, a *internalApp.App) error {
				return a.EquationService.Delete(ctx, args[0])
			})
		},
	}

	deleteAllCmd := &cobra.Command{
		Use:   "delete-all",
		Short: "Remove every equation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, a *internalApp.App) error {
				return a.EquationService.DeleteAll(ctx)
			})
		},
	}

	colorTagsCmd := &cobra.Command{
		Use:   "color-tags",
		Short: "List color tag names and values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, a *internalApp.App) error {
				return printJSON(cmd.OutOrStdout(), a.EquationService.ColorTags())
			})
		},
	}

	equationCmd.AddCommand(listCmd, getCmd, createCmd, editCmd, duplicateCmd, favoriteCmd, deleteCmd, deleteAllCmd, colorTagsCmd)
	return equationCmd
}

func init() {
	rootCmd.AddCommand(newEquationCmd())
}
