package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"bookcards/pkg/kb"
)

func newSourcesCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sources",
		Short: "Manage tracked sources",
	}
	cmd.AddCommand(newSourcesListCommand(ctx))
	cmd.AddCommand(newSourcesCreateCommand(ctx))
	cmd.AddCommand(newSourcesRemoveCommand(ctx))
	return cmd
}

func newSourcesListCommand(ctx *commandContext) *cobra.Command {
	var allFlag bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List sources and their item counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openStore()
			if err != nil {
				return err
			}

			var rows [][]string
			for _, doc := range store.ListSources(allFlag) {
				tokens, err := store.TokenItems(kb.Query{Source: doc.SourceName})
				if err != nil {
					return err
				}
				kanjis, err := store.KanjiItems(kb.Query{Source: doc.SourceName})
				if err != nil {
					return err
				}
				hidden := ""
				if doc.Hidden {
					hidden = "yes"
				}
				rows = append(rows, []string{
					doc.SourceName,
					strconv.Itoa(len(tokens)),
					strconv.Itoa(len(kanjis)),
					hidden,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"SOURCE", "TOKENS", "KANJI", "HIDDEN"},
				rows,
				[]columnAlignment{alignLeft, alignRight, alignRight, alignLeft},
			))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&allFlag, "all", "a", false, "Include hidden sources")
	return cmd
}

func newSourcesCreateCommand(ctx *commandContext) *cobra.Command {
	var hiddenFlag bool

	cmd := &cobra.Command{
		Use:   "create NAME",
		Short: "Register an empty source",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			if err := store.CreateSource(args[0], hiddenFlag); err != nil {
				return err
			}
			return store.Save(false)
		},
	}
	cmd.Flags().BoolVar(&hiddenFlag, "hidden", false, "Hide the source from listings")
	return cmd
}

func newSourcesRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove NAME",
		Short: "Remove a source and every item tracked under it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			store.RemoveSource(args[0])
			return store.Save(true)
		},
	}
}
