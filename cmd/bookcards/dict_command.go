package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"bookcards/pkg/dictionary"
)

func newDictCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dict",
		Short: "Manage the JMdict dictionary dump",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "fetch",
		Short: "Download the dictionary dump if it is missing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if err := dictionary.Ensure(cmd.Context(), cfg.Paths.DictionaryPath); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Dictionary ready at %s\n", cfg.Paths.DictionaryPath)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "lookup TEXT",
		Short: "Show dictionary entries for a word",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dict, err := ctx.openDictionary()
			if err != nil {
				return err
			}
			entries := dict.Lookup(args[0])
			if len(entries) == 0 {
				return fmt.Errorf("no entry for %q", args[0])
			}
			var rows [][]string
			for _, e := range entries {
				rows = append(rows, []string{
					strings.Join(e.KanjiForms(), "、"),
					strings.Join(e.KanaForms(), "、"),
					strings.Join(e.Meanings(), " # "),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"KANJI", "KANA", "MEANINGS"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft},
			))
			return nil
		},
	})

	return cmd
}
