package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"bookcards/pkg/corpus"
)

func newCorpusCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "corpus",
		Short: "Manage the Tatoeba example corpus",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "import SENTENCES.tsv LINKS.tsv",
		Short: "Import the Tatoeba sentence and link dumps",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			sentences, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer sentences.Close()
			links, err := os.Open(args[1])
			if err != nil {
				return err
			}
			defer links.Close()

			c, err := corpus.Open(cfg.Paths.CorpusPath)
			if err != nil {
				return err
			}
			defer c.Close()

			n, err := c.Import(cmd.Context(), sentences, links)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d sentences into %s\n", n, cfg.Paths.CorpusPath)
			return nil
		},
	})

	examples := &cobra.Command{
		Use:   "examples TOKEN",
		Short: "Show corpus example sentences containing TOKEN",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := ctx.openCorpus()
			if err != nil {
				return err
			}
			if c == nil {
				return fmt.Errorf("no corpus imported yet; run `bookcards corpus import` first")
			}
			defer c.Close()

			limit, err := cmd.Flags().GetInt("limit")
			if err != nil {
				return err
			}
			found, err := c.Examples(args[0], limit)
			if err != nil {
				return err
			}
			for _, ex := range found {
				fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", ex.Text, ex.Translation)
			}
			return nil
		},
	}
	examples.Flags().Int("limit", 5, "Maximum number of examples")
	cmd.AddCommand(examples)

	return cmd
}
