package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"bookcards/pkg/ingest"
)

func newAddTokenCommand(ctx *commandContext) *cobra.Command {
	var exampleFlag string

	cmd := &cobra.Command{
		Use:   "add-token TOKEN SOURCE",
		Short: "Track a single token outside of any document",
		Long: `Track a single token under SOURCE. The token must exist in the
dictionary. An example sentence can be attached with --example.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			dict, err := ctx.openDictionary()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			ig := &ingest.Ingester{Store: store, Dict: dict, Logger: logger}
			if err := ig.AddToken(args[0], args[1], exampleFlag); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Tracking %q under %q\n", args[0], args[1])
			return nil
		},
	}
	cmd.Flags().StringVarP(&exampleFlag, "example", "e", "", "Example sentence to store with the token")
	return cmd
}
