package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"bookcards/pkg/ingest"
)

func newIngestCommand(ctx *commandContext) *cobra.Command {
	var urlFlag string
	var hiddenFlag bool

	cmd := &cobra.Command{
		Use:   "ingest NAME [FILE]",
		Short: "Analyze a document and track its vocabulary under source NAME",
		Long: `Analyze a document and track its vocabulary, kanji, and sentences under
source NAME. The text comes from FILE, or from a web page when --url is
given (the readable article body is extracted). Re-ingesting a source only
adds what is new.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]

			var text string
			switch {
			case urlFlag != "":
				if len(args) == 2 {
					return fmt.Errorf("pass either FILE or --url, not both")
				}
				title, body, err := ingest.FetchArticle(cmd.Context(), urlFlag)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Fetched %q (%d chars)\n", title, len(body))
				text = body
			case len(args) == 2:
				data, err := os.ReadFile(args[1])
				if err != nil {
					return err
				}
				text = string(data)
			default:
				return fmt.Errorf("pass a FILE to read or --url to fetch")
			}

			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			analyzer, err := ctx.newAnalyzer()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			ig := &ingest.Ingester{
				Store:                store,
				Analyzer:             analyzer,
				Workers:              cfg.Ingest.Workers,
				DropASCIITokens:      cfg.Ingest.DropASCIITokens,
				MaxSequencesPerToken: cfg.Ingest.MaxSequencesPerToken,
				Logger:               logger,
			}
			report, err := ig.AddDocument(cmd.Context(), name, text, hiddenFlag)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d sentences, %d tokens, %d kanji (%d tokens already tracked)\n",
				report.Source, report.Sentences, report.Tokens, report.Kanjis, report.SkippedTokens)
			return nil
		},
	}

	cmd.Flags().StringVar(&urlFlag, "url", "", "Fetch the document from this URL instead of a file")
	cmd.Flags().BoolVar(&hiddenFlag, "hidden", false, "Hide the source from listings")
	return cmd
}
