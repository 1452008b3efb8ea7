package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"bookcards/pkg/kb"
	"bookcards/pkg/schedule"
)

func newStudiableCommand(ctx *commandContext) *cobra.Command {
	var (
		sourceFlag   string
		minCountFlag int
		priorityFlag string
	)

	cmd := &cobra.Command{
		Use:   "studiable {voc|kanji}",
		Short: "List items still open for the next study round",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := ctx.newPlanner()
			if err != nil {
				return err
			}
			filter := schedule.StudiableFilter{
				Source:   sourceFlag,
				MinCount: minCountFlag,
			}
			if priorityFlag != "" {
				prio, err := kb.ParsePriority(priorityFlag)
				if err != nil {
					return err
				}
				filter.Priority = &prio
			}

			switch args[0] {
			case "voc":
				rows, err := p.StudiableVocab(filter)
				if err != nil {
					return err
				}
				out := make([][]string, 0, len(rows))
				for _, r := range rows {
					out = append(out, []string{
						r.Token,
						strconv.Itoa(r.Count),
						r.SourceName,
						r.Priority.String(),
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"TOKEN", "COUNT", "SOURCE", "PRIORITY"},
					out,
					[]columnAlignment{alignLeft, alignRight, alignLeft, alignLeft},
				))
			case "kanji":
				rows, err := p.StudiableKanji(filter)
				if err != nil {
					return err
				}
				out := make([][]string, 0, len(rows))
				for _, r := range rows {
					out = append(out, []string{
						r.Kanji,
						strings.Join(r.Tokens, "、"),
						r.SourceName,
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"KANJI", "TOKENS", "SOURCE"},
					out,
					[]columnAlignment{alignLeft, alignLeft, alignLeft},
				))
			default:
				return fmt.Errorf("unknown item kind %q (want voc or kanji)", args[0])
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&sourceFlag, "source", "s", "", "Limit to one source")
	cmd.Flags().IntVar(&minCountFlag, "min-count", 0, "Minimum occurrence count (voc only)")
	cmd.Flags().StringVar(&priorityFlag, "priority", "", "Only one priority: low, normal or high (voc only)")
	return cmd
}
