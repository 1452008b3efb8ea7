package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"bookcards/pkg/kb"
)

func newMarkCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mark",
		Short: "Change the study state of an item directly",
	}

	table := func(kind string) (kb.Table, error) {
		switch kind {
		case "voc":
			return kb.TableTokens, nil
		case "kanji":
			return kb.TableKanjis, nil
		}
		return 0, fmt.Errorf("unknown item kind %q (want voc or kanji)", kind)
	}

	global := func(use, short string, apply func(*kb.Store, kb.Table, string) error) *cobra.Command {
		return &cobra.Command{
			Use:   use + " {voc|kanji} VALUE",
			Short: short,
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				tbl, err := table(args[0])
				if err != nil {
					return err
				}
				store, err := ctx.openStore()
				if err != nil {
					return err
				}
				if err := apply(store, tbl, args[1]); err != nil {
					return err
				}
				return store.Save(false)
			},
		}
	}

	perSource := func(use, short string, apply func(*kb.Store, kb.Table, string, string) error) *cobra.Command {
		return &cobra.Command{
			Use:   use + " {voc|kanji} VALUE SOURCE",
			Short: short,
			Args:  cobra.ExactArgs(3),
			RunE: func(cmd *cobra.Command, args []string) error {
				tbl, err := table(args[0])
				if err != nil {
					return err
				}
				store, err := ctx.openStore()
				if err != nil {
					return err
				}
				if err := apply(store, tbl, args[1], args[2]); err != nil {
					return err
				}
				return store.Save(false)
			},
		}
	}

	cmd.AddCommand(global("known", "Mark an item as known in every source", (*kb.Store).MarkKnown))
	cmd.AddCommand(global("unknown", "Mark an item as not known in every source", (*kb.Store).MarkUnknown))
	cmd.AddCommand(perSource("added", "Mark an item of one source as already turned into cards", (*kb.Store).MarkAdded))
	cmd.AddCommand(perSource("suspended", "Exclude an item of one source from study", (*kb.Store).MarkSuspended))
	return cmd
}
