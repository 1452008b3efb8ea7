package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"bookcards/pkg/cards"
	"bookcards/pkg/schedule"
)

// planItem names one item of one source in a plan file.
type planItem struct {
	Value  string `yaml:"value"`
	Source string `yaml:"source"`
}

// planFile is the YAML decision file driving one study round.
type planFile struct {
	KnownVocab     []planItem `yaml:"known_vocab"`
	KnownKanji     []planItem `yaml:"known_kanji"`
	SuspendVocab   []planItem `yaml:"suspend_vocab"`
	SuspendKanji   []planItem `yaml:"suspend_kanji"`
	OfInterest     []planItem `yaml:"of_interest"`
	NextRoundKanji []planItem `yaml:"next_round_kanji"`
	NextRoundVocab []planItem `yaml:"next_round_vocab"`
	LaterVocab     []planItem `yaml:"later_vocab"`
}

func newPlanCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Plan and commit a study round from a YAML decision file",
	}
	cmd.AddCommand(newPlanPreviewCommand(ctx))
	cmd.AddCommand(newPlanApplyCommand(ctx))
	return cmd
}

func newPlanPreviewCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "preview PLAN.yaml",
		Short: "Apply a decision file and show the resulting round without committing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := buildPlanner(ctx, args[0])
			if err != nil {
				return err
			}
			printPlan(cmd, p)
			return nil
		},
	}
}

func newPlanApplyCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "apply PLAN.yaml",
		Short: "Apply a decision file, write the card files, and persist the new state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := buildPlanner(ctx, args[0])
			if err != nil {
				return err
			}
			printPlan(cmd, p)

			builder, cleanup, err := buildMaterializer(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			paths, err := p.EndScheduling(cmd.Context(), builder, cfg.Paths.CardsDir)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Vocab cards: %s\nKanji cards: %s\n", paths.Vocab, paths.Kanji)
			return nil
		},
	}
}

// buildPlanner loads the store and decision file and stages every decision.
func buildPlanner(ctx *commandContext, path string) (*schedule.Planner, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var plan planFile
	if err := yaml.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("parse plan file: %w", err)
	}

	p, err := ctx.newPlanner()
	if err != nil {
		return nil, err
	}

	steps := []struct {
		items []planItem
		apply func(value, source string) error
		what  string
	}{
		{plan.KnownVocab, p.SetVocabKnown, "known_vocab"},
		{plan.KnownKanji, p.SetKanjiKnown, "known_kanji"},
		{plan.SuspendVocab, p.SuspendVocab, "suspend_vocab"},
		{plan.SuspendKanji, p.SuspendKanji, "suspend_kanji"},
		{plan.OfInterest, p.AddVocabOfInterest, "of_interest"},
		{plan.NextRoundKanji, p.AddKanjiForNextRound, "next_round_kanji"},
		{plan.NextRoundVocab, p.AddVocabForNextRound, "next_round_vocab"},
		{plan.LaterVocab, p.AddVocabForRoundsAfterNext, "later_vocab"},
	}
	for _, step := range steps {
		for _, item := range step.items {
			if err := step.apply(item.Value, item.Source); err != nil {
				return nil, fmt.Errorf("%s %q (%s): %w", step.what, item.Value, item.Source, err)
			}
		}
	}
	return p, nil
}

// buildMaterializer assembles the card builder with whatever optional pieces
// are available: dictionary, corpus, translation.
func buildMaterializer(ctx *commandContext) (*cards.Builder, func(), error) {
	logger, err := ctx.ensureLogger()
	if err != nil {
		return nil, nil, err
	}
	store, err := ctx.openStore()
	if err != nil {
		return nil, nil, err
	}

	builder := &cards.Builder{
		Store:             store,
		MaxSourceExamples: 3,
		MaxCorpusExamples: 3,
		Logger:            logger,
	}
	cleanup := func() {}

	dict, err := ctx.openDictionary()
	if err != nil {
		logger.Warn("building cards without dictionary", "error", err)
	} else {
		builder.Dict = dict
	}

	c, err := ctx.openCorpus()
	if err != nil {
		return nil, nil, err
	}
	if c != nil {
		builder.Corpus = c
		cleanup = func() { c.Close() }
	}

	translator, err := ctx.translator()
	if err != nil {
		return nil, nil, err
	}
	builder.Translator = translator

	return builder, cleanup, nil
}

func printPlan(cmd *cobra.Command, p *schedule.Planner) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Round capacity %d, staged %d\n", p.Capacity(), p.Load())

	section := func(name string, items []schedule.ValueSource) {
		if len(items) == 0 {
			return
		}
		rows := make([][]string, 0, len(items))
		for _, vs := range items {
			rows = append(rows, []string{vs.Value, vs.Source})
		}
		fmt.Fprintf(out, "%s:\n%s\n", name, renderTable(
			[]string{"ITEM", "SOURCE"},
			rows,
			[]columnAlignment{alignLeft, alignLeft},
		))
	}
	section("Vocab for next round", p.CommittedVocab())
	section("Kanji for next round", p.CommittedKanji())
	section("Vocab for later rounds", p.DeferredVocab())
	section("Still undecided", p.UncertainVocab())
}
