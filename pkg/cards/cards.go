// Package cards turns tracked items into flashcard rows ready for import
// into a spaced-repetition app.
package cards

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"bookcards/pkg/corpus"
	"bookcards/pkg/dictionary"
	"bookcards/pkg/kb"
	"bookcards/pkg/translate"
)

// VocabCard is one vocabulary flashcard. A token with several dictionary
// entries yields several cards.
type VocabCard struct {
	Token      string
	Reading    string
	Common     bool
	Meanings   string
	Examples   []string
	SourceName string
}

// KanjiCard is one kanji flashcard, keyed to the vocabulary it appears in.
type KanjiCard struct {
	Kanji      string
	Tokens     []string
	SourceName string
}

// ExampleSource serves corpus example sentences for a token.
type ExampleSource interface {
	Examples(token string, limit int) ([]corpus.Example, error)
}

// Builder assembles cards from the store, the dictionary, and optional
// example/translation providers.
type Builder struct {
	Store *kb.Store
	Dict  *dictionary.Dictionary
	// Corpus and Translator are optional; cards are built without corpus
	// examples or translations when they are nil.
	Corpus     ExampleSource
	Translator translate.Translator

	MaxSourceExamples int
	MaxCorpusExamples int

	Logger *slog.Logger
}

func (b *Builder) log() *slog.Logger {
	if b.Logger != nil {
		return b.Logger
	}
	return slog.Default()
}

// VocabCards builds one card per dictionary entry for each item. Items with
// no dictionary entry get a bare card so they are not silently lost.
func (b *Builder) VocabCards(ctx context.Context, items []kb.TokenItem) ([]VocabCard, error) {
	var out []VocabCard
	for _, item := range items {
		examples, err := b.exampleLines(ctx, item)
		if err != nil {
			return nil, err
		}

		var entries []dictionary.Entry
		if b.Dict != nil {
			entries = b.Dict.Lookup(item.Token)
		}
		if len(entries) == 0 {
			b.log().Warn("no dictionary entry for token", "token", item.Token, "source", item.SourceName)
			out = append(out, VocabCard{
				Token:      item.Token,
				Examples:   examples,
				SourceName: item.SourceName,
			})
			continue
		}
		for _, entry := range entries {
			card := VocabCard{
				Token:      item.Token,
				Common:     entry.IsCommon(),
				Meanings:   strings.Join(entry.Meanings(), " # "),
				Examples:   examples,
				SourceName: item.SourceName,
			}
			if kana := entry.KanaForms(); len(kana) > 0 {
				card.Reading = kana[0]
			}
			out = append(out, card)
		}
	}
	return out, nil
}

// exampleLines collects example sentences for one item: occurrences from its
// own source first, then corpus sentences.
func (b *Builder) exampleLines(ctx context.Context, item kb.TokenItem) ([]string, error) {
	var lines []string

	ids := item.SequenceIDs
	if b.MaxSourceExamples > 0 && len(ids) > b.MaxSourceExamples {
		ids = ids[:b.MaxSourceExamples]
	}
	for _, seq := range b.Store.SequencesByID(item.SourceName, ids) {
		line := fmt.Sprintf("[%s] %s", item.SourceName, seq.Text)
		if b.Translator != nil {
			translated, err := b.Translator.Translate(ctx, seq.Text)
			if err != nil {
				b.log().Warn("translation failed", "token", item.Token, "error", err)
			} else if translated != "" {
				line += fmt.Sprintf(" (%s)", translated)
			}
		}
		lines = append(lines, line)
	}

	if b.Corpus != nil {
		examples, err := b.Corpus.Examples(item.Token, b.MaxCorpusExamples)
		if err != nil {
			return nil, fmt.Errorf("corpus examples for %q: %w", item.Token, err)
		}
		for _, ex := range examples {
			lines = append(lines, fmt.Sprintf("[tatoeba] %s (%s)", ex.Text, ex.Translation))
		}
	}
	return lines, nil
}

// KanjiCards builds one card per kanji item.
func (b *Builder) KanjiCards(ctx context.Context, items []kb.KanjiItem) ([]KanjiCard, error) {
	out := make([]KanjiCard, 0, len(items))
	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out = append(out, KanjiCard{
			Kanji:      item.Kanji,
			Tokens:     append([]string(nil), item.Tokens...),
			SourceName: item.SourceName,
		})
	}
	return out, nil
}
