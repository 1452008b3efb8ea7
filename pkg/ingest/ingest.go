// Package ingest turns documents into tracked vocabulary: it analyzes text,
// aggregates lemmas and kanji, and records them in the item store.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"bookcards/pkg/dictionary"
	"bookcards/pkg/kb"
	"bookcards/pkg/tokenize"
)

// ErrNotInDictionary is returned when a manually added token has no
// dictionary entry to build a card from.
var ErrNotInDictionary = errors.New("token not found in dictionary")

// Report summarizes what one ingestion added to the store.
type Report struct {
	Source        string
	Sentences     int
	Tokens        int
	Kanjis        int
	SkippedTokens int
}

// Ingester analyzes documents and records their items in the store.
type Ingester struct {
	Store    *kb.Store
	Analyzer *tokenize.Analyzer
	// Dict is required for AddToken; AddDocument works without it.
	Dict *dictionary.Dictionary

	Workers              int
	DropASCIITokens      bool
	MaxSequencesPerToken int

	Logger *slog.Logger
}

func (ig *Ingester) log() *slog.Logger {
	if ig.Logger != nil {
		return ig.Logger
	}
	return slog.Default()
}

// AddDocument registers name as a source (if new), analyzes text with
// concurrent workers, and inserts the document's sentences, lemmas, and
// kanji. Re-ingesting the same document is safe: sentences and items already
// tracked for the source are skipped.
func (ig *Ingester) AddDocument(ctx context.Context, name, text string, hidden bool) (*Report, error) {
	texts := tokenize.SplitSentences(text)
	if len(texts) == 0 {
		return nil, fmt.Errorf("document %q contains no sentences", name)
	}

	if err := ig.Store.CreateSource(name, hidden); err != nil && !errors.Is(err, kb.ErrSourceExists) {
		return nil, err
	}

	analyzed := make([]tokenize.Sentence, len(texts))
	pool := NewWorkerPool(ig.Workers, 0)
	pool.Start(ctx)
	for i := range texts {
		i := i
		err := pool.Submit(ctx, func(context.Context) {
			analyzed[i] = tokenize.Sentence{Text: texts[i], Tokens: ig.Analyzer.Analyze(texts[i])}
		})
		if err != nil {
			pool.Close()
			return nil, err
		}
	}
	pool.Close()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Drop blank sentences and any text already stored for this source.
	seen := make(map[string]bool)
	stored, err := ig.Store.SequenceItems(kb.Query{Source: name})
	if err != nil {
		return nil, err
	}
	for _, s := range stored {
		seen[s.Text] = true
	}
	var kept []tokenize.Sentence
	for _, s := range analyzed {
		if strings.TrimSpace(s.Text) == "" || seen[s.Text] {
			continue
		}
		seen[s.Text] = true
		kept = append(kept, s)
	}

	sum := tokenize.Summarize(kept, ig.DropASCIITokens, ig.MaxSequencesPerToken)
	base := ig.Store.NextSequenceID(name)

	var sequences []kb.SequenceItem
	for _, s := range sum.Sentences {
		sequences = append(sequences, kb.SequenceItem{
			SequenceID: base + s.Index,
			Text:       s.Text,
			Tokens:     s.Tokens,
			SourceName: name,
		})
	}

	existingTokens := make(map[string]bool)
	rows, err := ig.Store.TokenItems(kb.Query{Source: name})
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		existingTokens[r.Token] = true
	}

	report := &Report{Source: name, Sentences: len(sequences)}
	var tokens []kb.TokenItem
	var newLemmas []string
	for _, lemma := range sum.Order {
		if existingTokens[lemma] {
			report.SkippedTokens++
			continue
		}
		stats := sum.Tokens[lemma]
		ids := make([]int, len(stats.SequenceIDs))
		for i, id := range stats.SequenceIDs {
			ids[i] = base + id
		}
		tokens = append(tokens, kb.TokenItem{
			Token:       lemma,
			Count:       stats.Count,
			SequenceIDs: ids,
			SourceName:  name,
			Priority:    kb.PriorityNormal,
		})
		newLemmas = append(newLemmas, lemma)
	}

	existingKanjis := make(map[string]bool)
	krows, err := ig.Store.KanjiItems(kb.Query{Source: name})
	if err != nil {
		return nil, err
	}
	for _, r := range krows {
		existingKanjis[r.Kanji] = true
	}

	var kanjis []kb.KanjiItem
	byKanji, order := tokenize.KanjiToTokens(newLemmas)
	for _, k := range order {
		if existingKanjis[k] {
			continue
		}
		kanjis = append(kanjis, kb.KanjiItem{
			Kanji:      k,
			Tokens:     byKanji[k],
			SourceName: name,
		})
	}

	if err := ig.Store.InsertSequences(sequences); err != nil {
		return nil, fmt.Errorf("insert sentences: %w", err)
	}
	if err := ig.Store.InsertTokens(tokens); err != nil {
		return nil, fmt.Errorf("insert tokens: %w", err)
	}
	if err := ig.Store.InsertKanjis(kanjis); err != nil {
		return nil, fmt.Errorf("insert kanji: %w", err)
	}
	report.Tokens = len(tokens)
	report.Kanjis = len(kanjis)

	if err := ig.Store.Save(false); err != nil {
		return nil, err
	}

	ig.log().Info("document ingested",
		"source", name,
		"sentences", report.Sentences,
		"tokens", report.Tokens,
		"kanji", report.Kanjis,
		"skipped_tokens", report.SkippedTokens)
	return report, nil
}

// AddToken records a single token for source, outside of any document. The
// token must have a dictionary entry. An optional example sentence is stored
// alongside it.
func (ig *Ingester) AddToken(token, source, example string) error {
	if ig.Dict == nil {
		return fmt.Errorf("add token %q: no dictionary loaded", token)
	}
	if len(ig.Dict.Lookup(token)) == 0 {
		return fmt.Errorf("add token %q: %w", token, ErrNotInDictionary)
	}

	existing, err := ig.Store.TokenItems(kb.Query{Value: token, Source: source})
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return fmt.Errorf("token %q in source %q: %w", token, source, kb.ErrAlreadyExists)
	}

	if err := ig.Store.CreateSource(source, false); err != nil && !errors.Is(err, kb.ErrSourceExists) {
		return err
	}

	item := kb.TokenItem{
		Token:      token,
		SourceName: source,
		Priority:   kb.PriorityNormal,
	}
	if example != "" {
		id := ig.Store.NextSequenceID(source)
		err := ig.Store.InsertSequences([]kb.SequenceItem{{
			SequenceID: id,
			Text:       example,
			Tokens:     []string{token},
			SourceName: source,
		}})
		if err != nil {
			return fmt.Errorf("insert example: %w", err)
		}
		item.Count = 1
		item.SequenceIDs = []int{id}
	}
	if err := ig.Store.InsertTokens([]kb.TokenItem{item}); err != nil {
		return fmt.Errorf("insert token: %w", err)
	}

	existingKanjis := make(map[string]bool)
	krows, err := ig.Store.KanjiItems(kb.Query{Source: source})
	if err != nil {
		return err
	}
	for _, r := range krows {
		existingKanjis[r.Kanji] = true
	}
	var kanjis []kb.KanjiItem
	for _, k := range tokenize.UniqueKanji(token) {
		if existingKanjis[k] {
			continue
		}
		kanjis = append(kanjis, kb.KanjiItem{Kanji: k, Tokens: []string{token}, SourceName: source})
	}
	if err := ig.Store.InsertKanjis(kanjis); err != nil {
		return fmt.Errorf("insert kanji: %w", err)
	}

	if err := ig.Store.Save(false); err != nil {
		return err
	}
	ig.log().Info("token added", "token", token, "source", source, "kanji", len(kanjis))
	return nil
}
