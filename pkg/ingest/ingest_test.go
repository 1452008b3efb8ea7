package ingest

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"bookcards/pkg/dictionary"
	"bookcards/pkg/kb"
	"bookcards/pkg/tokenize"
)

func newTestIngester(t *testing.T) *Ingester {
	t.Helper()
	store, err := kb.Open(t.TempDir(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	a, err := tokenize.NewAnalyzer()
	if err != nil {
		t.Fatalf("new analyzer: %v", err)
	}
	return &Ingester{
		Store:    store,
		Analyzer: a,
		Workers:  2,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestAddDocumentRecordsSentencesTokensAndKanji(t *testing.T) {
	ig := newTestIngester(t)

	report, err := ig.AddDocument(context.Background(), "doc1", "食べる飲む。歌う。", false)
	if err != nil {
		t.Fatalf("add document: %v", err)
	}
	if report.Sentences != 2 {
		t.Fatalf("sentences = %d, want 2", report.Sentences)
	}
	if report.Tokens != 3 {
		t.Fatalf("tokens = %d, want 3: %+v", report.Tokens, report)
	}

	tokens, err := ig.Store.TokenItems(kb.Query{Source: "doc1"})
	if err != nil {
		t.Fatalf("query tokens: %v", err)
	}
	byLemma := make(map[string]kb.TokenItem)
	for _, row := range tokens {
		byLemma[row.Token] = row
	}
	row, ok := byLemma["食べる"]
	if !ok {
		t.Fatalf("食べる not stored: %v", byLemma)
	}
	if row.Count != 1 || len(row.SequenceIDs) != 1 || row.SequenceIDs[0] != 0 {
		t.Fatalf("食べる row = %+v", row)
	}

	kanjis, err := ig.Store.KanjiItems(kb.Query{Source: "doc1"})
	if err != nil {
		t.Fatalf("query kanji: %v", err)
	}
	wantKanji := map[string]bool{"食": true, "飲": true, "歌": true}
	if len(kanjis) != len(wantKanji) {
		t.Fatalf("kanji rows = %+v", kanjis)
	}
	for _, k := range kanjis {
		if !wantKanji[k.Kanji] {
			t.Fatalf("unexpected kanji %q", k.Kanji)
		}
	}

	sources := ig.Store.ListSources(true)
	if len(sources) != 1 || sources[0].SourceName != "doc1" {
		t.Fatalf("sources = %+v", sources)
	}
}

func TestAddDocumentReingestSkipsExisting(t *testing.T) {
	ig := newTestIngester(t)
	ctx := context.Background()

	if _, err := ig.AddDocument(ctx, "doc1", "食べる飲む。", false); err != nil {
		t.Fatalf("first ingest: %v", err)
	}
	report, err := ig.AddDocument(ctx, "doc1", "食べる飲む。", false)
	if err != nil {
		t.Fatalf("second ingest: %v", err)
	}
	if report.Sentences != 0 || report.Tokens != 0 || report.Kanjis != 0 {
		t.Fatalf("re-ingest added items: %+v", report)
	}

	seqs, err := ig.Store.SequenceItems(kb.Query{Source: "doc1"})
	if err != nil {
		t.Fatalf("query sequences: %v", err)
	}
	if len(seqs) != 1 {
		t.Fatalf("sequences duplicated: %+v", seqs)
	}
}

func TestAddDocumentAppendsNewSentencesWithFreshIDs(t *testing.T) {
	ig := newTestIngester(t)
	ctx := context.Background()

	if _, err := ig.AddDocument(ctx, "doc1", "食べる。", false); err != nil {
		t.Fatalf("first ingest: %v", err)
	}
	report, err := ig.AddDocument(ctx, "doc1", "食べる。歌う。", false)
	if err != nil {
		t.Fatalf("second ingest: %v", err)
	}
	if report.Sentences != 1 {
		t.Fatalf("sentences = %d, want 1", report.Sentences)
	}

	tokens, err := ig.Store.TokenItems(kb.Query{Value: "歌う", Source: "doc1"})
	if err != nil {
		t.Fatalf("query tokens: %v", err)
	}
	if len(tokens) != 1 || len(tokens[0].SequenceIDs) != 1 || tokens[0].SequenceIDs[0] != 1 {
		t.Fatalf("歌う row = %+v", tokens)
	}
}

func TestAddDocumentRejectsEmptyText(t *testing.T) {
	ig := newTestIngester(t)
	if _, err := ig.AddDocument(context.Background(), "doc1", "", false); err == nil {
		t.Fatal("expected error for empty document")
	}
}

func testDictionary() *dictionary.Dictionary {
	return dictionary.New([]dictionary.Entry{{
		ID:    "1",
		Kanji: []dictionary.Element{{Text: "歌う", Common: true}},
		Kana:  []dictionary.Element{{Text: "うたう", Common: true}},
		Sense: []dictionary.Sense{{Gloss: []dictionary.Gloss{{Text: "to sing", Lang: "eng"}}}},
	}})
}

func TestAddTokenWithExample(t *testing.T) {
	ig := newTestIngester(t)
	ig.Dict = testDictionary()

	if err := ig.AddToken("歌う", "manual", "彼は歌う。"); err != nil {
		t.Fatalf("add token: %v", err)
	}

	tokens, err := ig.Store.TokenItems(kb.Query{Value: "歌う", Source: "manual"})
	if err != nil {
		t.Fatalf("query tokens: %v", err)
	}
	if len(tokens) != 1 {
		t.Fatalf("token rows = %+v", tokens)
	}
	row := tokens[0]
	if row.Count != 1 || len(row.SequenceIDs) != 1 {
		t.Fatalf("token row = %+v", row)
	}

	seqs := ig.Store.SequencesByID("manual", row.SequenceIDs)
	if len(seqs) != 1 || seqs[0].Text != "彼は歌う。" {
		t.Fatalf("example sequence = %+v", seqs)
	}

	kanjis, err := ig.Store.KanjiItems(kb.Query{Source: "manual"})
	if err != nil {
		t.Fatalf("query kanji: %v", err)
	}
	if len(kanjis) != 1 || kanjis[0].Kanji != "歌" {
		t.Fatalf("kanji rows = %+v", kanjis)
	}
}

func TestAddTokenWithoutExampleHasZeroCount(t *testing.T) {
	ig := newTestIngester(t)
	ig.Dict = testDictionary()

	if err := ig.AddToken("歌う", "manual", ""); err != nil {
		t.Fatalf("add token: %v", err)
	}
	tokens, err := ig.Store.TokenItems(kb.Query{Value: "歌う", Source: "manual"})
	if err != nil {
		t.Fatalf("query tokens: %v", err)
	}
	if len(tokens) != 1 || tokens[0].Count != 0 || len(tokens[0].SequenceIDs) != 0 {
		t.Fatalf("token row = %+v", tokens)
	}
}

func TestAddTokenRejectsUnknownAndDuplicate(t *testing.T) {
	ig := newTestIngester(t)
	ig.Dict = testDictionary()

	if err := ig.AddToken("存在しない", "manual", ""); !errors.Is(err, ErrNotInDictionary) {
		t.Fatalf("expected ErrNotInDictionary, got %v", err)
	}
	if err := ig.AddToken("歌う", "manual", ""); err != nil {
		t.Fatalf("add token: %v", err)
	}
	if err := ig.AddToken("歌う", "manual", ""); !errors.Is(err, kb.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}
