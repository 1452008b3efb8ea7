package kb

import (
	"errors"
	"testing"
	"time"
)

func TestQueryPredicatesAndTogether(t *testing.T) {
	s := newTestStore(t)
	seedDoc1(t, s)
	if err := s.MarkAdded(TableTokens, "飲む", "doc1"); err != nil {
		t.Fatalf("mark added: %v", err)
	}
	if err := s.MarkKnown(TableKanjis, "食"); err != nil {
		t.Fatalf("mark known: %v", err)
	}

	rows, err := s.TokenItems(Query{NotAdded: true, NotKnown: true, NotSuspended: true})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(rows) != 1 || rows[0].Token != "食べる" {
		t.Fatalf("expected only 食べる, got %+v", rows)
	}

	kanjis, err := s.KanjiItems(Query{NotKnown: true})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(kanjis) != 1 || kanjis[0].Kanji != "飲" {
		t.Fatalf("expected only 飲, got %+v", kanjis)
	}
}

func TestQueryStudyDatePredicates(t *testing.T) {
	s := newTestStore(t)
	seedDoc1(t, s)
	due := DateOf(time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC))
	if err := s.SetStudyEligibleFrom("食べる", "doc1", due); err != nil {
		t.Fatalf("set date: %v", err)
	}

	noDate, err := s.TokenItems(Query{NoStudyDate: true})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(noDate) != 1 || noDate[0].Token != "飲む" {
		t.Fatalf("NoStudyDate returned %+v", noDate)
	}

	before := due.AddDate(0, 0, 1)
	dated, err := s.TokenItems(Query{MaxStudyDate: &before})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(dated) != 1 || dated[0].Token != "食べる" {
		t.Fatalf("MaxStudyDate returned %+v", dated)
	}

	after := due.AddDate(0, 0, -1)
	dated, err = s.TokenItems(Query{MaxStudyDate: &after})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(dated) != 0 {
		t.Fatalf("MaxStudyDate before stamp returned %+v", dated)
	}
}

func TestQueryRejectsContradictoryDatePredicates(t *testing.T) {
	s := newTestStore(t)
	max := time.Now()
	_, err := s.TokenItems(Query{NoStudyDate: true, MaxStudyDate: &max})
	if !errors.Is(err, ErrInvalidQuery) {
		t.Fatalf("expected ErrInvalidQuery, got %v", err)
	}
}

func TestQueryRejectsTokenOnlyPredicatesOnKanjis(t *testing.T) {
	s := newTestStore(t)
	p := PriorityHigh
	if _, err := s.KanjiItems(Query{Priority: &p}); !errors.Is(err, ErrInvalidQuery) {
		t.Fatalf("expected ErrInvalidQuery for priority on kanjis, got %v", err)
	}
	if _, err := s.KanjiItems(Query{NoStudyDate: true}); !errors.Is(err, ErrInvalidQuery) {
		t.Fatalf("expected ErrInvalidQuery for study date on kanjis, got %v", err)
	}
}

func TestQueryPriorityFilter(t *testing.T) {
	s := newTestStore(t)
	seedDoc1(t, s)
	if err := s.InsertTokens([]TokenItem{
		{Token: "大事", SourceName: "doc1", Priority: PriorityHigh},
	}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	p := PriorityHigh
	rows, err := s.TokenItems(Query{Priority: &p})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(rows) != 1 || rows[0].Token != "大事" {
		t.Fatalf("priority filter returned %+v", rows)
	}
}

func TestSequencesByID(t *testing.T) {
	s := newTestStore(t)
	seedDoc1(t, s)
	if err := s.InsertSequences([]SequenceItem{
		{SequenceID: 1, Text: "歌う。", SourceName: "doc1"},
	}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	got := s.SequencesByID("doc1", []int{1, 0, 7})
	if len(got) != 2 || got[0].SequenceID != 1 || got[1].SequenceID != 0 {
		t.Fatalf("SequencesByID returned %+v", got)
	}
}
