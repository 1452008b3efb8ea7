// Package kb holds the persisted item store: four fixed-schema tables of
// tokens, kanjis, sequences and document sources, loaded fully into memory
// and written back as JSON snapshots on demand.
package kb

import (
	"fmt"
	"time"
)

// Known is the tri-state knowledge flag of an item. It is conceptually
// global to the item value: once any row for a value is marked known, later
// insertions of the same value are pre-marked known regardless of source.
type Known int8

const (
	KnownUndecided Known = iota
	KnownNo
	KnownYes
)

func (k Known) String() string {
	switch k {
	case KnownYes:
		return "yes"
	case KnownNo:
		return "no"
	default:
		return "undecided"
	}
}

// Priority orders tokens for study selection.
type Priority int8

const (
	PriorityLow    Priority = 0
	PriorityNormal Priority = 1
	PriorityHigh   Priority = 2
)

func (p Priority) String() string {
	switch p {
	case PriorityLow:
		return "low"
	case PriorityHigh:
		return "high"
	default:
		return "normal"
	}
}

// ParsePriority maps a CLI-facing name to a Priority.
func ParsePriority(s string) (Priority, error) {
	switch s {
	case "low":
		return PriorityLow, nil
	case "normal":
		return PriorityNormal, nil
	case "high":
		return PriorityHigh, nil
	}
	return PriorityNormal, fmt.Errorf("kb: unknown priority %q", s)
}

// Table identifies one of the four store tables.
type Table int

const (
	TableTokens Table = iota
	TableKanjis
	TableSequences
	TableDocs
)

func (t Table) String() string {
	switch t {
	case TableTokens:
		return "tokens"
	case TableKanjis:
		return "kanjis"
	case TableSequences:
		return "sequences"
	case TableDocs:
		return "docs"
	default:
		return fmt.Sprintf("table(%d)", int(t))
	}
}

// TokenItem is one vocabulary row. Rows are unique per (Token, SourceName).
type TokenItem struct {
	Token       string     `json:"token"`
	Count       int        `json:"count"`
	SequenceIDs []int      `json:"sequence_ids"`
	SourceName  string     `json:"source_name"`
	Known       Known      `json:"is_known"`
	Added       bool       `json:"is_added"`
	Suspended   bool       `json:"is_suspended_for_source"`
	StudyFrom   *time.Time `json:"study_eligible_from,omitempty"`
	Priority    Priority   `json:"priority"`
}

// KanjiItem is one character row. Rows are unique per (Kanji, SourceName).
type KanjiItem struct {
	Kanji      string   `json:"kanji"`
	Tokens     []string `json:"associated_tokens"`
	SourceName string   `json:"source_name"`
	Known      Known    `json:"is_known"`
	Added      bool     `json:"is_added"`
	Suspended  bool     `json:"is_suspended_for_source"`
}

// SequenceItem is one example sentence extracted from a source. Sequence ids
// are monotonic counters scoped to the source, starting at 0.
type SequenceItem struct {
	SequenceID int      `json:"sequence_id"`
	Text       string   `json:"text"`
	Tokens     []string `json:"associated_tokens"`
	SourceName string   `json:"source_name"`
}

// DocItem registers a source. Every token, kanji and sequence row must
// reference a registered source.
type DocItem struct {
	SourceName string `json:"source_name"`
	Hidden     bool   `json:"hidden_in_bulk_ui"`
}

// DateOf truncates t to a calendar date in UTC. Study-eligibility stamps are
// stored date-only.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (t TokenItem) clone() TokenItem {
	out := t
	out.SequenceIDs = append([]int(nil), t.SequenceIDs...)
	if t.StudyFrom != nil {
		from := *t.StudyFrom
		out.StudyFrom = &from
	}
	return out
}

func (k KanjiItem) clone() KanjiItem {
	out := k
	out.Tokens = append([]string(nil), k.Tokens...)
	return out
}

func (s SequenceItem) clone() SequenceItem {
	out := s
	out.Tokens = append([]string(nil), s.Tokens...)
	return out
}
