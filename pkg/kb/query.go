package kb

import (
	"fmt"
	"time"
)

// Query bundles the read predicates of the store. Zero values mean "no
// constraint"; set fields are ANDed together. NotKnown matches rows whose
// knowledge flag is false or undecided. NoStudyDate and MaxStudyDate are
// mutually exclusive. Priority only applies to the token table.
type Query struct {
	Value        string
	Source       string
	NotAdded     bool
	NotKnown     bool
	NotSuspended bool
	NoStudyDate  bool
	MaxStudyDate *time.Time
	Priority     *Priority
}

func (q Query) validate(table Table) error {
	if q.NoStudyDate && q.MaxStudyDate != nil {
		return fmt.Errorf("%w: no-study-date and max-study-date cannot be combined", ErrInvalidQuery)
	}
	if table != TableTokens {
		if q.NoStudyDate || q.MaxStudyDate != nil {
			return fmt.Errorf("%w: study-date predicates only apply to the %s table", ErrInvalidQuery, TableTokens)
		}
		if q.Priority != nil {
			return fmt.Errorf("%w: priority only applies to the %s table", ErrInvalidQuery, TableTokens)
		}
	}
	return nil
}

// TokenItems returns copies of all token rows matching q.
func (s *Store) TokenItems(q Query) ([]TokenItem, error) {
	if err := q.validate(TableTokens); err != nil {
		return nil, err
	}
	var out []TokenItem
	for _, t := range s.tokens {
		if !matchToken(t, q) {
			continue
		}
		out = append(out, t.clone())
	}
	return out, nil
}

// KanjiItems returns copies of all kanji rows matching q.
func (s *Store) KanjiItems(q Query) ([]KanjiItem, error) {
	if err := q.validate(TableKanjis); err != nil {
		return nil, err
	}
	var out []KanjiItem
	for _, k := range s.kanjis {
		if !matchKanji(k, q) {
			continue
		}
		out = append(out, k.clone())
	}
	return out, nil
}

// SequenceItems returns copies of all sequence rows matching q. Only the
// Value (sentence text), Source predicates apply.
func (s *Store) SequenceItems(q Query) ([]SequenceItem, error) {
	if err := q.validate(TableSequences); err != nil {
		return nil, err
	}
	var out []SequenceItem
	for _, seq := range s.sequences {
		if q.Value != "" && seq.Text != q.Value {
			continue
		}
		if q.Source != "" && seq.SourceName != q.Source {
			continue
		}
		out = append(out, seq.clone())
	}
	return out, nil
}

// SequencesByID returns copies of the sequence rows of a source whose ids
// appear in ids, in the order of ids. Missing ids are skipped.
func (s *Store) SequencesByID(source string, ids []int) []SequenceItem {
	byID := make(map[int]SequenceItem)
	for _, seq := range s.sequences {
		if seq.SourceName == source {
			byID[seq.SequenceID] = seq
		}
	}
	var out []SequenceItem
	for _, id := range ids {
		if seq, ok := byID[id]; ok {
			out = append(out, seq.clone())
		}
	}
	return out
}

func matchToken(t TokenItem, q Query) bool {
	if q.Value != "" && t.Token != q.Value {
		return false
	}
	if q.Source != "" && t.SourceName != q.Source {
		return false
	}
	if q.NotAdded && t.Added {
		return false
	}
	if q.NotKnown && t.Known == KnownYes {
		return false
	}
	if q.NotSuspended && t.Suspended {
		return false
	}
	if q.NoStudyDate && t.StudyFrom != nil {
		return false
	}
	if q.MaxStudyDate != nil {
		if t.StudyFrom == nil || t.StudyFrom.After(*q.MaxStudyDate) {
			return false
		}
	}
	if q.Priority != nil && t.Priority != *q.Priority {
		return false
	}
	return true
}

func matchKanji(k KanjiItem, q Query) bool {
	if q.Value != "" && k.Kanji != q.Value {
		return false
	}
	if q.Source != "" && k.SourceName != q.Source {
		return false
	}
	if q.NotAdded && k.Added {
		return false
	}
	if q.NotKnown && k.Known == KnownYes {
		return false
	}
	if q.NotSuspended && k.Suspended {
		return false
	}
	return true
}
