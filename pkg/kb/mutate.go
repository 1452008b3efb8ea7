package kb

import (
	"fmt"
	"sort"
	"time"
)

// MarkKnown flips the knowledge flag to yes on every row of the table whose
// value matches, across all sources. Knowledge is a property of the value,
// not of a (value, source) pair.
func (s *Store) MarkKnown(table Table, value string) error {
	return s.setKnown(table, value, KnownYes)
}

// MarkUnknown is the inverse of MarkKnown.
func (s *Store) MarkUnknown(table Table, value string) error {
	return s.setKnown(table, value, KnownNo)
}

func (s *Store) setKnown(table Table, value string, known Known) error {
	matched := false
	switch table {
	case TableTokens:
		for i := range s.tokens {
			if s.tokens[i].Token == value {
				s.tokens[i].Known = known
				matched = true
			}
		}
	case TableKanjis:
		for i := range s.kanjis {
			if s.kanjis[i].Kanji == value {
				s.kanjis[i].Known = known
				matched = true
			}
		}
	default:
		return fmt.Errorf("kb: table %s has no knowledge flag", table)
	}
	if !matched {
		return fmt.Errorf("%w: %q in table %s", ErrNotFound, value, table)
	}
	return nil
}

// MarkAdded flags the (value, source) row of the table as added. Added never
// propagates across sources.
func (s *Store) MarkAdded(table Table, value, source string) error {
	return s.setPerSourceFlag(table, value, source, func(t *TokenItem) { t.Added = true }, func(k *KanjiItem) { k.Added = true })
}

// MarkSuspended flags the (value, source) row of the table as suspended for
// that source.
func (s *Store) MarkSuspended(table Table, value, source string) error {
	return s.setPerSourceFlag(table, value, source, func(t *TokenItem) { t.Suspended = true }, func(k *KanjiItem) { k.Suspended = true })
}

func (s *Store) setPerSourceFlag(table Table, value, source string, setToken func(*TokenItem), setKanji func(*KanjiItem)) error {
	matched := false
	switch table {
	case TableTokens:
		for i := range s.tokens {
			if s.tokens[i].Token == value && s.tokens[i].SourceName == source {
				setToken(&s.tokens[i])
				matched = true
			}
		}
	case TableKanjis:
		for i := range s.kanjis {
			if s.kanjis[i].Kanji == value && s.kanjis[i].SourceName == source {
				setKanji(&s.kanjis[i])
				matched = true
			}
		}
	default:
		return fmt.Errorf("kb: table %s has no per-source flags", table)
	}
	if !matched {
		return fmt.Errorf("%w: %q for source %q in table %s", ErrNotFound, value, source, table)
	}
	return nil
}

// SetStudyEligibleFrom stamps the date from which the (token, source) row
// becomes eligible for study. Tokens only.
func (s *Store) SetStudyEligibleFrom(token, source string, from time.Time) error {
	from = DateOf(from)
	for i := range s.tokens {
		if s.tokens[i].Token == token && s.tokens[i].SourceName == source {
			s.tokens[i].StudyFrom = &from
			return nil
		}
	}
	return fmt.Errorf("%w: token %q for source %q", ErrNotFound, token, source)
}

// InsertTokens appends token rows. Rows must reference a registered source
// and must not collide with an existing (token, source) row; the whole batch
// is validated before anything is applied. When any existing row for the
// same token value is already known, added, or carries a study date, the new
// row is inserted pre-marked known (back-fill rule).
func (s *Store) InsertTokens(rows []TokenItem) error {
	seen := make(map[[2]string]bool)
	for _, r := range rows {
		if !s.sourceRegistered(r.SourceName) {
			return fmt.Errorf("%w: %q", ErrSourceUnknown, r.SourceName)
		}
		key := [2]string{r.Token, r.SourceName}
		if seen[key] {
			return fmt.Errorf("%w: token %q for source %q duplicated in batch", ErrAlreadyExists, r.Token, r.SourceName)
		}
		seen[key] = true
		if s.hasToken(r.Token, r.SourceName) {
			return fmt.Errorf("%w: token %q for source %q", ErrAlreadyExists, r.Token, r.SourceName)
		}
	}
	for _, r := range rows {
		row := r.clone()
		if s.tokenValueResolved(row.Token) {
			row.Known = KnownYes
		}
		s.tokens = append(s.tokens, row)
	}
	return nil
}

// InsertKanjis appends kanji rows with the same batch validation and known
// back-fill as InsertTokens.
func (s *Store) InsertKanjis(rows []KanjiItem) error {
	seen := make(map[[2]string]bool)
	for _, r := range rows {
		if !s.sourceRegistered(r.SourceName) {
			return fmt.Errorf("%w: %q", ErrSourceUnknown, r.SourceName)
		}
		key := [2]string{r.Kanji, r.SourceName}
		if seen[key] {
			return fmt.Errorf("%w: kanji %q for source %q duplicated in batch", ErrAlreadyExists, r.Kanji, r.SourceName)
		}
		seen[key] = true
		if s.hasKanji(r.Kanji, r.SourceName) {
			return fmt.Errorf("%w: kanji %q for source %q", ErrAlreadyExists, r.Kanji, r.SourceName)
		}
	}
	for _, r := range rows {
		row := r.clone()
		if s.kanjiValueResolved(row.Kanji) {
			row.Known = KnownYes
		}
		s.kanjis = append(s.kanjis, row)
	}
	return nil
}

// InsertSequences appends sequence rows. A sequence id already present for
// the source rejects the whole batch; nothing is applied.
func (s *Store) InsertSequences(rows []SequenceItem) error {
	existing := make(map[string]map[int]bool)
	for _, seq := range s.sequences {
		if existing[seq.SourceName] == nil {
			existing[seq.SourceName] = make(map[int]bool)
		}
		existing[seq.SourceName][seq.SequenceID] = true
	}
	for _, r := range rows {
		if !s.sourceRegistered(r.SourceName) {
			return fmt.Errorf("%w: %q", ErrSourceUnknown, r.SourceName)
		}
		if existing[r.SourceName][r.SequenceID] {
			return fmt.Errorf("%w: id %d for source %q", ErrDuplicateSequence, r.SequenceID, r.SourceName)
		}
		if existing[r.SourceName] == nil {
			existing[r.SourceName] = make(map[int]bool)
		}
		existing[r.SourceName][r.SequenceID] = true
	}
	for _, r := range rows {
		s.sequences = append(s.sequences, r.clone())
	}
	return nil
}

// NextSequenceID returns the next monotonic sequence id for a source: 0 for
// a source with no sequences, max+1 otherwise.
func (s *Store) NextSequenceID(source string) int {
	next := 0
	for _, seq := range s.sequences {
		if seq.SourceName == source && seq.SequenceID >= next {
			next = seq.SequenceID + 1
		}
	}
	return next
}

// CreateSource registers a source name. Names are globally unique.
func (s *Store) CreateSource(name string, hidden bool) error {
	if s.sourceRegistered(name) {
		return fmt.Errorf("%w: %q", ErrSourceExists, name)
	}
	s.docs = append(s.docs, DocItem{SourceName: name, Hidden: hidden})
	return nil
}

// RemoveSource deletes the source registration and every row in every table
// referencing it.
func (s *Store) RemoveSource(name string) {
	s.tokens = deleteBySource(s.tokens, name, func(t TokenItem) string { return t.SourceName })
	s.kanjis = deleteBySource(s.kanjis, name, func(k KanjiItem) string { return k.SourceName })
	s.sequences = deleteBySource(s.sequences, name, func(q SequenceItem) string { return q.SourceName })
	s.docs = deleteBySource(s.docs, name, func(d DocItem) string { return d.SourceName })
	s.logger.Info("source removed", "source", name)
}

// ListSources returns the registered sources sorted by name. Hidden sources
// are skipped unless includeHidden is set.
func (s *Store) ListSources(includeHidden bool) []DocItem {
	var out []DocItem
	for _, d := range s.docs {
		if d.Hidden && !includeHidden {
			continue
		}
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SourceName < out[j].SourceName })
	return out
}

func (s *Store) sourceRegistered(name string) bool {
	for _, d := range s.docs {
		if d.SourceName == name {
			return true
		}
	}
	return false
}

func (s *Store) hasToken(token, source string) bool {
	for _, t := range s.tokens {
		if t.Token == token && t.SourceName == source {
			return true
		}
	}
	return false
}

func (s *Store) hasKanji(kanji, source string) bool {
	for _, k := range s.kanjis {
		if k.Kanji == kanji && k.SourceName == source {
			return true
		}
	}
	return false
}

// tokenValueResolved reports whether any existing row for the token value is
// already known, added, or carries a study date.
func (s *Store) tokenValueResolved(token string) bool {
	for _, t := range s.tokens {
		if t.Token != token {
			continue
		}
		if t.Known == KnownYes || t.Added || t.StudyFrom != nil {
			return true
		}
	}
	return false
}

func (s *Store) kanjiValueResolved(kanji string) bool {
	for _, k := range s.kanjis {
		if k.Kanji != kanji {
			continue
		}
		if k.Known == KnownYes || k.Added {
			return true
		}
	}
	return false
}

func deleteBySource[T any](rows []T, name string, sourceOf func(T) string) []T {
	out := rows[:0]
	for _, r := range rows {
		if sourceOf(r) != name {
			out = append(out, r)
		}
	}
	return out
}
