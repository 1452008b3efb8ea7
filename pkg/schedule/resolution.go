package schedule

import (
	"math"
	"sort"

	"bookcards/pkg/kb"
)

// StudiableFilter narrows the studiable listings. The zero value keeps every
// row. MinCount and Priority apply to vocab only.
type StudiableFilter struct {
	Source   string
	MinCount int
	Priority *kb.Priority
}

// StudiableVocab lists the vocab still open for this round: not added, known,
// suspended or stamped with a study date in the store, and not yet claimed by
// the plan. Claims are matched by value, so a token staged from one source no
// longer shows up under another. Rows come back ordered by occurrence count
// descending, ties broken by earliest sequence id.
func (p *Planner) StudiableVocab(f StudiableFilter) ([]kb.TokenItem, error) {
	rows, err := p.store.TokenItems(kb.Query{
		Source:       f.Source,
		NotAdded:     true,
		NotKnown:     true,
		NotSuspended: true,
		NoStudyDate:  true,
		Priority:     f.Priority,
	})
	if err != nil {
		return nil, err
	}
	claimed := claimedValues(p.committedVocab, p.uncertainVocab, p.deferredVocab, p.vocabToKnow, p.vocabToSuspend)
	out := rows[:0]
	for _, r := range rows {
		if claimed[r.Token] || r.Count < f.MinCount {
			continue
		}
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return firstSequenceID(out[i]) < firstSequenceID(out[j])
	})
	return out, nil
}

// StudiableKanji lists the kanji still open for this round, ordered by the
// number of associated tokens descending.
func (p *Planner) StudiableKanji(f StudiableFilter) ([]kb.KanjiItem, error) {
	rows, err := p.store.KanjiItems(kb.Query{
		Source:       f.Source,
		NotAdded:     true,
		NotKnown:     true,
		NotSuspended: true,
	})
	if err != nil {
		return nil, err
	}
	claimed := claimedValues(p.committedKanji, p.kanjiToKnow, p.kanjiToSuspend)
	out := rows[:0]
	for _, r := range rows {
		if claimed[r.Kanji] {
			continue
		}
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if len(out[i].Tokens) != len(out[j].Tokens) {
			return len(out[i].Tokens) > len(out[j].Tokens)
		}
		return out[i].Kanji < out[j].Kanji
	})
	return out, nil
}

func firstSequenceID(t kb.TokenItem) int {
	first := math.MaxInt
	for _, id := range t.SequenceIDs {
		if id < first {
			first = id
		}
	}
	return first
}

func claimedValues(sets ...[]ValueSource) map[string]bool {
	claimed := make(map[string]bool)
	for _, set := range sets {
		for _, vs := range set {
			claimed[vs.Value] = true
		}
	}
	return claimed
}
