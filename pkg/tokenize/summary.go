package tokenize

import (
	"regexp"
	"sort"
)

// TokenStats aggregates one lemma across a document: how often it occurred
// and which sentences (by local 0-based index) contain it.
type TokenStats struct {
	Count       int
	SequenceIDs []int
}

// SentenceEntry is one segmented sentence with the lemmas it contains, keyed
// by its local 0-based index.
type SentenceEntry struct {
	Index  int
	Text   string
	Tokens []string
}

// Summary is the ingestion view of a document: lemma aggregates plus the
// sentence list, the two maps the item store is populated from.
type Summary struct {
	Tokens    map[string]TokenStats
	Order     []string // lemmas in first-seen order
	Sentences []SentenceEntry
}

var asciiOnly = regexp.MustCompile(`^[a-zA-Z0-9\s[:punct:]]+$`)

// studyWorthy filters out tokens that make no flashcard: symbols, particles,
// auxiliaries and numerals.
func studyWorthy(t Token) bool {
	switch t.PrimaryPOS {
	case "記号", "補助記号", "助詞", "助動詞":
		return false
	}
	if len(t.Features) > 1 && t.Features[1] == "数" {
		return false
	}
	return true
}

// Summarize aggregates analyzed sentences into the ingestion maps. Lemmas
// are the unit of aggregation (base form when the analyzer provides one).
// With dropASCII set, tokens made only of ASCII letters, digits and
// punctuation are skipped. maxSequencesPerToken caps the sentence references
// kept per lemma; zero means no cap.
func Summarize(sentences []Sentence, dropASCII bool, maxSequencesPerToken int) Summary {
	sum := Summary{Tokens: make(map[string]TokenStats)}
	for idx, sentence := range sentences {
		var lemmas []string
		seen := make(map[string]bool)
		for _, tok := range sentence.Tokens {
			if !studyWorthy(tok) {
				continue
			}
			if dropASCII && asciiOnly.MatchString(tok.Surface) {
				continue
			}
			lemma := tok.Surface
			if tok.BaseForm != "" && tok.BaseForm != "*" {
				lemma = tok.BaseForm
			}

			stats, known := sum.Tokens[lemma]
			if !known {
				sum.Order = append(sum.Order, lemma)
			}
			stats.Count++
			if !seen[lemma] && (maxSequencesPerToken == 0 || len(stats.SequenceIDs) < maxSequencesPerToken) {
				stats.SequenceIDs = append(stats.SequenceIDs, idx)
			}
			sum.Tokens[lemma] = stats

			if !seen[lemma] {
				seen[lemma] = true
				lemmas = append(lemmas, lemma)
			}
		}
		sum.Sentences = append(sum.Sentences, SentenceEntry{
			Index:  idx,
			Text:   sentence.Text,
			Tokens: lemmas,
		})
	}
	return sum
}

// UniqueKanji returns the distinct kanji of a string in first-seen order.
func UniqueKanji(s string) []string {
	seen := make(map[rune]bool)
	var out []string
	for _, r := range s {
		if !IsKanji(r) || seen[r] {
			continue
		}
		seen[r] = true
		out = append(out, string(r))
	}
	return out
}

// IsKanji reports whether r falls in the CJK unified ideograph range used
// for Japanese text.
func IsKanji(r rune) bool {
	return r >= 0x4E00 && r <= 0x9FAF
}

// KanjiToTokens inverts a lemma list into kanji → lemmas containing it.
// Kanji keep first-seen order; each lemma list is sorted.
func KanjiToTokens(lemmas []string) (map[string][]string, []string) {
	byKanji := make(map[string][]string)
	var order []string
	for _, lemma := range lemmas {
		for _, k := range UniqueKanji(lemma) {
			if _, ok := byKanji[k]; !ok {
				order = append(order, k)
			}
			byKanji[k] = append(byKanji[k], lemma)
		}
	}
	for k := range byKanji {
		sort.Strings(byKanji[k])
	}
	return byKanji, order
}
