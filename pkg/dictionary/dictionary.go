// Package dictionary loads a JMdict-simplified dump and serves lexical
// lookups for ingestion validation and card content.
package dictionary

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
)

// Entry matches the structure of jmdict-simplified entries.
type Entry struct {
	ID    string    `json:"id"`
	Kanji []Element `json:"kanji"`
	Kana  []Element `json:"kana"`
	Sense []Sense   `json:"sense"`
}

type Element struct {
	Text   string   `json:"text"`
	Common bool     `json:"common"`
	Tags   []string `json:"tags"`
}

type Sense struct {
	PartOfSpeech []string `json:"partOfSpeech"`
	Gloss        []Gloss  `json:"gloss"`
}

type Gloss struct {
	Text string `json:"text"`
	Lang string `json:"lang"`
}

// IsCommon reports whether any written or spoken form of the entry is
// flagged common in JMdict.
func (e Entry) IsCommon() bool {
	for _, k := range e.Kanji {
		if k.Common {
			return true
		}
	}
	for _, k := range e.Kana {
		if k.Common {
			return true
		}
	}
	return false
}

// KanjiForms returns the written forms of the entry.
func (e Entry) KanjiForms() []string {
	out := make([]string, 0, len(e.Kanji))
	for _, k := range e.Kanji {
		out = append(out, k.Text)
	}
	return out
}

// KanaForms returns the spoken forms of the entry, common forms first.
func (e Entry) KanaForms() []string {
	var common, rest []string
	for _, k := range e.Kana {
		if k.Common {
			common = append(common, k.Text)
		} else {
			rest = append(rest, k.Text)
		}
	}
	return append(common, rest...)
}

// Meanings flattens the glosses of all senses, one string per sense.
func (e Entry) Meanings() []string {
	var out []string
	for _, s := range e.Sense {
		var glosses []string
		for _, g := range s.Gloss {
			glosses = append(glosses, g.Text)
		}
		if len(glosses) > 0 {
			out = append(out, strings.Join(glosses, "; "))
		}
	}
	return out
}

// LoadEntries reads a jmdict-simplified JSON file, accepting both the
// {"words": [...]} wrapper and a bare array.
func LoadEntries(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var wrapper struct {
		Words []Entry `json:"words"`
	}
	dec := json.NewDecoder(f)
	if err := dec.Decode(&wrapper); err == nil && len(wrapper.Words) > 0 {
		return wrapper.Words, nil
	}

	if _, err := f.Seek(0, 0); err != nil {
		return nil, err
	}
	var entries []Entry
	dec = json.NewDecoder(f)
	if err := dec.Decode(&entries); err != nil {
		return nil, fmt.Errorf("parse dictionary as object or array: %w", err)
	}
	return entries, nil
}

// Dictionary indexes entries by their kanji and kana forms for exact lookup.
type Dictionary struct {
	index map[string][]Entry
	size  int
}

// New builds the in-memory index over the provided entries.
func New(entries []Entry) *Dictionary {
	idx := make(map[string][]Entry)
	for _, e := range entries {
		for _, k := range e.Kanji {
			idx[k.Text] = append(idx[k.Text], e)
		}
		for _, k := range e.Kana {
			idx[k.Text] = append(idx[k.Text], e)
		}
	}
	return &Dictionary{index: idx, size: len(entries)}
}

// Open is shorthand for LoadEntries followed by New.
func Open(path string) (*Dictionary, error) {
	entries, err := LoadEntries(path)
	if err != nil {
		return nil, err
	}
	return New(entries), nil
}

// Len returns the number of indexed entries.
func (d *Dictionary) Len() int { return d.size }

// Lookup returns the entries matching text by written or spoken form, with
// frequency-based filtering: when any match is flagged common, uncommon
// matches are dropped. Results are deduplicated and ordered by entry id.
func (d *Dictionary) Lookup(text string) []Entry {
	candidates := make(map[string]Entry)
	for _, e := range d.index[text] {
		candidates[e.ID] = e
	}
	if folded := ToHiragana(text); folded != text {
		for _, e := range d.index[folded] {
			candidates[e.ID] = e
		}
	}

	anyCommon := false
	for _, e := range candidates {
		if e.IsCommon() {
			anyCommon = true
			break
		}
	}

	var results []Entry
	for _, e := range candidates {
		if anyCommon && !e.IsCommon() {
			continue
		}
		results = append(results, e)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].ID < results[j].ID })
	return results
}

// ToHiragana folds katakana to hiragana.
func ToHiragana(s string) string {
	runes := []rune(s)
	for i, r := range runes {
		if r >= 0x30A1 && r <= 0x30F6 {
			runes[i] = r - 0x60
		}
	}
	return string(runes)
}
