package dictionary

import (
	"os"
	"path/filepath"
	"testing"
)

func sampleEntries() []Entry {
	return []Entry{
		{
			ID:    "1358280",
			Kanji: []Element{{Text: "食べる", Common: true}},
			Kana:  []Element{{Text: "たべる", Common: true}},
			Sense: []Sense{{
				PartOfSpeech: []string{"v1", "vt"},
				Gloss:        []Gloss{{Text: "to eat", Lang: "eng"}},
			}},
		},
		{
			ID:    "9999999",
			Kanji: []Element{{Text: "食べる"}},
			Kana:  []Element{{Text: "くらべる"}},
			Sense: []Sense{{Gloss: []Gloss{{Text: "obscure reading", Lang: "eng"}}}},
		},
		{
			ID:   "1170870",
			Kana: []Element{{Text: "うたう", Common: true}},
			Sense: []Sense{{
				Gloss: []Gloss{{Text: "to sing", Lang: "eng"}},
			}},
		},
	}
}

func TestLookupByKanjiAndKanaForms(t *testing.T) {
	d := New(sampleEntries())
	if got := d.Lookup("食べる"); len(got) != 1 || got[0].ID != "1358280" {
		t.Fatalf("Lookup(食べる) = %+v", got)
	}
	if got := d.Lookup("たべる"); len(got) != 1 || got[0].ID != "1358280" {
		t.Fatalf("Lookup(たべる) = %+v", got)
	}
	if got := d.Lookup("存在しない"); len(got) != 0 {
		t.Fatalf("Lookup(miss) = %+v", got)
	}
}

func TestLookupFrequencyFilterDropsUncommonWhenCommonExists(t *testing.T) {
	d := New(sampleEntries())
	got := d.Lookup("食べる")
	for _, e := range got {
		if !e.IsCommon() {
			t.Fatalf("uncommon entry %s survived frequency filter", e.ID)
		}
	}
}

func TestLookupFoldsKatakana(t *testing.T) {
	d := New(sampleEntries())
	if got := d.Lookup("ウタウ"); len(got) != 1 || got[0].ID != "1170870" {
		t.Fatalf("Lookup(ウタウ) = %+v", got)
	}
}

func TestToHiragana(t *testing.T) {
	if got := ToHiragana("カタカナ"); got != "かたかな" {
		t.Fatalf("ToHiragana = %q", got)
	}
	if got := ToHiragana("漢字とabc"); got != "漢字とabc" {
		t.Fatalf("ToHiragana mangled non-katakana: %q", got)
	}
}

func TestLoadEntriesWrapperAndArray(t *testing.T) {
	dir := t.TempDir()

	wrapped := filepath.Join(dir, "wrapped.json")
	if err := os.WriteFile(wrapped, []byte(`{"words":[{"id":"1","kana":[{"text":"ねこ","common":true}]}]}`), 0o644); err != nil {
		t.Fatal(err)
	}
	entries, err := LoadEntries(wrapped)
	if err != nil || len(entries) != 1 || entries[0].ID != "1" {
		t.Fatalf("LoadEntries(wrapped) = %+v, %v", entries, err)
	}

	bare := filepath.Join(dir, "bare.json")
	if err := os.WriteFile(bare, []byte(`[{"id":"2","kana":[{"text":"いぬ"}]}]`), 0o644); err != nil {
		t.Fatal(err)
	}
	entries, err = LoadEntries(bare)
	if err != nil || len(entries) != 1 || entries[0].ID != "2" {
		t.Fatalf("LoadEntries(bare) = %+v, %v", entries, err)
	}
}

func TestEntryAccessors(t *testing.T) {
	e := sampleEntries()[0]
	if got := e.KanjiForms(); len(got) != 1 || got[0] != "食べる" {
		t.Fatalf("KanjiForms = %v", got)
	}
	if got := e.KanaForms(); len(got) != 1 || got[0] != "たべる" {
		t.Fatalf("KanaForms = %v", got)
	}
	if got := e.Meanings(); len(got) != 1 || got[0] != "to eat" {
		t.Fatalf("Meanings = %v", got)
	}
}
