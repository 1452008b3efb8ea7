package corpus

import (
	"context"
	"strings"
	"testing"
)

const testSentences = `100	jpn	彼は歌う。
101	jpn	彼女は毎朝歌う。
102	jpn	食べる。
200	eng	He sings.
201	eng	She sings every morning.
202	eng	I eat.
300	fra	Il chante.
`

const testLinks = `100	200
101	201
102	202
100	300
300	100
`

func newTestCorpus(t *testing.T) *Corpus {
	t.Helper()
	c, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open corpus: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func TestImportKeepsOnlyJapaneseEnglishPairs(t *testing.T) {
	c := newTestCorpus(t)
	n, err := c.Import(context.Background(), strings.NewReader(testSentences), strings.NewReader(testLinks))
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if n != 6 {
		t.Fatalf("stored %d sentences, want 6", n)
	}
	count, err := c.SentenceCount()
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 6 {
		t.Fatalf("sentence count = %d, want 6", count)
	}
}

func TestExamplesMatchByContainment(t *testing.T) {
	c := newTestCorpus(t)
	if _, err := c.Import(context.Background(), strings.NewReader(testSentences), strings.NewReader(testLinks)); err != nil {
		t.Fatalf("import: %v", err)
	}

	got, err := c.Examples("歌う", 10)
	if err != nil {
		t.Fatalf("examples: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d examples, want 2: %+v", len(got), got)
	}
	// Shortest sentence first.
	if got[0].Text != "彼は歌う。" || got[0].Translation != "He sings." {
		t.Fatalf("first example = %+v", got[0])
	}
	if got[1].Text != "彼女は毎朝歌う。" || got[1].Translation != "She sings every morning." {
		t.Fatalf("second example = %+v", got[1])
	}
}

func TestExamplesRespectsLimitAndMisses(t *testing.T) {
	c := newTestCorpus(t)
	if _, err := c.Import(context.Background(), strings.NewReader(testSentences), strings.NewReader(testLinks)); err != nil {
		t.Fatalf("import: %v", err)
	}

	got, err := c.Examples("歌う", 1)
	if err != nil {
		t.Fatalf("examples: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("limit ignored: %+v", got)
	}

	got, err = c.Examples("存在しない", 5)
	if err != nil {
		t.Fatalf("examples: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no examples, got %+v", got)
	}
}

func TestImportIsIdempotent(t *testing.T) {
	c := newTestCorpus(t)
	ctx := context.Background()
	if _, err := c.Import(ctx, strings.NewReader(testSentences), strings.NewReader(testLinks)); err != nil {
		t.Fatalf("first import: %v", err)
	}
	if _, err := c.Import(ctx, strings.NewReader(testSentences), strings.NewReader(testLinks)); err != nil {
		t.Fatalf("second import: %v", err)
	}
	count, err := c.SentenceCount()
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 6 {
		t.Fatalf("sentence count after re-import = %d, want 6", count)
	}
}
