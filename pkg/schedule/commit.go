package schedule

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"bookcards/pkg/cards"
	"bookcards/pkg/kb"
)

// Materializer builds card rows for the committed items. *cards.Builder
// satisfies it.
type Materializer interface {
	VocabCards(ctx context.Context, items []kb.TokenItem) ([]cards.VocabCard, error)
	KanjiCards(ctx context.Context, items []kb.KanjiItem) ([]cards.KanjiCard, error)
}

// ExportPaths are the card files one round commit produced.
type ExportPaths struct {
	Vocab string
	Kanji string
}

const exportTimestamp = "20060102T150405"

// EndScheduling commits the plan: it materializes cards for the committed
// vocab and kanji, writes them as CSV files under a fresh timestamped
// directory in outDir, applies all state changes to a snapshot of the store,
// and persists the snapshot with a backup of the previous state. The live
// store is left untouched; vocab still parked as uncertain is dropped.
func (p *Planner) EndScheduling(ctx context.Context, m Materializer, outDir string) (ExportPaths, error) {
	var paths ExportPaths

	vocabItems, err := p.committedTokenItems()
	if err != nil {
		return paths, err
	}
	kanjiItems, err := p.committedKanjiItems()
	if err != nil {
		return paths, err
	}

	vocabCards, err := m.VocabCards(ctx, vocabItems)
	if err != nil {
		return paths, fmt.Errorf("materialize vocab cards: %w", err)
	}
	kanjiCards, err := m.KanjiCards(ctx, kanjiItems)
	if err != nil {
		return paths, fmt.Errorf("materialize kanji cards: %w", err)
	}

	dir := filepath.Join(outDir, time.Now().Format(exportTimestamp))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return paths, fmt.Errorf("create export dir: %w", err)
	}
	paths.Vocab = filepath.Join(dir, "vocab_cards.csv")
	paths.Kanji = filepath.Join(dir, "kanji_cards.csv")
	if err := cards.WriteVocabCSV(paths.Vocab, vocabCards); err != nil {
		return paths, err
	}
	if err := cards.WriteKanjiCSV(paths.Kanji, kanjiCards); err != nil {
		return paths, err
	}

	snapshot := p.store.Snapshot()
	for _, vs := range p.committedVocab {
		if err := snapshot.MarkAdded(kb.TableTokens, vs.Value, vs.Source); err != nil {
			return paths, err
		}
	}
	for _, vs := range p.deferredVocab {
		if err := snapshot.SetStudyEligibleFrom(vs.Value, vs.Source, p.studyFrom[vs]); err != nil {
			return paths, err
		}
	}
	for _, vs := range p.vocabToKnow {
		if err := snapshot.MarkKnown(kb.TableTokens, vs.Value); err != nil {
			return paths, err
		}
	}
	for _, vs := range p.vocabToSuspend {
		if err := snapshot.MarkSuspended(kb.TableTokens, vs.Value, vs.Source); err != nil {
			return paths, err
		}
	}
	for _, vs := range p.committedKanji {
		if err := snapshot.MarkAdded(kb.TableKanjis, vs.Value, vs.Source); err != nil {
			return paths, err
		}
	}
	for _, vs := range p.kanjiToKnow {
		if err := snapshot.MarkKnown(kb.TableKanjis, vs.Value); err != nil {
			return paths, err
		}
	}
	for _, vs := range p.kanjiToSuspend {
		if err := snapshot.MarkSuspended(kb.TableKanjis, vs.Value, vs.Source); err != nil {
			return paths, err
		}
	}

	if err := snapshot.Save(true); err != nil {
		return paths, fmt.Errorf("persist committed plan: %w", err)
	}

	p.logger.Info("round committed",
		"vocab", len(p.committedVocab),
		"kanji", len(p.committedKanji),
		"deferred", len(p.deferredVocab),
		"dropped_uncertain", len(p.uncertainVocab),
		"export_dir", dir)
	return paths, nil
}

func (p *Planner) committedTokenItems() ([]kb.TokenItem, error) {
	var items []kb.TokenItem
	for _, vs := range p.committedVocab {
		rows, err := p.store.TokenItems(kb.Query{Value: vs.Value, Source: vs.Source})
		if err != nil {
			return nil, err
		}
		if len(rows) == 0 {
			return nil, fmt.Errorf("%w: %q from %q", kb.ErrNotFound, vs.Value, vs.Source)
		}
		items = append(items, rows[0])
	}
	return items, nil
}

func (p *Planner) committedKanjiItems() ([]kb.KanjiItem, error) {
	var items []kb.KanjiItem
	for _, vs := range p.committedKanji {
		rows, err := p.store.KanjiItems(kb.Query{Value: vs.Value, Source: vs.Source})
		if err != nil {
			return nil, err
		}
		if len(rows) == 0 {
			return nil, fmt.Errorf("%w: %q from %q", kb.ErrNotFound, vs.Value, vs.Source)
		}
		items = append(items, rows[0])
	}
	return items, nil
}
