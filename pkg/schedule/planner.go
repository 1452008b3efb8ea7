// Package schedule plans study rounds over the item store: it stages due and
// hand-picked vocabulary under a capacity limit, enforces that a vocab's
// kanji are learned before (or with) the vocab, and commits the finished
// plan back to the store as flashcards and state changes.
package schedule

import (
	"fmt"
	"log/slog"
	"time"

	"bookcards/pkg/kb"
	"bookcards/pkg/tokenize"
)

// Config sets the shape of one study round.
type Config struct {
	// NDaysStudy is how many days the round covers.
	NDaysStudy int
	// NCardsPerDay is how many new cards fit in one day.
	NCardsPerDay int
	// MinDaysBetweenKanjiAndVocab is the gap stamped on vocab deferred
	// until after its kanji have been studied. It must exceed NDaysStudy,
	// otherwise deferred vocab would come due inside the same round.
	MinDaysBetweenKanjiAndVocab int
	// Today overrides the reference date, mainly for tests. Zero means
	// time.Now.
	Today time.Time
}

func (c Config) validate() error {
	if c.NDaysStudy < 1 {
		return fmt.Errorf("%w: study window must cover at least one day", ErrInvalidConfig)
	}
	if c.NCardsPerDay < 1 {
		return fmt.Errorf("%w: need at least one card per day", ErrInvalidConfig)
	}
	if c.NDaysStudy >= c.MinDaysBetweenKanjiAndVocab {
		return fmt.Errorf("%w: kanji-to-vocab gap (%d days) must exceed the study window (%d days)",
			ErrInvalidConfig, c.MinDaysBetweenKanjiAndVocab, c.NDaysStudy)
	}
	return nil
}

// ValueSource identifies one tracked item: a value within a source.
type ValueSource struct {
	Value  string
	Source string
}

// Planner stages one round of study. It only reads the store; all writes
// happen in EndScheduling, against a snapshot.
type Planner struct {
	store  *kb.Store
	cfg    Config
	today  time.Time
	logger *slog.Logger

	committedVocab []ValueSource
	committedKanji []ValueSource
	uncertainVocab []ValueSource
	deferredVocab  []ValueSource
	studyFrom      map[ValueSource]time.Time

	vocabToKnow    []ValueSource
	kanjiToKnow    []ValueSource
	vocabToSuspend []ValueSource
	kanjiToSuspend []ValueSource
}

// NewPlanner validates cfg, pulls the vocab due within the study window, and
// commits as much of it as capacity allows. Due vocab is committed as-is:
// its kanji were checked when the study date was stamped.
func NewPlanner(store *kb.Store, cfg Config, logger *slog.Logger) (*Planner, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	today := cfg.Today
	if today.IsZero() {
		today = time.Now()
	}
	p := &Planner{
		store:     store,
		cfg:       cfg,
		today:     kb.DateOf(today),
		logger:    logger,
		studyFrom: make(map[ValueSource]time.Time),
	}

	horizon := p.today.AddDate(0, 0, cfg.NDaysStudy)
	due, err := store.TokenItems(kb.Query{
		NotAdded:     true,
		NotKnown:     true,
		NotSuspended: true,
		MaxStudyDate: &horizon,
	})
	if err != nil {
		return nil, err
	}
	for _, item := range due {
		if p.Load() >= p.Capacity() {
			logger.Warn("due vocab does not fit this round", "token", item.Token, "source", item.SourceName)
			continue
		}
		p.committedVocab = append(p.committedVocab, ValueSource{item.Token, item.SourceName})
	}
	logger.Info("round planned", "due", len(due), "committed", len(p.committedVocab), "capacity", p.Capacity())
	return p, nil
}

// Capacity is the number of items one round can hold.
func (p *Planner) Capacity() int { return p.cfg.NDaysStudy * p.cfg.NCardsPerDay }

// Load is the number of capacity slots currently taken: committed vocab and
// kanji, plus vocab parked as uncertain.
func (p *Planner) Load() int {
	return len(p.committedVocab) + len(p.committedKanji) + len(p.uncertainVocab)
}

// Today returns the reference date of the round.
func (p *Planner) Today() time.Time { return p.today }

// CommittedVocab lists the vocab staged for the next round.
func (p *Planner) CommittedVocab() []ValueSource { return copyPairs(p.committedVocab) }

// CommittedKanji lists the kanji staged for the next round.
func (p *Planner) CommittedKanji() []ValueSource { return copyPairs(p.committedKanji) }

// UncertainVocab lists vocab picked but still blocked on kanji decisions.
func (p *Planner) UncertainVocab() []ValueSource { return copyPairs(p.uncertainVocab) }

// DeferredVocab lists vocab pushed to rounds after the next one.
func (p *Planner) DeferredVocab() []ValueSource { return copyPairs(p.deferredVocab) }

func copyPairs(in []ValueSource) []ValueSource {
	return append([]ValueSource(nil), in...)
}

// AddVocabOfInterest stages a vocab the user wants to study. When all of its
// kanji are resolved (known, staged this round, or marked to be known) it is
// committed; otherwise it is parked as uncertain until the kanji decisions
// are made.
func (p *Planner) AddVocabOfInterest(token, source string) error {
	if p.Load() >= p.Capacity() {
		return ErrCapacityReached
	}
	vs := ValueSource{token, source}
	if p.staged(vs) {
		return fmt.Errorf("%w: %q from %q", ErrAlreadyStaged, token, source)
	}
	if ok, err := p.addable(token, source); err != nil {
		return err
	} else if !ok {
		return fmt.Errorf("%w: %q from %q", ErrNoAddableEntry, token, source)
	}

	pending, err := p.unresolvedKanji(token, source, true)
	if err != nil {
		return err
	}
	if len(pending) == 0 {
		p.committedVocab = append(p.committedVocab, vs)
		p.logger.Debug("vocab committed", "token", token, "source", source)
		return nil
	}
	p.uncertainVocab = append(p.uncertainVocab, vs)
	p.logger.Debug("vocab parked as uncertain", "token", token, "source", source, "kanji", pending)
	return nil
}

// AddVocabForNextRound commits a vocab to the next round. Every kanji in it
// must be known, staged this round, or marked to be known; otherwise a
// KanjiNotKnownError lists the offenders. Vocab previously parked as
// uncertain keeps its capacity slot.
func (p *Planner) AddVocabForNextRound(token, source string) error {
	vs := ValueSource{token, source}
	if contains(p.committedVocab, vs) || contains(p.deferredVocab, vs) {
		return fmt.Errorf("%w: %q from %q", ErrAlreadyStaged, token, source)
	}
	fromUncertain := contains(p.uncertainVocab, vs)
	if !fromUncertain {
		if p.Load() >= p.Capacity() {
			return ErrCapacityReached
		}
		if ok, err := p.addable(token, source); err != nil {
			return err
		} else if !ok {
			return fmt.Errorf("%w: %q from %q", ErrNoAddableEntry, token, source)
		}
	}

	pending, err := p.unresolvedKanji(token, source, true)
	if err != nil {
		return err
	}
	if len(pending) > 0 {
		return &KanjiNotKnownError{Token: token, Kanji: pending}
	}

	if fromUncertain {
		p.uncertainVocab = remove(p.uncertainVocab, vs)
	}
	p.committedVocab = append(p.committedVocab, vs)
	return nil
}

// AddKanjiForNextRound commits a kanji to the next round, typically after
// AddVocabForNextRound reported it as unknown.
func (p *Planner) AddKanjiForNextRound(kanji, source string) error {
	if p.Load() >= p.Capacity() {
		return ErrCapacityReached
	}
	vs := ValueSource{kanji, source}
	if contains(p.committedKanji, vs) {
		return fmt.Errorf("%w: %q from %q", ErrAlreadyStaged, kanji, source)
	}
	rows, err := p.store.KanjiItems(kb.Query{
		Value:        kanji,
		Source:       source,
		NotAdded:     true,
		NotKnown:     true,
		NotSuspended: true,
	})
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("%w: kanji %q from %q", ErrNoAddableEntry, kanji, source)
	}
	p.committedKanji = append(p.committedKanji, vs)
	return nil
}

// AddVocabForRoundsAfterNext defers an uncertain vocab until after its kanji
// have been studied: it gets a study date one kanji-to-vocab gap from today.
// Every kanji must be known or committed to the next round; kanji merely
// marked to be known do not count, since they will never be studied.
func (p *Planner) AddVocabForRoundsAfterNext(token, source string) error {
	vs := ValueSource{token, source}
	if !contains(p.uncertainVocab, vs) {
		return fmt.Errorf("%w: %q from %q is not pending a kanji decision", ErrNoAddableEntry, token, source)
	}

	pending, err := p.unresolvedKanji(token, source, false)
	if err != nil {
		return err
	}
	if len(pending) > 0 {
		return &KanjiNotKnownOrAddedError{Token: token, Kanji: pending}
	}

	p.uncertainVocab = remove(p.uncertainVocab, vs)
	p.deferredVocab = append(p.deferredVocab, vs)
	p.studyFrom[vs] = p.today.AddDate(0, 0, p.cfg.MinDaysBetweenKanjiAndVocab)
	return nil
}

// SetVocabKnown records that a vocab is already known. Applied to every
// source at commit time. Idempotent.
func (p *Planner) SetVocabKnown(token, source string) error {
	if err := p.exists(kb.TableTokens, token, source); err != nil {
		return err
	}
	vs := ValueSource{token, source}
	p.uncertainVocab = remove(p.uncertainVocab, vs)
	if !contains(p.vocabToKnow, vs) {
		p.vocabToKnow = append(p.vocabToKnow, vs)
	}
	return nil
}

// SetKanjiKnown records that a kanji is already known. Applied to every
// source at commit time. Idempotent.
func (p *Planner) SetKanjiKnown(kanji, source string) error {
	if err := p.exists(kb.TableKanjis, kanji, source); err != nil {
		return err
	}
	vs := ValueSource{kanji, source}
	if !contains(p.kanjiToKnow, vs) {
		p.kanjiToKnow = append(p.kanjiToKnow, vs)
	}
	return nil
}

// SuspendVocab excludes a vocab of this source from future rounds.
// Idempotent.
func (p *Planner) SuspendVocab(token, source string) error {
	if err := p.exists(kb.TableTokens, token, source); err != nil {
		return err
	}
	vs := ValueSource{token, source}
	p.uncertainVocab = remove(p.uncertainVocab, vs)
	if !contains(p.vocabToSuspend, vs) {
		p.vocabToSuspend = append(p.vocabToSuspend, vs)
	}
	return nil
}

// SuspendKanji excludes a kanji of this source from future rounds.
// Idempotent.
func (p *Planner) SuspendKanji(kanji, source string) error {
	if err := p.exists(kb.TableKanjis, kanji, source); err != nil {
		return err
	}
	vs := ValueSource{kanji, source}
	if !contains(p.kanjiToSuspend, vs) {
		p.kanjiToSuspend = append(p.kanjiToSuspend, vs)
	}
	return nil
}

// addable reports whether a studiable row exists for (token, source).
func (p *Planner) addable(token, source string) (bool, error) {
	rows, err := p.store.TokenItems(kb.Query{
		Value:        token,
		Source:       source,
		NotAdded:     true,
		NotKnown:     true,
		NotSuspended: true,
	})
	if err != nil {
		return false, err
	}
	return len(rows) > 0, nil
}

func (p *Planner) exists(table kb.Table, value, source string) error {
	var n int
	switch table {
	case kb.TableTokens:
		rows, err := p.store.TokenItems(kb.Query{Value: value, Source: source})
		if err != nil {
			return err
		}
		n = len(rows)
	case kb.TableKanjis:
		rows, err := p.store.KanjiItems(kb.Query{Value: value, Source: source})
		if err != nil {
			return err
		}
		n = len(rows)
	}
	if n == 0 {
		return fmt.Errorf("%w: %q from %q", kb.ErrNotFound, value, source)
	}
	return nil
}

// unresolvedKanji returns the kanji of token that are not yet accounted for.
// A kanji counts as resolved when the store knows it for this source or it
// is committed to the next round. With allowPending set, kanji marked to be
// known resolve as well.
func (p *Planner) unresolvedKanji(token, source string, allowPending bool) ([]string, error) {
	var pending []string
	for _, k := range tokenize.UniqueKanji(token) {
		known, err := p.kanjiKnown(k, source)
		if err != nil {
			return nil, err
		}
		if known || containsValue(p.committedKanji, k) {
			continue
		}
		if allowPending && containsValue(p.kanjiToKnow, k) {
			continue
		}
		pending = append(pending, k)
	}
	return pending, nil
}

// kanjiKnown reports whether the store holds no unknown row for this kanji
// and source.
func (p *Planner) kanjiKnown(kanji, source string) (bool, error) {
	rows, err := p.store.KanjiItems(kb.Query{Value: kanji, Source: source, NotKnown: true})
	if err != nil {
		return false, err
	}
	return len(rows) == 0, nil
}

func (p *Planner) staged(vs ValueSource) bool {
	return contains(p.committedVocab, vs) || contains(p.uncertainVocab, vs) || contains(p.deferredVocab, vs)
}

func contains(in []ValueSource, vs ValueSource) bool {
	for _, x := range in {
		if x == vs {
			return true
		}
	}
	return false
}

func containsValue(in []ValueSource, value string) bool {
	for _, x := range in {
		if x.Value == value {
			return true
		}
	}
	return false
}

func remove(in []ValueSource, vs ValueSource) []ValueSource {
	out := in[:0]
	for _, x := range in {
		if x != vs {
			out = append(out, x)
		}
	}
	return out
}
