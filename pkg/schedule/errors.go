package schedule

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidConfig is returned for planner configs that cannot work,
	// such as a study window longer than the kanji-to-vocab gap.
	ErrInvalidConfig = errors.New("invalid planner config")

	// ErrNoAddableEntry is returned when no studiable row matches the
	// requested item.
	ErrNoAddableEntry = errors.New("no addable entry")

	// ErrCapacityReached is returned when the round already holds as many
	// items as the study window allows.
	ErrCapacityReached = errors.New("round capacity reached")

	// ErrAlreadyStaged is returned when an item is already part of the
	// current plan.
	ErrAlreadyStaged = errors.New("item already staged")
)

// KanjiNotKnownError reports a vocab that cannot join the next round because
// some of its kanji are neither known nor staged for the round.
type KanjiNotKnownError struct {
	Token string
	Kanji []string
}

func (e *KanjiNotKnownError) Error() string {
	return fmt.Sprintf("kanji not known for %q: %s", e.Token, strings.Join(e.Kanji, ", "))
}

// KanjiNotKnownOrAddedError reports a vocab that cannot be deferred to a
// later round because some of its kanji are neither known nor committed to
// the next round.
type KanjiNotKnownOrAddedError struct {
	Token string
	Kanji []string
}

func (e *KanjiNotKnownOrAddedError) Error() string {
	return fmt.Sprintf("kanji not known or staged for %q: %s", e.Token, strings.Join(e.Kanji, ", "))
}
