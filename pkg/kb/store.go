package kb

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

const (
	tokensFile    = "tokens.json"
	kanjisFile    = "kanjis.json"
	sequencesFile = "sequences.json"
	docsFile      = "docs.json"

	backupDirName   = "backups"
	backupTimestamp = "20060102T150405"
)

// Store is the in-memory, disk-backed item store. It is not safe for
// concurrent use; persistence only happens through explicit Save calls.
type Store struct {
	dir    string
	logger *slog.Logger

	tokens    []TokenItem
	kanjis    []KanjiItem
	sequences []SequenceItem
	docs      []DocItem
}

// Open loads all four tables from dir. A missing directory or missing table
// file yields an empty table, not an error.
func Open(dir string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{dir: dir, logger: logger}
	if err := loadTable(dir, tokensFile, &s.tokens); err != nil {
		return nil, err
	}
	if err := loadTable(dir, kanjisFile, &s.kanjis); err != nil {
		return nil, err
	}
	if err := loadTable(dir, sequencesFile, &s.sequences); err != nil {
		return nil, err
	}
	if err := loadTable(dir, docsFile, &s.docs); err != nil {
		return nil, err
	}
	logger.Debug("store loaded",
		"dir", dir,
		"tokens", len(s.tokens),
		"kanjis", len(s.kanjis),
		"sequences", len(s.sequences),
		"docs", len(s.docs))
	return s, nil
}

func loadTable[T any](dir, name string, out *[]T) error {
	path := filepath.Join(dir, name)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		*out = nil
		return nil
	}
	if err != nil {
		return fmt.Errorf("read table %s: %w", name, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode table %s: %w", name, err)
	}
	return nil
}

// Dir returns the state directory the store loads from and saves to.
func (s *Store) Dir() string { return s.dir }

// Save writes all four tables to the live location. With backup set it also
// writes a full copy under a timestamped subdirectory of backups/.
func (s *Store) Save(backup bool) error {
	if err := s.saveTo(s.dir); err != nil {
		return err
	}
	if backup {
		stamp := time.Now().Format(backupTimestamp)
		backupDir := filepath.Join(s.dir, backupDirName, stamp)
		if err := s.saveTo(backupDir); err != nil {
			return err
		}
		s.logger.Info("store backup written", "dir", backupDir)
	}
	return nil
}

func (s *Store) saveTo(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create state directory %q: %w", dir, err)
	}
	if err := saveTable(dir, tokensFile, s.tokens); err != nil {
		return err
	}
	if err := saveTable(dir, kanjisFile, s.kanjis); err != nil {
		return err
	}
	if err := saveTable(dir, sequencesFile, s.sequences); err != nil {
		return err
	}
	return saveTable(dir, docsFile, s.docs)
}

func saveTable[T any](dir, name string, rows []T) error {
	if rows == nil {
		rows = []T{}
	}
	data, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return fmt.Errorf("encode table %s: %w", name, err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write table %s: %w", name, err)
	}
	return nil
}

// Snapshot returns an independent deep copy of the store, sharing the same
// state directory. Commits mutate a snapshot so a crash mid-commit leaves
// the live store untouched.
func (s *Store) Snapshot() *Store {
	out := &Store{dir: s.dir, logger: s.logger}
	out.tokens = make([]TokenItem, len(s.tokens))
	for i, t := range s.tokens {
		out.tokens[i] = t.clone()
	}
	out.kanjis = make([]KanjiItem, len(s.kanjis))
	for i, k := range s.kanjis {
		out.kanjis[i] = k.clone()
	}
	out.sequences = make([]SequenceItem, len(s.sequences))
	for i, q := range s.sequences {
		out.sequences[i] = q.clone()
	}
	out.docs = append([]DocItem(nil), s.docs...)
	return out
}

// Counts reports the number of rows per table, in table enum order.
func (s *Store) Counts() map[Table]int {
	return map[Table]int{
		TableTokens:    len(s.tokens),
		TableKanjis:    len(s.kanjis),
		TableSequences: len(s.sequences),
		TableDocs:      len(s.docs),
	}
}
