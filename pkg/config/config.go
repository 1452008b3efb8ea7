// Package config loads and validates the bookcards configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

const (
	defaultStateDir             = "~/.local/share/bookcards/state"
	defaultCardsDir             = "~/.local/share/bookcards/cards"
	defaultDictionaryPath       = "~/.local/share/bookcards/jmdict-eng-common.json"
	defaultCorpusPath           = "~/.local/share/bookcards/tatoeba.db"
	defaultLogFormat            = "text"
	defaultLogLevel             = "info"
	defaultDaysPerRound         = 4
	defaultCardsPerDay          = 6
	defaultKanjiVocabGap        = 7
	defaultIngestWorkers        = 4
	defaultMaxSequencesPerToken = 10
)

// Paths contains the on-disk locations of state and resources.
type Paths struct {
	StateDir       string `toml:"state_dir"`
	CardsDir       string `toml:"cards_dir"`
	DictionaryPath string `toml:"dictionary_path"`
	CorpusPath     string `toml:"corpus_path"`
}

// Study contains the study round parameters.
type Study struct {
	DaysPerRound                int `toml:"days_per_round"`
	CardsPerDay                 int `toml:"cards_per_day"`
	MinDaysBetweenKanjiAndVocab int `toml:"min_days_between_kanji_and_vocab"`
}

// Ingest contains document ingestion parameters.
type Ingest struct {
	Workers              int  `toml:"workers"`
	DropASCIITokens      bool `toml:"drop_ascii_tokens"`
	MaxSequencesPerToken int  `toml:"max_sequences_per_token"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for bookcards.
type Config struct {
	Paths   Paths   `toml:"paths"`
	Study   Study   `toml:"study"`
	Ingest  Ingest  `toml:"ingest"`
	Logging Logging `toml:"logging"`
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StateDir:       defaultStateDir,
			CardsDir:       defaultCardsDir,
			DictionaryPath: defaultDictionaryPath,
			CorpusPath:     defaultCorpusPath,
		},
		Study: Study{
			DaysPerRound:                defaultDaysPerRound,
			CardsPerDay:                 defaultCardsPerDay,
			MinDaysBetweenKanjiAndVocab: defaultKanjiVocabGap,
		},
		Ingest: Ingest{
			Workers:              defaultIngestWorkers,
			MaxSequencesPerToken: defaultMaxSequencesPerToken,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

// DefaultConfigPath returns the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/bookcards/config.toml")
}

// Load parses and validates the configuration at path. A missing file yields
// the defaults. Path fields in the result are expanded.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			return nil, err
		}
		path = defaultPath
	} else {
		expanded, err := expandPath(path)
		if err != nil {
			return nil, err
		}
		path = expanded
	}

	file, err := os.Open(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		// Defaults only.
	case err != nil:
		return nil, fmt.Errorf("open config: %w", err)
	default:
		defer file.Close()
		if err := toml.NewDecoder(file).Decode(&cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.expandPaths(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if c.Paths.StateDir == "" {
		return errors.New("paths.state_dir must be set")
	}
	if c.Paths.CardsDir == "" {
		return errors.New("paths.cards_dir must be set")
	}
	if c.Study.DaysPerRound < 1 {
		return errors.New("study.days_per_round must be at least 1")
	}
	if c.Study.CardsPerDay < 1 {
		return errors.New("study.cards_per_day must be at least 1")
	}
	if c.Study.MinDaysBetweenKanjiAndVocab <= c.Study.DaysPerRound {
		return errors.New("study.min_days_between_kanji_and_vocab must exceed study.days_per_round")
	}
	if c.Ingest.Workers < 1 {
		return errors.New("ingest.workers must be at least 1")
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("logging.format must be \"text\" or \"json\", got %q", c.Logging.Format)
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown logging.level %q", c.Logging.Level)
	}
	return nil
}

func (c *Config) expandPaths() error {
	for _, p := range []*string{
		&c.Paths.StateDir,
		&c.Paths.CardsDir,
		&c.Paths.DictionaryPath,
		&c.Paths.CorpusPath,
	} {
		expanded, err := expandPath(*p)
		if err != nil {
			return err
		}
		*p = expanded
	}
	return nil
}

func expandPath(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return filepath.Clean(path), nil
}
