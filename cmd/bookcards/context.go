package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	"bookcards/pkg/config"
	"bookcards/pkg/corpus"
	"bookcards/pkg/dictionary"
	"bookcards/pkg/kb"
	"bookcards/pkg/logging"
	"bookcards/pkg/schedule"
	"bookcards/pkg/tokenize"
	"bookcards/pkg/translate"
)

// commandContext lazily wires the shared pieces behind the subcommands.
type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error

	storeOnce sync.Once
	store     *kb.Store
	storeErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		c.config, c.configErr = config.Load(path)
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger, c.loggerErr = logging.New(os.Stderr, cfg.Logging.Level, cfg.Logging.Format)
	})
	return c.logger, c.loggerErr
}

// openStore loads the item store once and shares it between subcommand
// steps, so a planner and a card builder see the same in-memory state.
func (c *commandContext) openStore() (*kb.Store, error) {
	c.storeOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.storeErr = err
			return
		}
		logger, err := c.ensureLogger()
		if err != nil {
			c.storeErr = err
			return
		}
		if err := os.MkdirAll(cfg.Paths.StateDir, 0o755); err != nil {
			c.storeErr = fmt.Errorf("create state dir: %w", err)
			return
		}
		c.store, c.storeErr = kb.Open(cfg.Paths.StateDir, logger)
	})
	return c.store, c.storeErr
}

// newPlanner builds a round planner over the shared store with the
// configured study parameters.
func (c *commandContext) newPlanner() (*schedule.Planner, error) {
	store, err := c.openStore()
	if err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return schedule.NewPlanner(store, schedule.Config{
		NDaysStudy:                  cfg.Study.DaysPerRound,
		NCardsPerDay:                cfg.Study.CardsPerDay,
		MinDaysBetweenKanjiAndVocab: cfg.Study.MinDaysBetweenKanjiAndVocab,
	}, logger)
}

func (c *commandContext) newAnalyzer() (*tokenize.Analyzer, error) {
	return tokenize.NewAnalyzer()
}

// openDictionary loads the JMdict dump. Missing file is an error: point the
// user at `bookcards dict fetch`.
func (c *commandContext) openDictionary() (*dictionary.Dictionary, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	dict, err := dictionary.Open(cfg.Paths.DictionaryPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("no dictionary at %s; run `bookcards dict fetch` first", cfg.Paths.DictionaryPath)
	}
	return dict, err
}

// openCorpus opens the Tatoeba corpus if one has been imported; nil without
// error otherwise.
func (c *commandContext) openCorpus() (*corpus.Corpus, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(cfg.Paths.CorpusPath); errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	return corpus.Open(cfg.Paths.CorpusPath)
}

// translator returns a DeepL client when an API key is configured, otherwise
// the no-op translator.
func (c *commandContext) translator() (translate.Translator, error) {
	secrets, err := config.LoadSecrets("")
	if err != nil {
		return nil, err
	}
	if secrets.DeepLAPIKey == "" {
		return translate.None{}, nil
	}
	return translate.NewDeepL(secrets.DeepLAPIKey), nil
}
