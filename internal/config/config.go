package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"nifty-signals/internal/paper"
	"nifty-signals/internal/signal"
)

// Config is the on-disk configuration shape (YAML).
type Config struct {
	// Symbols to evaluate each run. Required.
	Symbols []string `yaml:"symbols"`
	// Index used for quote lookups, e.g. "NIFTY 50".
	Index string `yaml:"index"`

	Signal signal.Config `yaml:"signal"`
	Sizing paper.Sizing  `yaml:"sizing"`

	Store    StoreConfig    `yaml:"store"`
	Data     DataConfig     `yaml:"data"`
	Telegram TelegramConfig `yaml:"telegram"`
}

type StoreConfig struct {
	// Kind selects the persistence backend: "file" (JSON) or "sqlite".
	Kind string `yaml:"kind"`
	Path string `yaml:"path"`
}

type DataConfig struct {
	BaseURL     string `yaml:"base_url"`
	HistoryDays int    `yaml:"history_days"`
	// ArchiveDir, when set, stores fetched bars as parquet for offline backtests.
	ArchiveDir string `yaml:"archive_dir"`
}

type TelegramConfig struct {
	// Token comes from the TELEGRAM_TOKEN environment variable, never YAML.
	Token   string `yaml:"-"`
	ChatID  string `yaml:"chat_id"`
	Channel string `yaml:"channel"`
}

// Default returns the documented operating constants.
func Default() *Config {
	return &Config{
		Index:  "NIFTY 50",
		Signal: signal.Default(),
		Sizing: paper.DefaultSizing(),
		Store: StoreConfig{
			Kind: "file",
			Path: "paper_portfolio.json",
		},
		Data: DataConfig{
			HistoryDays: 365,
		},
	}
}

// Load reads YAML config over the defaults and validates the result.
func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked loads and merges config, but does not validate it.
// Useful for debugging/printing partial configs.
func LoadUnchecked(path string) (*Config, error) {
	c := Default()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(raw, c); err != nil {
			return nil, err
		}
	}
	c.Telegram.Token = os.Getenv("TELEGRAM_TOKEN")
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		c.Telegram.ChatID = v
	}
	if v := os.Getenv("TELEGRAM_GROUP_CHANNEL"); v != "" {
		c.Telegram.Channel = v
	}
	return c, nil
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if len(c.Symbols) == 0 {
		return errors.New("symbols is required")
	}
	if err := c.Signal.Validate(); err != nil {
		return fmt.Errorf("signal config invalid: %w", err)
	}
	if err := c.Sizing.Validate(); err != nil {
		return fmt.Errorf("sizing config invalid: %w", err)
	}
	switch c.Store.Kind {
	case "file", "sqlite":
	default:
		return fmt.Errorf("store.kind must be \"file\" or \"sqlite\", got %q", c.Store.Kind)
	}
	if c.Store.Path == "" {
		return errors.New("store.path is required")
	}
	if c.Data.HistoryDays < c.Signal.MinBars() {
		return fmt.Errorf("data.history_days %d below minimum lookback %d", c.Data.HistoryDays, c.Signal.MinBars())
	}
	return nil
}
