package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rustyeddy/tradesheet/alert"
	"github.com/rustyeddy/tradesheet/feed"
	"github.com/rustyeddy/tradesheet/market"
	"github.com/rustyeddy/tradesheet/market/strategies"
	"github.com/rustyeddy/tradesheet/reconcile"
	"github.com/rustyeddy/tradesheet/store"
)

// Config is the complete tradesheet configuration
type Config struct {
	App         AppConfig       `json:"app" yaml:"app"`
	Instruments []string        `json:"instruments" yaml:"instruments"`
	Store       store.Config    `json:"store" yaml:"store"`
	Signals     SignalsConfig   `json:"signals" yaml:"signals"`
	Reconcile   ReconcileConfig `json:"reconcile" yaml:"reconcile"`
	Alerts      alert.Config    `json:"alerts" yaml:"alerts"`
	Journal     JournalConfig   `json:"journal" yaml:"journal"`
	HTTP        HTTPConfig      `json:"http" yaml:"http"`
}

type AppConfig struct {
	Name      string `json:"name" yaml:"name"`
	LogLevel  string `json:"log_level" yaml:"log_level"`
	LogFormat string `json:"log_format" yaml:"log_format"` // "json" or "console"
}

// SignalsConfig selects the candle source and the strategy run over it
type SignalsConfig struct {
	Source       string  `json:"source" yaml:"source"` // "yahoo" or "csv"
	CSVDir       string  `json:"csv_dir,omitempty" yaml:"csv_dir,omitempty"`
	LookbackDays int     `json:"lookback_days" yaml:"lookback_days"`
	Strategy     string  `json:"strategy" yaml:"strategy"` // "ema_cross" or "ema_cross_adx"
	FastPeriod   int     `json:"fast_period" yaml:"fast_period"`
	SlowPeriod   int     `json:"slow_period" yaml:"slow_period"`
	ADXPeriod    int     `json:"adx_period,omitempty" yaml:"adx_period,omitempty"`
	ADXThreshold float64 `json:"adx_threshold,omitempty" yaml:"adx_threshold,omitempty"`
	RequireDI    bool    `json:"require_di,omitempty" yaml:"require_di,omitempty"`
	MinSpread    float64 `json:"min_spread,omitempty" yaml:"min_spread,omitempty"`
}

type ReconcileConfig struct {
	RepeatBuy string `json:"repeat_buy" yaml:"repeat_buy"` // "replace" or "keep_first"
}

type JournalConfig struct {
	Path string `json:"path" yaml:"path"`
}

type HTTPConfig struct {
	Addr string `json:"addr" yaml:"addr"`
}

// Feed returns the candle source settings.
func (s SignalsConfig) Feed() feed.Config {
	return feed.Config{Source: s.Source, CSVDir: s.CSVDir}
}

// StrategyConfig returns the strategy settings.
func (s SignalsConfig) StrategyConfig() strategies.Config {
	return strategies.Config{
		Name:         s.Strategy,
		FastPeriod:   s.FastPeriod,
		SlowPeriod:   s.SlowPeriod,
		ADXPeriod:    s.ADXPeriod,
		ADXThreshold: s.ADXThreshold,
		RequireDI:    s.RequireDI,
		MinSpread:    s.MinSpread,
	}
}

func (s SignalsConfig) Lookback() time.Duration {
	return time.Duration(s.LookbackDays) * 24 * time.Hour
}

// RepeatBuyPolicy returns the parsed policy. Validate rejects unknown values.
func (r ReconcileConfig) RepeatBuyPolicy() reconcile.RepeatBuy {
	p, _ := reconcile.ParseRepeatBuy(r.RepeatBuy)
	return p
}

// LoadFromFile loads configuration from a file (YAML, falling back to JSON).
// Fields missing from the file keep their defaults.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		cfg = Default()
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves configuration to a file (YAML for .yaml/.yml, JSON otherwise)
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}

	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// ApplyEnv fills secrets from the environment. DATABASE_URL only applies
// when the file does not set store.database_url.
func (c *Config) ApplyEnv(getenv func(string) string) {
	c.Alerts.TelegramToken = getenv("TELEGRAM_BOT_TOKEN")
	c.Alerts.TelegramChatID = getenv("TELEGRAM_CHAT_ID")
	c.Alerts.FirebaseCredentials = getenv("FIREBASE_CREDENTIALS_PATH")
	if c.Store.DatabaseURL == "" {
		c.Store.DatabaseURL = getenv("DATABASE_URL")
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if len(c.Instruments) == 0 {
		return fmt.Errorf("instruments must not be empty")
	}
	seen := make(map[string]bool, len(c.Instruments))
	for _, inst := range c.Instruments {
		if strings.TrimSpace(inst) == "" {
			return fmt.Errorf("instruments must not contain blanks")
		}
		if seen[inst] {
			return fmt.Errorf("duplicate instrument: %s", inst)
		}
		seen[inst] = true
	}

	switch c.Store.Type {
	case "", "memory", "postgres":
	case "sqlite":
		if c.Store.Path == "" {
			return fmt.Errorf("store.path required for sqlite store")
		}
	default:
		return fmt.Errorf("store.type must be 'memory', 'sqlite' or 'postgres'")
	}

	switch c.Signals.Source {
	case "", "yahoo":
	case "csv":
		if c.Signals.CSVDir == "" {
			return fmt.Errorf("signals.csv_dir required for csv source")
		}
	default:
		return fmt.Errorf("signals.source must be 'yahoo' or 'csv'")
	}
	if c.Signals.LookbackDays <= 0 {
		return fmt.Errorf("signals.lookback_days must be positive")
	}
	if _, err := strategies.ByName(c.Signals.StrategyConfig()); err != nil {
		return fmt.Errorf("signals: %w", err)
	}

	if _, ok := reconcile.ParseRepeatBuy(c.Reconcile.RepeatBuy); !ok {
		return fmt.Errorf("reconcile.repeat_buy must be 'replace' or 'keep_first'")
	}

	switch c.Alerts.Channel {
	case "", "log", "telegram", "fcm":
	default:
		return fmt.Errorf("alerts.channel must be 'log', 'telegram' or 'fcm'")
	}

	if c.Journal.Path == "" {
		return fmt.Errorf("journal.path is required")
	}
	return nil
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		App: AppConfig{
			Name:      "tradesheet",
			LogLevel:  "info",
			LogFormat: "json",
		},
		Instruments: append([]string(nil), market.DefaultInstruments...),
		Store: store.Config{
			Type: "sqlite",
			Path: "./data/tradesheet.db",
		},
		Signals: SignalsConfig{
			Source:       "yahoo",
			LookbackDays: 180,
			Strategy:     "ema_cross",
			FastPeriod:   12,
			SlowPeriod:   26,
		},
		Reconcile: ReconcileConfig{
			RepeatBuy: "replace",
		},
		Alerts: alert.Config{
			Channel:  "telegram",
			FCMTopic: "buy_signals",
		},
		Journal: JournalConfig{
			Path: "./trades.csv",
		},
		HTTP: HTTPConfig{
			Addr: ":8080",
		},
	}
}
