package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/tradesheet/reconcile"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.NotNil(t, cfg)
	assert.Equal(t, []string{"RELIANCE.NS", "TCS.NS", "INFY.NS"}, cfg.Instruments)
	assert.Equal(t, "sqlite", cfg.Store.Type)
	assert.Equal(t, reconcile.RepeatBuyReplace, cfg.Reconcile.RepeatBuyPolicy())
	assert.Equal(t, 180*24, int(cfg.Signals.Lookback().Hours()))
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		errMsg string
	}{
		{name: "valid config", mutate: func(c *Config) {}},
		{name: "keep first", mutate: func(c *Config) { c.Reconcile.RepeatBuy = "keep_first" }},
		{name: "memory store", mutate: func(c *Config) { c.Store.Type = "memory" }},
		{name: "no instruments", mutate: func(c *Config) { c.Instruments = nil }, errMsg: "instruments must not be empty"},
		{name: "blank instrument", mutate: func(c *Config) { c.Instruments = []string{" "} }, errMsg: "blanks"},
		{name: "duplicate instrument", mutate: func(c *Config) { c.Instruments = []string{"A", "A"} }, errMsg: "duplicate instrument: A"},
		{name: "sqlite without path", mutate: func(c *Config) { c.Store.Path = "" }, errMsg: "store.path required"},
		{name: "unknown store", mutate: func(c *Config) { c.Store.Type = "sheets" }, errMsg: "store.type"},
		{name: "csv without dir", mutate: func(c *Config) { c.Signals.Source = "csv" }, errMsg: "signals.csv_dir"},
		{name: "unknown source", mutate: func(c *Config) { c.Signals.Source = "nse" }, errMsg: "signals.source"},
		{name: "zero lookback", mutate: func(c *Config) { c.Signals.LookbackDays = 0 }, errMsg: "lookback_days"},
		{name: "inverted periods", mutate: func(c *Config) { c.Signals.FastPeriod = 50 }, errMsg: "fast period"},
		{name: "unknown strategy", mutate: func(c *Config) { c.Signals.Strategy = "rsi" }, errMsg: "unknown strategy"},
		{name: "bad repeat policy", mutate: func(c *Config) { c.Reconcile.RepeatBuy = "stack" }, errMsg: "reconcile.repeat_buy"},
		{name: "bad channel", mutate: func(c *Config) { c.Alerts.Channel = "sms" }, errMsg: "alerts.channel"},
		{name: "no journal", mutate: func(c *Config) { c.Journal.Path = "" }, errMsg: "journal.path"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestSaveAndLoadYAML(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "tradesheet.yaml")

	cfg := Default()
	cfg.Instruments = []string{"SBIN.NS"}
	cfg.Reconcile.RepeatBuy = "keep_first"
	cfg.Alerts.TelegramToken = "secret"
	require.NoError(t, cfg.SaveToFile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "secret")

	loaded, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"SBIN.NS"}, loaded.Instruments)
	assert.Equal(t, reconcile.RepeatBuyKeepFirst, loaded.Reconcile.RepeatBuyPolicy())
	assert.Empty(t, loaded.Alerts.TelegramToken)
}

func TestSaveAndLoadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tradesheet.json")

	cfg := Default()
	cfg.HTTP.Addr = ":9090"
	require.NoError(t, cfg.SaveToFile(path))

	loaded, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", loaded.HTTP.Addr)
}

func TestLoadKeepsDefaultsForMissingFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	require.NoError(t, os.WriteFile(path, []byte("instruments: [TCS.NS]\n"), 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"TCS.NS"}, cfg.Instruments)
	assert.Equal(t, 26, cfg.Signals.SlowPeriod)
	assert.Equal(t, "./trades.csv", cfg.Journal.Path)
}

func TestLoadFromFileErrors(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "read config file")

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("instruments: [\n"), 0644))
	_, err = LoadFromFile(path)
	assert.ErrorContains(t, err, "parse config")

	path = filepath.Join(t.TempDir(), "invalid.yaml")
	require.NoError(t, os.WriteFile(path, []byte("instruments: []\n"), 0644))
	_, err = LoadFromFile(path)
	assert.ErrorContains(t, err, "invalid config")
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"TELEGRAM_BOT_TOKEN":        "tok",
		"TELEGRAM_CHAT_ID":          "42",
		"FIREBASE_CREDENTIALS_PATH": "/etc/fcm.json",
		"DATABASE_URL":              "postgres://localhost/ts",
	}
	cfg := Default()
	cfg.ApplyEnv(func(k string) string { return env[k] })

	assert.Equal(t, "tok", cfg.Alerts.TelegramToken)
	assert.Equal(t, "42", cfg.Alerts.TelegramChatID)
	assert.Equal(t, "/etc/fcm.json", cfg.Alerts.FirebaseCredentials)
	assert.Equal(t, "postgres://localhost/ts", cfg.Store.DatabaseURL)

	cfg.Store.DatabaseURL = "postgres://file/ts"
	cfg.ApplyEnv(func(k string) string { return env[k] })
	assert.Equal(t, "postgres://file/ts", cfg.Store.DatabaseURL)
}
