package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradesheet/config"
)

var rootCmd = &cobra.Command{
	Use:   "tradesheet",
	Short: "Daily trading signal ledger with trade reconciliation",
	Long: `Tradesheet generates daily buy/sell signals for a list of instruments,
appends them to a signal ledger, and reconciles the ledger into closed trades
and performance metrics.

It provides tools for:
  - Running one signal cycle (generate, append, journal, reconcile)
  - Serving the ledger and summary over HTTP
  - Sending buy alerts to Telegram or Firebase Cloud Messaging
  - Exporting the summary as an Org document

Secrets are read from the environment or a .env file:
  TELEGRAM_BOT_TOKEN, TELEGRAM_CHAT_ID, FIREBASE_CREDENTIALS_PATH, DATABASE_URL`,
	SilenceUsage: true,
}

var (
	cfgFile  string
	envFile  string
	logLevel string
)

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (YAML or JSON); defaults are used when empty")
	rootCmd.PersistentFlags().StringVar(&envFile, "env", ".env", "dotenv file with secrets")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override app.log_level")
}

// loadConfig reads the config file (or defaults) and layers secrets from the
// environment on top. A missing dotenv file is not an error.
func loadConfig() (*config.Config, error) {
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", envFile, err)
	}

	cfg := config.Default()
	if cfgFile != "" {
		loaded, err := config.LoadFromFile(cfgFile)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}
	if logLevel != "" {
		cfg.App.LogLevel = logLevel
	}
	cfg.ApplyEnv(os.Getenv)
	return cfg, nil
}
