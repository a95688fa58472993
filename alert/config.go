package alert

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

type Config struct {
	Channel  string `json:"channel" yaml:"channel"` // "telegram", "fcm" or "log"
	FCMTopic string `json:"fcm_topic,omitempty" yaml:"fcm_topic,omitempty"`

	// Secrets come from the environment and are never written to disk.
	TelegramToken       string `json:"-" yaml:"-"`
	TelegramChatID      string `json:"-" yaml:"-"`
	FirebaseCredentials string `json:"-" yaml:"-"`
}

// New builds the notifier for cfg.Channel. A channel whose credentials are
// missing falls back to logging, with a warning.
func New(ctx context.Context, cfg Config, log zerolog.Logger) (Notifier, error) {
	switch cfg.Channel {
	case "", "log":
		return LogNotifier{Log: log}, nil

	case "telegram":
		if cfg.TelegramToken == "" || cfg.TelegramChatID == "" {
			log.Warn().Msg("no telegram credentials found, alerts go to the log")
			return LogNotifier{Log: log}, nil
		}
		return NewTelegram(cfg.TelegramToken, cfg.TelegramChatID)

	case "fcm":
		if cfg.FirebaseCredentials == "" {
			log.Warn().Msg("no firebase credentials found, alerts go to the log")
			return LogNotifier{Log: log}, nil
		}
		return NewFCM(ctx, cfg.FirebaseCredentials, cfg.FCMTopic)

	default:
		return nil, fmt.Errorf("unknown alert channel %q", cfg.Channel)
	}
}
