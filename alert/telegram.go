package alert

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

const TelegramAPI = "https://api.telegram.org"

// Telegram posts alerts through the Bot API sendMessage method.
type Telegram struct {
	client *resty.Client
	token  string
	chatID string
}

func NewTelegram(token, chatID string) (*Telegram, error) {
	return NewTelegramWithBaseURL(TelegramAPI, token, chatID)
}

func NewTelegramWithBaseURL(baseURL, token, chatID string) (*Telegram, error) {
	if token == "" || chatID == "" {
		return nil, fmt.Errorf("telegram requires TELEGRAM_BOT_TOKEN and TELEGRAM_CHAT_ID")
	}
	client := resty.New()
	client.SetBaseURL(baseURL)
	client.SetTimeout(10 * time.Second)

	return &Telegram{client: client, token: token, chatID: chatID}, nil
}

type telegramResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

func (t *Telegram) Notify(ctx context.Context, text string) error {
	var out telegramResponse
	resp, err := t.client.R().
		SetContext(ctx).
		SetPathParam("token", t.token).
		SetBody(map[string]string{
			"chat_id":    t.chatID,
			"text":       text,
			"parse_mode": "Markdown",
		}).
		SetResult(&out).
		SetError(&out).
		Post("/bot{token}/sendMessage")
	if err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	if resp.IsError() || !out.OK {
		return fmt.Errorf("telegram send: status %d: %s", resp.StatusCode(), out.Description)
	}
	return nil
}
