package alert

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"firebase.google.com/go/v4/messaging"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/tradesheet/ledger"
	"github.com/rustyeddy/tradesheet/metrics"
)

func rec(inst string, a ledger.Action, price string) ledger.Record {
	return ledger.Record{
		LoggedAt:   time.Date(2024, 3, 1, 18, 0, 0, 0, time.UTC),
		Instrument: inst,
		Date:       time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Action:     a,
		Price:      decimal.RequireFromString(price),
	}
}

type recorder struct {
	texts []string
	err   error
}

func (r *recorder) Notify(_ context.Context, text string) error {
	r.texts = append(r.texts, text)
	return r.err
}

func TestFormatBuy(t *testing.T) {
	t.Parallel()

	got := FormatBuy(rec("RELIANCE.NS", ledger.Buy, "2900.5"))
	assert.Equal(t, "📢 *Buy Signal Alert*\n\n📌 Stock: *RELIANCE.NS*\n📅 Date: 2024-03-01\n💰 Price: ₹2900.50", got)
}

func TestDispatcherNotifiesOncePerBuy(t *testing.T) {
	t.Parallel()

	r := &recorder{}
	d := NewDispatcher(r, zerolog.Nop())
	d.OnAppend(context.Background(), []ledger.Record{
		rec("A.NS", ledger.Buy, "1"),
		rec("B.NS", ledger.Sell, "2"),
		rec("C.NS", ledger.Buy, "3"),
	})

	require.Len(t, r.texts, 2)
	assert.Contains(t, r.texts[0], "A.NS")
	assert.Contains(t, r.texts[1], "C.NS")
}

func TestDispatcherSwallowsFailures(t *testing.T) {
	before := testutil.ToFloat64(metrics.AlertsTotal.WithLabelValues("failed"))

	var buf bytes.Buffer
	r := &recorder{err: errors.New("chat not found")}
	d := NewDispatcher(r, zerolog.New(&buf))

	assert.NotPanics(t, func() {
		d.OnAppend(context.Background(), []ledger.Record{
			rec("A.NS", ledger.Buy, "1"),
			rec("B.NS", ledger.Buy, "2"),
		})
	})

	assert.Len(t, r.texts, 2)
	assert.Contains(t, buf.String(), "chat not found")
	assert.Equal(t, before+2, testutil.ToFloat64(metrics.AlertsTotal.WithLabelValues("failed")))
}

func TestDispatcherDuplicateAppendsAlertTwice(t *testing.T) {
	t.Parallel()

	r := &recorder{}
	d := NewDispatcher(r, zerolog.Nop())
	batch := []ledger.Record{rec("A.NS", ledger.Buy, "1")}
	d.OnAppend(context.Background(), batch)
	d.OnAppend(context.Background(), batch)
	assert.Len(t, r.texts, 2)
}

func TestTelegramNotify(t *testing.T) {
	t.Parallel()

	var got map[string]string
	var path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	t.Cleanup(srv.Close)

	tg, err := NewTelegramWithBaseURL(srv.URL, "T0KEN", "42")
	require.NoError(t, err)
	require.NoError(t, tg.Notify(context.Background(), "hello"))

	assert.Equal(t, "/botT0KEN/sendMessage", path)
	assert.Equal(t, "42", got["chat_id"])
	assert.Equal(t, "hello", got["text"])
	assert.Equal(t, "Markdown", got["parse_mode"])
}

func TestTelegramNotifyError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"ok":false,"description":"Bad Request: chat not found"}`))
	}))
	t.Cleanup(srv.Close)

	tg, err := NewTelegramWithBaseURL(srv.URL, "T", "1")
	require.NoError(t, err)
	err = tg.Notify(context.Background(), "hello")
	assert.ErrorContains(t, err, "chat not found")
}

func TestNewTelegramRequiresCredentials(t *testing.T) {
	t.Parallel()

	_, err := NewTelegram("", "1")
	assert.Error(t, err)
}

type fakeSender struct {
	msgs []*messaging.Message
	err  error
}

func (f *fakeSender) Send(_ context.Context, m *messaging.Message) (string, error) {
	f.msgs = append(f.msgs, m)
	return "projects/x/messages/1", f.err
}

func TestFCMNotify(t *testing.T) {
	t.Parallel()

	s := &fakeSender{}
	f := NewFCMWithSender(s, "")
	require.NoError(t, f.Notify(context.Background(), "body"))

	require.Len(t, s.msgs, 1)
	assert.Equal(t, "buy_signals", s.msgs[0].Topic)
	assert.Equal(t, "body", s.msgs[0].Notification.Body)

	s.err = errors.New("quota")
	assert.ErrorContains(t, f.Notify(context.Background(), "x"), "quota")
}

func TestNewFallsBackToLog(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	for _, ch := range []string{"", "log", "telegram", "fcm"} {
		n, err := New(ctx, Config{Channel: ch}, zerolog.Nop())
		require.NoError(t, err, ch)
		assert.IsType(t, LogNotifier{}, n, ch)
	}

	n, err := New(ctx, Config{Channel: "telegram", TelegramToken: "t", TelegramChatID: "c"}, zerolog.Nop())
	require.NoError(t, err)
	assert.IsType(t, &Telegram{}, n)

	_, err = New(ctx, Config{Channel: "pager"}, zerolog.Nop())
	assert.Error(t, err)
}
