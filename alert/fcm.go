package alert

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

// Sender is the part of the FCM messaging client the notifier needs.
type Sender interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

// FCM publishes alerts to a Firebase Cloud Messaging topic.
type FCM struct {
	sender Sender
	topic  string
}

// NewFCM initializes the Firebase app from a service account file.
func NewFCM(ctx context.Context, credentialsPath, topic string) (*FCM, error) {
	if credentialsPath == "" {
		return nil, fmt.Errorf("fcm requires FIREBASE_CREDENTIALS_PATH")
	}
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsPath))
	if err != nil {
		return nil, fmt.Errorf("init firebase app: %w", err)
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("get messaging client: %w", err)
	}
	return NewFCMWithSender(client, topic), nil
}

func NewFCMWithSender(s Sender, topic string) *FCM {
	if topic == "" {
		topic = "buy_signals"
	}
	return &FCM{sender: s, topic: topic}
}

func (f *FCM) Notify(ctx context.Context, text string) error {
	msg := &messaging.Message{
		Topic: f.topic,
		Notification: &messaging.Notification{
			Title: "Buy Signal Alert",
			Body:  text,
		},
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				ChannelID: "buy_signals",
				Priority:  messaging.PriorityHigh,
			},
		},
	}
	if _, err := f.sender.Send(ctx, msg); err != nil {
		return fmt.Errorf("fcm send: %w", err)
	}
	return nil
}
