package firebase

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"github.com/rs/zerolog"
	"google.golang.org/api/option"
)

// Client implements notification.Messenger using Firebase Cloud Messaging.
// Messages go to a topic the app subscribes to, so no device token
// bookkeeping is needed here.
type Client struct {
	msgClient *messaging.Client
	topic     string
	log       zerolog.Logger
}

// NewClient initializes a Firebase app and returns an FCM client publishing
// to the given topic.
func NewClient(ctx context.Context, credentialsFile, topic string, log zerolog.Logger) (*Client, error) {
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}

	msgClient, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase messaging client: %w", err)
	}

	return &Client{
		msgClient: msgClient,
		topic:     topic,
		log:       log.With().Str("component", "fcm").Logger(),
	}, nil
}

// Send publishes a push notification to the configured topic.
func (c *Client) Send(ctx context.Context, title, body string, data map[string]string) error {
	msg := &messaging.Message{
		Topic: c.topic,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
	}

	id, err := c.msgClient.Send(ctx, msg)
	if err != nil {
		return fmt.Errorf("failed to send FCM message: %w", err)
	}

	c.log.Debug().Str("message_id", id).Str("topic", c.topic).Msg("Sent push notification")
	return nil
}
