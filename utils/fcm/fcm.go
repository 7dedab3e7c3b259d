package fcm

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"github.com/penoFahmi/e-arsip-sub000/config"
	"github.com/penoFahmi/e-arsip-sub000/utils/logger"
	"google.golang.org/api/option"
)

// Prefix untuk nama topic per user di Firebase
const TopicPrefix = "user_"

type Client struct {
	messaging *messaging.Client
}

// NewClient initializes the Firebase Admin SDK messaging client.
func NewClient(ctx context.Context, cfg config.FCMConfig) (*Client, error) {
	var opts []option.ClientOption
	if cfg.CredentialsPath != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsPath))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.ProjectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("error initializing Firebase app: %w", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting Firebase Messaging client: %w", err)
	}

	logger.App().WithField("project_id", cfg.ProjectID).Info("Firebase messaging initialized")
	return &Client{messaging: client}, nil
}

// TopicForUser is the topic every mobile session of a user subscribes to.
func TopicForUser(userID uint) string {
	return fmt.Sprintf("%s%d", TopicPrefix, userID)
}

func (c *Client) SendToTopic(ctx context.Context, topic, title, body string, data map[string]string) error {
	if c == nil || c.messaging == nil {
		return fmt.Errorf("FCM client not initialized")
	}

	msg := &messaging.Message{
		Topic: topic,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
		Android: &messaging.AndroidConfig{
			Priority:     "high",
			Notification: &messaging.AndroidNotification{ChannelID: "default_channel"},
		},
	}

	_, err := c.messaging.Send(ctx, msg)
	return err
}
