// Package push delivers push notifications through Firebase Cloud Messaging.
package push

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"github.com/ArowuTest/customerconnect-backend/internal/config"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/option"
)

// Notifier sends one notification to a recipient and returns the provider message id
type Notifier interface {
	Send(ctx context.Context, recipientID, title, body string) (string, error)
}

// MessagingClient is the part of the FCM client used for delivery
type MessagingClient interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

// New returns an FCM notifier, or a simulated one when simulation is on or no
// service account is configured
func New(ctx context.Context, cfg config.PushConfig, logger *logrus.Logger) (Notifier, error) {
	if cfg.Simulate || cfg.CredentialsFile == "" {
		return NewSimulated(logger), nil
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.ProjectID}, option.WithCredentialsFile(cfg.CredentialsFile))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase messaging: %w", err)
	}
	return NewFCM(client), nil
}

// FCMNotifier publishes to a per-customer topic. Client apps subscribe to the
// topic named after their customer id.
type FCMNotifier struct {
	client MessagingClient
}

// NewFCM creates an FCMNotifier
func NewFCM(client MessagingClient) *FCMNotifier {
	return &FCMNotifier{client: client}
}

// Send publishes the notification to the recipient's topic
func (n *FCMNotifier) Send(ctx context.Context, recipientID, title, body string) (string, error) {
	msg := &messaging.Message{
		Topic: TopicFor(recipientID),
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: map[string]string{"recipient": recipientID},
	}

	id, err := n.client.Send(ctx, msg)
	if err != nil {
		return "", fmt.Errorf("fcm send: %w", err)
	}
	return id, nil
}

// TopicFor names the topic a customer's devices subscribe to
func TopicFor(recipientID string) string {
	return "customer-" + recipientID
}

// SimulatedNotifier logs notifications instead of sending them
type SimulatedNotifier struct {
	logger *logrus.Logger
}

// NewSimulated creates a SimulatedNotifier
func NewSimulated(logger *logrus.Logger) *SimulatedNotifier {
	return &SimulatedNotifier{logger: logger}
}

// Send records the notification and returns a generated id
func (n *SimulatedNotifier) Send(_ context.Context, recipientID, title, body string) (string, error) {
	id := "push-sim-" + uuid.NewString()
	if n.logger != nil {
		n.logger.WithFields(logrus.Fields{
			"recipient":  recipientID,
			"title":      title,
			"message_id": id,
			"length":     len(body),
		}).Info("Push notification simulated")
	}
	return id, nil
}
