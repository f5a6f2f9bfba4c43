package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MessageStatus tracks one send attempt
type MessageStatus string

const (
	MessageStatusQueued    MessageStatus = "queued"
	MessageStatusSent      MessageStatus = "sent"
	MessageStatusDelivered MessageStatus = "delivered"
	MessageStatusFailed    MessageStatus = "failed"
	MessageStatusOpened    MessageStatus = "opened"
	MessageStatusClicked   MessageStatus = "clicked"
)

// MessageContent is the personalized content actually sent
type MessageContent struct {
	Subject  string `bson:"subject,omitempty" json:"subject,omitempty"`
	Body     string `bson:"body" json:"body"`
	MediaURL string `bson:"mediaUrl,omitempty" json:"mediaUrl,omitempty"`
}

// Message is one (campaign, customer) send attempt
type Message struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID       primitive.ObjectID `bson:"user" json:"user"`
	CampaignID   primitive.ObjectID `bson:"campaign" json:"campaign"`
	CustomerID   primitive.ObjectID `bson:"customer" json:"customer"`
	Type         ChannelType        `bson:"type" json:"type"`
	Content      MessageContent     `bson:"content" json:"content"`
	Status       MessageStatus      `bson:"status" json:"status"`
	SentAt       *time.Time         `bson:"sentAt,omitempty" json:"sentAt,omitempty"`
	DeliveredAt  *time.Time         `bson:"deliveredAt,omitempty" json:"deliveredAt,omitempty"`
	OpenedAt     *time.Time         `bson:"openedAt,omitempty" json:"openedAt,omitempty"`
	ClickedAt    *time.Time         `bson:"clickedAt,omitempty" json:"clickedAt,omitempty"`
	FailedAt     *time.Time         `bson:"failedAt,omitempty" json:"failedAt,omitempty"`
	FailedReason string             `bson:"failedReason,omitempty" json:"failedReason,omitempty"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}
