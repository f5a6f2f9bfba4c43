package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LogStatus is the coarse outcome recorded in the communication log
type LogStatus string

const (
	LogStatusSent   LogStatus = "SENT"
	LogStatusFailed LogStatus = "FAILED"
)

// Valid reports whether s is SENT or FAILED
func (s LogStatus) Valid() bool {
	return s == LogStatusSent || s == LogStatusFailed
}

// LogMetadata is the free-form part of a communication log entry
type LogMetadata struct {
	Message           string             `bson:"message,omitempty" json:"message,omitempty"`
	CampaignID        primitive.ObjectID `bson:"campaignId,omitempty" json:"campaignId,omitempty"`
	MessageID         primitive.ObjectID `bson:"messageId,omitempty" json:"messageId,omitempty"`
	ExternalMessageID string             `bson:"externalMessageId,omitempty" json:"externalMessageId,omitempty"`
	Channel           ChannelType        `bson:"channel,omitempty" json:"channel,omitempty"`
}

// CommunicationLog is the channel-agnostic audit record of one send attempt
type CommunicationLog struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID        primitive.ObjectID `bson:"user" json:"user"`
	CustomerID    primitive.ObjectID `bson:"customer" json:"customer"`
	SegmentID     primitive.ObjectID `bson:"segment,omitempty" json:"segment,omitempty"`
	Status        LogStatus          `bson:"status" json:"status"`
	FailureReason string             `bson:"failureReason,omitempty" json:"failureReason,omitempty"`
	Metadata      LogMetadata        `bson:"metadata" json:"metadata"`
	SentAt        time.Time          `bson:"sentAt" json:"sentAt"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// DeliveryReceiptRequest is posted by channel providers to POST /delivery/receipt
type DeliveryReceiptRequest struct {
	MessageID     string    `json:"messageId" binding:"required"`
	Status        LogStatus `json:"status" binding:"required"`
	FailureReason string    `json:"failureReason"`
	ReceiptID     string    `json:"receiptId"`
}

// DirectMessageRequest sends one message to one customer through POST /delivery/send
type DirectMessageRequest struct {
	CustomerID string      `json:"customerId" binding:"required"`
	SegmentID  string      `json:"segmentId"`
	Channel    ChannelType `json:"channel"`
	Subject    string      `json:"subject"`
	Message    string      `json:"message" binding:"required"`
}
