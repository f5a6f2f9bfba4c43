package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ChannelType is the outbound channel of a campaign
type ChannelType string

const (
	ChannelEmail  ChannelType = "email"
	ChannelSMS    ChannelType = "sms"
	ChannelPush   ChannelType = "push"
	ChannelSocial ChannelType = "social"
)

// Valid reports whether t is a known channel
func (t ChannelType) Valid() bool {
	switch t {
	case ChannelEmail, ChannelSMS, ChannelPush, ChannelSocial:
		return true
	}
	return false
}

// CampaignStatus is the lifecycle state of a campaign
type CampaignStatus string

const (
	CampaignStatusDraft     CampaignStatus = "draft"
	CampaignStatusScheduled CampaignStatus = "scheduled"
	CampaignStatusSending   CampaignStatus = "sending"
	CampaignStatusSent      CampaignStatus = "sent"
	CampaignStatusPaused    CampaignStatus = "paused"
	CampaignStatusCancelled CampaignStatus = "cancelled"
)

// SendableStatuses are the statuses from which a send may start
var SendableStatuses = []CampaignStatus{CampaignStatusDraft, CampaignStatusScheduled}

// LockedStatuses are the statuses in which a campaign can no longer be deleted
var LockedStatuses = []CampaignStatus{CampaignStatusSending, CampaignStatusSent}

// CampaignContent holds the message template of a campaign.
// Body may contain the {{firstName}} placeholder.
type CampaignContent struct {
	Subject  string `bson:"subject,omitempty" json:"subject,omitempty"`
	Body     string `bson:"body" json:"body"`
	Template string `bson:"template,omitempty" json:"template,omitempty"`
	MediaURL string `bson:"mediaUrl,omitempty" json:"mediaUrl,omitempty"`
}

// CampaignMetrics aggregates delivery outcomes. Only Sent, Delivered and Failed
// are written by the delivery pipeline; the rest belong to channel callbacks.
type CampaignMetrics struct {
	Sent        int `bson:"sent" json:"sent"`
	Delivered   int `bson:"delivered" json:"delivered"`
	Failed      int `bson:"failed" json:"failed"`
	Opened      int `bson:"opened" json:"opened"`
	Clicked     int `bson:"clicked" json:"clicked"`
	Bounced     int `bson:"bounced" json:"bounced"`
	Conversions int `bson:"conversions" json:"conversions"`
}

// Campaign represents an outbound communication targeting one segment
type Campaign struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID        primitive.ObjectID `bson:"user" json:"user"`
	Name          string             `bson:"name" json:"name"`
	Description   string             `bson:"description,omitempty" json:"description,omitempty"`
	Type          ChannelType        `bson:"type" json:"type"`
	SegmentID     primitive.ObjectID `bson:"segment" json:"segment"`
	Content       CampaignContent    `bson:"content" json:"content"`
	ScheduledDate *time.Time         `bson:"scheduledDate,omitempty" json:"scheduledDate,omitempty"`
	Status        CampaignStatus     `bson:"status" json:"status"`
	Metrics       CampaignMetrics    `bson:"metrics" json:"metrics"`
	SendStartedAt *time.Time         `bson:"sendStartedAt,omitempty" json:"sendStartedAt,omitempty"`
	SentAt        *time.Time         `bson:"sentAt,omitempty" json:"sentAt,omitempty"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// CampaignMessageInput is the message block of campaign create/update payloads
type CampaignMessageInput struct {
	Subject  string `json:"subject"`
	Content  string `json:"content"`
	Template string `json:"template"`
	MediaURL string `json:"mediaUrl"`
}

// CreateCampaignRequest is the payload for POST /campaigns
type CreateCampaignRequest struct {
	Name          string               `json:"name" binding:"required"`
	Description   string               `json:"description"`
	Type          ChannelType          `json:"type" binding:"required"`
	SegmentID     string               `json:"segmentId" binding:"required"`
	Message       CampaignMessageInput `json:"message"`
	ScheduledDate *time.Time           `json:"scheduledDate"`
}

// UpdateCampaignRequest carries a partial campaign update; empty fields keep their value
type UpdateCampaignRequest struct {
	Name          *string               `json:"name"`
	Description   *string               `json:"description"`
	Type          *ChannelType          `json:"type"`
	SegmentID     *string               `json:"segmentId"`
	Message       *CampaignMessageInput `json:"message"`
	ScheduledDate *time.Time            `json:"scheduledDate"`
	Status        *CampaignStatus       `json:"status"`
}
