package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Combinator joins the rules of a segment
type Combinator string

const (
	CombinatorAnd Combinator = "AND"
	CombinatorOr  Combinator = "OR"
)

// Valid reports whether c is AND or OR
func (c Combinator) Valid() bool {
	return c == CombinatorAnd || c == CombinatorOr
}

// Rule operators understood by the rule compiler
const (
	OperatorGreaterThan = ">"
	OperatorLessThan    = "<"
	OperatorEquals      = "="
	OperatorBefore      = "before"
	OperatorAfter       = "after"
	OperatorBetween     = "between"
)

// Rule is a single field/operator/value condition of a segment
type Rule struct {
	Field    string `bson:"field" json:"field"`
	Operator string `bson:"operator" json:"operator"`
	Value    string `bson:"value" json:"value"`
}

// Segment is a named, rule-defined subset of a user's customers.
// EstimatedCount is a point-in-time cache refreshed on create and update;
// it is never used to pick recipients.
type Segment struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID         primitive.ObjectID `bson:"user" json:"user"`
	Name           string             `bson:"name" json:"name"`
	Description    string             `bson:"description,omitempty" json:"description,omitempty"`
	Rules          []Rule             `bson:"conditions" json:"rules"`
	Combinator     Combinator         `bson:"conditionLogic" json:"combinator"`
	IsActive       bool               `bson:"isActive" json:"isActive"`
	EstimatedCount int64              `bson:"estimatedCount" json:"estimatedCount"`
	LastUpdated    time.Time          `bson:"lastUpdated" json:"lastUpdated"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// CreateSegmentRequest is the payload for POST /segments
type CreateSegmentRequest struct {
	Name        string     `json:"name" binding:"required"`
	Description string     `json:"description"`
	Rules       []Rule     `json:"rules"`
	Combinator  Combinator `json:"combinator"`
}

// UpdateSegmentRequest carries a partial segment update; nil fields keep their value
type UpdateSegmentRequest struct {
	Name        *string     `json:"name"`
	Description *string     `json:"description"`
	Rules       []Rule      `json:"rules"`
	Combinator  *Combinator `json:"combinator"`
	IsActive    *bool       `json:"isActive"`
}

// PreviewSegmentRequest is the payload for POST /segments/preview
type PreviewSegmentRequest struct {
	Rules      []Rule     `json:"rules"`
	Combinator Combinator `json:"combinator"`
}
