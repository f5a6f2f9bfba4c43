package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CustomerStatus is the lifecycle state of a customer record
type CustomerStatus string

const (
	CustomerStatusActive   CustomerStatus = "active"
	CustomerStatusInactive CustomerStatus = "inactive"
	CustomerStatusPending  CustomerStatus = "pending"
)

// Valid reports whether s is a known customer status
func (s CustomerStatus) Valid() bool {
	switch s {
	case CustomerStatusActive, CustomerStatusInactive, CustomerStatusPending:
		return true
	}
	return false
}

// Customer represents a customer owned by a CRM user.
// Email is unique per owner (see the users_email compound index).
type Customer struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID       primitive.ObjectID `bson:"user" json:"user"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`
	Phone        string             `bson:"phone" json:"phone"`
	TotalSpent   float64            `bson:"totalSpent" json:"totalSpent"`
	Visits       int                `bson:"visits" json:"visits"`
	LastActiveAt time.Time          `bson:"lastActiveAt" json:"lastActiveAt"`
	Status       CustomerStatus     `bson:"status" json:"status"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// CreateCustomerRequest is the payload for POST /customers
type CreateCustomerRequest struct {
	Name         string         `json:"name"`
	Email        string         `json:"email"`
	Phone        string         `json:"phone"`
	TotalSpent   float64        `json:"totalSpent"`
	Visits       int            `json:"visits"`
	LastActiveAt *time.Time     `json:"lastActiveAt"`
	Status       CustomerStatus `json:"status"`
}

// UpdateCustomerRequest carries a partial customer update; nil fields keep their value
type UpdateCustomerRequest struct {
	Name         *string         `json:"name"`
	Email        *string         `json:"email"`
	Phone        *string         `json:"phone"`
	TotalSpent   *float64        `json:"totalSpent"`
	Visits       *int            `json:"visits"`
	LastActiveAt *time.Time      `json:"lastActiveAt"`
	Status       *CustomerStatus `json:"status"`
}
