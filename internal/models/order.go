package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Order is a purchase made by a customer
type Order struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID     primitive.ObjectID `bson:"user" json:"user"`
	OrderID    string             `bson:"orderId" json:"orderId"`
	CustomerID primitive.ObjectID `bson:"customer" json:"customer"`
	Amount     float64            `bson:"amount" json:"amount"`
	Date       time.Time          `bson:"date" json:"date"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// CreateOrderRequest is the payload for POST /orders
type CreateOrderRequest struct {
	OrderID    string     `json:"orderId" binding:"required"`
	CustomerID string     `json:"customerId" binding:"required"`
	Amount     float64    `json:"amount" binding:"gte=0"`
	Date       *time.Time `json:"date"`
}
