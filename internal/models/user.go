package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is a CRM account; every customer, segment and campaign belongs to one
type User struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name       string             `bson:"name" json:"name"`
	Email      string             `bson:"email" json:"email"`
	Password   string             `bson:"password,omitempty" json:"-"` // bcrypt hash
	GoogleID   string             `bson:"googleId,omitempty" json:"-"`
	Picture    string             `bson:"picture,omitempty" json:"picture,omitempty"`
	Phone      string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Location   string             `bson:"location,omitempty" json:"location,omitempty"`
	Title      string             `bson:"title,omitempty" json:"title,omitempty"`
	Department string             `bson:"department,omitempty" json:"department,omitempty"`
	IsVerified bool               `bson:"isVerified" json:"isVerified"`
	IsAdmin    bool               `bson:"isAdmin" json:"isAdmin"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// UpdateProfileRequest is the payload for PUT /users/profile
type UpdateProfileRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	Phone      string `json:"phone"`
	Location   string `json:"location"`
	Title      string `json:"title"`
	Department string `json:"department"`
}
