package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Email       string             `bson:"email" json:"email"`
	Role        string             `bson:"role" json:"role"` // "admin" or "customer"
	Status      string             `bson:"status" json:"status"`
	LastOrderAt *time.Time         `bson:"lastOrderAt,omitempty" json:"lastOrderAt,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

const (
	RoleAdmin    = "admin"
	RoleCustomer = "customer"
)

const (
	UserActive   = "active"
	UserInactive = "inactive"
)
