package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Product struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Description  string             `bson:"description" json:"description"`
	Price        float64            `bson:"price" json:"price"`
	Stock        int                `bson:"stock" json:"stock"`
	SKU          string             `bson:"sku" json:"sku"`
	CategoryID   primitive.ObjectID `bson:"categoryId,omitempty" json:"categoryId"`
	Images       []string           `bson:"images" json:"images"`
	Rating       float64            `bson:"rating" json:"rating"`
	IsBestSeller bool               `bson:"isBestSeller" json:"isBestSeller"`
	IsNew        bool               `bson:"isNew" json:"isNew"`
	Status       string             `bson:"status" json:"status"` // "active" or "inactive"
	Attributes   map[string]string  `bson:"attributes,omitempty" json:"attributes,omitempty"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

const (
	ProductActive   = "active"
	ProductInactive = "inactive"
)
