// Package store provides per-collection repositories over the document
// database. Every operation is wrapped in bounded-attempt retry so transient
// driver errors don't surface as request failures.
package store

import (
	"github.com/mcharvet/boutik/internal/database"
)

type Stores struct {
	Users       *Users
	Products    *Products
	Categories  *Categories
	Orders      *Orders
	Newsletters *Newsletters
	Subscribers *Subscribers
}

// New creates repositories for all collections
func New(db *database.DB, maxAttempts int) *Stores {
	return &Stores{
		Users:       &Users{c: db.Collection("users"), attempts: maxAttempts},
		Products:    &Products{c: db.Collection("products"), attempts: maxAttempts},
		Categories:  &Categories{c: db.Collection("categories"), attempts: maxAttempts},
		Orders:      &Orders{c: db.Collection("orders"), attempts: maxAttempts},
		Newsletters: &Newsletters{c: db.Collection("newsletters"), attempts: maxAttempts},
		Subscribers: &Subscribers{c: db.Collection("newsletter_subscribers"), attempts: maxAttempts},
	}
}
