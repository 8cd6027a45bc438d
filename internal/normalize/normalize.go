// Package normalize coerces possibly-partial payloads into fully-populated
// values so the presentation layer never sees a missing field.
package normalize

import (
	"github.com/mcharvet/boutik/internal/models"
)

const (
	defaultProductName  = "Untitled Product"
	defaultCategoryName = "Uncategorized"
	defaultUserName     = "Unknown User"
	defaultOrderNumber  = "N/A"
)

// Product returns a defaulted copy of p, or nil when p is nil
func Product(p *models.Product) *models.Product {
	if p == nil {
		return nil
	}
	out := *p
	if out.Name == "" {
		out.Name = defaultProductName
	}
	if out.Status == "" {
		out.Status = models.ProductActive
	}
	if out.Price < 0 {
		out.Price = 0
	}
	if out.Stock < 0 {
		out.Stock = 0
	}
	if out.Images == nil {
		out.Images = []string{}
	}
	return &out
}

// Order returns a defaulted copy of o, or nil when o is nil
func Order(o *models.Order) *models.Order {
	if o == nil {
		return nil
	}
	out := *o
	if out.OrderNumber == "" {
		out.OrderNumber = defaultOrderNumber
	}
	if out.Status == "" {
		out.Status = models.StatusPending
	}
	if out.Priority == "" {
		out.Priority = models.PriorityNormal
	}
	if out.PaymentStatus == "" {
		out.PaymentStatus = models.PaymentPending
	}
	if out.Source == "" {
		out.Source = models.SourceWebsite
	}
	if out.Items == nil {
		out.Items = []models.OrderItem{}
	}
	return &out
}

// Category returns a defaulted copy of c, or nil when c is nil
func Category(c *models.Category) *models.Category {
	if c == nil {
		return nil
	}
	out := *c
	if out.Name == "" {
		out.Name = defaultCategoryName
	}
	if out.Attributes == nil {
		out.Attributes = []models.CategoryAttribute{}
	}
	return &out
}

// User returns a defaulted copy of u, or nil when u is nil
func User(u *models.User) *models.User {
	if u == nil {
		return nil
	}
	out := *u
	if out.Name == "" {
		out.Name = defaultUserName
	}
	if out.Role == "" {
		out.Role = models.RoleCustomer
	}
	if out.Status == "" {
		out.Status = models.UserActive
	}
	return &out
}
