package orders

import (
	"fmt"
	"time"

	"github.com/mcharvet/boutik/internal/models"
)

// Metrics aggregates a set of orders for the admin dashboard
type Metrics struct {
	TotalOrders       int                     `json:"totalOrders"`
	TotalRevenue      float64                 `json:"totalRevenue"`
	AverageOrderValue float64                 `json:"averageOrderValue"`
	ByStatus          map[models.Status]int   `json:"byStatus"`
	ByPriority        map[models.Priority]int `json:"byPriority"`
	BySource          map[string]int          `json:"bySource"`
}

// CalculateMetrics is a single aggregation pass over the given orders.
// Revenue counts delivered orders only; average order value spans all orders.
func CalculateMetrics(orders []models.Order) Metrics {
	m := Metrics{
		TotalOrders: len(orders),
		ByStatus:    map[models.Status]int{},
		ByPriority:  map[models.Priority]int{},
		BySource:    map[string]int{},
	}
	var totalValue float64
	for _, o := range orders {
		m.ByStatus[o.Status]++
		m.ByPriority[o.Priority]++
		m.BySource[o.Source]++
		totalValue += o.TotalAmount
		if o.Status == models.StatusDelivered {
			m.TotalRevenue += o.TotalAmount
		}
	}
	if len(orders) > 0 {
		m.AverageOrderValue = totalValue / float64(len(orders))
	}
	return m
}

type NotificationLevel string

const (
	NotifyInfo    NotificationLevel = "info"
	NotifyWarning NotificationLevel = "warning"
	NotifyError   NotificationLevel = "error"
)

// Notification is an advisory dashboard message derived from order state
type Notification struct {
	Level       NotificationLevel `json:"level"`
	OrderID     string            `json:"orderId"`
	OrderNumber string            `json:"orderNumber"`
	Message     string            `json:"message"`
}

// stalePendingAge is how long an order may sit pending before flagging it
const stalePendingAge = 24 * time.Hour

// Notifications derives advisory messages from order state. Nothing is
// persisted.
func Notifications(orders []models.Order, now time.Time) []Notification {
	var out []Notification
	for _, o := range orders {
		if o.Status == models.StatusPending && now.Sub(o.CreatedAt) > stalePendingAge {
			out = append(out, Notification{
				Level:       NotifyWarning,
				OrderID:     o.ID.Hex(),
				OrderNumber: o.OrderNumber,
				Message:     fmt.Sprintf("order %s has been pending for more than a day", o.OrderNumber),
			})
		}
		if o.Priority == models.PriorityHigh || o.Priority == models.PriorityUrgent {
			out = append(out, Notification{
				Level:       NotifyInfo,
				OrderID:     o.ID.Hex(),
				OrderNumber: o.OrderNumber,
				Message:     fmt.Sprintf("order %s is marked %s priority", o.OrderNumber, o.Priority),
			})
		}
		if o.PaymentStatus == models.PaymentFailed {
			out = append(out, Notification{
				Level:       NotifyError,
				OrderID:     o.ID.Hex(),
				OrderNumber: o.OrderNumber,
				Message:     fmt.Sprintf("payment failed for order %s", o.OrderNumber),
			})
		}
	}
	return out
}
