package orders

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mcharvet/boutik/internal/models"
)

func TestCalculateMetrics(t *testing.T) {
	orders := []models.Order{
		{Status: models.StatusDelivered, Priority: models.PriorityNormal, Source: models.SourceWebsite, TotalAmount: 100},
		{Status: models.StatusDelivered, Priority: models.PriorityHigh, Source: models.SourceMobile, TotalAmount: 50},
		{Status: models.StatusPending, Priority: models.PriorityNormal, Source: models.SourceWebsite, TotalAmount: 30},
		{Status: models.StatusCancelled, Priority: models.PriorityLow, Source: models.SourceAdmin, TotalAmount: 20},
	}

	m := CalculateMetrics(orders)

	assert.Equal(t, 4, m.TotalOrders)
	// revenue counts delivered orders only
	assert.Equal(t, 150.0, m.TotalRevenue)
	// average spans all orders: (100+50+30+20)/4
	assert.Equal(t, 50.0, m.AverageOrderValue)
	assert.Equal(t, 2, m.ByStatus[models.StatusDelivered])
	assert.Equal(t, 1, m.ByStatus[models.StatusPending])
	assert.Equal(t, 2, m.ByPriority[models.PriorityNormal])
	assert.Equal(t, 2, m.BySource[models.SourceWebsite])
}

func TestCalculateMetrics_Empty(t *testing.T) {
	m := CalculateMetrics(nil)
	assert.Equal(t, 0, m.TotalOrders)
	assert.Equal(t, 0.0, m.TotalRevenue)
	assert.Equal(t, 0.0, m.AverageOrderValue)
}

func TestNotifications(t *testing.T) {
	now := time.Now()
	stale := models.Order{
		ID: primitive.NewObjectID(), OrderNumber: "ORD-1",
		Status: models.StatusPending, CreatedAt: now.Add(-36 * time.Hour),
	}
	fresh := models.Order{
		ID: primitive.NewObjectID(), OrderNumber: "ORD-2",
		Status: models.StatusPending, CreatedAt: now.Add(-2 * time.Hour),
	}
	urgent := models.Order{
		ID: primitive.NewObjectID(), OrderNumber: "ORD-3",
		Status: models.StatusConfirmed, Priority: models.PriorityUrgent, CreatedAt: now,
	}
	failedPayment := models.Order{
		ID: primitive.NewObjectID(), OrderNumber: "ORD-4",
		Status: models.StatusConfirmed, PaymentStatus: models.PaymentFailed, CreatedAt: now,
	}

	got := Notifications([]models.Order{stale, fresh, urgent, failedPayment}, now)

	levels := map[string]NotificationLevel{}
	for _, n := range got {
		levels[n.OrderNumber] = n.Level
	}
	assert.Equal(t, NotifyWarning, levels["ORD-1"])
	assert.NotContains(t, levels, "ORD-2")
	assert.Equal(t, NotifyInfo, levels["ORD-3"])
	assert.Equal(t, NotifyError, levels["ORD-4"])
}

func TestValidateTransition(t *testing.T) {
	assert.NoError(t, ValidateTransition(models.StatusPending, models.StatusCancelled))

	err := ValidateTransition(models.StatusPending, models.StatusDelivered)
	assert.EqualError(t, err, "cannot update status from pending to delivered")
}
