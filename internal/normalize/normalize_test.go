package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcharvet/boutik/internal/models"
)

func TestEntityNormalizers_NilInput(t *testing.T) {
	assert.Nil(t, Product(nil))
	assert.Nil(t, Order(nil))
	assert.Nil(t, Category(nil))
	assert.Nil(t, User(nil))
}

func TestPayloadNormalizers_NilInput(t *testing.T) {
	d := Dashboard(nil)
	require.NotNil(t, d)
	assert.NotNil(t, d.RecentOrders)
	assert.NotNil(t, d.TopProducts)

	a := Analytics(nil)
	require.NotNil(t, a)
	assert.NotNil(t, a.OrdersByStatus)
	assert.NotNil(t, a.OrdersBySource)
}

func TestProduct_Defaults(t *testing.T) {
	p := Product(&models.Product{Price: -1, Stock: -3})
	assert.Equal(t, "Untitled Product", p.Name)
	assert.Equal(t, models.ProductActive, p.Status)
	assert.Equal(t, 0.0, p.Price)
	assert.Equal(t, 0, p.Stock)
	assert.Equal(t, []string{}, p.Images)
}

func TestProduct_KeepsPopulatedFields(t *testing.T) {
	in := &models.Product{Name: "Lamp", Price: 49.9, Stock: 3, Images: []string{"a.jpg"}}
	p := Product(in)
	assert.Equal(t, "Lamp", p.Name)
	assert.Equal(t, 49.9, p.Price)
	assert.Equal(t, []string{"a.jpg"}, p.Images)
	// input is not mutated
	assert.Equal(t, "", in.Status)
}

func TestOrder_Defaults(t *testing.T) {
	o := Order(&models.Order{})
	assert.Equal(t, "N/A", o.OrderNumber)
	assert.Equal(t, models.StatusPending, o.Status)
	assert.Equal(t, models.PriorityNormal, o.Priority)
	assert.Equal(t, models.PaymentPending, o.PaymentStatus)
	assert.Equal(t, models.SourceWebsite, o.Source)
	assert.Equal(t, []models.OrderItem{}, o.Items)
}

func TestCategoryAndUser_Defaults(t *testing.T) {
	c := Category(&models.Category{})
	assert.Equal(t, "Uncategorized", c.Name)
	assert.Equal(t, []models.CategoryAttribute{}, c.Attributes)

	u := User(&models.User{})
	assert.Equal(t, "Unknown User", u.Name)
	assert.Equal(t, models.RoleCustomer, u.Role)
	assert.Equal(t, models.UserActive, u.Status)
}

func TestFromEnvelope(t *testing.T) {
	t.Run("nil payload", func(t *testing.T) {
		out := FromEnvelope(nil)
		assert.False(t, out.Success)
		assert.Equal(t, []any{}, out.Data)
	})

	t.Run("single object data is coerced to a slice", func(t *testing.T) {
		out := FromEnvelope(map[string]any{
			"success": true,
			"data":    map[string]any{"id": "1"},
		})
		assert.True(t, out.Success)
		require.Len(t, out.Data, 1)
		assert.Equal(t, 1, out.Total)
		assert.Equal(t, 1, out.Pages)
	})

	t.Run("array data with explicit totals", func(t *testing.T) {
		out := FromEnvelope(map[string]any{
			"success": true,
			"data":    []any{1, 2, 3},
			"total":   float64(30),
			"pages":   float64(10),
		})
		assert.Len(t, out.Data, 3)
		assert.Equal(t, 30, out.Total)
		assert.Equal(t, 10, out.Pages)
	})

	t.Run("error payload", func(t *testing.T) {
		out := FromEnvelope(map[string]any{"success": false, "error": "nope"})
		assert.False(t, out.Success)
		assert.Equal(t, "nope", out.Error)
		assert.Equal(t, []any{}, out.Data)
	})
}
