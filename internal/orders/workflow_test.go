package orders

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/mcharvet/boutik/internal/apperr"
	"github.com/mcharvet/boutik/internal/models"
)

type fakeUsers struct {
	users   map[primitive.ObjectID]models.User
	mu      sync.Mutex
	touched []primitive.ObjectID
}

func (f *fakeUsers) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	if u, ok := f.users[id]; ok {
		return &u, nil
	}
	return nil, apperr.New(apperr.KindNotFound, "user not found")
}

func (f *fakeUsers) TouchLastOrder(_ context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.touched = append(f.touched, id)
	return nil
}

type fakeProducts struct {
	products   map[primitive.ObjectID]models.Product
	mu         sync.Mutex
	decrements map[primitive.ObjectID]int
}

func (f *fakeProducts) FindByIDs(_ context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Product, error) {
	out := map[primitive.ObjectID]models.Product{}
	for _, id := range ids {
		if p, ok := f.products[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func (f *fakeProducts) DecrementStock(_ context.Context, id primitive.ObjectID, qty int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.decrements == nil {
		f.decrements = map[primitive.ObjectID]int{}
	}
	f.decrements[id] += qty
	return nil
}

type fakeOrders struct {
	mu       sync.Mutex
	inserted []*models.Order
}

func (f *fakeOrders) Insert(_ context.Context, o *models.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	o.ID = primitive.NewObjectID()
	f.inserted = append(f.inserted, o)
	return nil
}

var testPricing = Pricing{FreeShippingThreshold: 100, FlatShippingFee: 10, TaxRate: 0.05}

func testWorkflow(t *testing.T, price float64, stock int) (*Workflow, *CreateRequest, *fakeOrders, *fakeProducts, *fakeUsers) {
	t.Helper()
	buyerID := primitive.NewObjectID()
	productID := primitive.NewObjectID()

	users := &fakeUsers{users: map[primitive.ObjectID]models.User{
		buyerID: {ID: buyerID, Name: "Ada", Email: "ada@example.com"},
	}}
	products := &fakeProducts{products: map[primitive.ObjectID]models.Product{
		productID: {ID: productID, Name: "Lamp", Price: price, Stock: stock},
	}}
	saved := &fakeOrders{}

	req := &CreateRequest{
		UserID: buyerID.Hex(),
		Items:  []ItemRequest{{ProductID: productID.Hex(), Quantity: 2}},
		ShippingAddress: &models.Address{
			Name: "Ada", Address: "1 Main St", City: "Lyon", State: "ARA",
			ZipCode: "69001", Country: "FR", Phone: "0600000000",
		},
	}

	return NewWorkflow(users, products, saved, testPricing, zap.NewNop()), req, saved, products, users
}

func TestPlace_ComputesTotals(t *testing.T) {
	t.Run("flat shipping below threshold", func(t *testing.T) {
		// 2 x 50 = 100, not above 100, so shipping 10 and tax 5
		w, req, saved, _, _ := testWorkflow(t, 50, 10)
		receipt, err := w.Place(context.Background(), req)
		require.NoError(t, err)

		assert.Equal(t, 115.0, receipt.TotalAmount)
		require.Len(t, saved.inserted, 1)
		order := saved.inserted[0]
		assert.Equal(t, 100.0, order.Subtotal)
		assert.Equal(t, 10.0, order.Shipping)
		assert.Equal(t, 5.0, order.Tax)
		assert.Equal(t, 0.0, order.Discount)
		assert.Equal(t, order.Subtotal+order.Shipping+order.Tax-order.Discount, order.TotalAmount)
	})

	t.Run("free shipping above threshold", func(t *testing.T) {
		// 2 x 150 = 300 > 100, so shipping 0 and tax 15
		w, req, saved, _, _ := testWorkflow(t, 150, 10)
		receipt, err := w.Place(context.Background(), req)
		require.NoError(t, err)

		assert.Equal(t, 315.0, receipt.TotalAmount)
		order := saved.inserted[0]
		assert.Equal(t, 300.0, order.Subtotal)
		assert.Equal(t, 0.0, order.Shipping)
		assert.Equal(t, 15.0, order.Tax)
	})

	t.Run("caller overrides shipping and tax", func(t *testing.T) {
		w, req, saved, _, _ := testWorkflow(t, 50, 10)
		shipping, tax := 25.0, 0.0
		req.Shipping = &shipping
		req.Tax = &tax

		receipt, err := w.Place(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, 125.0, receipt.TotalAmount)
		assert.Equal(t, 25.0, saved.inserted[0].Shipping)
		assert.Equal(t, 0.0, saved.inserted[0].Tax)
	})

	t.Run("client supplied prices are ignored", func(t *testing.T) {
		w, req, saved, _, _ := testWorkflow(t, 50, 10)
		cheap := 1.0
		req.Items[0].Price = &cheap
		clientSubtotal := 2.0
		req.Subtotal = &clientSubtotal

		receipt, err := w.Place(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, 115.0, receipt.TotalAmount)
		assert.Equal(t, 50.0, saved.inserted[0].Items[0].Price)
	})
}

func TestPlace_Defaults(t *testing.T) {
	w, req, saved, products, users := testWorkflow(t, 50, 10)
	receipt, err := w.Place(context.Background(), req)
	require.NoError(t, err)

	order := saved.inserted[0]
	assert.Equal(t, models.StatusPending, order.Status)
	assert.Equal(t, models.PriorityNormal, order.Priority)
	assert.Equal(t, models.SourceWebsite, order.Source)
	assert.Equal(t, models.PaymentPending, order.PaymentStatus)
	assert.Equal(t, models.PaymentMethodCashOnDelivery, order.PaymentMethod)
	assert.Contains(t, receipt.OrderNumber, "ORD-")
	assert.Contains(t, receipt.TrackingNumber, "TRK-")
	assert.Equal(t, order.ID.Hex(), receipt.OrderID)

	// side effects ran
	assert.Equal(t, 2, products.decrements[order.Items[0].ProductID])
	assert.Len(t, users.touched, 1)
}

func TestPlace_InsufficientStock(t *testing.T) {
	w, req, saved, products, _ := testWorkflow(t, 50, 1)

	_, err := w.Place(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
	assert.Contains(t, err.Error(), "insufficient stock")

	// nothing persisted, nothing decremented
	assert.Empty(t, saved.inserted)
	assert.Empty(t, products.decrements)
}

func TestPlace_UnknownProduct(t *testing.T) {
	w, req, saved, _, _ := testWorkflow(t, 50, 10)
	req.Items = append(req.Items, ItemRequest{ProductID: primitive.NewObjectID().Hex(), Quantity: 1})

	_, err := w.Place(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	assert.Empty(t, saved.inserted)
}

func TestPlace_UnknownBuyer(t *testing.T) {
	w, req, _, _, _ := testWorkflow(t, 50, 10)
	req.UserID = primitive.NewObjectID().Hex()

	_, err := w.Place(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestPlace_BadRequest(t *testing.T) {
	w, valid, _, _, _ := testWorkflow(t, 50, 10)

	cases := []struct {
		name   string
		mutate func(*CreateRequest)
	}{
		{"missing user", func(r *CreateRequest) { r.UserID = "" }},
		{"missing items", func(r *CreateRequest) { r.Items = nil }},
		{"missing address", func(r *CreateRequest) { r.ShippingAddress = nil }},
		{"zero quantity", func(r *CreateRequest) { r.Items[0].Quantity = 0 }},
		{"malformed product id", func(r *CreateRequest) { r.Items[0].ProductID = "nope" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := *valid
			req.Items = append([]ItemRequest(nil), valid.Items...)
			tc.mutate(&req)

			_, err := w.Place(context.Background(), &req)
			require.Error(t, err)
			assert.Equal(t, apperr.KindBadRequest, apperr.KindOf(err))
		})
	}
}

func TestPlace_AddressValidation(t *testing.T) {
	t.Run("lists exactly the missing fields", func(t *testing.T) {
		w, req, _, _, _ := testWorkflow(t, 50, 10)
		req.ShippingAddress.City = "   "
		req.ShippingAddress.Phone = ""

		_, err := w.Place(context.Background(), req)
		require.Error(t, err)
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
		assert.Equal(t, "shipping address is missing required fields: city, phone", err.Error())
	})

	t.Run("fields are trimmed before persisting", func(t *testing.T) {
		w, req, saved, _, _ := testWorkflow(t, 50, 10)
		req.ShippingAddress.City = "  Lyon  "

		_, err := w.Place(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, "Lyon", saved.inserted[0].ShippingAddress.City)
	})
}
