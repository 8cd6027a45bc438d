// Package orders implements the order placement workflow and the derived
// order analytics used by the admin dashboard.
package orders

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mcharvet/boutik/internal/apperr"
	"github.com/mcharvet/boutik/internal/models"
)

// UserStore is the slice of the user repository the workflow needs
type UserStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	TouchLastOrder(ctx context.Context, id primitive.ObjectID) error
}

// ProductStore is the slice of the product repository the workflow needs
type ProductStore interface {
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Product, error)
	DecrementStock(ctx context.Context, id primitive.ObjectID, qty int) error
}

type OrderStore interface {
	Insert(ctx context.Context, o *models.Order) error
}

// Pricing holds the checkout pricing rules
type Pricing struct {
	FreeShippingThreshold float64
	FlatShippingFee       float64
	TaxRate               float64
}

// ItemRequest is one requested line item. Price is display-only; the
// authoritative price always comes from the product record.
type ItemRequest struct {
	ProductID string   `json:"productId"`
	Quantity  int      `json:"quantity"`
	Price     *float64 `json:"price,omitempty"`
}

// CreateRequest is the order creation payload
type CreateRequest struct {
	UserID          string          `json:"userId"`
	Items           []ItemRequest   `json:"items"`
	Subtotal        *float64        `json:"subtotal,omitempty"`
	Shipping        *float64        `json:"shipping,omitempty"`
	Tax             *float64        `json:"tax,omitempty"`
	TotalAmount     *float64        `json:"totalAmount,omitempty"`
	ShippingAddress *models.Address `json:"shippingAddress"`
	PaymentMethod   string          `json:"paymentMethod,omitempty"`
	Notes           string          `json:"notes,omitempty"`
}

// Receipt is what the customer gets back after a successful checkout
type Receipt struct {
	OrderID        string  `json:"orderId"`
	OrderNumber    string  `json:"orderNumber"`
	TotalAmount    float64 `json:"totalAmount"`
	Status         string  `json:"status"`
	TrackingNumber string  `json:"trackingNumber"`
}

type Workflow struct {
	users    UserStore
	products ProductStore
	orders   OrderStore
	pricing  Pricing
	logger   *zap.Logger
}

func NewWorkflow(users UserStore, products ProductStore, orders OrderStore, pricing Pricing, logger *zap.Logger) *Workflow {
	return &Workflow{
		users:    users,
		products: products,
		orders:   orders,
		pricing:  pricing,
		logger:   logger,
	}
}

// addressFields lists the required shipping address fields in response order
var addressFields = []string{"name", "address", "city", "state", "zipCode", "country", "phone"}

// missingAddressFields returns the names of required fields that are blank
// after trimming
func missingAddressFields(a *models.Address) []string {
	values := map[string]string{
		"name":    a.Name,
		"address": a.Address,
		"city":    a.City,
		"state":   a.State,
		"zipCode": a.ZipCode,
		"country": a.Country,
		"phone":   a.Phone,
	}
	var missing []string
	for _, f := range addressFields {
		if strings.TrimSpace(values[f]) == "" {
			missing = append(missing, f)
		}
	}
	return missing
}

func normalizeAddress(a *models.Address) models.Address {
	return models.Address{
		Name:    strings.TrimSpace(a.Name),
		Address: strings.TrimSpace(a.Address),
		City:    strings.TrimSpace(a.City),
		State:   strings.TrimSpace(a.State),
		ZipCode: strings.TrimSpace(a.ZipCode),
		Country: strings.TrimSpace(a.Country),
		Phone:   strings.TrimSpace(a.Phone),
	}
}

// Place validates and prices an order request, persists the order, then
// kicks off the best-effort stock decrements and buyer timestamp touch.
func (w *Workflow) Place(ctx context.Context, req *CreateRequest) (*Receipt, error) {
	if req == nil || req.UserID == "" || len(req.Items) == 0 || req.ShippingAddress == nil {
		return nil, apperr.New(apperr.KindBadRequest, "userId, items and shippingAddress are required")
	}

	if missing := missingAddressFields(req.ShippingAddress); len(missing) > 0 {
		return nil, apperr.New(apperr.KindValidation,
			"shipping address is missing required fields: "+strings.Join(missing, ", "))
	}

	userID, err := primitive.ObjectIDFromHex(req.UserID)
	if err != nil {
		return nil, apperr.New(apperr.KindBadRequest, "invalid user id")
	}

	productIDs := make([]primitive.ObjectID, 0, len(req.Items))
	for _, item := range req.Items {
		if item.Quantity <= 0 {
			return nil, apperr.New(apperr.KindBadRequest,
				fmt.Sprintf("invalid quantity for product %s", item.ProductID))
		}
		id, err := primitive.ObjectIDFromHex(item.ProductID)
		if err != nil {
			return nil, apperr.New(apperr.KindBadRequest,
				fmt.Sprintf("invalid product id %q", item.ProductID))
		}
		productIDs = append(productIDs, id)
	}

	// Buyer and product lookups are independent reads, run them together
	var buyer *models.User
	var products map[primitive.ObjectID]models.Product
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		buyer, err = w.users.FindByID(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		products, err = w.products.FindByIDs(gctx, productIDs)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var subtotal float64
	items := make([]models.OrderItem, 0, len(req.Items))
	for i, reqItem := range req.Items {
		product, ok := products[productIDs[i]]
		if !ok {
			return nil, apperr.New(apperr.KindNotFound,
				fmt.Sprintf("product %s not found", reqItem.ProductID))
		}
		if reqItem.Quantity > product.Stock {
			return nil, apperr.New(apperr.KindConflict,
				fmt.Sprintf("insufficient stock for %s: requested %d, available %d",
					product.Name, reqItem.Quantity, product.Stock))
		}
		lineTotal := product.Price * float64(reqItem.Quantity)
		subtotal += lineTotal
		items = append(items, models.OrderItem{
			ProductID: product.ID,
			Name:      product.Name,
			Price:     product.Price,
			Quantity:  reqItem.Quantity,
			Subtotal:  lineTotal,
		})
	}

	shipping := w.shippingFee(subtotal)
	if req.Shipping != nil {
		shipping = *req.Shipping
	}
	tax := subtotal * w.pricing.TaxRate
	if req.Tax != nil {
		tax = *req.Tax
	}
	discount := 0.0
	total := subtotal + shipping + tax - discount

	address := normalizeAddress(req.ShippingAddress)
	if missing := missingAddressFields(&address); len(missing) > 0 {
		return nil, apperr.New(apperr.KindValidation,
			"shipping address is missing required fields: "+strings.Join(missing, ", "))
	}

	paymentMethod := req.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = models.PaymentMethodCashOnDelivery
	}

	order := &models.Order{
		OrderNumber:     newOrderNumber(),
		TrackingNumber:  newTrackingNumber(),
		UserID:          buyer.ID,
		Items:           items,
		Subtotal:        subtotal,
		Shipping:        shipping,
		Tax:             tax,
		Discount:        discount,
		TotalAmount:     total,
		ShippingAddress: address,
		PaymentMethod:   paymentMethod,
		PaymentStatus:   models.PaymentPending,
		Status:          models.StatusPending,
		Priority:        models.PriorityNormal,
		Source:          models.SourceWebsite,
		Notes:           req.Notes,
	}

	if err := w.orders.Insert(ctx, order); err != nil {
		return nil, err
	}

	// Stock decrements and the buyer touch are best effort after the order
	// is saved. There is no transaction here: a failure leaves the order
	// persisted with stock not yet reflected, which is logged and left to
	// operator reconciliation.
	var wg sync.WaitGroup
	for _, item := range items {
		wg.Add(1)
		go func(item models.OrderItem) {
			defer wg.Done()
			if err := w.products.DecrementStock(ctx, item.ProductID, item.Quantity); err != nil {
				w.logger.Error("stock decrement failed after order save",
					zap.String("orderNumber", order.OrderNumber),
					zap.String("productId", item.ProductID.Hex()),
					zap.Int("quantity", item.Quantity),
					zap.Error(err))
			}
		}(item)
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := w.users.TouchLastOrder(ctx, buyer.ID); err != nil {
			w.logger.Warn("failed to update buyer last order date",
				zap.String("userId", buyer.ID.Hex()),
				zap.Error(err))
		}
	}()
	wg.Wait()

	return &Receipt{
		OrderID:        order.ID.Hex(),
		OrderNumber:    order.OrderNumber,
		TotalAmount:    order.TotalAmount,
		Status:         string(order.Status),
		TrackingNumber: order.TrackingNumber,
	}, nil
}

func (w *Workflow) shippingFee(subtotal float64) float64 {
	if subtotal > w.pricing.FreeShippingThreshold {
		return 0
	}
	return w.pricing.FlatShippingFee
}

// newOrderNumber builds a human-readable order number. Uniqueness is
// probabilistic via timestamp plus random suffix, not enforced by the store.
func newOrderNumber() string {
	return fmt.Sprintf("ORD-%d-%04d", time.Now().UnixMilli(), rand.Intn(10000))
}

func newTrackingNumber() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "TRK-" + strings.ToUpper(raw[:12])
}
