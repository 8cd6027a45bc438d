package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mcharvet/boutik/internal/apperr"
	"github.com/mcharvet/boutik/internal/database"
	"github.com/mcharvet/boutik/internal/models"
)

type Products struct {
	c        *mongo.Collection
	attempts int
}

// ProductFilter narrows and pages a product listing
type ProductFilter struct {
	Search     string
	CategoryID *primitive.ObjectID
	MinPrice   *float64
	MaxPrice   *float64
	Sort       string
	Page       int
	Limit      int
}

func (r *Products) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	return database.RetryValue(ctx, r.attempts, func() (*models.Product, error) {
		var p models.Product
		err := r.c.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.New(apperr.KindNotFound, "product not found")
		}
		if err != nil {
			return nil, err
		}
		return &p, nil
	})
}

// FindByIDs returns the matching products keyed by id. Missing ids are
// simply absent from the map.
func (r *Products) FindByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Product, error) {
	return database.RetryValue(ctx, r.attempts, func() (map[primitive.ObjectID]models.Product, error) {
		cur, err := r.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
		if err != nil {
			return nil, err
		}
		var products []models.Product
		if err := cur.All(ctx, &products); err != nil {
			return nil, err
		}
		byID := make(map[primitive.ObjectID]models.Product, len(products))
		for _, p := range products {
			byID[p.ID] = p
		}
		return byID, nil
	})
}

func (r *Products) FindBySKU(ctx context.Context, sku string) (*models.Product, error) {
	return database.RetryValue(ctx, r.attempts, func() (*models.Product, error) {
		var p models.Product
		err := r.c.FindOne(ctx, bson.M{"sku": sku}).Decode(&p)
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.New(apperr.KindNotFound, "product not found")
		}
		if err != nil {
			return nil, err
		}
		return &p, nil
	})
}

func (r *Products) List(ctx context.Context, f ProductFilter) ([]models.Product, int64, error) {
	filter := bson.M{}
	if f.Search != "" {
		filter["name"] = bson.M{"$regex": f.Search, "$options": "i"}
	}
	if f.CategoryID != nil {
		filter["categoryId"] = *f.CategoryID
	}
	price := bson.M{}
	if f.MinPrice != nil {
		price["$gte"] = *f.MinPrice
	}
	if f.MaxPrice != nil {
		price["$lte"] = *f.MaxPrice
	}
	if len(price) > 0 {
		filter["price"] = price
	}

	page, limit := pageBounds(f.Page, f.Limit)
	opts := options.Find().
		SetSort(productSort(f.Sort)).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	type result struct {
		products []models.Product
		total    int64
	}
	res, err := database.RetryValue(ctx, r.attempts, func() (result, error) {
		total, err := r.c.CountDocuments(ctx, filter)
		if err != nil {
			return result{}, err
		}
		cur, err := r.c.Find(ctx, filter, opts)
		if err != nil {
			return result{}, err
		}
		products := []models.Product{}
		if err := cur.All(ctx, &products); err != nil {
			return result{}, err
		}
		return result{products: products, total: total}, nil
	})
	if err != nil {
		return nil, 0, err
	}
	return res.products, res.total, nil
}

func (r *Products) Create(ctx context.Context, p *models.Product) error {
	return database.WithRetry(ctx, r.attempts, func() error {
		now := time.Now()
		p.CreatedAt, p.UpdatedAt = now, now
		if p.Status == "" {
			p.Status = models.ProductActive
		}
		res, err := r.c.InsertOne(ctx, p)
		if err != nil {
			return err
		}
		p.ID = res.InsertedID.(primitive.ObjectID)
		return nil
	})
}

func (r *Products) Update(ctx context.Context, id primitive.ObjectID, p *models.Product) error {
	return database.WithRetry(ctx, r.attempts, func() error {
		p.UpdatedAt = time.Now()
		// field-by-field $set so createdAt is never clobbered
		set := bson.M{
			"name":         p.Name,
			"description":  p.Description,
			"price":        p.Price,
			"stock":        p.Stock,
			"sku":          p.SKU,
			"categoryId":   p.CategoryID,
			"images":       p.Images,
			"rating":       p.Rating,
			"isBestSeller": p.IsBestSeller,
			"isNew":        p.IsNew,
			"status":       p.Status,
			"attributes":   p.Attributes,
			"updatedAt":    p.UpdatedAt,
		}
		res, err := r.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
		if err != nil {
			return err
		}
		if res.MatchedCount == 0 {
			return apperr.New(apperr.KindNotFound, "product not found")
		}
		return nil
	})
}

func (r *Products) Delete(ctx context.Context, id primitive.ObjectID) error {
	return database.WithRetry(ctx, r.attempts, func() error {
		res, err := r.c.DeleteOne(ctx, bson.M{"_id": id})
		if err != nil {
			return err
		}
		if res.DeletedCount == 0 {
			return apperr.New(apperr.KindNotFound, "product not found")
		}
		return nil
	})
}

// DecrementStock atomically reduces stock by qty. The filter keeps stock
// from going negative if a concurrent order drained it first.
func (r *Products) DecrementStock(ctx context.Context, id primitive.ObjectID, qty int) error {
	return database.WithRetry(ctx, r.attempts, func() error {
		res, err := r.c.UpdateOne(ctx,
			bson.M{"_id": id, "stock": bson.M{"$gte": qty}},
			bson.M{"$inc": bson.M{"stock": -qty}, "$set": bson.M{"updatedAt": time.Now()}},
		)
		if err != nil {
			return err
		}
		if res.ModifiedCount == 0 {
			return fmt.Errorf("stock for product %s no longer covers quantity %d", id.Hex(), qty)
		}
		return nil
	})
}

func productSort(key string) bson.D {
	switch key {
	case "price":
		return bson.D{{Key: "price", Value: 1}}
	case "-price":
		return bson.D{{Key: "price", Value: -1}}
	case "rating":
		return bson.D{{Key: "rating", Value: -1}}
	case "name":
		return bson.D{{Key: "name", Value: 1}}
	default:
		return bson.D{{Key: "createdAt", Value: -1}}
	}
}

func pageBounds(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}
