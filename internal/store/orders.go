package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mcharvet/boutik/internal/apperr"
	"github.com/mcharvet/boutik/internal/database"
	"github.com/mcharvet/boutik/internal/models"
)

type Orders struct {
	c        *mongo.Collection
	attempts int
}

// OrderFilter narrows and pages an order listing
type OrderFilter struct {
	UserID *primitive.ObjectID
	Status models.Status
	Page   int
	Limit  int
}

func (r *Orders) Insert(ctx context.Context, o *models.Order) error {
	return database.WithRetry(ctx, r.attempts, func() error {
		now := time.Now()
		o.CreatedAt, o.UpdatedAt = now, now
		res, err := r.c.InsertOne(ctx, o)
		if err != nil {
			return err
		}
		o.ID = res.InsertedID.(primitive.ObjectID)
		return nil
	})
}

func (r *Orders) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	return database.RetryValue(ctx, r.attempts, func() (*models.Order, error) {
		var o models.Order
		err := r.c.FindOne(ctx, bson.M{"_id": id}).Decode(&o)
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.New(apperr.KindNotFound, "order not found")
		}
		if err != nil {
			return nil, err
		}
		return &o, nil
	})
}

func (r *Orders) List(ctx context.Context, f OrderFilter) ([]models.Order, int64, error) {
	filter := bson.M{}
	if f.UserID != nil {
		filter["userId"] = *f.UserID
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}

	page, limit := pageBounds(f.Page, f.Limit)
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	type result struct {
		orders []models.Order
		total  int64
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
		orders := []models.Order{}
		if err := cur.All(ctx, &orders); err != nil {
			return result{}, err
		}
		return result{orders: orders, total: total}, nil
	})
	if err != nil {
		return nil, 0, err
	}
	return res.orders, res.total, nil
}

// All returns every order, used by the dashboard analytics feed
func (r *Orders) All(ctx context.Context) ([]models.Order, error) {
	return database.RetryValue(ctx, r.attempts, func() ([]models.Order, error) {
		cur, err := r.c.Find(ctx, bson.M{})
		if err != nil {
			return nil, err
		}
		orders := []models.Order{}
		if err := cur.All(ctx, &orders); err != nil {
			return nil, err
		}
		return orders, nil
	})
}

func (r *Orders) UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.Status) error {
	return database.WithRetry(ctx, r.attempts, func() error {
		res, err := r.c.UpdateOne(ctx, bson.M{"_id": id},
			bson.M{"$set": bson.M{"status": status, "updatedAt": time.Now()}})
		if err != nil {
			return err
		}
		if res.MatchedCount == 0 {
			return apperr.New(apperr.KindNotFound, "order not found")
		}
		return nil
	})
}
