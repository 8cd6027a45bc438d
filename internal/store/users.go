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

type Users struct {
	c        *mongo.Collection
	attempts int
}

func (r *Users) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return database.RetryValue(ctx, r.attempts, func() (*models.User, error) {
		var u models.User
		err := r.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u)
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.New(apperr.KindNotFound, "user not found")
		}
		if err != nil {
			return nil, err
		}
		return &u, nil
	})
}

func (r *Users) List(ctx context.Context, page, limit int) ([]models.User, int64, error) {
	page, limit = pageBounds(page, limit)
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	type result struct {
		users []models.User
		total int64
	}
	res, err := database.RetryValue(ctx, r.attempts, func() (result, error) {
		total, err := r.c.CountDocuments(ctx, bson.M{})
		if err != nil {
			return result{}, err
		}
		cur, err := r.c.Find(ctx, bson.M{}, opts)
		if err != nil {
			return result{}, err
		}
		users := []models.User{}
		if err := cur.All(ctx, &users); err != nil {
			return result{}, err
		}
		return result{users: users, total: total}, nil
	})
	if err != nil {
		return nil, 0, err
	}
	return res.users, res.total, nil
}

func (r *Users) Create(ctx context.Context, u *models.User) error {
	return database.WithRetry(ctx, r.attempts, func() error {
		now := time.Now()
		u.CreatedAt, u.UpdatedAt = now, now
		if u.Role == "" {
			u.Role = models.RoleCustomer
		}
		if u.Status == "" {
			u.Status = models.UserActive
		}
		res, err := r.c.InsertOne(ctx, u)
		if err != nil {
			return err
		}
		u.ID = res.InsertedID.(primitive.ObjectID)
		return nil
	})
}

func (r *Users) Update(ctx context.Context, id primitive.ObjectID, u *models.User) error {
	return database.WithRetry(ctx, r.attempts, func() error {
		u.UpdatedAt = time.Now()
		set := bson.M{
			"name":      u.Name,
			"email":     u.Email,
			"role":      u.Role,
			"status":    u.Status,
			"updatedAt": u.UpdatedAt,
		}
		res, err := r.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
		if err != nil {
			return err
		}
		if res.MatchedCount == 0 {
			return apperr.New(apperr.KindNotFound, "user not found")
		}
		return nil
	})
}

func (r *Users) Delete(ctx context.Context, id primitive.ObjectID) error {
	return database.WithRetry(ctx, r.attempts, func() error {
		res, err := r.c.DeleteOne(ctx, bson.M{"_id": id})
		if err != nil {
			return err
		}
		if res.DeletedCount == 0 {
			return apperr.New(apperr.KindNotFound, "user not found")
		}
		return nil
	})
}

// TouchLastOrder records that the user just placed an order
func (r *Users) TouchLastOrder(ctx context.Context, id primitive.ObjectID) error {
	return database.WithRetry(ctx, r.attempts, func() error {
		now := time.Now()
		_, err := r.c.UpdateOne(ctx, bson.M{"_id": id},
			bson.M{"$set": bson.M{"lastOrderAt": now, "updatedAt": now}})
		return err
	})
}
