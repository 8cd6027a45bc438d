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

type Categories struct {
	c        *mongo.Collection
	attempts int
}

func (r *Categories) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Category, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

// FindBySlugOrName resolves a category from either its slug or its display
// name, used by listing filters and the bulk importer.
func (r *Categories) FindBySlugOrName(ctx context.Context, key string) (*models.Category, error) {
	return r.findOne(ctx, bson.M{"$or": bson.A{
		bson.M{"slug": key},
		bson.M{"name": key},
	}})
}

func (r *Categories) findOne(ctx context.Context, filter bson.M) (*models.Category, error) {
	return database.RetryValue(ctx, r.attempts, func() (*models.Category, error) {
		var c models.Category
		err := r.c.FindOne(ctx, filter).Decode(&c)
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.New(apperr.KindNotFound, "category not found")
		}
		if err != nil {
			return nil, err
		}
		return &c, nil
	})
}

func (r *Categories) List(ctx context.Context) ([]models.Category, error) {
	return database.RetryValue(ctx, r.attempts, func() ([]models.Category, error) {
		cur, err := r.c.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
		if err != nil {
			return nil, err
		}
		categories := []models.Category{}
		if err := cur.All(ctx, &categories); err != nil {
			return nil, err
		}
		return categories, nil
	})
}

func (r *Categories) Create(ctx context.Context, c *models.Category) error {
	return database.WithRetry(ctx, r.attempts, func() error {
		now := time.Now()
		c.CreatedAt, c.UpdatedAt = now, now
		res, err := r.c.InsertOne(ctx, c)
		if err != nil {
			return err
		}
		c.ID = res.InsertedID.(primitive.ObjectID)
		return nil
	})
}

func (r *Categories) Update(ctx context.Context, id primitive.ObjectID, c *models.Category) error {
	return database.WithRetry(ctx, r.attempts, func() error {
		c.UpdatedAt = time.Now()
		set := bson.M{
			"name":        c.Name,
			"slug":        c.Slug,
			"description": c.Description,
			"attributes":  c.Attributes,
			"updatedAt":   c.UpdatedAt,
		}
		res, err := r.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
		if err != nil {
			return err
		}
		if res.MatchedCount == 0 {
			return apperr.New(apperr.KindNotFound, "category not found")
		}
		return nil
	})
}

func (r *Categories) Delete(ctx context.Context, id primitive.ObjectID) error {
	return database.WithRetry(ctx, r.attempts, func() error {
		res, err := r.c.DeleteOne(ctx, bson.M{"_id": id})
		if err != nil {
			return err
		}
		if res.DeletedCount == 0 {
			return apperr.New(apperr.KindNotFound, "category not found")
		}
		return nil
	})
}
