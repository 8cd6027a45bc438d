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

type Newsletters struct {
	c        *mongo.Collection
	attempts int
}

func (r *Newsletters) Create(ctx context.Context, n *models.Newsletter) error {
	return database.WithRetry(ctx, r.attempts, func() error {
		now := time.Now()
		n.CreatedAt, n.UpdatedAt = now, now
		if n.Status == "" {
			n.Status = models.NewsletterDraft
		}
		res, err := r.c.InsertOne(ctx, n)
		if err != nil {
			return err
		}
		n.ID = res.InsertedID.(primitive.ObjectID)
		return nil
	})
}

func (r *Newsletters) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Newsletter, error) {
	return database.RetryValue(ctx, r.attempts, func() (*models.Newsletter, error) {
		var n models.Newsletter
		err := r.c.FindOne(ctx, bson.M{"_id": id}).Decode(&n)
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.New(apperr.KindNotFound, "newsletter not found")
		}
		if err != nil {
			return nil, err
		}
		return &n, nil
	})
}

func (r *Newsletters) List(ctx context.Context) ([]models.Newsletter, error) {
	return database.RetryValue(ctx, r.attempts, func() ([]models.Newsletter, error) {
		cur, err := r.c.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
		if err != nil {
			return nil, err
		}
		newsletters := []models.Newsletter{}
		if err := cur.All(ctx, &newsletters); err != nil {
			return nil, err
		}
		return newsletters, nil
	})
}

// Schedule marks a draft campaign for delivery at the given time
func (r *Newsletters) Schedule(ctx context.Context, id primitive.ObjectID, at time.Time) error {
	return database.WithRetry(ctx, r.attempts, func() error {
		res, err := r.c.UpdateOne(ctx, bson.M{"_id": id},
			bson.M{"$set": bson.M{
				"status":      models.NewsletterScheduled,
				"scheduledAt": at,
				"updatedAt":   time.Now(),
			}})
		if err != nil {
			return err
		}
		if res.MatchedCount == 0 {
			return apperr.New(apperr.KindNotFound, "newsletter not found")
		}
		return nil
	})
}

// FindDue returns scheduled campaigns whose delivery time has passed
func (r *Newsletters) FindDue(ctx context.Context, now time.Time) ([]models.Newsletter, error) {
	return database.RetryValue(ctx, r.attempts, func() ([]models.Newsletter, error) {
		cur, err := r.c.Find(ctx, bson.M{
			"status":      models.NewsletterScheduled,
			"scheduledAt": bson.M{"$lte": now},
		})
		if err != nil {
			return nil, err
		}
		due := []models.Newsletter{}
		if err := cur.All(ctx, &due); err != nil {
			return nil, err
		}
		return due, nil
	})
}

func (r *Newsletters) MarkSending(ctx context.Context, id primitive.ObjectID) error {
	return r.setStatus(ctx, id, bson.M{"status": models.NewsletterSending})
}

// MarkFinished records the delivery outcome and final counts
func (r *Newsletters) MarkFinished(ctx context.Context, id primitive.ObjectID, status models.NewsletterStatus, recipients, sent, failed int) error {
	now := time.Now()
	return r.setStatus(ctx, id, bson.M{
		"status":     status,
		"sentAt":     now,
		"recipients": recipients,
		"sent":       sent,
		"failed":     failed,
	})
}

func (r *Newsletters) setStatus(ctx context.Context, id primitive.ObjectID, fields bson.M) error {
	return database.WithRetry(ctx, r.attempts, func() error {
		fields["updatedAt"] = time.Now()
		_, err := r.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
		return err
	})
}

type Subscribers struct {
	c        *mongo.Collection
	attempts int
}

func (r *Subscribers) Create(ctx context.Context, s *models.NewsletterSubscriber) error {
	return database.WithRetry(ctx, r.attempts, func() error {
		if s.Status == "" {
			s.Status = models.SubscriberActive
		}
		s.SubscribedAt = time.Now()
		res, err := r.c.InsertOne(ctx, s)
		if err != nil {
			return err
		}
		s.ID = res.InsertedID.(primitive.ObjectID)
		return nil
	})
}

// ListActive returns subscribers eligible to receive campaigns
func (r *Subscribers) ListActive(ctx context.Context) ([]models.NewsletterSubscriber, error) {
	return database.RetryValue(ctx, r.attempts, func() ([]models.NewsletterSubscriber, error) {
		cur, err := r.c.Find(ctx, bson.M{"status": models.SubscriberActive})
		if err != nil {
			return nil, err
		}
		subs := []models.NewsletterSubscriber{}
		if err := cur.All(ctx, &subs); err != nil {
			return nil, err
		}
		return subs, nil
	})
}

// Unsubscribe flips the subscriber's status rather than deleting the record
func (r *Subscribers) Unsubscribe(ctx context.Context, email string) error {
	return database.WithRetry(ctx, r.attempts, func() error {
		res, err := r.c.UpdateOne(ctx, bson.M{"email": email},
			bson.M{"$set": bson.M{"status": models.SubscriberUnsubscribed}})
		if err != nil {
			return err
		}
		if res.MatchedCount == 0 {
			return apperr.New(apperr.KindNotFound, "subscriber not found")
		}
		return nil
	})
}
