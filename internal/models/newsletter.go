package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type NewsletterStatus string

const (
	NewsletterDraft     NewsletterStatus = "draft"
	NewsletterScheduled NewsletterStatus = "scheduled"
	NewsletterSending   NewsletterStatus = "sending"
	NewsletterSent      NewsletterStatus = "sent"
	NewsletterFailed    NewsletterStatus = "failed"
)

type Newsletter struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Subject     string             `bson:"subject" json:"subject"`
	Body        string             `bson:"body" json:"body"`
	Status      NewsletterStatus   `bson:"status" json:"status"`
	ScheduledAt *time.Time         `bson:"scheduledAt,omitempty" json:"scheduledAt,omitempty"`
	SentAt      *time.Time         `bson:"sentAt,omitempty" json:"sentAt,omitempty"`
	Recipients  int                `bson:"recipients" json:"recipients"`
	Sent        int                `bson:"sent" json:"sent"`
	Failed      int                `bson:"failed" json:"failed"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

type SubscriberStatus string

const (
	SubscriberActive       SubscriberStatus = "active"
	SubscriberUnsubscribed SubscriberStatus = "unsubscribed"
	SubscriberBounced      SubscriberStatus = "bounced"
)

type NewsletterSubscriber struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email        string             `bson:"email" json:"email"`
	Status       SubscriberStatus   `bson:"status" json:"status"`
	SubscribedAt time.Time          `bson:"subscribedAt" json:"subscribedAt"`
}
