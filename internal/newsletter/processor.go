// Package newsletter processes scheduled campaigns: due campaigns are sent
// to active subscribers in fixed-size batches with a fixed delay between
// batches.
package newsletter

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/mcharvet/boutik/internal/models"
)

type CampaignStore interface {
	FindDue(ctx context.Context, now time.Time) ([]models.Newsletter, error)
	MarkSending(ctx context.Context, id primitive.ObjectID) error
	MarkFinished(ctx context.Context, id primitive.ObjectID, status models.NewsletterStatus, recipients, sent, failed int) error
}

type SubscriberStore interface {
	ListActive(ctx context.Context) ([]models.NewsletterSubscriber, error)
}

// Mailer delivers a single message. The real transport is external; the
// default implementation just logs.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

type LogMailer struct {
	Logger *zap.Logger
}

func (m *LogMailer) Send(_ context.Context, to, subject, _ string) error {
	m.Logger.Info("newsletter email", zap.String("to", to), zap.String("subject", subject))
	return nil
}

type Processor struct {
	campaigns   CampaignStore
	subscribers SubscriberStore
	mailer      Mailer
	batchSize   int
	batchDelay  time.Duration
	logger      *zap.Logger
}

func NewProcessor(campaigns CampaignStore, subscribers SubscriberStore, mailer Mailer, batchSize int, batchDelay time.Duration, logger *zap.Logger) *Processor {
	if batchSize < 1 {
		batchSize = 50
	}
	return &Processor{
		campaigns:   campaigns,
		subscribers: subscribers,
		mailer:      mailer,
		batchSize:   batchSize,
		batchDelay:  batchDelay,
		logger:      logger,
	}
}

// ProcessDue sends every campaign whose scheduled time has passed and
// returns how many campaigns were processed. Per-recipient failures are
// counted, not retried.
func (p *Processor) ProcessDue(ctx context.Context) (int, error) {
	due, err := p.campaigns.FindDue(ctx, time.Now())
	if err != nil {
		return 0, err
	}

	for _, campaign := range due {
		if err := p.campaigns.MarkSending(ctx, campaign.ID); err != nil {
			p.logger.Error("failed to mark campaign sending",
				zap.String("id", campaign.ID.Hex()), zap.Error(err))
			continue
		}
		p.sendCampaign(ctx, campaign)
	}
	return len(due), nil
}

func (p *Processor) sendCampaign(ctx context.Context, campaign models.Newsletter) {
	subs, err := p.subscribers.ListActive(ctx)
	if err != nil {
		p.logger.Error("failed to list subscribers",
			zap.String("id", campaign.ID.Hex()), zap.Error(err))
		p.finish(ctx, campaign.ID, models.NewsletterFailed, 0, 0, 0)
		return
	}

	var sent, failed int
	for start := 0; start < len(subs); start += p.batchSize {
		end := min(start+p.batchSize, len(subs))
		for _, sub := range subs[start:end] {
			if err := p.mailer.Send(ctx, sub.Email, campaign.Subject, campaign.Body); err != nil {
				failed++
				p.logger.Warn("newsletter send failed",
					zap.String("email", sub.Email), zap.Error(err))
				continue
			}
			sent++
		}
		if end < len(subs) {
			select {
			case <-ctx.Done():
				p.finish(ctx, campaign.ID, models.NewsletterFailed, len(subs), sent, failed)
				return
			case <-time.After(p.batchDelay):
			}
		}
	}

	status := models.NewsletterSent
	if sent == 0 && failed > 0 {
		status = models.NewsletterFailed
	}
	p.finish(ctx, campaign.ID, status, len(subs), sent, failed)

	p.logger.Info("newsletter campaign processed",
		zap.String("id", campaign.ID.Hex()),
		zap.String("subject", campaign.Subject),
		zap.Int("sent", sent),
		zap.Int("failed", failed))
}

func (p *Processor) finish(ctx context.Context, id primitive.ObjectID, status models.NewsletterStatus, recipients, sent, failed int) {
	if err := p.campaigns.MarkFinished(ctx, id, status, recipients, sent, failed); err != nil {
		p.logger.Error("failed to record campaign outcome",
			zap.String("id", id.Hex()), zap.Error(err))
	}
}

// Run sweeps for due campaigns on a fixed interval until ctx is cancelled
func (p *Processor) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := p.ProcessDue(ctx); err != nil {
				p.logger.Error("newsletter sweep failed", zap.Error(err))
			}
		}
	}
}
