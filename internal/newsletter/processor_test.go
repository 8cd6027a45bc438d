package newsletter

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/mcharvet/boutik/internal/models"
)

type fakeCampaigns struct {
	due      []models.Newsletter
	sending  []primitive.ObjectID
	finished map[primitive.ObjectID]finishRecord
}

type finishRecord struct {
	status           models.NewsletterStatus
	recipients, sent int
	failed           int
}

func (f *fakeCampaigns) FindDue(_ context.Context, _ time.Time) ([]models.Newsletter, error) {
	return f.due, nil
}

func (f *fakeCampaigns) MarkSending(_ context.Context, id primitive.ObjectID) error {
	f.sending = append(f.sending, id)
	return nil
}

func (f *fakeCampaigns) MarkFinished(_ context.Context, id primitive.ObjectID, status models.NewsletterStatus, recipients, sent, failed int) error {
	if f.finished == nil {
		f.finished = map[primitive.ObjectID]finishRecord{}
	}
	f.finished[id] = finishRecord{status: status, recipients: recipients, sent: sent, failed: failed}
	return nil
}

type fakeSubscribers struct {
	subs []models.NewsletterSubscriber
}

func (f *fakeSubscribers) ListActive(_ context.Context) ([]models.NewsletterSubscriber, error) {
	return f.subs, nil
}

type fakeMailer struct {
	failFor map[string]bool
	sent    []string
}

func (m *fakeMailer) Send(_ context.Context, to, _, _ string) error {
	if m.failFor[to] {
		return errors.New("bounce")
	}
	m.sent = append(m.sent, to)
	return nil
}

func subscribers(emails ...string) []models.NewsletterSubscriber {
	out := make([]models.NewsletterSubscriber, len(emails))
	for i, e := range emails {
		out[i] = models.NewsletterSubscriber{Email: e, Status: models.SubscriberActive}
	}
	return out
}

func TestProcessDue(t *testing.T) {
	campaignID := primitive.NewObjectID()
	campaign := models.Newsletter{ID: campaignID, Subject: "Sale", Body: "20% off"}

	t.Run("sends to all subscribers in batches", func(t *testing.T) {
		campaigns := &fakeCampaigns{due: []models.Newsletter{campaign}}
		mailer := &fakeMailer{}
		p := NewProcessor(campaigns, &fakeSubscribers{subs: subscribers("a@x.com", "b@x.com", "c@x.com")},
			mailer, 2, time.Millisecond, zap.NewNop())

		n, err := p.ProcessDue(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 1, n)
		assert.Len(t, mailer.sent, 3)

		rec := campaigns.finished[campaignID]
		assert.Equal(t, models.NewsletterSent, rec.status)
		assert.Equal(t, 3, rec.recipients)
		assert.Equal(t, 3, rec.sent)
		assert.Equal(t, 0, rec.failed)
	})

	t.Run("counts per recipient failures without retrying", func(t *testing.T) {
		campaigns := &fakeCampaigns{due: []models.Newsletter{campaign}}
		mailer := &fakeMailer{failFor: map[string]bool{"b@x.com": true}}
		p := NewProcessor(campaigns, &fakeSubscribers{subs: subscribers("a@x.com", "b@x.com")},
			mailer, 10, time.Millisecond, zap.NewNop())

		_, err := p.ProcessDue(context.Background())
		require.NoError(t, err)

		rec := campaigns.finished[campaignID]
		assert.Equal(t, models.NewsletterSent, rec.status)
		assert.Equal(t, 1, rec.sent)
		assert.Equal(t, 1, rec.failed)
	})

	t.Run("marks campaign failed when nothing is delivered", func(t *testing.T) {
		campaigns := &fakeCampaigns{due: []models.Newsletter{campaign}}
		mailer := &fakeMailer{failFor: map[string]bool{"a@x.com": true}}
		p := NewProcessor(campaigns, &fakeSubscribers{subs: subscribers("a@x.com")},
			mailer, 10, time.Millisecond, zap.NewNop())

		_, err := p.ProcessDue(context.Background())
		require.NoError(t, err)
		assert.Equal(t, models.NewsletterFailed, campaigns.finished[campaignID].status)
	})

	t.Run("nothing due", func(t *testing.T) {
		campaigns := &fakeCampaigns{}
		p := NewProcessor(campaigns, &fakeSubscribers{}, &fakeMailer{}, 10, time.Millisecond, zap.NewNop())

		n, err := p.ProcessDue(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 0, n)
		assert.Empty(t, campaigns.sending)
	})
}
