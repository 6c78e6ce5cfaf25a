package service

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightcart/admin-api/internal/models"
	appErrors "github.com/brightcart/admin-api/pkg/errors"
	"github.com/brightcart/admin-api/pkg/mailer"
)

type paymentRepoStub struct {
	mu       sync.Mutex
	payments map[string]models.PaymentVerification
}

func newPaymentRepoStub() *paymentRepoStub {
	return &paymentRepoStub{payments: make(map[string]models.PaymentVerification)}
}

func (s *paymentRepoStub) List(ctx context.Context, filter models.PaymentFilter) ([]models.PaymentVerification, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.PaymentVerification, 0, len(s.payments))
	for _, p := range s.payments {
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		out = append(out, p)
	}
	return out, len(out), nil
}

func (s *paymentRepoStub) FindByID(ctx context.Context, id string) (*models.PaymentVerification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.payments[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	out := p
	return &out, nil
}

func (s *paymentRepoStub) Review(ctx context.Context, id string, status models.PaymentStatus, reviewedAt time.Time, reviewedBy string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.payments[id]
	if !ok || p.Status != models.PaymentPending {
		return false, nil
	}
	p.Status = status
	p.ReviewedAt = &reviewedAt
	p.ReviewedBy = &reviewedBy
	s.payments[id] = p
	return true, nil
}

type paymentNotifierStub struct {
	mu    sync.Mutex
	mails []mailer.PaymentMail
	err   error
}

func (n *paymentNotifierStub) SendPaymentStatus(mail mailer.PaymentMail) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.mails = append(n.mails, mail)
	return nil
}

func newPaymentFixture(t *testing.T) (*PaymentService, *paymentRepoStub, *paymentNotifierStub) {
	t.Helper()
	repo := newPaymentRepoStub()
	repo.payments["pay-1"] = models.PaymentVerification{
		ID:            "pay-1",
		OrderNumber:   "BC-1001",
		CustomerEmail: "buyer@example.com",
		Reference:     "TRX-42",
		AmountCents:   129900,
		Status:        models.PaymentPending,
		SubmittedAt:   time.Now().UTC(),
	}
	notifier := &paymentNotifierStub{}
	return NewPaymentService(repo, notifier, nil), repo, notifier
}

func TestPaymentReviewVerifiesAndNotifies(t *testing.T) {
	svc, repo, notifier := newPaymentFixture(t)

	payment, err := svc.Review(context.Background(), "pay-1", models.PaymentVerified, "owner")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentVerified, payment.Status)
	require.NotNil(t, payment.ReviewedBy)
	assert.Equal(t, "owner", *payment.ReviewedBy)
	assert.Equal(t, models.PaymentVerified, repo.payments["pay-1"].Status)

	require.Len(t, notifier.mails, 1)
	mail := notifier.mails[0]
	assert.Equal(t, "buyer@example.com", mail.To)
	assert.Equal(t, "BC-1001", mail.OrderNumber)
	assert.Equal(t, "1299.00", mail.Amount)
	assert.Equal(t, "verified", mail.Status)
}

func TestPaymentReviewIsOneShot(t *testing.T) {
	svc, _, _ := newPaymentFixture(t)

	_, err := svc.Review(context.Background(), "pay-1", models.PaymentVerified, "owner")
	require.NoError(t, err)

	_, err = svc.Review(context.Background(), "pay-1", models.PaymentRejected, "other")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestPaymentReviewValidation(t *testing.T) {
	svc, _, _ := newPaymentFixture(t)

	_, err := svc.Review(context.Background(), "pay-1", models.PaymentPending, "owner")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	_, err = svc.Review(context.Background(), "pay-1", models.PaymentVerified, "")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	_, err = svc.Review(context.Background(), "missing", models.PaymentVerified, "owner")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestPaymentReviewSurvivesMailFailure(t *testing.T) {
	svc, repo, notifier := newPaymentFixture(t)
	notifier.err = errors.New("smtp down")

	payment, err := svc.Review(context.Background(), "pay-1", models.PaymentRejected, "owner")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentRejected, payment.Status)
	assert.Equal(t, models.PaymentRejected, repo.payments["pay-1"].Status)
}

func TestFormatCentsHandlesSign(t *testing.T) {
	assert.Equal(t, "12.99", formatCents(1299))
	assert.Equal(t, "0.05", formatCents(5))
	assert.Equal(t, "-1.50", formatCents(-150))
	assert.Equal(t, "-0.05", formatCents(-5))
}
