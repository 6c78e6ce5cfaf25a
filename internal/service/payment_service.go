package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/brightcart/admin-api/internal/models"
	appErrors "github.com/brightcart/admin-api/pkg/errors"
	"github.com/brightcart/admin-api/pkg/mailer"
)

type paymentRepository interface {
	List(ctx context.Context, filter models.PaymentFilter) ([]models.PaymentVerification, int, error)
	FindByID(ctx context.Context, id string) (*models.PaymentVerification, error)
	Review(ctx context.Context, id string, status models.PaymentStatus, reviewedAt time.Time, reviewedBy string) (bool, error)
}

type paymentNotifier interface {
	SendPaymentStatus(mail mailer.PaymentMail) error
}

// PaymentService reviews customer-submitted payment references. A pending
// submission can be reviewed at most once; the guarded update in the
// repository decides the winner when reviews race.
type PaymentService struct {
	repo     paymentRepository
	notifier paymentNotifier
	logger   *zap.Logger
	now      func() time.Time
}

func NewPaymentService(repo paymentRepository, notifier paymentNotifier, logger *zap.Logger) *PaymentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PaymentService{repo: repo, notifier: notifier, logger: logger, now: time.Now}
}

// List returns verification submissions and pagination metadata.
func (s *PaymentService) List(ctx context.Context, filter models.PaymentFilter) ([]models.PaymentVerification, *models.Pagination, error) {
	payments, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list payment verifications")
	}
	return payments, paginationFor(filter.Page, filter.PageSize, total), nil
}

// Get returns a verification submission by ID.
func (s *PaymentService) Get(ctx context.Context, id string) (*models.PaymentVerification, error) {
	payment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "payment verification not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load payment verification")
	}
	return payment, nil
}

// Review marks a pending submission verified or rejected and notifies the
// customer. The mail is best effort; the review itself stands even when
// delivery fails.
func (s *PaymentService) Review(ctx context.Context, id string, status models.PaymentStatus, reviewedBy string) (*models.PaymentVerification, error) {
	if status != models.PaymentVerified && status != models.PaymentRejected {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid review status %q", status))
	}
	if reviewedBy == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "reviewer is required")
	}

	payment, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if payment.Status != models.PaymentPending {
		return nil, appErrors.Clone(appErrors.ErrConflict,
			fmt.Sprintf("payment verification already %s", payment.Status))
	}

	reviewedAt := s.now().UTC()
	won, err := s.repo.Review(ctx, id, status, reviewedAt, reviewedBy)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record payment review")
	}
	if !won {
		return nil, appErrors.Clone(appErrors.ErrConflict, "payment verification was reviewed concurrently")
	}

	payment.Status = status
	payment.ReviewedAt = &reviewedAt
	payment.ReviewedBy = &reviewedBy

	if s.notifier != nil {
		mail := mailer.PaymentMail{
			To:          payment.CustomerEmail,
			OrderNumber: payment.OrderNumber,
			Amount:      formatCents(payment.AmountCents),
			Status:      string(status),
		}
		if err := s.notifier.SendPaymentStatus(mail); err != nil {
			s.logger.Warn("payment status mail failed",
				zap.String("payment_id", id),
				zap.Error(err))
		}
	}

	s.logger.Info("payment verification reviewed",
		zap.String("payment_id", id),
		zap.String("status", string(status)),
		zap.String("reviewed_by", reviewedBy))

	return payment, nil
}

func formatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}
