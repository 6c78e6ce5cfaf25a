package service

import (
	"context"
	"database/sql"

	"go.uber.org/zap"

	"github.com/brightcart/admin-api/internal/models"
	appErrors "github.com/brightcart/admin-api/pkg/errors"
)

type customerRepository interface {
	List(ctx context.Context, filter models.CustomerFilter) ([]models.Customer, int, error)
	FindByID(ctx context.Context, id string) (*models.Customer, error)
	SetBlocked(ctx context.Context, id string, blocked bool) error
}

// CustomerService exposes read and moderation operations over storefront
// customer accounts.
type CustomerService struct {
	repo   customerRepository
	logger *zap.Logger
}

func NewCustomerService(repo customerRepository, logger *zap.Logger) *CustomerService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CustomerService{repo: repo, logger: logger}
}

// List returns customers and pagination metadata.
func (s *CustomerService) List(ctx context.Context, filter models.CustomerFilter) ([]models.Customer, *models.Pagination, error) {
	customers, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list customers")
	}
	return customers, paginationFor(filter.Page, filter.PageSize, total), nil
}

// Get returns a customer by ID.
func (s *CustomerService) Get(ctx context.Context, id string) (*models.Customer, error) {
	customer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "customer not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load customer")
	}
	return customer, nil
}

// SetBlocked flips the blocked flag on a customer account.
func (s *CustomerService) SetBlocked(ctx context.Context, id string, blocked bool) (*models.Customer, error) {
	customer, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if customer.Blocked == blocked {
		return customer, nil
	}
	if err := s.repo.SetBlocked(ctx, id, blocked); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update customer")
	}
	customer.Blocked = blocked
	s.logger.Info("customer block state changed",
		zap.String("customer_id", id),
		zap.Bool("blocked", blocked))
	return customer, nil
}
