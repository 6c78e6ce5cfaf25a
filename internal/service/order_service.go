package service

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/brightcart/admin-api/internal/models"
	appErrors "github.com/brightcart/admin-api/pkg/errors"
)

type orderRepository interface {
	List(ctx context.Context, filter models.OrderFilter) ([]models.Order, int, error)
	FindByID(ctx context.Context, id string) (*models.Order, error)
	UpdateStatus(ctx context.Context, id string, from, to models.OrderStatus) (bool, error)
}

// OrderService exposes order listing and guarded status transitions. A
// transition only commits when the order is still in the status the caller
// observed, so two admins racing on the same order cannot both win.
type OrderService struct {
	repo   orderRepository
	logger *zap.Logger
}

func NewOrderService(repo orderRepository, logger *zap.Logger) *OrderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderService{repo: repo, logger: logger}
}

// List returns orders and pagination metadata.
func (s *OrderService) List(ctx context.Context, filter models.OrderFilter) ([]models.Order, *models.Pagination, error) {
	orders, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list orders")
	}
	return orders, paginationFor(filter.Page, filter.PageSize, total), nil
}

// Get returns an order by ID.
func (s *OrderService) Get(ctx context.Context, id string) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "order not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load order")
	}
	return order, nil
}

// Transition moves an order to the target status if the move is allowed.
func (s *OrderService) Transition(ctx context.Context, id string, to models.OrderStatus) (*models.Order, error) {
	switch to {
	case models.OrderShipped, models.OrderDelivered, models.OrderCancelled:
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid target status %q", to))
	}

	order, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !order.Status.CanTransition(to) {
		return nil, appErrors.Clone(appErrors.ErrConflict,
			fmt.Sprintf("order cannot move from %s to %s", order.Status, to))
	}

	won, err := s.repo.UpdateStatus(ctx, id, order.Status, to)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update order status")
	}
	if !won {
		// Somebody changed the order between our read and write.
		return nil, appErrors.Clone(appErrors.ErrConflict, "order was modified concurrently")
	}

	s.logger.Info("order status changed",
		zap.String("order_id", id),
		zap.String("from", string(order.Status)),
		zap.String("to", string(to)))

	order.Status = to
	return order, nil
}
