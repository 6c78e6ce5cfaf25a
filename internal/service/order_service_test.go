package service

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightcart/admin-api/internal/models"
	appErrors "github.com/brightcart/admin-api/pkg/errors"
)

type orderRepoStub struct {
	mu     sync.Mutex
	orders map[string]models.Order
}

func newOrderRepoStub() *orderRepoStub {
	return &orderRepoStub{orders: make(map[string]models.Order)}
}

func (s *orderRepoStub) List(ctx context.Context, filter models.OrderFilter) ([]models.Order, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Order, 0, len(s.orders))
	for _, o := range s.orders {
		out = append(out, o)
	}
	return out, len(out), nil
}

func (s *orderRepoStub) FindByID(ctx context.Context, id string) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	out := o
	return &out, nil
}

func (s *orderRepoStub) UpdateStatus(ctx context.Context, id string, from, to models.OrderStatus) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok || o.Status != from {
		return false, nil
	}
	o.Status = to
	s.orders[id] = o
	return true, nil
}

func TestOrderTransitionAllowed(t *testing.T) {
	repo := newOrderRepoStub()
	repo.orders["ord-1"] = models.Order{ID: "ord-1", Number: "BC-1001", Status: models.OrderPlaced, PlacedAt: time.Now()}
	svc := NewOrderService(repo, nil)

	order, err := svc.Transition(context.Background(), "ord-1", models.OrderShipped)
	require.NoError(t, err)
	assert.Equal(t, models.OrderShipped, order.Status)

	order, err = svc.Transition(context.Background(), "ord-1", models.OrderDelivered)
	require.NoError(t, err)
	assert.Equal(t, models.OrderDelivered, order.Status)
}

func TestOrderTransitionIllegal(t *testing.T) {
	repo := newOrderRepoStub()
	repo.orders["ord-1"] = models.Order{ID: "ord-1", Status: models.OrderDelivered}
	svc := NewOrderService(repo, nil)

	_, err := svc.Transition(context.Background(), "ord-1", models.OrderCancelled)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)

	repo.orders["ord-2"] = models.Order{ID: "ord-2", Status: models.OrderPlaced}
	_, err = svc.Transition(context.Background(), "ord-2", models.OrderDelivered)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestOrderTransitionUnknownOrder(t *testing.T) {
	svc := NewOrderService(newOrderRepoStub(), nil)

	_, err := svc.Transition(context.Background(), "missing", models.OrderShipped)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestOrderTransitionInvalidTarget(t *testing.T) {
	svc := NewOrderService(newOrderRepoStub(), nil)

	_, err := svc.Transition(context.Background(), "ord-1", models.OrderStatus("teleported"))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	// placed is never a target.
	_, err = svc.Transition(context.Background(), "ord-1", models.OrderPlaced)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestOrderTransitionConcurrentSingleWinner(t *testing.T) {
	repo := newOrderRepoStub()
	repo.orders["ord-1"] = models.Order{ID: "ord-1", Status: models.OrderPlaced}
	svc := NewOrderService(repo, nil)

	targets := []models.OrderStatus{models.OrderShipped, models.OrderCancelled}
	errs := make([]error, len(targets))

	var wg sync.WaitGroup
	for i, target := range targets {
		wg.Add(1)
		go func(i int, target models.OrderStatus) {
			defer wg.Done()
			_, errs[i] = svc.Transition(context.Background(), "ord-1", target)
		}(i, target)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
		}
	}
	assert.Equal(t, 1, succeeded)
}
