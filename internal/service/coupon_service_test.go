package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightcart/admin-api/internal/models"
	appErrors "github.com/brightcart/admin-api/pkg/errors"
)

type couponRepoStub struct {
	coupons map[string]models.Coupon
}

func newCouponRepoStub() *couponRepoStub {
	return &couponRepoStub{coupons: make(map[string]models.Coupon)}
}

func (s *couponRepoStub) List(ctx context.Context) ([]models.Coupon, error) {
	out := make([]models.Coupon, 0, len(s.coupons))
	for _, c := range s.coupons {
		out = append(out, c)
	}
	return out, nil
}

func (s *couponRepoStub) FindByID(ctx context.Context, id string) (*models.Coupon, error) {
	c, ok := s.coupons[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	out := c
	return &out, nil
}

func (s *couponRepoStub) ExistsByCode(ctx context.Context, code string, excludeID string) (bool, error) {
	for _, c := range s.coupons {
		if c.Code == code && c.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (s *couponRepoStub) Create(ctx context.Context, coupon *models.Coupon) error {
	if coupon.ID == "" {
		coupon.ID = "cpn-" + coupon.Code
	}
	s.coupons[coupon.ID] = *coupon
	return nil
}

func (s *couponRepoStub) Update(ctx context.Context, coupon *models.Coupon) error {
	s.coupons[coupon.ID] = *coupon
	return nil
}

func (s *couponRepoStub) Deactivate(ctx context.Context, id string) error {
	c := s.coupons[id]
	c.Active = false
	s.coupons[id] = c
	return nil
}

func validCouponRequest() CouponRequest {
	return CouponRequest{
		Code:            "spring20",
		DiscountPercent: 20,
		MaxUses:         100,
		ValidFrom:       time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		ValidUntil:      time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestCouponCreateUppercasesCode(t *testing.T) {
	repo := newCouponRepoStub()
	svc := NewCouponService(repo, nil, nil)

	coupon, err := svc.Create(context.Background(), validCouponRequest())
	require.NoError(t, err)
	assert.Equal(t, "SPRING20", coupon.Code)
	assert.True(t, coupon.Active)
}

func TestCouponCreateRejectsDuplicateCode(t *testing.T) {
	repo := newCouponRepoStub()
	svc := NewCouponService(repo, nil, nil)

	_, err := svc.Create(context.Background(), validCouponRequest())
	require.NoError(t, err)

	req := validCouponRequest()
	req.Code = "SPRING20"
	_, err = svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestCouponValidationRules(t *testing.T) {
	svc := NewCouponService(newCouponRepoStub(), nil, nil)

	req := validCouponRequest()
	req.DiscountPercent = 0
	_, err := svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	req = validCouponRequest()
	req.DiscountPercent = 120
	_, err = svc.Create(context.Background(), req)
	require.Error(t, err)

	req = validCouponRequest()
	req.ValidUntil = req.ValidFrom
	_, err = svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestCouponUsableWindow(t *testing.T) {
	coupon := models.Coupon{
		Code:       "SPRING20",
		Active:     true,
		MaxUses:    2,
		UsedCount:  0,
		ValidFrom:  time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		ValidUntil: time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
	}

	assert.False(t, coupon.Usable(time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC)))
	assert.True(t, coupon.Usable(time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)))
	assert.False(t, coupon.Usable(time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)))

	coupon.UsedCount = 2
	assert.False(t, coupon.Usable(time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)))

	coupon.UsedCount = 0
	coupon.Active = false
	assert.False(t, coupon.Usable(time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)))
}
