package service

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/brightcart/admin-api/internal/models"
	appErrors "github.com/brightcart/admin-api/pkg/errors"
)

type couponRepository interface {
	List(ctx context.Context) ([]models.Coupon, error)
	FindByID(ctx context.Context, id string) (*models.Coupon, error)
	ExistsByCode(ctx context.Context, code string, excludeID string) (bool, error)
	Create(ctx context.Context, coupon *models.Coupon) error
	Update(ctx context.Context, coupon *models.Coupon) error
	Deactivate(ctx context.Context, id string) error
}

// CouponRequest holds payload for creating and updating coupons.
type CouponRequest struct {
	Code            string    `json:"code" validate:"required,min=3,max=32"`
	Description     string    `json:"description"`
	DiscountPercent int       `json:"discount_percent" validate:"gt=0,lte=100"`
	MaxUses         int       `json:"max_uses" validate:"gte=0"`
	ValidFrom       time.Time `json:"valid_from" validate:"required"`
	ValidUntil      time.Time `json:"valid_until" validate:"required"`
}

// CouponService manages discount codes.
type CouponService struct {
	repo      couponRepository
	validator *validator.Validate
	logger    *zap.Logger
}

func NewCouponService(repo couponRepository, validate *validator.Validate, logger *zap.Logger) *CouponService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CouponService{repo: repo, validator: validate, logger: logger}
}

// List returns all coupons.
func (s *CouponService) List(ctx context.Context) ([]models.Coupon, error) {
	coupons, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list coupons")
	}
	return coupons, nil
}

// Get returns a coupon by ID.
func (s *CouponService) Get(ctx context.Context, id string) (*models.Coupon, error) {
	coupon, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "coupon not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load coupon")
	}
	return coupon, nil
}

// Create registers a new coupon code.
func (s *CouponService) Create(ctx context.Context, req CouponRequest) (*models.Coupon, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}
	code := strings.ToUpper(strings.TrimSpace(req.Code))
	exists, err := s.repo.ExistsByCode(ctx, code, "")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate coupon code")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "coupon code already used")
	}
	coupon := &models.Coupon{
		Code:            code,
		Description:     req.Description,
		DiscountPercent: req.DiscountPercent,
		MaxUses:         req.MaxUses,
		ValidFrom:       req.ValidFrom,
		ValidUntil:      req.ValidUntil,
		Active:          true,
	}
	if err := s.repo.Create(ctx, coupon); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create coupon")
	}
	return coupon, nil
}

// Update modifies an existing coupon.
func (s *CouponService) Update(ctx context.Context, id string, req CouponRequest) (*models.Coupon, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}
	coupon, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	code := strings.ToUpper(strings.TrimSpace(req.Code))
	exists, err := s.repo.ExistsByCode(ctx, code, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate coupon code")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "coupon code already used")
	}
	coupon.Code = code
	coupon.Description = req.Description
	coupon.DiscountPercent = req.DiscountPercent
	coupon.MaxUses = req.MaxUses
	coupon.ValidFrom = req.ValidFrom
	coupon.ValidUntil = req.ValidUntil
	if err := s.repo.Update(ctx, coupon); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update coupon")
	}
	return coupon, nil
}

// Deactivate disables a coupon without deleting its redemption history.
func (s *CouponService) Deactivate(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Deactivate(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to deactivate coupon")
	}
	return nil
}

func (s *CouponService) validateRequest(req CouponRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid coupon payload")
	}
	if !req.ValidUntil.After(req.ValidFrom) {
		return appErrors.Clone(appErrors.ErrValidation, "valid_until must be after valid_from")
	}
	return nil
}
