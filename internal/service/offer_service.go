package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/brightcart/admin-api/internal/models"
	appErrors "github.com/brightcart/admin-api/pkg/errors"
)

type offerRepository interface {
	List(ctx context.Context) ([]models.Offer, error)
	FindByID(ctx context.Context, id string) (*models.Offer, error)
	Create(ctx context.Context, offer *models.Offer) error
	Update(ctx context.Context, offer *models.Offer) error
	Delete(ctx context.Context, id string) error
}

// OfferRequest holds payload for creating and updating offers.
type OfferRequest struct {
	Name            string            `json:"name" validate:"required"`
	Scope           models.OfferScope `json:"scope" validate:"required,oneof=category product"`
	Target          string            `json:"target" validate:"required"`
	DiscountPercent int               `json:"discount_percent" validate:"gt=0,lte=100"`
	StartsAt        time.Time         `json:"starts_at" validate:"required"`
	EndsAt          time.Time         `json:"ends_at" validate:"required"`
	Active          bool              `json:"active"`
}

// OfferService manages time-bound category and product discounts.
type OfferService struct {
	repo      offerRepository
	validator *validator.Validate
	logger    *zap.Logger
}

func NewOfferService(repo offerRepository, validate *validator.Validate, logger *zap.Logger) *OfferService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OfferService{repo: repo, validator: validate, logger: logger}
}

// List returns all offers.
func (s *OfferService) List(ctx context.Context) ([]models.Offer, error) {
	offers, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list offers")
	}
	return offers, nil
}

// Get returns an offer by ID.
func (s *OfferService) Get(ctx context.Context, id string) (*models.Offer, error) {
	offer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "offer not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load offer")
	}
	return offer, nil
}

// Create registers a new offer.
func (s *OfferService) Create(ctx context.Context, req OfferRequest) (*models.Offer, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}
	offer := &models.Offer{
		Name:            req.Name,
		Scope:           req.Scope,
		Target:          req.Target,
		DiscountPercent: req.DiscountPercent,
		StartsAt:        req.StartsAt,
		EndsAt:          req.EndsAt,
		Active:          req.Active,
	}
	if err := s.repo.Create(ctx, offer); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create offer")
	}
	return offer, nil
}

// Update modifies an existing offer.
func (s *OfferService) Update(ctx context.Context, id string, req OfferRequest) (*models.Offer, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}
	offer, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	offer.Name = req.Name
	offer.Scope = req.Scope
	offer.Target = req.Target
	offer.DiscountPercent = req.DiscountPercent
	offer.StartsAt = req.StartsAt
	offer.EndsAt = req.EndsAt
	offer.Active = req.Active
	if err := s.repo.Update(ctx, offer); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update offer")
	}
	return offer, nil
}

// Delete removes an offer.
func (s *OfferService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete offer")
	}
	return nil
}

func (s *OfferService) validateRequest(req OfferRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid offer payload")
	}
	if !req.EndsAt.After(req.StartsAt) {
		return appErrors.Clone(appErrors.ErrValidation, "ends_at must be after starts_at")
	}
	return nil
}
