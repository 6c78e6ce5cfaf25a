package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/brightcart/admin-api/internal/models"
)

// OfferRepository manages persistence for category and product offers.
type OfferRepository struct {
	db *sqlx.DB
}

// NewOfferRepository constructs an OfferRepository.
func NewOfferRepository(db *sqlx.DB) *OfferRepository {
	return &OfferRepository{db: db}
}

// List returns all offers, newest first.
func (r *OfferRepository) List(ctx context.Context) ([]models.Offer, error) {
	const query = `SELECT id, name, scope, target, discount_percent, starts_at, ends_at, active, created_at, updated_at FROM offers ORDER BY created_at DESC`
	var offers []models.Offer
	if err := r.db.SelectContext(ctx, &offers, query); err != nil {
		return nil, fmt.Errorf("list offers: %w", err)
	}
	return offers, nil
}

// FindByID fetches an offer by ID.
func (r *OfferRepository) FindByID(ctx context.Context, id string) (*models.Offer, error) {
	const query = `SELECT id, name, scope, target, discount_percent, starts_at, ends_at, active, created_at, updated_at FROM offers WHERE id = $1 LIMIT 1`
	var offer models.Offer
	if err := r.db.GetContext(ctx, &offer, query, id); err != nil {
		return nil, err
	}
	return &offer, nil
}

// Create inserts a new offer.
func (r *OfferRepository) Create(ctx context.Context, offer *models.Offer) error {
	if offer.ID == "" {
		offer.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if offer.CreatedAt.IsZero() {
		offer.CreatedAt = now
	}
	offer.UpdatedAt = now
	const query = `INSERT INTO offers (id, name, scope, target, discount_percent, starts_at, ends_at, active, created_at, updated_at)
        VALUES (:id, :name, :scope, :target, :discount_percent, :starts_at, :ends_at, :active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, offer); err != nil {
		return fmt.Errorf("create offer: %w", err)
	}
	return nil
}

// Update modifies an existing offer.
func (r *OfferRepository) Update(ctx context.Context, offer *models.Offer) error {
	offer.UpdatedAt = time.Now().UTC()
	const query = `UPDATE offers SET name = :name, scope = :scope, target = :target, discount_percent = :discount_percent, starts_at = :starts_at, ends_at = :ends_at, active = :active, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, offer); err != nil {
		return fmt.Errorf("update offer: %w", err)
	}
	return nil
}

// Delete removes an offer.
func (r *OfferRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM offers WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete offer: %w", err)
	}
	return nil
}
