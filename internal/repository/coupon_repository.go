package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/brightcart/admin-api/internal/models"
)

// CouponRepository manages persistence for discount coupons.
type CouponRepository struct {
	db *sqlx.DB
}

// NewCouponRepository constructs a CouponRepository.
func NewCouponRepository(db *sqlx.DB) *CouponRepository {
	return &CouponRepository{db: db}
}

// List returns all coupons, newest first.
func (r *CouponRepository) List(ctx context.Context) ([]models.Coupon, error) {
	const query = `SELECT id, code, description, discount_percent, max_uses, used_count, valid_from, valid_until, active, created_at, updated_at FROM coupons ORDER BY created_at DESC`
	var coupons []models.Coupon
	if err := r.db.SelectContext(ctx, &coupons, query); err != nil {
		return nil, fmt.Errorf("list coupons: %w", err)
	}
	return coupons, nil
}

// FindByID fetches a coupon by ID.
func (r *CouponRepository) FindByID(ctx context.Context, id string) (*models.Coupon, error) {
	const query = `SELECT id, code, description, discount_percent, max_uses, used_count, valid_from, valid_until, active, created_at, updated_at FROM coupons WHERE id = $1 LIMIT 1`
	var coupon models.Coupon
	if err := r.db.GetContext(ctx, &coupon, query, id); err != nil {
		return nil, err
	}
	return &coupon, nil
}

// ExistsByCode checks if a coupon code is already taken, optionally
// excluding an ID.
func (r *CouponRepository) ExistsByCode(ctx context.Context, code string, excludeID string) (bool, error) {
	query := "SELECT 1 FROM coupons WHERE code = $1"
	args := []interface{}{code}
	if excludeID != "" {
		query += " AND id <> $2"
		args = append(args, excludeID)
	}
	var exists int
	if err := r.db.GetContext(ctx, &exists, query+" LIMIT 1", args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check coupon code: %w", err)
	}
	return true, nil
}

// Create inserts a new coupon.
func (r *CouponRepository) Create(ctx context.Context, coupon *models.Coupon) error {
	if coupon.ID == "" {
		coupon.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if coupon.CreatedAt.IsZero() {
		coupon.CreatedAt = now
	}
	coupon.UpdatedAt = now
	const query = `INSERT INTO coupons (id, code, description, discount_percent, max_uses, used_count, valid_from, valid_until, active, created_at, updated_at)
        VALUES (:id, :code, :description, :discount_percent, :max_uses, :used_count, :valid_from, :valid_until, :active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, coupon); err != nil {
		return fmt.Errorf("create coupon: %w", err)
	}
	return nil
}

// Update modifies an existing coupon.
func (r *CouponRepository) Update(ctx context.Context, coupon *models.Coupon) error {
	coupon.UpdatedAt = time.Now().UTC()
	const query = `UPDATE coupons SET code = :code, description = :description, discount_percent = :discount_percent, max_uses = :max_uses, valid_from = :valid_from, valid_until = :valid_until, active = :active, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, coupon); err != nil {
		return fmt.Errorf("update coupon: %w", err)
	}
	return nil
}

// Deactivate marks a coupon as inactive.
func (r *CouponRepository) Deactivate(ctx context.Context, id string) error {
	const query = `UPDATE coupons SET active = false, updated_at = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, time.Now().UTC()); err != nil {
		return fmt.Errorf("deactivate coupon: %w", err)
	}
	return nil
}
