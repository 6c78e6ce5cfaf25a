package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/brightcart/admin-api/internal/models"
)

// PaymentRepository manages persistence for manual payment verifications.
// The pending state resolves at most once, guarded the same way as login
// approvals.
type PaymentRepository struct {
	db *sqlx.DB
}

// NewPaymentRepository constructs a PaymentRepository.
func NewPaymentRepository(db *sqlx.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

const paymentColumns = "p.id, p.order_id, o.number AS order_number, c.email AS customer_email, p.reference, p.method, p.amount_cents, p.status, p.submitted_at, p.reviewed_at, p.reviewed_by"

// List returns payment verifications matching the filter.
func (r *PaymentRepository) List(ctx context.Context, filter models.PaymentFilter) ([]models.PaymentVerification, int, error) {
	base := "FROM payment_verifications p JOIN orders o ON o.id = p.order_id JOIN customers c ON c.id = o.customer_id WHERE 1=1"
	var args []interface{}
	if filter.Status != "" {
		base += fmt.Sprintf(" AND p.status = $%d", len(args)+1)
		args = append(args, filter.Status)
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s %s ORDER BY p.submitted_at DESC LIMIT %d OFFSET %d", paymentColumns, base, size, offset)

	var payments []models.PaymentVerification
	if err := r.db.SelectContext(ctx, &payments, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list payment verifications: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count payment verifications: %w", err)
	}
	return payments, total, nil
}

// FindByID fetches a payment verification by ID.
func (r *PaymentRepository) FindByID(ctx context.Context, id string) (*models.PaymentVerification, error) {
	query := fmt.Sprintf("SELECT %s FROM payment_verifications p JOIN orders o ON o.id = p.order_id JOIN customers c ON c.id = o.customer_id WHERE p.id = $1 LIMIT 1", paymentColumns)
	var payment models.PaymentVerification
	if err := r.db.GetContext(ctx, &payment, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find payment verification: %w", err)
	}
	return &payment, nil
}

// Review resolves a pending verification. The status guard makes the
// transition first-reviewer-wins; a false return means another reviewer got
// there first.
func (r *PaymentRepository) Review(ctx context.Context, id string, status models.PaymentStatus, reviewedAt time.Time, reviewedBy string) (bool, error) {
	const query = `UPDATE payment_verifications SET status = $2, reviewed_at = $3, reviewed_by = $4 WHERE id = $1 AND status = $5`
	res, err := r.db.ExecContext(ctx, query, id, status, reviewedAt, reviewedBy, models.PaymentPending)
	if err != nil {
		return false, fmt.Errorf("review payment verification: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("review payment verification affected rows: %w", err)
	}
	return affected == 1, nil
}
