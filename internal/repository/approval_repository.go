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

// ApprovalRepository persists login approval requests. Rows are append-only
// except for the single status transition out of pending, which is always a
// conditional update guarded on status so that concurrent deciders cannot
// both win.
type ApprovalRepository struct {
	db *sqlx.DB
}

// NewApprovalRepository constructs an ApprovalRepository.
func NewApprovalRepository(db *sqlx.DB) *ApprovalRepository {
	return &ApprovalRepository{db: db}
}

// Create inserts a new pending approval request.
func (r *ApprovalRepository) Create(ctx context.Context, approval *models.LoginApproval) error {
	if approval.ID == "" {
		approval.ID = uuid.NewString()
	}
	const query = `INSERT INTO login_approvals (id, token, username, client_ip, client_agent, status, created_at, expires_at, approved_at, approved_by)
        VALUES (:id, :token, :username, :client_ip, :client_agent, :status, :created_at, :expires_at, :approved_at, :approved_by)`
	if _, err := r.db.NamedExecContext(ctx, query, approval); err != nil {
		return fmt.Errorf("create login approval: %w", err)
	}
	return nil
}

// FindByToken returns the approval request identified by token.
func (r *ApprovalRepository) FindByToken(ctx context.Context, token string) (*models.LoginApproval, error) {
	const query = `SELECT id, token, username, client_ip, client_agent, status, created_at, expires_at, approved_at, approved_by FROM login_approvals WHERE token = $1 LIMIT 1`
	var approval models.LoginApproval
	if err := r.db.GetContext(ctx, &approval, query, token); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find login approval: %w", err)
	}
	return &approval, nil
}

// MarkExpired moves a still-pending request to expired. Returns false when
// the row was no longer pending (someone decided, or another reader already
// expired it); callers treat that as a no-op.
func (r *ApprovalRepository) MarkExpired(ctx context.Context, token string) (bool, error) {
	const query = `UPDATE login_approvals SET status = $2 WHERE token = $1 AND status = $3`
	res, err := r.db.ExecContext(ctx, query, token, models.ApprovalExpired, models.ApprovalPending)
	if err != nil {
		return false, fmt.Errorf("expire login approval: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("expire login approval affected rows: %w", err)
	}
	return affected == 1, nil
}

// Resolve applies a terminal decision to a pending request. The status guard
// makes the transition first-writer-wins; a false return means the request
// was already decided or expired by a concurrent caller.
func (r *ApprovalRepository) Resolve(ctx context.Context, token string, status models.ApprovalStatus, decidedAt time.Time, decidedBy string) (bool, error) {
	const query = `UPDATE login_approvals SET status = $2, approved_at = $3, approved_by = $4 WHERE token = $1 AND status = $5`
	res, err := r.db.ExecContext(ctx, query, token, status, decidedAt, decidedBy, models.ApprovalPending)
	if err != nil {
		return false, fmt.Errorf("resolve login approval: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("resolve login approval affected rows: %w", err)
	}
	return affected == 1, nil
}

// ListRecent returns the latest approval requests for audit views.
func (r *ApprovalRepository) ListRecent(ctx context.Context, limit int) ([]models.LoginApproval, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	query := fmt.Sprintf(`SELECT id, token, username, client_ip, client_agent, status, created_at, expires_at, approved_at, approved_by FROM login_approvals ORDER BY created_at DESC LIMIT %d`, limit)
	var approvals []models.LoginApproval
	if err := r.db.SelectContext(ctx, &approvals, query); err != nil {
		return nil, fmt.Errorf("list login approvals: %w", err)
	}
	return approvals, nil
}
