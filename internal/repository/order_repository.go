package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/brightcart/admin-api/internal/models"
)

// OrderRepository manages persistence for storefront orders.
type OrderRepository struct {
	db *sqlx.DB
}

// NewOrderRepository constructs an OrderRepository.
func NewOrderRepository(db *sqlx.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

const orderColumns = "o.id, o.number, o.customer_id, c.email AS customer_email, o.status, o.total_cents, o.item_count, o.placed_at, o.updated_at"

// List returns orders matching the provided filters.
func (r *OrderRepository) List(ctx context.Context, filter models.OrderFilter) ([]models.Order, int, error) {
	base := "FROM orders o JOIN customers c ON c.id = o.customer_id WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("o.status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}
	if filter.Customer != "" {
		conditions = append(conditions, fmt.Sprintf("(LOWER(c.email) LIKE $%d OR o.number LIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Customer)+"%")
	}
	if filter.From != nil {
		conditions = append(conditions, fmt.Sprintf("o.placed_at >= $%d", len(args)+1))
		args = append(args, *filter.From)
	}
	if filter.To != nil {
		conditions = append(conditions, fmt.Sprintf("o.placed_at < $%d", len(args)+1))
		args = append(args, *filter.To)
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	sortBy := filter.SortBy
	allowedSorts := map[string]string{
		"placed_at":   "o.placed_at",
		"total_cents": "o.total_cents",
		"number":      "o.number",
	}
	column, ok := allowedSorts[sortBy]
	if !ok {
		column = "o.placed_at"
	}
	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "DESC"
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

	query := fmt.Sprintf("SELECT %s %s ORDER BY %s %s LIMIT %d OFFSET %d", orderColumns, base, column, order, size, offset)

	var orders []models.Order
	if err := r.db.SelectContext(ctx, &orders, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}
	return orders, total, nil
}

// FindByID fetches an order by ID.
func (r *OrderRepository) FindByID(ctx context.Context, id string) (*models.Order, error) {
	query := fmt.Sprintf("SELECT %s FROM orders o JOIN customers c ON c.id = o.customer_id WHERE o.id = $1 LIMIT 1", orderColumns)
	var o models.Order
	if err := r.db.GetContext(ctx, &o, query, id); err != nil {
		return nil, err
	}
	return &o, nil
}

// UpdateStatus moves an order between fulfilment states. The current status
// is part of the WHERE clause so concurrent transitions cannot stack; a
// false return means the order was no longer in the expected state.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id string, from, to models.OrderStatus) (bool, error) {
	const query = `UPDATE orders SET status = $3, updated_at = $4 WHERE id = $1 AND status = $2`
	res, err := r.db.ExecContext(ctx, query, id, from, to, time.Now().UTC())
	if err != nil {
		return false, fmt.Errorf("update order status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("update order status affected rows: %w", err)
	}
	return affected == 1, nil
}

// ListForExport returns all orders in the given window without pagination.
func (r *OrderRepository) ListForExport(ctx context.Context, from, to time.Time) ([]models.Order, error) {
	query := fmt.Sprintf("SELECT %s FROM orders o JOIN customers c ON c.id = o.customer_id WHERE o.placed_at >= $1 AND o.placed_at < $2 ORDER BY o.placed_at ASC", orderColumns)
	var orders []models.Order
	if err := r.db.SelectContext(ctx, &orders, query, from, to); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("list orders for export: %w", err)
	}
	return orders, nil
}
