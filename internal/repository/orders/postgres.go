package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"storefront-api/internal/domain"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) CreateHeader(ctx context.Context, userID string, totalCents int64, idempotencyKey string) (*domain.Order, error) {
	const q = `
INSERT INTO orders (user_id, idempotency_key, status, total_cents)
VALUES ($1, $2, 'pending_lines', $3)
RETURNING id::text, created_at
`
	order := domain.Order{
		UserID:         userID,
		IdempotencyKey: idempotencyKey,
		Status:         domain.StatusPendingLines,
		TotalCents:     totalCents,
	}
	if err := r.pool.QueryRow(ctx, q, userID, idempotencyKey, totalCents).Scan(&order.ID, &order.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrAlreadyExists
		}
		return nil, err
	}
	return &order, nil
}

func (r *postgresRepo) InsertLines(ctx context.Context, orderID string, lines []domain.OrderLine) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, line := range lines {
		if _, err := tx.Exec(ctx, `
INSERT INTO order_lines (order_id, product_id, product_name, color, price_cents, quantity)
VALUES ($1, $2, $3, $4, $5, $6)
`, orderID, line.ProductID, line.ProductName, line.Color, line.PriceCents, line.Quantity); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *postgresRepo) SetStatus(ctx context.Context, orderID string, to domain.OrderStatus) error {
	var current string
	err := r.pool.QueryRow(ctx, `SELECT status FROM orders WHERE id = $1`, orderID).Scan(&current)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrNotFound
		}
		return err
	}
	if !domain.CanTransition(domain.OrderStatus(current), to) {
		return fmt.Errorf("illegal status transition %s -> %s", current, to)
	}

	cmd, err := r.pool.Exec(ctx, `
UPDATE orders SET status = $1 WHERE id = $2 AND status = $3
`, to, orderID, current)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("order %s changed concurrently", orderID)
	}
	return nil
}

func (r *postgresRepo) GetByID(ctx context.Context, userID, orderID string) (*domain.Order, error) {
	const q = `
SELECT id::text, user_id::text, idempotency_key, status, total_cents, created_at
FROM orders
WHERE id = $1 AND user_id = $2
`
	return r.fetchOrder(ctx, q, orderID, userID)
}

func (r *postgresRepo) GetByIdempotencyKey(ctx context.Context, key string) (*domain.Order, error) {
	const q = `
SELECT id::text, user_id::text, idempotency_key, status, total_cents, created_at
FROM orders
WHERE idempotency_key = $1
`
	return r.fetchOrder(ctx, q, key)
}

func (r *postgresRepo) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	const q = `
SELECT id::text, user_id::text, idempotency_key, status, total_cents, created_at
FROM orders
WHERE user_id = $1
ORDER BY created_at DESC
`
	rows, err := r.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Order
	for rows.Next() {
		var o domain.Order
		var status string
		if err := rows.Scan(&o.ID, &o.UserID, &o.IdempotencyKey, &status, &o.TotalCents, &o.CreatedAt); err != nil {
			return nil, err
		}
		o.Status = domain.OrderStatus(status)
		out = append(out, o)
	}
	return out, rows.Err()
}

// ListStuckPendingLines returns ids of headers that never got their
// lines written and have aged past the cutoff.
func (r *postgresRepo) ListStuckPendingLines(ctx context.Context, olderThan time.Time, limit int) ([]string, error) {
	const q = `
SELECT id::text
FROM orders
WHERE status = 'pending_lines' AND created_at < $1
ORDER BY created_at ASC
LIMIT $2
`
	rows, err := r.pool.Query(ctx, q, olderThan, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *postgresRepo) fetchOrder(ctx context.Context, query string, args ...interface{}) (*domain.Order, error) {
	var order domain.Order
	var status string
	err := r.pool.QueryRow(ctx, query, args...).Scan(
		&order.ID,
		&order.UserID,
		&order.IdempotencyKey,
		&status,
		&order.TotalCents,
		&order.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	order.Status = domain.OrderStatus(status)

	const linesQuery = `
SELECT id, order_id::text, product_id, product_name, color, price_cents, quantity
FROM order_lines
WHERE order_id = $1
ORDER BY id ASC
`
	rows, err := r.pool.Query(ctx, linesQuery, order.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var line domain.OrderLine
		if err := rows.Scan(
			&line.ID,
			&line.OrderID,
			&line.ProductID,
			&line.ProductName,
			&line.Color,
			&line.PriceCents,
			&line.Quantity,
		); err != nil {
			return nil, err
		}
		order.Lines = append(order.Lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &order, nil
}
