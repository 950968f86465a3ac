package orders

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"storefront-api/internal/domain"
	"storefront-api/internal/migrate"
)

func TestPostgres_CheckoutFlow(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	resetTables(ctx, t, pool)
	userID := insertCustomer(ctx, t, pool)

	repo := NewPostgres(pool)

	order, err := repo.CreateHeader(ctx, userID, 498000, "attempt-1")
	if err != nil {
		t.Fatalf("CreateHeader: %v", err)
	}
	if order.Status != domain.StatusPendingLines {
		t.Fatalf("expected new header in pending_lines, got %s", order.Status)
	}

	lines := []domain.OrderLine{
		{ProductID: 1, ProductName: "Wireless Headphones", Color: "black", PriceCents: 249000, Quantity: 2},
	}
	if err := repo.InsertLines(ctx, order.ID, lines); err != nil {
		t.Fatalf("InsertLines: %v", err)
	}
	if err := repo.SetStatus(ctx, order.ID, domain.StatusPending); err != nil {
		t.Fatalf("SetStatus: %v", err)
	}

	fetched, err := repo.GetByID(ctx, userID, order.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if fetched.Status != domain.StatusPending || fetched.TotalCents != 498000 {
		t.Fatalf("unexpected order %+v", fetched)
	}
	if len(fetched.Lines) != 1 || fetched.Lines[0].Quantity != 2 {
		t.Fatalf("unexpected lines %+v", fetched.Lines)
	}

	// A second header with the same idempotency key must be rejected.
	if _, err := repo.CreateHeader(ctx, userID, 498000, "attempt-1"); !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}

	byKey, err := repo.GetByIdempotencyKey(ctx, "attempt-1")
	if err != nil {
		t.Fatalf("GetByIdempotencyKey: %v", err)
	}
	if byKey.ID != order.ID {
		t.Fatalf("expected same order, got %s and %s", byKey.ID, order.ID)
	}
}

func TestPostgres_SetStatusTransitions(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	resetTables(ctx, t, pool)
	userID := insertCustomer(ctx, t, pool)

	repo := NewPostgres(pool)
	order, err := repo.CreateHeader(ctx, userID, 1000, "attempt-2")
	if err != nil {
		t.Fatalf("CreateHeader: %v", err)
	}

	// pending_lines cannot jump straight to shipped.
	if err := repo.SetStatus(ctx, order.ID, domain.StatusShipped); err == nil {
		t.Fatalf("expected invalid transition to fail")
	}

	if err := repo.SetStatus(ctx, order.ID, domain.StatusCanceled); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	// canceled is terminal.
	if err := repo.SetStatus(ctx, order.ID, domain.StatusPending); err == nil {
		t.Fatalf("expected transition out of canceled to fail")
	}
}

func TestPostgres_ListStuckPendingLines(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	resetTables(ctx, t, pool)
	userID := insertCustomer(ctx, t, pool)

	repo := NewPostgres(pool)
	stuck, err := repo.CreateHeader(ctx, userID, 1000, "stuck-1")
	if err != nil {
		t.Fatalf("CreateHeader: %v", err)
	}
	healthy, err := repo.CreateHeader(ctx, userID, 2000, "healthy-1")
	if err != nil {
		t.Fatalf("CreateHeader: %v", err)
	}
	if err := repo.SetStatus(ctx, healthy.ID, domain.StatusPending); err != nil {
		t.Fatalf("promote healthy: %v", err)
	}

	// Backdate the stuck header past the cutoff.
	if _, err := pool.Exec(ctx, `UPDATE orders SET created_at = now() - interval '1 hour' WHERE id = $1`, stuck.ID); err != nil {
		t.Fatalf("backdate: %v", err)
	}

	ids, err := repo.ListStuckPendingLines(ctx, time.Now().Add(-15*time.Minute), 100)
	if err != nil {
		t.Fatalf("ListStuckPendingLines: %v", err)
	}
	if len(ids) != 1 || ids[0] != stuck.ID {
		t.Fatalf("expected only the backdated header, got %v", ids)
	}
}

func testPool(ctx context.Context, t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	return pool
}

func insertCustomer(ctx context.Context, t *testing.T, pool *pgxpool.Pool) string {
	t.Helper()
	var id string
	err := pool.QueryRow(ctx, `
INSERT INTO customers (email, password_hash, language)
VALUES (gen_random_uuid()::text || '@example.com', 'x', 'th')
RETURNING id::text`).Scan(&id)
	if err != nil {
		t.Fatalf("insert customer: %v", err)
	}
	return id
}

func resetTables(ctx context.Context, t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	if _, err := pool.Exec(ctx, `TRUNCATE order_lines, orders, tokens, customers, products RESTART IDENTITY CASCADE`); err != nil {
		t.Fatalf("truncate tables: %v", err)
	}
}
