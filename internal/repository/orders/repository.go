package orders

import (
	"context"
	"time"

	"storefront-api/internal/domain"
)

// Repository persists order headers and lines as two independent write
// operations. There is deliberately no cross-call transaction between
// CreateHeader and InsertLines; the pending_lines status bridges the
// gap and the reconciler cleans up headers stuck there.
type Repository interface {
	CreateHeader(ctx context.Context, userID string, totalCents int64, idempotencyKey string) (*domain.Order, error)
	InsertLines(ctx context.Context, orderID string, lines []domain.OrderLine) error
	SetStatus(ctx context.Context, orderID string, to domain.OrderStatus) error
	GetByID(ctx context.Context, userID, orderID string) (*domain.Order, error)
	GetByIdempotencyKey(ctx context.Context, key string) (*domain.Order, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
	ListStuckPendingLines(ctx context.Context, olderThan time.Time, limit int) ([]string, error)
}
