// Package checkout converts a cart snapshot into a persisted order.
//
// Header and line creation are two independent writes with no cross-call
// transaction. The header is created as pending_lines and promoted to
// pending once every line has landed; a line-write failure leaves the
// header dangling for the reconciler and keeps the cart untouched so the
// user can retry.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"

	"storefront-api/internal/domain"
	"storefront-api/internal/notify"
	"storefront-api/internal/service/cart"
)

// Carts is the slice of the cart service checkout needs.
type Carts interface {
	Items(ctx context.Context, userID string) []domain.LineItem
	Clear(ctx context.Context, userID string) error
}

// Orders is the order backend: two independent write operations plus
// status promotion and idempotency lookup.
type Orders interface {
	GetByIdempotencyKey(ctx context.Context, key string) (*domain.Order, error)
	CreateHeader(ctx context.Context, userID string, totalCents int64, idempotencyKey string) (*domain.Order, error)
	InsertLines(ctx context.Context, orderID string, lines []domain.OrderLine) error
	SetStatus(ctx context.Context, orderID string, to domain.OrderStatus) error
}

// Notifier dispatches the order confirmation. Failures are logged and
// never block completion.
type Notifier interface {
	Send(ctx context.Context, n notify.OrderNotification) error
}

type Service struct {
	carts    Carts
	orders   Orders
	notifier Notifier
	logger   *log.Logger
}

func New(carts Carts, orders Orders, notifier Notifier, logger *log.Logger) *Service {
	return &Service{carts: carts, orders: orders, notifier: notifier, logger: logger}
}

// Submit runs one checkout attempt for the given customer. The
// idempotency key deduplicates retries and double submissions from
// concurrent tabs: a key that already produced an order returns that
// order without touching the backend again. An empty key gets a
// server-generated one.
func (s *Service) Submit(ctx context.Context, customer *domain.Customer, idempotencyKey string) (*domain.Order, error) {
	phase := PhaseValidating

	if customer == nil || customer.ID == "" {
		return nil, s.fail(&phase, domain.ErrUnauthenticated)
	}
	items := s.carts.Items(ctx, customer.ID)
	if len(items) == 0 {
		return nil, s.fail(&phase, domain.ErrEmptyCart)
	}
	if idempotencyKey == "" {
		idempotencyKey = uuid.NewString()
	}

	existing, err := s.orders.GetByIdempotencyKey(ctx, idempotencyKey)
	if err == nil {
		s.logger.Printf("checkout %s: duplicate attempt, returning order %s", idempotencyKey, existing.ID)
		return existing, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, s.fail(&phase, fmt.Errorf("idempotency lookup: %w", err))
	}

	total := cart.Total(items)

	s.advance(&phase, PhaseSubmitting, customer.ID)
	order, err := s.orders.CreateHeader(ctx, customer.ID, total, idempotencyKey)
	if err != nil {
		return nil, s.fail(&phase, fmt.Errorf("create order: %w", err))
	}

	s.advance(&phase, PhaseWritingLines, customer.ID)
	lines := linesFromItems(order.ID, items)
	if err := s.orders.InsertLines(ctx, order.ID, lines); err != nil {
		// Header now dangles in pending_lines; the reconciler cancels
		// it. The cart stays intact for a retry.
		return nil, s.fail(&phase, fmt.Errorf("write order lines: %w", err))
	}
	if err := s.orders.SetStatus(ctx, order.ID, domain.StatusPending); err != nil {
		return nil, s.fail(&phase, fmt.Errorf("promote order: %w", err))
	}
	order.Status = domain.StatusPending
	order.Lines = lines

	s.advance(&phase, PhaseNotifying, customer.ID)
	if err := s.notifier.Send(ctx, notify.OrderNotification{
		OrderID:    order.ID,
		UserEmail:  customer.Email,
		UserName:   customer.FirstName + " " + customer.LastName,
		Items:      items,
		TotalCents: total,
		Language:   customer.Language,
	}); err != nil {
		s.logger.Printf("order %s: notification failed (ignored): %v", order.ID, err)
	}

	if err := s.carts.Clear(ctx, customer.ID); err != nil {
		s.logger.Printf("order %s: cart clear failed: %v", order.ID, err)
	}
	s.advance(&phase, PhaseCompleted, customer.ID)

	return order, nil
}

func (s *Service) advance(phase *Phase, to Phase, userID string) {
	if !phase.CanAdvance(to) {
		// Transition table and Submit disagree; loud log beats a panic.
		s.logger.Printf("checkout %s: illegal phase transition %s -> %s", userID, *phase, to)
	}
	*phase = to
	s.logger.Printf("checkout %s: %s", userID, to)
}

func (s *Service) fail(phase *Phase, err error) error {
	*phase = PhaseFailed
	return err
}

func linesFromItems(orderID string, items []domain.LineItem) []domain.OrderLine {
	lines := make([]domain.OrderLine, 0, len(items))
	for _, it := range items {
		lines = append(lines, domain.OrderLine{
			OrderID:     orderID,
			ProductID:   it.ProductID,
			ProductName: it.Name,
			Color:       it.Color,
			PriceCents:  it.PriceCents,
			Quantity:    it.Quantity,
		})
	}
	return lines
}
