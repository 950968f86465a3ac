package checkout

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-api/internal/domain"
	"storefront-api/internal/notify"
)

type stubCarts struct {
	items   []domain.LineItem
	cleared bool
}

func (s *stubCarts) Items(_ context.Context, _ string) []domain.LineItem { return s.items }

func (s *stubCarts) Clear(_ context.Context, _ string) error {
	s.cleared = true
	s.items = nil
	return nil
}

type stubOrders struct {
	existing   *domain.Order
	header     *domain.Order
	headerErr  error
	linesErr   error
	statusErr  error
	headers    int
	lines      []domain.OrderLine
	lastStatus domain.OrderStatus
}

func (s *stubOrders) GetByIdempotencyKey(_ context.Context, _ string) (*domain.Order, error) {
	if s.existing != nil {
		return s.existing, nil
	}
	return nil, domain.ErrNotFound
}

func (s *stubOrders) CreateHeader(_ context.Context, userID string, totalCents int64, key string) (*domain.Order, error) {
	if s.headerErr != nil {
		return nil, s.headerErr
	}
	s.headers++
	s.header = &domain.Order{
		ID:             "ord-1",
		UserID:         userID,
		IdempotencyKey: key,
		Status:         domain.StatusPendingLines,
		TotalCents:     totalCents,
	}
	return s.header, nil
}

func (s *stubOrders) InsertLines(_ context.Context, orderID string, lines []domain.OrderLine) error {
	if s.linesErr != nil {
		return s.linesErr
	}
	s.lines = lines
	return nil
}

func (s *stubOrders) SetStatus(_ context.Context, _ string, to domain.OrderStatus) error {
	if s.statusErr != nil {
		return s.statusErr
	}
	s.lastStatus = to
	if s.header != nil {
		s.header.Status = to
	}
	return nil
}

type stubNotifier struct {
	sent []notify.OrderNotification
	err  error
}

func (s *stubNotifier) Send(_ context.Context, n notify.OrderNotification) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, n)
	return nil
}

func buyer() *domain.Customer {
	return &domain.Customer{
		ID:        "u1",
		Email:     "somchai@example.com",
		FirstName: "Somchai",
		LastName:  "J",
		Language:  "th",
	}
}

// Price 2,490 ฿ normalized at ingestion to 249000 satang.
func twoHeadphones() []domain.LineItem {
	return []domain.LineItem{{ProductID: 1, Name: "Headphones", PriceCents: 249000, Quantity: 2}}
}

func newService(carts *stubCarts, orders *stubOrders, notifier *stubNotifier) *Service {
	return New(carts, orders, notifier, log.New(io.Discard, "", 0))
}

func TestSubmitHappyPath(t *testing.T) {
	carts := &stubCarts{items: twoHeadphones()}
	orders := &stubOrders{}
	notifier := &stubNotifier{}
	svc := newService(carts, orders, notifier)

	order, err := svc.Submit(context.Background(), buyer(), "attempt-1")
	require.NoError(t, err)

	assert.Equal(t, int64(498000), order.TotalCents, "total is numeric, price*quantity")
	assert.Equal(t, domain.StatusPending, order.Status)
	require.Len(t, orders.lines, 1)
	assert.Equal(t, int64(249000), orders.lines[0].PriceCents)
	assert.Equal(t, 2, orders.lines[0].Quantity)
	assert.True(t, carts.cleared, "cart must be cleared after success")

	require.Len(t, notifier.sent, 1)
	assert.Equal(t, "ord-1", notifier.sent[0].OrderID)
	assert.Equal(t, "th", notifier.sent[0].Language)
	assert.Equal(t, int64(498000), notifier.sent[0].TotalCents)
}

func TestSubmitEmptyCartNeverCallsBackend(t *testing.T) {
	orders := &stubOrders{}
	svc := newService(&stubCarts{}, orders, &stubNotifier{})

	_, err := svc.Submit(context.Background(), buyer(), "")
	assert.ErrorIs(t, err, domain.ErrEmptyCart)
	assert.Zero(t, orders.headers)
}

func TestSubmitUnauthenticated(t *testing.T) {
	orders := &stubOrders{}
	svc := newService(&stubCarts{items: twoHeadphones()}, orders, &stubNotifier{})

	_, err := svc.Submit(context.Background(), nil, "")
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)

	_, err = svc.Submit(context.Background(), &domain.Customer{}, "")
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
	assert.Zero(t, orders.headers)
}

func TestSubmitHeaderFailureKeepsCart(t *testing.T) {
	carts := &stubCarts{items: twoHeadphones()}
	orders := &stubOrders{headerErr: errors.New("backend down")}
	svc := newService(carts, orders, &stubNotifier{})

	_, err := svc.Submit(context.Background(), buyer(), "")
	require.Error(t, err)
	assert.False(t, carts.cleared)
	assert.Empty(t, orders.lines)
	assert.NotEmpty(t, carts.items, "cart retained for retry")
}

func TestSubmitLineFailureLeavesDanglingHeader(t *testing.T) {
	carts := &stubCarts{items: twoHeadphones()}
	orders := &stubOrders{linesErr: errors.New("write failed")}
	notifier := &stubNotifier{}
	svc := newService(carts, orders, notifier)

	_, err := svc.Submit(context.Background(), buyer(), "")
	require.Error(t, err)

	assert.False(t, carts.cleared, "cart must NOT be cleared on partial failure")
	assert.NotEmpty(t, carts.items)
	require.NotNil(t, orders.header, "header exists, pending-but-lineless")
	assert.Equal(t, domain.StatusPendingLines, orders.header.Status)
	assert.Empty(t, notifier.sent)
}

func TestSubmitNotificationFailureDoesNotBlock(t *testing.T) {
	carts := &stubCarts{items: twoHeadphones()}
	orders := &stubOrders{}
	svc := newService(carts, orders, &stubNotifier{err: errors.New("smtp timeout")})

	order, err := svc.Submit(context.Background(), buyer(), "")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, order.Status)
	assert.True(t, carts.cleared)
}

func TestSubmitDuplicateAttemptReturnsExistingOrder(t *testing.T) {
	existing := &domain.Order{ID: "ord-0", Status: domain.StatusPending, TotalCents: 498000}
	carts := &stubCarts{items: twoHeadphones()}
	orders := &stubOrders{existing: existing}
	svc := newService(carts, orders, &stubNotifier{})

	order, err := svc.Submit(context.Background(), buyer(), "attempt-1")
	require.NoError(t, err)
	assert.Equal(t, existing, order)
	assert.Zero(t, orders.headers, "no second header for the same attempt")
}

func TestSubmitGeneratesIdempotencyKey(t *testing.T) {
	carts := &stubCarts{items: twoHeadphones()}
	orders := &stubOrders{}
	svc := newService(carts, orders, &stubNotifier{})

	order, err := svc.Submit(context.Background(), buyer(), "")
	require.NoError(t, err)
	assert.NotEmpty(t, order.IdempotencyKey)
}

func TestPhaseTransitions(t *testing.T) {
	assert.True(t, PhaseValidating.CanAdvance(PhaseSubmitting))
	assert.True(t, PhaseSubmitting.CanAdvance(PhaseWritingLines))
	assert.True(t, PhaseWritingLines.CanAdvance(PhaseNotifying))
	assert.True(t, PhaseNotifying.CanAdvance(PhaseCompleted))
	assert.True(t, PhaseWritingLines.CanAdvance(PhaseFailed))

	assert.False(t, PhaseValidating.CanAdvance(PhaseWritingLines))
	assert.False(t, PhaseNotifying.CanAdvance(PhaseFailed), "notification failure never fails the attempt")
	assert.False(t, PhaseCompleted.CanAdvance(PhaseValidating))

	assert.True(t, PhaseCompleted.IsTerminal())
	assert.True(t, PhaseFailed.IsTerminal())
	assert.False(t, PhaseWritingLines.IsTerminal())
}
