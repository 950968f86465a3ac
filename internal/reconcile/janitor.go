// Package reconcile cleans up order headers whose line writes never
// completed. Header and line creation are independent calls, so a crash
// or failed write between them leaves a pending_lines header with no
// lines; the janitor cancels such headers once they age past a cutoff,
// which frees the purchaser to retry from their intact cart.
package reconcile

import (
	"context"
	"log"
	"time"

	"storefront-api/internal/domain"
)

type Orders interface {
	ListStuckPendingLines(ctx context.Context, olderThan time.Time, limit int) ([]string, error)
	SetStatus(ctx context.Context, orderID string, to domain.OrderStatus) error
}

type Janitor struct {
	orders Orders
	logger *log.Logger
	tick   time.Duration
	cutoff time.Duration
	batch  int
}

func NewJanitor(orders Orders, logger *log.Logger) *Janitor {
	return &Janitor{
		orders: orders,
		logger: logger,
		tick:   time.Minute,
		cutoff: 15 * time.Minute,
		batch:  100,
	}
}

// Schedule overrides the sweep interval and the stuck-header cutoff.
// Non-positive values keep the defaults.
func (j *Janitor) Schedule(tick, cutoff time.Duration) {
	if tick > 0 {
		j.tick = tick
	}
	if cutoff > 0 {
		j.cutoff = cutoff
	}
}

// Run sweeps on every tick until the context is canceled.
func (j *Janitor) Run(ctx context.Context) {
	ticker := time.NewTicker(j.tick)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			j.sweep(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (j *Janitor) sweep(ctx context.Context) int {
	ids, err := j.orders.ListStuckPendingLines(ctx, time.Now().Add(-j.cutoff), j.batch)
	if err != nil {
		j.logger.Printf("reconcile: list stuck headers: %v", err)
		return 0
	}

	canceled := 0
	for _, id := range ids {
		if err := j.orders.SetStatus(ctx, id, domain.StatusCanceled); err != nil {
			j.logger.Printf("reconcile: cancel order %s: %v", id, err)
			continue
		}
		j.logger.Printf("reconcile: canceled lineless order %s", id)
		canceled++
	}
	return canceled
}
