package cart

import (
	"context"
	"errors"
	"fmt"
	"log"

	"storefront-api/internal/domain"
)

// ErrStoreUnavailable wraps cart storage failures so the HTTP layer can
// surface a single retryable message instead of the transport error.
var ErrStoreUnavailable = errors.New("cart storage unavailable")

// Store is the per-user persistence behind the cart. The Redis
// implementation lives in internal/cartstore.
type Store interface {
	Get(ctx context.Context, userID string) ([]domain.LineItem, error)
	Put(ctx context.Context, userID string, items []domain.LineItem) error
	Del(ctx context.Context, userID string) error
}

// Catalog resolves products so prices are never trusted from the client.
type Catalog interface {
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
}

// Service owns the cart rules: identity is an explicit input to every
// operation, entries are keyed by (product, color), adding a duplicate
// key increments quantity, and driving a quantity to zero or below
// removes the entry.
type Service struct {
	store   Store
	catalog Catalog
	logger  *log.Logger
}

func New(store Store, catalog Catalog, logger *log.Logger) *Service {
	return &Service{store: store, catalog: catalog, logger: logger}
}

// Items returns the user's cart. Unauthenticated sessions have no cart
// and read as empty. A failing store also reads as empty: reads degrade,
// they never propagate an error to the storefront.
func (s *Service) Items(ctx context.Context, userID string) []domain.LineItem {
	if userID == "" {
		return nil
	}
	items, err := s.store.Get(ctx, userID)
	if err != nil {
		s.logger.Printf("cart %s: read failed, degrading to empty: %v", userID, err)
		return nil
	}
	return items
}

// Add puts quantity units of a product variant into the user's cart,
// merging into an existing (product, color) entry if one is present.
// The line item is built from the catalog record, never from
// client-supplied prices.
func (s *Service) Add(ctx context.Context, userID string, productID int64, color string, quantity int) ([]domain.LineItem, error) {
	if userID == "" {
		return nil, domain.ErrUnauthenticated
	}
	if quantity <= 0 {
		return nil, errors.New("quantity must be positive")
	}

	product, err := s.catalog.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, errors.New("product not found")
		}
		return nil, err
	}
	if color != "" && !hasColor(product, color) {
		return nil, fmt.Errorf("color %q not available", color)
	}

	items, err := s.store.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	merged := false
	for i := range items {
		if items[i].SameKey(productID, color) {
			items[i].Quantity += quantity
			merged = true
			break
		}
	}
	if !merged {
		items = append(items, domain.LineItem{
			ProductID:  product.ID,
			Name:       product.Name,
			Image:      product.Image,
			Color:      color,
			PriceCents: product.PriceCents,
			Quantity:   quantity,
		})
	}

	if err := s.store.Put(ctx, userID, items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return items, nil
}

// UpdateQuantity sets an entry's quantity directly (not additive). A
// quantity of zero or below is equivalent to Remove.
func (s *Service) UpdateQuantity(ctx context.Context, userID string, productID int64, color string, quantity int) ([]domain.LineItem, error) {
	if userID == "" {
		return nil, domain.ErrUnauthenticated
	}
	if quantity <= 0 {
		return s.Remove(ctx, userID, productID, color)
	}

	items, err := s.store.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	found := false
	for i := range items {
		if items[i].SameKey(productID, color) {
			items[i].Quantity = quantity
			found = true
			break
		}
	}
	if !found {
		return nil, domain.ErrNotFound
	}
	if err := s.store.Put(ctx, userID, items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return items, nil
}

// Remove deletes the matching (product, color) entry. Removing an
// absent entry is a no-op and skips the write entirely.
func (s *Service) Remove(ctx context.Context, userID string, productID int64, color string) ([]domain.LineItem, error) {
	if userID == "" {
		return nil, domain.ErrUnauthenticated
	}
	items, err := s.store.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	kept := items[:0]
	removed := false
	for _, it := range items {
		if it.SameKey(productID, color) {
			removed = true
			continue
		}
		kept = append(kept, it)
	}
	if !removed {
		return items, nil
	}
	if err := s.store.Put(ctx, userID, kept); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return kept, nil
}

// Clear deletes the user's entire cart entry (used after checkout).
func (s *Service) Clear(ctx context.Context, userID string) error {
	if userID == "" {
		return domain.ErrUnauthenticated
	}
	if err := s.store.Del(ctx, userID); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

func hasColor(p *domain.Product, color string) bool {
	if len(p.Colors) == 0 {
		return true
	}
	for _, c := range p.Colors {
		if c == color {
			return true
		}
	}
	return false
}
