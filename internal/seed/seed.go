package seed

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"storefront-api/internal/domain"
	"storefront-api/internal/repository/product"
)

// Apply inserts the demo catalog for manual testing. It is idempotent
// via the product upsert.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	repo := product.NewPostgres(pool, nil)

	products := []domain.Product{
		{
			ID:         1,
			Name:       "Wireless Headphones",
			NameTH:     "หูฟังไร้สาย",
			PriceCents: 249000,
			Image:      "/images/headphones.jpg",
			Colors:     []string{"black", "white"},
		},
		{
			ID:         2,
			Name:       "Mechanical Keyboard",
			NameTH:     "คีย์บอร์ดแมคคานิคอล",
			PriceCents: 149000,
			Image:      "/images/keyboard.jpg",
			Colors:     []string{"black", "gray"},
		},
		{
			ID:         3,
			Name:       "4K Monitor",
			NameTH:     "จอมอนิเตอร์ 4K",
			PriceCents: 899000,
			Image:      "/images/monitor.jpg",
		},
		{
			ID:         4,
			Name:       "USB-C Hub",
			NameTH:     "ฮับ USB-C",
			PriceCents: 99000,
			Image:      "/images/hub.jpg",
			Colors:     []string{"silver", "space gray"},
		},
		{
			ID:         5,
			Name:       "Portable SSD 1TB",
			NameTH:     "SSD พกพา 1TB",
			PriceCents: 329000,
			Image:      "/images/ssd.jpg",
		},
	}

	for _, p := range products {
		if _, err := repo.Upsert(ctx, p); err != nil {
			return fmt.Errorf("upsert product %d: %w", p.ID, err)
		}
	}

	return nil
}
