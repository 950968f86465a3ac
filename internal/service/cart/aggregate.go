package cart

import "storefront-api/internal/domain"

// Count is the total number of units across all entries, shown on the
// cart badge. An empty or absent cart counts zero.
func Count(items []domain.LineItem) int {
	n := 0
	for _, it := range items {
		if it.Quantity > 0 {
			n += it.Quantity
		}
	}
	return n
}

// Total is the sum of extended line prices in satang. The sum is
// order-insensitive. Entries that carry a non-positive quantity or a
// negative price contribute nothing rather than failing.
func Total(items []domain.LineItem) int64 {
	var total int64
	for _, it := range items {
		if it.Quantity <= 0 || it.PriceCents < 0 {
			continue
		}
		total += it.PriceCents * int64(it.Quantity)
	}
	return total
}
