package domain

// LineItem is one product/variant/quantity entry in a user's cart.
// Prices are always integer satang; formatted price strings never reach
// the cart, they are normalized at catalog ingestion.
type LineItem struct {
	ProductID  int64  `json:"productId"`
	Name       string `json:"name"`
	Image      string `json:"image,omitempty"`
	Color      string `json:"color,omitempty"`
	PriceCents int64  `json:"priceCents"`
	Quantity   int    `json:"quantity"`
}

// SameKey reports whether this entry matches a (product, color) cart key.
// An empty color is a distinct key of its own, never a wildcard.
func (li LineItem) SameKey(productID int64, color string) bool {
	return li.ProductID == productID && li.Color == color
}
