package domain

import "time"

// Product is a catalog record. Names are bilingual; NameTH falls back
// to Name when the Thai translation is missing.
type Product struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	NameTH     string    `json:"nameTh,omitempty"`
	PriceCents int64     `json:"priceCents"`
	Image      string    `json:"image,omitempty"`
	Colors     []string  `json:"colors,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// LocalizedName returns the display name for a storefront language.
func (p Product) LocalizedName(language string) string {
	if language == "th" && p.NameTH != "" {
		return p.NameTH
	}
	return p.Name
}
