package domain

import "time"

type Customer struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FirstName    string    `json:"firstName,omitempty"`
	LastName     string    `json:"lastName,omitempty"`
	Language     string    `json:"language"` // "th" or "en"
	CreatedAt    time.Time `json:"createdAt"`
}
