package entity

import (
	"time"

	"github.com/google/uuid"
)

// Contact represents one address-book record owned by a user.
type Contact struct {
	ID         uuid.UUID  `json:"id"`
	UserID     uuid.UUID  `json:"user_id"`
	Email      string     `json:"email"`
	Name       *string    `json:"name,omitempty"`
	Phone      *string    `json:"phone,omitempty"`
	Country    *string    `json:"country,omitempty"`
	State      *string    `json:"state,omitempty"`
	City       *string    `json:"city,omitempty"`
	Website    *string    `json:"website,omitempty"`
	Profession *string    `json:"profession,omitempty"`
	Branch     *string    `json:"branch,omitempty"`
	ImportDate *time.Time `json:"import_date,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}
