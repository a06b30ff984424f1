package entity

import (
	"time"

	"github.com/google/uuid"
)

// Opt-out entry kinds.
const (
	OptOutKindEmail  = "email"
	OptOutKindDomain = "domain"
)

// OptOutEntry is a must-not-contact rule: either an exact address or a
// whole domain, always stored lower-cased.
type OptOutEntry struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Value     string    `json:"value"`
	Kind      string    `json:"kind"`
	CreatedAt time.Time `json:"created_at"`
}
