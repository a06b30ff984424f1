package dto

import (
	"github.com/google/uuid"

	"github.com/mailista/contact-manager/api/internal/entity"
)

// ContactFilter contains query parameters for contact listing endpoints.
// Search matches name, email, website and phone; the remaining fields are
// exact (case-insensitive) matches.
type ContactFilter struct {
	Search     string
	Country    string
	State      string
	City       string
	Profession string
	Branch     string
	Phone      string
	Page       int
	PerPage    int
}

// ContactListResponse is the paginated listing payload.
type ContactListResponse struct {
	Contacts   []entity.Contact `json:"contacts"`
	Total      int              `json:"total"`
	Page       int              `json:"page"`
	PerPage    int              `json:"per_page"`
	TotalPages int              `json:"total_pages"`
}

// UpdateContactRequest carries editable contact fields; nil leaves a field
// untouched.
type UpdateContactRequest struct {
	Name       *string `json:"name"`
	Phone      *string `json:"phone"`
	Country    *string `json:"country"`
	State      *string `json:"state"`
	City       *string `json:"city"`
	Website    *string `json:"website"`
	Profession *string `json:"profession"`
	Branch     *string `json:"branch"`
}

// BulkContactFields are the values applied during a bulk edit; empty strings
// are skipped.
type BulkContactFields struct {
	Country    string `json:"country"`
	State      string `json:"state"`
	City       string `json:"city"`
	Profession string `json:"profession"`
	Branch     string `json:"branch"`
	Phone      string `json:"phone"`
}

// BulkUpdateRequest applies field values to an explicit selection, or to
// every contact matching the filter when ApplyToFilter is set.
type BulkUpdateRequest struct {
	IDs           []uuid.UUID       `json:"ids"`
	ApplyToFilter bool              `json:"apply_to_filter"`
	Filter        ContactFilter     `json:"filter"`
	Fields        BulkContactFields `json:"fields"`
}

// BulkDeleteRequest removes an explicit selection, or every contact matching
// the filter when ApplyToFilter is set.
type BulkDeleteRequest struct {
	IDs           []uuid.UUID   `json:"ids"`
	ApplyToFilter bool          `json:"apply_to_filter"`
	Filter        ContactFilter `json:"filter"`
}

// AttributeOptions lists the distinct values available for dropdown filters.
type AttributeOptions struct {
	Countries   []string `json:"countries"`
	States      []string `json:"states"`
	Cities      []string `json:"cities"`
	Professions []string `json:"professions"`
	Branches    []string `json:"branches"`
}

// AttributeScope narrows state/city options to a selected country or state.
type AttributeScope struct {
	Country string
	State   string
}
