package dto

import "github.com/mailista/contact-manager/api/internal/entity"

// AddOptOutRequest adds a single address or domain to the suppression list.
type AddOptOutRequest struct {
	Value string `json:"value"`
}

// BulkOptOutRequest adds many values at once; Values is split on newlines,
// commas and semicolons.
type BulkOptOutRequest struct {
	Values string `json:"values"`
}

// OptOutListResponse returns a display sample plus the full count.
type OptOutListResponse struct {
	Entries []entity.OptOutEntry `json:"entries"`
	Total   int                  `json:"total"`
}

// BulkOptOutResponse reports how a bulk add went.
type BulkOptOutResponse struct {
	Added   int `json:"added"`
	Skipped int `json:"skipped"`
}
