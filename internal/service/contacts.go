package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/mailista/contact-manager/api/internal/dto"
	"github.com/mailista/contact-manager/api/internal/entity"
	"github.com/mailista/contact-manager/api/internal/pipeline"
	"github.com/mailista/contact-manager/api/internal/repository"
)

const (
	// bulkChunkSize bounds how many rows a single bulk statement touches.
	bulkChunkSize = 500
	// exportPageSize bounds how many rows are held in memory per export page.
	exportPageSize = 1000
)

// ContactsService exposes read/write operations for the contact base.
type ContactsService struct {
	repo repository.ContactsRepository
}

// NewContactsService creates a new instance of ContactsService.
func NewContactsService(repo repository.ContactsRepository) *ContactsService {
	return &ContactsService{repo: repo}
}

// List returns one page of contacts respecting pagination defaults.
func (s *ContactsService) List(ctx context.Context, userID uuid.UUID, filter dto.ContactFilter) (*dto.ContactListResponse, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PerPage <= 0 {
		filter.PerPage = 20
	}
	if filter.PerPage > 100 {
		filter.PerPage = 100
	}

	contacts, err := s.repo.List(ctx, userID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.repo.Count(ctx, userID, filter)
	if err != nil {
		return nil, err
	}

	totalPages := (total + filter.PerPage - 1) / filter.PerPage
	return &dto.ContactListResponse{
		Contacts:   contacts,
		Total:      total,
		Page:       filter.Page,
		PerPage:    filter.PerPage,
		TotalPages: totalPages,
	}, nil
}

// Update applies a partial edit to one contact.
func (s *ContactsService) Update(ctx context.Context, userID, id uuid.UUID, req dto.UpdateContactRequest) (*entity.Contact, error) {
	return s.repo.Update(ctx, userID, id, req)
}

// Delete removes one contact.
func (s *ContactsService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return s.repo.Delete(ctx, userID, id)
}

// BulkUpdate applies field values to a selection or to every filter match,
// chunked so one request never produces an unbounded statement.
func (s *ContactsService) BulkUpdate(ctx context.Context, userID uuid.UUID, req dto.BulkUpdateRequest) (int, error) {
	ids, err := s.resolveIDs(ctx, userID, req.IDs, req.ApplyToFilter, req.Filter)
	if err != nil {
		return 0, err
	}

	updated := 0
	for start := 0; start < len(ids); start += bulkChunkSize {
		end := start + bulkChunkSize
		if end > len(ids) {
			end = len(ids)
		}
		n, err := s.repo.BulkUpdate(ctx, userID, ids[start:end], req.Fields)
		updated += n
		if err != nil {
			return updated, fmt.Errorf("bulk update batch: %w", err)
		}
	}
	return updated, nil
}

// BulkDelete removes a selection or every filter match.
func (s *ContactsService) BulkDelete(ctx context.Context, userID uuid.UUID, req dto.BulkDeleteRequest) (int, error) {
	ids, err := s.resolveIDs(ctx, userID, req.IDs, req.ApplyToFilter, req.Filter)
	if err != nil {
		return 0, err
	}

	deleted := 0
	for start := 0; start < len(ids); start += bulkChunkSize {
		end := start + bulkChunkSize
		if end > len(ids) {
			end = len(ids)
		}
		n, err := s.repo.BulkDelete(ctx, userID, ids[start:end])
		deleted += n
		if err != nil {
			return deleted, fmt.Errorf("bulk delete batch: %w", err)
		}
	}
	return deleted, nil
}

func (s *ContactsService) resolveIDs(ctx context.Context, userID uuid.UUID, ids []uuid.UUID, applyToFilter bool, filter dto.ContactFilter) ([]uuid.UUID, error) {
	if !applyToFilter {
		return ids, nil
	}
	return s.repo.IDsMatching(ctx, userID, filter)
}

// Export renders every filter match as a spreadsheet-ready download, paging
// through the base so large exports stay bounded in memory.
func (s *ContactsService) Export(ctx context.Context, userID uuid.UUID, filter dto.ContactFilter) ([]byte, error) {
	var rows [][]string
	for offset := 0; ; offset += exportPageSize {
		page, err := s.repo.Page(ctx, userID, filter, offset, exportPageSize)
		if err != nil {
			return nil, err
		}
		for _, contact := range page {
			rows = append(rows, []string{
				deref(contact.Name),
				contact.Email,
				deref(contact.Phone),
				deref(contact.Country),
				deref(contact.State),
				deref(contact.City),
				deref(contact.Website),
				deref(contact.Profession),
				deref(contact.Branch),
			})
		}
		if len(page) < exportPageSize {
			break
		}
	}

	return pipeline.WriteDelimited(pipeline.ContactExportHeader, rows, ','), nil
}

// Attributes lists the distinct values available for dropdown filters.
func (s *ContactsService) Attributes(ctx context.Context, userID uuid.UUID, scope dto.AttributeScope) (dto.AttributeOptions, error) {
	return s.repo.DistinctAttributes(ctx, userID, scope)
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
