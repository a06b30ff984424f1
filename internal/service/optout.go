package service

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/mailista/contact-manager/api/internal/dto"
	"github.com/mailista/contact-manager/api/internal/entity"
	"github.com/mailista/contact-manager/api/internal/pipeline"
	"github.com/mailista/contact-manager/api/internal/repository"
)

// ErrInvalidOptOutValue indicates the value is neither an address nor a
// domain.
var ErrInvalidOptOutValue = errors.New("value is not an email address or domain")

var (
	optOutEmailPattern  = regexp.MustCompile(`^[a-z0-9._%+\-']+@[a-z0-9.-]+\.[a-z]{2,}$`)
	optOutDomainPattern = regexp.MustCompile(`^[a-z0-9.-]+\.[a-z]{2,}$`)
	optOutSeparators    = regexp.MustCompile(`[\n\r,;]+`)
)

// optOutSampleSize is how many entries the listing returns for display.
const optOutSampleSize = 100

// OptOutService manages the per-user suppression list.
type OptOutService struct {
	repo repository.OptOutRepository
}

// NewOptOutService builds a new OptOutService instance.
func NewOptOutService(repo repository.OptOutRepository) *OptOutService {
	return &OptOutService{repo: repo}
}

// classifyOptOutValue normalises a raw value and decides whether it
// suppresses one address or a whole domain. A leading @ marks a domain.
func classifyOptOutValue(raw string) (value, kind string, err error) {
	value = strings.ToLower(strings.TrimSpace(raw))
	value = strings.TrimPrefix(value, "@")

	switch {
	case optOutEmailPattern.MatchString(value):
		return value, entity.OptOutKindEmail, nil
	case optOutDomainPattern.MatchString(value):
		return value, entity.OptOutKindDomain, nil
	default:
		return "", "", ErrInvalidOptOutValue
	}
}

// Add stores a single suppression value.
func (s *OptOutService) Add(ctx context.Context, userID uuid.UUID, raw string) (*entity.OptOutEntry, error) {
	value, kind, err := classifyOptOutValue(raw)
	if err != nil {
		return nil, err
	}
	return s.repo.Add(ctx, userID, value, kind)
}

// BulkAdd splits a pasted blob on newlines, commas and semicolons and stores
// every recognisable value, reporting how many were skipped as invalid or
// already present.
func (s *OptOutService) BulkAdd(ctx context.Context, userID uuid.UUID, req dto.BulkOptOutRequest) (*dto.BulkOptOutResponse, error) {
	parts := optOutSeparators.Split(req.Values, -1)

	seen := make(map[string]struct{}, len(parts))
	var entries []entity.OptOutEntry
	total := 0
	for _, part := range parts {
		if strings.TrimSpace(part) == "" {
			continue
		}
		total++
		value, kind, err := classifyOptOutValue(part)
		if err != nil {
			continue
		}
		if _, dup := seen[value]; dup {
			continue
		}
		seen[value] = struct{}{}
		entries = append(entries, entity.OptOutEntry{Value: value, Kind: kind})
	}

	added, err := s.repo.BulkAdd(ctx, userID, entries)
	if err != nil {
		return nil, err
	}

	return &dto.BulkOptOutResponse{Added: added, Skipped: total - added}, nil
}

// List returns a display sample plus the full list size.
func (s *OptOutService) List(ctx context.Context, userID uuid.UUID) (*dto.OptOutListResponse, error) {
	entries, err := s.repo.Sample(ctx, userID, optOutSampleSize)
	if err != nil {
		return nil, err
	}
	total, err := s.repo.Count(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &dto.OptOutListResponse{Entries: entries, Total: total}, nil
}

// Remove deletes one entry.
func (s *OptOutService) Remove(ctx context.Context, userID, id uuid.UUID) error {
	return s.repo.Remove(ctx, userID, id)
}

// Export renders the complete suppression list as a download.
func (s *OptOutService) Export(ctx context.Context, userID uuid.UUID) ([]byte, error) {
	entries, err := s.repo.ListAll(ctx, userID)
	if err != nil {
		return nil, err
	}

	rows := make([][]string, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, []string{entry.Value, entry.Kind})
	}
	return pipeline.WriteDelimited(pipeline.OptOutExportHeader, rows, ','), nil
}

// loadOptOutSets snapshots the stored suppression list into membership sets
// for one batch run.
func loadOptOutSets(ctx context.Context, repo repository.OptOutRepository, userID uuid.UUID) (pipeline.OptOutSets, error) {
	entries, err := repo.ListAll(ctx, userID)
	if err != nil {
		return pipeline.OptOutSets{}, err
	}

	var emails, domains []string
	for _, entry := range entries {
		switch entry.Kind {
		case entity.OptOutKindDomain:
			domains = append(domains, entry.Value)
		default:
			emails = append(emails, entry.Value)
		}
	}
	return pipeline.NewOptOutSets(emails, domains), nil
}
