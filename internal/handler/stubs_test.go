package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/mailista/contact-manager/api/internal/dto"
	"github.com/mailista/contact-manager/api/internal/entity"
	"github.com/mailista/contact-manager/api/internal/middleware"
	"github.com/mailista/contact-manager/api/internal/repository"
)

type stubUsersRepo struct {
	findByEmail func(ctx context.Context, email string) (*entity.User, error)
	findByID    func(ctx context.Context, id uuid.UUID) (*entity.User, error)
	create      func(ctx context.Context, email, passwordHash, role string) (*entity.User, error)
}

func (s *stubUsersRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	if s.findByEmail != nil {
		return s.findByEmail(ctx, email)
	}
	return nil, errors.New("not implemented")
}

func (s *stubUsersRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	if s.findByID != nil {
		return s.findByID(ctx, id)
	}
	return nil, errors.New("not implemented")
}

func (s *stubUsersRepo) Create(ctx context.Context, email, passwordHash, role string) (*entity.User, error) {
	if s.create != nil {
		return s.create(ctx, email, passwordHash, role)
	}
	return nil, errors.New("not implemented")
}

type stubContactsRepo struct {
	list               func(ctx context.Context, userID uuid.UUID, filter dto.ContactFilter) ([]entity.Contact, error)
	count              func(ctx context.Context, userID uuid.UUID, filter dto.ContactFilter) (int, error)
	page               func(ctx context.Context, userID uuid.UUID, filter dto.ContactFilter, offset, limit int) ([]entity.Contact, error)
	bulkUpsert         func(ctx context.Context, userID uuid.UUID, records []repository.ContactUpsertInput) (repository.BulkUpsertResult, error)
	update             func(ctx context.Context, userID, id uuid.UUID, input dto.UpdateContactRequest) (*entity.Contact, error)
	deleteFn           func(ctx context.Context, userID, id uuid.UUID) error
	idsMatching        func(ctx context.Context, userID uuid.UUID, filter dto.ContactFilter) ([]uuid.UUID, error)
	bulkUpdate         func(ctx context.Context, userID uuid.UUID, ids []uuid.UUID, fields dto.BulkContactFields) (int, error)
	bulkDelete         func(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (int, error)
	distinctAttributes func(ctx context.Context, userID uuid.UUID, scope dto.AttributeScope) (dto.AttributeOptions, error)
}

// List mirrors the pgx repository: when no list stub is set it derives the
// offset from the filter and delegates to the page stub.
func (s *stubContactsRepo) List(ctx context.Context, userID uuid.UUID, filter dto.ContactFilter) ([]entity.Contact, error) {
	if s.list != nil {
		return s.list(ctx, userID, filter)
	}
	if s.page != nil {
		offset := (filter.Page - 1) * filter.PerPage
		if offset < 0 {
			offset = 0
		}
		return s.page(ctx, userID, filter, offset, filter.PerPage)
	}
	return nil, errors.New("not implemented")
}

func (s *stubContactsRepo) Count(ctx context.Context, userID uuid.UUID, filter dto.ContactFilter) (int, error) {
	if s.count != nil {
		return s.count(ctx, userID, filter)
	}
	return 0, errors.New("not implemented")
}

func (s *stubContactsRepo) Page(ctx context.Context, userID uuid.UUID, filter dto.ContactFilter, offset, limit int) ([]entity.Contact, error) {
	if s.page != nil {
		return s.page(ctx, userID, filter, offset, limit)
	}
	return nil, errors.New("not implemented")
}

func (s *stubContactsRepo) BulkUpsert(ctx context.Context, userID uuid.UUID, records []repository.ContactUpsertInput) (repository.BulkUpsertResult, error) {
	if s.bulkUpsert != nil {
		return s.bulkUpsert(ctx, userID, records)
	}
	return repository.BulkUpsertResult{}, errors.New("not implemented")
}

func (s *stubContactsRepo) Update(ctx context.Context, userID, id uuid.UUID, input dto.UpdateContactRequest) (*entity.Contact, error) {
	if s.update != nil {
		return s.update(ctx, userID, id, input)
	}
	return nil, errors.New("not implemented")
}

func (s *stubContactsRepo) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if s.deleteFn != nil {
		return s.deleteFn(ctx, userID, id)
	}
	return errors.New("not implemented")
}

func (s *stubContactsRepo) IDsMatching(ctx context.Context, userID uuid.UUID, filter dto.ContactFilter) ([]uuid.UUID, error) {
	if s.idsMatching != nil {
		return s.idsMatching(ctx, userID, filter)
	}
	return nil, errors.New("not implemented")
}

func (s *stubContactsRepo) BulkUpdate(ctx context.Context, userID uuid.UUID, ids []uuid.UUID, fields dto.BulkContactFields) (int, error) {
	if s.bulkUpdate != nil {
		return s.bulkUpdate(ctx, userID, ids, fields)
	}
	return 0, errors.New("not implemented")
}

func (s *stubContactsRepo) BulkDelete(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (int, error) {
	if s.bulkDelete != nil {
		return s.bulkDelete(ctx, userID, ids)
	}
	return 0, errors.New("not implemented")
}

func (s *stubContactsRepo) DistinctAttributes(ctx context.Context, userID uuid.UUID, scope dto.AttributeScope) (dto.AttributeOptions, error) {
	if s.distinctAttributes != nil {
		return s.distinctAttributes(ctx, userID, scope)
	}
	return dto.AttributeOptions{}, errors.New("not implemented")
}

type stubOptOutRepo struct {
	listAll  func(ctx context.Context, userID uuid.UUID) ([]entity.OptOutEntry, error)
	sample   func(ctx context.Context, userID uuid.UUID, limit int) ([]entity.OptOutEntry, error)
	countFn  func(ctx context.Context, userID uuid.UUID) (int, error)
	add      func(ctx context.Context, userID uuid.UUID, value, kind string) (*entity.OptOutEntry, error)
	bulkAdd  func(ctx context.Context, userID uuid.UUID, entries []entity.OptOutEntry) (int, error)
	removeFn func(ctx context.Context, userID, id uuid.UUID) error
}

func (s *stubOptOutRepo) ListAll(ctx context.Context, userID uuid.UUID) ([]entity.OptOutEntry, error) {
	if s.listAll != nil {
		return s.listAll(ctx, userID)
	}
	return nil, nil
}

func (s *stubOptOutRepo) Sample(ctx context.Context, userID uuid.UUID, limit int) ([]entity.OptOutEntry, error) {
	if s.sample != nil {
		return s.sample(ctx, userID, limit)
	}
	return nil, errors.New("not implemented")
}

func (s *stubOptOutRepo) Count(ctx context.Context, userID uuid.UUID) (int, error) {
	if s.countFn != nil {
		return s.countFn(ctx, userID)
	}
	return 0, errors.New("not implemented")
}

func (s *stubOptOutRepo) Add(ctx context.Context, userID uuid.UUID, value, kind string) (*entity.OptOutEntry, error) {
	if s.add != nil {
		return s.add(ctx, userID, value, kind)
	}
	return nil, errors.New("not implemented")
}

func (s *stubOptOutRepo) BulkAdd(ctx context.Context, userID uuid.UUID, entries []entity.OptOutEntry) (int, error) {
	if s.bulkAdd != nil {
		return s.bulkAdd(ctx, userID, entries)
	}
	return 0, errors.New("not implemented")
}

func (s *stubOptOutRepo) Remove(ctx context.Context, userID, id uuid.UUID) error {
	if s.removeFn != nil {
		return s.removeFn(ctx, userID, id)
	}
	return errors.New("not implemented")
}

// authedContext builds an echo context carrying an authenticated user, the
// same way the JWT middleware would.
func authedContext(t *testing.T, e *echo.Echo, req *http.Request, rec *httptest.ResponseRecorder, userID uuid.UUID) echo.Context {
	t.Helper()
	c := e.NewContext(req, rec)
	c.Set(middleware.ContextKeyUserID, userID.String())
	return c
}
