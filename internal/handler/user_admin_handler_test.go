package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/mailista/contact-manager/api/internal/entity"
	"github.com/mailista/contact-manager/api/internal/repository"
	"github.com/mailista/contact-manager/api/internal/service"
)

func newUserAdminHandler(repo repository.UsersRepository) *UserAdminHandler {
	return NewUserAdminHandler(service.NewUserService(repo))
}

func TestUserAdminHandler_Create(t *testing.T) {
	e := echo.New()

	t.Run("invalid payload", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/admin/users", bytes.NewBufferString("{"))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		_ = newUserAdminHandler(&stubUsersRepo{}).Create(c)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("duplicate email", func(t *testing.T) {
		repo := &stubUsersRepo{
			create: func(ctx context.Context, email, passwordHash, role string) (*entity.User, error) {
				return nil, repository.ErrEmailDuplicate
			},
		}

		body, _ := json.Marshal(map[string]string{"email": "user@example.com", "password": "secret"})
		req := httptest.NewRequest(http.MethodPost, "/admin/users", bytes.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		_ = newUserAdminHandler(repo).Create(c)
		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
	})

	t.Run("success", func(t *testing.T) {
		repo := &stubUsersRepo{
			create: func(ctx context.Context, email, passwordHash, role string) (*entity.User, error) {
				if role != "admin" {
					t.Fatalf("expected role to be passed through, got %q", role)
				}
				return &entity.User{ID: uuid.New(), Email: email, PasswordHash: passwordHash, Role: role}, nil
			},
		}

		body, _ := json.Marshal(map[string]string{"email": "user@example.com", "password": "secret", "role": "admin"})
		req := httptest.NewRequest(http.MethodPost, "/admin/users", bytes.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		_ = newUserAdminHandler(repo).Create(c)
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d", rec.Code)
		}
	})
}
