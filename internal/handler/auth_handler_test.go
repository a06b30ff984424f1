package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/mailista/contact-manager/api/internal/auth"
	"github.com/mailista/contact-manager/api/internal/entity"
	"github.com/mailista/contact-manager/api/internal/repository"
	"github.com/mailista/contact-manager/api/internal/service"
)

func newAuthHandler(t *testing.T, repo repository.UsersRepository) *AuthHandler {
	t.Helper()
	jwtManager := auth.NewJWTManager("test-secret", 0)
	service := service.NewAuthService(repo, jwtManager)
	return NewAuthHandler(service)
}

func TestAuthHandler_Login(t *testing.T) {
	e := echo.New()
	hashed, _ := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.DefaultCost)

	t.Run("invalid payload", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewBufferString("{"))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		handler := newAuthHandler(t, &stubUsersRepo{})
		_ = handler.Login(c)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("missing fields", func(t *testing.T) {
		body, _ := json.Marshal(map[string]string{"email": " ", "password": ""})
		req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		handler := newAuthHandler(t, &stubUsersRepo{})
		_ = handler.Login(c)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("invalid credentials", func(t *testing.T) {
		body, _ := json.Marshal(map[string]string{"email": "user@example.com", "password": "wrong"})
		req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		handler := newAuthHandler(t, &stubUsersRepo{
			findByEmail: func(ctx context.Context, email string) (*entity.User, error) {
				return &entity.User{ID: uuid.New(), Email: email, PasswordHash: string(hashed), Role: "user"}, nil
			},
		})

		_ = handler.Login(c)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("unexpected error", func(t *testing.T) {
		body, _ := json.Marshal(map[string]string{"email": "user@example.com", "password": "secret"})
		req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		handler := newAuthHandler(t, &stubUsersRepo{
			findByEmail: func(ctx context.Context, email string) (*entity.User, error) {
				return nil, errors.New("db down")
			},
		})

		_ = handler.Login(c)
		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", rec.Code)
		}
	})

	t.Run("success", func(t *testing.T) {
		body, _ := json.Marshal(map[string]string{"email": "user@example.com", "password": "secret"})
		req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		handler := newAuthHandler(t, &stubUsersRepo{
			findByEmail: func(ctx context.Context, email string) (*entity.User, error) {
				return &entity.User{ID: uuid.New(), Email: email, PasswordHash: string(hashed), Role: "user"}, nil
			},
		})

		_ = handler.Login(c)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}

		var payload APIResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		data, ok := payload.Data.(map[string]any)
		if !ok || data["access_token"] == "" {
			t.Fatalf("expected access token in response, got %+v", payload)
		}
	})
}
