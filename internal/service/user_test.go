package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/mailista/contact-manager/api/internal/dto"
	"github.com/mailista/contact-manager/api/internal/entity"
	"github.com/mailista/contact-manager/api/internal/repository"
)

func TestUserService_CreateUser(t *testing.T) {
	var capturedReq dto.CreateUserRequest
	repo := &mockUsersRepository{
		create: func(ctx context.Context, email, passwordHash, role string) (*entity.User, error) {
			capturedReq = dto.CreateUserRequest{Email: email, Role: role, Password: passwordHash}
			return &entity.User{
				ID:           uuid.MustParse("cccccccc-cccc-cccc-cccc-cccccccccccc"),
				Email:        email,
				PasswordHash: passwordHash,
				Role:         role,
			}, nil
		},
	}

	service := NewUserService(repo)
	req := dto.CreateUserRequest{Email: "  new@example.com ", Password: "secret", Role: "  admin "}
	resp, err := service.CreateUser(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Email != "new@example.com" || resp.Role != "admin" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if capturedReq.Role != "admin" {
		t.Fatalf("expected trimmed role, got %s", capturedReq.Role)
	}

	if _, err := service.CreateUser(context.Background(), dto.CreateUserRequest{}); err == nil {
		t.Fatalf("expected validation error for empty payload")
	}

	repo.create = func(ctx context.Context, email, passwordHash, role string) (*entity.User, error) {
		return nil, repository.ErrEmailDuplicate
	}
	if _, err := service.CreateUser(context.Background(), dto.CreateUserRequest{Email: "dup@example.com", Password: "secret"}); !errors.Is(err, repository.ErrEmailDuplicate) {
		t.Fatalf("expected email duplicate error, got %v", err)
	}
}

func TestUserService_CreateUser_DefaultRole(t *testing.T) {
	repo := &mockUsersRepository{
		create: func(ctx context.Context, email, passwordHash, role string) (*entity.User, error) {
			if role != "user" {
				t.Fatalf("expected default role user, got %s", role)
			}
			return &entity.User{ID: uuid.New(), Email: email, PasswordHash: passwordHash, Role: role}, nil
		},
	}
	service := NewUserService(repo)
	if _, err := service.CreateUser(context.Background(), dto.CreateUserRequest{Email: "user@example.com", Password: "secret"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
