package handler

import (
	"errors"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/mailista/contact-manager/api/internal/middleware"
)

var errNoUser = errors.New("no authenticated user in context")

// currentUserID resolves the authenticated user from the request context.
func currentUserID(c echo.Context) (uuid.UUID, error) {
	raw, ok := c.Get(middleware.ContextKeyUserID).(string)
	if !ok || raw == "" {
		return uuid.Nil, errNoUser
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, errNoUser
	}
	return id, nil
}
