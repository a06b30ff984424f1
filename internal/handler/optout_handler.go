package handler

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/mailista/contact-manager/api/internal/dto"
	"github.com/mailista/contact-manager/api/internal/repository"
	"github.com/mailista/contact-manager/api/internal/service"
)

// OptOutHandler exposes the suppression list endpoints.
type OptOutHandler struct {
	optOuts *service.OptOutService
}

// NewOptOutHandler creates a new handler instance.
func NewOptOutHandler(optOuts *service.OptOutService) *OptOutHandler {
	return &OptOutHandler{optOuts: optOuts}
}

// List handles GET /optouts requests.
func (h *OptOutHandler) List(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return Error(c, http.StatusUnauthorized, "unauthorized")
	}

	resp, err := h.optOuts.List(c.Request().Context(), userID)
	if err != nil {
		return Error(c, http.StatusInternalServerError, "failed to list opt-outs")
	}

	return Success(c, http.StatusOK, "opt-outs retrieved", resp)
}

// Add handles POST /optouts requests.
func (h *OptOutHandler) Add(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return Error(c, http.StatusUnauthorized, "unauthorized")
	}

	var req dto.AddOptOutRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}

	entry, err := h.optOuts.Add(c.Request().Context(), userID, req.Value)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidOptOutValue):
			return Error(c, http.StatusBadRequest, "value is not an email address or domain")
		case errors.Is(err, repository.ErrOptOutDuplicate):
			return Error(c, http.StatusConflict, "value is already opted out")
		default:
			return Error(c, http.StatusInternalServerError, "failed to add opt-out")
		}
	}

	return Success(c, http.StatusCreated, "opt-out added", entry)
}

// BulkAdd handles POST /optouts/bulk requests.
func (h *OptOutHandler) BulkAdd(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return Error(c, http.StatusUnauthorized, "unauthorized")
	}

	var req dto.BulkOptOutRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}

	resp, err := h.optOuts.BulkAdd(c.Request().Context(), userID, req)
	if err != nil {
		return Error(c, http.StatusInternalServerError, "failed to add opt-outs")
	}

	return Success(c, http.StatusOK, "opt-outs added", resp)
}

// Remove handles DELETE /optouts/:id requests.
func (h *OptOutHandler) Remove(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return Error(c, http.StatusUnauthorized, "unauthorized")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return Error(c, http.StatusBadRequest, "invalid opt-out id")
	}

	if err := h.optOuts.Remove(c.Request().Context(), userID, id); err != nil {
		if errors.Is(err, repository.ErrOptOutNotFound) {
			return Error(c, http.StatusNotFound, "opt-out not found")
		}
		return Error(c, http.StatusInternalServerError, "failed to remove opt-out")
	}

	return Success(c, http.StatusOK, "opt-out removed", nil)
}

// Export handles GET /optouts/export requests.
func (h *OptOutHandler) Export(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return Error(c, http.StatusUnauthorized, "unauthorized")
	}

	data, err := h.optOuts.Export(c.Request().Context(), userID)
	if err != nil {
		return Error(c, http.StatusInternalServerError, "export failed")
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="optouts.csv"`)
	return c.Blob(http.StatusOK, "text/csv; charset=utf-8", data)
}
