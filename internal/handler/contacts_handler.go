package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/mailista/contact-manager/api/internal/dto"
	"github.com/mailista/contact-manager/api/internal/repository"
	"github.com/mailista/contact-manager/api/internal/service"
)

// ContactsHandler exposes the contact base endpoints.
type ContactsHandler struct {
	service *service.ContactsService
}

// NewContactsHandler creates a new handler instance.
func NewContactsHandler(service *service.ContactsService) *ContactsHandler {
	return &ContactsHandler{service: service}
}

// List handles GET /contacts requests.
func (h *ContactsHandler) List(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return Error(c, http.StatusUnauthorized, "unauthorized")
	}

	filter := filterFromQuery(c)
	page, err := h.service.List(c.Request().Context(), userID, filter)
	if err != nil {
		return Error(c, http.StatusInternalServerError, "failed to list contacts")
	}

	return Success(c, http.StatusOK, "contacts retrieved", page)
}

// Update handles PUT /contacts/:id requests.
func (h *ContactsHandler) Update(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return Error(c, http.StatusUnauthorized, "unauthorized")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return Error(c, http.StatusBadRequest, "invalid contact id")
	}

	var req dto.UpdateContactRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}

	contact, err := h.service.Update(c.Request().Context(), userID, id, req)
	if err != nil {
		if errors.Is(err, repository.ErrContactNotFound) {
			return Error(c, http.StatusNotFound, "contact not found")
		}
		return Error(c, http.StatusInternalServerError, "failed to update contact")
	}

	return Success(c, http.StatusOK, "contact updated", contact)
}

// Delete handles DELETE /contacts/:id requests.
func (h *ContactsHandler) Delete(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return Error(c, http.StatusUnauthorized, "unauthorized")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return Error(c, http.StatusBadRequest, "invalid contact id")
	}

	if err := h.service.Delete(c.Request().Context(), userID, id); err != nil {
		if errors.Is(err, repository.ErrContactNotFound) {
			return Error(c, http.StatusNotFound, "contact not found")
		}
		return Error(c, http.StatusInternalServerError, "failed to delete contact")
	}

	return Success(c, http.StatusOK, "contact deleted", nil)
}

// BulkUpdate handles POST /contacts/bulk-update requests.
func (h *ContactsHandler) BulkUpdate(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return Error(c, http.StatusUnauthorized, "unauthorized")
	}

	var req dto.BulkUpdateRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}
	if len(req.IDs) == 0 && !req.ApplyToFilter {
		return Error(c, http.StatusBadRequest, "no contacts selected")
	}

	updated, err := h.service.BulkUpdate(c.Request().Context(), userID, req)
	if err != nil {
		return Error(c, http.StatusInternalServerError, "bulk update failed")
	}

	return Success(c, http.StatusOK, "contacts updated", map[string]int{"updated": updated})
}

// BulkDelete handles POST /contacts/bulk-delete requests.
func (h *ContactsHandler) BulkDelete(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return Error(c, http.StatusUnauthorized, "unauthorized")
	}

	var req dto.BulkDeleteRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}
	if len(req.IDs) == 0 && !req.ApplyToFilter {
		return Error(c, http.StatusBadRequest, "no contacts selected")
	}

	deleted, err := h.service.BulkDelete(c.Request().Context(), userID, req)
	if err != nil {
		return Error(c, http.StatusInternalServerError, "bulk delete failed")
	}

	return Success(c, http.StatusOK, "contacts deleted", map[string]int{"deleted": deleted})
}

// Export handles GET /contacts/export requests and streams the filtered base
// as a CSV download.
func (h *ContactsHandler) Export(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return Error(c, http.StatusUnauthorized, "unauthorized")
	}

	data, err := h.service.Export(c.Request().Context(), userID, filterFromQuery(c))
	if err != nil {
		return Error(c, http.StatusInternalServerError, "export failed")
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="contacts.csv"`)
	return c.Blob(http.StatusOK, "text/csv; charset=utf-8", data)
}

// Attributes handles GET /contacts/attributes requests, returning distinct
// filter values optionally narrowed by country and state.
func (h *ContactsHandler) Attributes(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return Error(c, http.StatusUnauthorized, "unauthorized")
	}

	scope := dto.AttributeScope{
		Country: strings.TrimSpace(c.QueryParam("country")),
		State:   strings.TrimSpace(c.QueryParam("state")),
	}

	options, err := h.service.Attributes(c.Request().Context(), userID, scope)
	if err != nil {
		return Error(c, http.StatusInternalServerError, "failed to load attributes")
	}

	return Success(c, http.StatusOK, "attributes retrieved", options)
}

func filterFromQuery(c echo.Context) dto.ContactFilter {
	return dto.ContactFilter{
		Search:     strings.TrimSpace(c.QueryParam("search")),
		Country:    strings.TrimSpace(c.QueryParam("country")),
		State:      strings.TrimSpace(c.QueryParam("state")),
		City:       strings.TrimSpace(c.QueryParam("city")),
		Profession: strings.TrimSpace(c.QueryParam("profession")),
		Branch:     strings.TrimSpace(c.QueryParam("branch")),
		Phone:      strings.TrimSpace(c.QueryParam("phone")),
		Page:       parseIntDefault(c.QueryParam("page"), 1),
		PerPage:    parseIntDefault(c.QueryParam("per_page"), 20),
	}
}

func parseIntDefault(input string, fallback int) int {
	if input == "" {
		return fallback
	}
	if value, err := strconv.Atoi(input); err == nil {
		return value
	}
	return fallback
}
