package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mailista/contact-manager/api/internal/dto"
	"github.com/mailista/contact-manager/api/internal/service"
)

// MergeHandler exposes the list merger endpoint.
type MergeHandler struct {
	merger *service.MergeService
}

// NewMergeHandler creates a new handler instance.
func NewMergeHandler(merger *service.MergeService) *MergeHandler {
	return &MergeHandler{merger: merger}
}

// Merge handles POST /merge requests.
func (h *MergeHandler) Merge(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return Error(c, http.StatusUnauthorized, "unauthorized")
	}

	var req dto.MergeRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}
	if len(req.Contents) == 0 {
		return Error(c, http.StatusBadRequest, "no lists provided")
	}

	resp, err := h.merger.Merge(c.Request().Context(), userID, req)
	if err != nil {
		return Error(c, http.StatusInternalServerError, "merge failed")
	}

	return Success(c, http.StatusOK, "merge completed", resp)
}
