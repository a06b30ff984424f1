package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mailista/contact-manager/api/internal/dto"
	"github.com/mailista/contact-manager/api/internal/pipeline"
	"github.com/mailista/contact-manager/api/internal/service"
)

// ImportHandler exposes the upload screening and extraction endpoints.
type ImportHandler struct {
	imports *service.ImportService
}

// NewImportHandler creates a new handler instance.
func NewImportHandler(imports *service.ImportService) *ImportHandler {
	return &ImportHandler{imports: imports}
}

// Preview handles POST /import/preview requests.
func (h *ImportHandler) Preview(c echo.Context) error {
	var req dto.PreviewRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}

	resp, err := h.imports.Preview(c.Request().Context(), req.Content)
	if err != nil {
		if errors.Is(err, pipeline.ErrEmptyInput) {
			return Error(c, http.StatusBadRequest, "file is empty")
		}
		return Error(c, http.StatusBadRequest, "could not parse file")
	}

	return Success(c, http.StatusOK, "preview generated", resp)
}

// Import handles POST /import requests. A persistence failure mid-batch still
// returns the counts accumulated before the abort.
func (h *ImportHandler) Import(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return Error(c, http.StatusUnauthorized, "unauthorized")
	}

	var req dto.ImportRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}

	report, err := h.imports.Import(c.Request().Context(), userID, req)
	if err != nil {
		switch {
		case errors.Is(err, pipeline.ErrEmptyInput):
			return Error(c, http.StatusBadRequest, "file is empty")
		case errors.Is(err, pipeline.ErrEmailNotMapped):
			return Error(c, http.StatusBadRequest, "no column is mapped to email")
		default:
			return c.JSON(http.StatusInternalServerError, APIResponse{Status: "error", Message: "import aborted", Data: report})
		}
	}

	return Success(c, http.StatusOK, "import completed", report)
}

// ImportRecords handles POST /import/records requests for already extracted
// batches.
func (h *ImportHandler) ImportRecords(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return Error(c, http.StatusUnauthorized, "unauthorized")
	}

	var req dto.ImportRecordsRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}
	if len(req.Records) == 0 {
		return Error(c, http.StatusBadRequest, "no records provided")
	}

	report, err := h.imports.ImportRecords(c.Request().Context(), userID, req)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, APIResponse{Status: "error", Message: "import aborted", Data: report})
	}

	return Success(c, http.StatusOK, "records imported", report)
}

// Enrich handles POST /enrich requests.
func (h *ImportHandler) Enrich(c echo.Context) error {
	var req dto.EnrichRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}

	resp, err := h.imports.Enrich(c.Request().Context(), req.Content, req.Mapping)
	if err != nil {
		switch {
		case errors.Is(err, pipeline.ErrEmptyInput):
			return Error(c, http.StatusBadRequest, "file is empty")
		case errors.Is(err, pipeline.ErrEmailNotMapped):
			return Error(c, http.StatusBadRequest, "no column is mapped to email")
		default:
			return Error(c, http.StatusBadRequest, "could not parse file")
		}
	}

	return Success(c, http.StatusOK, "enrichment completed", resp)
}

// Extract handles POST /extract requests for headerless positional lists.
func (h *ImportHandler) Extract(c echo.Context) error {
	var req dto.ExtractRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}

	resp, err := h.imports.Extract(c.Request().Context(), req)
	if err != nil {
		if errors.Is(err, pipeline.ErrEmptyInput) {
			return Error(c, http.StatusBadRequest, "file is empty")
		}
		return Error(c, http.StatusBadRequest, "could not parse file")
	}

	return Success(c, http.StatusOK, "extraction completed", resp)
}

// ExtractExport handles POST /extract/export requests and streams the records
// back as a semicolon-delimited download.
func (h *ImportHandler) ExtractExport(c echo.Context) error {
	var req dto.ExtractExportRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}
	if len(req.Records) == 0 {
		return Error(c, http.StatusBadRequest, "no records provided")
	}

	data := h.imports.ExtractExport(req.Records)
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="extracted.csv"`)
	return c.Blob(http.StatusOK, "text/csv; charset=utf-8", data)
}
