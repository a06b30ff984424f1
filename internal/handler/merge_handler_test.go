package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/mailista/contact-manager/api/internal/dto"
	"github.com/mailista/contact-manager/api/internal/pipeline"
	"github.com/mailista/contact-manager/api/internal/repository"
	"github.com/mailista/contact-manager/api/internal/service"
)

func newMergeHandler(repo repository.OptOutRepository) *MergeHandler {
	classifier := pipeline.NewClassifier(pipeline.DefaultLexicon())
	return NewMergeHandler(service.NewMergeService(repo, classifier, 0))
}

func TestMergeHandler_Merge(t *testing.T) {
	e := echo.New()
	userID := uuid.New()

	t.Run("no lists", func(t *testing.T) {
		body, _ := json.Marshal(dto.MergeRequest{})
		req := httptest.NewRequest(http.MethodPost, "/merge", bytes.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		c := authedContext(t, e, req, rec, userID)

		_ = newMergeHandler(&stubOptOutRepo{}).Merge(c)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("success", func(t *testing.T) {
		body, _ := json.Marshal(dto.MergeRequest{
			Contents: []string{
				"a@x.com;Ana\nb@y.com;Bia\n",
				"a@x.com;Ana\n",
			},
			Options: dto.MergeOptions{RemoveDuplicates: true},
		})
		req := httptest.NewRequest(http.MethodPost, "/merge", bytes.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		c := authedContext(t, e, req, rec, userID)

		_ = newMergeHandler(&stubOptOutRepo{}).Merge(c)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), `"kept":2`) || !strings.Contains(rec.Body.String(), `"duplicates":1`) {
			t.Fatalf("unexpected report: %s", rec.Body.String())
		}
		if !strings.Contains(rec.Body.String(), "merged_part_01.csv") {
			t.Fatalf("expected output part: %s", rec.Body.String())
		}
	})
}
