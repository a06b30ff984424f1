package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"google.golang.org/api/idtoken"

	"github.com/mailista/contact-manager/api/internal/pipeline"
	"github.com/mailista/contact-manager/api/internal/service"
)

// ImportNotifier posts completed batch reports to an external endpoint.
// Delivery is best effort; failures are logged and swallowed.
type ImportNotifier struct {
	client  *http.Client
	baseURL string
	logger  *zap.Logger
}

// NewImportNotifier builds a notifier, auto-configuring an ID token client
// when the target requires one. An empty base URL disables delivery.
func NewImportNotifier(client *http.Client, baseURL string, logger *zap.Logger) *ImportNotifier {
	baseURL = strings.TrimRight(baseURL, "/")
	if baseURL != "" && client == nil {
		idc, err := idtoken.NewClient(context.Background(), baseURL)
		if err != nil {
			client = &http.Client{Timeout: 10 * time.Second}
		} else {
			client = idc
		}
	}
	return &ImportNotifier{client: client, baseURL: baseURL, logger: logger}
}

// ImportCompleted announces a finished batch.
func (n *ImportNotifier) ImportCompleted(ctx context.Context, userID uuid.UUID, report pipeline.Report) {
	if n.baseURL == "" || n.client == nil {
		return
	}

	payload := map[string]any{
		"user_id":    userID.String(),
		"total":      report.Total,
		"processed":  report.Processed,
		"duplicates": report.Duplicates,
		"opt_out":    report.OptOut,
		"invalid":    report.Invalid,
		"suspicious": report.Suspicious,
		"inserted":   report.Inserted,
		"updated":    report.Updated,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.baseURL+"/notifications/import-completed", bytes.NewReader(body))
	if err != nil {
		n.logFailure(err)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		n.logFailure(err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		if n.logger != nil {
			n.logger.Warn("import notification rejected", zap.Int("status", resp.StatusCode))
		}
	}
}

func (n *ImportNotifier) logFailure(err error) {
	if n.logger != nil {
		n.logger.Warn("import notification failed", zap.Error(err))
	}
}

var _ service.Notifier = (*ImportNotifier)(nil)
