package inventory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/mamadbah2/clinicstock/internal/config"
	"github.com/mamadbah2/clinicstock/internal/domain/models"
)

const (
	getInventoryPath   = "inventory/getInventory.php"
	updateQuantityPath = "inventory/updateQuantityById.php"
)

// ErrUnexpectedStatus is returned for any non-2xx response.
var ErrUnexpectedStatus = errors.New("unexpected status from inventory api")

// Client exposes the two inventory endpoints used by the screen.
type Client interface {
	GetInventory(ctx context.Context) ([]models.MedicineRecord, error)
	UpdateQuantity(ctx context.Context, req models.UpdateQuantityRequest) error
}

// APIClient is a resty-backed implementation of Client.
type APIClient struct {
	httpClient *resty.Client
	logger     *zap.Logger
}

// NewClient builds an inventory API client using the provided configuration values.
func NewClient(cfg config.InventoryAPIConfig, logger *zap.Logger) *APIClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	base := strings.TrimSuffix(cfg.BaseURL, "/")
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	restyClient := resty.New()
	restyClient.
		SetBaseURL(base).
		SetHeader("Accept", "application/json").
		SetHeader("Content-Type", "application/json").
		SetTimeout(timeout)

	return &APIClient{httpClient: restyClient, logger: logger}
}

type inventoryEnvelope struct {
	Data []json.RawMessage `json:"data"`
}

// GetInventory reads the full inventory and returns normalized records in
// server order. Unreadable items or fields are logged, not fatal. The PHP
// backend does not always send a JSON content type, so the body is decoded
// here rather than through SetResult.
func (c *APIClient) GetInventory(ctx context.Context) ([]models.MedicineRecord, error) {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		Get(getInventoryPath)
	if err != nil {
		return nil, fmt.Errorf("get inventory: %w", err)
	}

	if !resp.IsSuccess() {
		return nil, fmt.Errorf("get inventory: %w: status=%d", ErrUnexpectedStatus, resp.StatusCode())
	}

	var envelope inventoryEnvelope
	if err := json.Unmarshal(resp.Body(), &envelope); err != nil {
		return nil, fmt.Errorf("decode inventory response: %w", err)
	}

	return models.NormalizeRecords(envelope.Data, c.logger), nil
}

// UpdateQuantity posts the stocked increment. Any 2xx is success and the
// response body is ignored.
func (c *APIClient) UpdateQuantity(ctx context.Context, req models.UpdateQuantityRequest) error {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(req).
		Post(updateQuantityPath)
	if err != nil {
		return fmt.Errorf("update quantity of %s: %w", req.Data.ID, err)
	}

	if resp.StatusCode() < http.StatusOK || resp.StatusCode() >= http.StatusMultipleChoices {
		return fmt.Errorf("update quantity of %s: %w: status=%d", req.Data.ID, ErrUnexpectedStatus, resp.StatusCode())
	}

	return nil
}
