package razorpay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"time"

	"github.com/polkiloo/aiblend-payments/internal/domain/model"
)

const defaultTimeout = 10 * time.Second

// GatewayError is returned for non-2xx gateway responses.
type GatewayError struct {
	StatusCode  int
	Code        string
	Description string
}

func (e *GatewayError) Error() string {
	if e.Description != "" {
		return e.Description
	}
	return fmt.Sprintf("payment gateway error: status %d", e.StatusCode)
}

// Client exposes operations on the payment gateway.
type Client interface {
	CreateOrder(ctx context.Context, req model.OrderRequest) (*model.Order, error)
}

// HTTPClient implements Client over the gateway REST API.
type HTTPClient struct {
	baseURL    *url.URL
	keyID      string
	keySecret  string
	httpClient *http.Client
	logger     *slog.Logger
}

type errorResponse struct {
	Error struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error"`
}

// NewHTTPClient creates gateway client authenticating with key id and secret.
func NewHTTPClient(baseURL, keyID, keySecret string, timeout time.Duration, logger *slog.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse gateway url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("gateway url must be absolute")
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &HTTPClient{
		baseURL:   parsed,
		keyID:     keyID,
		keySecret: keySecret,
		logger:    logger,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

// CreateOrder registers a remote order.
func (c *HTTPClient) CreateOrder(ctx context.Context, order model.OrderRequest) (*model.Order, error) {
	endpoint := *c.baseURL
	endpoint.Path = path.Join(endpoint.Path, "/v1/orders")

	payload, err := json.Marshal(order)
	if err != nil {
		return nil, fmt.Errorf("encode order request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(c.keyID, c.keySecret)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read gateway response: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		gwErr := &GatewayError{StatusCode: resp.StatusCode}
		var data errorResponse
		if json.Unmarshal(body, &data) == nil {
			gwErr.Code = data.Error.Code
			gwErr.Description = data.Error.Description
		}
		c.logger.Error("gateway request failed",
			slog.Int("status", resp.StatusCode),
			slog.String("code", gwErr.Code),
			slog.String("description", gwErr.Description),
		)
		return nil, gwErr
	}

	var result model.Order
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("decode order: %w", err)
	}
	return &result, nil
}
