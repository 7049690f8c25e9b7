// Package gateway implements the Clover REST client together with the
// retry controller that governs every outbound call.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jskrn-1911/clover-backend/internal/core/checkout"
	"github.com/jskrn-1911/clover-backend/internal/infra/dispatch"
)

// DefaultBaseURL is the Clover sandbox environment.
const DefaultBaseURL = "https://apisandbox.dev.clover.com"

const checkoutSessionPath = "/invoicingcheckoutservice/v1/checkouts"

// ErrMissingCredentials indicates the API token or merchant ID is not
// configured. It is checked before any network activity.
var ErrMissingCredentials = errors.New("gateway: api token and merchant id are required")

// Config holds Clover API connection settings. Token and merchant ID
// normally come from the environment via the config loader.
type Config struct {
	BaseURL    string `yaml:"base_url"`
	APIToken   string `yaml:"api_token"`
	MerchantID string `yaml:"merchant_id"`
}

// Merchant is the merchant-info probe response.
type Merchant struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CheckoutSession is the hosted checkout session created by the gateway.
// Href is the redirect URL for the customer.
type CheckoutSession struct {
	ID          string `json:"id"`
	Href        string `json:"href"`
	CreatedTime int64  `json:"createdTime"`
}

// Client calls the Clover REST API. All calls go through the dispatcher
// and the retry controller.
type Client struct {
	cfg    Config
	policy Policy
	disp   *dispatch.Dispatcher
	http   *http.Client
	logger *slog.Logger
}

// NewClient creates a gateway client. Missing credentials are not an
// error here: they are reported per call so the handler can surface a
// configuration error without the process refusing to start.
func NewClient(cfg Config, policy Policy, disp *dispatch.Dispatcher, logger *slog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if policy.MaxDelay <= 0 {
		policy = DefaultPolicy
	}
	return &Client{
		cfg:    cfg,
		policy: policy,
		disp:   disp,
		http: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		logger: logger,
	}
}

// MerchantInfo probes gateway connectivity and credentials.
func (c *Client) MerchantInfo(ctx context.Context) (Merchant, error) {
	if err := c.checkCredentials(); err != nil {
		return Merchant{}, err
	}

	return dispatch.Run(ctx, c.disp, func(ctx context.Context) (Merchant, error) {
		return do[Merchant](ctx, c, "merchant_info", c.policy, func(requestID string) (*http.Request, error) {
			url := c.cfg.BaseURL + "/v3/merchants/" + c.cfg.MerchantID
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
			if err != nil {
				return nil, err
			}
			c.setHeaders(req, requestID)
			return req, nil
		})
	})
}

// CreateCheckoutSession creates a hosted checkout session. The
// idempotency key is stable across attempts of this logical call so the
// gateway can deduplicate retried POSTs.
func (c *Client) CreateCheckoutSession(ctx context.Context, payload checkout.SessionPayload, idempotencyKey string) (CheckoutSession, error) {
	if err := c.checkCredentials(); err != nil {
		return CheckoutSession{}, err
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return CheckoutSession{}, fmt.Errorf("marshal session payload: %w", err)
	}

	return dispatch.Run(ctx, c.disp, func(ctx context.Context) (CheckoutSession, error) {
		return do[CheckoutSession](ctx, c, "create_checkout", c.policy, func(requestID string) (*http.Request, error) {
			url := c.cfg.BaseURL + checkoutSessionPath
			req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
			if err != nil {
				return nil, err
			}
			c.setHeaders(req, requestID)
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("X-Idempotency-Key", idempotencyKey)
			return req, nil
		})
	})
}

func (c *Client) checkCredentials() error {
	if c.cfg.APIToken == "" || c.cfg.MerchantID == "" {
		return ErrMissingCredentials
	}
	return nil
}

func (c *Client) setHeaders(req *http.Request, requestID string) {
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIToken)
	req.Header.Set("X-Clover-Merchant-Id", c.cfg.MerchantID)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", requestID)
}
