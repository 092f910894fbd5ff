// Package paystack talks to the Paystack REST API.
package paystack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"wallet-ledger/config"
	"wallet-ledger/internal/core/domain"

	"github.com/rs/zerolog"
)

// HTTPClient interface for testability.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// maxBody caps how much of a response is read.
const maxBody = 1 << 20

// Client implements ports.ProcessorClient.
type Client struct {
	baseURL   string
	secretKey string
	http      HTTPClient
	log       zerolog.Logger
}

// NewClient builds a client for cfg. A nil httpClient gets one with
// cfg.Timeout.
func NewClient(cfg config.PaystackConfig, httpClient HTTPClient, log zerolog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	base := cfg.BaseURL
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return &Client{
		baseURL:   base,
		secretKey: cfg.SecretKey,
		http:      httpClient,
		log:       log,
	}
}

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// InitializeTransaction opens a checkout session for req and returns the
// page the customer pays on.
func (c *Client) InitializeTransaction(ctx context.Context, req domain.CheckoutRequest) (*domain.Checkout, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode initialize request: %w", err)
	}

	var out domain.Checkout
	if err := c.call(ctx, http.MethodPost, "transaction/initialize", req.Reference, body, &out); err != nil {
		return nil, err
	}
	if out.AuthorizationURL == "" {
		return nil, fmt.Errorf("paystack initialize %s: no authorization url", req.Reference)
	}
	if out.Reference == "" {
		out.Reference = req.Reference
	}
	return &out, nil
}

// VerifyTransaction fetches the processor's view of reference. The returned
// data carries the processor's own status ("success", "failed", "abandoned").
func (c *Client) VerifyTransaction(ctx context.Context, reference string) (*domain.ProcessorEventData, error) {
	var out domain.ProcessorEventData
	if err := c.call(ctx, http.MethodGet, "transaction/verify/"+url.PathEscape(reference), reference, nil, &out); err != nil {
		return nil, err
	}
	if out.Reference == "" {
		out.Reference = reference
	}
	return &out, nil
}

// call sends one authorized request and decodes the envelope's data into out.
func (c *Client) call(ctx context.Context, method, path, reference string, body []byte, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build %s request: %w", path, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("paystack %s %s: %w", path, reference, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return fmt.Errorf("read %s response: %w", path, err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("decode %s response (status %d): %w", path, resp.StatusCode, err)
	}

	if resp.StatusCode >= 300 || !env.Status {
		c.log.Warn().
			Str("path", path).
			Str("reference", reference).
			Int("status_code", resp.StatusCode).
			Str("message", env.Message).
			Msg("paystack request rejected")
		return fmt.Errorf("paystack %s %s: %s", path, reference, env.Message)
	}

	if len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode %s data: %w", path, err)
	}
	return nil
}
