// Package facilitator implements the client side of the x402 facilitator
// API: the two-phase verify/settle exchange with a remote settlement service.
package facilitator

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	log "github.com/sirupsen/logrus"

	"github.com/stark402/x402-cli/internal/x402"
)

// defaultTimeout bounds each facilitator call. Settlement moves funds
// on-chain on the facilitator's side, so it gets a generous bound.
const defaultTimeout = 60 * time.Second

// request is the JSON body both endpoints consume.
type request struct {
	X402Version         int                      `json:"x402Version"`
	PaymentHeader       string                   `json:"paymentHeader"`
	PaymentRequirements x402.PaymentRequirements `json:"paymentRequirements"`
}

// Client talks to one facilitator service. Both operations are single-shot:
// retrying a settle could double-spend, so the orchestrator decides what to
// do with a failure.
type Client struct {
	baseURL string
	http    *resty.Client
}

// Option configures the Client.
type Option func(*Client)

// WithTimeout sets the per-call timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.http.SetTimeout(timeout)
	}
}

// WithHTTPClient replaces the underlying HTTP client (used by tests).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = resty.NewWithClient(hc)
	}
}

// New creates a facilitator client for the given base URL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		http:    resty.New().SetTimeout(defaultTimeout),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the facilitator base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Verify asks the facilitator to validate a signed payment without settling
// it. The returned result is pass-through; the caller interprets isValid.
func (c *Client) Verify(ctx context.Context, paymentHeader string, requirements x402.PaymentRequirements) (*x402.VerificationResult, error) {
	var result x402.VerificationResult
	if err := c.post(ctx, "/verify", paymentHeader, requirements, &result); err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{
		"is_valid":       result.IsValid,
		"invalid_reason": result.InvalidReason,
	}).Debug("facilitator verify completed")
	return &result, nil
}

// Settle asks the facilitator to execute the payment on-chain. A success
// response is trusted as-is: the client has no way to confirm finality
// beyond the facilitator's word.
func (c *Client) Settle(ctx context.Context, paymentHeader string, requirements x402.PaymentRequirements) (*x402.SettlementResult, error) {
	var result x402.SettlementResult
	if err := c.post(ctx, "/settle", paymentHeader, requirements, &result); err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{
		"success": result.Success,
		"tx_hash": result.TxHash,
	}).Debug("facilitator settle completed")
	return &result, nil
}

// post sends one JSON request and decodes the response into out.
func (c *Client) post(ctx context.Context, path, paymentHeader string, requirements x402.PaymentRequirements, out interface{}) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(request{
			X402Version:         x402.X402Version,
			PaymentHeader:       paymentHeader,
			PaymentRequirements: requirements,
		}).
		Post(c.baseURL + path)
	if err != nil {
		return fmt.Errorf("%w: facilitator %s: %v", x402.ErrTransport, path, err)
	}

	if resp.StatusCode() != http.StatusOK {
		return fmt.Errorf("facilitator %s returned %d: %s", path, resp.StatusCode(), errorReason(resp.Body()))
	}

	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("decoding facilitator %s response: %w", path, err)
	}
	return nil
}

// errorReason pulls a human-readable reason out of an error body, falling
// back to the raw body when it is short enough to be useful.
func errorReason(body []byte) string {
	var parsed map[string]interface{}
	if err := json.Unmarshal(body, &parsed); err == nil {
		for _, key := range []string{"invalidReason", "error", "message"} {
			if reason, ok := parsed[key].(string); ok && reason != "" {
				return reason
			}
		}
	}
	if len(body) > 0 && len(body) < 500 {
		return string(body)
	}
	return "no error detail"
}
