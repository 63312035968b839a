package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"hotelier/internal/domain/reservation"
	"hotelier/internal/pkg/config"
	"hotelier/internal/pkg/errs"
	"hotelier/internal/pkg/metrics"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	opAuthorizeOnly       = "authorize_only"
	opCaptureHold         = "capture_hold"
	opAuthorizeAndCapture = "authorize_and_capture"
)

// Client talks to the external payment gateway over HTTP. Every call carries
// a deadline, an idempotency key, and at most one retry, and only for
// transport failures -- once the gateway has answered, any answer, the call
// is final. A decline is final the moment the gateway says so.
type Client struct {
	baseURL    string
	apiKey     string
	currency   string
	httpClient *http.Client
}

func NewClient(cfg config.GatewayConfig) *Client {
	return &Client{
		baseURL:  cfg.BaseURL,
		apiKey:   cfg.APIKey,
		currency: cfg.Currency,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

type authorizationRequest struct {
	CardNumber string `json:"card_number"`
	Expiry     string `json:"expiry"`
	CVV        string `json:"cvv"`
	Holder     string `json:"holder"`
	Amount     string `json:"amount"`
	Currency   string `json:"currency"`
	Capture    bool   `json:"capture"`
}

type captureRequest struct {
	AuthorizationID string `json:"authorization_id"`
	Amount          string `json:"amount"`
	Currency        string `json:"currency"`
}

type gatewayResponse struct {
	Status          string `json:"status"`
	AuthorizationID string `json:"authorization_id,omitempty"`
	CaptureID       string `json:"capture_id,omitempty"`
	Reason          string `json:"reason,omitempty"`
}

const (
	statusApproved = "approved"
	statusDeclined = "declined"
	statusNotFound = "not_found"
)

func (c *Client) AuthorizeOnly(ctx context.Context, card reservation.CardDetails, amount decimal.Decimal) (*Hold, error) {
	req := authorizationRequest{
		CardNumber: card.Number,
		Expiry:     card.Expiry,
		CVV:        card.CVV,
		Holder:     card.Holder,
		Amount:     amount.StringFixed(2),
		Currency:   c.currency,
		Capture:    false,
	}

	resp, err := c.post(ctx, opAuthorizeOnly, "/v1/authorizations", req)
	if err != nil {
		return nil, err
	}
	return &Hold{Reference: resp.AuthorizationID}, nil
}

func (c *Client) CaptureHold(ctx context.Context, holdRef string, amount decimal.Decimal) (*Settlement, error) {
	req := captureRequest{
		AuthorizationID: holdRef,
		Amount:          amount.StringFixed(2),
		Currency:        c.currency,
	}

	resp, err := c.post(ctx, opCaptureHold, "/v1/captures", req)
	if err != nil {
		return nil, err
	}
	return &Settlement{Reference: resp.CaptureID}, nil
}

func (c *Client) AuthorizeAndCapture(ctx context.Context, card reservation.CardDetails, amount decimal.Decimal) (*Settlement, error) {
	req := authorizationRequest{
		CardNumber: card.Number,
		Expiry:     card.Expiry,
		CVV:        card.CVV,
		Holder:     card.Holder,
		Amount:     amount.StringFixed(2),
		Currency:   c.currency,
		Capture:    true,
	}

	resp, err := c.post(ctx, opAuthorizeAndCapture, "/v1/authorizations", req)
	if err != nil {
		return nil, err
	}

	ref := resp.CaptureID
	if ref == "" {
		ref = resp.AuthorizationID
	}
	return &Settlement{Reference: ref}, nil
}

func (c *Client) post(ctx context.Context, operation, path string, payload any) (*gatewayResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, errs.Wrap(err, "failed to encode gateway request")
	}

	start := time.Now()
	resp, err := c.doWithRetry(ctx, operation, path, uuid.NewString(), body)
	if err != nil {
		metrics.GatewayRequestsTotal.WithLabelValues(operation, "unreachable").Inc()
		metrics.GatewayRequestDuration.WithLabelValues(operation, "unreachable").Observe(time.Since(start).Seconds())
		return nil, errs.Mark(err, ErrUnreachable)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		metrics.GatewayRequestsTotal.WithLabelValues(operation, "unreachable").Inc()
		return nil, errs.Mark(err, ErrUnreachable)
	}

	var parsed gatewayResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		metrics.GatewayRequestsTotal.WithLabelValues(operation, "unreachable").Inc()
		return nil, errs.Mark(errs.Wrap(err, "malformed gateway response"), ErrUnreachable)
	}

	outcome, resultErr := c.classify(operation, resp.StatusCode, &parsed)
	metrics.GatewayRequestsTotal.WithLabelValues(operation, outcome).Inc()
	metrics.GatewayRequestDuration.WithLabelValues(operation, outcome).Observe(time.Since(start).Seconds())

	if resultErr != nil {
		return nil, resultErr
	}
	return &parsed, nil
}

func (c *Client) classify(operation string, statusCode int, parsed *gatewayResponse) (string, error) {
	switch {
	case statusCode == http.StatusNotFound || parsed.Status == statusNotFound:
		return "not_found", ErrHoldNotFound
	case statusCode == http.StatusPaymentRequired || parsed.Status == statusDeclined:
		reason := parsed.Reason
		if reason == "" {
			reason = "declined without reason"
		}
		return "declined", &DeclinedError{Operation: operation, Reason: reason}
	case statusCode >= 200 && statusCode < 300 && parsed.Status == statusApproved:
		return "ok", nil
	default:
		return "unreachable", errs.Mark(
			errs.New(fmt.Sprintf("unexpected gateway response: status=%d body_status=%q", statusCode, parsed.Status)),
			ErrUnreachable,
		)
	}
}

// doWithRetry issues the request and retries exactly once, only when the
// request failed in transport before the gateway answered. A response with
// any status code is final here: a 5xx may mean the charge settled before
// the gateway died, and replaying it would move funds twice. The idempotency
// key is shared across both attempts so a gateway that did record the first
// attempt deduplicates the replay.
func (c *Client) doWithRetry(ctx context.Context, operation, path, idempotencyKey string, body []byte) (*http.Response, error) {
	resp, err := c.doOnce(ctx, path, idempotencyKey, body)
	if err == nil {
		return resp, nil
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	slog.Warn("gateway transport failure, retrying once",
		"operation", operation,
		"error", err.Error(),
	)
	metrics.GatewayTransportRetriesTotal.WithLabelValues(operation).Inc()

	return c.doOnce(ctx, path, idempotencyKey, body)
}

func (c *Client) doOnce(ctx context.Context, path, idempotencyKey string, body []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Idempotency-Key", idempotencyKey)

	return c.httpClient.Do(req)
}
