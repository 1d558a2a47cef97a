package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const idempotencyHeader = "Idempotency-Key"

// Client implements Ledger against the escrow provider's REST API.
type Client struct {
	baseURL  string
	http     *http.Client
	attempts int
	backoff  time.Duration
}

type ClientOption func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithRetry sets how many attempts are made per call and the pause between them.
func WithRetry(attempts int, backoff time.Duration) ClientOption {
	return func(c *Client) {
		if attempts > 0 {
			c.attempts = attempts
		}
		if backoff >= 0 {
			c.backoff = backoff
		}
	}
}

func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:  baseURL,
		http:     &http.Client{Timeout: 10 * time.Second},
		attempts: 3,
		backoff:  200 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type captureRequest struct {
	OrderID string `json:"order_id"`
	Amount  int64  `json:"amount"`
}

type captureResponse struct {
	EscrowRef string `json:"escrow_ref"`
}

type settleRequest struct {
	EscrowRef string `json:"escrow_ref"`
}

func (c *Client) Capture(ctx context.Context, idempotencyKey, orderID string, amount int64) (string, error) {
	var resp captureResponse
	err := c.post(ctx, "/escrow/captures", idempotencyKey, captureRequest{
		OrderID: orderID,
		Amount:  amount,
	}, &resp)
	if err != nil {
		return "", err
	}
	if resp.EscrowRef == "" {
		return "", fmt.Errorf("ledger capture: %w: empty escrow_ref", ErrUnavailable)
	}
	return resp.EscrowRef, nil
}

func (c *Client) Release(ctx context.Context, idempotencyKey, escrowRef string) error {
	return c.post(ctx, "/escrow/releases", idempotencyKey, settleRequest{EscrowRef: escrowRef}, nil)
}

func (c *Client) Refund(ctx context.Context, idempotencyKey, escrowRef string) error {
	return c.post(ctx, "/escrow/refunds", idempotencyKey, settleRequest{EscrowRef: escrowRef}, nil)
}

// post sends one JSON request, retrying transient failures with the same
// idempotency key. 4xx responses are not retried: they mean the ledger
// understood and rejected the instruction, which the lifecycle treats as an
// outage of the integration rather than of the ledger itself.
func (c *Client) post(ctx context.Context, path, idempotencyKey string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal ledger request: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt < c.attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.backoff):
			}
		}

		retry, err := c.once(ctx, path, idempotencyKey, payload, out)
		if err == nil {
			return nil
		}
		lastErr = err
		if !retry {
			break
		}
	}
	return lastErr
}

func (c *Client) once(ctx context.Context, path, idempotencyKey string, payload []byte, out any) (retry bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return false, fmt.Errorf("build ledger request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(idempotencyHeader, idempotencyKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return true, fmt.Errorf("ledger %s: %w: %v", path, ErrUnavailable, err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		if out == nil {
			return false, nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return false, fmt.Errorf("decode ledger response: %w: %v", ErrUnavailable, err)
		}
		return false, nil
	case resp.StatusCode >= 500:
		return true, fmt.Errorf("ledger %s: %w: status %d", path, ErrUnavailable, resp.StatusCode)
	default:
		return false, fmt.Errorf("ledger %s: %w: status %d", path, ErrUnavailable, resp.StatusCode)
	}
}
