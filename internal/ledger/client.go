// Package ledger is the HTTP client for the claim ledger service, which mirrors
// claim state on a smart contract.
//
// Every call is a single attempt. The client sets no timeout of its own; the
// caller's context decides how long to wait.
package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/franciscosanchezn/claim-tracker-api/internal/metrics"
	"github.com/tidwall/gjson"
)

// Receipt is the ledger's answer to a recorded claim
type Receipt struct {
	Message string          `json:"message"`
	Tx      json.RawMessage `json:"tx"`
}

// Error is returned when the ledger answers with a non-2xx status
type Error struct {
	Operation  string
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("ledger %s: status %d: %s", e.Operation, e.StatusCode, e.Message)
}

// Client talks to the ledger service at BaseURL
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option customises a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// New creates a client for the ledger service at baseURL
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RecordClaim registers a claim for imei on the ledger
func (c *Client) RecordClaim(ctx context.Context, imei string) (*Receipt, error) {
	const op = "recordClaim"

	body, err := json.Marshal(map[string]string{"imei": imei})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/recordClaim", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	payload, err := c.do(op, req)
	if err != nil {
		return nil, err
	}

	receipt := &Receipt{Message: gjson.GetBytes(payload, "message").String()}
	if tx := gjson.GetBytes(payload, "tx"); tx.Exists() {
		receipt.Tx = json.RawMessage(tx.Raw)
	}
	return receipt, nil
}

// IsClaimed asks the ledger whether a claim exists for imei
func (c *Client) IsClaimed(ctx context.Context, imei string) (bool, error) {
	const op = "isClaimed"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/isClaimed/"+url.PathEscape(imei), nil)
	if err != nil {
		return false, err
	}

	payload, err := c.do(op, req)
	if err != nil {
		return false, err
	}

	claimed := gjson.GetBytes(payload, "claimed")
	if claimed.Type != gjson.True && claimed.Type != gjson.False {
		return false, fmt.Errorf("ledger %s: response has no boolean 'claimed' field", op)
	}
	return claimed.Bool(), nil
}

// do sends req and returns the body of a 2xx response
func (c *Client) do(op string, req *http.Request) ([]byte, error) {
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.ObserveLedgerCall(op, "transport_error", time.Since(start))
		return nil, fmt.Errorf("ledger %s: %w", op, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.ObserveLedgerCall(op, "transport_error", time.Since(start))
		return nil, fmt.Errorf("ledger %s: read response: %w", op, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.ObserveLedgerCall(op, "remote_error", time.Since(start))
		message := gjson.GetBytes(payload, "error").String()
		if message == "" {
			message = http.StatusText(resp.StatusCode)
		}
		return nil, &Error{Operation: op, StatusCode: resp.StatusCode, Message: message}
	}

	if !gjson.ValidBytes(payload) {
		metrics.ObserveLedgerCall(op, "invalid_response", time.Since(start))
		return nil, fmt.Errorf("ledger %s: response is not valid JSON", op)
	}

	metrics.ObserveLedgerCall(op, "success", time.Since(start))
	return payload, nil
}
