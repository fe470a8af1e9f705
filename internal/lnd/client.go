package lnd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"lnwallet/internal/domain"
	"lnwallet/internal/observability"
)

// DefaultTimeout is the per-request timeout toward the daemon.
const DefaultTimeout = 30 * time.Second

// API paths, versioned like the daemon exposes them.
const (
	pathConnections  = "/v0/connections/"
	pathPeers        = "/v0/peers/"
	pathChannels     = "/v0/channels/"
	pathInvoices     = "/v0/invoices/"
	pathTransactions = "/v0/transactions/"
)

// HTTPClient implements Gateway over the daemon's REST surface.
type HTTPClient struct {
	baseURL string
	client  *http.Client
}

// ClientOption configures HTTPClient.
type ClientOption func(*HTTPClient)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *HTTPClient) {
		c.client.Timeout = d
	}
}

// WithHTTPClient sets a custom http.Client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *HTTPClient) {
		c.client = client
	}
}

// NewHTTPClient creates a daemon client for the given base address,
// e.g. "http://localhost:10553".
func NewHTTPClient(baseURL string, opts ...ClientOption) *HTTPClient {
	c := &HTTPClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// fetch performs a GET and returns the raw body.
func (c *HTTPClient) fetch(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	return c.do(req)
}

// send performs a request with an optional JSON payload and returns the
// raw body. No retries: a failed call surfaces immediately.
func (c *HTTPClient) send(ctx context.Context, method, path string, payload any) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(req)
}

func (c *HTTPClient) do(req *http.Request) ([]byte, error) {
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %w", ErrTransport, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: unexpected status %d", ErrTransport, resp.StatusCode)
	}

	return raw, nil
}

// record tracks latency and failure kind for one daemon operation.
func record(op string, start time.Time, err error) {
	kind := ""
	switch {
	case errors.Is(err, ErrDecode):
		kind = "decode"
	case err != nil:
		kind = "transport"
	}
	observability.RecordDaemonRequest(op, time.Since(start).Seconds(), kind)
}

// ListConnections fetches all connection records.
func (c *HTTPClient) ListConnections(ctx context.Context) (conns []domain.Connection, err error) {
	start := time.Now()
	defer func() { record("list_connections", start, err) }()

	raw, err := c.fetch(ctx, pathConnections)
	if err != nil {
		return nil, fmt.Errorf("list connections: %w", err)
	}

	var records []connectionRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("list connections: %w: %w", ErrDecode, err)
	}

	conns = make([]domain.Connection, 0, len(records))
	for _, r := range records {
		conn, err := r.toDomain()
		if err != nil {
			return nil, fmt.Errorf("list connections: %w", err)
		}
		conns = append(conns, conn)
	}
	return conns, nil
}

// ListPeers fetches all active peer links.
func (c *HTTPClient) ListPeers(ctx context.Context) (peers []domain.Peer, err error) {
	start := time.Now()
	defer func() { record("list_peers", start, err) }()

	raw, err := c.fetch(ctx, pathPeers)
	if err != nil {
		return nil, fmt.Errorf("list peers: %w", err)
	}

	var records []peerRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("list peers: %w: %w", ErrDecode, err)
	}

	peers = make([]domain.Peer, 0, len(records))
	for _, r := range records {
		peer, err := r.toDomain()
		if err != nil {
			return nil, fmt.Errorf("list peers: %w", err)
		}
		peers = append(peers, peer)
	}
	return peers, nil
}

// ListTransactions fetches the full transaction feed.
func (c *HTTPClient) ListTransactions(ctx context.Context) (txs []domain.Transaction, err error) {
	start := time.Now()
	defer func() { record("list_transactions", start, err) }()

	raw, err := c.fetch(ctx, pathTransactions)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	var records []transactionRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("list transactions: %w: %w", ErrDecode, err)
	}

	txs = make([]domain.Transaction, 0, len(records))
	for _, r := range records {
		tx, err := r.toDomain()
		if err != nil {
			return nil, fmt.Errorf("list transactions: %w", err)
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

// AddPeer asks the daemon to connect to a remote node.
func (c *HTTPClient) AddPeer(ctx context.Context, host string, publicKey domain.PublicKey) (err error) {
	start := time.Now()
	defer func() { record("add_peer", start, err) }()

	if host == "" || publicKey.IsZero() {
		return fmt.Errorf("add peer: %w: host and public key required", ErrValidation)
	}

	payload := map[string]string{
		"host":       host,
		"public_key": publicKey.String(),
	}
	if _, err := c.send(ctx, http.MethodPost, pathPeers, payload); err != nil {
		return fmt.Errorf("add peer: %w", err)
	}
	return nil
}

// OpenChannel asks the daemon to open a channel with a partner.
func (c *HTTPClient) OpenChannel(ctx context.Context, partner domain.PublicKey) (err error) {
	start := time.Now()
	defer func() { record("open_channel", start, err) }()

	if partner.IsZero() {
		return fmt.Errorf("open channel: %w: partner public key required", ErrValidation)
	}

	payload := map[string]string{"partner_public_key": partner.String()}
	if _, err := c.send(ctx, http.MethodPost, pathChannels, payload); err != nil {
		return fmt.Errorf("open channel: %w", err)
	}
	return nil
}

// CloseChannel asks the daemon to close a channel by id.
func (c *HTTPClient) CloseChannel(ctx context.Context, channelID string) (err error) {
	start := time.Now()
	defer func() { record("close_channel", start, err) }()

	if channelID == "" {
		return fmt.Errorf("close channel: %w: channel id required", ErrValidation)
	}

	if _, err := c.send(ctx, http.MethodDelete, pathChannels+channelID, nil); err != nil {
		return fmt.Errorf("close channel %s: %w", channelID, err)
	}
	return nil
}

// CreateInvoice asks the daemon to create an invoice.
func (c *HTTPClient) CreateInvoice(ctx context.Context, amount domain.Tokens, memo string) (inv *domain.Invoice, err error) {
	start := time.Now()
	defer func() { record("create_invoice", start, err) }()

	if amount == 0 {
		return nil, fmt.Errorf("create invoice: %w: amount must be positive", ErrValidation)
	}

	payload := map[string]any{
		"memo":   memo,
		"tokens": uint64(amount),
	}
	raw, err := c.send(ctx, http.MethodPost, pathInvoices, payload)
	if err != nil {
		return nil, fmt.Errorf("create invoice: %w", err)
	}

	var r invoiceRecord
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, fmt.Errorf("create invoice: %w: %w", ErrDecode, err)
	}
	invoice, err := r.toDomain()
	if err != nil {
		return nil, fmt.Errorf("create invoice: %w", err)
	}
	return invoice, nil
}

// Verify interface compliance at compile time.
var _ Gateway = (*HTTPClient)(nil)
