// Package rpc talks JSON-RPC 2.0 to the wallet bridge: the endpoint
// that holds the keys, signs submissions, and proxies reads to the
// ledger. It is the only code that sees raw boundary errors; everything
// above it consumes the classified taxonomy.
package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"estate-bridge/domain"
)

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int64  `json:"id"`
	Method  string `json:"method"`
	Params  any    `json:"params,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      int64           `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
}

const maxResponseBytes int64 = 4 << 20

// Client implements the Ledger and Wallet ports over HTTP. It carries
// no request timeout of its own: wallet confirmation and block
// inclusion take as long as they take, so deadlines belong to the
// caller's context.
type Client struct {
	endpoint string
	http     *http.Client
	log      *slog.Logger
	nextID   atomic.Int64

	mu          sync.Mutex
	callbacks   []func(domain.Address)
	lastAccount domain.Address
}

func NewClient(endpoint string, log *slog.Logger) *Client {
	return &Client{
		endpoint: endpoint,
		http:     &http.Client{},
		log:      log,
	}
}

func (c *Client) call(ctx context.Context, method string, params any, result any) error {
	payload, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		ID:      c.nextID.Add(1),
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", method, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("%s: reading response: %w", method, err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s: bridge returned HTTP %d", method, resp.StatusCode)
	}

	var decoded rpcResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return fmt.Errorf("%s: decoding response: %w", method, err)
	}
	if decoded.Error != nil {
		// The raw bridge message is what the classifier sniffs.
		return fmt.Errorf("%s: %s", method, decoded.Error.Message)
	}

	c.log.Debug("bridge call", "method", method, "took", time.Since(started))
	if result == nil {
		return nil
	}
	return json.Unmarshal(decoded.Result, result)
}

func (c *Client) GetAllProperties(ctx context.Context) ([]domain.ListedProperty, error) {
	var properties []domain.ListedProperty
	if err := c.call(ctx, "estate_getAllProperties", nil, &properties); err != nil {
		return nil, err
	}
	return properties, nil
}

func (c *Client) GetBalance(ctx context.Context, account domain.Address) (domain.Amount, error) {
	var balance domain.Amount
	err := c.call(ctx, "estate_getBalance", []any{account.String()}, &balance)
	return balance, err
}

func (c *Client) GasPrice(ctx context.Context) (domain.Amount, error) {
	var price domain.Amount
	err := c.call(ctx, "estate_gasPrice", nil, &price)
	return price, err
}

type wireListing struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Price       domain.Amount     `json:"price"`
	Location    string            `json:"location"`
	Documents   []domain.Document `json:"documents,omitempty"`
}

func (c *Client) CreateProperty(ctx context.Context, listing domain.Listing) (domain.TxHandle, error) {
	var handle domain.TxHandle
	err := c.call(ctx, "estate_createProperty", []any{wireListing{
		ID:          string(listing.ID),
		Title:       listing.Title,
		Description: listing.Description,
		Price:       listing.Price,
		Location:    listing.Location,
		Documents:   listing.Documents,
	}}, &handle)
	return handle, err
}

func (c *Client) CreateContract(ctx context.Context, idempotencyKey string, propertyID domain.PropertyID, value domain.Amount) (domain.TxHandle, error) {
	var handle domain.TxHandle
	err := c.call(ctx, "estate_createContract", []any{idempotencyKey, string(propertyID), value}, &handle)
	return handle, err
}

func (c *Client) AwaitReceipt(ctx context.Context, handle domain.TxHandle) error {
	return c.call(ctx, "estate_awaitReceipt", []any{handle.Hash}, nil)
}

func (c *Client) CurrentAccount(ctx context.Context) (domain.Address, error) {
	var raw string
	if err := c.call(ctx, "estate_currentAccount", nil, &raw); err != nil {
		return "", err
	}
	if raw == "" {
		return "", nil
	}
	return domain.ParseAddress(raw)
}

func (c *Client) OnAccountChange(fn func(domain.Address)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.callbacks = append(c.callbacks, fn)
}

// WatchAccount polls the bridge for account changes until the context
// ends. The bridge offers no push channel, so polling stands in for the
// wallet's own change events.
func (c *Client) WatchAccount(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			account, err := c.CurrentAccount(ctx)
			if err != nil {
				c.log.Debug("account poll failed", "error", err)
				continue
			}
			c.notifyIfChanged(account)
		}
	}
}

func (c *Client) notifyIfChanged(account domain.Address) {
	c.mu.Lock()
	changed := !c.lastAccount.Equal(account)
	c.lastAccount = account
	callbacks := append(([]func(domain.Address))(nil), c.callbacks...)
	c.mu.Unlock()

	if !changed {
		return
	}
	for _, fn := range callbacks {
		fn(account)
	}
}
