package rpc

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"estate-bridge/domain"
)

// bridgeStub answers JSON-RPC calls from a method -> raw result table
// and records what it was asked.
type bridgeStub struct {
	results  map[string]string
	errors   map[string]string
	requests []rpcRequest
}

func (b *bridgeStub) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		b.requests = append(b.requests, req)

		if message, ok := b.errors[req.Method]; ok {
			fmt.Fprintf(w, `{"jsonrpc":"2.0","id":%d,"error":{"code":-32000,"message":%q}}`, req.ID, message)
			return
		}
		result, ok := b.results[req.Method]
		if !ok {
			result = "null"
		}
		fmt.Fprintf(w, `{"jsonrpc":"2.0","id":%d,"result":%s}`, req.ID, result)
	}
}

func newTestClient(t *testing.T, stub *bridgeStub) *Client {
	t.Helper()
	server := httptest.NewServer(stub.handler(t))
	t.Cleanup(server.Close)
	return NewClient(server.URL, slog.Default())
}

func TestClient_GetAllProperties(t *testing.T) {
	stub := &bridgeStub{results: map[string]string{
		"estate_getAllProperties": `[
			{"id":"prop-1","title":"Garden flat","price":"2500000000000000000","location":"Jerusalem","owner":"0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed","is_active":true}
		]`,
	}}
	client := newTestClient(t, stub)

	properties, err := client.GetAllProperties(context.Background())

	require.NoError(t, err)
	require.Len(t, properties, 1)
	assert.Equal(t, domain.PropertyID("prop-1"), properties[0].ID)
	assert.Equal(t, "2.5", properties[0].Price.String())
	assert.True(t, properties[0].IsActive)
}

func TestClient_GetBalance(t *testing.T) {
	stub := &bridgeStub{results: map[string]string{
		"estate_getBalance": `"1000000000000000000"`,
	}}
	client := newTestClient(t, stub)

	balance, err := client.GetBalance(context.Background(), "0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed")

	require.NoError(t, err)
	assert.Equal(t, "1", balance.String())
	require.Len(t, stub.requests, 1)
	assert.Equal(t, "estate_getBalance", stub.requests[0].Method)
}

// A bridge error surfaces with its raw message intact; the classifier
// upstream depends on that text.
func TestClient_bridgeErrorKeepsRawMessage(t *testing.T) {
	stub := &bridgeStub{errors: map[string]string{
		"estate_createContract": "insufficient funds for gas * price + value",
	}}
	client := newTestClient(t, stub)

	_, err := client.CreateContract(context.Background(), "key-1", "prop-1", domain.Amount{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "insufficient funds")
}

func TestClient_CreateProperty(t *testing.T) {
	stub := &bridgeStub{results: map[string]string{
		"estate_createProperty": `{"hash":"0xabc"}`,
	}}
	client := newTestClient(t, stub)
	price, err := domain.ParseAmount("2.5")
	require.NoError(t, err)

	handle, err := client.CreateProperty(context.Background(), domain.Listing{
		ID:       "prop-1",
		Title:    "Garden flat",
		Price:    price,
		Location: "Jerusalem",
	})

	require.NoError(t, err)
	assert.Equal(t, "0xabc", handle.Hash)
}

func TestClient_CurrentAccount(t *testing.T) {
	stub := &bridgeStub{results: map[string]string{
		"estate_currentAccount": `"0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"`,
	}}
	client := newTestClient(t, stub)

	account, err := client.CurrentAccount(context.Background())

	require.NoError(t, err)
	assert.True(t, account.Equal("0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed"))
}

func TestClient_CurrentAccount_emptyMeansDisconnected(t *testing.T) {
	stub := &bridgeStub{results: map[string]string{
		"estate_currentAccount": `""`,
	}}
	client := newTestClient(t, stub)

	account, err := client.CurrentAccount(context.Background())

	require.NoError(t, err)
	assert.True(t, account.IsZero())
}

func TestClient_httpFailureIncludesMethod(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(server.Close)
	client := NewClient(server.URL, slog.Default())

	_, err := client.GasPrice(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "estate_gasPrice")
	assert.Contains(t, err.Error(), "502")
}

func TestClient_notifyIfChanged(t *testing.T) {
	client := NewClient("http://unused", slog.Default())
	var seen []domain.Address
	client.OnAccountChange(func(account domain.Address) {
		seen = append(seen, account)
	})

	client.notifyIfChanged("0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed")
	client.notifyIfChanged("0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed") // same account, different casing
	client.notifyIfChanged("")

	require.Len(t, seen, 2)
	assert.Equal(t, domain.Address("0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed"), seen[0])
	assert.True(t, seen[1].IsZero())
}
