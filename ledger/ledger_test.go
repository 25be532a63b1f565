package ledger

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"estate-bridge/domain"

	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func amount(t *testing.T, s string) domain.Amount {
	t.Helper()
	a, err := domain.ParseAmount(s)
	require.NoError(t, err)
	return a
}

const (
	ownerAddr = domain.Address("0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed")
	buyerAddr = domain.Address("0xfb6916095ca1df60bb79ce92ce3ea74c37c5d359")
)

// fakeLedger is an in-memory stand-in for the RPC bridge. Successful
// CreateProperty calls land in the property list so a follow-up
// GetAllProperties sees them, mirroring the real ledger.
type fakeLedger struct {
	mu         sync.Mutex
	properties []domain.ListedProperty
	balances   map[domain.Address]domain.Amount

	gasPrice    domain.Amount
	gasPriceErr error

	propertiesErr     error
	createPropertyErr error
	createContractErr error
	awaitErr          error

	createContractCalls int
	contractKeys        []string
}

func (f *fakeLedger) GetAllProperties(ctx context.Context) ([]domain.ListedProperty, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.propertiesErr != nil {
		return nil, f.propertiesErr
	}
	out := make([]domain.ListedProperty, len(f.properties))
	copy(out, f.properties)
	return out, nil
}

func (f *fakeLedger) GetBalance(ctx context.Context, account domain.Address) (domain.Amount, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.balances[account], nil
}

func (f *fakeLedger) GasPrice(ctx context.Context) (domain.Amount, error) {
	if f.gasPriceErr != nil {
		return domain.Amount{}, f.gasPriceErr
	}
	return f.gasPrice, nil
}

func (f *fakeLedger) CreateProperty(ctx context.Context, listing domain.Listing) (domain.TxHandle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createPropertyErr != nil {
		return domain.TxHandle{}, f.createPropertyErr
	}
	f.properties = append(f.properties, domain.ListedProperty{
		ID:          listing.ID,
		Title:       listing.Title,
		Description: listing.Description,
		Price:       listing.Price,
		Location:    listing.Location,
		Owner:       ownerAddr,
		IsActive:    true,
	})
	return domain.TxHandle{Hash: "0xlist"}, nil
}

func (f *fakeLedger) CreateContract(ctx context.Context, idempotencyKey string, propertyID domain.PropertyID, value domain.Amount) (domain.TxHandle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createContractCalls++
	f.contractKeys = append(f.contractKeys, idempotencyKey)
	if f.createContractErr != nil {
		return domain.TxHandle{}, f.createContractErr
	}
	for i := range f.properties {
		if f.properties[i].ID == propertyID {
			f.properties[i].IsActive = false
			f.properties[i].Owner = buyerAddr
		}
	}
	return domain.TxHandle{Hash: "0xbuy"}, nil
}

func (f *fakeLedger) AwaitReceipt(ctx context.Context, handle domain.TxHandle) error {
	return f.awaitErr
}

// fakeStore keeps the snapshot in memory.
type fakeStore struct {
	mu         sync.Mutex
	snapshot   []domain.ListedProperty
	replaceErr error
	replaces   int
}

func (s *fakeStore) Replace(properties []domain.ListedProperty) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.replaceErr != nil {
		return s.replaceErr
	}
	s.snapshot = properties
	s.replaces++
	return nil
}

func (s *fakeStore) Snapshot() ([]domain.ListedProperty, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot, nil
}

// fakeRecorder captures recorded attempts.
type fakeRecorder struct {
	mu       sync.Mutex
	attempts []domain.Attempt
}

func (r *fakeRecorder) Record(attempt domain.Attempt) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.attempts = append(r.attempts, attempt)
	return nil
}

func (r *fakeRecorder) last(t *testing.T) domain.Attempt {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	require.NotEmpty(t, r.attempts)
	return r.attempts[len(r.attempts)-1]
}

func activeListing(t *testing.T) domain.ListedProperty {
	return domain.ListedProperty{
		ID:       "prop-1",
		Title:    "Garden flat",
		Price:    amount(t, "1.0"),
		Location: "Jerusalem",
		Owner:    ownerAddr,
		IsActive: true,
	}
}
