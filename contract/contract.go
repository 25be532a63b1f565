//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"

	"estate-bridge/domain"
)

// Ledger is the external append-only transactional backend, reached
// through the wallet-mediated RPC bridge. Every call may suspend for
// unbounded wall-clock time: user confirmation inside the wallet and
// block inclusion latency are both invisible from here.
type Ledger interface {
	GetAllProperties(ctx context.Context) ([]domain.ListedProperty, error)
	GetBalance(ctx context.Context, account domain.Address) (domain.Amount, error)
	// GasPrice supports the best-effort gas reserve check; failures are
	// non-fatal to a preflight.
	GasPrice(ctx context.Context) (domain.Amount, error)
	CreateProperty(ctx context.Context, listing domain.Listing) (domain.TxHandle, error)
	CreateContract(ctx context.Context, idempotencyKey string, propertyID domain.PropertyID, value domain.Amount) (domain.TxHandle, error)
	// AwaitReceipt blocks until the broadcast transaction is included
	// or the context is cancelled. The action itself is irrevocable
	// once a handle exists; cancelling only stops the wait.
	AwaitReceipt(ctx context.Context, handle domain.TxHandle) error
}

// Wallet mediates key custody and signing on behalf of the user.
type Wallet interface {
	CurrentAccount(ctx context.Context) (domain.Address, error)
	OnAccountChange(fn func(domain.Address))
}

// PropertyStore holds the cached snapshot of ledger state. Mutation is
// single-writer: only a successful orchestrator completion or an
// explicit refresh replaces the snapshot, and always wholesale.
type PropertyStore interface {
	Replace(properties []domain.ListedProperty) error
	Snapshot() ([]domain.ListedProperty, error)
}

// AttemptRecorder persists submission attempts for diagnostics.
type AttemptRecorder interface {
	Record(attempt domain.Attempt) error
}
