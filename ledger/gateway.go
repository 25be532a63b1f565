package ledger

import (
	"context"
	"log/slog"
	"sync"

	"estate-bridge/contract"
	"estate-bridge/domain"
	apperrors "estate-bridge/errors"
	"estate-bridge/validation"
)

// Gateway is the surface the UI layer consumes. It owns the session
// state explicitly: the current account lives here and is passed down,
// never read from process-wide mutable state. Submissions fan into the
// single orchestrator instance.
type Gateway struct {
	orchestrator *Orchestrator
	guard        *validation.Guard
	wallet       contract.Wallet
	store        contract.PropertyStore
	log          *slog.Logger

	mu      sync.RWMutex
	account domain.Address
}

func NewGateway(orchestrator *Orchestrator, guard *validation.Guard, wallet contract.Wallet, store contract.PropertyStore, log *slog.Logger) *Gateway {
	g := &Gateway{
		orchestrator: orchestrator,
		guard:        guard,
		wallet:       wallet,
		store:        store,
		log:          log,
	}
	wallet.OnAccountChange(g.handleAccountChange)
	return g
}

// Connect binds the session to the wallet's current account and primes
// the snapshot cache.
func (g *Gateway) Connect(ctx context.Context) error {
	account, err := g.wallet.CurrentAccount(ctx)
	if err != nil {
		return Classify(err, "connect wallet")
	}
	g.setAccount(account)
	return g.orchestrator.Refresh(ctx)
}

func (g *Gateway) Account() domain.Address {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.account
}

func (g *Gateway) setAccount(account domain.Address) {
	g.mu.Lock()
	g.account = account
	g.mu.Unlock()
}

func (g *Gateway) handleAccountChange(account domain.Address) {
	g.setAccount(account)
	if account.IsZero() {
		g.log.Warn("wallet disconnected, clearing cached snapshot")
		if err := g.store.Replace(nil); err != nil {
			g.log.Warn("clearing snapshot failed", "error", err)
		}
		return
	}
	g.log.Info("wallet account changed", "account", account.Checksum())
}

// ValidateDraft recomputes the full validation result for a draft.
// It never touches the network.
func (g *Gateway) ValidateDraft(draft domain.Draft) validation.Result {
	return g.guard.Check(draft)
}

// ApplyEdit is the per-keystroke reduction: sanitize the edited value
// into the draft and revalidate the whole thing.
func (g *Gateway) ApplyEdit(draft domain.Draft, edit domain.Edit) (domain.Draft, validation.Result) {
	return g.guard.Apply(draft, edit)
}

// AttachDocument sniffs the file content and, if the detected type is
// on the allowlist, returns a draft carrying the attachment. The draft
// comes back unchanged on rejection.
func (g *Gateway) AttachDocument(draft domain.Draft, name string, content []byte) (domain.Draft, error) {
	doc, err := domain.DetectDocument(name, content)
	if err != nil {
		g.log.Warn("attachment rejected", "name", name, "error", err)
		return draft, err
	}
	return draft.WithDocument(doc), nil
}

func (g *Gateway) SubmitListing(ctx context.Context, draft domain.Draft) (domain.TxHandle, error) {
	if g.Account().IsZero() {
		return domain.TxHandle{}, apperrors.ErrNoAccount
	}
	return g.orchestrator.SubmitListing(ctx, draft)
}

func (g *Gateway) SubmitPurchase(ctx context.Context, propertyID domain.PropertyID) (domain.TxHandle, error) {
	buyer := g.Account()
	if buyer.IsZero() {
		return domain.TxHandle{}, apperrors.ErrNoAccount
	}
	return g.orchestrator.SubmitPurchase(ctx, propertyID, buyer)
}

// Properties returns the cached snapshot. Readers tolerate staleness
// between refreshes; they only ever see whole-snapshot replacements.
func (g *Gateway) Properties() ([]domain.ListedProperty, error) {
	return g.store.Snapshot()
}

func (g *Gateway) Refresh(ctx context.Context) error {
	return g.orchestrator.Refresh(ctx)
}
