package ledger

import (
	"context"
	"log/slog"

	"estate-bridge/contract"
	"estate-bridge/domain"
)

// purchaseGasLimit is the flat reserve used by the best-effort gas
// coverage check, mirroring the safe estimate the wallet itself uses.
const purchaseGasLimit = 500_000

// Preflight runs the read-only checks that precede any state-changing
// call. A passing preflight narrows the failure window; it cannot close
// it, because ledger state and gas prices move between the check and
// the submission.
type Preflight struct {
	ledger contract.Ledger
	log    *slog.Logger
}

func NewPreflight(ledger contract.Ledger, log *slog.Logger) *Preflight {
	return &Preflight{ledger: ledger, log: log}
}

// Check verifies, in order and short-circuiting: existence, ownership,
// activity, then balance. Balance comparison happens in base units;
// no floating point is involved anywhere on this path.
func (p *Preflight) Check(ctx context.Context, propertyID domain.PropertyID, buyer domain.Address) (domain.ListedProperty, error) {
	properties, err := p.ledger.GetAllProperties(ctx)
	if err != nil {
		return domain.ListedProperty{}, err
	}

	property, found := domain.FindProperty(properties, propertyID)
	if !found {
		return domain.ListedProperty{}, newPreflightError(CodeNotFound)
	}
	if property.Owner.Equal(buyer) {
		return domain.ListedProperty{}, newPreflightError(CodeSelfPurchase)
	}
	if !property.IsActive {
		return domain.ListedProperty{}, newPreflightError(CodePropertyInactive)
	}

	balance, err := p.ledger.GetBalance(ctx, buyer)
	if err != nil {
		return domain.ListedProperty{}, err
	}
	if balance.Cmp(property.Price) < 0 {
		return domain.ListedProperty{}, newPreflightError(CodeInsufficientFunds)
	}

	// Best effort only: when the gas price is unavailable the check is
	// skipped, and a pass here still does not guarantee the submission
	// will not fail for gas reasons.
	if gasPrice, err := p.ledger.GasPrice(ctx); err == nil {
		total := property.Price.Add(gasPrice.MulUint64(purchaseGasLimit))
		if balance.Cmp(total) < 0 {
			return domain.ListedProperty{}, newPreflightError(CodeInsufficientFunds)
		}
	} else {
		p.log.Debug("gas price unavailable, skipping gas reserve check", "error", err)
	}

	return property, nil
}

// CheckListing rejects a listing whose ID is already present on the
// ledger. The ledger enforces this too; checking here converts a
// doomed submission into a cheap read.
func (p *Preflight) CheckListing(ctx context.Context, id domain.PropertyID) error {
	properties, err := p.ledger.GetAllProperties(ctx)
	if err != nil {
		return err
	}
	if _, exists := domain.FindProperty(properties, id); exists {
		return newPreflightError(CodeDuplicateID)
	}
	return nil
}
