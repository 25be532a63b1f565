package domain

import (
	"time"

	"github.com/google/uuid"

	apperrors "estate-bridge/errors"
)

// PurchaseIntent exists for exactly one submission attempt. A retry
// mints a fresh intent: resubmitting an already-broadcast key could
// double-spend, so keys are never reused.
type PurchaseIntent struct {
	PropertyID     PropertyID
	IdempotencyKey string
	Buyer          Address
	Price          Amount
}

// NewPurchaseIntent builds an intent for one attempt against a listed
// property. It refuses to construct an intent the ledger would have to
// reject: inactive properties and self-purchases never produce one.
// The idempotency key is a random UUID rather than a timestamp, so
// rapid repeated submissions can never collide.
func NewPurchaseIntent(property ListedProperty, buyer Address) (PurchaseIntent, error) {
	if !property.IsActive {
		return PurchaseIntent{}, apperrors.ErrPropertyInactive
	}
	if property.Owner.Equal(buyer) {
		return PurchaseIntent{}, apperrors.ErrSelfPurchase
	}
	return PurchaseIntent{
		PropertyID:     property.ID,
		IdempotencyKey: uuid.NewString(),
		Buyer:          buyer,
		Price:          property.Price,
	}, nil
}

// AttemptOutcome labels one finished submission attempt.
type AttemptOutcome string

const (
	AttemptSucceeded AttemptOutcome = "succeeded"
	AttemptFailed    AttemptOutcome = "failed"
)

// Attempt is the durable record of one submission attempt, kept for
// diagnostics. The raw failure text lives here, never in the UI.
type Attempt struct {
	Flow           string         `json:"flow"`
	PropertyID     PropertyID     `json:"property_id"`
	IdempotencyKey string         `json:"idempotency_key,omitempty"`
	Outcome        AttemptOutcome `json:"outcome"`
	TxHash         string         `json:"tx_hash,omitempty"`
	Detail         string         `json:"detail,omitempty"`
	At             time.Time      `json:"at"`
}
