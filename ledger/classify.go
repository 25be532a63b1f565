// Package ledger wraps every ledger-facing action: read-only preflight
// checks, the submission state machine, and the classification of raw
// wallet/ledger failures into a closed taxonomy.
package ledger

import (
	"fmt"
	"strings"
)

// Kind is the closed failure taxonomy of the wallet/ledger boundary.
// Everything outside the classifier depends only on these values, never
// on raw error text.
type Kind string

const (
	KindUserRejected      Kind = "user_rejected"
	KindInsufficientFunds Kind = "insufficient_funds"
	KindGasTooLow         Kind = "gas_too_low"
	KindNonceConflict     Kind = "nonce_conflict"
	KindNetworkError      Kind = "network_error"
	KindContractError     Kind = "contract_error"
	KindUnknown           Kind = "unknown"
)

// userMessages holds the single fixed user-safe message per kind.
var userMessages = map[Kind]string{
	KindUserRejected:      "Transaction was cancelled by the user.",
	KindInsufficientFunds: "Your wallet has insufficient funds to complete this transaction.",
	KindGasTooLow:         "The transaction requires more gas than currently allowed. Please try with a lower price.",
	KindNonceConflict:     "Transaction sequence error: please wait for pending transactions to settle and try again.",
	KindNetworkError:      "A network error occurred. Please check your connection and try again.",
	KindContractError:     "The ledger rejected this transaction.",
	KindUnknown:           "An unexpected error occurred.",
}

// LedgerError is the classified form of a raw boundary failure.
// RawMessage is retained for diagnostics only; Error() returns the
// fixed user-safe message and nothing else.
type LedgerError struct {
	Kind       Kind
	RawMessage string
	Context    string
}

func (e *LedgerError) Error() string {
	return userMessages[e.Kind]
}

// matcher maps raw-text substrings to a kind. Order matters: specific
// failures must win over the generic network bucket, because wallet
// providers wrap everything in "Internal JSON-RPC error".
type matcher struct {
	substrings []string
	kind       Kind
}

var matchers = []matcher{
	{[]string{"user denied", "user rejected"}, KindUserRejected},
	{[]string{"insufficient funds"}, KindInsufficientFunds},
	{[]string{"gas required exceeds allowance", "intrinsic gas too low", "out of gas"}, KindGasTooLow},
	{[]string{"nonce too low", "replacement transaction underpriced"}, KindNonceConflict},
	{[]string{"execution reverted", "revert"}, KindContractError},
	{[]string{"internal json-rpc error", "connection refused", "timeout", "network"}, KindNetworkError},
}

// Classify maps a raw wallet/ledger failure into the closed taxonomy.
// It is total: a nil error becomes KindUnknown rather than a panic, and
// anything unmatched becomes KindUnknown with the generic message.
func Classify(raw error, context string) *LedgerError {
	rawMessage := ""
	if raw != nil {
		rawMessage = raw.Error()
	}
	lowered := strings.ToLower(rawMessage)

	for _, m := range matchers {
		for _, sub := range m.substrings {
			if strings.Contains(lowered, sub) {
				return &LedgerError{Kind: m.kind, RawMessage: rawMessage, Context: context}
			}
		}
	}
	return &LedgerError{Kind: KindUnknown, RawMessage: rawMessage, Context: context}
}

// PreflightCode labels a read-only check failure. These are fatal to
// the current attempt, not to the session.
type PreflightCode string

const (
	CodeNotFound          PreflightCode = "not_found"
	CodeSelfPurchase      PreflightCode = "self_purchase"
	CodePropertyInactive  PreflightCode = "property_inactive"
	CodeInsufficientFunds PreflightCode = "insufficient_funds"
	CodeDuplicateID       PreflightCode = "duplicate_id"
)

var preflightMessages = map[PreflightCode]string{
	CodeNotFound:          "Property not found.",
	CodeSelfPurchase:      "You cannot purchase your own property.",
	CodePropertyInactive:  "This property is no longer available for purchase.",
	CodeInsufficientFunds: "Insufficient funds to complete this purchase.",
	CodeDuplicateID:       "Property ID already exists.",
}

type PreflightError struct {
	Code PreflightCode
}

func (e *PreflightError) Error() string {
	return preflightMessages[e.Code]
}

func newPreflightError(code PreflightCode) *PreflightError {
	if _, ok := preflightMessages[code]; !ok {
		panic(fmt.Sprintf("unknown preflight code %q", code))
	}
	return &PreflightError{Code: code}
}
