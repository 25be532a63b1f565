package ledger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected Kind
		message  string
	}{
		{
			name:     "User denied",
			raw:      "MetaMask Tx Signature: User denied transaction signature.",
			expected: KindUserRejected,
			message:  "Transaction was cancelled by the user.",
		},
		{
			name:     "User rejected",
			raw:      "user rejected the request",
			expected: KindUserRejected,
			message:  "Transaction was cancelled by the user.",
		},
		{
			name:     "Insufficient funds",
			raw:      "insufficient funds for gas * price + value",
			expected: KindInsufficientFunds,
			message:  "Your wallet has insufficient funds to complete this transaction.",
		},
		{
			name:     "Gas allowance exceeded",
			raw:      "gas required exceeds allowance (21000)",
			expected: KindGasTooLow,
			message:  "The transaction requires more gas than currently allowed. Please try with a lower price.",
		},
		{
			name:     "Intrinsic gas too low",
			raw:      "intrinsic gas too low",
			expected: KindGasTooLow,
			message:  "The transaction requires more gas than currently allowed. Please try with a lower price.",
		},
		{
			name:     "Nonce too low",
			raw:      "nonce too low",
			expected: KindNonceConflict,
			message:  "Transaction sequence error: please wait for pending transactions to settle and try again.",
		},
		{
			name:     "Replacement underpriced",
			raw:      "replacement transaction underpriced",
			expected: KindNonceConflict,
			message:  "Transaction sequence error: please wait for pending transactions to settle and try again.",
		},
		{
			name:     "Execution reverted",
			raw:      "execution reverted: Property is not active",
			expected: KindContractError,
			message:  "The ledger rejected this transaction.",
		},
		{
			name:     "Wrapped internal JSON-RPC error",
			raw:      "Internal JSON-RPC error.",
			expected: KindNetworkError,
			message:  "A network error occurred. Please check your connection and try again.",
		},
		{
			name:     "Connection refused",
			raw:      "dial tcp 127.0.0.1:8545: connection refused",
			expected: KindNetworkError,
			message:  "A network error occurred. Please check your connection and try again.",
		},
		{
			name:     "Unmatched text",
			raw:      "something completely different",
			expected: KindUnknown,
			message:  "An unexpected error occurred.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			classified := Classify(errors.New(tt.raw), "purchase")

			require.NotNil(t, classified)
			assert.Equal(t, tt.expected, classified.Kind)
			assert.Equal(t, tt.message, classified.Error())
			assert.Equal(t, tt.raw, classified.RawMessage)
			assert.Equal(t, "purchase", classified.Context)
		})
	}
}

// Specific failures win over the generic network bucket even when the
// provider wraps them in its JSON-RPC envelope.
func TestClassify_specificKindBeatsNetworkWrapper(t *testing.T) {
	raw := errors.New("Internal JSON-RPC error: insufficient funds for transfer")

	classified := Classify(raw, "purchase")

	assert.Equal(t, KindInsufficientFunds, classified.Kind)
}

func TestClassify_isTotal(t *testing.T) {
	classified := Classify(nil, "refresh")

	require.NotNil(t, classified)
	assert.Equal(t, KindUnknown, classified.Kind)
	assert.Empty(t, classified.RawMessage)
}

// Every kind the matchers can produce owns a user-safe message; raw
// text must never be the only thing available to show.
func TestClassify_everyKindHasUserMessage(t *testing.T) {
	for _, m := range matchers {
		assert.NotEmpty(t, userMessages[m.kind], "kind %s", m.kind)
	}
	assert.NotEmpty(t, userMessages[KindUnknown])
}

func TestPreflightError_messages(t *testing.T) {
	tests := []struct {
		code     PreflightCode
		expected string
	}{
		{CodeNotFound, "Property not found."},
		{CodeSelfPurchase, "You cannot purchase your own property."},
		{CodePropertyInactive, "This property is no longer available for purchase."},
		{CodeInsufficientFunds, "Insufficient funds to complete this purchase."},
		{CodeDuplicateID, "Property ID already exists."},
	}

	for _, tt := range tests {
		err := newPreflightError(tt.code)
		assert.Equal(t, tt.expected, err.Error())
	}
}

func TestNewPreflightError_panicsOnUnknownCode(t *testing.T) {
	assert.Panics(t, func() {
		_ = newPreflightError(PreflightCode("bogus"))
	})
}
