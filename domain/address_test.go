package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAddress(t *testing.T) {
	addr, err := ParseAddress(" 0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed ")

	require.NoError(t, err)
	assert.Equal(t, Address("0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed"), addr)
}

func TestParseAddress_rejectsMalformedInput(t *testing.T) {
	inputs := []string{
		"",
		"0x",
		"0x1234",
		"0x" + strings.Repeat("f", 39),
		"0x" + strings.Repeat("f", 41),
		"0x" + strings.Repeat("g", 40),
	}

	for _, input := range inputs {
		_, err := ParseAddress(input)
		assert.Error(t, err, "input %q", input)
	}
}

func TestAddress_Equal_ignoresCase(t *testing.T) {
	lower := Address("0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed")
	mixed := Address("0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed")

	assert.True(t, lower.Equal(mixed))
	assert.True(t, mixed.Equal(lower))
	assert.False(t, lower.Equal("0xfb6916095ca1df60bb79ce92ce3ea74c37c5d359"))
}

func TestAddress_Checksum(t *testing.T) {
	tests := []struct {
		lower    string
		expected string
	}{
		{
			lower:    "0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed",
			expected: "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed",
		},
		{
			lower:    "0xfb6916095ca1df60bb79ce92ce3ea74c37c5d359",
			expected: "0xfB6916095ca1df60bB79Ce92cE3Ea74c37c5d359",
		},
		{
			lower:    "0xdbf03b407c01e7cd3cbea99509d93f8dddc8c6fb",
			expected: "0xdbF03B407c01E7cD3CBea99509d93f8DDDC8C6FB",
		},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, Address(tt.lower).Checksum())
	}
}

func TestValidChecksum(t *testing.T) {
	assert.True(t, ValidChecksum("0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"))
	assert.True(t, ValidChecksum("0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed"))
	assert.True(t, ValidChecksum("0x5AAEB6053F3E94C9B9A09F33669435E7EF1BEAED"))
	assert.False(t, ValidChecksum("0x5Aaeb6053F3E94C9b9A09f33669435E7Ef1BeAed"))
	assert.False(t, ValidChecksum("not-an-address"))
}

func TestAddress_IsZero(t *testing.T) {
	assert.True(t, Address("").IsZero())
	assert.False(t, Address("0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed").IsZero())
}
