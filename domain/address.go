package domain

import (
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/sha3"
)

// Address is a hex-encoded wallet address. Equality is case-insensitive
// because the ledger treats checksummed and lowercase forms as the same
// account.
type Address string

func ParseAddress(s string) (Address, error) {
	s = strings.TrimSpace(s)
	hexPart := strings.TrimPrefix(s, "0x")
	if len(hexPart) != 40 {
		return "", fmt.Errorf("address %q must be 20 bytes of hex", s)
	}
	if _, err := hex.DecodeString(hexPart); err != nil {
		return "", fmt.Errorf("address %q is not valid hex", s)
	}
	return Address("0x" + hexPart), nil
}

func (a Address) Equal(b Address) bool {
	return strings.EqualFold(string(a), string(b))
}

func (a Address) IsZero() bool {
	return a == ""
}

func (a Address) String() string {
	return string(a)
}

// Checksum returns the mixed-case checksummed form of the address:
// each hex letter is uppercased when the corresponding nibble of the
// Keccak-256 hash of the lowercase address is >= 8.
func (a Address) Checksum() string {
	lower := strings.ToLower(strings.TrimPrefix(string(a), "0x"))

	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(lower))
	digest := h.Sum(nil)

	out := make([]byte, len(lower))
	for i := 0; i < len(lower); i++ {
		c := lower[i]
		if c >= 'a' && c <= 'f' {
			nibble := digest[i/2]
			if i%2 == 0 {
				nibble >>= 4
			}
			if nibble&0x0f >= 8 {
				c = c - 'a' + 'A'
			}
		}
		out[i] = c
	}
	return "0x" + string(out)
}

// ValidChecksum reports whether a mixed-case address carries a correct
// checksum. All-lowercase and all-uppercase forms carry no checksum and
// are accepted.
func ValidChecksum(s string) bool {
	addr, err := ParseAddress(s)
	if err != nil {
		return false
	}
	hexPart := strings.TrimPrefix(s, "0x")
	if hexPart == strings.ToLower(hexPart) || hexPart == strings.ToUpper(hexPart) {
		return true
	}
	return addr.Checksum() == "0x"+hexPart
}
