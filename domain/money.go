package domain

import (
	"fmt"
	"math/big"
	"strings"
)

// BaseUnitDecimals is the fixed-point scale of the ledger's smallest unit.
// Prices cross the ledger boundary as integers at this scale and cross the
// UI boundary as decimal strings; the conversion is exact integer scaling.
const BaseUnitDecimals = 18

var baseUnitScale = new(big.Int).Exp(big.NewInt(10), big.NewInt(BaseUnitDecimals), nil)

// Amount is a price or balance expressed in base units.
// The zero value is a valid zero amount.
type Amount struct {
	units *big.Int
}

func AmountFromUnits(units *big.Int) Amount {
	if units == nil {
		return Amount{}
	}
	return Amount{units: new(big.Int).Set(units)}
}

// ParseAmount converts a decimal display string ("2.5") into base units.
// Only digits and a single decimal point are accepted; fractions longer
// than the base-unit scale cannot be represented and are rejected rather
// than silently rounded.
func ParseAmount(s string) (Amount, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "." {
		return Amount{}, fmt.Errorf("empty amount")
	}

	intPart, fracPart, _ := strings.Cut(s, ".")
	if !isDigits(intPart) || !isDigits(fracPart) {
		return Amount{}, fmt.Errorf("invalid amount %q", s)
	}
	if len(fracPart) > BaseUnitDecimals {
		return Amount{}, fmt.Errorf("amount %q exceeds the %d-decimal scale", s, BaseUnitDecimals)
	}

	if intPart == "" {
		intPart = "0"
	}
	whole, ok := new(big.Int).SetString(intPart, 10)
	if !ok {
		return Amount{}, fmt.Errorf("invalid amount %q", s)
	}
	whole.Mul(whole, baseUnitScale)

	if fracPart != "" {
		frac, ok := new(big.Int).SetString(fracPart+strings.Repeat("0", BaseUnitDecimals-len(fracPart)), 10)
		if !ok {
			return Amount{}, fmt.Errorf("invalid amount %q", s)
		}
		whole.Add(whole, frac)
	}
	return Amount{units: whole}, nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Units returns a copy of the base-unit integer.
func (a Amount) Units() *big.Int {
	if a.units == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(a.units)
}

// String renders the amount as a decimal display string with the
// trailing fractional zeros trimmed ("2.500" -> "2.5", "3.000" -> "3").
func (a Amount) String() string {
	units := a.Units()
	whole, frac := new(big.Int).QuoRem(units, baseUnitScale, new(big.Int))
	if frac.Sign() == 0 {
		return whole.String()
	}
	padded := fmt.Sprintf("%0*s", BaseUnitDecimals, frac.String())
	return whole.String() + "." + strings.TrimRight(padded, "0")
}

func (a Amount) Cmp(b Amount) int {
	return a.Units().Cmp(b.Units())
}

func (a Amount) Add(b Amount) Amount {
	return Amount{units: new(big.Int).Add(a.Units(), b.Units())}
}

// MulUint64 scales the amount by a plain multiplier (gas limit * gas price).
func (a Amount) MulUint64(n uint64) Amount {
	return Amount{units: new(big.Int).Mul(a.Units(), new(big.Int).SetUint64(n))}
}

func (a Amount) Sign() int {
	return a.Units().Sign()
}

func (a Amount) IsZero() bool {
	return a.Sign() == 0
}

// MarshalText / UnmarshalText serialize the base-unit integer, not the
// display string, so stored values survive round trips without rescaling.
func (a Amount) MarshalText() ([]byte, error) {
	return []byte(a.Units().String()), nil
}

func (a *Amount) UnmarshalText(text []byte) error {
	units, ok := new(big.Int).SetString(string(text), 10)
	if !ok {
		return fmt.Errorf("invalid base-unit amount %q", text)
	}
	a.units = units
	return nil
}
