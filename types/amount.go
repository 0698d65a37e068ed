// Package types provides common types used across MintGate.
package types

import (
	"fmt"
	"math/big"
)

// Amount represents a payment value denominated in wei, the smallest
// native currency unit. All arithmetic is arbitrary-precision integer —
// no floating point.
//
// The zero value is a valid zero amount.
//
// Examples:
//   - Wei(1) = 1 wei
//   - Gwei(2) = 2_000_000_000 wei
//   - Ether(1) = 10^18 wei
type Amount struct {
	wei *big.Int
}

var (
	gweiUnit  = big.NewInt(1_000_000_000)
	etherUnit = new(big.Int).Mul(gweiUnit, gweiUnit)
)

// Common constructors

// Wei creates an Amount from a raw wei count.
func Wei(wei int64) Amount { return Amount{wei: big.NewInt(wei)} }

// Gwei creates an Amount from a gwei count (10^9 wei).
func Gwei(gwei int64) Amount {
	return Amount{wei: new(big.Int).Mul(big.NewInt(gwei), gweiUnit)}
}

// Ether creates an Amount from a whole-ether count (10^18 wei).
func Ether(ether int64) Amount {
	return Amount{wei: new(big.Int).Mul(big.NewInt(ether), etherUnit)}
}

// Zero returns the zero Amount.
func Zero() Amount { return Amount{} }

// FromBig creates an Amount from a big.Int wei value. The value is copied.
// Negative values are rejected — payments and balances are never negative.
func FromBig(wei *big.Int) (Amount, error) {
	if wei == nil {
		return Amount{}, nil
	}
	if wei.Sign() < 0 {
		return Amount{}, fmt.Errorf("types: negative amount %s", wei)
	}
	return Amount{wei: new(big.Int).Set(wei)}, nil
}

// Parse parses a decimal wei string into an Amount.
func Parse(s string) (Amount, error) {
	if s == "" {
		return Amount{}, nil
	}
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return Amount{}, fmt.Errorf("types: parse amount %q", s)
	}
	return FromBig(v)
}

// MustParse is like Parse but panics on error. Use for hardcoded values.
func MustParse(s string) Amount {
	a, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return a
}

// big returns the internal value, treating nil as zero. Read-only.
func (a Amount) big() *big.Int {
	if a.wei == nil {
		return new(big.Int)
	}
	return a.wei
}

// BigInt returns a copy of the wei value as a big.Int.
func (a Amount) BigInt() *big.Int { return new(big.Int).Set(a.big()) }

// Arithmetic operations

// Add returns a + other.
func (a Amount) Add(other Amount) Amount {
	return Amount{wei: new(big.Int).Add(a.big(), other.big())}
}

// Sub returns a - other. Panics if the result would be negative, since
// balances and payments are unsigned by construction.
func (a Amount) Sub(other Amount) Amount {
	r := new(big.Int).Sub(a.big(), other.big())
	if r.Sign() < 0 {
		panic(fmt.Sprintf("types: amount underflow: %s - %s", a, other))
	}
	return Amount{wei: r}
}

// Mul returns a * qty. Used to price a batch: unit price times count.
func (a Amount) Mul(qty uint64) Amount {
	return Amount{wei: new(big.Int).Mul(a.big(), new(big.Int).SetUint64(qty))}
}

// Comparison methods

// IsZero returns true if the amount is zero.
func (a Amount) IsZero() bool { return a.big().Sign() == 0 }

// IsPositive returns true if the amount is greater than zero.
func (a Amount) IsPositive() bool { return a.big().Sign() > 0 }

// Cmp compares two Amounts, returning -1, 0 or +1.
func (a Amount) Cmp(other Amount) int { return a.big().Cmp(other.big()) }

// Equal returns true if both Amounts are equal.
func (a Amount) Equal(other Amount) bool { return a.Cmp(other) == 0 }

// LessThan returns true if a < other.
func (a Amount) LessThan(other Amount) bool { return a.Cmp(other) < 0 }

// AtLeast returns true if a >= other.
func (a Amount) AtLeast(other Amount) bool { return a.Cmp(other) >= 0 }

// Formatting

// String returns the decimal wei representation.
func (a Amount) String() string { return a.big().String() }

// FormatEther returns the value formatted in whole ether with up to 18
// fractional digits, trailing zeros trimmed. For display only.
func (a Amount) FormatEther() string {
	whole, frac := new(big.Int).QuoRem(a.big(), etherUnit, new(big.Int))
	if frac.Sign() == 0 {
		return whole.String()
	}
	s := fmt.Sprintf("%s.%018s", whole, frac)
	for s[len(s)-1] == '0' {
		s = s[:len(s)-1]
	}
	return s
}

// MarshalText implements encoding.TextMarshaler as a decimal wei string.
func (a Amount) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Amount) UnmarshalText(data []byte) error {
	parsed, err := Parse(string(data))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// Sum calculates the sum of multiple Amounts.
func Sum(values ...Amount) Amount {
	total := Zero()
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}
