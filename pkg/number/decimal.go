package number

import (
	"errors"
	"fmt"

	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
)

var (
	errNegative = errors.New("number: negative amount")
	errOverflow = errors.New("number: amount overflows 256 bits")
)

func Decimal(v string) decimal.Decimal {
	d, _ := decimal.NewFromString(v)
	return d
}

func Ceil(d decimal.Decimal, precision int32) decimal.Decimal {
	return d.Shift(precision).Ceil().Shift(-precision)
}

// ToUnits converts a decimal amount to its fixed-point integer with the given
// decimals, digits beyond the precision are truncated
func ToUnits(d decimal.Decimal, decimals uint8) (*uint256.Int, error) {
	if d.IsNegative() {
		return nil, errNegative
	}

	v, overflow := uint256.FromBig(d.Shift(int32(decimals)).Truncate(0).BigInt())
	if overflow {
		return nil, errOverflow
	}

	return v, nil
}

// ParseUnits parses "15.5" into 15.5 * 10^decimals
func ParseUnits(v string, decimals uint8) (*uint256.Int, error) {
	d, err := decimal.NewFromString(v)
	if err != nil {
		return nil, fmt.Errorf("number: parse %q: %w", v, err)
	}

	return ToUnits(d, decimals)
}

// MustParseUnits ParseUnits that panics, for constants and tests
func MustParseUnits(v string, decimals uint8) *uint256.Int {
	u, err := ParseUnits(v, decimals)
	if err != nil {
		panic(err)
	}

	return u
}

// ParseInt parses a base 10 integer amount
func ParseInt(v string) (*uint256.Int, error) {
	u, err := uint256.FromDecimal(v)
	if err != nil {
		return nil, fmt.Errorf("number: parse %q: %w", v, err)
	}

	return u, nil
}

// FromUnits converts a fixed-point integer back to a decimal
func FromUnits(u *uint256.Int, decimals uint8) decimal.Decimal {
	if u == nil {
		return decimal.Zero
	}

	return decimal.NewFromBigInt(u.ToBig(), -int32(decimals))
}
