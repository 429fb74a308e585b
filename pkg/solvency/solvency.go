package solvency

import (
	"github.com/holiman/uint256"
)

// Decimals decimals of valuation and debt units
const Decimals uint8 = 18

var (
	// Precision fixed-point precision of valuation and debt units, 1e18
	Precision = uint256.NewInt(1_000_000_000_000_000_000)
	// FeedPrecision precision of oracle answers, 1e8
	FeedPrecision = uint256.NewInt(100_000_000)
	// AdditionalFeedPrecision scales an oracle answer up to Precision, 1e10
	AdditionalFeedPrecision = uint256.NewInt(10_000_000_000)
	// LiquidationThreshold share of collateral value counted toward solvency,
	// 50 means 200% over-collateralization
	LiquidationThreshold = uint256.NewInt(50)
	// LiquidationBonus extra collateral awarded to a liquidator, 10%
	LiquidationBonus = uint256.NewInt(10)
	// LiquidationPrecision denominator of LiquidationThreshold and LiquidationBonus
	LiquidationPrecision = uint256.NewInt(100)
	// MinHealthFactor 1.0 scaled by Precision
	MinHealthFactor = uint256.NewInt(1_000_000_000_000_000_000)
	// MaxHealthFactor health factor of an account without debt
	MaxHealthFactor = new(uint256.Int).SetAllOne()
)

// CalculateHealthFactor health factor of a position
//
// health_factor = (collateral_value * threshold / liquidation_precision) * precision / debt
func CalculateHealthFactor(debtMinted, collateralValue *uint256.Int) *uint256.Int {
	if debtMinted.IsZero() {
		return new(uint256.Int).Set(MaxHealthFactor)
	}

	adjusted := new(uint256.Int).Mul(collateralValue, LiquidationThreshold)
	adjusted.Div(adjusted, LiquidationPrecision)

	score := new(uint256.Int).Mul(adjusted, Precision)
	return score.Div(score, debtMinted)
}

// IsSolvent whether the health factor meets MinHealthFactor
func IsSolvent(healthFactor *uint256.Int) bool {
	return !healthFactor.Lt(MinHealthFactor)
}

// ScalePrice scales an oracle answer to valuation precision
func ScalePrice(price *uint256.Int) *uint256.Int {
	return new(uint256.Int).Mul(price, AdditionalFeedPrecision)
}

// ToValue valuation of amount at price
//
// value = price * additional_feed_precision * amount / unit
func ToValue(price, amount, unit *uint256.Int) *uint256.Int {
	value := new(uint256.Int).Mul(ScalePrice(price), amount)
	return value.Div(value, unit)
}

// FromValue token amount worth value at price, truncated toward zero
//
// amount = value * unit / (price * additional_feed_precision)
func FromValue(price, value, unit *uint256.Int) *uint256.Int {
	amount := new(uint256.Int).Mul(value, unit)
	return amount.Div(amount, ScalePrice(price))
}

// Bonus liquidation bonus on a seized amount
func Bonus(amount *uint256.Int) *uint256.Int {
	bonus := new(uint256.Int).Mul(amount, LiquidationBonus)
	return bonus.Div(bonus, LiquidationPrecision)
}

// Unit 10^decimals
func Unit(decimals uint8) *uint256.Int {
	return new(uint256.Int).Exp(uint256.NewInt(10), uint256.NewInt(uint64(decimals)))
}
