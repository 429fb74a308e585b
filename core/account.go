package core

import (
	"github.com/holiman/uint256"
)

// AccountInformation debt and collateral value of an account, both in valuation units
type AccountInformation struct {
	DebtMinted      *uint256.Int `json:"debt_minted"`
	CollateralValue *uint256.Int `json:"collateral_value"`
}

// CollateralBalance balance of one collateral asset held for an account
type CollateralBalance struct {
	AssetID string       `json:"asset_id"`
	Amount  *uint256.Int `json:"amount"`
}

// ILedger per-account collateral and debt balances.
//
// Absent entries read as zero. Decrements that would go negative return
// ErrInsufficientBalance and leave the balance untouched.
type ILedger interface {
	Revertible
	Collateral(account, assetID string) *uint256.Int
	AddCollateral(account, assetID string, amount *uint256.Int) error
	SubCollateral(account, assetID string, amount *uint256.Int) error
	Debt(account string) *uint256.Int
	AddDebt(account string, amount *uint256.Int) error
	SubDebt(account string, amount *uint256.Int) error
	Accounts() []string
}
