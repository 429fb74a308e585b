package core

import (
	"context"

	"github.com/holiman/uint256"
)

// ICollateralToken fungible token accepted as collateral.
//
// The caller argument identifies the account on whose behalf the call is made,
// the engine passes its own address.
type ICollateralToken interface {
	Decimals() uint8
	BalanceOf(ctx context.Context, account string) *uint256.Int
	Transfer(ctx context.Context, caller, to string, amount *uint256.Int) (bool, error)
	TransferFrom(ctx context.Context, caller, from, to string, amount *uint256.Int) (bool, error)
}

// IDebtToken the pegged debt token, mint and burn are restricted to its owner
type IDebtToken interface {
	ICollateralToken
	TotalSupply(ctx context.Context) *uint256.Int
	Mint(ctx context.Context, caller, to string, amount *uint256.Int) (bool, error)
	Burn(ctx context.Context, caller string, amount *uint256.Int) error
}
