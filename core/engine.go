package core

import (
	"context"

	"github.com/holiman/uint256"
)

// Params fixed risk parameters reported by the engine
type Params struct {
	Precision               *uint256.Int `json:"precision"`
	AdditionalFeedPrecision *uint256.Int `json:"additional_feed_precision"`
	LiquidationThreshold    *uint256.Int `json:"liquidation_threshold"`
	LiquidationBonus        *uint256.Int `json:"liquidation_bonus"`
	LiquidationPrecision    *uint256.Int `json:"liquidation_precision"`
	MinHealthFactor         *uint256.Int `json:"min_health_factor"`
}

// IEngine solvency engine boundary. Mutating calls act on behalf of caller
// and either apply completely or not at all.
type IEngine interface {
	DepositCollateralAndMintDsc(ctx context.Context, caller, assetID string, collateralAmount, mintAmount *uint256.Int) error
	DepositCollateral(ctx context.Context, caller, assetID string, amount *uint256.Int) error
	RedeemCollateralForDsc(ctx context.Context, caller, assetID string, collateralAmount, debtAmount *uint256.Int) error
	RedeemCollateral(ctx context.Context, caller, assetID string, amount *uint256.Int) error
	MintDsc(ctx context.Context, caller string, amount *uint256.Int) error
	BurnDsc(ctx context.Context, caller string, amount *uint256.Int) error
	Liquidate(ctx context.Context, caller, collateralAssetID, account string, debtToCover *uint256.Int) error

	HealthFactor(ctx context.Context, account string) (*uint256.Int, error)
	AccountInformation(ctx context.Context, account string) (*AccountInformation, error)
	AccountCollateralValue(ctx context.Context, account string) (*uint256.Int, error)
	UsdValue(ctx context.Context, assetID string, amount *uint256.Int) (*uint256.Int, error)
	TokenAmountFromUsd(ctx context.Context, assetID string, usdAmount *uint256.Int) (*uint256.Int, error)
	CalculateHealthFactor(debtMinted, collateralValue *uint256.Int) *uint256.Int

	CollateralTokens() []string
	CollateralBalance(account, assetID string) *uint256.Int
	PriceFeed(assetID string) (string, bool)
	Asset(assetID string) (Asset, bool)
	DebtToken() IDebtToken
	Address() string
	Params() Params
}

// Exclusive runs fn while no other engine call is in flight. fn receives the
// unwrapped engine and may call it directly.
type Exclusive interface {
	Do(fn func(engine IEngine) error) error
}
