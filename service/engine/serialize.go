package engine

import (
	"context"
	"sync"

	"dsc/core"

	"github.com/holiman/uint256"
)

type serialized struct {
	mu     sync.Mutex
	engine core.IEngine
}

// Serialize makes engine safe for concurrent callers by running one call at
// a time. Collaborators calling back into the engine must hold the unwrapped
// engine, a callback through the wrapper deadlocks.
func Serialize(engine core.IEngine) core.IEngine {
	return &serialized{engine: engine}
}

func (s *serialized) DepositCollateralAndMintDsc(ctx context.Context, caller, assetID string, collateralAmount, mintAmount *uint256.Int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.DepositCollateralAndMintDsc(ctx, caller, assetID, collateralAmount, mintAmount)
}

func (s *serialized) DepositCollateral(ctx context.Context, caller, assetID string, amount *uint256.Int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.DepositCollateral(ctx, caller, assetID, amount)
}

func (s *serialized) RedeemCollateralForDsc(ctx context.Context, caller, assetID string, collateralAmount, debtAmount *uint256.Int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.RedeemCollateralForDsc(ctx, caller, assetID, collateralAmount, debtAmount)
}

func (s *serialized) RedeemCollateral(ctx context.Context, caller, assetID string, amount *uint256.Int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.RedeemCollateral(ctx, caller, assetID, amount)
}

func (s *serialized) MintDsc(ctx context.Context, caller string, amount *uint256.Int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.MintDsc(ctx, caller, amount)
}

func (s *serialized) BurnDsc(ctx context.Context, caller string, amount *uint256.Int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.BurnDsc(ctx, caller, amount)
}

func (s *serialized) Liquidate(ctx context.Context, caller, collateralAssetID, account string, debtToCover *uint256.Int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Liquidate(ctx, caller, collateralAssetID, account, debtToCover)
}

func (s *serialized) HealthFactor(ctx context.Context, account string) (*uint256.Int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.HealthFactor(ctx, account)
}

func (s *serialized) AccountInformation(ctx context.Context, account string) (*core.AccountInformation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.AccountInformation(ctx, account)
}

func (s *serialized) AccountCollateralValue(ctx context.Context, account string) (*uint256.Int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.AccountCollateralValue(ctx, account)
}

func (s *serialized) UsdValue(ctx context.Context, assetID string, amount *uint256.Int) (*uint256.Int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.UsdValue(ctx, assetID, amount)
}

func (s *serialized) TokenAmountFromUsd(ctx context.Context, assetID string, usdAmount *uint256.Int) (*uint256.Int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.TokenAmountFromUsd(ctx, assetID, usdAmount)
}

func (s *serialized) CalculateHealthFactor(debtMinted, collateralValue *uint256.Int) *uint256.Int {
	return s.engine.CalculateHealthFactor(debtMinted, collateralValue)
}

func (s *serialized) CollateralTokens() []string {
	return s.engine.CollateralTokens()
}

func (s *serialized) CollateralBalance(account, assetID string) *uint256.Int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.CollateralBalance(account, assetID)
}

func (s *serialized) PriceFeed(assetID string) (string, bool) {
	return s.engine.PriceFeed(assetID)
}

func (s *serialized) Asset(assetID string) (core.Asset, bool) {
	return s.engine.Asset(assetID)
}

func (s *serialized) DebtToken() core.IDebtToken {
	return s.engine.DebtToken()
}

func (s *serialized) Address() string {
	return s.engine.Address()
}

func (s *serialized) Params() core.Params {
	return s.engine.Params()
}

// Do runs fn with the unwrapped engine while holding the lock
func (s *serialized) Do(fn func(engine core.IEngine) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.engine)
}

// Exclusively runs fn under engine's lock when it has one. Writes to tokens
// and feeds from outside the engine go through here so they never land
// inside an open operation.
func Exclusively(engine core.IEngine, fn func(engine core.IEngine) error) error {
	if x, ok := engine.(core.Exclusive); ok {
		return x.Do(fn)
	}

	return fn(engine)
}
