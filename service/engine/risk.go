package engine

import (
	"context"

	"dsc/core"
	"dsc/pkg/solvency"

	"github.com/holiman/uint256"
)

// CalculateHealthFactor health factor of a hypothetical position
func (e *Engine) CalculateHealthFactor(debtMinted, collateralValue *uint256.Int) *uint256.Int {
	return solvency.CalculateHealthFactor(debtMinted, collateralValue)
}

// HealthFactor current health factor of account
func (e *Engine) HealthFactor(ctx context.Context, account string) (*uint256.Int, error) {
	info, err := e.AccountInformation(ctx, account)
	if err != nil {
		return nil, err
	}

	return solvency.CalculateHealthFactor(info.DebtMinted, info.CollateralValue), nil
}

func (e *Engine) enforceSolvent(ctx context.Context, account string) error {
	score, err := e.HealthFactor(ctx, account)
	if err != nil {
		return err
	}

	if !solvency.IsSolvent(score) {
		return core.NewHealthFactorError(score)
	}

	return nil
}

// DepositCollateral deposits collateral, no solvency check is needed since
// collateral only grows
func (e *Engine) DepositCollateral(ctx context.Context, caller, assetID string, amount *uint256.Int) error {
	return e.execute(ctx, core.ActionTypeDepositCollateral, caller, func(ctx context.Context, s *scope) error {
		return e.recordDeposit(ctx, s, caller, assetID, amount)
	})
}

// DepositCollateralAndMintDsc deposits collateral and mints debt against it in one step
func (e *Engine) DepositCollateralAndMintDsc(ctx context.Context, caller, assetID string, collateralAmount, mintAmount *uint256.Int) error {
	return e.execute(ctx, core.ActionTypeDepositAndMint, caller, func(ctx context.Context, s *scope) error {
		if err := e.recordDeposit(ctx, s, caller, assetID, collateralAmount); err != nil {
			return err
		}

		if err := e.recordMint(ctx, s, caller, mintAmount); err != nil {
			return err
		}

		return e.enforceSolvent(ctx, caller)
	})
}

// MintDsc mints debt against already deposited collateral
func (e *Engine) MintDsc(ctx context.Context, caller string, amount *uint256.Int) error {
	return e.execute(ctx, core.ActionTypeMint, caller, func(ctx context.Context, s *scope) error {
		if err := e.recordMint(ctx, s, caller, amount); err != nil {
			return err
		}

		return e.enforceSolvent(ctx, caller)
	})
}

// RedeemCollateral withdraws collateral back to the caller
func (e *Engine) RedeemCollateral(ctx context.Context, caller, assetID string, amount *uint256.Int) error {
	return e.execute(ctx, core.ActionTypeRedeemCollateral, caller, func(ctx context.Context, s *scope) error {
		if amount.IsZero() {
			return core.ErrZeroAmount
		}

		if err := e.recordWithdrawal(ctx, s, caller, assetID, amount, caller); err != nil {
			return err
		}

		return e.enforceSolvent(ctx, caller)
	})
}

// BurnDsc repays debt of the caller with its own debt tokens
func (e *Engine) BurnDsc(ctx context.Context, caller string, amount *uint256.Int) error {
	return e.execute(ctx, core.ActionTypeBurn, caller, func(ctx context.Context, s *scope) error {
		if err := e.recordBurn(ctx, s, caller, amount, caller); err != nil {
			return err
		}

		return e.enforceSolvent(ctx, caller)
	})
}

// RedeemCollateralForDsc repays debt then withdraws collateral in one step
func (e *Engine) RedeemCollateralForDsc(ctx context.Context, caller, assetID string, collateralAmount, debtAmount *uint256.Int) error {
	return e.execute(ctx, core.ActionTypeRedeemForBurn, caller, func(ctx context.Context, s *scope) error {
		if collateralAmount.IsZero() {
			return core.ErrZeroAmount
		}

		if _, ok := e.asset(assetID); !ok {
			return core.ErrUnknownAsset
		}

		if err := e.recordBurn(ctx, s, caller, debtAmount, caller); err != nil {
			return err
		}

		if err := e.recordWithdrawal(ctx, s, caller, assetID, collateralAmount, caller); err != nil {
			return err
		}

		return e.enforceSolvent(ctx, caller)
	})
}
