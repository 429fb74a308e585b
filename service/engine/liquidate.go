package engine

import (
	"context"

	"dsc/core"
	"dsc/pkg/solvency"

	"github.com/holiman/uint256"
)

// Liquidate repays debtToCover of an under-collateralized account on its
// behalf and pays the caller the equivalent collateral plus the liquidation
// bonus. The caller provides the debt tokens.
func (e *Engine) Liquidate(ctx context.Context, caller, collateralAssetID, account string, debtToCover *uint256.Int) error {
	return e.execute(ctx, core.ActionTypeLiquidate, caller, func(ctx context.Context, s *scope) error {
		if debtToCover.IsZero() {
			return core.ErrZeroAmount
		}

		if _, ok := e.asset(collateralAssetID); !ok {
			return core.ErrUnknownAsset
		}

		before, err := e.HealthFactor(ctx, account)
		if err != nil {
			return err
		}

		if solvency.IsSolvent(before) {
			return core.ErrHealthFactorOk
		}

		covered, err := e.fromValuationUnits(ctx, collateralAssetID, debtToCover)
		if err != nil {
			return err
		}

		seized := new(uint256.Int).Add(covered, solvency.Bonus(covered))
		if err := e.recordWithdrawal(ctx, s, account, collateralAssetID, seized, caller); err != nil {
			return err
		}

		if err := e.recordBurn(ctx, s, account, debtToCover, caller); err != nil {
			return err
		}

		after, err := e.HealthFactor(ctx, account)
		if err != nil {
			return err
		}

		if !after.Gt(before) {
			return core.ErrHealthFactorNotImproved
		}

		if err := e.enforceSolvent(ctx, account); err != nil {
			return err
		}

		s.emit(core.Event{
			Type:    core.EventLiquidated,
			From:    account,
			To:      caller,
			AssetID: collateralAssetID,
			Amount:  new(uint256.Int).Set(debtToCover),
		})

		return nil
	})
}
