package engine

import (
	"context"
	"fmt"
	"math/big"

	"dsc/core"
	"dsc/pkg/solvency"

	"github.com/holiman/uint256"
)

// price latest answer of the feed bound to asset, FeedDecimals decimals
func (e *Engine) price(ctx context.Context, asset core.Asset) (*uint256.Int, error) {
	round, err := e.feeds[asset.AssetID].LatestRoundData(ctx)
	if err != nil {
		return nil, fmt.Errorf("price feed %s: %w", asset.OracleID, err)
	}

	if err := e.priceGuard(ctx, asset.AssetID, round); err != nil {
		return nil, err
	}

	return answerToUint(round.Answer), nil
}

// answerToUint reinterprets a signed answer as unsigned, negative answers
// wrap around in two's complement
func answerToUint(answer *big.Int) *uint256.Int {
	if answer == nil {
		return new(uint256.Int)
	}

	abs := new(big.Int).Abs(answer)
	v, _ := uint256.FromBig(abs)
	if answer.Sign() < 0 {
		v.Neg(v)
	}

	return v
}

func (e *Engine) toValuationUnits(ctx context.Context, assetID string, amount *uint256.Int) (*uint256.Int, error) {
	asset, ok := e.asset(assetID)
	if !ok {
		return nil, core.ErrUnknownAsset
	}

	price, err := e.price(ctx, asset)
	if err != nil {
		return nil, err
	}

	return solvency.ToValue(price, amount, solvency.Unit(asset.Decimals)), nil
}

func (e *Engine) fromValuationUnits(ctx context.Context, assetID string, value *uint256.Int) (*uint256.Int, error) {
	asset, ok := e.asset(assetID)
	if !ok {
		return nil, core.ErrUnknownAsset
	}

	price, err := e.price(ctx, asset)
	if err != nil {
		return nil, err
	}

	if price.IsZero() {
		return nil, core.ErrZeroPrice
	}

	return solvency.FromValue(price, value, solvency.Unit(asset.Decimals)), nil
}

// UsdValue value of amount units of assetID at the current oracle price
func (e *Engine) UsdValue(ctx context.Context, assetID string, amount *uint256.Int) (*uint256.Int, error) {
	return e.toValuationUnits(ctx, assetID, amount)
}

// TokenAmountFromUsd units of assetID worth usdAmount at the current oracle price
func (e *Engine) TokenAmountFromUsd(ctx context.Context, assetID string, usdAmount *uint256.Int) (*uint256.Int, error) {
	return e.fromValuationUnits(ctx, assetID, usdAmount)
}

// AccountCollateralValue total valuation of every collateral balance of account
func (e *Engine) AccountCollateralValue(ctx context.Context, account string) (*uint256.Int, error) {
	total := new(uint256.Int)

	for _, asset := range e.assets {
		balance := e.ledger.Collateral(account, asset.AssetID)
		value, err := e.toValuationUnits(ctx, asset.AssetID, balance)
		if err != nil {
			return nil, err
		}

		total.Add(total, value)
	}

	return total, nil
}

// AccountInformation debt and collateral value of account
func (e *Engine) AccountInformation(ctx context.Context, account string) (*core.AccountInformation, error) {
	value, err := e.AccountCollateralValue(ctx, account)
	if err != nil {
		return nil, err
	}

	return &core.AccountInformation{
		DebtMinted:      e.ledger.Debt(account),
		CollateralValue: value,
	}, nil
}
