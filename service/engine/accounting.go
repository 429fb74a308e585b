package engine

import (
	"context"
	"fmt"

	"dsc/core"

	"github.com/holiman/uint256"
)

// collaborator results: an error is propagated with context, a plain false
// becomes failure
func transferResult(method, assetID string, ok bool, err error) error {
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, assetID, err)
	}

	if !ok {
		return core.ErrTransferFailed
	}

	return nil
}

// recordDeposit credits account and pulls amount from it into the engine
func (e *Engine) recordDeposit(ctx context.Context, s *scope, account, assetID string, amount *uint256.Int) error {
	if amount.IsZero() {
		return core.ErrZeroAmount
	}

	token, ok := e.tokens[assetID]
	if !ok {
		return core.ErrUnknownAsset
	}

	if err := e.ledger.AddCollateral(account, assetID, amount); err != nil {
		return err
	}

	s.emit(core.Event{
		Type:    core.EventCollateralDeposited,
		From:    account,
		AssetID: assetID,
		Amount:  new(uint256.Int).Set(amount),
	})

	ok, err := token.TransferFrom(ctx, e.address, account, e.address, amount)
	return transferResult("transferFrom", assetID, ok, err)
}

// recordWithdrawal debits from and pushes amount out of the engine to to
func (e *Engine) recordWithdrawal(ctx context.Context, s *scope, from, assetID string, amount *uint256.Int, to string) error {
	token, ok := e.tokens[assetID]
	if !ok {
		return core.ErrUnknownAsset
	}

	if err := e.ledger.SubCollateral(from, assetID, amount); err != nil {
		return err
	}

	s.emit(core.Event{
		Type:    core.EventCollateralRedeemed,
		From:    from,
		To:      to,
		AssetID: assetID,
		Amount:  new(uint256.Int).Set(amount),
	})

	ok, err := token.Transfer(ctx, e.address, to, amount)
	return transferResult("transfer", assetID, ok, err)
}

// recordMint adds debt to account and mints the same amount to it
func (e *Engine) recordMint(ctx context.Context, s *scope, account string, amount *uint256.Int) error {
	if amount.IsZero() {
		return core.ErrZeroAmount
	}

	if err := e.ledger.AddDebt(account, amount); err != nil {
		return err
	}

	s.emit(core.Event{
		Type:   core.EventDscMinted,
		From:   account,
		Amount: new(uint256.Int).Set(amount),
	})

	ok, err := e.dsc.Mint(ctx, e.address, account, amount)
	if err != nil {
		return fmt.Errorf("mint: %w", err)
	}

	if !ok {
		return core.ErrMintFailed
	}

	return nil
}

// recordBurn reduces the debt of onBehalfOf, pulls amount of debt token from
// payer and destroys it
func (e *Engine) recordBurn(ctx context.Context, s *scope, onBehalfOf string, amount *uint256.Int, payer string) error {
	// the debt token refuses zero burns as well
	if amount.IsZero() {
		return core.ErrZeroAmount
	}

	if err := e.ledger.SubDebt(onBehalfOf, amount); err != nil {
		return err
	}

	s.emit(core.Event{
		Type:   core.EventDscBurned,
		From:   onBehalfOf,
		To:     payer,
		Amount: new(uint256.Int).Set(amount),
	})

	ok, err := e.dsc.TransferFrom(ctx, e.address, payer, e.address, amount)
	if err := transferResult("transferFrom", "dsc", ok, err); err != nil {
		return err
	}

	if err := e.dsc.Burn(ctx, e.address, amount); err != nil {
		return fmt.Errorf("burn: %w", err)
	}

	return nil
}
