package core

import (
	"context"
	"time"

	"github.com/holiman/uint256"
)

// EventType ledger event emitted by the engine
type EventType string

const (
	// EventCollateralDeposited collateral credited to an account
	EventCollateralDeposited EventType = "collateral_deposited"
	// EventCollateralRedeemed collateral debited from an account and sent out
	EventCollateralRedeemed EventType = "collateral_redeemed"
	// EventDscMinted debt minted to an account
	EventDscMinted EventType = "dsc_minted"
	// EventDscBurned debt of an account repaid and destroyed
	EventDscBurned EventType = "dsc_burned"
	// EventLiquidated account liquidated by a third party
	EventLiquidated EventType = "liquidated"
)

// Event one ledger change. From is the account whose balance moved, To the
// counterparty receiving collateral or paying debt.
type Event struct {
	Type    EventType    `json:"type"`
	From    string       `json:"from"`
	To      string       `json:"to,omitempty"`
	AssetID string       `json:"asset_id,omitempty"`
	Amount  *uint256.Int `json:"amount"`
}

// Operation committed top-level engine operation and the events it produced
type Operation struct {
	Action      ActionType `json:"action"`
	Caller      string     `json:"caller"`
	Events      []Event    `json:"events"`
	CommittedAt time.Time  `json:"committed_at"`
}

// EventSink receives operations after they commit. Operations that roll back
// are never delivered.
type EventSink interface {
	OnCommit(ctx context.Context, op *Operation)
}
