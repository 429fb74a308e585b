package views

import (
	"time"

	"dsc/core"
	"dsc/pkg/number"
	"dsc/pkg/solvency"

	"github.com/holiman/uint256"
)

// Asset collateral asset view
type Asset struct {
	AssetID  string `json:"asset_id"`
	Symbol   string `json:"symbol,omitempty"`
	OracleID string `json:"oracle_id"`
	Decimals uint8  `json:"decimals"`
	Price    string `json:"price,omitempty"`
}

// Collateral one collateral balance
type Collateral struct {
	AssetID string `json:"asset_id"`
	Amount  string `json:"amount"`
	Value   string `json:"value"`
}

// Account account view
type Account struct {
	Account         string       `json:"account"`
	DebtMinted      string       `json:"debt_minted"`
	CollateralValue string       `json:"collateral_value"`
	HealthFactor    string       `json:"health_factor"`
	Solvent         bool         `json:"solvent"`
	Collaterals     []Collateral `json:"collaterals"`
}

// Transaction transaction view
type Transaction struct {
	TraceID   string       `json:"trace_id"`
	Action    string       `json:"action"`
	Caller    string       `json:"caller"`
	Target    string       `json:"target,omitempty"`
	AssetID   string       `json:"asset_id,omitempty"`
	Amount    string       `json:"amount,omitempty"`
	Events    []core.Event `json:"events,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
}

// Units formats a fixed-point amount as a decimal string
func Units(u *uint256.Int, decimals uint8) string {
	return number.FromUnits(u, decimals).String()
}

// Value formats valuation units
func Value(u *uint256.Int) string {
	return Units(u, solvency.Decimals)
}

// HealthFactor formats a health factor, "inf" for accounts without debt
func HealthFactor(hf *uint256.Int) string {
	if hf.Eq(solvency.MaxHealthFactor) {
		return "inf"
	}

	return Value(hf)
}

// TransactionView renders a stored transaction
func TransactionView(t *core.Transaction) Transaction {
	events, _ := t.UnmarshalEvents()
	return Transaction{
		TraceID:   t.TraceID,
		Action:    t.Action.String(),
		Caller:    t.Caller,
		Target:    t.Target,
		AssetID:   t.AssetID,
		Amount:    t.Amount,
		Events:    events,
		CreatedAt: t.CreatedAt,
	}
}

// TransactionViews renders stored transactions
func TransactionViews(transactions []*core.Transaction) []Transaction {
	views := make([]Transaction, 0, len(transactions))
	for _, t := range transactions {
		views = append(views, TransactionView(t))
	}

	return views
}

// Ack acknowledgement of a call without a result body
type Ack struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Accepted ack of a successful call
var Accepted = Ack{Message: "success"}
