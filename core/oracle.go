package core

import (
	"context"
	"math/big"
	"time"
)

// RoundData one oracle answer, price carries FeedDecimals decimals
type RoundData struct {
	RoundID         uint64    `json:"round_id"`
	Answer          *big.Int  `json:"answer"`
	StartedAt       time.Time `json:"started_at"`
	UpdatedAt       time.Time `json:"updated_at"`
	AnsweredInRound uint64    `json:"answered_in_round"`
}

// IPriceFeed price feed of one collateral asset
type IPriceFeed interface {
	LatestRoundData(ctx context.Context) (*RoundData, error)
}

// PriceGuard inspects an oracle answer before it is used for valuation.
// Returning an error aborts the calling operation.
type PriceGuard func(ctx context.Context, assetID string, round *RoundData) error

// TrustPrice default PriceGuard, the answer is used as is
func TrustPrice(ctx context.Context, assetID string, round *RoundData) error {
	return nil
}
