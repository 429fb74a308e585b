package oracle

import (
	"context"
	"math/big"
	"sync"
	"time"

	"dsc/core"
)

// FeedDecimals decimals of every answer published by the aggregators
const FeedDecimals = 8

// Aggregator in-memory price feed updated by its owner
type Aggregator struct {
	mu    sync.RWMutex
	round core.RoundData
	now   func() time.Time
}

// NewAggregator new aggregator publishing initial as round 1
func NewAggregator(initial *big.Int) *Aggregator {
	a := &Aggregator{now: time.Now}
	a.UpdateAnswer(initial)
	return a
}

// SetClock replaces the time source used to stamp new rounds
func (a *Aggregator) SetClock(now func() time.Time) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.now = now
}

// UpdateAnswer publishes answer as a new round
func (a *Aggregator) UpdateAnswer(answer *big.Int) {
	a.mu.Lock()
	defer a.mu.Unlock()

	ts := a.now()
	id := a.round.RoundID + 1
	a.round = core.RoundData{
		RoundID:         id,
		Answer:          new(big.Int).Set(answer),
		StartedAt:       ts,
		UpdatedAt:       ts,
		AnsweredInRound: id,
	}
}

// UpdateRoundData publishes a fully specified round
func (a *Aggregator) UpdateRoundData(roundID uint64, answer *big.Int, startedAt, updatedAt time.Time) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.round = core.RoundData{
		RoundID:         roundID,
		Answer:          new(big.Int).Set(answer),
		StartedAt:       startedAt,
		UpdatedAt:       updatedAt,
		AnsweredInRound: roundID,
	}
}

func (a *Aggregator) LatestRoundData(ctx context.Context) (*core.RoundData, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	round := a.round
	round.Answer = new(big.Int).Set(a.round.Answer)
	return &round, nil
}

// LatestPrice latest answer and its update time
func (a *Aggregator) LatestPrice(ctx context.Context) (*big.Int, time.Time, error) {
	round, err := a.LatestRoundData(ctx)
	if err != nil {
		return nil, time.Time{}, err
	}

	return round.Answer, round.UpdatedAt, nil
}
