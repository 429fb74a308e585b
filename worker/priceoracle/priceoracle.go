package priceoracle

import (
	"context"
	"math/big"

	"dsc/service/oracle"
	"dsc/worker"

	"github.com/fox-one/pkg/logger"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// Source price ticker source
type Source interface {
	Pull(ctx context.Context, symbol string) (*oracle.Ticker, error)
}

// Publisher price feed accepting new answers
type Publisher interface {
	UpdateAnswer(answer *big.Int)
}

// Market feed fed by the ticker of Symbol
type Market struct {
	Symbol string
	Feed   Publisher
}

// Worker pushes ticker prices into the price feeds
type Worker struct {
	worker.TickWorker
	source  Source
	markets []Market
}

// New new price oracle worker
func New(schedule string, source Source, markets []Market) *Worker {
	return &Worker{
		TickWorker: worker.TickWorker{Schedule: schedule},
		source:     source,
		markets:    markets,
	}
}

// Run run worker
func (w *Worker) Run(ctx context.Context) error {
	return w.StartTick(ctx, func(ctx context.Context) error {
		return w.onWork(ctx)
	})
}

func (w *Worker) onWork(ctx context.Context) error {
	log := logger.FromContext(ctx).WithField("worker", "priceoracle")

	if len(w.markets) == 0 {
		log.Infoln("no market found!!!")
		return nil
	}

	var g errgroup.Group
	for _, m := range w.markets {
		market := m
		g.Go(func() error {
			ticker, err := w.source.Pull(ctx, market.Symbol)
			if err != nil {
				log.WithError(err).Errorln("pull price ticker", market.Symbol)
				return err
			}

			if ticker.Price.LessThanOrEqual(decimal.Zero) {
				log.Errorln("invalid ticker price:", ticker.Symbol, ":", ticker.Price)
				return nil
			}

			market.Feed.UpdateAnswer(oracle.Answer(ticker.Price))
			log.Debugln("price updated", market.Symbol, ticker.Price)
			return nil
		})
	}

	return g.Wait()
}
