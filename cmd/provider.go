package cmd

import (
	"math/big"
	"time"

	"dsc/core"
	"dsc/service/deploy"
	"dsc/service/engine"
	"dsc/service/journal"
	"dsc/service/oracle"
	"dsc/service/session"
	"dsc/store/transaction"
	"dsc/worker/priceoracle"

	"github.com/fox-one/pkg/store/db"
)

func provideDatabase() *db.DB {
	return db.MustOpen(cfg.DB)
}

func provideTransactionStore(db *db.DB) core.TransactionStore {
	return transaction.Cache(transaction.New(db), time.Minute)
}

func provideDeployment(sinks ...core.EventSink) *deploy.Deployment {
	opts := []engine.Option{engine.WithEventSink(sinks...)}
	if s := cfg.PriceOracle.MaxStaleness; s > 0 {
		opts = append(opts, engine.WithPriceGuard(oracle.StaleCheck(time.Duration(s)*time.Second, nil)))
	}

	d, err := deploy.New(cfg.Engine, opts...)
	if err != nil {
		panic(err)
	}

	return d
}

func provideRecorder(transactions core.TransactionStore) *journal.Recorder {
	return journal.New(transactions)
}

func provideTickerClient() *oracle.TickerClient {
	return oracle.NewTickerClient(cfg.PriceOracle.EndPoint, time.Duration(cfg.PriceOracle.CacheTTL)*time.Second)
}

func provideSession() *session.Session {
	return session.New(cfg.Session.Secret)
}

// exclusiveFeed publishes answers between engine calls only
type exclusiveFeed struct {
	eng  core.IEngine
	feed priceoracle.Publisher
}

func (f exclusiveFeed) UpdateAnswer(answer *big.Int) {
	_ = engine.Exclusively(f.eng, func(core.IEngine) error {
		f.feed.UpdateAnswer(answer)
		return nil
	})
}

func providePriceWorker(d *deploy.Deployment, eng core.IEngine) *priceoracle.Worker {
	markets := make([]priceoracle.Market, 0, len(cfg.Engine.Collaterals))
	for _, c := range cfg.Engine.Collaterals {
		markets = append(markets, priceoracle.Market{
			Symbol: c.Symbol,
			Feed:   exclusiveFeed{eng: eng, feed: d.Feeds[c.AssetID]},
		})
	}

	return priceoracle.New("@every "+cfg.PriceOracle.Interval, provideTickerClient(), markets)
}
