package transaction

import (
	"context"
	"time"

	"dsc/core"

	"github.com/bluele/gcache"
	"golang.org/x/sync/singleflight"
)

// Cache caches committed transactions by trace id, records never change once written
func Cache(store core.TransactionStore, exp time.Duration) core.TransactionStore {
	return &cacheTransactionStore{
		TransactionStore: store,
		cache:            gcache.New(2048).LRU().Expiration(exp).Build(),
		sf:               &singleflight.Group{},
	}
}

type cacheTransactionStore struct {
	core.TransactionStore
	cache gcache.Cache
	sf    *singleflight.Group
}

func (s *cacheTransactionStore) Create(ctx context.Context, transaction *core.Transaction) error {
	if err := s.TransactionStore.Create(ctx, transaction); err != nil {
		return err
	}

	_ = s.cache.Set(transaction.TraceID, transaction)
	return nil
}

func (s *cacheTransactionStore) FindByTraceID(ctx context.Context, traceID string) (*core.Transaction, error) {
	if v, err := s.cache.Get(traceID); err == nil {
		if transaction, ok := v.(*core.Transaction); ok {
			return transaction, nil
		}
	}

	v, err, _ := s.sf.Do(traceID, func() (interface{}, error) {
		transaction, err := s.TransactionStore.FindByTraceID(ctx, traceID)
		if err != nil {
			return nil, err
		}

		_ = s.cache.Set(traceID, transaction)
		return transaction, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*core.Transaction), nil
}
