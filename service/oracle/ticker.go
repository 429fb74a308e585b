package oracle

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"time"

	"dsc/pkg/resthttp"

	"github.com/bluele/gcache"
	"github.com/fox-one/pkg/logger"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"
)

// Ticker price reported by the ticker endpoint
type Ticker struct {
	Symbol string          `json:"symbol"`
	Price  decimal.Decimal `json:"price"`
}

// TickerClient pulls usd prices from a ticker endpoint
type TickerClient struct {
	endpoint string
	cache    gcache.Cache
	sf       singleflight.Group
}

// NewTickerClient new ticker client, answers are cached for ttl
func NewTickerClient(endpoint string, ttl time.Duration) *TickerClient {
	builder := gcache.New(256).LRU()
	if ttl > 0 {
		builder = builder.Expiration(ttl)
	}

	return &TickerClient{
		endpoint: strings.TrimSuffix(endpoint, "/"),
		cache:    builder.Build(),
	}
}

// Pull latest ticker of symbol
func (c *TickerClient) Pull(ctx context.Context, symbol string) (*Ticker, error) {
	if v, err := c.cache.Get(symbol); err == nil {
		if ticker, ok := v.(*Ticker); ok {
			return ticker, nil
		}
	}

	v, err, _ := c.sf.Do(symbol, func() (interface{}, error) {
		return c.pull(ctx, symbol)
	})
	if err != nil {
		return nil, err
	}

	return v.(*Ticker), nil
}

func (c *TickerClient) pull(ctx context.Context, symbol string) (*Ticker, error) {
	url := fmt.Sprintf("%s/api/tickers/%s", c.endpoint, symbol)
	logger.FromContext(ctx).Debugln("pull price:", url)

	resp, err := resthttp.Request(ctx).Get(url)
	if err != nil {
		return nil, err
	}

	var ticker Ticker
	if err := resthttp.ParseResponse(resp, &ticker); err != nil {
		return nil, err
	}

	if ticker.Symbol == "" {
		ticker.Symbol = symbol
	}

	_ = c.cache.Set(symbol, &ticker)
	return &ticker, nil
}

// Answer converts a usd price to a feed answer with FeedDecimals decimals
func Answer(price decimal.Decimal) *big.Int {
	return price.Shift(FeedDecimals).Truncate(0).BigInt()
}
