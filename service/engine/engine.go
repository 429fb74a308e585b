package engine

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"dsc/core"
	"dsc/pkg/solvency"
	"dsc/store/ledger"

	"github.com/holiman/uint256"
)

// Params construction input of the engine
type Params struct {
	// Address account of the engine itself on the token ledgers
	Address string
	// Assets collateral asset ids, Oracles[i] is the price feed of Assets[i]
	Assets  []string
	Oracles []string
}

// Option engine option
type Option func(e *Engine)

// WithLedger replaces the default in-memory ledger
func WithLedger(l core.ILedger) Option {
	return func(e *Engine) {
		e.ledger = l
	}
}

// WithPriceGuard installs a check run on every oracle answer before use
func WithPriceGuard(guard core.PriceGuard) Option {
	return func(e *Engine) {
		if guard != nil {
			e.priceGuard = guard
		}
	}
}

// WithEventSink registers sinks notified after each committed operation
func WithEventSink(sinks ...core.EventSink) Option {
	return func(e *Engine) {
		e.sinks = append(e.sinks, sinks...)
	}
}

// WithClock replaces the time source stamped on committed operations
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// Engine solvency engine
//
// The engine is single threaded: guarded operations must not overlap and a
// nested guarded call fails with core.ErrReentrantCall. Use Serialize to share
// an engine between goroutines.
type Engine struct {
	address    string
	assets     []core.Asset
	index      map[string]int
	tokens     map[string]core.ICollateralToken
	feeds      map[string]core.IPriceFeed
	dsc        core.IDebtToken
	ledger     core.ILedger
	priceGuard core.PriceGuard
	sinks      []core.EventSink
	now        func() time.Time

	revertibles []core.Revertible
	entered     atomic.Bool
}

// New new engine, the asset registry is fixed for the lifetime of the engine
func New(
	params Params,
	dsc core.IDebtToken,
	tokens core.ITokenRegistry,
	feeds core.IOracleRegistry,
	opts ...Option,
) (*Engine, error) {
	if len(params.Assets) != len(params.Oracles) {
		return nil, core.ErrConfig
	}

	if strings.TrimSpace(params.Address) == "" {
		return nil, fmt.Errorf("%w: engine address not configured", core.ErrConfig)
	}

	if dsc == nil {
		return nil, fmt.Errorf("%w: debt token not configured", core.ErrConfig)
	}

	e := &Engine{
		address:    params.Address,
		index:      make(map[string]int, len(params.Assets)),
		tokens:     make(map[string]core.ICollateralToken, len(params.Assets)),
		feeds:      make(map[string]core.IPriceFeed, len(params.Assets)),
		dsc:        dsc,
		priceGuard: core.TrustPrice,
		now:        time.Now,
	}

	for i, assetID := range params.Assets {
		if _, ok := e.index[assetID]; ok {
			return nil, fmt.Errorf("%w: duplicate asset %s", core.ErrConfig, assetID)
		}

		token, ok := tokens.Token(assetID)
		if !ok {
			return nil, fmt.Errorf("%w: no token bound to asset %s", core.ErrConfig, assetID)
		}

		oracleID := params.Oracles[i]
		feed, ok := feeds.Feed(oracleID)
		if !ok {
			return nil, fmt.Errorf("%w: no price feed %s", core.ErrConfig, oracleID)
		}

		e.index[assetID] = i
		e.tokens[assetID] = token
		e.feeds[assetID] = feed
		e.assets = append(e.assets, core.Asset{
			AssetID:  assetID,
			OracleID: oracleID,
			Decimals: token.Decimals(),
		})
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.ledger == nil {
		e.ledger = ledger.New()
	}

	e.revertibles = e.collectRevertibles()
	return e, nil
}

// collectRevertibles every distinct state holder that can be rolled back
func (e *Engine) collectRevertibles() []core.Revertible {
	parts := []core.Revertible{e.ledger}
	seen := map[interface{}]bool{e.ledger: true}

	add := func(v interface{}) {
		r, ok := v.(core.Revertible)
		if !ok || seen[v] {
			return
		}

		seen[v] = true
		parts = append(parts, r)
	}

	add(e.dsc)
	for _, asset := range e.assets {
		add(e.tokens[asset.AssetID])
	}

	return parts
}

func (e *Engine) asset(assetID string) (core.Asset, bool) {
	i, ok := e.index[assetID]
	if !ok {
		return core.Asset{}, false
	}

	return e.assets[i], true
}

// Address account of the engine on the token ledgers
func (e *Engine) Address() string {
	return e.address
}

// DebtToken the debt token collaborator
func (e *Engine) DebtToken() core.IDebtToken {
	return e.dsc
}

// CollateralTokens registered asset ids in registration order
func (e *Engine) CollateralTokens() []string {
	ids := make([]string, len(e.assets))
	for i, asset := range e.assets {
		ids[i] = asset.AssetID
	}

	return ids
}

// Asset registry entry of assetID
func (e *Engine) Asset(assetID string) (core.Asset, bool) {
	return e.asset(assetID)
}

// PriceFeed oracle id bound to assetID
func (e *Engine) PriceFeed(assetID string) (string, bool) {
	asset, ok := e.asset(assetID)
	return asset.OracleID, ok
}

// CollateralBalance recorded collateral of account in assetID
func (e *Engine) CollateralBalance(account, assetID string) *uint256.Int {
	return e.ledger.Collateral(account, assetID)
}

// Accounts every account known to the ledger
func (e *Engine) Accounts() []string {
	return e.ledger.Accounts()
}

// Params fixed risk parameters
func (e *Engine) Params() core.Params {
	clone := func(v *uint256.Int) *uint256.Int {
		return new(uint256.Int).Set(v)
	}

	return core.Params{
		Precision:               clone(solvency.Precision),
		AdditionalFeedPrecision: clone(solvency.AdditionalFeedPrecision),
		LiquidationThreshold:    clone(solvency.LiquidationThreshold),
		LiquidationBonus:        clone(solvency.LiquidationBonus),
		LiquidationPrecision:    clone(solvency.LiquidationPrecision),
		MinHealthFactor:         clone(solvency.MinHealthFactor),
	}
}
