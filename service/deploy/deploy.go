package deploy

import (
	"context"
	"fmt"
	"strings"

	"dsc/core"
	"dsc/pkg/number"
	"dsc/service/engine"
	"dsc/service/oracle"
	"dsc/service/token"

	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
)

// DebtAssetID asset id addressing the debt token in amounts and approvals
const DebtAssetID = "dsc"

// Deployment an engine wired to in-memory collateral tokens, price feeds and
// the debt token it owns. Tokens and Feeds are keyed by asset id.
type Deployment struct {
	Engine *engine.Engine
	Dsc    *token.Stablecoin
	Tokens map[string]*token.Token
	Feeds  map[string]*oracle.Aggregator
}

// New deploys the collaterals of cfg behind a new engine
func New(cfg core.Engine, opts ...engine.Option) (*Deployment, error) {
	d := &Deployment{
		Dsc:    token.NewStablecoin(cfg.Address),
		Tokens: make(map[string]*token.Token, len(cfg.Collaterals)),
		Feeds:  make(map[string]*oracle.Aggregator, len(cfg.Collaterals)),
	}

	var (
		params = engine.Params{Address: cfg.Address}
		tokens = core.TokenMap{}
		feeds  = core.FeedMap{}
	)

	for _, c := range cfg.Collaterals {
		price, err := decimal.NewFromString(c.Price)
		if err != nil {
			return nil, fmt.Errorf("%w: price of %s: %v", core.ErrConfig, c.Symbol, err)
		}

		t := token.New(c.Symbol, c.Symbol, c.Decimals)
		feed := oracle.NewAggregator(oracle.Answer(price))

		d.Tokens[c.AssetID] = t
		d.Feeds[c.AssetID] = feed
		tokens[c.AssetID] = t
		feeds[c.OracleID] = feed

		params.Assets = append(params.Assets, c.AssetID)
		params.Oracles = append(params.Oracles, c.OracleID)
	}

	e, err := engine.New(params, d.Dsc, tokens, feeds, opts...)
	if err != nil {
		return nil, err
	}

	d.Engine = e
	return d, nil
}

// Decimals decimals of assetID, DebtAssetID included
func (d *Deployment) Decimals(assetID string) (uint8, bool) {
	if strings.EqualFold(assetID, DebtAssetID) {
		return d.Dsc.Decimals(), true
	}

	t, ok := d.Tokens[assetID]
	if !ok {
		return 0, false
	}

	return t.Decimals(), true
}

// ParseAmount parses a decimal amount of assetID into its smallest units
func (d *Deployment) ParseAmount(assetID, v string) (*uint256.Int, error) {
	decimals, ok := d.Decimals(assetID)
	if !ok {
		return nil, core.ErrUnknownAsset
	}

	return number.ParseUnits(v, decimals)
}

// Approver token approving spenders by asset id
type Approver interface {
	Approve(ctx context.Context, caller, spender string, amount *uint256.Int) error
}

// Token the token addressed by assetID, DebtAssetID included
func (d *Deployment) Token(assetID string) (Approver, bool) {
	if strings.EqualFold(assetID, DebtAssetID) {
		return d.Dsc, true
	}

	if t, ok := d.Tokens[assetID]; ok {
		return t, true
	}

	return nil, false
}
