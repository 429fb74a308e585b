package engine

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"dsc/core"
	"dsc/pkg/solvency"
	"dsc/service/oracle"
	"dsc/service/token"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	engineAddress = "dsc-engine"
	user          = "user"
	liquidator    = "liquidator"
)

func ether(n uint64) *uint256.Int {
	return new(uint256.Int).Mul(uint256.NewInt(n), solvency.Precision)
}

func usd(price int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(price), big.NewInt(100_000_000))
}

type recorder struct {
	ops []*core.Operation
}

func (r *recorder) OnCommit(_ context.Context, op *core.Operation) {
	r.ops = append(r.ops, op)
}

type fixture struct {
	engine  *Engine
	dsc     *token.Stablecoin
	weth    *token.Token
	wbtc    *token.Token
	ethFeed *oracle.Aggregator
	btcFeed *oracle.Aggregator
	sink    *recorder
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	f := &fixture{
		dsc:     token.NewStablecoin(engineAddress),
		weth:    token.New("Wrapped Ether", "WETH", 18),
		wbtc:    token.New("Wrapped Bitcoin", "WBTC", 8),
		ethFeed: oracle.NewAggregator(usd(2000)),
		btcFeed: oracle.NewAggregator(usd(1000)),
		sink:    &recorder{},
	}

	e, err := New(
		Params{
			Address: engineAddress,
			Assets:  []string{"weth", "wbtc"},
			Oracles: []string{"eth-usd", "btc-usd"},
		},
		f.dsc,
		core.TokenMap{"weth": f.weth, "wbtc": f.wbtc},
		core.FeedMap{"eth-usd": f.ethFeed, "btc-usd": f.btcFeed},
		append([]Option{WithEventSink(f.sink)}, opts...)...,
	)
	require.NoError(t, err)
	f.engine = e

	ctx := context.Background()
	require.NoError(t, f.weth.Mint(ctx, user, ether(10)))
	require.NoError(t, f.weth.Mint(ctx, liquidator, ether(20)))
	return f
}

func (f *fixture) depositAndMint(t *testing.T, account string, collateral, debt *uint256.Int) {
	ctx := context.Background()
	require.NoError(t, f.weth.Approve(ctx, account, engineAddress, collateral))
	require.NoError(t, f.engine.DepositCollateralAndMintDsc(ctx, account, "weth", collateral, debt))
}

func TestNew(t *testing.T) {
	dsc := token.NewStablecoin(engineAddress)
	weth := token.New("Wrapped Ether", "WETH", 18)
	tokens := core.TokenMap{"weth": weth}
	feeds := core.FeedMap{"eth-usd": oracle.NewAggregator(usd(2000))}

	t.Run("length mismatch", func(t *testing.T) {
		_, err := New(Params{Address: engineAddress, Assets: []string{"weth"}}, dsc, tokens, feeds)
		assert.ErrorIs(t, err, core.ErrConfig)
	})

	t.Run("duplicate asset", func(t *testing.T) {
		_, err := New(Params{
			Address: engineAddress,
			Assets:  []string{"weth", "weth"},
			Oracles: []string{"eth-usd", "eth-usd"},
		}, dsc, tokens, feeds)
		assert.ErrorIs(t, err, core.ErrConfig)
	})

	t.Run("unbound token", func(t *testing.T) {
		_, err := New(Params{Address: engineAddress, Assets: []string{"wbtc"}, Oracles: []string{"eth-usd"}}, dsc, tokens, feeds)
		assert.ErrorIs(t, err, core.ErrConfig)
	})

	t.Run("unbound feed", func(t *testing.T) {
		_, err := New(Params{Address: engineAddress, Assets: []string{"weth"}, Oracles: []string{"btc-usd"}}, dsc, tokens, feeds)
		assert.ErrorIs(t, err, core.ErrConfig)
	})

	t.Run("empty address", func(t *testing.T) {
		_, err := New(Params{Assets: []string{"weth"}, Oracles: []string{"eth-usd"}}, dsc, tokens, feeds)
		assert.ErrorIs(t, err, core.ErrConfig)
	})

	t.Run("registry", func(t *testing.T) {
		e, err := New(Params{Address: engineAddress, Assets: []string{"weth"}, Oracles: []string{"eth-usd"}}, dsc, tokens, feeds)
		require.NoError(t, err)

		assert.Equal(t, []string{"weth"}, e.CollateralTokens())
		oracleID, ok := e.PriceFeed("weth")
		assert.True(t, ok)
		assert.Equal(t, "eth-usd", oracleID)

		asset, ok := e.Asset("weth")
		assert.True(t, ok)
		assert.Equal(t, uint8(18), asset.Decimals)

		_, ok = e.PriceFeed("wbtc")
		assert.False(t, ok)
		assert.Equal(t, engineAddress, e.Address())
		assert.Equal(t, "50", e.Params().LiquidationThreshold.Dec())
	})
}

func TestUsdValue(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	value, err := f.engine.UsdValue(ctx, "weth", ether(15))
	require.NoError(t, err)
	assert.Equal(t, ether(30000).Dec(), value.Dec())

	// 8 decimals collateral
	value, err = f.engine.UsdValue(ctx, "wbtc", uint256.NewInt(200_000_000))
	require.NoError(t, err)
	assert.Equal(t, ether(2000).Dec(), value.Dec())

	_, err = f.engine.UsdValue(ctx, "doge", ether(1))
	assert.ErrorIs(t, err, core.ErrUnknownAsset)
}

func TestTokenAmountFromUsd(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	amount, err := f.engine.TokenAmountFromUsd(ctx, "weth", ether(100))
	require.NoError(t, err)
	assert.Equal(t, "50000000000000000", amount.Dec())

	// truncates toward zero, never over-credits
	f.ethFeed.UpdateAnswer(usd(3))
	for _, n := range []uint64{1, 7, 10, 333} {
		value, err := f.engine.UsdValue(ctx, "weth", ether(n))
		require.NoError(t, err)
		back, err := f.engine.TokenAmountFromUsd(ctx, "weth", value)
		require.NoError(t, err)
		assert.Equal(t, ether(n).Dec(), back.Dec())
	}

	f.ethFeed.UpdateAnswer(big.NewInt(333_333_333))
	odd := uint256.NewInt(1_000_000_007)
	value, err := f.engine.UsdValue(ctx, "weth", odd)
	require.NoError(t, err)
	back, err := f.engine.TokenAmountFromUsd(ctx, "weth", value)
	require.NoError(t, err)
	assert.False(t, back.Gt(odd))

	f.ethFeed.UpdateAnswer(big.NewInt(0))
	_, err = f.engine.TokenAmountFromUsd(ctx, "weth", ether(1))
	assert.ErrorIs(t, err, core.ErrZeroPrice)
}

func TestHealthFactorWithoutDebt(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	score, err := f.engine.HealthFactor(ctx, "nobody")
	require.NoError(t, err)
	assert.True(t, score.Eq(solvency.MaxHealthFactor))

	require.NoError(t, f.weth.Approve(ctx, user, engineAddress, ether(1)))
	require.NoError(t, f.engine.DepositCollateral(ctx, user, "weth", ether(1)))

	score, err = f.engine.HealthFactor(ctx, user)
	require.NoError(t, err)
	assert.True(t, score.Eq(solvency.MaxHealthFactor))
}

func TestDepositCollateral(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	err := f.engine.DepositCollateral(ctx, user, "weth", ether(10))
	assert.ErrorIs(t, err, core.ErrInsufficientAllowance)
	assert.True(t, f.engine.CollateralBalance(user, "weth").IsZero())

	assert.ErrorIs(t, f.engine.DepositCollateral(ctx, user, "weth", new(uint256.Int)), core.ErrZeroAmount)
	assert.ErrorIs(t, f.engine.DepositCollateral(ctx, user, "doge", ether(1)), core.ErrUnknownAsset)
	assert.Empty(t, f.sink.ops)

	require.NoError(t, f.weth.Approve(ctx, user, engineAddress, ether(10)))
	require.NoError(t, f.engine.DepositCollateral(ctx, user, "weth", ether(10)))

	assert.Equal(t, ether(10).Dec(), f.engine.CollateralBalance(user, "weth").Dec())
	assert.Equal(t, ether(10).Dec(), f.weth.BalanceOf(ctx, engineAddress).Dec())
	assert.True(t, f.weth.BalanceOf(ctx, user).IsZero())

	info, err := f.engine.AccountInformation(ctx, user)
	require.NoError(t, err)
	assert.True(t, info.DebtMinted.IsZero())
	assert.Equal(t, ether(20000).Dec(), info.CollateralValue.Dec())

	require.Len(t, f.sink.ops, 1)
	op := f.sink.ops[0]
	assert.Equal(t, core.ActionTypeDepositCollateral, op.Action)
	require.Len(t, op.Events, 1)
	assert.Equal(t, core.EventCollateralDeposited, op.Events[0].Type)
	assert.Equal(t, user, op.Events[0].From)
	assert.Equal(t, "weth", op.Events[0].AssetID)
}

func TestMintDsc(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.depositAndMint(t, user, ether(10), ether(100))

	score, err := f.engine.HealthFactor(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, ether(100).Dec(), score.Dec())
	assert.Equal(t, ether(100).Dec(), f.dsc.BalanceOf(ctx, user).Dec())

	err = f.engine.MintDsc(ctx, user, ether(20000))
	var hfErr *core.HealthFactorError
	require.True(t, errors.As(err, &hfErr))
	assert.ErrorIs(t, err, core.ErrInsufficientHealthFactor)
	expect := solvency.CalculateHealthFactor(ether(20100), ether(20000))
	assert.Equal(t, expect.Dec(), hfErr.Score.Dec())

	// the external mint was rolled back with the ledger
	info, err := f.engine.AccountInformation(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, ether(100).Dec(), info.DebtMinted.Dec())
	assert.Equal(t, ether(100).Dec(), f.dsc.BalanceOf(ctx, user).Dec())
	assert.Equal(t, ether(100).Dec(), f.dsc.TotalSupply(ctx).Dec())

	assert.ErrorIs(t, f.engine.MintDsc(ctx, user, new(uint256.Int)), core.ErrZeroAmount)
	require.NoError(t, f.engine.MintDsc(ctx, user, ether(9900)))
	assert.Equal(t, ether(10000).Dec(), f.dsc.TotalSupply(ctx).Dec())
}

func TestRedeemCollateralBreaksHealthFactor(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.depositAndMint(t, user, ether(10), ether(100))

	err := f.engine.RedeemCollateral(ctx, user, "weth", ether(10))
	var hfErr *core.HealthFactorError
	require.True(t, errors.As(err, &hfErr))
	assert.True(t, hfErr.Score.IsZero())

	assert.Equal(t, ether(10).Dec(), f.engine.CollateralBalance(user, "weth").Dec())
	assert.Equal(t, ether(10).Dec(), f.weth.BalanceOf(ctx, engineAddress).Dec())
	assert.True(t, f.weth.BalanceOf(ctx, user).IsZero())

	assert.ErrorIs(t, f.engine.RedeemCollateral(ctx, user, "weth", ether(11)), core.ErrInsufficientBalance)
	assert.ErrorIs(t, f.engine.RedeemCollateral(ctx, user, "weth", new(uint256.Int)), core.ErrZeroAmount)
	assert.ErrorIs(t, f.engine.RedeemCollateral(ctx, user, "wbtc", ether(1)), core.ErrInsufficientBalance)

	require.NoError(t, f.engine.RedeemCollateral(ctx, user, "weth", ether(9)))
	assert.Equal(t, ether(9).Dec(), f.weth.BalanceOf(ctx, user).Dec())
}

func TestFullCycle(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	before := f.weth.BalanceOf(ctx, user)

	f.depositAndMint(t, user, ether(10), ether(100))

	assert.ErrorIs(t, f.engine.BurnDsc(ctx, user, ether(100)), core.ErrInsufficientAllowance)

	require.NoError(t, f.dsc.Approve(ctx, user, engineAddress, ether(100)))
	require.NoError(t, f.engine.BurnDsc(ctx, user, ether(100)))
	require.NoError(t, f.engine.RedeemCollateral(ctx, user, "weth", ether(10)))

	info, err := f.engine.AccountInformation(ctx, user)
	require.NoError(t, err)
	assert.True(t, info.DebtMinted.IsZero())
	assert.True(t, info.CollateralValue.IsZero())
	assert.Equal(t, before.Dec(), f.weth.BalanceOf(ctx, user).Dec())
	assert.True(t, f.weth.BalanceOf(ctx, engineAddress).IsZero())
	assert.True(t, f.dsc.TotalSupply(ctx).IsZero())
	assert.True(t, f.dsc.BalanceOf(ctx, engineAddress).IsZero())

	var actions []core.ActionType
	for _, op := range f.sink.ops {
		actions = append(actions, op.Action)
	}
	assert.Equal(t, []core.ActionType{
		core.ActionTypeDepositAndMint,
		core.ActionTypeBurn,
		core.ActionTypeRedeemCollateral,
	}, actions)
}

func TestRedeemCollateralForDsc(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.depositAndMint(t, user, ether(10), ether(100))
	require.NoError(t, f.dsc.Approve(ctx, user, engineAddress, ether(100)))

	assert.ErrorIs(t, f.engine.RedeemCollateralForDsc(ctx, user, "weth", new(uint256.Int), ether(100)), core.ErrZeroAmount)
	assert.ErrorIs(t, f.engine.RedeemCollateralForDsc(ctx, user, "doge", ether(1), ether(100)), core.ErrUnknownAsset)
	assert.ErrorIs(t, f.engine.RedeemCollateralForDsc(ctx, user, "weth", ether(11), ether(100)), core.ErrInsufficientBalance)

	// a zero debt leg fails like a zero burn of the debt token, the collateral stays put
	assert.ErrorIs(t, f.engine.RedeemCollateralForDsc(ctx, user, "weth", ether(1), new(uint256.Int)), core.ErrZeroAmount)
	assert.Equal(t, ether(10).Dec(), f.engine.CollateralBalance(user, "weth").Dec())
	assert.True(t, f.weth.BalanceOf(ctx, user).IsZero())

	// the burn of the failed call was rolled back
	assert.Equal(t, ether(100).Dec(), f.dsc.BalanceOf(ctx, user).Dec())
	assert.Equal(t, ether(100).Dec(), f.dsc.Allowance(ctx, user, engineAddress).Dec())

	require.NoError(t, f.engine.RedeemCollateralForDsc(ctx, user, "weth", ether(10), ether(100)))
	assert.Equal(t, ether(10).Dec(), f.weth.BalanceOf(ctx, user).Dec())
	assert.True(t, f.dsc.TotalSupply(ctx).IsZero())

	op := f.sink.ops[len(f.sink.ops)-1]
	assert.Equal(t, core.ActionTypeRedeemForBurn, op.Action)
	require.Len(t, op.Events, 2)
	assert.Equal(t, core.EventDscBurned, op.Events[0].Type)
	assert.Equal(t, core.EventCollateralRedeemed, op.Events[1].Type)
}

func TestPriceGuard(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	f := newFixture(t, WithPriceGuard(oracle.StaleCheck(time.Hour, clock)))
	f.ethFeed.SetClock(clock)
	f.btcFeed.SetClock(clock)
	f.ethFeed.UpdateAnswer(usd(2000))
	f.btcFeed.UpdateAnswer(usd(1000))

	_, err := f.engine.UsdValue(ctx, "weth", ether(1))
	require.NoError(t, err)

	now = now.Add(2 * time.Hour)
	_, err = f.engine.UsdValue(ctx, "weth", ether(1))
	assert.ErrorIs(t, err, core.ErrStalePrice)

	require.NoError(t, f.weth.Approve(ctx, user, engineAddress, ether(1)))
	err = f.engine.DepositCollateralAndMintDsc(ctx, user, "weth", ether(1), ether(1))
	assert.ErrorIs(t, err, core.ErrStalePrice)
	assert.True(t, f.engine.CollateralBalance(user, "weth").IsZero())
}

func TestNegativeAnswerWraps(t *testing.T) {
	v := answerToUint(big.NewInt(-1))
	assert.True(t, v.Eq(solvency.MaxHealthFactor))
	assert.Equal(t, "42", answerToUint(big.NewInt(42)).Dec())
	assert.True(t, answerToUint(nil).IsZero())
}
