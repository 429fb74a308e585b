package rest

import (
	"errors"
	"net/http"

	"dsc/core"
	"dsc/handler/param"
	"dsc/handler/render"
	"dsc/handler/request"
	"dsc/handler/views"
	"dsc/pkg/number"
	"dsc/pkg/solvency"
	"dsc/service/deploy"
	"dsc/service/engine"
	"dsc/service/oracle"

	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
)

func paramsHandler(engine core.IEngine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, engine.Params())
	}
}

func assetsHandler(engine core.IEngine, market *deploy.Deployment) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		assets := []views.Asset{}
		for _, assetID := range engine.CollateralTokens() {
			asset, _ := engine.Asset(assetID)
			view := views.Asset{
				AssetID:  asset.AssetID,
				OracleID: asset.OracleID,
				Decimals: asset.Decimals,
			}

			if t, ok := market.Tokens[assetID]; ok {
				view.Symbol = t.Symbol()
			}

			if feed, ok := market.Feeds[assetID]; ok {
				if round, err := feed.LatestRoundData(ctx); err == nil {
					view.Price = decimal.NewFromBigInt(round.Answer, -oracle.FeedDecimals).String()
				}
			}

			assets = append(assets, view)
		}

		render.JSON(w, assets)
	}
}

func usdValueHandler(engine core.IEngine, market *deploy.Deployment) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params amountParams
		if err := param.Binding(r, &params); err != nil {
			render.BadRequest(w, err)
			return
		}

		amount, err := market.ParseAmount(params.AssetID, params.Amount)
		if err != nil {
			renderParseError(w, err)
			return
		}

		value, err := engine.UsdValue(r.Context(), params.AssetID, amount)
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, render.H{"value": views.Value(value)})
	}
}

func tokenAmountHandler(engine core.IEngine, market *deploy.Deployment) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params struct {
			AssetID string `json:"asset_id" valid:"required"`
			Usd     string `json:"usd" valid:"required"`
		}

		if err := param.Binding(r, &params); err != nil {
			render.BadRequest(w, err)
			return
		}

		decimals, ok := market.Decimals(params.AssetID)
		if !ok {
			render.Error(w, core.ErrUnknownAsset)
			return
		}

		usd, err := number.ParseUnits(params.Usd, solvency.Decimals)
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		amount, err := engine.TokenAmountFromUsd(r.Context(), params.AssetID, usd)
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, render.H{"amount": views.Units(amount, decimals)})
	}
}

func approveHandler(eng core.IEngine, market *deploy.Deployment) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		caller, _ := request.NewContext(ctx).GetAccount()

		var params struct {
			Token   string `json:"token" valid:"required"`
			Spender string `json:"spender"`
			Amount  string `json:"amount" valid:"required"`
		}

		if err := param.Binding(r, &params); err != nil {
			render.BadRequest(w, err)
			return
		}

		if params.Spender == "" {
			params.Spender = eng.Address()
		}

		t, ok := market.Token(params.Token)
		if !ok {
			render.Error(w, core.ErrUnknownAsset)
			return
		}

		amount, err := market.ParseAmount(params.Token, params.Amount)
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		if err := engine.Exclusively(eng, func(core.IEngine) error {
			return t.Approve(ctx, caller, params.Spender, amount)
		}); err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, views.Accepted)
	}
}

func faucetHandler(eng core.IEngine, market *deploy.Deployment) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		caller, _ := request.NewContext(ctx).GetAccount()

		var params amountParams
		if err := param.Binding(r, &params); err != nil {
			render.BadRequest(w, err)
			return
		}

		t, ok := market.Tokens[params.AssetID]
		if !ok {
			render.Error(w, core.ErrUnknownAsset)
			return
		}

		amount, err := number.ParseUnits(params.Amount, t.Decimals())
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		var balance *uint256.Int
		if err := engine.Exclusively(eng, func(core.IEngine) error {
			if err := t.Mint(ctx, caller, amount); err != nil {
				return err
			}

			balance = t.BalanceOf(ctx, caller)
			return nil
		}); err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, render.H{"balance": views.Units(balance, t.Decimals())})
	}
}

func priceHandler(eng core.IEngine, market *deploy.Deployment) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params struct {
			AssetID string `json:"asset_id" valid:"required"`
			Price   string `json:"price" valid:"required"`
		}

		if err := param.Binding(r, &params); err != nil {
			render.BadRequest(w, err)
			return
		}

		feed, ok := market.Feeds[params.AssetID]
		if !ok {
			render.Error(w, core.ErrUnknownAsset)
			return
		}

		price, err := decimal.NewFromString(params.Price)
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		if !price.IsPositive() {
			render.BadRequest(w, errors.New("price must be positive"))
			return
		}

		_ = engine.Exclusively(eng, func(core.IEngine) error {
			feed.UpdateAnswer(oracle.Answer(price))
			return nil
		})

		render.JSON(w, views.Accepted)
	}
}
