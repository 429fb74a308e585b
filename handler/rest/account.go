package rest

import (
	"net/http"

	"dsc/core"
	"dsc/handler/render"
	"dsc/handler/views"
	"dsc/pkg/solvency"

	"github.com/go-chi/chi"
)

func accountHandler(engine core.IEngine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		account := chi.URLParam(r, "account")

		info, err := engine.AccountInformation(ctx, account)
		if err != nil {
			render.Error(w, err)
			return
		}

		hf := engine.CalculateHealthFactor(info.DebtMinted, info.CollateralValue)
		view := views.Account{
			Account:         account,
			DebtMinted:      views.Value(info.DebtMinted),
			CollateralValue: views.Value(info.CollateralValue),
			HealthFactor:    views.HealthFactor(hf),
			Solvent:         solvency.IsSolvent(hf),
			Collaterals:     []views.Collateral{},
		}

		for _, assetID := range engine.CollateralTokens() {
			balance := engine.CollateralBalance(account, assetID)
			if balance.IsZero() {
				continue
			}

			value, err := engine.UsdValue(ctx, assetID, balance)
			if err != nil {
				render.Error(w, err)
				return
			}

			asset, _ := engine.Asset(assetID)
			view.Collaterals = append(view.Collaterals, views.Collateral{
				AssetID: assetID,
				Amount:  views.Units(balance, asset.Decimals),
				Value:   views.Value(value),
			})
		}

		render.JSON(w, view)
	}
}
