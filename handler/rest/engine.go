package rest

import (
	"context"
	"errors"
	"net/http"

	"dsc/core"
	"dsc/handler/param"
	"dsc/handler/render"
	"dsc/handler/request"
	"dsc/pkg/id"
	"dsc/service/deploy"
	"dsc/service/engine"
	"dsc/service/journal"

	"github.com/fox-one/pkg/logger"
	"github.com/holiman/uint256"
	"github.com/jinzhu/gorm"
)

const headerKeyRequestID = "X-Request-Id"

type operateFunc func(ctx context.Context, engine core.IEngine, caller string) error

type operator struct {
	engine       core.IEngine
	transactions core.TransactionStore
}

// operate runs op for the calling account and responds with its trace id.
// A request id pins the trace id, a retried request whose operation is
// already journaled is answered from the journal without running op again.
func (o *operator) operate(w http.ResponseWriter, r *http.Request, action core.ActionType, op operateFunc) {
	ctx := r.Context()
	caller, _ := request.NewContext(ctx).GetAccount()

	traceID := id.GenTraceID()
	requestID := r.Header.Get(headerKeyRequestID)
	if requestID != "" {
		traceID = id.TraceIDFrom(caller + ":" + requestID)
	}

	replayed := false
	err := engine.Exclusively(o.engine, func(e core.IEngine) error {
		if requestID != "" {
			transaction, err := o.transactions.FindByTraceID(ctx, traceID)
			switch {
			case err == nil && transaction.Action != action:
				return core.ErrRequestConflict
			case err == nil:
				replayed = true
				return nil
			case !gorm.IsRecordNotFoundError(err):
				return err
			}
		}

		return op(journal.WithTraceID(ctx, traceID), e, caller)
	})

	if err != nil {
		render.Error(w, err)
		return
	}

	if replayed {
		logger.FromContext(ctx).WithField("trace_id", traceID).Infoln("replay journaled operation")
	}

	render.JSON(w, render.H{"trace_id": traceID, "replayed": replayed})
}

func renderParseError(w http.ResponseWriter, err error) {
	if errors.Is(err, core.ErrUnknownAsset) {
		render.Error(w, err)
		return
	}

	render.BadRequest(w, err)
}

type amountParams struct {
	AssetID string `json:"asset_id" valid:"required"`
	Amount  string `json:"amount" valid:"required"`
}

func depositHandler(o *operator, market *deploy.Deployment) http.HandlerFunc {
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

		o.operate(w, r, core.ActionTypeDepositCollateral, func(ctx context.Context, engine core.IEngine, caller string) error {
			return engine.DepositCollateral(ctx, caller, params.AssetID, amount)
		})
	}
}

func redeemHandler(o *operator, market *deploy.Deployment) http.HandlerFunc {
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

		o.operate(w, r, core.ActionTypeRedeemCollateral, func(ctx context.Context, engine core.IEngine, caller string) error {
			return engine.RedeemCollateral(ctx, caller, params.AssetID, amount)
		})
	}
}

type pairParams struct {
	AssetID    string `json:"asset_id" valid:"required"`
	Collateral string `json:"collateral" valid:"required"`
	Debt       string `json:"debt" valid:"required"`
}

func (p pairParams) parse(market *deploy.Deployment) (collateral, debt *uint256.Int, err error) {
	if collateral, err = market.ParseAmount(p.AssetID, p.Collateral); err != nil {
		return nil, nil, err
	}

	if debt, err = market.ParseAmount(deploy.DebtAssetID, p.Debt); err != nil {
		return nil, nil, err
	}

	return collateral, debt, nil
}

func depositAndMintHandler(o *operator, market *deploy.Deployment) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params pairParams
		if err := param.Binding(r, &params); err != nil {
			render.BadRequest(w, err)
			return
		}

		collateral, debt, err := params.parse(market)
		if err != nil {
			renderParseError(w, err)
			return
		}

		o.operate(w, r, core.ActionTypeDepositAndMint, func(ctx context.Context, engine core.IEngine, caller string) error {
			return engine.DepositCollateralAndMintDsc(ctx, caller, params.AssetID, collateral, debt)
		})
	}
}

func redeemForDscHandler(o *operator, market *deploy.Deployment) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params pairParams
		if err := param.Binding(r, &params); err != nil {
			render.BadRequest(w, err)
			return
		}

		collateral, debt, err := params.parse(market)
		if err != nil {
			renderParseError(w, err)
			return
		}

		o.operate(w, r, core.ActionTypeRedeemForBurn, func(ctx context.Context, engine core.IEngine, caller string) error {
			return engine.RedeemCollateralForDsc(ctx, caller, params.AssetID, collateral, debt)
		})
	}
}

type debtParams struct {
	Amount string `json:"amount" valid:"required"`
}

func mintHandler(o *operator, market *deploy.Deployment) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params debtParams
		if err := param.Binding(r, &params); err != nil {
			render.BadRequest(w, err)
			return
		}

		amount, err := market.ParseAmount(deploy.DebtAssetID, params.Amount)
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		o.operate(w, r, core.ActionTypeMint, func(ctx context.Context, engine core.IEngine, caller string) error {
			return engine.MintDsc(ctx, caller, amount)
		})
	}
}

func burnHandler(o *operator, market *deploy.Deployment) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params debtParams
		if err := param.Binding(r, &params); err != nil {
			render.BadRequest(w, err)
			return
		}

		amount, err := market.ParseAmount(deploy.DebtAssetID, params.Amount)
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		o.operate(w, r, core.ActionTypeBurn, func(ctx context.Context, engine core.IEngine, caller string) error {
			return engine.BurnDsc(ctx, caller, amount)
		})
	}
}

func liquidateHandler(o *operator, market *deploy.Deployment) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params struct {
			AssetID string `json:"asset_id" valid:"required"`
			Account string `json:"account" valid:"required"`
			Debt    string `json:"debt" valid:"required"`
		}

		if err := param.Binding(r, &params); err != nil {
			render.BadRequest(w, err)
			return
		}

		debt, err := market.ParseAmount(deploy.DebtAssetID, params.Debt)
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		o.operate(w, r, core.ActionTypeLiquidate, func(ctx context.Context, engine core.IEngine, caller string) error {
			return engine.Liquidate(ctx, caller, params.AssetID, params.Account, debt)
		})
	}
}
