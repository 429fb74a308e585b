package rest

import (
	"errors"
	"net/http"

	"dsc/core"
	"dsc/handler/auth"
	"dsc/handler/render"
	"dsc/service/deploy"

	"github.com/go-chi/chi"
)

// Handle handle rest api request
func Handle(engine core.IEngine, market *deploy.Deployment, transactions core.TransactionStore, admins []string) http.Handler {
	router := chi.NewRouter()

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		render.NotFoundRequest(w, errors.New("not found"))
	})

	router.Get("/params", paramsHandler(engine))
	router.Get("/assets", assetsHandler(engine, market))
	router.Get("/value", usdValueHandler(engine, market))
	router.Get("/token-amount", tokenAmountHandler(engine, market))
	router.Get("/accounts/{account}", accountHandler(engine))
	router.Get("/accounts/{account}/transactions", accountTransactionsHandler(transactions))
	router.Get("/transactions", transactionsHandler(transactions))
	router.Get("/transactions/{trace_id}", transactionHandler(transactions))

	o := &operator{engine: engine, transactions: transactions}

	router.Group(func(r chi.Router) {
		r.Use(auth.Require)

		r.Post("/approve", approveHandler(engine, market))
		r.Post("/faucet", faucetHandler(engine, market))
		r.Post("/deposit", depositHandler(o, market))
		r.Post("/deposit-mint", depositAndMintHandler(o, market))
		r.Post("/redeem", redeemHandler(o, market))
		r.Post("/redeem-for-dsc", redeemForDscHandler(o, market))
		r.Post("/mint", mintHandler(o, market))
		r.Post("/burn", burnHandler(o, market))
		r.Post("/liquidate", liquidateHandler(o, market))

		r.With(auth.RequireAdmin(admins)).Post("/prices", priceHandler(engine, market))
	})

	return router
}
