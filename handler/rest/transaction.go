package rest

import (
	"net/http"
	"time"

	"dsc/core"
	"dsc/handler/param"
	"dsc/handler/render"
	"dsc/handler/views"

	"github.com/go-chi/chi"
)

// response transactions committed since offset
func transactionsHandler(transactionStr core.TransactionStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var params struct {
			Offset string `json:"offset"`
			Limit  int    `json:"limit"`
		}

		if e := param.Binding(r, &params); e != nil {
			render.BadRequest(w, e)
			return
		}

		offsetTime, err := time.Parse(time.RFC3339Nano, params.Offset)
		if err != nil {
			offsetTime = time.Time{}
		}

		transactions, e := transactionStr.List(ctx, offsetTime, params.Limit)
		if e != nil {
			render.Error(w, e)
			return
		}

		render.JSON(w, views.TransactionViews(transactions))
	}
}

func accountTransactionsHandler(transactionStr core.TransactionStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params struct {
			Limit int `json:"limit"`
		}

		if e := param.Binding(r, &params); e != nil {
			render.BadRequest(w, e)
			return
		}

		transactions, err := transactionStr.ListByAccount(r.Context(), chi.URLParam(r, "account"), params.Limit)
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, views.TransactionViews(transactions))
	}
}

func transactionHandler(transactionStr core.TransactionStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		transaction, err := transactionStr.FindByTraceID(r.Context(), chi.URLParam(r, "trace_id"))
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, views.TransactionView(transaction))
	}
}
