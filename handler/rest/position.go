package rest

import (
	"context"
	"net/http"

	"twapvault/core"
	"twapvault/handler/param"
	"twapvault/handler/render"
	"twapvault/handler/request"
	"twapvault/handler/views"

	"github.com/go-chi/chi"
	"github.com/shopspring/decimal"
	"github.com/twitchtv/twirp"
)

type balanceFunc func(ctx context.Context, account string, amount decimal.Decimal) error

// balanceHandler deposit, withdraw, borrow and repay of the caller
func balanceHandler(fn balanceFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		caller, _ := request.NewContext(ctx).GetCaller()

		var body struct {
			Amount decimal.Decimal `json:"amount"`
		}

		if err := param.Binding(r, &body); err != nil {
			render.Error(w, err)
			return
		}

		if err := fn(ctx, caller, body.Amount); err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, views.DefaultSuccess)
	}
}

func positionHandler(ledger core.ILedgerService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		account := chi.URLParam(r, "account")
		if account == "" {
			render.Error(w, twirp.RequiredArgumentError("account"))
			return
		}

		view, err := ledger.GetPosition(r.Context(), account)
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, view)
	}
}
