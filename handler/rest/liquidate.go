package rest

import (
	"net/http"

	"twapvault/core"
	"twapvault/handler/param"
	"twapvault/handler/render"
	"twapvault/handler/request"
	"twapvault/handler/views"

	"github.com/shopspring/decimal"
)

func liquidateHandler(ledger core.ILedgerService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		caller, _ := request.NewContext(ctx).GetCaller()

		var body struct {
			Account  string          `json:"account" valid:"required,maxstringlength(64)"`
			MaxRepay decimal.Decimal `json:"max_repay"`
		}

		if err := param.Binding(r, &body); err != nil {
			render.Error(w, err)
			return
		}

		result, err := ledger.Liquidate(ctx, caller, body.Account, body.MaxRepay)
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, result)
	}
}

func sweepHandler(ledger core.ILedgerService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		caller, _ := request.NewContext(ctx).GetCaller()

		var body struct {
			Max int `json:"max" valid:"range(1|10000)"`
		}

		if err := param.Binding(r, &body); err != nil {
			render.Error(w, err)
			return
		}

		removed, err := ledger.SweepRegistry(ctx, caller, body.Max)
		if err != nil {
			render.Error(w, err)
			return
		}

		registry, err := ledger.Registry(ctx)
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, views.Sweep{Removed: removed, Remaining: len(registry)})
	}
}
