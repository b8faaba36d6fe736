package rest

import (
	"net/http"

	"twapvault/core"
	"twapvault/handler/param"
	"twapvault/handler/render"
	"twapvault/handler/request"
	"twapvault/handler/views"

	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
	"github.com/twitchtv/twirp"
)

func oracleHandler(oracle core.IPriceOracle) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, err := oracle.State(r.Context())
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, view)
	}
}

func pokeHandler(oracle core.IPriceOracle) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		price, err := oracle.Poke(r.Context())
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, render.H{"price": price})
	}
}

func updatePriceHandler(oracle core.IPriceOracle) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		caller, _ := request.NewContext(ctx).GetCaller()

		var body struct {
			Price decimal.Decimal `json:"price"`
		}

		if err := param.Binding(r, &body); err != nil {
			render.Error(w, err)
			return
		}

		if err := oracle.UpdatePrice(ctx, caller, body.Price); err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, views.DefaultSuccess)
	}
}

func minLiquidityHandler(oracle core.IPriceOracle) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		caller, _ := request.NewContext(ctx).GetCaller()

		var body struct {
			Amount string `json:"amount" valid:"required,int"`
		}

		if err := param.Binding(r, &body); err != nil {
			render.Error(w, err)
			return
		}

		amount, err := uint256.FromDecimal(body.Amount)
		if err != nil {
			render.Error(w, twirp.InvalidArgumentError("amount", err.Error()))
			return
		}

		if err := oracle.SetMinLiquidity(ctx, caller, amount); err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, views.DefaultSuccess)
	}
}
