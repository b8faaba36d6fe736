package rest

import (
	"net/http"

	"twapvault/core"
	"twapvault/handler/param"
	"twapvault/handler/render"
	"twapvault/handler/views"

	"github.com/fox-one/pkg/logger"
)

func marketHandler(ledger core.ILedgerService, oracle core.IPriceOracle) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		log := logger.FromContext(ctx)

		market, err := ledger.GetMarket(ctx)
		if err != nil {
			render.Error(w, err)
			return
		}

		view := views.Market{Market: market}

		if borrowers, err := ledger.Borrowers(ctx); err == nil {
			view.Borrowers = len(borrowers)
		}

		if registry, err := ledger.Registry(ctx); err == nil {
			view.RegistrySize = len(registry)
		}

		// the aggregates stay readable while the oracle rejects prices
		if price, err := oracle.GetTwapPrice(ctx); err != nil {
			log.WithError(err).Debugln("market view without price")
			view.OracleError = err.Error()
		} else {
			view.Price = price
			view.TVL, _ = ledger.GetTVL(ctx)
		}

		render.JSON(w, view)
	}
}

func registryHandler(ledger core.ILedgerService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		accounts, err := ledger.Registry(r.Context())
		if err != nil {
			render.Error(w, err)
			return
		}

		if accounts == nil {
			accounts = []string{}
		}

		render.JSON(w, accounts)
	}
}

func eventsHandler(ledger core.ILedgerService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params struct {
			Account string `json:"account" valid:"maxstringlength(64)"`
			From    int64  `json:"from"`
			Limit   int    `json:"limit" valid:"range(0|500)"`
		}

		if err := param.BindQuery(r, &params); err != nil {
			render.Error(w, err)
			return
		}

		limit := params.Limit
		if limit <= 0 {
			limit = 100
		}

		events, err := ledger.Events(r.Context(), params.Account, params.From, limit)
		if err != nil {
			render.Error(w, err)
			return
		}

		if events == nil {
			events = []*core.Event{}
		}

		render.JSON(w, events)
	}
}
