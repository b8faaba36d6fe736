package rest

import (
	"errors"
	"net/http"

	"twapvault/core"
	"twapvault/handler/auth"
	"twapvault/handler/render"

	"github.com/go-chi/chi"
)

// Handle handle rest api request
func Handle(system *core.System, ledger core.ILedgerService, oracle core.IPriceOracle) http.Handler {
	router := chi.NewRouter()

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		render.NotFoundRequest(w, errors.New("not found"))
	})

	router.Get("/positions/{account}", positionHandler(ledger))
	router.Get("/market", marketHandler(ledger, oracle))
	router.Get("/registry", registryHandler(ledger))
	router.Get("/oracle", oracleHandler(oracle))
	router.Get("/events", eventsHandler(ledger))

	router.Group(func(r chi.Router) {
		r.Use(auth.LoginRequired())

		r.Post("/deposit", balanceHandler(ledger.Deposit))
		r.Post("/withdraw", balanceHandler(ledger.Withdraw))
		r.Post("/borrow", balanceHandler(ledger.Borrow))
		r.Post("/repay", balanceHandler(ledger.Repay))
		r.Post("/liquidate", liquidateHandler(ledger))
		r.Post("/oracle/poke", pokeHandler(oracle))
	})

	router.Route("/admin", func(r chi.Router) {
		r.Use(auth.LoginRequired(), auth.AdminRequired(system))

		r.Post("/sweep", sweepHandler(ledger))
		r.Post("/oracle/price", updatePriceHandler(oracle))
		r.Post("/oracle/min-liquidity", minLiquidityHandler(oracle))
	})

	return router
}
