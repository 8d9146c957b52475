package stocks

import (
	"net/http"

	"github.com/go-chi/chi"

	"github.com/termdetox/terminal-detox/sources"
	"github.com/termdetox/terminal-detox/sources/stocks"
	"github.com/termdetox/terminal-detox/types"
	"github.com/termdetox/terminal-detox/util"
)

// Routes creates a new Chi router with all of the routes for the stocks resource,
// at the root level
func Routes(policy *sources.Policy, adapter sources.Adapter[stocks.Params, []types.StockQuote]) *chi.Mux {
	router := chi.NewRouter()
	router.Get("/", GetAll(policy, adapter))
	return router
}

// GetAll gets a quote for each of the comma-separated symbols querystring param,
// including the deltas of the requested periods
func GetAll(policy *sources.Policy, adapter sources.Adapter[stocks.Params, []types.StockQuote]) http.HandlerFunc {
	// Use a closure to inject the adapter
	return func(w http.ResponseWriter, r *http.Request) {
		params := stocks.Params{
			Symbols: util.QueryList(r, "symbols", stocks.DefaultSymbols),
			Periods: util.QueryList(r, "periods", stocks.DefaultPeriods),
		}

		quotes, err := sources.Fetch(r.Context(), policy, adapter, params)
		if err != nil {
			util.Error(w, err)
			return
		}

		util.Respond(w, quotes)
	}
}
