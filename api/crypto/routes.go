package crypto

import (
	"net/http"

	"github.com/go-chi/chi"

	"github.com/termdetox/terminal-detox/sources"
	"github.com/termdetox/terminal-detox/sources/crypto"
	"github.com/termdetox/terminal-detox/types"
	"github.com/termdetox/terminal-detox/util"
)

// PriceAdapter gets coin prices keyed by id
type PriceAdapter = sources.Adapter[crypto.PriceParams, map[string]types.CryptoPrice]

// SearchAdapter resolves a query to a coin
type SearchAdapter = sources.Adapter[crypto.SearchParams, *types.CryptoMatch]

// Routes creates a new Chi router with all of the routes for the crypto resource,
// at the root level
func Routes(policy *sources.Policy, prices PriceAdapter, search SearchAdapter) *chi.Mux {
	router := chi.NewRouter()
	router.Get("/", GetPrices(policy, prices))
	router.Get("/search", Search(policy, search))
	return router
}

// GetPrices gets the prices of the coins in the comma-separated ids querystring param
func GetPrices(policy *sources.Policy, adapter PriceAdapter) http.HandlerFunc {
	// Use a closure to inject the adapter
	return func(w http.ResponseWriter, r *http.Request) {
		params := crypto.PriceParams{
			IDs: util.QueryList(r, "ids", crypto.DefaultIDs),
		}

		prices, err := sources.Fetch(r.Context(), policy, adapter, params)
		if err != nil {
			util.Error(w, err)
			return
		}

		util.Respond(w, prices)
	}
}

// Search resolves the query querystring param to a coin, answering null data when nothing matches
func Search(policy *sources.Policy, adapter SearchAdapter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params := crypto.SearchParams{
			Query: util.QueryString(r, "query", ""),
		}

		match, err := sources.Fetch(r.Context(), policy, adapter, params)
		if err != nil {
			util.Error(w, err)
			return
		}

		util.Respond(w, match)
	}
}
