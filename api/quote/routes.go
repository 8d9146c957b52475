package quote

import (
	"net/http"

	"github.com/go-chi/chi"

	"github.com/termdetox/terminal-detox/sources"
	"github.com/termdetox/terminal-detox/sources/quote"
	"github.com/termdetox/terminal-detox/types"
	"github.com/termdetox/terminal-detox/util"
)

// Routes creates a new Chi router with all of the routes for the quote resource,
// at the root level
func Routes(policy *sources.Policy, adapter sources.Adapter[quote.Params, types.QuoteOfTheDay]) *chi.Mux {
	router := chi.NewRouter()
	router.Get("/", Get(policy, adapter))
	return router
}

// Get gets a random quote
func Get(policy *sources.Policy, adapter sources.Adapter[quote.Params, types.QuoteOfTheDay]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, err := sources.Fetch(r.Context(), policy, adapter, quote.Params{})
		if err != nil {
			util.Error(w, err)
			return
		}

		util.Respond(w, data)
	}
}
