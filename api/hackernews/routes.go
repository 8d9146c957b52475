package hackernews

import (
	"net/http"

	"github.com/go-chi/chi"

	"github.com/termdetox/terminal-detox/sources"
	"github.com/termdetox/terminal-detox/sources/hackernews"
	"github.com/termdetox/terminal-detox/types"
	"github.com/termdetox/terminal-detox/util"
)

const (
	defaultLimit = 15
	maxLimit     = 30
)

// Routes creates a new Chi router with all of the routes for the hackernews resource,
// at the root level
func Routes(policy *sources.Policy, adapter sources.Adapter[hackernews.Params, []types.HackerNewsItem]) *chi.Mux {
	router := chi.NewRouter()
	router.Get("/", GetAll(policy, adapter))
	return router
}

// GetAll gets the stories of a list, with optional type and limit querystring params
func GetAll(policy *sources.Policy, adapter sources.Adapter[hackernews.Params, []types.HackerNewsItem]) http.HandlerFunc {
	// Use a closure to inject the adapter
	return func(w http.ResponseWriter, r *http.Request) {
		params := hackernews.Params{
			Type:  util.QueryString(r, "type", "top"),
			Limit: util.QueryLimit(r, "limit", defaultLimit, maxLimit),
		}

		items, err := sources.Fetch(r.Context(), policy, adapter, params)
		if err != nil {
			util.Error(w, err)
			return
		}

		util.Respond(w, items)
	}
}
