package trending

import (
	"net/http"

	"github.com/go-chi/chi"

	"github.com/termdetox/terminal-detox/sources"
	"github.com/termdetox/terminal-detox/sources/trending"
	"github.com/termdetox/terminal-detox/types"
	"github.com/termdetox/terminal-detox/util"
)

// Routes creates a new Chi router with all of the routes for the trending resource,
// at the root level
func Routes(policy *sources.Policy, adapter sources.Adapter[trending.Params, types.SocialTrending]) *chi.Mux {
	router := chi.NewRouter()
	router.Get("/", Get(policy, adapter))
	return router
}

// Get gets what is currently trending
func Get(policy *sources.Policy, adapter sources.Adapter[trending.Params, types.SocialTrending]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, err := sources.Fetch(r.Context(), policy, adapter, trending.Params{})
		if err != nil {
			util.Error(w, err)
			return
		}

		util.Respond(w, data)
	}
}
