package reddit

import (
	"net/http"

	"github.com/go-chi/chi"

	"github.com/termdetox/terminal-detox/sources"
	"github.com/termdetox/terminal-detox/sources/reddit"
	"github.com/termdetox/terminal-detox/types"
	"github.com/termdetox/terminal-detox/util"
)

const (
	defaultLimit = 15
	maxLimit     = 25
)

// Routes creates a new Chi router with all of the routes for the reddit resource,
// at the root level
func Routes(policy *sources.Policy, adapter sources.Adapter[reddit.Params, []types.RedditPost]) *chi.Mux {
	router := chi.NewRouter()
	router.Get("/", GetAll(policy, adapter))
	return router
}

// GetAll gets the posts of a subreddit listing,
// with optional subreddit, sort and limit querystring params
func GetAll(policy *sources.Policy, adapter sources.Adapter[reddit.Params, []types.RedditPost]) http.HandlerFunc {
	// Use a closure to inject the adapter
	return func(w http.ResponseWriter, r *http.Request) {
		params := reddit.Params{
			Subreddit: util.QueryString(r, "subreddit", reddit.DefaultSubreddit),
			Sort:      util.QueryString(r, "sort", "hot"),
			Limit:     util.QueryLimit(r, "limit", defaultLimit, maxLimit),
		}

		posts, err := sources.Fetch(r.Context(), policy, adapter, params)
		if err != nil {
			util.Error(w, err)
			return
		}

		util.Respond(w, posts)
	}
}
