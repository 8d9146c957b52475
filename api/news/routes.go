package news

import (
	"net/http"

	"github.com/go-chi/chi"

	"github.com/termdetox/terminal-detox/sources"
	"github.com/termdetox/terminal-detox/sources/news"
	"github.com/termdetox/terminal-detox/types"
	"github.com/termdetox/terminal-detox/util"
)

const (
	defaultLimit = 15
	maxLimit     = 20
)

// Routes creates a new Chi router with all of the routes for the news resource,
// at the root level
func Routes(policy *sources.Policy, adapter sources.Adapter[news.Params, []types.NewsItem]) *chi.Mux {
	router := chi.NewRouter()
	router.Get("/", GetAll(policy, adapter))
	router.Get("/categories", GetCategories())
	return router
}

// GetAll gets the latest headlines,
// with optional category and limit querystring params
func GetAll(policy *sources.Policy, adapter sources.Adapter[news.Params, []types.NewsItem]) http.HandlerFunc {
	// Use a closure to inject the adapter
	return func(w http.ResponseWriter, r *http.Request) {
		params := news.Params{
			Category: news.NormalizeCategory(util.QueryString(r, "category", "general")),
			Limit:    util.QueryLimit(r, "limit", defaultLimit, maxLimit),
		}

		items, err := sources.Fetch(r.Context(), policy, adapter, params)
		if err != nil {
			util.Error(w, err)
			return
		}

		util.Respond(w, items)
	}
}

// GetCategories lists the categories headlines can be filtered by
func GetCategories() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		util.Respond(w, news.Categories())
	}
}
