package weather

import (
	"net/http"

	"github.com/go-chi/chi"

	"github.com/termdetox/terminal-detox/sources"
	"github.com/termdetox/terminal-detox/sources/weather"
	"github.com/termdetox/terminal-detox/types"
	"github.com/termdetox/terminal-detox/util"
)

// Routes creates a new Chi router with all of the routes for the weather resource,
// at the root level
func Routes(policy *sources.Policy, adapter sources.Adapter[weather.Params, types.WeatherData]) *chi.Mux {
	router := chi.NewRouter()
	router.Get("/", Get(policy, adapter))
	return router
}

// Get gets the current weather and forecast for the location querystring param
func Get(policy *sources.Policy, adapter sources.Adapter[weather.Params, types.WeatherData]) http.HandlerFunc {
	// Use a closure to inject the adapter
	return func(w http.ResponseWriter, r *http.Request) {
		params := weather.Params{
			Location: util.QueryString(r, "location", weather.DefaultLocation),
		}

		data, err := sources.Fetch(r.Context(), policy, adapter, params)
		if err != nil {
			util.Error(w, err)
			return
		}

		util.Respond(w, data)
	}
}
