package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/c2h5oh/datasize"
	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"
	"github.com/ironstar-io/chizerolog"
	"github.com/rs/zerolog"

	apiCrypto "github.com/termdetox/terminal-detox/api/crypto"
	apiHackerNews "github.com/termdetox/terminal-detox/api/hackernews"
	apiNews "github.com/termdetox/terminal-detox/api/news"
	apiQuote "github.com/termdetox/terminal-detox/api/quote"
	apiReddit "github.com/termdetox/terminal-detox/api/reddit"
	apiStocks "github.com/termdetox/terminal-detox/api/stocks"
	apiTrending "github.com/termdetox/terminal-detox/api/trending"
	apiWeather "github.com/termdetox/terminal-detox/api/weather"
	"github.com/termdetox/terminal-detox/cache"
	"github.com/termdetox/terminal-detox/env"
	"github.com/termdetox/terminal-detox/sources"
	"github.com/termdetox/terminal-detox/sources/crypto"
	"github.com/termdetox/terminal-detox/sources/hackernews"
	"github.com/termdetox/terminal-detox/sources/news"
	"github.com/termdetox/terminal-detox/sources/quote"
	"github.com/termdetox/terminal-detox/sources/reddit"
	"github.com/termdetox/terminal-detox/sources/stocks"
	"github.com/termdetox/terminal-detox/sources/trending"
	"github.com/termdetox/terminal-detox/sources/weather"
)

// APIServer is a struct that bundles together the various server-wide
// resources used at runtime that each have
// a lifecycle of initialization, connection, and disconnection
type APIServer struct {
	logger       zerolog.Logger
	cache        cache.Cache
	policy       *sources.Policy
	newsProvider *news.Provider

	weather      *weather.Adapter
	reddit       *reddit.Adapter
	hackerNews   *hackernews.Adapter
	trending     *trending.Adapter
	cryptoPrices *crypto.PriceAdapter
	cryptoSearch *crypto.SearchAdapter
	stocks       *stocks.Adapter
	quote        *quote.Adapter
}

// NewAPIServer loads values from the environment
// and initializes the struct and all constituent components
// (doesn't connect to the cache or start goroutines)
func NewAPIServer(logger zerolog.Logger) (*APIServer, error) {
	timeout, err := env.GetDurationEnvDefault("upstream timeout", "UPSTREAM_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}

	maxBody, err := env.GetBytesEnvDefault("upstream max body size", "UPSTREAM_MAX_BODY", 2*datasize.MB)
	if err != nil {
		return nil, err
	}

	retries, err := env.GetIntEnvDefault("upstream retries", "UPSTREAM_RETRIES", 2)
	if err != nil {
		return nil, err
	}

	cacheTTL, err := env.GetDurationEnvDefault("response cache TTL", "CACHE_TTL", 5*time.Minute)
	if err != nil {
		return nil, err
	}

	newsFetchPeriod, err := env.GetDurationEnvDefault("RSS feed fetch period", "NEWS_FETCH_PERIOD", 10*time.Minute)
	if err != nil {
		return nil, err
	}

	// Initialize the response cache (Redis if configured, otherwise in-process)
	var responseCache cache.Cache = cache.NewMemory()
	if redisURL := env.GetEnvDefault("REDIS_URL", ""); redisURL != "" {
		responseCache, err = cache.NewRedis(redisURL)
		if err != nil {
			return nil, err
		}
	}

	client := sources.NewClient(timeout, int64(maxBody.Bytes()), env.GetEnvDefault("USER_AGENT", sources.DefaultUserAgent))

	// Use Finnhub for daily quotes when a key is available
	var quoter stocks.Quoter
	if apiKey := env.GetEnvDefault("FINNHUB_API_KEY", ""); apiKey != "" {
		quoter = stocks.NewFinnhub(apiKey)
	}

	policy := &sources.Policy{
		Retries: retries,
		Backoff: 250 * time.Millisecond,
		Cache:   responseCache,
		TTL:     cacheTTL,
		TTLs: map[string]time.Duration{
			"Weather":   10 * time.Minute,
			"Trending":  30 * time.Minute,
			"Crypto":    time.Minute,
			"Stocks":    time.Minute,
			"CoinGecko": time.Hour,
		},
		Logger: logger,
	}

	return &APIServer{
		logger:       logger,
		cache:        responseCache,
		policy:       policy,
		newsProvider: news.NewProvider(client, news.DefaultFeeds, newsFetchPeriod),

		weather:      weather.NewAdapter(client),
		reddit:       reddit.NewAdapter(client),
		hackerNews:   hackernews.NewAdapter(client),
		trending:     trending.NewAdapter(client, trending.DefaultURLs),
		cryptoPrices: crypto.NewPriceAdapter(client),
		cryptoSearch: crypto.NewSearchAdapter(client),
		stocks:       stocks.NewAdapter(quoter, stocks.NewYahoo(client)),
		quote:        quote.NewAdapter(),
	}, nil
}

// Connect connects to the response cache and starts the RSS feed refresh goroutine
func (a *APIServer) Connect(ctx context.Context) error {
	a.logger.Info().Msg("initializing response cache")
	err := a.cache.Connect(ctx)
	if err != nil {
		a.logger.Error().Err(err).Msg("could not connect to the response cache")
		return err
	}
	a.logger.Info().Msg("successfully connected to the response cache")

	err = a.newsProvider.Connect(ctx)
	if err != nil {
		a.logger.Error().Err(err).Msg("could not start the RSS feed provider")
		return err
	}
	a.logger.Info().Msg("started the RSS feed provider")

	return nil
}

// Disconnect stops the RSS feed refresh goroutine and disconnects from the response cache
func (a *APIServer) Disconnect(ctx context.Context) error {
	err := a.newsProvider.Disconnect(ctx)
	if err != nil {
		a.logger.Error().Err(err).Msg("could not stop the RSS feed provider")
		return err
	}
	a.logger.Info().Msg("stopped the RSS feed provider")

	err = a.cache.Disconnect(ctx)
	if err != nil {
		a.logger.Error().Err(err).Msg("could not disconnect from the response cache")
		return err
	}
	a.logger.Info().Msg("disconnected from the response cache")

	return nil
}

// Serve runs the main API server until it's cancelled for some reason,
// in which case it attempts to gracefully shutdown.
// This function blocks.
func (a *APIServer) Serve(ctx context.Context, port int) {
	router := a.routes()
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: router,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.logger.Fatal().Err(err).Msg("listen failed")
		}
	}()
	a.logger.Info().Int("port", port).Msg("API server started")

	<-ctx.Done()
	a.logger.Info().Msg("API server stopped")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer func() {
		cancel()
	}()

	if err := server.Shutdown(ctx); err != nil {
		a.logger.Fatal().Err(err).Msg("API server shutdown failed")
	}
	a.logger.Info().Msg("API server exited properly")
}

func (a *APIServer) routes() *chi.Mux {
	router := chi.NewRouter()
	router.Use(
		middleware.Recoverer,                          // Recover from panics without crashing the server
		chizerolog.LoggerMiddleware(&a.logger),        // Log API request calls
		middleware.RedirectSlashes,                    // Redirect slashes to no slash URL versions
		render.SetContentType(render.ContentTypeJSON), // Set content-type headers to application/json
		middleware.Compress(5),                        // Compress results, mostly gzipping json
		middleware.NoCache,                            // Prevent clients from caching the results
		a.corsMiddleware(),                            // Create cors middleware from go-chi/cors
	)

	// The same routes are served unversioned (as the dashboard calls them) and under /v1
	router.Group(a.mountRoutes)
	router.Route("/v1", a.mountRoutes)

	return router
}

// ==============================
// Add all routes to the API here
// ==============================
func (a *APIServer) mountRoutes(r chi.Router) {
	// Can be used for health checks
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(204)
	})

	r.Route("/api", func(r chi.Router) {
		r.Mount("/weather", apiWeather.Routes(a.policy, a.weather))
		r.Mount("/news", apiNews.Routes(a.policy, a.newsProvider))
		r.Mount("/reddit", apiReddit.Routes(a.policy, a.reddit))
		r.Mount("/hackernews", apiHackerNews.Routes(a.policy, a.hackerNews))
		r.Mount("/trending", apiTrending.Routes(a.policy, a.trending))
		r.Mount("/crypto", apiCrypto.Routes(a.policy, a.cryptoPrices, a.cryptoSearch))
		r.Mount("/stocks", apiStocks.Routes(a.policy, a.stocks))
		r.Mount("/quote", apiQuote.Routes(a.policy, a.quote))
	})
}

func (a *APIServer) corsMiddleware() func(http.Handler) http.Handler {
	// See if the CORS_ALLOWED_ORIGINS environment variable was set
	allowedOrigins := []string{"*"}
	if value, ok := os.LookupEnv("CORS_ALLOWED_ORIGINS"); ok && value != "" {
		allowedOrigins = strings.Split(value, ",")
	}

	return cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		ExposedHeaders:   []string{},
		AllowCredentials: false,
		MaxAge:           300,
	})
}
