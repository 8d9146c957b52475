package crypto

import (
	"context"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/termdetox/terminal-detox/sources"
	"github.com/termdetox/terminal-detox/types"
)

// DefaultIDs are the coins shown when a request does not name any
var DefaultIDs = []string{"bitcoin", "ethereum"}

// Coin names mapped to their CoinPaprika ticker ids
var paprikaIDs = map[string]string{
	"bitcoin":  "btc-bitcoin",
	"ethereum": "eth-ethereum",
	"solana":   "sol-solana",
	"dogecoin": "doge-dogecoin",
	"cardano":  "ada-cardano",
	"ripple":   "xrp-xrp",
	"litecoin": "ltc-litecoin",
}

// CoinID resolves a ticker symbol (btc) to the coin id the prices
// route expects (bitcoin)
func CoinID(symbol string) (string, bool) {
	prefix := strings.ToLower(symbol) + "-"
	for id, ticker := range paprikaIDs {
		if strings.HasPrefix(ticker, prefix) {
			return id, true
		}
	}
	return "", false
}

// PriceParams are the options of a price request
type PriceParams struct {
	IDs []string
}

// CacheKey implements sources.Keyed
func (p PriceParams) CacheKey() string {
	return strings.ToLower(strings.Join(p.IDs, ","))
}

// PriceAdapter fetches USD prices from CoinPaprika tickers
type PriceAdapter struct {
	client  *sources.Client
	baseURL string
}

// NewPriceAdapter creates a price adapter against the public API
func NewPriceAdapter(client *sources.Client) *PriceAdapter {
	return NewPriceAdapterWithURL(client, "https://api.coinpaprika.com")
}

// NewPriceAdapterWithURL creates a price adapter against the given base URL
func NewPriceAdapterWithURL(client *sources.Client, baseURL string) *PriceAdapter {
	return &PriceAdapter{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Name gets the display name of the source
func (a *PriceAdapter) Name() string {
	return "Crypto"
}

// Expected JSON from a ticker request
type ticker struct {
	LastUpdated string `json:"last_updated"`
	Quotes      struct {
		USD struct {
			Price            float64 `json:"price"`
			PercentChange24h float64 `json:"percent_change_24h"`
		} `json:"USD"`
	} `json:"quotes"`
}

// Fetch gets the price of every known coin concurrently, keyed by the requested id.
// Unknown coins and individual failures are left out;
// the request only fails when every known coin failed
func (a *PriceAdapter) Fetch(ctx context.Context, params PriceParams) (map[string]types.CryptoPrice, error) {
	var mutex sync.Mutex
	var wg sync.WaitGroup
	prices := make(map[string]types.CryptoPrice)
	var lastErr error

	for _, id := range params.IDs {
		id = strings.ToLower(strings.TrimSpace(id))
		tickerID, ok := TickerID(id)
		if !ok {
			log.Debug().Str("source", "crypto").Str("id", id).Msg("skipping coin without a known ticker")
			continue
		}

		wg.Add(1)
		go func(id string, tickerID string) {
			defer wg.Done()

			var response ticker
			err := a.client.GetJSON(ctx, a.Name(), a.baseURL+"/v1/tickers/"+tickerID, nil, &response)

			mutex.Lock()
			defer mutex.Unlock()
			if err != nil {
				log.Warn().Str("source", "crypto").Str("id", id).Err(err).Msg("could not fetch ticker")
				lastErr = err
				return
			}

			prices[id] = types.CryptoPrice{
				ID:            id,
				USD:           response.Quotes.USD.Price,
				USD24hChange:  response.Quotes.USD.PercentChange24h,
				LastUpdatedAt: response.LastUpdated,
			}
		}(id, tickerID)
	}
	wg.Wait()

	if len(prices) == 0 && lastErr != nil {
		return nil, lastErr
	}

	return prices, nil
}

// Fallback answers a failed price request with no prices
func (a *PriceAdapter) Fallback(params PriceParams) map[string]types.CryptoPrice {
	return map[string]types.CryptoPrice{}
}

// TickerID resolves a coin name to its CoinPaprika ticker id;
// ids already in ticker form ("ada-cardano") are used as is
func TickerID(id string) (string, bool) {
	if tickerID, ok := paprikaIDs[id]; ok {
		return tickerID, true
	}
	if strings.Count(id, "-") >= 1 && !strings.HasPrefix(id, "-") && !strings.HasSuffix(id, "-") {
		return id, true
	}

	return "", false
}
