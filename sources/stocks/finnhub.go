package stocks

import (
	"context"

	finnhub "github.com/Finnhub-Stock-API/finnhub-go/v2"

	"github.com/termdetox/terminal-detox/sources"
)

// Finnhub reads the latest quote from the Finnhub API (requires an API key)
type Finnhub struct {
	client *finnhub.DefaultApiService
}

// NewFinnhub creates a Finnhub quote client authenticated with the key
func NewFinnhub(apiKey string) *Finnhub {
	cfg := finnhub.NewConfiguration()
	cfg.AddDefaultHeader("X-Finnhub-Token", apiKey)
	client := finnhub.NewAPIClient(cfg).DefaultApi
	return &Finnhub{client: client}
}

// Name gets the display name of the source
func (f *Finnhub) Name() string {
	return "Finnhub"
}

// Quote gets the current price and its change since the previous close
func (f *Finnhub) Quote(ctx context.Context, symbol string) (DailyQuote, error) {
	res, httpRes, err := f.client.Quote(ctx).Symbol(symbol).Execute()
	if err != nil {
		if httpRes != nil && httpRes.StatusCode >= 300 {
			return DailyQuote{}, sources.NewUpstreamError(f.Name(), httpRes.StatusCode)
		}
		return DailyQuote{}, sources.NewRequestError(f.Name(), err)
	}

	// Finnhub answers unknown symbols with an all-zero quote
	if res.GetC() == 0 {
		return DailyQuote{}, NewPriceNotFoundError(symbol)
	}

	return DailyQuote{
		Price:         float64(res.GetC()),
		Change:        float64(res.GetD()),
		ChangePercent: float64(res.GetDp()),
	}, nil
}
