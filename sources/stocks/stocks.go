package stocks

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/termdetox/terminal-detox/sources"
	"github.com/termdetox/terminal-detox/types"
)

// DefaultSymbols are the tickers shown when a request does not name any
var DefaultSymbols = []string{"AAPL"}

// MaxSymbols caps one request; every symbol is its own upstream call
const MaxSymbols = 10

// DefaultPeriods are the change periods reported when a request does not name any
var DefaultPeriods = []string{"1d", "1w", "1m"}

// Params are the options of a quote request
type Params struct {
	Symbols []string
	Periods []string
}

// CacheKey implements sources.Keyed
func (p Params) CacheKey() string {
	return strings.ToUpper(strings.Join(p.Symbols, ",")) + ":" + strings.Join(p.Periods, ",")
}

// Validate caps the symbol count
func (p Params) Validate() error {
	if len(p.Symbols) > MaxSymbols {
		return sources.NewInvalidParamError("symbols", strings.Join(p.Symbols, ","), fmt.Sprintf("at most %d symbols per request", MaxSymbols))
	}

	return nil
}

func (p Params) includes(period string) bool {
	for _, candidate := range p.Periods {
		if strings.EqualFold(strings.TrimSpace(candidate), period) {
			return true
		}
	}

	return false
}

// Adapter gets stock quotes: the daily quote from the configured quoter
// and the weekly/monthly deltas from Yahoo daily history
type Adapter struct {
	quoter  Quoter
	history *Yahoo
	now     func() time.Time
}

// NewAdapter creates a stock adapter;
// a nil quoter uses Yahoo for the daily quote as well
func NewAdapter(quoter Quoter, history *Yahoo) *Adapter {
	if quoter == nil {
		quoter = history
	}

	return &Adapter{
		quoter:  quoter,
		history: history,
		now:     time.Now,
	}
}

// Name gets the display name of the source
func (a *Adapter) Name() string {
	return "Stocks"
}

// Fetch gets a quote per symbol concurrently, in request order.
// Any symbol failing fails the whole request
func (a *Adapter) Fetch(ctx context.Context, params Params) ([]types.StockQuote, error) {
	err := params.Validate()
	if err != nil {
		return nil, err
	}

	quotes := make([]types.StockQuote, len(params.Symbols))
	errs := make([]error, len(params.Symbols))

	var wg sync.WaitGroup
	for i, symbol := range params.Symbols {
		wg.Add(1)
		go func(i int, symbol string) {
			defer wg.Done()
			quotes[i], errs[i] = a.fetchSymbol(ctx, symbol, params)
		}(i, strings.ToUpper(strings.TrimSpace(symbol)))
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return quotes, nil
}

func (a *Adapter) fetchSymbol(ctx context.Context, symbol string, params Params) (types.StockQuote, error) {
	include1w := params.includes("1w")
	include1m := params.includes("1m")

	var daily DailyQuote
	var closes []Close
	var err error
	if yahoo, ok := a.quoter.(*Yahoo); ok && yahoo == a.history {
		daily, closes, err = yahoo.QuoteWithHistory(ctx, symbol)
	} else {
		daily, err = a.quoter.Quote(ctx, symbol)
		if err == nil && (include1w || include1m) {
			closes, err = a.history.History(ctx, symbol)
		}
	}
	if err != nil {
		return types.StockQuote{}, err
	}

	quote := types.StockQuote{
		Symbol:        symbol,
		Price:         daily.Price,
		Change:        daily.Change,
		ChangePercent: daily.ChangePercent,
	}

	now := a.now()
	if include1w {
		change, percent := delta(quote.Price, referencePrice(closes, now.AddDate(0, 0, -7), quote.Price))
		quote.Change1w = &change
		quote.ChangePercent1w = &percent
	}
	if include1m {
		change, percent := delta(quote.Price, referencePrice(closes, now.AddDate(0, 0, -30), quote.Price))
		quote.Change1m = &change
		quote.ChangePercent1m = &percent
	}

	return quote, nil
}

// Gets the first close at or after the cutoff,
// using the fallback when the history does not reach that far
func referencePrice(closes []Close, cutoff time.Time, fallback float64) float64 {
	for _, c := range closes {
		if !c.Time.Before(cutoff) {
			return c.Price
		}
	}

	return fallback
}
