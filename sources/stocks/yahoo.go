package stocks

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/termdetox/terminal-detox/sources"
)

// Close is a single daily closing price
type Close struct {
	Time  time.Time
	Price float64
}

// DailyQuote is the latest price and its change since the previous close
type DailyQuote struct {
	Price         float64
	Change        float64
	ChangePercent float64
}

// Quoter gets the latest quote of a ticker
type Quoter interface {
	Name() string
	Quote(ctx context.Context, symbol string) (DailyQuote, error)
}

// Yahoo reads quotes and daily history from the Yahoo Finance chart API
type Yahoo struct {
	client  *sources.Client
	baseURL string
}

// NewYahoo creates a Yahoo chart client against the public API
func NewYahoo(client *sources.Client) *Yahoo {
	return NewYahooWithURL(client, "https://query1.finance.yahoo.com")
}

// NewYahooWithURL creates a Yahoo chart client against the given base URL
func NewYahooWithURL(client *sources.Client, baseURL string) *Yahoo {
	return &Yahoo{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Name gets the display name of the source
func (y *Yahoo) Name() string {
	return "Yahoo Finance"
}

var yahooHeaders = http.Header{
	"User-Agent": []string{"Mozilla/5.0 (Macintosh; Intel Mac OS X 14_5) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.5 Safari/605.1.15"},
}

// Expected JSON from a chart request
type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol             string  `json:"symbol"`
				RegularMarketPrice float64 `json:"regularMarketPrice"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// chart gets the market price and the last month of daily closes, oldest first
func (y *Yahoo) chart(ctx context.Context, symbol string) (float64, []Close, error) {
	query := url.Values{}
	query.Set("range", "1mo")
	query.Set("interval", "1d")
	endpoint := fmt.Sprintf("%s/v8/finance/chart/%s?%s", y.baseURL, url.PathEscape(symbol), query.Encode())

	var response chartResponse
	err := y.client.GetJSON(ctx, y.Name(), endpoint, yahooHeaders, &response)
	if err != nil {
		return 0, nil, err
	}
	if response.Chart.Error != nil {
		return 0, nil, sources.NewDecodeError(y.Name(), fmt.Errorf("%s: %s", response.Chart.Error.Code, response.Chart.Error.Description))
	}
	if len(response.Chart.Result) == 0 {
		return 0, nil, NewPriceNotFoundError(symbol)
	}

	result := response.Chart.Result[0]
	closes := []Close{}
	if len(result.Indicators.Quote) > 0 {
		prices := result.Indicators.Quote[0].Close
		for i, timestamp := range result.Timestamp {
			// Days without trading have null closes
			if i >= len(prices) || prices[i] == nil {
				continue
			}
			closes = append(closes, Close{Time: time.Unix(timestamp, 0), Price: *prices[i]})
		}
	}

	price := result.Meta.RegularMarketPrice
	if price == 0 && len(closes) > 0 {
		price = closes[len(closes)-1].Price
	}

	return price, closes, nil
}

// Quote gets the market price and its change since the previous daily close
func (y *Yahoo) Quote(ctx context.Context, symbol string) (DailyQuote, error) {
	quote, _, err := y.QuoteWithHistory(ctx, symbol)
	return quote, err
}

// QuoteWithHistory gets the daily quote and the history it was computed from in one request
func (y *Yahoo) QuoteWithHistory(ctx context.Context, symbol string) (DailyQuote, []Close, error) {
	price, closes, err := y.chart(ctx, symbol)
	if err != nil {
		return DailyQuote{}, nil, err
	}
	if price == 0 {
		return DailyQuote{}, nil, NewPriceNotFoundError(symbol)
	}

	quote := DailyQuote{Price: price}
	if len(closes) >= 2 {
		quote.Change, quote.ChangePercent = delta(price, closes[len(closes)-2].Price)
	}

	return quote, closes, nil
}

// History gets the last month of daily closes, oldest first
func (y *Yahoo) History(ctx context.Context, symbol string) ([]Close, error) {
	_, closes, err := y.chart(ctx, symbol)
	return closes, err
}

// Computes the absolute and percent change from a reference price
func delta(price float64, reference float64) (float64, float64) {
	change := price - reference
	if reference == 0 {
		return change, 0
	}

	return change, change / reference * 100
}
