package stocks

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/assert/v2"
	"github.com/rs/zerolog"

	"github.com/termdetox/terminal-detox/sources"
	"github.com/termdetox/terminal-detox/sources/stocks"
	"github.com/termdetox/terminal-detox/types"
)

type fakeQuoter struct{}

func (fakeQuoter) Name() string {
	return "fake"
}

func (fakeQuoter) Quote(ctx context.Context, symbol string) (stocks.DailyQuote, error) {
	return stocks.DailyQuote{Price: 231.5, Change: -1.25, ChangePercent: -0.54}, nil
}

func serve(target string) *httptest.ResponseRecorder {
	// History is never requested for daily-only quotes
	adapter := stocks.NewAdapter(fakeQuoter{}, nil)
	router := Routes(&sources.Policy{Logger: zerolog.Nop()}, adapter)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", target, nil)
	router.ServeHTTP(w, req)
	return w
}

func TestGetDailyQuoteOnly(t *testing.T) {
	w := serve("/?symbols=AAPL&periods=1d")
	assert.Equal(t, http.StatusOK, w.Code)

	var response types.Response[[]map[string]interface{}]
	assert.Equal(t, nil, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, 1, len(*response.Data))

	quote := (*response.Data)[0]
	assert.Equal(t, "AAPL", quote["symbol"])
	assert.Equal(t, 231.5, quote["price"])
	assert.Equal(t, -1.25, quote["change"])
	assert.Equal(t, -0.54, quote["changePercent"])
	for _, field := range []string{"change1w", "changePercent1w", "change1m", "changePercent1m"} {
		_, present := quote[field]
		assert.Equal(t, false, present)
	}
}

func TestGetSeveralSymbols(t *testing.T) {
	w := serve("/?symbols=msft,%20goog&periods=1d")

	var response types.Response[[]types.StockQuote]
	assert.Equal(t, nil, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, 2, len(*response.Data))
	assert.Equal(t, "MSFT", (*response.Data)[0].Symbol)
	assert.Equal(t, "GOOG", (*response.Data)[1].Symbol)
}

func TestTooManySymbols(t *testing.T) {
	w := serve("/?symbols=A,B,C,D,E,F,G,H,I,J,K&periods=1d")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response types.Response[[]types.StockQuote]
	assert.Equal(t, nil, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, true, response.Data == nil)
	assert.NotEqual(t, nil, response.Error)
}
