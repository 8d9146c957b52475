package crypto

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/assert/v2"
	"github.com/rs/zerolog"

	"github.com/termdetox/terminal-detox/sources"
	"github.com/termdetox/terminal-detox/sources/crypto"
	"github.com/termdetox/terminal-detox/types"
)

type fakePrices struct {
	params crypto.PriceParams
	err    error
}

func (f *fakePrices) Name() string {
	return "Crypto"
}

func (f *fakePrices) Fetch(ctx context.Context, params crypto.PriceParams) (map[string]types.CryptoPrice, error) {
	f.params = params
	if f.err != nil {
		return nil, f.err
	}

	prices := make(map[string]types.CryptoPrice)
	for _, id := range params.IDs {
		prices[id] = types.CryptoPrice{ID: id, USD: 1}
	}
	return prices, nil
}

func (f *fakePrices) Fallback(params crypto.PriceParams) map[string]types.CryptoPrice {
	return map[string]types.CryptoPrice{}
}

type fakeSearch struct{}

func (fakeSearch) Name() string {
	return "CoinGecko"
}

func (fakeSearch) Fetch(ctx context.Context, params crypto.SearchParams) (*types.CryptoMatch, error) {
	if params.Query == "btc" {
		return &types.CryptoMatch{ID: "bitcoin", Name: "Bitcoin", Symbol: "BTC"}, nil
	}
	return nil, nil
}

func serve(prices *fakePrices, target string) *httptest.ResponseRecorder {
	router := Routes(&sources.Policy{Logger: zerolog.Nop()}, prices, fakeSearch{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", target, nil)
	router.ServeHTTP(w, req)
	return w
}

func TestGetPricesDefaults(t *testing.T) {
	prices := &fakePrices{}
	w := serve(prices, "/")

	var response types.Response[map[string]types.CryptoPrice]
	assert.Equal(t, nil, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"bitcoin", "ethereum"}, prices.params.IDs)
	assert.Equal(t, 2, len(*response.Data))
}

func TestGetPricesFallsBackQuietly(t *testing.T) {
	prices := &fakePrices{err: errors.New("unreachable")}
	w := serve(prices, "/?ids=solana")

	var response types.Response[map[string]types.CryptoPrice]
	assert.Equal(t, nil, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, response.Error == nil)
	assert.Equal(t, 0, len(*response.Data))
}

func TestSearch(t *testing.T) {
	w := serve(&fakePrices{}, "/search?query=btc")

	var response types.Response[*types.CryptoMatch]
	assert.Equal(t, nil, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "bitcoin", (*response.Data).ID)

	w = serve(&fakePrices{}, "/search?query=nothing")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, json.Valid(w.Body.Bytes()))

	var raw map[string]interface{}
	assert.Equal(t, nil, json.Unmarshal(w.Body.Bytes(), &raw))
	assert.Equal(t, nil, raw["data"])
}
