package crypto

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/assert/v2"

	"github.com/termdetox/terminal-detox/sources"
)

func newCoinServer(t *testing.T) *httptest.Server {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/tickers/btc-bitcoin":
			fmt.Fprint(w, `{"last_updated": "2026-10-14T09:00:00Z", "quotes": {"USD": {"price": 98000.5, "percent_change_24h": 1.25}}}`)
		case "/v1/tickers/eth-ethereum":
			w.WriteHeader(http.StatusBadGateway)
		case "/api/v3/search":
			switch r.URL.Query().Get("query") {
			case "eth":
				fmt.Fprint(w, `{"coins": [{"id": "ethereum-classic", "name": "Ethereum Classic", "symbol": "ETC"}, {"id": "ethereum", "name": "Ethereum", "symbol": "ETH"}]}`)
			case "dogecoin":
				fmt.Fprint(w, `{"coins": [{"id": "baby-doge", "name": "Baby Doge", "symbol": "BABYDOGE"}, {"id": "dogecoin", "name": "Dogecoin", "symbol": "DOGE"}]}`)
			default:
				fmt.Fprint(w, `{"coins": []}`)
			}
		case "/api/v3/coins/list":
			fmt.Fprint(w, `[{"id": "weird-coin", "symbol": "wrd", "name": "Weird"}]`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func TestPricesSkipsFailedAndUnknownCoins(t *testing.T) {
	server := newCoinServer(t)
	adapter := NewPriceAdapterWithURL(sources.NewClientFrom(server.Client()), server.URL)

	prices, err := adapter.Fetch(context.Background(), PriceParams{IDs: []string{"bitcoin", "ethereum", "notacoin"}})
	assert.Equal(t, nil, err)
	assert.Equal(t, 1, len(prices))
	assert.Equal(t, 98000.5, prices["bitcoin"].USD)
	assert.Equal(t, 1.25, prices["bitcoin"].USD24hChange)
	assert.Equal(t, "2026-10-14T09:00:00Z", prices["bitcoin"].LastUpdatedAt)
}

func TestPricesFailWhenEveryCoinFails(t *testing.T) {
	server := newCoinServer(t)
	adapter := NewPriceAdapterWithURL(sources.NewClientFrom(server.Client()), server.URL)

	_, err := adapter.Fetch(context.Background(), PriceParams{IDs: []string{"ethereum"}})
	var upstream *sources.UpstreamError
	assert.Equal(t, true, errors.As(err, &upstream))
	assert.Equal(t, 0, len(adapter.Fallback(PriceParams{})))
}

func TestTickerID(t *testing.T) {
	id, ok := TickerID("solana")
	assert.Equal(t, true, ok)
	assert.Equal(t, "sol-solana", id)

	id, ok = TickerID("ada-cardano")
	assert.Equal(t, true, ok)
	assert.Equal(t, "ada-cardano", id)

	_, ok = TickerID("notacoin")
	assert.Equal(t, false, ok)
}

func TestSearchPrefersSymbol(t *testing.T) {
	server := newCoinServer(t)
	adapter := NewSearchAdapterWithURL(sources.NewClientFrom(server.Client()), server.URL)

	match, err := adapter.Fetch(context.Background(), SearchParams{Query: "ETH"})
	assert.Equal(t, nil, err)
	assert.Equal(t, "ethereum", match.ID)
	assert.Equal(t, "Ethereum", match.Name)
}

func TestSearchMatchesID(t *testing.T) {
	server := newCoinServer(t)
	adapter := NewSearchAdapterWithURL(sources.NewClientFrom(server.Client()), server.URL)

	match, err := adapter.Fetch(context.Background(), SearchParams{Query: "dogecoin"})
	assert.Equal(t, nil, err)
	assert.Equal(t, "dogecoin", match.ID)
}

func TestSearchFallsBackToCoinList(t *testing.T) {
	server := newCoinServer(t)
	adapter := NewSearchAdapterWithURL(sources.NewClientFrom(server.Client()), server.URL)

	match, err := adapter.Fetch(context.Background(), SearchParams{Query: "wrd"})
	assert.Equal(t, nil, err)
	assert.Equal(t, "weird-coin", match.ID)
	assert.Equal(t, "", match.Name)

	match, err = adapter.Fetch(context.Background(), SearchParams{Query: "zzz"})
	assert.Equal(t, nil, err)
	assert.Equal(t, true, match == nil)
}

func TestSearchRequiresQuery(t *testing.T) {
	adapter := NewSearchAdapterWithURL(sources.NewClientFrom(http.DefaultClient), "http://127.0.0.1:0")

	_, err := adapter.Fetch(context.Background(), SearchParams{Query: "  "})
	var invalid *sources.InvalidParamError
	assert.Equal(t, true, errors.As(err, &invalid))
}

func TestBestMatchFuzzy(t *testing.T) {
	coins := []coin{{ID: "chainlink", Name: "Chainlink", Symbol: "LINK"}, {ID: "bitcoin", Name: "Bitcoin", Symbol: "BTC"}}
	match := bestMatch("btcn", coins)
	assert.Equal(t, "bitcoin", match.ID)
}
