package crypto

import (
	"context"
	"net/url"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/termdetox/terminal-detox/sources"
	"github.com/termdetox/terminal-detox/types"
)

// SearchParams are the options of a coin search
type SearchParams struct {
	Query string
}

// CacheKey implements sources.Keyed
func (p SearchParams) CacheKey() string {
	return strings.ToLower(strings.TrimSpace(p.Query))
}

// SearchAdapter resolves a symbol or name to a CoinGecko coin
type SearchAdapter struct {
	client  *sources.Client
	baseURL string
}

// NewSearchAdapter creates a search adapter against the public API
func NewSearchAdapter(client *sources.Client) *SearchAdapter {
	return NewSearchAdapterWithURL(client, "https://api.coingecko.com")
}

// NewSearchAdapterWithURL creates a search adapter against the given base URL
func NewSearchAdapterWithURL(client *sources.Client, baseURL string) *SearchAdapter {
	return &SearchAdapter{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Name gets the display name of the source
func (a *SearchAdapter) Name() string {
	return "CoinGecko"
}

type coin struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}

// Expected JSON from the search request
type searchResponse struct {
	Coins []coin `json:"coins"`
}

// Fetch finds the best match for the query, or nil when nothing matches.
// Matches are tried by exact symbol, then exact id, then name substring,
// then the closest fuzzy name; the full coin list is the last resort
func (a *SearchAdapter) Fetch(ctx context.Context, params SearchParams) (*types.CryptoMatch, error) {
	query := strings.ToLower(strings.TrimSpace(params.Query))
	if query == "" {
		return nil, sources.NewInvalidParamError("query", params.Query, "must not be empty")
	}

	var response searchResponse
	err := a.client.GetJSON(ctx, a.Name(), a.baseURL+"/api/v3/search?query="+url.QueryEscape(query), nil, &response)
	if err != nil {
		return nil, err
	}

	if match := bestMatch(query, response.Coins); match != nil {
		return &types.CryptoMatch{ID: match.ID, Name: match.Name, Symbol: match.Symbol}, nil
	}

	var list []coin
	err = a.client.GetJSON(ctx, a.Name(), a.baseURL+"/api/v3/coins/list", nil, &list)
	if err != nil {
		return nil, err
	}
	for _, candidate := range list {
		if strings.ToLower(candidate.Symbol) == query {
			return &types.CryptoMatch{ID: candidate.ID}, nil
		}
	}

	return nil, nil
}

func bestMatch(query string, coins []coin) *coin {
	for i := range coins {
		if strings.ToLower(coins[i].Symbol) == query {
			return &coins[i]
		}
	}
	for i := range coins {
		if strings.ToLower(coins[i].ID) == query {
			return &coins[i]
		}
	}
	for i := range coins {
		if strings.Contains(strings.ToLower(coins[i].Name), query) {
			return &coins[i]
		}
	}

	names := make([]string, len(coins))
	for i, candidate := range coins {
		names[i] = candidate.Name
	}
	ranks := fuzzy.RankFindNormalizedFold(query, names)
	if len(ranks) == 0 {
		return nil
	}
	sort.Sort(ranks)
	for i := range coins {
		if coins[i].Name == ranks[0].Target {
			return &coins[i]
		}
	}

	return nil
}
