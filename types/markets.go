package types

// QuoteOfTheDay is the payload of the quote endpoint
type QuoteOfTheDay struct {
	Text   string `json:"text"`
	Author string `json:"author"`
}

// CryptoPrice is the USD price of a single coin
type CryptoPrice struct {
	ID            string  `json:"id"`
	USD           float64 `json:"usd"`
	USD24hChange  float64 `json:"usd_24h_change"`
	LastUpdatedAt string  `json:"last_updated_at"`
}

// CryptoMatch is the best-effort resolution of a symbol or name to a coin ID
type CryptoMatch struct {
	ID     string `json:"id"`
	Name   string `json:"name,omitempty"`
	Symbol string `json:"symbol,omitempty"`
}

// StockQuote is the price and change of a single ticker.
// The weekly and monthly deltas are only present when those periods were requested
type StockQuote struct {
	Symbol          string   `json:"symbol"`
	Price           float64  `json:"price"`
	Change          float64  `json:"change"`
	ChangePercent   float64  `json:"changePercent"`
	Change1w        *float64 `json:"change1w,omitempty"`
	ChangePercent1w *float64 `json:"changePercent1w,omitempty"`
	Change1m        *float64 `json:"change1m,omitempty"`
	ChangePercent1m *float64 `json:"changePercent1m,omitempty"`
}
