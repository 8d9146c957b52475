package stocks

import "fmt"

// PriceNotFoundError is an error used to encode when a quote carried no usable price
type PriceNotFoundError struct {
	Symbol string
}

// NewPriceNotFoundError constructs a new PriceNotFoundError
func NewPriceNotFoundError(symbol string) *PriceNotFoundError {
	return &PriceNotFoundError{
		Symbol: symbol,
	}
}

func (e *PriceNotFoundError) Error() string {
	return fmt.Sprintf("price data not found for '%s'", e.Symbol)
}
