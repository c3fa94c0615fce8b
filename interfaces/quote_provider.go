package interfaces

import "github.com/sdcoffey/techan"

// QuoteProvider hands out historical candle series for a symbol. A limit of
// 0 lets the provider pick its own default depth.
type QuoteProvider interface {
	GetSeries(symbol string, interval string, limit int) (techan.TimeSeries, error)
}
