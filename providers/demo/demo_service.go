package demo

import (
	"time"

	"github.com/sdcoffey/big"
	"github.com/sdcoffey/techan"
	"gitlab.com/aoterocom/AOBacktester/helpers"
)

// DemoService is an offline data source: it fabricates a deterministic
// sine-plus-trend daily series, so backtests and optimizations can run
// without credentials, network or files and always reproduce the same
// numbers.
type DemoService struct{}

func NewDemoService() *DemoService {
	return &DemoService{}
}

func (demoService *DemoService) GetSeries(symbol string, interval string, limit int) (techan.TimeSeries, error) {
	if limit == 0 {
		limit = 1000
	}
	timeSeries := techan.TimeSeries{}

	for _, quote := range helpers.SineTrendQuotes(limit) {
		period := techan.NewTimePeriod(quote.Date, 24*time.Hour)
		candle := techan.NewCandle(period)
		price := big.NewDecimal(quote.Price)
		candle.OpenPrice = price
		candle.ClosePrice = price
		candle.MaxPrice = price
		candle.MinPrice = price
		candle.Volume = big.ZERO
		timeSeries.AddCandle(candle)
	}

	return timeSeries, nil
}
