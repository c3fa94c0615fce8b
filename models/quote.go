package models

import (
	"time"

	"github.com/samber/lo"
	"github.com/sdcoffey/techan"
)

// Quote is a single (date, closing price) observation of an asset.
type Quote struct {
	Date  time.Time
	Price float64
}

func NewQuote(date time.Time, price float64) Quote {
	return Quote{
		Date:  date,
		Price: price,
	}
}

// QuotesFromSeries flattens a candle series into its closing quotes, one per
// candle, keeping the candle order.
func QuotesFromSeries(series *techan.TimeSeries) []Quote {
	return lo.Map(series.Candles, func(candle *techan.Candle, _ int) Quote {
		return Quote{
			Date:  candle.Period.Start,
			Price: candle.ClosePrice.Float(),
		}
	})
}
