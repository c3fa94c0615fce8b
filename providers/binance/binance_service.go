package binance

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/adshao/go-binance/v2"
	"github.com/sdcoffey/big"
	"github.com/sdcoffey/techan"
	str2duration "github.com/xhit/go-str2duration/v2"
)

type BinanceService struct {
	binanceClient *binance.Client
	apiKey        string
	apiSecret     string
}

func NewBinanceService() *BinanceService {
	binanceService := BinanceService{}
	binanceService.apiKey = os.Getenv("binanceAPIKey")
	binanceService.apiSecret = os.Getenv("binanceAPISecret")
	binanceService.binanceClient = binance.NewClient(binanceService.apiKey, binanceService.apiSecret)
	return &binanceService
}

// GetSeries fetches the last limit candles of the symbol at the given
// interval, paging the kline endpoint in batches of 1000 (its per-request
// cap) and assembling them into a techan series.
func (binanceService *BinanceService) GetSeries(symbol string, interval string, limit int) (techan.TimeSeries, error) {
	if limit == 0 {
		limit = 1000
	}
	timeSeries := techan.TimeSeries{}

	period, err := str2duration.ParseDuration(interval)
	if err != nil {
		return timeSeries, fmt.Errorf("unsupported interval %q: %w", interval, err)
	}

	provisionalLimit := limit % 1000
	if provisionalLimit == 0 {
		provisionalLimit = 1000
	}
	var startTime int64
	var resultKlines []*binance.Kline
	for limit != 0 {
		startTime = time.Now().Unix() - int64(period.Seconds())*int64(limit)
		klines, err := binanceService.binanceClient.NewKlinesService().Symbol(symbol).
			Interval(interval).Limit(provisionalLimit).StartTime(startTime * 1000).Do(context.Background())
		if err != nil {
			return timeSeries, err
		}

		resultKlines = append(resultKlines, klines...)
		limit -= provisionalLimit
		provisionalLimit = 1000
	}

	for _, k := range resultKlines {
		candlePeriod := techan.NewTimePeriod(time.Unix(k.OpenTime/1000, 0), period)
		candle := techan.NewCandle(candlePeriod)
		candle.OpenPrice = big.NewFromString(k.Open)
		candle.ClosePrice = big.NewFromString(k.Close)
		candle.MaxPrice = big.NewFromString(k.High)
		candle.MinPrice = big.NewFromString(k.Low)
		candle.TradeCount = uint(k.TradeNum)
		candle.Volume = big.NewFromString(k.Volume)
		timeSeries.AddCandle(candle)
	}

	return timeSeries, nil
}
