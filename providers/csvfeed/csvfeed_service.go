package csvfeed

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/sdcoffey/big"
	"github.com/sdcoffey/techan"
)

const dateLayout = "2006-01-02"

// CSVFeedService serves candle series from a local CSV file with one
// "date,close" row per day. An optional header row is skipped. Ordering and
// price validation stay with the series preparation step downstream.
type CSVFeedService struct {
	path string
}

func NewCSVFeedService(path string) *CSVFeedService {
	return &CSVFeedService{
		path: path,
	}
}

// GetSeries reads the file and returns its rows as daily candles. The
// symbol argument is ignored, the file already identifies the asset. A
// non-zero limit keeps only the last limit rows.
func (csvService *CSVFeedService) GetSeries(symbol string, interval string, limit int) (techan.TimeSeries, error) {
	timeSeries := techan.TimeSeries{}

	f, err := os.Open(csvService.path)
	if err != nil {
		return timeSeries, fmt.Errorf("opening quote file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return timeSeries, fmt.Errorf("reading quote file %s: %w", csvService.path, err)
	}

	type row struct {
		date  time.Time
		price float64
	}

	rows := make([]row, 0, len(records))
	for line, record := range records {
		if len(record) < 2 {
			return timeSeries, fmt.Errorf("quote file %s line %d: want date,close got %d columns", csvService.path, line+1, len(record))
		}

		date, err := time.Parse(dateLayout, record[0])
		if err != nil {
			if line == 0 {
				// Header row.
				continue
			}
			return timeSeries, fmt.Errorf("quote file %s line %d: %w", csvService.path, line+1, err)
		}

		value, err := strconv.ParseFloat(record[1], 64)
		if err != nil {
			return timeSeries, fmt.Errorf("quote file %s line %d: bad price %q: %w", csvService.path, line+1, record[1], err)
		}
		rows = append(rows, row{date: date, price: value})
	}

	// Files exported newest-first are common; AddCandle drops out-of-order
	// candles, so order the rows before building the series.
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].date.Before(rows[j].date)
	})

	candles := make([]*techan.Candle, 0, len(rows))
	for _, r := range rows {
		price := big.NewDecimal(r.price)
		candle := techan.NewCandle(techan.NewTimePeriod(r.date, 24*time.Hour))
		candle.OpenPrice = price
		candle.ClosePrice = price
		candle.MaxPrice = price
		candle.MinPrice = price
		candle.Volume = big.ZERO
		candles = append(candles, candle)
	}

	if limit > 0 && len(candles) > limit {
		candles = candles[len(candles)-limit:]
	}
	for _, candle := range candles {
		timeSeries.AddCandle(candle)
	}

	return timeSeries, nil
}
