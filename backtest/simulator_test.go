package backtest_test

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/aoterocom/AOBacktester/backtest"
	"gitlab.com/aoterocom/AOBacktester/models"
	"gitlab.com/aoterocom/AOBacktester/models/analytics"
)

// naiveRun recomputes a simulation the slow, obvious way (per-index window
// sums, no running state) and acts as the independent oracle for the engine.
func naiveRun(quotes []models.Quote, fastWindow int, slowWindow int) analytics.StrategySimulationResult {
	prices := make([]float64, len(quotes))
	for i, quote := range quotes {
		prices[i] = quote.Price
	}

	smaAt := func(i int, window int) float64 {
		if i < window-1 {
			return math.NaN()
		}
		sum := 0.0
		for j := i - window + 1; j <= i; j++ {
			sum += prices[j]
		}
		return sum / float64(window)
	}

	var valid []int
	for i := 1; i < len(prices); i++ {
		if !math.IsNaN(smaAt(i, fastWindow)) && !math.IsNaN(smaAt(i, slowWindow)) {
			valid = append(valid, i)
		}
	}

	positions := make([]int, len(valid))
	for k, i := range valid {
		if smaAt(i, fastWindow) > smaAt(i, slowWindow) {
			positions[k] = 1
		} else {
			positions[k] = -1
		}
	}

	result := analytics.NewStrategySimulationResult()
	result.FastWindow = fastWindow
	result.SlowWindow = slowWindow
	marketSum, strategySum := 0.0, 0.0
	for k := 1; k < len(valid); k++ {
		i := valid[k]
		marketReturn := math.Log(prices[i] / prices[i-1])
		strategyReturn := float64(positions[k-1]) * marketReturn
		marketSum += marketReturn
		strategySum += strategyReturn

		result.Timestamps = append(result.Timestamps, quotes[i].Date)
		result.Positions = append(result.Positions, positions[k])
		result.MarketReturns = append(result.MarketReturns, marketReturn)
		result.StrategyReturns = append(result.StrategyReturns, strategyReturn)
		result.CumMarket = append(result.CumMarket, math.Exp(marketSum))
		result.CumStrategy = append(result.CumStrategy, math.Exp(strategySum))
	}
	result.AbsoluteProfit = math.Round(result.CumStrategy[len(result.CumStrategy)-1]*100) / 100
	result.RelativeProfit = math.Round((result.CumStrategy[len(result.CumStrategy)-1]-result.CumMarket[len(result.CumMarket)-1])*100) / 100
	return result
}

func TestRunHandComputedFixture(t *testing.T) {
	quotes := dailyQuotes([]float64{10, 11, 12, 11, 10, 9, 10, 11})
	series, err := backtest.NewPriceSeries(quotes, 2, 3)
	require.NoError(t, err)

	simulator := backtest.NewSMACrossoverSimulator()
	result, err := simulator.Run(series, 2, 3)
	require.NoError(t, err)

	// Valid rows are indexes 2..7; index 2 is dropped as the first row
	// without a prior position, leaving five simulated rows.
	require.Equal(t, 5, result.Rows())
	assert.Equal(t, []int{1, -1, -1, -1, 1}, result.Positions)

	wantStrategy := []float64{
		math.Log(11.0 / 12.0),  // long through the 12 -> 11 drop
		math.Log(10.0 / 11.0),  // long through 11 -> 10
		-math.Log(9.0 / 10.0),  // short through 10 -> 9
		-math.Log(10.0 / 9.0),  // short through 9 -> 10
		-math.Log(11.0 / 10.0), // short through 10 -> 11
	}
	for k := range wantStrategy {
		assert.InDelta(t, wantStrategy[k], result.StrategyReturns[k], 1e-12, "row %d", k)
	}

	// The market curve telescopes to price/12, the first tradeable close.
	wantMarket := []float64{11.0 / 12.0, 10.0 / 12.0, 9.0 / 12.0, 10.0 / 12.0, 11.0 / 12.0}
	for k := range wantMarket {
		assert.InDelta(t, wantMarket[k], result.CumMarket[k], 1e-12, "row %d", k)
	}

	assert.Equal(t, 0.76, result.AbsoluteProfit)
	assert.Equal(t, -0.16, result.RelativeProfit)
}

func TestRunTieMapsToShort(t *testing.T) {
	series, err := backtest.NewPriceSeries(dailyQuotes([]float64{5, 5, 5, 5, 5, 5}), 2, 3)
	require.NoError(t, err)

	result, err := backtest.NewSMACrossoverSimulator().Run(series, 2, 3)
	require.NoError(t, err)

	// Equal averages everywhere: the strict comparison resolves every row
	// to the short side.
	for k, position := range result.Positions {
		assert.Equal(t, -1, position, "row %d", k)
	}
	assert.Equal(t, 1.0, result.AbsoluteProfit)
	assert.Equal(t, 0.0, result.RelativeProfit)
}

func TestRunEqualCurvesMeanZeroRelativeProfit(t *testing.T) {
	prices := make([]float64, 30)
	for i := range prices {
		prices[i] = 100.0 * math.Pow(1.01, float64(i))
	}
	series, err := backtest.NewPriceSeries(dailyQuotes(prices), 3, 7)
	require.NoError(t, err)

	result, err := backtest.NewSMACrossoverSimulator().Run(series, 3, 7)
	require.NoError(t, err)

	// A steady uptrend keeps the fast average above the slow one, so the
	// strategy holds the market position on every row and both curves
	// coincide exactly.
	for k, position := range result.Positions {
		require.Equal(t, 1, position, "row %d", k)
	}
	assert.Equal(t, result.CumMarket, result.CumStrategy)
	assert.Equal(t, 0.0, result.RelativeProfit)
	assert.Equal(t, 1.26, result.AbsoluteProfit)
}

func TestRunNoLookAhead(t *testing.T) {
	quotes := sineTrendQuotes(120)
	series, err := backtest.NewPriceSeries(quotes, 5, 20)
	require.NoError(t, err)
	base, err := backtest.NewSMACrossoverSimulator().Run(series, 5, 20)
	require.NoError(t, err)

	// Triple one observation in the middle of the series. Rows strictly
	// before it must come out identical: trailing windows and lagged
	// positions can never reach forward.
	perturbed := append([]models.Quote(nil), quotes...)
	perturbed[80].Price *= 3.0
	perturbedSeries, err := backtest.NewPriceSeries(perturbed, 5, 20)
	require.NoError(t, err)
	changed, err := backtest.NewSMACrossoverSimulator().Run(perturbedSeries, 5, 20)
	require.NoError(t, err)

	// Row k covers source index k+20, so rows 0..59 predate the change.
	for k := 0; k < 60; k++ {
		assert.Equal(t, base.Positions[k], changed.Positions[k], "row %d", k)
		assert.Equal(t, base.StrategyReturns[k], changed.StrategyReturns[k], "row %d", k)
		assert.Equal(t, base.CumStrategy[k], changed.CumStrategy[k], "row %d", k)
		assert.Equal(t, base.Timestamps[k], changed.Timestamps[k], "row %d", k)
	}
	assert.NotEqual(t, base.MarketReturns[60], changed.MarketReturns[60])
}

func TestRunLeavesCallerSeriesUntouched(t *testing.T) {
	series, err := backtest.NewPriceSeries(sineTrendQuotes(400), 42, 252)
	require.NoError(t, err)
	fastBefore := append([]float64(nil), series.SMAFast...)

	_, err = backtest.NewSMACrossoverSimulator().Run(series, 5, 20)
	require.NoError(t, err)

	assert.Equal(t, 42, series.FastWindow)
	assert.Equal(t, 252, series.SlowWindow)
	assertSameFloats(t, fastBefore, series.SMAFast)
}

func TestRunInsufficientData(t *testing.T) {
	series, err := backtest.NewPriceSeries(sineTrendQuotes(100), 2, 3)
	require.NoError(t, err)

	_, err = backtest.NewSMACrossoverSimulator().Run(series, 42, 252)
	var insufficient *backtest.InsufficientDataError
	require.True(t, errors.As(err, &insufficient), "want *InsufficientDataError, got %T", err)
	assert.Equal(t, 42, insufficient.FastWindow)
	assert.Equal(t, 252, insufficient.SlowWindow)
	assert.Equal(t, 100, insufficient.Rows)
}

func TestRunInsufficientDataBoundary(t *testing.T) {
	// 252 rows leave a single valid row for a 252 window: still too few.
	series, err := backtest.NewPriceSeries(sineTrendQuotes(252), 42, 252)
	require.NoError(t, err)
	_, err = backtest.NewSMACrossoverSimulator().Run(series, 42, 252)
	var insufficient *backtest.InsufficientDataError
	assert.True(t, errors.As(err, &insufficient))

	// One more row is exactly enough for one simulated row.
	series, err = backtest.NewPriceSeries(sineTrendQuotes(253), 42, 252)
	require.NoError(t, err)
	result, err := backtest.NewSMACrossoverSimulator().Run(series, 42, 252)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Rows())
	assert.Equal(t, 1.01, result.AbsoluteProfit)
}

func TestRunRejectsNonPositiveWindows(t *testing.T) {
	series, err := backtest.NewPriceSeries(sineTrendQuotes(50), 2, 3)
	require.NoError(t, err)

	simulator := backtest.NewSMACrossoverSimulator()
	for _, pair := range [][2]int{{0, 10}, {10, -1}, {-3, 0}} {
		_, err := simulator.Run(series, pair[0], pair[1])
		var dataErr *backtest.DataError
		assert.True(t, errors.As(err, &dataErr), "windows (%d, %d)", pair[0], pair[1])
	}
}

func TestRunSineTrendRegression(t *testing.T) {
	quotes := sineTrendQuotes(400)
	series, err := backtest.NewPriceSeries(quotes, 42, 252)
	require.NoError(t, err)

	result, err := backtest.NewSMACrossoverSimulator().Run(series, 42, 252)
	require.NoError(t, err)

	fmt.Printf("sine+trend 400d SMA(42/252): aperf %.2f operf %.2f over %d rows\n",
		result.AbsoluteProfit, result.RelativeProfit, result.Rows())

	assert.Equal(t, 148, result.Rows())
	assert.Equal(t, 1.15, result.AbsoluteProfit)
	assert.Equal(t, 0.0, result.RelativeProfit)

	oracle := naiveRun(quotes, 42, 252)
	assert.Equal(t, oracle.Positions, result.Positions)
	assert.Equal(t, oracle.AbsoluteProfit, result.AbsoluteProfit)
	assert.Equal(t, oracle.RelativeProfit, result.RelativeProfit)
	for k := range oracle.CumStrategy {
		assert.InDelta(t, oracle.CumStrategy[k], result.CumStrategy[k], 1e-9, "row %d", k)
		assert.InDelta(t, oracle.CumMarket[k], result.CumMarket[k], 1e-9, "row %d", k)
	}
}

func TestRunMixedPositionsRegression(t *testing.T) {
	quotes := sineTrendQuotes(120)
	series, err := backtest.NewPriceSeries(quotes, 5, 20)
	require.NoError(t, err)

	result, err := backtest.NewSMACrossoverSimulator().Run(series, 5, 20)
	require.NoError(t, err)

	require.Equal(t, 100, result.Rows())
	longs, shorts := 0, 0
	for _, position := range result.Positions {
		switch position {
		case 1:
			longs++
		case -1:
			shorts++
		default:
			t.Fatalf("position outside {+1,-1}: %d", position)
		}
	}
	assert.True(t, longs > 0 && shorts > 0, "expected both sides traded, got %d longs / %d shorts", longs, shorts)

	assert.Equal(t, 1.42, result.AbsoluteProfit)
	assert.Equal(t, 0.52, result.RelativeProfit)

	oracle := naiveRun(quotes, 5, 20)
	assert.Equal(t, oracle.Positions, result.Positions)
	for k := range oracle.StrategyReturns {
		assert.InDelta(t, oracle.StrategyReturns[k], result.StrategyReturns[k], 1e-12, "row %d", k)
	}
}
