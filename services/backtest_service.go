package services

import (
	"fmt"
	"gitlab.com/aoterocom/AOBacktester/backtest"
	"gitlab.com/aoterocom/AOBacktester/database"
	"gitlab.com/aoterocom/AOBacktester/helpers"
	"gitlab.com/aoterocom/AOBacktester/interfaces"
	"gitlab.com/aoterocom/AOBacktester/models"
	"gitlab.com/aoterocom/AOBacktester/models/analytics"
)

// BacktestService glues a quote provider to the crossover engine: it fetches
// the candles, shapes them into a PriceSeries and runs a single simulation or
// a full window grid search, optionally recording the outcome in the database.
type BacktestService struct {
	quoteProvider interfaces.QuoteProvider
	simulator     *backtest.SMACrossoverSimulator
	optimizer     *backtest.GridOptimizer
	dbService     *database.DBService
}

func NewBacktestService(quoteProvider interfaces.QuoteProvider, dbService *database.DBService) *BacktestService {
	optimizer := backtest.NewGridOptimizer()
	return &BacktestService{
		quoteProvider: quoteProvider,
		simulator:     optimizer.Simulator,
		optimizer:     optimizer,
		dbService:     dbService,
	}
}

func (bs *BacktestService) RunBacktest(symbol string, interval string, limit int,
	fastWindow int, slowWindow int) (analytics.StrategySimulationResult, error) {

	helpers.Logger.Debugln(fmt.Sprintf("→ Backtesting %s SMA(%d, %d) over %d %s candles",
		symbol, fastWindow, slowWindow, limit, interval))

	series, err := bs.loadSeries(symbol, interval, limit, fastWindow, slowWindow)
	if err != nil {
		helpers.Logger.Errorln(err.Error())
		return analytics.StrategySimulationResult{}, err
	}

	result, err := bs.simulator.Run(series, fastWindow, slowWindow)
	if err != nil {
		helpers.Logger.Errorln(err.Error())
		return analytics.StrategySimulationResult{}, err
	}

	mean := helpers.Sum(result.StrategyReturns) / float64(result.Rows())
	stdDev := helpers.StdDev(result.StrategyReturns, mean)

	if result.RelativeProfit > 0.0 {
		helpers.Logger.Infoln(fmt.Sprintf("✅️ %s SMA(%d, %d) beats the market: strategy %.2fx, out-performance %.2f, return mean %f, std deviation %f, positive/negative ratio %.2f",
			symbol, fastWindow, slowWindow, result.AbsoluteProfit, result.RelativeProfit, mean, stdDev,
			helpers.PositiveNegativeRatio(result.StrategyReturns)))
	} else {
		helpers.Logger.Infoln(fmt.Sprintf("❌️ %s SMA(%d, %d) does NOT beat the market: strategy %.2fx, out-performance %.2f, return mean %f, std deviation %f, positive/negative ratio %.2f",
			symbol, fastWindow, slowWindow, result.AbsoluteProfit, result.RelativeProfit, mean, stdDev,
			helpers.PositiveNegativeRatio(result.StrategyReturns)))
	}

	if bs.dbService != nil {
		bs.dbService.AddOrUpdateBacktestRun(symbol, interval, result)
	}

	return result, nil
}

func (bs *BacktestService) RunOptimization(symbol string, interval string, limit int,
	fastRange backtest.WindowRange, slowRange backtest.WindowRange, workers int) (analytics.OptimizationOutcome, error) {

	helpers.Logger.Debugln(fmt.Sprintf("→ Optimizing %s SMA windows, fast [%d, %d) step %d, slow [%d, %d) step %d",
		symbol, fastRange.Start, fastRange.Stop, fastRange.Step, slowRange.Start, slowRange.Stop, slowRange.Step))

	// Expand both axes up front so an empty grid fails before any quotes
	// are fetched.
	fastValues, err := fastRange.Values()
	if err != nil {
		helpers.Logger.Errorln(err.Error())
		return analytics.OptimizationOutcome{}, err
	}
	slowValues, err := slowRange.Values()
	if err != nil {
		helpers.Logger.Errorln(err.Error())
		return analytics.OptimizationOutcome{}, err
	}

	series, err := bs.loadSeries(symbol, interval, limit, fastValues[0], slowValues[0])
	if err != nil {
		helpers.Logger.Errorln(err.Error())
		return analytics.OptimizationOutcome{}, err
	}

	bs.optimizer.Workers = workers
	outcome, err := bs.optimizer.Optimize(series, fastRange, slowRange)
	if err != nil {
		helpers.Logger.Errorln(err.Error())
		return analytics.OptimizationOutcome{}, err
	}

	helpers.Logger.Infoln(fmt.Sprintf("✅️ %s best SMA windows (%d, %d): strategy %.2fx over %d evaluated pairs",
		symbol, outcome.BestFast, outcome.BestSlow, outcome.BestAbsoluteProfit, len(outcome.Evaluations)))

	if bs.dbService != nil {
		bs.dbService.AddOptimizationRun(symbol, interval, fastRange.Start, fastRange.Stop, fastRange.Step,
			slowRange.Start, slowRange.Stop, slowRange.Step, outcome)
	}

	return outcome, nil
}

func (bs *BacktestService) loadSeries(symbol string, interval string, limit int,
	fastWindow int, slowWindow int) (*backtest.PriceSeries, error) {

	series, err := bs.quoteProvider.GetSeries(symbol, interval, limit)
	if err != nil {
		return nil, err
	}

	return backtest.NewPriceSeries(models.QuotesFromSeries(&series), fastWindow, slowWindow)
}
