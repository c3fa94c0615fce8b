package main

import (
	"fmt"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
	str2duration "github.com/xhit/go-str2duration/v2"
	"gitlab.com/aoterocom/AOBacktester/backtest"
	"gitlab.com/aoterocom/AOBacktester/database"
	"gitlab.com/aoterocom/AOBacktester/helpers"
	"gitlab.com/aoterocom/AOBacktester/interfaces"
	"gitlab.com/aoterocom/AOBacktester/providers/binance"
	"gitlab.com/aoterocom/AOBacktester/providers/csvfeed"
	"gitlab.com/aoterocom/AOBacktester/providers/demo"
	"gitlab.com/aoterocom/AOBacktester/services"
	"gitlab.com/aoterocom/AOBacktester/ui"
	"os"
	"strconv"
	"strings"
)

func init() {
	cwd, _ := os.Getwd()
	_ = godotenv.Load(cwd + "/conf.env")
}

func main() {
	app := &cli.App{
		Name:  "AOBacktester",
		Usage: "SMA crossover backtesting and window optimization over historical candles",
		Commands: []*cli.Command{
			{
				Name:   "backtest",
				Usage:  "run a single SMA crossover simulation",
				Flags:  append(sourceFlags(), windowFlags()...),
				Action: runBacktestCmd,
			},
			{
				Name:  "optimize",
				Usage: "grid search the SMA window pair with the best performance",
				Flags: append(sourceFlags(),
					&cli.StringFlag{Name: "fast-range", Value: "30,56,4", Usage: "fast window candidates as start,stop,step"},
					&cli.StringFlag{Name: "slow-range", Value: "200,300,4", Usage: "slow window candidates as start,stop,step"},
					&cli.IntFlag{Name: "workers", Value: 1, Usage: "parallel simulations during the grid search"}),
				Action: runOptimizeCmd,
			},
			{
				Name:   "chart",
				Usage:  "run a backtest and plot both growth curves in the terminal",
				Flags:  append(sourceFlags(), windowFlags()...),
				Action: runChartCmd,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		helpers.Logger.Errorln(err.Error())
		fmt.Println("❌️ " + err.Error())
		os.Exit(1)
	}
}

func sourceFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "source", Value: "demo", Usage: "quote source: demo, csv or binance"},
		&cli.StringFlag{Name: "symbol", Value: "BTCEUR", Usage: "market symbol to backtest"},
		&cli.StringFlag{Name: "csv", Usage: "path to a date,price csv file (csv source only)"},
		&cli.StringFlag{Name: "interval", Value: "1d", Usage: "candle interval"},
		&cli.IntFlag{Name: "limit", Value: 730, Usage: "number of candles to fetch"},
		&cli.StringFlag{Name: "lookback", Usage: "history span overriding limit, e.g. 104w or 730d"},
	}
}

func windowFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{Name: "fast", Value: 42, Usage: "fast SMA window in candles"},
		&cli.IntFlag{Name: "slow", Value: 252, Usage: "slow SMA window in candles"},
	}
}

func runBacktestCmd(c *cli.Context) error {
	backtestService, err := buildBacktestService(c)
	if err != nil {
		return err
	}
	limit, err := candleLimit(c)
	if err != nil {
		return err
	}

	result, err := backtestService.RunBacktest(c.String("symbol"), c.String("interval"), limit,
		c.Int("fast"), c.Int("slow"))
	if err != nil {
		return err
	}

	fmt.Printf("%s SMA(%d, %d) over %d rows\n", c.String("symbol"), result.FastWindow, result.SlowWindow, result.Rows())
	fmt.Printf("Strategy: %.2fx Out-performance vs market: %.2f\n", result.AbsoluteProfit, result.RelativeProfit)
	return nil
}

func runOptimizeCmd(c *cli.Context) error {
	backtestService, err := buildBacktestService(c)
	if err != nil {
		return err
	}
	limit, err := candleLimit(c)
	if err != nil {
		return err
	}

	fastRange, err := parseWindowRange(c.String("fast-range"))
	if err != nil {
		return err
	}
	slowRange, err := parseWindowRange(c.String("slow-range"))
	if err != nil {
		return err
	}

	outcome, err := backtestService.RunOptimization(c.String("symbol"), c.String("interval"), limit,
		fastRange, slowRange, c.Int("workers"))
	if err != nil {
		return err
	}

	fmt.Printf("Best SMA windows for %s: (%d, %d)\n", c.String("symbol"), outcome.BestFast, outcome.BestSlow)
	fmt.Printf("Strategy: %.2fx over %d evaluated pairs\n", outcome.BestAbsoluteProfit, len(outcome.Evaluations))
	return nil
}

func runChartCmd(c *cli.Context) error {
	backtestService, err := buildBacktestService(c)
	if err != nil {
		return err
	}
	limit, err := candleLimit(c)
	if err != nil {
		return err
	}

	result, err := backtestService.RunBacktest(c.String("symbol"), c.String("interval"), limit,
		c.Int("fast"), c.Int("slow"))
	if err != nil {
		return err
	}

	userInterface := ui.UserInterface{}
	userInterface.SetResult(c.String("symbol"), result)
	userInterface.Run()
	return nil
}

func buildBacktestService(c *cli.Context) (*services.BacktestService, error) {
	quoteProvider, err := buildProvider(c)
	if err != nil {
		return nil, err
	}

	var databaseService *database.DBService
	databaseIsEnabled, _ := strconv.ParseBool(os.Getenv("enableDatabaseRecording"))
	if databaseIsEnabled {
		databaseService, err = database.NewDBService(os.Getenv("databaseHost"), os.Getenv("databasePort"),
			os.Getenv("databaseName"), os.Getenv("databaseUser"), os.Getenv("databasePassword"))
		if err != nil {
			return nil, err
		}
	}

	return services.NewBacktestService(quoteProvider, databaseService), nil
}

func buildProvider(c *cli.Context) (interfaces.QuoteProvider, error) {
	switch c.String("source") {
	case "demo":
		return demo.NewDemoService(), nil
	case "csv":
		if c.String("csv") == "" {
			return nil, fmt.Errorf("error: the csv source needs the --csv flag")
		}
		return csvfeed.NewCSVFeedService(c.String("csv")), nil
	case "binance":
		return binance.NewBinanceService(), nil
	}
	return nil, fmt.Errorf("%s is not a known quote source", c.String("source"))
}

// candleLimit resolves how many candles to fetch, letting --lookback
// override --limit by dividing the span by the candle interval.
func candleLimit(c *cli.Context) (int, error) {
	limit := c.Int("limit")
	lookback := c.String("lookback")
	if lookback == "" {
		return limit, nil
	}

	lookbackDuration, err := str2duration.ParseDuration(lookback)
	if err != nil {
		return 0, fmt.Errorf("error: cannot parse lookback %s: %s", lookback, err)
	}
	intervalDuration, err := str2duration.ParseDuration(c.String("interval"))
	if err != nil {
		return 0, fmt.Errorf("error: cannot parse interval %s: %s", c.String("interval"), err)
	}

	return int(lookbackDuration.Seconds() / intervalDuration.Seconds()), nil
}

func parseWindowRange(rangeString string) (backtest.WindowRange, error) {
	parts := strings.Split(rangeString, ",")
	if len(parts) != 3 {
		return backtest.WindowRange{}, fmt.Errorf("%s is not a valid range, expected start,stop,step", rangeString)
	}

	var values [3]int
	for i, part := range parts {
		value, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return backtest.WindowRange{}, fmt.Errorf("%s is not a valid range, expected start,stop,step", rangeString)
		}
		values[i] = value
	}

	return backtest.WindowRange{Start: values[0], Stop: values[1], Step: values[2]}, nil
}
