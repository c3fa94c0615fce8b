package main

import (
	"gitlab.com/aoterocom/AOBacktester/backtest"
	"gitlab.com/aoterocom/AOBacktester/database"
	"gitlab.com/aoterocom/AOBacktester/providers/demo"
	"gitlab.com/aoterocom/AOBacktester/services"
	"log"
)

// Runs the demo feed through a backtest and a grid search against a local
// database, handy for eyeballing the recorded rows.
func main() {

	dbService, err := database.NewDBService("127.0.0.1", "3306", "AOBacktester", "admin", "abc123..")
	if err != nil {
		log.Fatalln(err)
	}

	backtestService := services.NewBacktestService(demo.NewDemoService(), dbService)

	_, err = backtestService.RunBacktest("DEMOEUR", "1d", 400, 42, 252)
	if err != nil {
		log.Fatalln(err)
	}

	fastRange := backtest.WindowRange{Start: 30, Stop: 56, Step: 4}
	slowRange := backtest.WindowRange{Start: 200, Stop: 300, Step: 4}
	_, err = backtestService.RunOptimization("DEMOEUR", "1d", 400, fastRange, slowRange, 4)
	if err != nil {
		log.Fatalln(err)
	}
}
