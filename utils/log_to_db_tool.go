package main

import (
	"bufio"
	"fmt"
	database "gitlab.com/aoterocom/AOBacktester/database/models"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"os"
	"regexp"
	"strconv"
	"time"
)

// Backfills the backtest_runs table from an existing backtester.log, for
// runs recorded before database recording was switched on.
func main() {
	file, err := os.Open("backtester.log")
	if err != nil {
		panic(err)
	}
	defer file.Close()

	dsn := "user:pass@tcp(127.0.0.1:3306)/AOBacktester?charset=utf8mb4&parseTime=True&loc=Local"
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		panic("failed to connect database")
	}

	_ = db.AutoMigrate(&database.BacktestRun{})

	timeLayout := "2006-01-02 15:04:05"
	r := regexp.MustCompile(`INFO  ([0-9]{4}-[0-9]{2}-[0-9]{2} [0-9]{2}:[0-9]{2}:[0-9]{2}) .. ([A-Z0-9]+) SMA\((\d+), (\d+)\).*: strategy (-?[0-9.]+)x, out-performance (-?[0-9.]+)`)

	imported := 0
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		res := r.FindStringSubmatch(scanner.Text())
		if res == nil {
			continue
		}

		t, err := time.Parse(timeLayout, res[1])
		if err != nil {
			panic("Error parsing time")
		}

		fastWindow, _ := strconv.Atoi(res[3])
		slowWindow, _ := strconv.Atoi(res[4])
		absoluteProfit, _ := strconv.ParseFloat(res[5], 64)
		relativeProfit, _ := strconv.ParseFloat(res[6], 64)

		run := database.BacktestRun{
			Symbol:         res[2],
			Interval:       "1d",
			FastWindow:     fastWindow,
			SlowWindow:     slowWindow,
			AbsoluteProfit: absoluteProfit,
			RelativeProfit: relativeProfit,
		}
		run.CreatedAt = t

		db.Create(&run)
		imported++
	}

	fmt.Printf("Imported %d runs\n", imported)
}
