package database

import "gorm.io/gorm"

// BacktestRun is one finished simulation. Reruns of the same symbol/window
// combination update the stored row instead of piling up duplicates.
type BacktestRun struct {
	gorm.Model
	Symbol         string `gorm:"uniqueIndex:idx_backtest_run"`
	Interval       string `gorm:"uniqueIndex:idx_backtest_run"`
	FastWindow     int    `gorm:"uniqueIndex:idx_backtest_run"`
	SlowWindow     int    `gorm:"uniqueIndex:idx_backtest_run"`
	Rows           int
	AbsoluteProfit float64
	RelativeProfit float64
}

// OptimizationRun is one finished grid search together with every grid
// point it scored.
type OptimizationRun struct {
	gorm.Model
	Symbol             string
	Interval           string
	FastStart          int
	FastStop           int
	FastStep           int
	SlowStart          int
	SlowStop           int
	SlowStep           int
	BestFast           int
	BestSlow           int
	BestAbsoluteProfit float64
	GridPoints         []GridPoint `gorm:"foreignKey:OptimizationRunID"`
}

type GridPoint struct {
	gorm.Model
	OptimizationRunID uint
	FastWindow        int
	SlowWindow        int
	AbsoluteProfit    float64
}
