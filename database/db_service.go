package database

import (
	database "gitlab.com/aoterocom/AOBacktester/database/models"
	"gitlab.com/aoterocom/AOBacktester/models/analytics"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DBService struct {
	DB *gorm.DB
}

func NewDBService(dbHost string, dbPort string, dbName string, dbUser string, dbPass string) (*DBService, error) {
	dsn := dbUser + ":" + dbPass + "@tcp(" + dbHost + ":" + dbPort + ")/" + dbName + "?charset=utf8mb4&parseTime=True&loc=Local"
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	dbs := &DBService{
		DB: db,
	}

	err = dbs.DB.AutoMigrate(&database.BacktestRun{}, &database.OptimizationRun{}, &database.GridPoint{})
	if err != nil {
		return nil, err
	}

	return dbs, nil
}

// AddOrUpdateBacktestRun records a finished simulation, replacing any
// earlier run of the same symbol, interval and window pair.
func (dbs *DBService) AddOrUpdateBacktestRun(symbol string, interval string, result analytics.StrategySimulationResult) {
	dbRun := database.BacktestRun{
		Symbol:         symbol,
		Interval:       interval,
		FastWindow:     result.FastWindow,
		SlowWindow:     result.SlowWindow,
		Rows:           result.Rows(),
		AbsoluteProfit: result.AbsoluteProfit,
		RelativeProfit: result.RelativeProfit,
	}

	// Update columns to new value on conflict
	dbs.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "symbol"}, {Name: "interval"}, {Name: "fast_window"}, {Name: "slow_window"}},
		DoUpdates: clause.AssignmentColumns([]string{"rows", "absolute_profit", "relative_profit"}),
	}).Create(&dbRun)
}

// AddOptimizationRun records a finished grid search with its per-pair
// scores, one GridPoint child per evaluated pair.
func (dbs *DBService) AddOptimizationRun(symbol string, interval string, fastStart, fastStop, fastStep,
	slowStart, slowStop, slowStep int, outcome analytics.OptimizationOutcome) uint {

	var dbGridPoints []database.GridPoint
	for _, evaluation := range outcome.Evaluations {
		dbGridPoints = append(dbGridPoints, database.GridPoint{
			FastWindow:     evaluation.FastWindow,
			SlowWindow:     evaluation.SlowWindow,
			AbsoluteProfit: evaluation.AbsoluteProfit,
		})
	}

	dbRun := database.OptimizationRun{
		Symbol:             symbol,
		Interval:           interval,
		FastStart:          fastStart,
		FastStop:           fastStop,
		FastStep:           fastStep,
		SlowStart:          slowStart,
		SlowStop:           slowStop,
		SlowStep:           slowStep,
		BestFast:           outcome.BestFast,
		BestSlow:           outcome.BestSlow,
		BestAbsoluteProfit: outcome.BestAbsoluteProfit,
		GridPoints:         dbGridPoints,
	}

	dbs.DB.Create(&dbRun)
	return dbRun.ID
}
