package helpers

import (
	"math"
	"time"

	"gitlab.com/aoterocom/AOBacktester/models"
)

func PositiveNegativeRatio(list []float64) float64 {
	countPositive := 0
	countNegative := 0
	for _, item := range list {
		if item > 0 {
			countPositive++
		} else {
			countNegative++
		}
	}

	if countNegative == 0 {
		return 0
	}
	return float64(countPositive) / float64(countNegative)
}

func StdDev(numbers []float64, mean float64) float64 {
	total := 0.0
	for _, number := range numbers {
		total += math.Pow(number-mean, 2)
	}
	variance := total / float64(len(numbers)-1)
	return math.Sqrt(variance)
}

func Sum(numbers []float64) (total float64) {
	for _, x := range numbers {
		total += x
	}
	return total
}

// SineTrendQuotes generates a deterministic daily price path, a gentle
// linear drift with a sine oscillation on top. It backs the demo data
// source, so runs without an exchange or a CSV file stay reproducible.
func SineTrendQuotes(points int) []models.Quote {
	start := time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC)
	quotes := make([]models.Quote, points)
	for i := 0; i < points; i++ {
		price := 100.0 + 0.05*float64(i) + 10.0*math.Sin(2.0*math.Pi*float64(i)/63.0)
		quotes[i] = models.NewQuote(start.AddDate(0, 0, i), price)
	}
	return quotes
}
