package helpers_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/aoterocom/AOBacktester/helpers"
)

func TestPositiveNegativeRatio(t *testing.T) {
	assert.Equal(t, 1.5, helpers.PositiveNegativeRatio([]float64{0.2, 0.1, 0.3, -0.1, -0.2}))
	assert.Equal(t, 0.0, helpers.PositiveNegativeRatio([]float64{0.2, 0.1}))
	assert.Equal(t, 0.0, helpers.PositiveNegativeRatio(nil))
}

func TestSumAndStdDev(t *testing.T) {
	numbers := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	total := helpers.Sum(numbers)
	assert.Equal(t, 40.0, total)

	mean := total / float64(len(numbers))
	assert.InDelta(t, 2.138089935299395, helpers.StdDev(numbers, mean), 1e-12)
}

func TestSineTrendQuotesDeterministic(t *testing.T) {
	first := helpers.SineTrendQuotes(120)
	second := helpers.SineTrendQuotes(120)
	require.Equal(t, first, second)

	require.Equal(t, 120, len(first))
	assert.Equal(t, 100.0, first[0].Price)
	for i, quote := range first {
		assert.True(t, quote.Price > 0, "index %d", i)
		if i > 0 {
			assert.True(t, first[i-1].Date.Before(quote.Date), "index %d", i)
		}
	}
}
