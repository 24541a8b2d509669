package indicators

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skalibog/bfsig/pkg/models"
)

func TestStochasticRsiГраницы(t *testing.T) {
	closes := make([]float64, 80)
	price := 100.0
	for i := range closes {
		if i%4 < 2 {
			price += 1.7
		} else {
			price -= 2.1
		}
		closes[i] = price
	}
	res := StochasticRsi(candlesFromCloses(closes), 14, 14, 3, 3)

	require.Len(t, res.K, len(closes))
	require.Len(t, res.D, len(closes))
	for i := range res.K {
		if !math.IsNaN(res.K[i]) {
			assert.GreaterOrEqual(t, res.K[i], 0.0, "K индекс %d", i)
			assert.LessOrEqual(t, res.K[i], 100.0, "K индекс %d", i)
		}
		if !math.IsNaN(res.D[i]) {
			assert.GreaterOrEqual(t, res.D[i], 0.0, "D индекс %d", i)
			assert.LessOrEqual(t, res.D[i], 100.0, "D индекс %d", i)
		}
	}
}

func TestStochasticRsiНулевойРазмахДает50(t *testing.T) {
	// Монотонный рост: RSI постоянно 100, размах окна нулевой
	closes := make([]float64, 60)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}
	res := StochasticRsi(candlesFromCloses(closes), 14, 14, 3, 3)

	assert.InDelta(t, 50, res.K[len(res.K)-1], 1e-9)
	assert.InDelta(t, 50, res.D[len(res.D)-1], 1e-9)
	assert.Equal(t, models.CrossNone, res.Cross)
}

func TestStochasticRsiКороткаяСерия(t *testing.T) {
	closes := []float64{100, 101, 99}
	res := StochasticRsi(candlesFromCloses(closes), 14, 14, 3, 3)

	for i := range res.K {
		assert.True(t, math.IsNaN(res.K[i]))
		assert.True(t, math.IsNaN(res.D[i]))
	}
	assert.Equal(t, models.CrossNone, res.Cross)
}
