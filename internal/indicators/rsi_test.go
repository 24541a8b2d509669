package indicators

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skalibog/bfsig/pkg/models"
)

func TestRsiПрогревNaN(t *testing.T) {
	closes := []float64{100, 101, 102, 103, 104, 105, 106, 107, 108, 109,
		110, 111, 112, 113, 114, 115, 116, 117, 118, 119}
	rsi := Rsi(candlesFromCloses(closes), 14)

	require.Len(t, rsi, len(closes))
	for i := 0; i < 14; i++ {
		assert.True(t, math.IsNaN(rsi[i]), "индекс %d должен быть NaN", i)
	}
	for i := 14; i < len(rsi); i++ {
		assert.False(t, math.IsNaN(rsi[i]), "индекс %d должен быть рассчитан", i)
	}
}

func TestRsiКороткаяСерияВсеNaN(t *testing.T) {
	closes := []float64{100, 101, 102, 103, 104}
	rsi := Rsi(candlesFromCloses(closes), 14)

	for i, v := range rsi {
		assert.True(t, math.IsNaN(v), "индекс %d", i)
	}
}

func TestRsiГраницы(t *testing.T) {
	// Чередование роста и падения разной амплитуды
	closes := make([]float64, 60)
	price := 100.0
	for i := range closes {
		if i%3 == 0 {
			price += 2.5
		} else {
			price -= 1.2
		}
		closes[i] = price
	}
	rsi := Rsi(candlesFromCloses(closes), 14)

	for i, v := range rsi {
		if math.IsNaN(v) {
			continue
		}
		assert.GreaterOrEqual(t, v, 0.0, "индекс %d", i)
		assert.LessOrEqual(t, v, 100.0, "индекс %d", i)
	}
}

func TestRsiСтоПриНулевыхУбытках(t *testing.T) {
	closes := make([]float64, 20)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}
	rsi := Rsi(candlesFromCloses(closes), 14)

	assert.Equal(t, 100.0, rsi[len(rsi)-1])
}

func TestRsiНольПриНулевыхПрибылях(t *testing.T) {
	closes := make([]float64, 20)
	for i := range closes {
		closes[i] = 100 - float64(i)
	}
	rsi := Rsi(candlesFromCloses(closes), 14)

	assert.Equal(t, 0.0, rsi[len(rsi)-1])
}

func TestRsiSignalCross(t *testing.T) {
	flat := func(v float64, n int) []float64 {
		out := make([]float64, n)
		for i := range out {
			out[i] = v
		}
		return out
	}

	tests := []struct {
		name     string
		rsi      []float64
		expected models.CrossSignal
	}{
		{
			name:     "Пересечение вверх в зоне перепроданности",
			rsi:      append(flat(25, 14), 20, 28),
			expected: models.CrossBullish,
		},
		{
			name:     "Пересечение вниз в зоне перекупленности",
			rsi:      append(flat(75, 14), 80, 72),
			expected: models.CrossBearish,
		},
		{
			name:     "Пересечение вверх вне зоны не считается",
			rsi:      append(flat(50, 14), 45, 53),
			expected: models.CrossNone,
		},
		{
			name:     "Слишком короткая серия",
			rsi:      []float64{20},
			expected: models.CrossNone,
		},
		{
			name:     "NaN в последних барах",
			rsi:      append(flat(25, 14), math.NaN(), 28),
			expected: models.CrossNone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, RsiSignalCross(tt.rsi, 14))
		})
	}
}
