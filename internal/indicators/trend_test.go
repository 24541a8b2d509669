package indicators

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/skalibog/bfsig/pkg/models"
)

func TestTrendFromRsiOnly(t *testing.T) {
	tests := []struct {
		name     string
		rsi      float64
		expected models.Trend
	}{
		{"Бычий выше 55", 60, models.TrendBullish},
		{"Медвежий ниже 45", 40, models.TrendBearish},
		{"Нейтральный на границе 55", 55, models.TrendNeutral},
		{"Нейтральный на границе 45", 45, models.TrendNeutral},
		{"Нейтральный в середине", 50, models.TrendNeutral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, TrendFromRsiOnly(tt.rsi))
		})
	}
}

func TestTrendFromMovingAverages(t *testing.T) {
	tests := []struct {
		name       string
		ma50, ma200 float64
		rsi        float64
		expected   models.Trend
	}{
		{"Золотой крест с подтверждением RSI", 110, 100, 60, models.TrendBullish},
		{"Золотой крест без подтверждения", 110, 100, 45, models.TrendNeutral},
		{"Мертвый крест с подтверждением RSI", 90, 100, 40, models.TrendBearish},
		{"Мертвый крест без подтверждения", 90, 100, 55, models.TrendNeutral},
		{"Равные средние", 100, 100, 60, models.TrendNeutral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, TrendFromMovingAverages(tt.ma50, tt.ma200, tt.rsi))
		})
	}
}
