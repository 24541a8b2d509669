package indicators

import (
	"github.com/skalibog/bfsig/pkg/models"
)

// TrendFromRsiOnly упрощенный классификатор тренда по одному RSI,
// используется движком для направляющих таймфреймов
func TrendFromRsiOnly(rsi float64) models.Trend {
	switch {
	case rsi > 55:
		return models.TrendBullish
	case rsi < 45:
		return models.TrendBearish
	default:
		return models.TrendNeutral
	}
}

// TrendFromMovingAverages классификатор тренда по золотому/мертвому кресту
// MA50/MA200 с подтверждением RSI, используется трендовым анализатором
func TrendFromMovingAverages(ma50, ma200, rsi float64) models.Trend {
	switch {
	case ma50 > ma200 && rsi > 50:
		return models.TrendBullish
	case ma50 < ma200 && rsi < 50:
		return models.TrendBearish
	default:
		return models.TrendNeutral
	}
}
