package indicators

import (
	"math"

	"github.com/skalibog/bfsig/pkg/models"
)

// Rsi рассчитывает RSI по простому скользящему среднему прибылей и убытков
// (не по сглаживанию Уайлдера). Значения выровнены по свечам: первые period
// индексов — NaN. Если средний убыток равен нулю, RSI = 100.
func Rsi(candles []models.Candle, period int) []float64 {
	out := Nans(len(candles))
	for j := period; j < len(candles); j++ {
		var gains, losses float64
		for i := j - period + 1; i <= j; i++ {
			change := candles[i].Close - candles[i-1].Close
			if change > 0 {
				gains += change
			} else {
				losses -= change
			}
		}
		avgGain := gains / float64(period)
		avgLoss := losses / float64(period)
		if avgLoss == 0 {
			out[j] = 100
		} else {
			out[j] = 100 - 100/(1+avgGain/avgLoss)
		}
	}
	return out
}

// RsiSignalCross детектирует пересечение RSI со своей сигнальной линией
// (SMA от RSI за signalPeriod). Пересечение вверх в зоне ≤30 — bullish_cross,
// пересечение вниз в зоне ≥70 — bearish_cross.
func RsiSignalCross(rsi []float64, signalPeriod int) models.CrossSignal {
	signal := make([]float64, len(rsi))
	for i := range rsi {
		if i < signalPeriod-1 || math.IsNaN(rsi[i]) {
			signal[i] = math.NaN()
			continue
		}
		sum, cnt := 0.0, 0
		for j := i - signalPeriod + 1; j <= i; j++ {
			if !math.IsNaN(rsi[j]) {
				sum += rsi[j]
				cnt++
			}
		}
		if cnt == 0 {
			signal[i] = math.NaN()
		} else {
			signal[i] = sum / float64(cnt)
		}
	}

	n := len(rsi)
	if n < 2 {
		return models.CrossNone
	}

	rsiNow, sigNow := rsi[n-1], signal[n-1]
	rsiPrev, sigPrev := rsi[n-2], signal[n-2]
	if math.IsNaN(rsiNow) || math.IsNaN(sigNow) || math.IsNaN(rsiPrev) || math.IsNaN(sigPrev) {
		return models.CrossNone
	}

	if rsiNow > sigNow && rsiPrev <= sigPrev && rsiNow <= 30 {
		return models.CrossBullish
	}
	if rsiNow < sigNow && rsiPrev >= sigPrev && rsiNow >= 70 {
		return models.CrossBearish
	}
	return models.CrossNone
}
