package indicators

import (
	"math"

	"github.com/skalibog/bfsig/pkg/models"
)

// WaveTrendResult результат расчета осциллятора WaveTrend (LazyBear)
type WaveTrendResult struct {
	WT1     []float64
	WT2     []float64
	Signals []models.WTSignal
}

// WaveTrend рассчитывает осциллятор WaveTrend по типичной цене (H+L+C)/3:
// esa = EMA(tp, channelLen); d = EMA(|tp-esa|, channelLen);
// ci = (tp-esa)/(0.015*d); wt1 = EMA(ci, avgLen); wt2 = SMA(wt1, maLen).
// Сигнал buy: wt1 пересекает wt2 вверх при wt1 < -40;
// сигнал sell: wt1 пересекает wt2 вниз при wt1 > 40.
// На первой свече сигнала не бывает — нечего пересекать.
func WaveTrend(candles []models.Candle, channelLen, avgLen, maLen int) WaveTrendResult {
	n := len(candles)
	tp := make([]float64, n)
	for i, c := range candles {
		tp[i] = (c.High + c.Low + c.Close) / 3
	}

	esa := Ema(tp, channelLen)

	deviation := make([]float64, n)
	for i := range tp {
		if math.IsNaN(esa[i]) {
			deviation[i] = 0
		} else {
			deviation[i] = math.Abs(tp[i] - esa[i])
		}
	}
	d := Ema(deviation, channelLen)

	ci := make([]float64, n)
	for i := range tp {
		if math.IsNaN(esa[i]) || math.IsNaN(d[i]) || d[i] == 0 {
			ci[i] = 0
		} else {
			ci[i] = (tp[i] - esa[i]) / (0.015 * d[i])
		}
	}

	wt1 := Ema(ci, avgLen)
	wt2 := Sma(wt1, maLen)

	signals := make([]models.WTSignal, n)
	for i := 0; i < n; i++ {
		if i == 0 || math.IsNaN(wt1[i]) || math.IsNaN(wt2[i]) || math.IsNaN(wt1[i-1]) || math.IsNaN(wt2[i-1]) {
			signals[i] = models.WTNeutral
			continue
		}
		switch {
		case wt1[i] > wt2[i] && wt1[i-1] <= wt2[i-1] && wt1[i] < -40:
			signals[i] = models.WTBuy
		case wt1[i] < wt2[i] && wt1[i-1] >= wt2[i-1] && wt1[i] > 40:
			signals[i] = models.WTSell
		default:
			signals[i] = models.WTNeutral
		}
	}

	return WaveTrendResult{WT1: wt1, WT2: wt2, Signals: signals}
}
