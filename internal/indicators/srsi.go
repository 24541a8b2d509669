package indicators

import (
	"math"

	"github.com/skalibog/bfsig/pkg/models"
)

// SRSIResult результат расчета стохастического RSI
type SRSIResult struct {
	K     []float64
	D     []float64
	Cross models.CrossSignal
}

// StochasticRsi применяет стохастическое преобразование к серии RSI
// и дважды сглаживает: K = SMA(stoch, kSmooth), D = SMA(K, dSmooth).
// При нулевом размахе окна стохастик равен 50.
// Кроссовер K/D: вверх при K ≤ 25 — bullish_cross, вниз при K ≥ 75 — bearish_cross.
func StochasticRsi(candles []models.Candle, rsiPeriod, stochPeriod, kSmooth, dSmooth int) SRSIResult {
	rsi := Rsi(candles, rsiPeriod)

	stoch := make([]float64, len(rsi))
	for i := range rsi {
		if i < stochPeriod-1 || math.IsNaN(rsi[i]) {
			stoch[i] = math.NaN()
			continue
		}
		hi, lo := math.Inf(-1), math.Inf(1)
		valid := false
		for j := i - stochPeriod + 1; j <= i; j++ {
			if math.IsNaN(rsi[j]) {
				continue
			}
			valid = true
			if rsi[j] > hi {
				hi = rsi[j]
			}
			if rsi[j] < lo {
				lo = rsi[j]
			}
		}
		if !valid {
			stoch[i] = math.NaN()
			continue
		}
		if hi == lo {
			stoch[i] = 50
		} else {
			stoch[i] = (rsi[i] - lo) / (hi - lo) * 100
		}
	}

	k := Sma(stoch, kSmooth)
	d := Sma(k, dSmooth)

	cross := models.CrossNone
	n := len(k)
	if n >= 2 {
		kNow, dNow := k[n-1], d[n-1]
		kPrev, dPrev := k[n-2], d[n-2]
		if !math.IsNaN(kNow) && !math.IsNaN(dNow) && !math.IsNaN(kPrev) && !math.IsNaN(dPrev) {
			if kNow > dNow && kPrev <= dPrev && kNow <= 25 {
				cross = models.CrossBullish
			}
			if kNow < dNow && kPrev >= dPrev && kNow >= 75 {
				cross = models.CrossBearish
			}
		}
	}

	return SRSIResult{K: k, D: d, Cross: cross}
}
