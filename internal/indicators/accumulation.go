package indicators

import (
	"math"

	"github.com/skalibog/bfsig/pkg/models"
)

// RsiAccumulation считает сколько последних свечей подряд RSI держится
// в экстремальной зоне (≥80 — перекупленность, ≤20 — перепроданность),
// сканируя от последней свечи назад. Подсчет останавливается как только
// RSI покидает зону или не определен. PeakRSI — самое крайнее значение
// в серии. StochCrossInZone взводится, если внутри серии K пересек D
// в сторону противоположной сделки (K вниз в перекупленности,
// K вверх в перепроданности).
func RsiAccumulation(rsi, srsiK, srsiD []float64) models.Accumulation {
	acc := models.Accumulation{Zone: models.ZoneNone}

	for i := len(rsi) - 1; i >= 0; i-- {
		v := rsi[i]
		if math.IsNaN(v) {
			break
		}

		switch {
		case v >= 80:
			if acc.Zone == models.ZoneNone {
				acc.Zone = models.ZoneOverbought
			}
			if acc.Zone != models.ZoneOverbought {
				return acc
			}
			acc.Count++
			if v > acc.PeakRSI {
				acc.PeakRSI = v
			}
		case v <= 20:
			if acc.Zone == models.ZoneNone {
				acc.Zone = models.ZoneOversold
			}
			if acc.Zone != models.ZoneOversold {
				return acc
			}
			acc.Count++
			if acc.PeakRSI == 0 || v < acc.PeakRSI {
				acc.PeakRSI = v
			}
		default:
			// Вышли из зоны
			return acc
		}

		// Пересечение K/D внутри зоны
		if i > 0 && !math.IsNaN(srsiK[i]) && !math.IsNaN(srsiD[i]) &&
			!math.IsNaN(srsiK[i-1]) && !math.IsNaN(srsiD[i-1]) {
			if acc.Zone == models.ZoneOverbought && srsiK[i] < srsiD[i] && srsiK[i-1] >= srsiD[i-1] {
				acc.StochCrossInZone = true
			}
			if acc.Zone == models.ZoneOversold && srsiK[i] > srsiD[i] && srsiK[i-1] <= srsiD[i-1] {
				acc.StochCrossInZone = true
			}
		}
	}

	return acc
}
