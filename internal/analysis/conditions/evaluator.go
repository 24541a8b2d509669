package conditions

import (
	"fmt"
	"math"

	"github.com/skalibog/bfsig/internal/config"
	"github.com/skalibog/bfsig/pkg/models"
)

// Минимумы правила конфлюэнса: сколько входных причин и сколько
// совпадений тренда требуется для валидного сигнала
const (
	MinEntryReasons   = 3
	MinTrendAgreement = 2
)

// Result итог проверки условий для одного направления
type Result struct {
	Met            bool
	EntryCount     int
	TrendAgreement int
	Reasons        []string
	Warnings       []string
}

// Evaluator проверяет условия конфлюэнса по мультитаймфреймовому бандлу
type Evaluator struct {
	engine  config.EngineConfig
	trading config.TradingConfig
}

// NewEvaluator создает новый оценщик условий
func NewEvaluator(engine config.EngineConfig, trading config.TradingConfig) *Evaluator {
	return &Evaluator{engine: engine, trading: trading}
}

// Check проверяет условия входа для направления dir.
// Входные таймфреймы (5m, 15m) дают причины по RSI, WaveTrend и SRSI;
// направляющие (1h, 4h, 1d) — подтверждение тренда.
// Сигнал валиден при ≥3 входных причинах и ≥2 совпадениях тренда.
func (e *Evaluator) Check(mtf *models.MultiTimeframeBundle, dir models.Direction) Result {
	var res Result

	for _, tf := range mtf.EntrySnapshots() {
		if dir == models.DirectionLong {
			if tf.RSI <= e.engine.RSILong {
				res.addEntry(fmt.Sprintf("%s RSI %.0f ≤ %.0f", tf.Timeframe, tf.RSI, e.engine.RSILong))
			}
			if tf.WTCrossSignal == models.WTBuy {
				res.addEntry(fmt.Sprintf("%s WT 🟢", tf.Timeframe))
			}
			if tf.SRSIK <= e.engine.SRSILong+e.engine.SRSITolerance {
				res.addEntry(fmt.Sprintf("%s SRSI K %.0f ≈ 0", tf.Timeframe, tf.SRSIK))
			}
			if tf.RSICross == models.CrossBullish {
				res.addEntry(fmt.Sprintf("%s RSI ✂️ пересечение", tf.Timeframe))
			}
			if tf.SRSICross == models.CrossBullish {
				res.addEntry(fmt.Sprintf("%s SRSI K/D ✂️ пересечение", tf.Timeframe))
			}
		} else {
			if tf.RSI >= e.engine.RSIShort {
				res.addEntry(fmt.Sprintf("%s RSI %.0f ≥ %.0f", tf.Timeframe, tf.RSI, e.engine.RSIShort))
			}
			if tf.WTCrossSignal == models.WTSell {
				res.addEntry(fmt.Sprintf("%s WT 🔴", tf.Timeframe))
			}
			if tf.SRSIK >= e.engine.SRSIShort-e.engine.SRSITolerance {
				res.addEntry(fmt.Sprintf("%s SRSI K %.0f ≈ 100", tf.Timeframe, tf.SRSIK))
			}
			if tf.RSICross == models.CrossBearish {
				res.addEntry(fmt.Sprintf("%s RSI ✂️ пересечение", tf.Timeframe))
			}
			if tf.SRSICross == models.CrossBearish {
				res.addEntry(fmt.Sprintf("%s SRSI K/D ✂️ пересечение", tf.Timeframe))
			}
		}
	}

	expected := models.TrendBullish
	if dir == models.DirectionShort {
		expected = models.TrendBearish
	}
	for _, tf := range mtf.DirectionSnapshots() {
		if tf.Trend == expected {
			res.TrendAgreement++
			res.Reasons = append(res.Reasons, fmt.Sprintf("%s %s", tf.Timeframe, tf.Trend))
		} else {
			res.Warnings = append(res.Warnings, fmt.Sprintf("%s %s", tf.Timeframe, tf.Trend))
		}
	}

	res.Met = res.EntryCount >= MinEntryReasons && res.TrendAgreement >= MinTrendAgreement
	return res
}

// Profit рассчитывает цель и прибыль при фиксированном плече:
// move = target_pct/100/leverage; цель = вход × (1±move)
func (e *Evaluator) Profit(price float64, dir models.Direction) models.ProfitCalc {
	move := e.trading.TargetProfitPct / 100 / e.trading.Leverage
	target := price * (1 + move)
	if dir == models.DirectionShort {
		target = price * (1 - move)
	}
	profitPct := math.Abs(target-price) / price * e.trading.Leverage * 100

	return models.ProfitCalc{
		EntryPrice:   price,
		TargetPrice:  target,
		EntryUSD:     e.trading.EntryAmountUSD,
		LeveragedUSD: e.trading.EntryAmountUSD * e.trading.Leverage,
		ProfitUSD:    e.trading.EntryAmountUSD * profitPct / 100,
		ProfitPct:    profitPct,
	}
}

func (r *Result) addEntry(reason string) {
	r.EntryCount++
	r.Reasons = append(r.Reasons, reason)
}
