package models

import (
	"time"
)

// Direction направление сделки
type Direction string

const (
	DirectionLong  Direction = "LONG"
	DirectionShort Direction = "SHORT"
)

// SignalStatus статус сигнала после оценки рисков
type SignalStatus string

const (
	StatusActive  SignalStatus = "ACTIVE"
	StatusWarning SignalStatus = "WARNING"
	StatusBlocked SignalStatus = "BLOCKED"
)

// RiskLevel уровень риска по ставке финансирования
type RiskLevel string

const (
	RiskLow     RiskLevel = "LOW"
	RiskMedium  RiskLevel = "MEDIUM"
	RiskHigh    RiskLevel = "HIGH"
	RiskBlocked RiskLevel = "BLOCKED"
)

// Trend классификация тренда на таймфрейме
type Trend string

const (
	TrendBullish Trend = "BULLISH"
	TrendBearish Trend = "BEARISH"
	TrendNeutral Trend = "NEUTRAL"
)

// CrossSignal результат детекции кроссовера (RSI/сигнальная линия, SRSI K/D)
type CrossSignal string

const (
	CrossBullish CrossSignal = "bullish_cross"
	CrossBearish CrossSignal = "bearish_cross"
	CrossNone    CrossSignal = "none"
)

// WTSignal сигнал кроссовера WaveTrend
type WTSignal string

const (
	WTBuy     WTSignal = "buy"
	WTSell    WTSignal = "sell"
	WTNeutral WTSignal = "neutral"
)

// AccumulationZone зона накопления RSI
type AccumulationZone string

const (
	ZoneOverbought AccumulationZone = "OVERBOUGHT"
	ZoneOversold   AccumulationZone = "OVERSOLD"
	ZoneNone       AccumulationZone = "NONE"
)

// Candle представляет свечу
type Candle struct {
	Symbol    string
	Interval  string
	OpenTime  time.Time
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    float64
	CloseTime time.Time
}

// Accumulation отражает сколько свечей подряд RSI держится в экстремальной зоне
type Accumulation struct {
	Count            int
	Zone             AccumulationZone
	PeakRSI          float64
	StochCrossInZone bool
}

// TimeframeSnapshot срез индикаторов одного таймфрейма за один цикл сканирования
type TimeframeSnapshot struct {
	Timeframe       string
	RSI             float64
	SRSIK           float64
	SRSID           float64
	WT1             float64
	WT2             float64
	WTCrossSignal   WTSignal
	Trend           Trend
	Close           float64
	VolumeChangePct float64
	RSICross        CrossSignal
	SRSICross       CrossSignal
	Accumulation    Accumulation
}

// MultiTimeframeBundle набор срезов по пяти таймфреймам:
// M5/M15 — входные, H1/H4/D1 — направляющие.
type MultiTimeframeBundle struct {
	M5  *TimeframeSnapshot
	M15 *TimeframeSnapshot
	H1  *TimeframeSnapshot
	H4  *TimeframeSnapshot
	D1  *TimeframeSnapshot
}

// EntrySnapshots возвращает входные таймфреймы
func (b *MultiTimeframeBundle) EntrySnapshots() []*TimeframeSnapshot {
	return []*TimeframeSnapshot{b.M5, b.M15}
}

// DirectionSnapshots возвращает направляющие таймфреймы
func (b *MultiTimeframeBundle) DirectionSnapshots() []*TimeframeSnapshot {
	return []*TimeframeSnapshot{b.H1, b.H4, b.D1}
}

// Complete проверяет что бандл собран целиком
func (b *MultiTimeframeBundle) Complete() bool {
	return b != nil && b.M5 != nil && b.M15 != nil && b.H1 != nil && b.H4 != nil && b.D1 != nil
}

// FundingAssessment оценка риска по ставке финансирования
type FundingAssessment struct {
	Rate       float64
	RatePct    float64
	RiskLevel  RiskLevel
	AllowLong  bool
	AllowShort bool
	LSRatio    float64
}

// ProfitCalc расчет цели и прибыли при фиксированном плече
type ProfitCalc struct {
	EntryPrice   float64
	TargetPrice  float64
	EntryUSD     float64
	LeveragedUSD float64
	ProfitUSD    float64
	ProfitPct    float64
}

// TradeSignal торговый сигнал; неизменяем после эмиссии
type TradeSignal struct {
	ID          string
	Timestamp   time.Time
	Symbol      string
	Direction   Direction
	Status      SignalStatus
	EntryPrice  float64
	TargetPrice float64
	Profit      ProfitCalc
	MultiTF     *MultiTimeframeBundle
	FR          FundingAssessment
	Strength    int
	Reasons     []string
	Warnings    []string
}

// SignalKey ключ дедупликации: SYMBOL_DIRECTION
func SignalKey(symbol string, dir Direction) string {
	return symbol + "_" + string(dir)
}
