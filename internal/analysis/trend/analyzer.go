package trend

import (
	"context"
	"fmt"

	"github.com/markcheno/go-talib"
	"go.uber.org/zap"

	"github.com/skalibog/bfsig/internal/indicators"
	"github.com/skalibog/bfsig/pkg/logger"
	"github.com/skalibog/bfsig/pkg/models"
)

// Периоды скользящих средних для классификации тренда
const (
	maShort     = 50
	maLong      = 200
	rsiPeriod   = 14
	candleCount = 250
)

// KlineProvider поставщик свечей
type KlineProvider interface {
	GetKlines(ctx context.Context, symbol, interval string, limit int) ([]models.Candle, error)
}

// TimeframeTrend тренд одного таймфрейма по MA50/MA200 и RSI
type TimeframeTrend struct {
	Timeframe string
	MA50      float64
	MA200     float64
	RSI       float64
	Trend     models.Trend
}

// Result тренды недельного и дневного таймфреймов
type Result struct {
	Weekly TimeframeTrend
	Daily  TimeframeTrend
}

// Analyzer классифицирует долгосрочный тренд символа,
// используется диагностическим режимом одиночного анализа
type Analyzer struct {
	client KlineProvider
}

// NewAnalyzer создает новый трендовый анализатор
func NewAnalyzer(client KlineProvider) *Analyzer {
	return &Analyzer{client: client}
}

// Analyze определяет тренд по дневному и недельному таймфреймам.
// Дневные данные обязательны; при нехватке недельных (низколиквидные
// или свежелистнутые монеты) недельный тренд дублирует дневной.
func (a *Analyzer) Analyze(ctx context.Context, symbol string) (*Result, error) {
	daily, err := a.analyzeTimeframe(ctx, symbol, "1d")
	if err != nil {
		return nil, fmt.Errorf("трендовый анализ %s: %w", symbol, err)
	}

	weekly, err := a.analyzeTimeframe(ctx, symbol, "1w")
	if err != nil {
		logger.Warn("Недельные данные недоступны, используется дневной тренд",
			zap.String("symbol", symbol), zap.Error(err))
		w := *daily
		w.Timeframe = "1w"
		weekly = &w
	}

	return &Result{Weekly: *weekly, Daily: *daily}, nil
}

func (a *Analyzer) analyzeTimeframe(ctx context.Context, symbol, tf string) (*TimeframeTrend, error) {
	candles, err := a.client.GetKlines(ctx, symbol, tf, candleCount)
	if err != nil {
		return nil, err
	}
	if len(candles) < maLong {
		return nil, fmt.Errorf("недостаточно свечей %s %s: %d (требуется %d)",
			symbol, tf, len(candles), maLong)
	}

	closes := make([]float64, len(candles))
	for i, c := range candles {
		if c.Close <= 0 {
			return nil, fmt.Errorf("невалидная цена закрытия %s %s", symbol, tf)
		}
		closes[i] = c.Close
	}

	// Читается только последнее значение, нулевой прогрев talib не мешает
	ma50 := talib.Sma(closes, maShort)
	ma200 := talib.Sma(closes, maLong)
	rsi := indicators.LastValid(indicators.Rsi(candles, rsiPeriod))

	last50 := ma50[len(ma50)-1]
	last200 := ma200[len(ma200)-1]

	return &TimeframeTrend{
		Timeframe: tf,
		MA50:      last50,
		MA200:     last200,
		RSI:       rsi,
		Trend:     indicators.TrendFromMovingAverages(last50, last200, rsi),
	}, nil
}
