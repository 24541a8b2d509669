package timeframe

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/skalibog/bfsig/internal/config"
	"github.com/skalibog/bfsig/internal/indicators"
	"github.com/skalibog/bfsig/pkg/logger"
	"github.com/skalibog/bfsig/pkg/models"
)

// Таймфреймы движка: входные для точки входа, направляющие для тренда
const (
	TF5m  = "5m"
	TF15m = "15m"
	TF1h  = "1h"
	TF4h  = "4h"
	TF1d  = "1d"
)

// MinCandles минимум свечей для прогрева индикаторов
const MinCandles = 50

// KlineProvider поставщик свечей
type KlineProvider interface {
	GetKlines(ctx context.Context, symbol, interval string, limit int) ([]models.Candle, error)
}

// Analyzer собирает срезы индикаторов по таймфреймам
type Analyzer struct {
	client      KlineProvider
	candleCount int
}

// NewAnalyzer создает новый мультитаймфреймовый анализатор
func NewAnalyzer(client KlineProvider, cfg config.EngineConfig) *Analyzer {
	return &Analyzer{
		client:      client,
		candleCount: cfg.CandleCount,
	}
}

// Snapshot строит срез индикаторов одного таймфрейма
func (a *Analyzer) Snapshot(ctx context.Context, symbol, tf string) (*models.TimeframeSnapshot, error) {
	candles, err := a.client.GetKlines(ctx, symbol, tf, a.candleCount)
	if err != nil {
		return nil, err
	}
	if len(candles) < MinCandles {
		return nil, fmt.Errorf("недостаточно свечей %s %s: %d (требуется %d)",
			symbol, tf, len(candles), MinCandles)
	}

	rsiVals := indicators.Rsi(candles, 14)
	rsi := indicators.LastValid(rsiVals)
	srsi := indicators.StochasticRsi(candles, 14, 14, 3, 3)
	wt := indicators.WaveTrend(candles, 10, 21, 4)
	idx := len(candles) - 1

	// Изменение объема относительно предыдущей свечи
	volumeChangePct := 0.0
	if idx > 0 && candles[idx-1].Volume > 0 {
		prev := candles[idx-1].Volume
		volumeChangePct = (candles[idx].Volume - prev) / prev * 100
	}

	accum := indicators.RsiAccumulation(rsiVals, srsi.K, srsi.D)

	return &models.TimeframeSnapshot{
		Timeframe:       tf,
		RSI:             rsi,
		SRSIK:           indicators.LastValid(srsi.K),
		SRSID:           indicators.LastValid(srsi.D),
		WT1:             indicators.LastValid(wt.WT1),
		WT2:             indicators.LastValid(wt.WT2),
		WTCrossSignal:   wt.Signals[idx],
		Trend:           indicators.TrendFromRsiOnly(rsi),
		Close:           candles[idx].Close,
		VolumeChangePct: volumeChangePct,
		RSICross:        indicators.RsiSignalCross(rsiVals, 14),
		SRSICross:       srsi.Cross,
		Accumulation:    accum,
	}, nil
}

// MultiTimeframe собирает бандл из пяти таймфреймов параллельно.
// Все или ничего: если хоть один таймфрейм недоступен, бандл невалиден.
func (a *Analyzer) MultiTimeframe(ctx context.Context, symbol string) (*models.MultiTimeframeBundle, error) {
	tfs := []string{TF5m, TF15m, TF1h, TF4h, TF1d}
	snapshots := make(map[string]*models.TimeframeSnapshot, len(tfs))

	var wg sync.WaitGroup
	var mutex sync.Mutex

	for _, tf := range tfs {
		wg.Add(1)
		go func(tf string) {
			defer wg.Done()
			snap, err := a.Snapshot(ctx, symbol, tf)
			if err != nil {
				logger.Debug("Срез таймфрейма недоступен",
					zap.String("symbol", symbol), zap.String("timeframe", tf), zap.Error(err))
				return
			}
			mutex.Lock()
			snapshots[tf] = snap
			mutex.Unlock()
		}(tf)
	}
	wg.Wait()

	bundle := &models.MultiTimeframeBundle{
		M5:  snapshots[TF5m],
		M15: snapshots[TF15m],
		H1:  snapshots[TF1h],
		H4:  snapshots[TF4h],
		D1:  snapshots[TF1d],
	}
	if !bundle.Complete() {
		return nil, fmt.Errorf("неполный набор таймфреймов для %s", symbol)
	}

	return bundle, nil
}
