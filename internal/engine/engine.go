package engine

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/skalibog/bfsig/internal/analysis/conditions"
	"github.com/skalibog/bfsig/internal/analysis/funding"
	"github.com/skalibog/bfsig/internal/analysis/timeframe"
	"github.com/skalibog/bfsig/internal/config"
	"github.com/skalibog/bfsig/pkg/logger"
	"github.com/skalibog/bfsig/pkg/models"
)

// Client доступ к бирже, нужный движку сигналов
type Client interface {
	GetKlines(ctx context.Context, symbol, interval string, limit int) ([]models.Candle, error)
	GetFundingRate(ctx context.Context, symbol string) (float64, error)
	GetLongShortRatio(ctx context.Context, symbol string) (float64, error)
	GetActivePairs(ctx context.Context) ([]string, error)
}

// bundleProvider собирает мультитаймфреймовый бандл по символу
type bundleProvider interface {
	MultiTimeframe(ctx context.Context, symbol string) (*models.MultiTimeframeBundle, error)
}

// fundingAssessor оценивает риск по ставке финансирования
type fundingAssessor interface {
	Assess(ctx context.Context, symbol string) models.FundingAssessment
}

// Engine движок сигналов: мультитаймфреймовый анализ, правило конфлюэнса,
// фильтр по ставке финансирования, дедупликация
type Engine struct {
	config     *config.Config
	client     Client
	timeframes bundleProvider
	conditions *conditions.Evaluator
	funding    fundingAssessor
	history    CooldownStore
}

// New создает новый движок сигналов
func New(cfg *config.Config, client Client, history CooldownStore) *Engine {
	return &Engine{
		config:     cfg,
		client:     client,
		timeframes: timeframe.NewAnalyzer(client, cfg.Engine),
		conditions: conditions.NewEvaluator(cfg.Engine, cfg.Trading),
		funding:    funding.NewAnalyzer(client, cfg.Funding),
		history:    history,
	}
}

// AnalyzeSymbol анализирует один символ. Возвращает nil без ошибки,
// если условия не выполнены, данных не хватает, пара на кулдауне
// или ставка финансирования в зоне BLOCKED.
// При равной валидности LONG предпочитается перед SHORT — фиксированная политика.
func (e *Engine) AnalyzeSymbol(ctx context.Context, symbol string) (*models.TradeSignal, error) {
	// Дешевый выход: оба направления на кулдауне, данные не запрашиваем
	if e.history.IsDuplicate(symbol, models.DirectionLong) &&
		e.history.IsDuplicate(symbol, models.DirectionShort) {
		return nil, nil
	}

	mtf, err := e.timeframes.MultiTimeframe(ctx, symbol)
	if err != nil {
		logger.Debug("Символ пропущен", zap.String("symbol", symbol), zap.Error(err))
		return nil, nil
	}

	longRes := e.conditions.Check(mtf, models.DirectionLong)
	shortRes := e.conditions.Check(mtf, models.DirectionShort)

	var dir models.Direction
	var res conditions.Result
	switch {
	case longRes.Met && !e.history.IsDuplicate(symbol, models.DirectionLong):
		dir, res = models.DirectionLong, longRes
	case shortRes.Met && !e.history.IsDuplicate(symbol, models.DirectionShort):
		dir, res = models.DirectionShort, shortRes
	default:
		return nil, nil
	}

	// Ставка финансирования как фильтр
	fr := e.funding.Assess(ctx, symbol)
	status := models.StatusActive
	if (dir == models.DirectionLong && !fr.AllowLong) ||
		(dir == models.DirectionShort && !fr.AllowShort) {
		status = models.StatusWarning
		if fr.RiskLevel == models.RiskBlocked {
			status = models.StatusBlocked
		}
	}

	// BLOCKED не отправляется и не трекается — жесткий фильтр
	if status == models.StatusBlocked {
		logger.Info("Сигнал найден, но FR BLOCKED — пропускаем",
			zap.String("symbol", symbol), zap.String("direction", string(dir)))
		return nil, nil
	}

	price := mtf.M15.Close
	profit := e.conditions.Profit(price, dir)

	signal := &models.TradeSignal{
		ID:          uuid.NewString(),
		Timestamp:   time.Now(),
		Symbol:      symbol,
		Direction:   dir,
		Status:      status,
		EntryPrice:  price,
		TargetPrice: profit.TargetPrice,
		Profit:      profit,
		MultiTF:     mtf,
		FR:          fr,
		Strength:    len(res.Reasons),
		Reasons:     res.Reasons,
		Warnings:    res.Warnings,
	}

	e.history.Record(symbol, dir)
	return signal, nil
}

// ScanAll сканирует все активные пары пачками. Внутри пачки символы
// анализируются параллельно, отказ одного символа не валит пачку;
// между пачками выдерживается пауза для лимитов биржи.
func (e *Engine) ScanAll(ctx context.Context) ([]*models.TradeSignal, error) {
	pairs, err := e.client.GetActivePairs(ctx)
	if err != nil {
		return nil, err
	}
	logger.Info("Сканирование начато", zap.Int("pairs", len(pairs)))

	batchSize := e.config.Engine.BatchSize
	batchDelay := time.Duration(e.config.Engine.BatchDelaySeconds) * time.Second

	var signals []*models.TradeSignal
	var mutex sync.Mutex

	for i := 0; i < len(pairs); i += batchSize {
		end := i + batchSize
		if end > len(pairs) {
			end = len(pairs)
		}

		var wg sync.WaitGroup
		for _, symbol := range pairs[i:end] {
			wg.Add(1)
			go func(sym string) {
				defer wg.Done()

				signal, err := e.AnalyzeSymbol(ctx, sym)
				if err != nil {
					logger.Warn("Ошибка анализа символа", zap.String("symbol", sym), zap.Error(err))
					return
				}
				if signal == nil {
					return
				}

				mutex.Lock()
				signals = append(signals, signal)
				mutex.Unlock()
			}(symbol)
		}
		wg.Wait()

		if end < len(pairs) {
			select {
			case <-time.After(batchDelay):
			case <-ctx.Done():
				return signals, ctx.Err()
			}
		}
	}

	logger.Info("Сканирование завершено", zap.Int("signals", len(signals)))
	return signals, nil
}
