package tracker

import (
	"context"
	"math"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/skalibog/bfsig/internal/analysis/funding"
	"github.com/skalibog/bfsig/internal/config"
	"github.com/skalibog/bfsig/internal/notify"
	"github.com/skalibog/bfsig/pkg/logger"
	"github.com/skalibog/bfsig/pkg/models"
)

// RateProvider поставщик ставки финансирования и long/short ratio
type RateProvider interface {
	GetFundingRate(ctx context.Context, symbol string) (float64, error)
	GetLongShortRatio(ctx context.Context, symbol string) (float64, error)
}

// Sender отправитель уведомлений
type Sender interface {
	Send(ctx context.Context, text string) error
}

// trackedSignal отслеживаемый сигнал с последними известными значениями
type trackedSignal struct {
	signal      *models.TradeSignal
	lastFR      float64
	lastLSRatio float64
	updateCount int
	createdAt   time.Time
}

// Tracker следит за дрейфом ставки финансирования по отправленным сигналам
// и шлет нумерованные обновления при значимом изменении. Живет в своем
// цикле, с движком сканирования делит только хранилище отслеживаемых.
type Tracker struct {
	mu      sync.Mutex
	tracked map[string]*trackedSignal

	client  RateProvider
	sender  Sender
	tracker config.TrackerConfig
	funding config.FundingConfig
}

// New создает новый трекер ставок финансирования
func New(client RateProvider, sender Sender, trackerCfg config.TrackerConfig, fundingCfg config.FundingConfig) *Tracker {
	return &Tracker{
		tracked: make(map[string]*trackedSignal),
		client:  client,
		sender:  sender,
		tracker: trackerCfg,
		funding: fundingCfg,
	}
}

// Track берет сигнал под наблюдение
func (t *Tracker) Track(signal *models.TradeSignal) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.tracked[models.SignalKey(signal.Symbol, signal.Direction)] = &trackedSignal{
		signal:      signal,
		lastFR:      signal.FR.Rate,
		lastLSRatio: signal.FR.LSRatio,
		createdAt:   time.Now(),
	}
	logger.Info("Сигнал взят под FR-наблюдение",
		zap.String("symbol", signal.Symbol),
		zap.String("direction", string(signal.Direction)),
		zap.Float64("fr_pct", signal.FR.RatePct))
}

// Count возвращает число отслеживаемых сигналов
func (t *Tracker) Count() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return len(t.tracked)
}

// Run запускает цикл проверок, блокирует до отмены контекста
func (t *Tracker) Run(ctx context.Context) {
	interval := time.Duration(t.tracker.IntervalMinutes) * time.Minute
	logger.Info("FR-трекер активен", zap.Duration("interval", interval))

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			t.checkUpdates(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// checkUpdates проверяет все отслеживаемые сигналы.
// Терминальные состояния: истек срок наблюдения или достигнут
// лимит обновлений — запись удаляется.
func (t *Tracker) checkUpdates(ctx context.Context) {
	t.mu.Lock()
	keys := make([]string, 0, len(t.tracked))
	for key := range t.tracked {
		keys = append(keys, key)
	}
	t.mu.Unlock()

	maxTrack := time.Duration(t.tracker.MaxTrackHours) * time.Hour

	for _, key := range keys {
		t.mu.Lock()
		item, ok := t.tracked[key]
		t.mu.Unlock()
		if !ok {
			continue
		}

		if time.Since(item.createdAt) > maxTrack {
			logger.Info("Срок наблюдения истек", zap.String("symbol", item.signal.Symbol))
			t.remove(key)
			continue
		}
		if item.updateCount >= t.tracker.MaxUpdates {
			t.remove(key)
			continue
		}

		newFR, err := t.client.GetFundingRate(ctx, item.signal.Symbol)
		if err != nil {
			logger.Warn("FR-трекер: ставка недоступна",
				zap.String("symbol", item.signal.Symbol), zap.Error(err))
			continue
		}
		newLSRatio, err := t.client.GetLongShortRatio(ctx, item.signal.Symbol)
		if err != nil {
			logger.Debug("FR-трекер: long/short ratio недоступен, берется последний известный",
				zap.String("symbol", item.signal.Symbol), zap.Error(err))
			newLSRatio = item.lastLSRatio
		}

		if math.Abs(newFR-item.lastFR) < t.tracker.ChangeThreshold {
			continue
		}

		oldFR := item.lastFR
		t.mu.Lock()
		item.updateCount++
		item.lastFR = newFR
		item.lastLSRatio = newLSRatio
		updateNo := item.updateCount
		t.mu.Unlock()

		frDirection := "📈 ВЫРОСЛА"
		if newFR < oldFR {
			frDirection = "📉 УПАЛА"
		}

		updated := models.FundingAssessment{
			Rate:       newFR,
			RatePct:    newFR * 100,
			RiskLevel:  funding.ClassifyAbs(newFR, t.funding),
			AllowLong:  newFR < t.funding.Danger1,
			AllowShort: newFR > -t.funding.Danger1,
			LSRatio:    newLSRatio,
		}

		logger.Info("FR-обновление",
			zap.String("symbol", item.signal.Symbol),
			zap.Int("update", updateNo),
			zap.Float64("old_pct", oldFR*100),
			zap.Float64("new_pct", newFR*100))

		msg := notify.BuildFRUpdateMessage(item.signal, updated, oldFR*100, updateNo, frDirection)
		if t.sender != nil {
			if err := t.sender.Send(ctx, msg); err != nil {
				logger.Error("Не удалось отправить FR-обновление",
					zap.String("symbol", item.signal.Symbol), zap.Error(err))
			}
		}
	}
}

func (t *Tracker) remove(key string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	delete(t.tracked, key)
}
