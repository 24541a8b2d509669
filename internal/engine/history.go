package engine

import (
	"sync"
	"time"

	"github.com/skalibog/bfsig/pkg/models"
)

// CooldownStore хранилище кулдаунов сигналов. Выделен интерфейс,
// чтобы движок получал хранилище снаружи, а тесты могли его подменять.
type CooldownStore interface {
	IsDuplicate(symbol string, dir models.Direction) bool
	Record(symbol string, dir models.Direction)
	SweepExpired() int
}

// SignalHistory потокобезопасное хранилище кулдаунов в памяти.
// Запись живет до 2× окна кулдауна, затем выметается.
type SignalHistory struct {
	mu       sync.Mutex
	entries  map[string]time.Time
	cooldown time.Duration
}

// NewSignalHistory создает новое хранилище кулдаунов
func NewSignalHistory(cooldown time.Duration) *SignalHistory {
	return &SignalHistory{
		entries:  make(map[string]time.Time),
		cooldown: cooldown,
	}
}

// IsDuplicate проверяет, не был ли сигнал по этой паре и направлению
// отправлен внутри окна кулдауна
func (h *SignalHistory) IsDuplicate(symbol string, dir models.Direction) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	ts, ok := h.entries[models.SignalKey(symbol, dir)]
	return ok && time.Since(ts) < h.cooldown
}

// Record фиксирует эмиссию сигнала
func (h *SignalHistory) Record(symbol string, dir models.Direction) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.entries[models.SignalKey(symbol, dir)] = time.Now()
}

// SweepExpired удаляет записи старше двух окон кулдауна,
// возвращает число удаленных
func (h *SignalHistory) SweepExpired() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	removed := 0
	for key, ts := range h.entries {
		if time.Since(ts) > h.cooldown*2 {
			delete(h.entries, key)
			removed++
		}
	}
	return removed
}

// Len возвращает число активных записей
func (h *SignalHistory) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	return len(h.entries)
}
