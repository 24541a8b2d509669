package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 10.0, cfg.Trading.Leverage)
	assert.Equal(t, 100.0, cfg.Trading.EntryAmountUSD)
	assert.Equal(t, 30.0, cfg.Trading.TargetProfitPct)
	assert.Equal(t, 100, cfg.Engine.CandleCount)
	assert.Equal(t, 20.0, cfg.Engine.RSILong)
	assert.Equal(t, 80.0, cfg.Engine.RSIShort)
	assert.Equal(t, 60, cfg.Engine.SignalCooldownMinutes)
	assert.Equal(t, 15, cfg.Engine.ScanIntervalMinutes)
	assert.Equal(t, 0.005, cfg.Funding.Danger1)
	assert.Equal(t, 0.015, cfg.Funding.Danger2)
	assert.Equal(t, 5, cfg.Tracker.IntervalMinutes)
	assert.Equal(t, 0.00005, cfg.Tracker.ChangeThreshold)
	assert.Equal(t, 10, cfg.Tracker.MaxUpdates)
}

func TestLoadПоверхУмолчаний(t *testing.T) {
	path := writeConfig(t, `
engine:
  batch_size: 20
  scan_interval_minutes: 30
funding:
  danger_1: 0.003
`)

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, 20, cfg.Engine.BatchSize)
	assert.Equal(t, 30, cfg.Engine.ScanIntervalMinutes)
	assert.Equal(t, 0.003, cfg.Funding.Danger1)
	// Незатронутые значения остаются умолчаниями
	assert.Equal(t, 10.0, cfg.Trading.Leverage)
	assert.Equal(t, 0.015, cfg.Funding.Danger2)
}

func TestLoadСекретыИзОкружения(t *testing.T) {
	t.Setenv("BINANCE_API_KEY", "key-123")
	t.Setenv("BINANCE_API_SECRET", "secret-456")
	t.Setenv("TELEGRAM_BOT_TOKEN", "token-789")
	t.Setenv("TELEGRAM_CHAT_ID", "-100200300")

	cfg, err := Load(writeConfig(t, "engine:\n  batch_size: 5\n"))

	require.NoError(t, err)
	assert.Equal(t, "key-123", cfg.Binance.APIKey)
	assert.Equal(t, "secret-456", cfg.Binance.APISecret)
	assert.Equal(t, "token-789", cfg.Telegram.Token)
	assert.Equal(t, "-100200300", cfg.Telegram.ChatID)
}

func TestLoadНетФайла(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "нет.yaml"))

	assert.Error(t, err)
}

func TestLoadВалидация(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"Нулевое плечо", "trading:\n  leverage: 0\n"},
		{"Отрицательный batch_size", "engine:\n  batch_size: -1\n"},
		{"danger_2 меньше danger_1", "funding:\n  danger_1: 0.02\n  danger_2: 0.01\n"},
		{"Нулевой лимит обновлений", "tracker:\n  max_updates: 0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			assert.Error(t, err)
		})
	}
}
