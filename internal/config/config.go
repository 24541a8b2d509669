package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"

	"github.com/skalibog/bfsig/pkg/logger"
	"go.uber.org/zap"
)

// Config представляет полную конфигурацию приложения
type Config struct {
	Binance  BinanceConfig  `yaml:"binance"`
	Trading  TradingConfig  `yaml:"trading"`
	Engine   EngineConfig   `yaml:"engine"`
	Funding  FundingConfig  `yaml:"funding"`
	Tracker  TrackerConfig  `yaml:"tracker"`
	Telegram TelegramConfig `yaml:"telegram"`
}

// BinanceConfig содержит настройки подключения к Binance
type BinanceConfig struct {
	APIKey                string `yaml:"-"`
	APISecret             string `yaml:"-"`
	Testnet               bool   `yaml:"testnet"`
	RequestTimeoutSeconds int    `yaml:"request_timeout_seconds"`
	RequestsPerSecond     int    `yaml:"requests_per_second"`
}

// TradingConfig содержит параметры расчета цели и прибыли
type TradingConfig struct {
	Leverage        float64 `yaml:"leverage"`
	EntryAmountUSD  float64 `yaml:"entry_amount_usd"`
	TargetProfitPct float64 `yaml:"target_profit_pct"`
}

// EngineConfig содержит настройки движка сигналов
type EngineConfig struct {
	CandleCount           int     `yaml:"candle_count"`
	RSILong               float64 `yaml:"rsi_long"`
	RSIShort              float64 `yaml:"rsi_short"`
	SRSILong              float64 `yaml:"srsi_long"`
	SRSIShort             float64 `yaml:"srsi_short"`
	SRSITolerance         float64 `yaml:"srsi_tolerance"`
	SignalCooldownMinutes int     `yaml:"signal_cooldown_minutes"`
	ScanIntervalMinutes   int     `yaml:"scan_interval_minutes"`
	BatchSize             int     `yaml:"batch_size"`
	BatchDelaySeconds     int     `yaml:"batch_delay_seconds"`
}

// FundingConfig содержит пороги опасности ставки финансирования
type FundingConfig struct {
	Danger1 float64 `yaml:"danger_1"`
	Danger2 float64 `yaml:"danger_2"`
}

// TrackerConfig содержит настройки трекера ставок финансирования
type TrackerConfig struct {
	IntervalMinutes int     `yaml:"interval_minutes"`
	ChangeThreshold float64 `yaml:"change_threshold"`
	MaxTrackHours   int     `yaml:"max_track_hours"`
	MaxUpdates      int     `yaml:"max_updates"`
}

// TelegramConfig содержит реквизиты Telegram, берутся из окружения
type TelegramConfig struct {
	Token  string `yaml:"-"`
	ChatID string `yaml:"-"`
}

// Default возвращает конфигурацию со значениями по умолчанию
func Default() *Config {
	return &Config{
		Binance: BinanceConfig{
			RequestTimeoutSeconds: 15,
			RequestsPerSecond:     5,
		},
		Trading: TradingConfig{
			Leverage:        10,
			EntryAmountUSD:  100,
			TargetProfitPct: 30,
		},
		Engine: EngineConfig{
			CandleCount:           100,
			RSILong:               20,
			RSIShort:              80,
			SRSILong:              0,
			SRSIShort:             100,
			SRSITolerance:         5,
			SignalCooldownMinutes: 60,
			ScanIntervalMinutes:   15,
			BatchSize:             10,
			BatchDelaySeconds:     3,
		},
		Funding: FundingConfig{
			Danger1: 0.005,
			Danger2: 0.015,
		},
		Tracker: TrackerConfig{
			IntervalMinutes: 5,
			ChangeThreshold: 0.00005,
			MaxTrackHours:   4,
			MaxUpdates:      10,
		},
	}
}

// Load загружает конфигурацию из файла поверх значений по умолчанию,
// секреты добирает из переменных окружения
func Load(path string) (*Config, error) {
	config := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения файла конфигурации: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("ошибка разбора файла конфигурации: %w", err)
	}

	config.Binance.APIKey = os.Getenv("BINANCE_API_KEY")
	config.Binance.APISecret = os.Getenv("BINANCE_API_SECRET")
	config.Telegram.Token = os.Getenv("TELEGRAM_BOT_TOKEN")
	config.Telegram.ChatID = os.Getenv("TELEGRAM_CHAT_ID")

	if err := config.validate(); err != nil {
		return nil, err
	}

	logger.Info("Загружена конфигурация",
		zap.String("path", path),
		zap.Int("scan_interval_minutes", config.Engine.ScanIntervalMinutes),
		zap.Int("batch_size", config.Engine.BatchSize))

	return config, nil
}

func (c *Config) validate() error {
	if c.Trading.Leverage <= 0 {
		return fmt.Errorf("leverage должен быть положительным: %v", c.Trading.Leverage)
	}
	if c.Engine.BatchSize <= 0 {
		return fmt.Errorf("batch_size должен быть положительным: %d", c.Engine.BatchSize)
	}
	if c.Funding.Danger2 < c.Funding.Danger1 {
		return fmt.Errorf("funding.danger_2 (%v) не может быть меньше danger_1 (%v)",
			c.Funding.Danger2, c.Funding.Danger1)
	}
	if c.Tracker.MaxUpdates <= 0 {
		return fmt.Errorf("tracker.max_updates должен быть положительным: %d", c.Tracker.MaxUpdates)
	}
	return nil
}
