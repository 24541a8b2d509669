package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"regexp"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/skalibog/bfsig/internal/analysis/trend"
	"github.com/skalibog/bfsig/internal/config"
	"github.com/skalibog/bfsig/internal/engine"
	"github.com/skalibog/bfsig/internal/exchange"
	"github.com/skalibog/bfsig/internal/notify"
	"github.com/skalibog/bfsig/internal/tracker"
	"github.com/skalibog/bfsig/pkg/logger"
)

var htmlTags = regexp.MustCompile(`<[^>]+>`)

func main() {
	logger.Init()
	defer logger.GetLogger().Sync()

	// Обработка флагов командной строки
	configPath := flag.String("config", "config.yaml", "путь к файлу конфигурации")
	symbol := flag.String("symbol", "", "одиночный анализ символа и выход (например BTCUSDT)")
	flag.Parse()

	// .env в корне проекта, если есть
	if err := godotenv.Load(); err != nil {
		logger.Debug(".env не найден, используются переменные окружения")
	}

	// Загружаем конфигурацию
	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatal("Ошибка загрузки конфигурации", zap.Error(err))
	}

	// Контекст с отменой по сигналам завершения
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("Завершение работы...")
		cancel()
	}()

	// Инициализируем клиент биржи
	client, err := exchange.NewBinanceClient(cfg.Binance)
	if err != nil {
		logger.Fatal("Ошибка инициализации клиента биржи", zap.Error(err))
	}

	// Telegram опционален: без токена сообщения идут в консоль
	var sender *notify.Telegram
	if cfg.Telegram.Token != "" && cfg.Telegram.ChatID != "" {
		sender, err = notify.NewTelegram(cfg.Telegram)
		if err != nil {
			logger.Fatal("Ошибка инициализации Telegram", zap.Error(err))
		}
		logger.Info("Telegram настроен")
	} else {
		logger.Warn("Telegram не настроен, сигналы будут выводиться в консоль")
	}

	history := engine.NewSignalHistory(time.Duration(cfg.Engine.SignalCooldownMinutes) * time.Minute)
	eng := engine.New(cfg, client, history)

	// Диагностический режим: один символ, один прогон
	if *symbol != "" {
		runDiagnostic(ctx, eng, client, sender, *symbol)
		return
	}

	// Интерфейс отправителя не должен получить типизированный nil
	var trackSender tracker.Sender
	if sender != nil {
		trackSender = sender
	}
	frTracker := tracker.New(client, trackSender, cfg.Tracker, cfg.Funding)

	logger.Info("Запуск бота сигналов",
		zap.Float64("leverage", cfg.Trading.Leverage),
		zap.Float64("entry_usd", cfg.Trading.EntryAmountUSD),
		zap.Float64("target_pct", cfg.Trading.TargetProfitPct),
		zap.Int("scan_interval_minutes", cfg.Engine.ScanIntervalMinutes))

	// FR-трекер в отдельной горутине
	go frTracker.Run(ctx)

	var totalScans, totalSignals int

	runScan := func() {
		totalScans++
		logger.Info("Начало цикла сканирования", zap.Int("scan", totalScans))

		signals, err := eng.ScanAll(ctx)
		if err != nil {
			logger.Error("Цикл сканирования не удался", zap.Error(err))
			return
		}

		for _, sig := range signals {
			totalSignals++
			msg := notify.BuildSignalMessage(sig)
			logger.Info("СИГНАЛ",
				zap.String("symbol", sig.Symbol),
				zap.String("direction", string(sig.Direction)),
				zap.String("status", string(sig.Status)),
				zap.Int("strength", sig.Strength))

			if sender != nil {
				if err := sender.Send(ctx, msg); err != nil {
					logger.Error("Сигнал не доставлен", zap.String("symbol", sig.Symbol), zap.Error(err))
				}
			} else {
				fmt.Println(htmlTags.ReplaceAllString(msg, ""))
			}

			// Берем под FR-наблюдение
			frTracker.Track(sig)
		}

		removed := history.SweepExpired()
		logger.Info("Цикл завершен",
			zap.Int("signals", len(signals)),
			zap.Int("total_signals", totalSignals),
			zap.Int("tracked", frTracker.Count()),
			zap.Int("cooldowns_swept", removed))
	}

	// Первый скан сразу, дальше по расписанию
	runScan()

	ticker := time.NewTicker(time.Duration(cfg.Engine.ScanIntervalMinutes) * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			runScan()
		case <-ctx.Done():
			return
		}
	}
}

// runDiagnostic анализирует один символ, печатает сообщение и долгосрочный
// тренд. Сигнал при настроенном Telegram также отправляется.
func runDiagnostic(ctx context.Context, eng *engine.Engine, client *exchange.BinanceClient, sender *notify.Telegram, symbol string) {
	logger.Info("Одиночный анализ", zap.String("symbol", symbol))

	trendRes, err := trend.NewAnalyzer(client).Analyze(ctx, symbol)
	if err != nil {
		logger.Warn("Долгосрочный тренд недоступен", zap.Error(err))
	} else {
		logger.Info("Долгосрочный тренд",
			zap.String("daily", string(trendRes.Daily.Trend)),
			zap.Float64("daily_ma50", trendRes.Daily.MA50),
			zap.Float64("daily_ma200", trendRes.Daily.MA200),
			zap.String("weekly", string(trendRes.Weekly.Trend)))
	}

	sig, err := eng.AnalyzeSymbol(ctx, symbol)
	if err != nil {
		logger.Fatal("Ошибка анализа", zap.Error(err))
	}
	if sig == nil {
		logger.Info("Условия сигнала не выполнены", zap.String("symbol", symbol))
		return
	}

	msg := notify.BuildSignalMessage(sig)
	fmt.Println(htmlTags.ReplaceAllString(msg, ""))

	if sender != nil {
		if err := sender.Send(ctx, msg); err != nil {
			logger.Error("Сигнал не доставлен", zap.Error(err))
		}
	}
}
