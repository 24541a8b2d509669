package exchange

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/adshao/go-binance/v2/futures"
	"golang.org/x/time/rate"

	"github.com/skalibog/bfsig/internal/config"
	"github.com/skalibog/bfsig/pkg/models"
)

// BinanceClient клиент для взаимодействия с Binance Futures
type BinanceClient struct {
	futures *futures.Client
	limiter *rate.Limiter
	timeout time.Duration
}

// NewBinanceClient создает новый клиент Binance
func NewBinanceClient(cfg config.BinanceConfig) (*BinanceClient, error) {
	if cfg.Testnet {
		futures.UseTestnet = true
	}
	futuresClient := futures.NewClient(cfg.APIKey, cfg.APISecret)

	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 5
	}
	timeout := time.Duration(cfg.RequestTimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	return &BinanceClient{
		futures: futuresClient,
		limiter: rate.NewLimiter(rate.Limit(rps), rps),
		timeout: timeout,
	}, nil
}

// withTimeout ограничивает каждый запрос к бирже, ждет лимитер
func (c *BinanceClient) withTimeout(ctx context.Context) (context.Context, context.CancelFunc, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, nil, fmt.Errorf("ожидание лимитера прервано: %w", err)
	}
	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	return reqCtx, cancel, nil
}

// GetKlines получает исторические свечи, от старых к новым
func (c *BinanceClient) GetKlines(ctx context.Context, symbol, interval string, limit int) ([]models.Candle, error) {
	reqCtx, cancel, err := c.withTimeout(ctx)
	if err != nil {
		return nil, err
	}
	defer cancel()

	klines, err := c.futures.NewKlinesService().
		Symbol(symbol).
		Interval(interval).
		Limit(limit).
		Do(reqCtx)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения свечей %s %s: %w", symbol, interval, err)
	}

	candles := make([]models.Candle, 0, len(klines))
	for _, k := range klines {
		open, err := strconv.ParseFloat(k.Open, 64)
		if err != nil {
			return nil, fmt.Errorf("ошибка разбора свечи %s: %w", symbol, err)
		}
		high, _ := strconv.ParseFloat(k.High, 64)
		low, _ := strconv.ParseFloat(k.Low, 64)
		closePrice, _ := strconv.ParseFloat(k.Close, 64)
		volume, _ := strconv.ParseFloat(k.Volume, 64)

		candles = append(candles, models.Candle{
			Symbol:    symbol,
			Interval:  interval,
			OpenTime:  time.UnixMilli(k.OpenTime),
			Open:      open,
			High:      high,
			Low:       low,
			Close:     closePrice,
			Volume:    volume,
			CloseTime: time.UnixMilli(k.CloseTime),
		})
	}

	return candles, nil
}

// GetFundingRate получает текущую ставку финансирования
func (c *BinanceClient) GetFundingRate(ctx context.Context, symbol string) (float64, error) {
	reqCtx, cancel, err := c.withTimeout(ctx)
	if err != nil {
		return 0, err
	}
	defer cancel()

	rates, err := c.futures.NewPremiumIndexService().
		Symbol(symbol).
		Do(reqCtx)
	if err != nil {
		return 0, fmt.Errorf("ошибка получения ставки финансирования %s: %w", symbol, err)
	}
	if len(rates) == 0 {
		return 0, fmt.Errorf("нет данных о ставке финансирования для %s", symbol)
	}

	rate, err := strconv.ParseFloat(rates[0].LastFundingRate, 64)
	if err != nil {
		return 0, fmt.Errorf("ошибка разбора ставки финансирования %s: %w", symbol, err)
	}

	return rate, nil
}

// GetLongShortRatio получает соотношение длинных и коротких позиций (аккаунты, период 1ч)
func (c *BinanceClient) GetLongShortRatio(ctx context.Context, symbol string) (float64, error) {
	reqCtx, cancel, err := c.withTimeout(ctx)
	if err != nil {
		return 0, err
	}
	defer cancel()

	ratios, err := c.futures.NewLongShortRatioService().
		Symbol(symbol).
		Period("1h").
		Limit(1).
		Do(reqCtx)
	if err != nil {
		return 0, fmt.Errorf("ошибка получения long/short ratio %s: %w", symbol, err)
	}
	if len(ratios) == 0 {
		return 0, fmt.Errorf("нет данных long/short ratio для %s", symbol)
	}

	ratio, err := strconv.ParseFloat(ratios[0].LongShortRatio, 64)
	if err != nil {
		return 0, fmt.Errorf("ошибка разбора long/short ratio %s: %w", symbol, err)
	}

	return ratio, nil
}

// GetActivePairs возвращает все активные бессрочные USDT-пары
func (c *BinanceClient) GetActivePairs(ctx context.Context) ([]string, error) {
	reqCtx, cancel, err := c.withTimeout(ctx)
	if err != nil {
		return nil, err
	}
	defer cancel()

	info, err := c.futures.NewExchangeInfoService().Do(reqCtx)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения списка пар: %w", err)
	}

	pairs := make([]string, 0, len(info.Symbols))
	for _, s := range info.Symbols {
		if s.Status == "TRADING" && s.QuoteAsset == "USDT" && s.ContractType == "PERPETUAL" {
			pairs = append(pairs, s.Symbol)
		}
	}

	return pairs, nil
}
