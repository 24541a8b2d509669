package timeframe

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skalibog/bfsig/internal/config"
	"github.com/skalibog/bfsig/pkg/models"
)

type fakeKlines struct {
	candles map[string][]models.Candle // ключ — интервал
	err     error
}

func (f *fakeKlines) GetKlines(_ context.Context, _, interval string, _ int) ([]models.Candle, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.candles[interval], nil
}

func risingCandles(n int) []models.Candle {
	candles := make([]models.Candle, n)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range candles {
		price := 100 + float64(i)
		candles[i] = models.Candle{
			OpenTime: base.Add(time.Duration(i) * time.Minute),
			Open:     price,
			High:     price + 1,
			Low:      price - 1,
			Close:    price,
			Volume:   1000 + float64(i)*10,
		}
	}
	return candles
}

func allTimeframes(candles []models.Candle) map[string][]models.Candle {
	return map[string][]models.Candle{
		TF5m: candles, TF15m: candles, TF1h: candles, TF4h: candles, TF1d: candles,
	}
}

func newTestAnalyzer(client KlineProvider) *Analyzer {
	return NewAnalyzer(client, config.Default().Engine)
}

func TestSnapshot(t *testing.T) {
	candles := risingCandles(100)
	a := newTestAnalyzer(&fakeKlines{candles: allTimeframes(candles)})

	snap, err := a.Snapshot(context.Background(), "BTCUSDT", TF15m)

	require.NoError(t, err)
	assert.Equal(t, TF15m, snap.Timeframe)
	// Монотонный рост: RSI 100, тренд бычий
	assert.Equal(t, 100.0, snap.RSI)
	assert.Equal(t, models.TrendBullish, snap.Trend)
	assert.Equal(t, candles[99].Close, snap.Close)
	assert.Equal(t, models.WTNeutral, snap.WTCrossSignal)
	assert.InDelta(t, 0.51, snap.VolumeChangePct, 0.01)
}

func TestSnapshotНедостаточноСвечей(t *testing.T) {
	a := newTestAnalyzer(&fakeKlines{candles: allTimeframes(risingCandles(30))})

	snap, err := a.Snapshot(context.Background(), "NEWUSDT", TF15m)

	require.Error(t, err)
	assert.Nil(t, snap)
}

func TestMultiTimeframe(t *testing.T) {
	a := newTestAnalyzer(&fakeKlines{candles: allTimeframes(risingCandles(100))})

	mtf, err := a.MultiTimeframe(context.Background(), "BTCUSDT")

	require.NoError(t, err)
	require.True(t, mtf.Complete())
	assert.Equal(t, TF5m, mtf.M5.Timeframe)
	assert.Equal(t, TF1d, mtf.D1.Timeframe)
}

func TestMultiTimeframeВсеИлиНичего(t *testing.T) {
	// Один таймфрейм без данных — бандл невалиден целиком
	candles := allTimeframes(risingCandles(100))
	candles[TF4h] = risingCandles(10)
	a := newTestAnalyzer(&fakeKlines{candles: candles})

	mtf, err := a.MultiTimeframe(context.Background(), "BTCUSDT")

	require.Error(t, err)
	assert.Nil(t, mtf)
}

func TestMultiTimeframeОшибкаКлиента(t *testing.T) {
	a := newTestAnalyzer(&fakeKlines{err: errors.New("API недоступен")})

	mtf, err := a.MultiTimeframe(context.Background(), "BTCUSDT")

	require.Error(t, err)
	assert.Nil(t, mtf)
}
