package funding

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/skalibog/bfsig/internal/config"
	"github.com/skalibog/bfsig/pkg/models"
)

type fakeRates struct {
	rate    float64
	rateErr error
	lsRatio float64
	lsErr   error
}

func (f *fakeRates) GetFundingRate(_ context.Context, _ string) (float64, error) {
	return f.rate, f.rateErr
}

func (f *fakeRates) GetLongShortRatio(_ context.Context, _ string) (float64, error) {
	return f.lsRatio, f.lsErr
}

func TestClassify(t *testing.T) {
	cfg := config.FundingConfig{Danger1: 0.005, Danger2: 0.015}

	tests := []struct {
		name       string
		rate       float64
		riskLevel  models.RiskLevel
		allowLong  bool
		allowShort bool
	}{
		{"Нулевая ставка", 0, models.RiskLow, true, true},
		{"Низкая положительная", 0.0001, models.RiskLow, true, true},
		{"Средняя положительная", 0.001, models.RiskMedium, true, true},
		{"Средняя отрицательная", -0.001, models.RiskMedium, true, true},
		{"Высокая положительная запрещает лонг", 0.008, models.RiskHigh, false, true},
		{"Высокая отрицательная запрещает шорт", -0.008, models.RiskHigh, true, false},
		{"Блокирующая положительная", 0.02, models.RiskBlocked, false, true},
		{"Блокирующая отрицательная", -0.02, models.RiskBlocked, true, false},
		{"Ровно danger_1", 0.005, models.RiskHigh, false, true},
		{"Ровно danger_2", 0.015, models.RiskBlocked, false, true},
		{"Ровно граница MEDIUM не включается", 0.0005, models.RiskLow, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			riskLevel, allowLong, allowShort := Classify(tt.rate, cfg)
			assert.Equal(t, tt.riskLevel, riskLevel)
			assert.Equal(t, tt.allowLong, allowLong)
			assert.Equal(t, tt.allowShort, allowShort)
		})
	}
}

func TestClassifyИдемпотентность(t *testing.T) {
	cfg := config.FundingConfig{Danger1: 0.005, Danger2: 0.015}

	for _, rate := range []float64{0, 0.0001, 0.001, 0.008, 0.02, -0.008, -0.02} {
		r1, l1, s1 := Classify(rate, cfg)
		r2, l2, s2 := Classify(rate, cfg)
		assert.Equal(t, r1, r2)
		assert.Equal(t, l1, l2)
		assert.Equal(t, s1, s2)
	}
}

func TestClassifyAbs(t *testing.T) {
	cfg := config.FundingConfig{Danger1: 0.005, Danger2: 0.015}

	tests := []struct {
		name     string
		rate     float64
		expected models.RiskLevel
	}{
		{"Низкая", 0.0001, models.RiskLow},
		{"Средняя", 0.001, models.RiskMedium},
		{"Высокая по модулю", -0.008, models.RiskHigh},
		{"Блокирующая по модулю", -0.02, models.RiskBlocked},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ClassifyAbs(tt.rate, cfg))
		})
	}
}

func TestAssess(t *testing.T) {
	cfg := config.FundingConfig{Danger1: 0.005, Danger2: 0.015}

	a := NewAnalyzer(&fakeRates{rate: 0.0001, lsRatio: 1.8}, cfg)
	out := a.Assess(context.Background(), "BTCUSDT")

	assert.Equal(t, 0.0001, out.Rate)
	assert.InDelta(t, 0.01, out.RatePct, 1e-9)
	assert.Equal(t, models.RiskLow, out.RiskLevel)
	assert.True(t, out.AllowLong)
	assert.True(t, out.AllowShort)
	assert.Equal(t, 1.8, out.LSRatio)
}

func TestAssessДеградацияПриОшибкеСтавки(t *testing.T) {
	cfg := config.FundingConfig{Danger1: 0.005, Danger2: 0.015}

	a := NewAnalyzer(&fakeRates{rateErr: errors.New("timeout")}, cfg)
	out := a.Assess(context.Background(), "BTCUSDT")

	// Безопасная оценка: MEDIUM, оба направления разрешены
	assert.Equal(t, 0.0, out.Rate)
	assert.Equal(t, models.RiskMedium, out.RiskLevel)
	assert.True(t, out.AllowLong)
	assert.True(t, out.AllowShort)
	assert.Equal(t, 1.0, out.LSRatio)
}

func TestAssessДеградацияПриОшибкеRatio(t *testing.T) {
	cfg := config.FundingConfig{Danger1: 0.005, Danger2: 0.015}

	a := NewAnalyzer(&fakeRates{rate: 0.001, lsErr: errors.New("timeout")}, cfg)
	out := a.Assess(context.Background(), "BTCUSDT")

	assert.Equal(t, models.RiskMedium, out.RiskLevel)
	assert.Equal(t, 1.0, out.LSRatio)
}
