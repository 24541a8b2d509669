package funding

import (
	"context"
	"math"

	"go.uber.org/zap"

	"github.com/skalibog/bfsig/internal/config"
	"github.com/skalibog/bfsig/pkg/logger"
	"github.com/skalibog/bfsig/pkg/models"
)

// mediumThreshold граница между LOW и MEDIUM по модулю ставки
const mediumThreshold = 0.0005

// RateProvider поставщик ставки финансирования и long/short ratio
type RateProvider interface {
	GetFundingRate(ctx context.Context, symbol string) (float64, error)
	GetLongShortRatio(ctx context.Context, symbol string) (float64, error)
}

// Analyzer оценивает риск по ставке финансирования
type Analyzer struct {
	client RateProvider
	config config.FundingConfig
}

// NewAnalyzer создает новый анализатор ставок финансирования
func NewAnalyzer(client RateProvider, cfg config.FundingConfig) *Analyzer {
	return &Analyzer{client: client, config: cfg}
}

// Classify классифицирует ставку по ярусам опасности. Чистая функция:
// знак ставки определяет какое направление запрещено.
func Classify(rate float64, cfg config.FundingConfig) (models.RiskLevel, bool, bool) {
	riskLevel := models.RiskLow
	allowLong, allowShort := true, true

	switch {
	case rate >= cfg.Danger2:
		riskLevel = models.RiskBlocked
		allowLong = false
	case rate >= cfg.Danger1:
		riskLevel = models.RiskHigh
		allowLong = false
	case rate <= -cfg.Danger2:
		riskLevel = models.RiskBlocked
		allowShort = false
	case rate <= -cfg.Danger1:
		riskLevel = models.RiskHigh
		allowShort = false
	case math.Abs(rate) > mediumThreshold:
		riskLevel = models.RiskMedium
	}

	return riskLevel, allowLong, allowShort
}

// ClassifyAbs классифицирует по модулю ставки, применяется трекером
// при переоценке уже отправленных сигналов
func ClassifyAbs(rate float64, cfg config.FundingConfig) models.RiskLevel {
	abs := math.Abs(rate)
	switch {
	case abs >= cfg.Danger2:
		return models.RiskBlocked
	case abs >= cfg.Danger1:
		return models.RiskHigh
	case abs > mediumThreshold:
		return models.RiskMedium
	default:
		return models.RiskLow
	}
}

// Assess получает текущую ставку и long/short ratio и классифицирует риск.
// Недоступность данных деградирует до безопасной оценки
// (ставка 0, MEDIUM, оба направления разрешены, ratio 1), а не валит пайплайн.
func (a *Analyzer) Assess(ctx context.Context, symbol string) models.FundingAssessment {
	rate, err := a.client.GetFundingRate(ctx, symbol)
	if err != nil {
		logger.Warn("Ставка финансирования недоступна, применяется безопасная оценка",
			zap.String("symbol", symbol), zap.Error(err))
		return models.FundingAssessment{
			RiskLevel: models.RiskMedium, AllowLong: true, AllowShort: true, LSRatio: 1,
		}
	}

	lsRatio, err := a.client.GetLongShortRatio(ctx, symbol)
	if err != nil {
		logger.Debug("Long/short ratio недоступен", zap.String("symbol", symbol), zap.Error(err))
		lsRatio = 1
	}

	riskLevel, allowLong, allowShort := Classify(rate, a.config)

	return models.FundingAssessment{
		Rate:       rate,
		RatePct:    rate * 100,
		RiskLevel:  riskLevel,
		AllowLong:  allowLong,
		AllowShort: allowShort,
		LSRatio:    lsRatio,
	}
}
