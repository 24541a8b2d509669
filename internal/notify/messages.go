package notify

import (
	"fmt"
	"strings"
	"time"

	"github.com/skalibog/bfsig/pkg/models"
)

func formatPrice(p float64) string {
	switch {
	case p >= 1000:
		return groupThousands(fmt.Sprintf("%.2f", p))
	case p >= 1:
		return fmt.Sprintf("%.4f", p)
	default:
		return fmt.Sprintf("%.6f", p)
	}
}

// groupThousands вставляет разделители тысяч в целую часть
func groupThousands(s string) string {
	intPart, fracPart := s, ""
	if dot := strings.IndexByte(s, '.'); dot >= 0 {
		intPart, fracPart = s[:dot], s[dot:]
	}
	if len(intPart) <= 3 {
		return intPart + fracPart
	}
	var b strings.Builder
	lead := len(intPart) % 3
	if lead > 0 {
		b.WriteString(intPart[:lead])
	}
	for i := lead; i < len(intPart); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(intPart[i : i+3])
	}
	return b.String() + fracPart
}

func formatTime(ts time.Time) string {
	return ts.Format("15:04")
}

// rsiStars отмечает экстремальность RSI звездами
func rsiStars(rsi float64, dir models.Direction) string {
	if dir == models.DirectionLong {
		if rsi <= 15 {
			return " ⭐⭐"
		}
		if rsi <= 20 {
			return " ⭐"
		}
	} else {
		if rsi >= 85 {
			return " ⭐⭐"
		}
		if rsi >= 80 {
			return " ⭐"
		}
	}
	return ""
}

// stochMarks отмечает экстремальность стохастика восклицательными знаками
func stochMarks(k, d float64, dir models.Direction) string {
	if dir == models.DirectionShort {
		switch {
		case k >= 100 && d >= 100:
			return " ❗❗❗"
		case k >= 100 && d >= 90:
			return " ❗❗"
		case k >= 90 && d >= 90:
			return " ❗"
		}
	} else {
		switch {
		case k <= 0 && d <= 0:
			return " ❗❗❗"
		case k <= 0 && d <= 10:
			return " ❗❗"
		case k <= 10 && d <= 10:
			return " ❗"
		}
	}
	return ""
}

func frEmoji(level models.RiskLevel) string {
	switch level {
	case models.RiskLow:
		return "✅"
	case models.RiskMedium:
		return "⚡"
	case models.RiskHigh:
		return "⚠️"
	default:
		return "🚫"
	}
}

// accumLine строка о накоплении RSI в экстремальной зоне,
// пустая если серия короче двух свечей
func accumLine(tf *models.TimeframeSnapshot) string {
	a := tf.Accumulation
	if a.Count < 2 || a.Zone == models.ZoneNone {
		return ""
	}
	emoji, label := "🟢", "Перепроданность"
	if a.Zone == models.ZoneOverbought {
		emoji, label = "🔴", "Перекупленность"
	}
	cross := ""
	if a.StochCrossInZone {
		cross = " | K/D ✂️"
	}
	return fmt.Sprintf("%s %s: %d свечей (пик RSI: %.0f)%s", emoji, label, a.Count, a.PeakRSI, cross)
}

func formatVolumeChange(pct float64) string {
	sign := ""
	if pct >= 0 {
		sign = "+"
	}
	stars := ""
	switch {
	case pct >= 100 || pct <= -100:
		stars = " ⭐⭐⭐"
	case pct >= 50 || pct <= -50:
		stars = " ⭐⭐"
	case pct >= 20 || pct <= -20:
		stars = " ⭐"
	}
	return fmt.Sprintf("📊 Объем 15м: %s%.0f%%%s", sign, pct, stars)
}

func dirHeader(dir models.Direction) (string, string) {
	if dir == models.DirectionLong {
		return "📈", "BUY 🟢"
	}
	return "📉", "SELL 🔴"
}

func crossLine(kind string, cross models.CrossSignal) string {
	arrow := "🔴 Вниз"
	if cross == models.CrossBullish {
		arrow = "🟢 Вверх"
	}
	return fmt.Sprintf("• ✂️ %s пересечение! %s", kind, arrow)
}

// indicatorLines общие строки индикаторов для обоих шаблонов
func indicatorLines(signal *models.TradeSignal) []string {
	tf15 := signal.MultiTF.M15
	tf5 := signal.MultiTF.M5
	tf1h := signal.MultiTF.H1
	tf4h := signal.MultiTF.H4
	tf1d := signal.MultiTF.D1

	tag := ""
	if tf15.RSI <= 20 || tf15.RSI >= 80 {
		tag = " (Сигнал)"
	}

	var lines []string
	lines = append(lines, fmt.Sprintf("• Цена: %s", formatPrice(signal.EntryPrice)))
	if accum := accumLine(tf15); accum != "" {
		lines = append(lines, "• "+accum)
	}
	lines = append(lines, fmt.Sprintf("• RSI 15м: %.0f%s%s", tf15.RSI, rsiStars(tf15.RSI, signal.Direction), tag))
	if tf15.RSICross != models.CrossNone {
		lines = append(lines, crossLine("RSI", tf15.RSICross))
	}
	lines = append(lines, fmt.Sprintf("• RSI 5м: %.0f%s", tf5.RSI, rsiStars(tf5.RSI, signal.Direction)))
	lines = append(lines, fmt.Sprintf("• RSI 1ч: %.0f%s", tf1h.RSI, rsiStars(tf1h.RSI, signal.Direction)))
	lines = append(lines, fmt.Sprintf("• RSI 4ч: %.0f%s", tf4h.RSI, rsiStars(tf4h.RSI, signal.Direction)))
	lines = append(lines, fmt.Sprintf("• RSI 1д: %.0f", tf1d.RSI))
	lines = append(lines, fmt.Sprintf("• Stoch: %.0f(K)/%.0f(D)%s",
		tf15.SRSIK, tf15.SRSID, stochMarks(tf15.SRSIK, tf15.SRSID, signal.Direction)))
	if tf15.SRSICross != models.CrossNone {
		lines = append(lines, crossLine("SRSI K/D", tf15.SRSICross))
	}
	wt := "⚪"
	if tf15.WTCrossSignal == models.WTBuy {
		wt = "🟢"
	} else if tf15.WTCrossSignal == models.WTSell {
		wt = "🔴"
	}
	lines = append(lines, fmt.Sprintf("• WT: %s", wt))
	return lines
}

func footer(symbol string, ts time.Time) string {
	return fmt.Sprintf(`🔗 <a href="https://www.binance.com/en/futures/%s">Binance Futures</a> | ⏰ %s`,
		symbol, formatTime(ts))
}

const divider = "──────────────────"

// BuildSignalMessage собирает компактное сообщение о сигнале (HTML)
func BuildSignalMessage(signal *models.TradeSignal) string {
	dirEmoji, dirLabel := dirHeader(signal.Direction)
	tf15 := signal.MultiTF.M15

	var lines []string
	lines = append(lines, fmt.Sprintf("%s [15М] #%s %s", dirEmoji, signal.Symbol, dirLabel))
	if signal.Status == models.StatusWarning {
		lines = append(lines, "⚠️ FR РИСКОВАННЫЙ — ОСТОРОЖНО!")
	}
	lines = append(lines, divider)
	lines = append(lines, indicatorLines(signal)...)
	lines = append(lines, fmt.Sprintf("• FR: %.4f%% %s L/S: %.2f",
		signal.FR.RatePct, frEmoji(signal.FR.RiskLevel), signal.FR.LSRatio))
	lines = append(lines, "• "+formatVolumeChange(tf15.VolumeChangePct))
	lines = append(lines, divider)
	lines = append(lines, footer(signal.Symbol, signal.Timestamp))

	return strings.Join(lines, "\n")
}

// BuildFRUpdateMessage собирает нумерованное сообщение об изменении
// ставки финансирования по отслеживаемому сигналу
func BuildFRUpdateMessage(signal *models.TradeSignal, newFR models.FundingAssessment, oldFRPct float64, updateNo int, frDirection string) string {
	dirEmoji, dirLabel := dirHeader(signal.Direction)
	tf15 := signal.MultiTF.M15

	var lines []string
	lines = append(lines, fmt.Sprintf("🔄 FR-ОБНОВЛЕНИЕ №%d — #%s", updateNo, signal.Symbol))
	lines = append(lines, fmt.Sprintf("%s %s | %s", dirEmoji, dirLabel, frDirection))
	if newFR.RiskLevel == models.RiskBlocked {
		lines = append(lines, "❌ FR ОПАСЕН — НЕ ВХОДИТЬ!")
	} else if newFR.RiskLevel == models.RiskHigh {
		lines = append(lines, "⚠️ FR РИСКОВАННЫЙ — ОСТОРОЖНО!")
	}
	lines = append(lines, divider)
	lines = append(lines, indicatorLines(signal)...)
	lines = append(lines, fmt.Sprintf("• FR: %.4f%% → <b>%.4f%%</b> %s L/S: %.2f",
		oldFRPct, newFR.RatePct, frEmoji(newFR.RiskLevel), newFR.LSRatio))
	lines = append(lines, "• "+formatVolumeChange(tf15.VolumeChangePct))
	lines = append(lines, divider)
	lines = append(lines, footer(signal.Symbol, time.Now()))

	return strings.Join(lines, "\n")
}
