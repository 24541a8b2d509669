package indicators

import "math"

// Nans возвращает срез из NaN заданной длины
func Nans(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}

// Sma рассчитывает скользящее среднее.
// Первые period-1 значений — NaN; NaN внутри окна исключаются из среднего,
// полностью пустое окно дает NaN.
func Sma(values []float64, period int) []float64 {
	out := make([]float64, len(values))
	for i := range values {
		if i < period-1 {
			out[i] = math.NaN()
			continue
		}
		sum, cnt := 0.0, 0
		for j := i - period + 1; j <= i; j++ {
			if !math.IsNaN(values[j]) {
				sum += values[j]
				cnt++
			}
		}
		if cnt == 0 {
			out[i] = math.NaN()
		} else {
			out[i] = sum / float64(cnt)
		}
	}
	return out
}

// Ema рассчитывает экспоненциальное скользящее среднее.
// Затравка на индексе period-1 — простое среднее валидных значений окна,
// до нее значения не определены. NaN на входе или в предыдущем значении
// дает NaN дальше по цепочке.
func Ema(values []float64, period int) []float64 {
	out := make([]float64, len(values))
	k := 2.0 / float64(period+1)
	for i := range values {
		switch {
		case math.IsNaN(values[i]):
			out[i] = math.NaN()
		case i < period-1:
			out[i] = math.NaN()
		case i == period-1:
			sum, cnt := 0.0, 0
			for j := i - period + 1; j <= i; j++ {
				if !math.IsNaN(values[j]) {
					sum += values[j]
					cnt++
				}
			}
			if cnt == 0 {
				out[i] = math.NaN()
			} else {
				out[i] = sum / float64(cnt)
			}
		default:
			prev := out[i-1]
			if math.IsNaN(prev) {
				out[i] = math.NaN()
			} else {
				out[i] = (values[i]-prev)*k + prev
			}
		}
	}
	return out
}

// LastValid возвращает последнее валидное значение серии, иначе 0
func LastValid(values []float64) float64 {
	for i := len(values) - 1; i >= 0; i-- {
		if !math.IsNaN(values[i]) {
			return values[i]
		}
	}
	return 0
}
