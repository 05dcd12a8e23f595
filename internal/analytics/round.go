package analytics

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// percent part/whole*100, 소수점 1자리 반올림, whole == 0 이면 0
func percent(part, whole decimal.Decimal) float64 {
	if whole.IsZero() {
		return 0
	}
	return part.Mul(hundred).Div(whole).Round(1).InexactFloat64()
}

// ratio num/den, 소수점 1자리 반올림, den == 0 이면 0
func ratio(num decimal.Decimal, den int) float64 {
	if den == 0 {
		return 0
	}
	return num.Div(decimal.NewFromInt(int64(den))).Round(1).InexactFloat64()
}

// growth (current-previous)/previous*100, previous == 0 이면 0 (무한 성장 표기 방지)
func growth(current, previous decimal.Decimal) float64 {
	if previous.IsZero() {
		return 0
	}
	return percent(current.Sub(previous), previous)
}
