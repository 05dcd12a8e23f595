package analytics

import (
	"github.com/shopspring/decimal"

	"github.com/wonny/labtrade/internal/contracts"
)

// CompareGrowth implements GrowthComparator
// 직전 동일 길이 구간을 전체 풀에서 다시 필터링 (현재 구간과 같은 거래처 필터 적용)
func CompareGrowth(all, current []contracts.Statement, rng contracts.DateRange, counterpartyID string) contracts.Growth {
	prevRange := rng.Previous()
	previous := Filter(all, prevRange, counterpartyID)

	currentRevenue := sumAmount(current)
	previousRevenue := sumAmount(previous)

	return contracts.Growth{
		RevenueGrowth:   growth(currentRevenue, previousRevenue),
		CountGrowth:     growth(decimal.NewFromInt(int64(len(current))), decimal.NewFromInt(int64(len(previous)))),
		PreviousRange:   prevRange,
		PreviousRevenue: previousRevenue,
		PreviousCount:   len(previous),
	}
}

func sumAmount(statements []contracts.Statement) decimal.Decimal {
	sum := decimal.Zero
	for _, s := range statements {
		sum = sum.Add(s.TotalAmount)
	}
	return sum
}
