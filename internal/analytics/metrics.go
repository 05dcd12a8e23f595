package analytics

import (
	"github.com/shopspring/decimal"

	"github.com/wonny/labtrade/internal/contracts"
)

// ComputeCoreMetrics 핵심 지표 계산 (빈 집합이면 모두 0)
func ComputeCoreMetrics(statements []contracts.Statement) contracts.CoreMetrics {
	revenue := decimal.Zero
	var m contracts.CoreMetrics

	for _, s := range statements {
		revenue = revenue.Add(s.TotalAmount)
		m.TotalUnits += s.TotalUnits
		m.TotalItems += len(s.Items)
		m.RemakeCount += s.DefectCount()
	}
	m.TotalStatements = len(statements)
	m.TotalRevenue = revenue

	m.AverageAmount = ratio(revenue, m.TotalStatements)
	m.AverageUnits = ratio(decimal.NewFromInt(int64(m.TotalUnits)), m.TotalStatements)
	m.RemakeRate = percent(decimal.NewFromInt(int64(m.RemakeCount)), decimal.NewFromInt(int64(m.TotalItems)))

	return m
}

// SplitByDirection 발송/수신 건수와 매출 분리
func SplitByDirection(statements []contracts.Statement) contracts.DirectionSplit {
	sent, received := decimal.Zero, decimal.Zero
	var split contracts.DirectionSplit

	for _, s := range statements {
		switch s.Direction {
		case contracts.DirectionSent:
			split.Sent.Count++
			sent = sent.Add(s.TotalAmount)
		case contracts.DirectionReceived:
			split.Received.Count++
			received = received.Add(s.TotalAmount)
		}
	}
	split.Sent.Revenue = sent
	split.Received.Revenue = received
	return split
}
