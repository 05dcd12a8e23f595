package analytics

import "github.com/wonny/labtrade/internal/contracts"

// Filter 기간(양 끝 포함)과 거래처로 작업 집합을 좁힌다
// 입력 순서 유지, 정렬/변경하지 않음
func Filter(statements []contracts.Statement, rng contracts.DateRange, counterpartyID string) []contracts.Statement {
	filtered := make([]contracts.Statement, 0, len(statements))
	byPartner := counterpartyID != "" && counterpartyID != contracts.AllPartners

	for _, s := range statements {
		if !rng.Contains(s.OccurredAt) {
			continue
		}
		if byPartner && s.CounterpartyID != counterpartyID {
			continue
		}
		filtered = append(filtered, s)
	}
	return filtered
}
