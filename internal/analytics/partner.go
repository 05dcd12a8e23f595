package analytics

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/wonny/labtrade/internal/contracts"
)

type partnerAcc struct {
	rollup  contracts.PartnerRollup
	revenue decimal.Decimal
}

// Aggregate implements PartnerAggregator
// 거래처 ID로 그룹핑, 매출 내림차순 안정 정렬 (동률은 최초 등장 순서)
// ID 없는 명세서는 귀속 불가이므로 제외
func Aggregate(statements []contracts.Statement, scope Scope) []contracts.PartnerRollup {
	index := make(map[string]int)
	var groups []*partnerAcc

	for _, s := range statements {
		if s.CounterpartyID == "" || !scope.includes(s.Direction) {
			continue
		}

		i, ok := index[s.CounterpartyID]
		if !ok {
			i = len(groups)
			index[s.CounterpartyID] = i
			groups = append(groups, &partnerAcc{
				rollup: contracts.PartnerRollup{
					PartnerID:   s.CounterpartyID,
					PartnerName: s.CounterpartyName,
				},
				revenue: decimal.Zero,
			})
		}

		g := groups[i]
		// 첫 실명 우선
		if g.rollup.PartnerName == contracts.UnspecifiedPartner && s.CounterpartyName != contracts.UnspecifiedPartner {
			g.rollup.PartnerName = s.CounterpartyName
		}
		g.revenue = g.revenue.Add(s.TotalAmount)
		g.rollup.Count++
		g.rollup.Units += s.TotalUnits
		g.rollup.Items += len(s.Items)
		g.rollup.DefectCount += s.DefectCount()
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].revenue.GreaterThan(groups[j].revenue)
	})

	rollups := make([]contracts.PartnerRollup, 0, len(groups))
	for _, g := range groups {
		r := g.rollup
		r.Revenue = g.revenue
		r.DefectRate = percent(decimal.NewFromInt(int64(r.DefectCount)), decimal.NewFromInt(int64(r.Items)))
		rollups = append(rollups, r)
	}
	return rollups
}

// Top 상위 n개 (복사본)
func Top(rollups []contracts.PartnerRollup, n int) []contracts.PartnerRollup {
	if n > len(rollups) {
		n = len(rollups)
	}
	top := make([]contracts.PartnerRollup, n)
	copy(top, rollups[:n])
	return top
}

// DefectRateRanking 최소 항목 수 이상 거래처만 재제작률 내림차순으로 정렬
// minSample 미만은 재제작률 100%여도 제외
func DefectRateRanking(rollups []contracts.PartnerRollup, minSample, n int) []contracts.PartnerRollup {
	eligible := make([]contracts.PartnerRollup, 0, len(rollups))
	for _, r := range rollups {
		if r.Items >= minSample {
			eligible = append(eligible, r)
		}
	}

	sort.SliceStable(eligible, func(i, j int) bool {
		return eligible[i].DefectRate > eligible[j].DefectRate
	})

	return Top(eligible, n)
}

func (s Scope) includes(d contracts.Direction) bool {
	switch s {
	case ScopeSent:
		return d == contracts.DirectionSent
	case ScopeReceived:
		return d == contracts.DirectionReceived
	default:
		return true
	}
}
