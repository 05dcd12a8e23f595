package analytics

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/wonny/labtrade/internal/contracts"
)

// DefectBreakdown 재제작 사유 분석 결과
type DefectBreakdown struct {
	TotalItems  int                      `json:"total_items"`
	DefectCount int                      `json:"defect_count"`
	Reasons     []contracts.DefectReason `json:"reasons"`
}

// AnalyzeDefects implements DefectAnalyzer
// 재제작 0건이면 빈 사유 목록 (0으로 나누지 않음)
func AnalyzeDefects(statements []contracts.Statement, topN int) DefectBreakdown {
	breakdown := DefectBreakdown{Reasons: []contracts.DefectReason{}}

	index := make(map[string]int)
	var tally []contracts.DefectReason

	for _, s := range statements {
		for _, item := range s.Items {
			breakdown.TotalItems++
			if !item.IsDefect {
				continue
			}
			breakdown.DefectCount++

			reason := item.Reason()
			i, ok := index[reason]
			if !ok {
				i = len(tally)
				index[reason] = i
				tally = append(tally, contracts.DefectReason{Reason: reason})
			}
			tally[i].Count++
		}
	}

	if breakdown.DefectCount == 0 {
		return breakdown
	}

	// 동률은 최초 등장 순서
	sort.SliceStable(tally, func(i, j int) bool {
		return tally[i].Count > tally[j].Count
	})

	total := decimal.NewFromInt(int64(breakdown.DefectCount))
	for i := range tally {
		tally[i].Percentage = percent(decimal.NewFromInt(int64(tally[i].Count)), total)
	}

	if topN > 0 && len(tally) > topN {
		tally = tally[:topN]
	}
	breakdown.Reasons = tally
	return breakdown
}
