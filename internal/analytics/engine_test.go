package analytics

import (
	"math"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/labtrade/internal/contracts"
	"github.com/wonny/labtrade/internal/ingest"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Location = seoul(t)
	return NewEngine(cfg, zerolog.Nop())
}

func TestEngine_MonthlyExample(t *testing.T) {
	e := newTestEngine(t)
	loc := e.Location()

	snap, err := e.Build(exampleStatements(loc), Query{
		Range:       rangeOf(loc, "2024-03-01", "2024-04-30"),
		Granularity: contracts.GranularityMonth,
	})
	require.NoError(t, err)

	require.Len(t, snap.PeriodSeries, 2)
	assert.Equal(t, "2024-03", snap.PeriodSeries[0].Period)
	assert.Equal(t, "30000", snap.PeriodSeries[0].Revenue.String())
	assert.Equal(t, 2, snap.PeriodSeries[0].Count)
	assert.Equal(t, "2024-04", snap.PeriodSeries[1].Period)
	assert.Equal(t, "5000", snap.PeriodSeries[1].Revenue.String())
	assert.Equal(t, 1, snap.PeriodSeries[1].Count)

	assert.Equal(t, "35000", snap.CoreMetrics.TotalRevenue.String())
	assert.Equal(t, 3, snap.CoreMetrics.TotalStatements)
	assert.Equal(t, 11666.7, snap.CoreMetrics.AverageAmount)

	require.Len(t, snap.PartnerRollups, 2)
	assert.Equal(t, "B", snap.PartnerRollups[0].PartnerID)
	assert.Equal(t, "A", snap.PartnerRollups[1].PartnerID)
	assert.Equal(t, "15000", snap.PartnerRollups[1].Revenue.String())
	assert.Equal(t, 2, snap.PartnerRollups[1].Count)

	assert.Equal(t, 2, snap.DirectionSplit.Sent.Count)
	assert.Equal(t, "15000", snap.DirectionSplit.Sent.Revenue.String())
	assert.Equal(t, 1, snap.DirectionSplit.Received.Count)
	assert.Equal(t, "20000", snap.DirectionSplit.Received.Revenue.String())
}

func TestEngine_Idempotent(t *testing.T) {
	e := newTestEngine(t)
	loc := e.Location()
	pool := exampleStatements(loc)
	pool[0] = withItems(pool[0], 6, 2)
	q := Query{Range: rangeOf(loc, "2024-03-01", "2024-04-30"), Granularity: contracts.GranularityWeek}

	first, err := e.Build(pool, q)
	require.NoError(t, err)
	second, err := e.Build(pool, q)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestEngine_Conservation(t *testing.T) {
	e := newTestEngine(t)
	loc := e.Location()

	var pool []contracts.Statement
	partners := []string{"A", "B", "C", "D"}
	for i := 0; i < 60; i++ {
		at := day(loc, 2024, time.Month(1+i%6), 1+i%27)
		pool = append(pool, stmt("s", at, int64(1000+i*137), contracts.DirectionSent, partners[i%len(partners)]))
	}

	for _, g := range []contracts.Granularity{contracts.GranularityDay, contracts.GranularityWeek, contracts.GranularityMonth, contracts.GranularityYear} {
		snap, err := e.Build(pool, Query{Range: rangeOf(loc, "2024-02-01", "2024-05-31"), Granularity: g})
		require.NoError(t, err)

		assertConserved(t, snap, string(g))
	}
}

func TestEngine_ConservationFractionalAmounts(t *testing.T) {
	e := newTestEngine(t)
	loc := e.Location()

	amounts := []string{"0.1", "0.2", "0.3", "0.7", "1.1", "2.2"}
	var pool []contracts.Statement
	for i, a := range amounts {
		s := stmt("s", day(loc, 2024, 3, 1+i), 0, contracts.DirectionSent, string(rune('A'+i%2)))
		s.TotalAmount = decimal.RequireFromString(a)
		pool = append(pool, s)
	}

	for _, g := range []contracts.Granularity{contracts.GranularityDay, contracts.GranularityWeek, contracts.GranularityMonth, contracts.GranularityYear} {
		snap, err := e.Build(pool, Query{Range: rangeOf(loc, "2024-03-01", "2024-03-31"), Granularity: g})
		require.NoError(t, err)

		assert.Equal(t, "4.6", snap.CoreMetrics.TotalRevenue.String(), string(g))
		assertConserved(t, snap, string(g))
	}
}

// assertConserved 기간 합계와 거래처 합계가 총매출과 정확히 일치
func assertConserved(t *testing.T, snap *contracts.AnalyticsSnapshot, msg string) {
	t.Helper()
	seriesSum, partnerSum := decimal.Zero, decimal.Zero
	for _, p := range snap.PeriodSeries {
		seriesSum = seriesSum.Add(p.Revenue)
	}
	for _, r := range snap.PartnerRollups {
		partnerSum = partnerSum.Add(r.Revenue)
	}
	assert.True(t, snap.CoreMetrics.TotalRevenue.Equal(seriesSum), "%s: series %s != total %s", msg, seriesSum, snap.CoreMetrics.TotalRevenue)
	assert.True(t, snap.CoreMetrics.TotalRevenue.Equal(partnerSum), "%s: partners %s != total %s", msg, partnerSum, snap.CoreMetrics.TotalRevenue)

	split := snap.DirectionSplit.Sent.Revenue.Add(snap.DirectionSplit.Received.Revenue)
	assert.True(t, snap.CoreMetrics.TotalRevenue.Equal(split), "%s: split %s", msg, split)
}

func TestEngine_EmptyWorkingSet(t *testing.T) {
	e := newTestEngine(t)
	loc := e.Location()

	snap, err := e.Build(exampleStatements(loc), Query{Range: rangeOf(loc, "2020-01-01", "2020-01-31")})
	require.NoError(t, err)

	assert.Equal(t, 0.0, snap.CoreMetrics.RemakeRate)
	assert.Equal(t, 0.0, snap.CoreMetrics.AverageAmount)
	assert.Equal(t, 0.0, snap.Growth.RevenueGrowth)
	assert.Equal(t, 0.0, snap.Growth.CountGrowth)
	assert.Empty(t, snap.PartnerRollups)
	assert.NotNil(t, snap.PartnerRollups)
	assert.Empty(t, snap.DefectReasons)
	assert.NotNil(t, snap.DefectReasons)
	assert.Empty(t, snap.PeriodSeries)
	assert.False(t, math.IsNaN(snap.CoreMetrics.AverageUnits))
}

func TestEngine_GrowthWithZeroPrevious(t *testing.T) {
	e := newTestEngine(t)
	loc := e.Location()

	snap, err := e.Build(exampleStatements(loc), Query{Range: rangeOf(loc, "2024-03-01", "2024-04-30")})
	require.NoError(t, err)
	assert.True(t, snap.CoreMetrics.TotalRevenue.IsPositive())
	assert.Equal(t, 0.0, snap.Growth.RevenueGrowth)
}

func TestEngine_MinimumSampleGuard(t *testing.T) {
	e := newTestEngine(t)
	loc := e.Location()
	pool := []contracts.Statement{
		withItems(stmt("1", day(loc, 2024, 3, 1), 1000, contracts.DirectionSent, "small"), 4, 4),
		withItems(stmt("2", day(loc, 2024, 3, 2), 1000, contracts.DirectionSent, "big"), 10, 1),
	}

	snap, err := e.Build(pool, Query{Range: rangeOf(loc, "2024-03-01", "2024-03-31")})
	require.NoError(t, err)

	require.Len(t, snap.DefectRateRanking, 1)
	assert.Equal(t, "big", snap.DefectRateRanking[0].PartnerID)
	assert.Equal(t, 100.0, snap.PartnerRollups[0].DefectRate)
	assert.Equal(t, 35.7, snap.CoreMetrics.RemakeRate)
}

func TestEngine_TopPartnersTruncated(t *testing.T) {
	e := newTestEngine(t)
	loc := e.Location()

	var pool []contracts.Statement
	for i := 0; i < 15; i++ {
		pool = append(pool, stmt("s", day(loc, 2024, 3, 1), int64(100+i), contracts.DirectionSent, string(rune('A'+i))))
	}

	snap, err := e.Build(pool, Query{Range: rangeOf(loc, "2024-03-01", "2024-03-31")})
	require.NoError(t, err)
	assert.Len(t, snap.PartnerRollups, 15)
	require.Len(t, snap.TopPartners, DefaultTopN)
	assert.Equal(t, "O", snap.TopPartners[0].PartnerID)
}

func TestEngine_InvalidQuery(t *testing.T) {
	e := newTestEngine(t)
	loc := e.Location()
	valid := rangeOf(loc, "2024-03-01", "2024-03-31")

	_, err := e.Build(nil, Query{Range: contracts.DateRange{Start: valid.End, End: valid.Start}})
	assert.ErrorIs(t, err, contracts.ErrInvalidRange)

	_, err = e.Build(nil, Query{Range: valid, Granularity: "quarter"})
	assert.ErrorIs(t, err, ErrInvalidGranularity)

	_, err = e.Build(nil, Query{Range: valid, Scope: "both"})
	assert.ErrorIs(t, err, ErrInvalidScope)
}

func TestEngine_Run(t *testing.T) {
	e := newTestEngine(t)

	raws, err := ingest.DecodeRecords([]byte(`[
		{"id":"1","fromId":"lab","toId":"A","toName":"A치과","date":"2024-03-01","totalAmount":10000},
		{"id":"2","fromId":"B","fromName":"B치과","toId":"lab","issuedAt":{"seconds":1709251200,"nanoseconds":0},"totalAmount":"20000"},
		{"id":"3","fromId":"lab","toId":"A","date":"not-a-date","totalAmount":1},
		{"id":"4","fromId":"x","toId":"y","date":"2024-03-01"},
		7
	]`))
	require.NoError(t, err)

	res, err := e.Run(raws, "lab", Query{Range: rangeOf(e.Location(), "2024-03-01", "2024-03-31")})
	require.NoError(t, err)

	assert.Equal(t, 5, res.Report.Total)
	assert.Equal(t, 2, res.Report.Accepted)
	assert.Len(t, res.WorkingSet, 2)
	assert.Equal(t, "30000", res.Snapshot.CoreMetrics.TotalRevenue.String())
	assert.Equal(t, contracts.GranularityMonth, res.Snapshot.Granularity)

	_, err = e.Run(raws, "", Query{Range: rangeOf(e.Location(), "2024-03-01", "2024-03-31")})
	assert.ErrorIs(t, err, ingest.ErrMissingOwner)
}

func TestEngine_ConcurrentBuilds(t *testing.T) {
	e := newTestEngine(t)
	loc := e.Location()
	pool := exampleStatements(loc)
	q := Query{Range: rangeOf(loc, "2024-03-01", "2024-04-30")}

	want, err := e.Build(pool, q)
	require.NoError(t, err)

	done := make(chan *contracts.AnalyticsSnapshot, 8)
	for i := 0; i < 8; i++ {
		go func() {
			snap, _ := e.Build(pool, q)
			done <- snap
		}()
	}
	for i := 0; i < 8; i++ {
		assert.Equal(t, want, <-done)
	}
}
