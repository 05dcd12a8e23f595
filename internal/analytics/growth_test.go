package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wonny/labtrade/internal/contracts"
)

func TestCompareGrowth(t *testing.T) {
	loc := seoul(t)
	rng := rangeOf(loc, "2024-03-01", "2024-03-31")
	pool := []contracts.Statement{
		stmt("p1", day(loc, 2024, 2, 10), 10000, contracts.DirectionSent, "A"),
		stmt("p2", day(loc, 2024, 2, 20), 10000, contracts.DirectionSent, "B"),
		stmt("c1", day(loc, 2024, 3, 5), 25000, contracts.DirectionSent, "A"),
	}
	current := Filter(pool, rng, "")

	g := CompareGrowth(pool, current, rng, "")
	assert.Equal(t, 25.0, g.RevenueGrowth)
	assert.Equal(t, -50.0, g.CountGrowth)
	assert.Equal(t, "20000", g.PreviousRevenue.String())
	assert.Equal(t, 2, g.PreviousCount)
	assert.Equal(t, rng.Start, g.PreviousRange.End)
}

func TestCompareGrowth_ZeroPrevious(t *testing.T) {
	loc := seoul(t)
	rng := rangeOf(loc, "2024-03-01", "2024-03-31")
	pool := []contracts.Statement{stmt("c1", day(loc, 2024, 3, 5), 25000, contracts.DirectionSent, "A")}

	g := CompareGrowth(pool, Filter(pool, rng, ""), rng, "")
	assert.Equal(t, 0.0, g.RevenueGrowth)
	assert.Equal(t, 0.0, g.CountGrowth)
}

func TestCompareGrowth_PartnerFilterAppliesToBothWindows(t *testing.T) {
	loc := seoul(t)
	rng := rangeOf(loc, "2024-03-01", "2024-03-31")
	pool := []contracts.Statement{
		stmt("p1", day(loc, 2024, 2, 10), 10000, contracts.DirectionSent, "A"),
		stmt("p2", day(loc, 2024, 2, 20), 90000, contracts.DirectionSent, "B"),
		stmt("c1", day(loc, 2024, 3, 5), 20000, contracts.DirectionSent, "A"),
	}

	g := CompareGrowth(pool, Filter(pool, rng, "A"), rng, "A")
	// B의 직전 매출은 비교 대상이 아님
	assert.Equal(t, "10000", g.PreviousRevenue.String())
	assert.Equal(t, 1, g.PreviousCount)
	assert.Equal(t, 100.0, g.RevenueGrowth)
	assert.Equal(t, 0.0, g.CountGrowth)
}
