package analytics

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/wonny/labtrade/internal/contracts"
)

func TestComputeCoreMetrics(t *testing.T) {
	loc := seoul(t)
	a := withItems(stmt("1", day(loc, 2024, 3, 1), 10000, contracts.DirectionSent, "A"), 3, 1)
	a.TotalUnits = 3
	b := withItems(stmt("2", day(loc, 2024, 3, 2), 0, contracts.DirectionReceived, "B"), 1, 0)
	b.TotalAmount = decimal.RequireFromString("0.5")
	b.TotalUnits = 2

	m := ComputeCoreMetrics([]contracts.Statement{a, b})
	assert.Equal(t, "10000.5", m.TotalRevenue.String())
	assert.Equal(t, 2, m.TotalStatements)
	assert.Equal(t, 5, m.TotalUnits)
	assert.Equal(t, 4, m.TotalItems)
	assert.Equal(t, 5000.3, m.AverageAmount)
	assert.Equal(t, 2.5, m.AverageUnits)
	assert.Equal(t, 1, m.RemakeCount)
	assert.Equal(t, 25.0, m.RemakeRate)
}

func TestComputeCoreMetrics_Empty(t *testing.T) {
	m := ComputeCoreMetrics(nil)
	assert.True(t, m.TotalRevenue.IsZero())
	assert.Zero(t, m.TotalStatements)
	assert.Zero(t, m.AverageAmount)
	assert.Zero(t, m.AverageUnits)
	assert.Zero(t, m.RemakeRate)
}

func TestSplitByDirection(t *testing.T) {
	split := SplitByDirection(exampleStatements(seoul(t)))
	assert.Equal(t, 2, split.Sent.Count)
	assert.Equal(t, "15000", split.Sent.Revenue.String())
	assert.Equal(t, 1, split.Received.Count)
	assert.Equal(t, "20000", split.Received.Revenue.String())
}

func TestParseScope(t *testing.T) {
	for in, want := range map[string]Scope{"": ScopeAll, "all": ScopeAll, "sent": ScopeSent, "received": ScopeReceived} {
		got, err := ParseScope(in)
		assert.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseScope("both")
	assert.ErrorIs(t, err, ErrInvalidScope)
}
