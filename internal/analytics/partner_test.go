package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/labtrade/internal/contracts"
)

func withItems(s contracts.Statement, total, defects int) contracts.Statement {
	s.Items = make([]contracts.LineItem, total)
	for i := 0; i < defects; i++ {
		s.Items[i].IsDefect = true
	}
	return s
}

func TestAggregate_ExampleRanking(t *testing.T) {
	loc := seoul(t)
	rollups := Aggregate(exampleStatements(loc), ScopeAll)

	require.Len(t, rollups, 2)
	assert.Equal(t, "B", rollups[0].PartnerID)
	assert.Equal(t, "20000", rollups[0].Revenue.String())
	assert.Equal(t, 1, rollups[0].Count)
	assert.Equal(t, "A", rollups[1].PartnerID)
	assert.Equal(t, "15000", rollups[1].Revenue.String())
	assert.Equal(t, 2, rollups[1].Count)
}

func TestAggregate_StableTies(t *testing.T) {
	loc := seoul(t)
	statements := []contracts.Statement{
		stmt("1", day(loc, 2024, 3, 1), 500, contracts.DirectionSent, "C"),
		stmt("2", day(loc, 2024, 3, 1), 500, contracts.DirectionSent, "A"),
		stmt("3", day(loc, 2024, 3, 1), 500, contracts.DirectionSent, "B"),
	}

	for i := 0; i < 20; i++ {
		rollups := Aggregate(statements, ScopeAll)
		require.Len(t, rollups, 3)
		assert.Equal(t, []string{"C", "A", "B"}, []string{rollups[0].PartnerID, rollups[1].PartnerID, rollups[2].PartnerID})
	}
}

func TestAggregate_SkipsMissingPartnerAndFillsName(t *testing.T) {
	loc := seoul(t)
	noID := stmt("x", day(loc, 2024, 3, 1), 999, contracts.DirectionSent, "")
	first := stmt("1", day(loc, 2024, 3, 1), 100, contracts.DirectionSent, "A")
	first.CounterpartyName = contracts.UnspecifiedPartner
	second := stmt("2", day(loc, 2024, 3, 2), 100, contracts.DirectionSent, "A")

	rollups := Aggregate([]contracts.Statement{noID, first, second}, ScopeAll)
	require.Len(t, rollups, 1)
	assert.Equal(t, "A치과", rollups[0].PartnerName)
	assert.Equal(t, "200", rollups[0].Revenue.String())
}

func TestAggregate_DefectRate(t *testing.T) {
	loc := seoul(t)
	statements := []contracts.Statement{
		withItems(stmt("1", day(loc, 2024, 3, 1), 100, contracts.DirectionSent, "A"), 3, 1),
		stmt("2", day(loc, 2024, 3, 1), 50, contracts.DirectionSent, "B"),
	}

	rollups := Aggregate(statements, ScopeAll)
	require.Len(t, rollups, 2)
	assert.Equal(t, 3, rollups[0].Items)
	assert.Equal(t, 1, rollups[0].DefectCount)
	assert.Equal(t, 33.3, rollups[0].DefectRate)
	assert.Equal(t, 0.0, rollups[1].DefectRate)
}

func TestAggregate_Scope(t *testing.T) {
	loc := seoul(t)
	pool := exampleStatements(loc)

	sent := Aggregate(pool, ScopeSent)
	require.Len(t, sent, 1)
	assert.Equal(t, "A", sent[0].PartnerID)

	received := Aggregate(pool, ScopeReceived)
	require.Len(t, received, 1)
	assert.Equal(t, "B", received[0].PartnerID)
}

func TestTop(t *testing.T) {
	rollups := make([]contracts.PartnerRollup, 12)
	assert.Len(t, Top(rollups, DefaultTopN), DefaultTopN)
	assert.Len(t, Top(rollups[:3], DefaultTopN), 3)
	assert.Empty(t, Top(nil, DefaultTopN))
}

func TestDefectRateRanking_MinimumSample(t *testing.T) {
	rollups := []contracts.PartnerRollup{
		{PartnerID: "small", Items: 4, DefectCount: 4, DefectRate: 100},
		{PartnerID: "low", Items: 10, DefectCount: 1, DefectRate: 10},
		{PartnerID: "high", Items: 5, DefectCount: 2, DefectRate: 40},
		{PartnerID: "tie", Items: 20, DefectCount: 8, DefectRate: 40},
	}

	ranking := DefectRateRanking(rollups, DefaultMinDefectSample, DefaultDefectRateTopN)
	require.Len(t, ranking, 3)
	assert.Equal(t, "high", ranking[0].PartnerID)
	assert.Equal(t, "tie", ranking[1].PartnerID)
	assert.Equal(t, "low", ranking[2].PartnerID)
	for _, r := range ranking {
		assert.NotEqual(t, "small", r.PartnerID)
	}
}
