package export

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/labtrade/internal/contracts"
)

func sampleStatements() []contracts.Statement {
	return []contracts.Statement{
		{
			ID:               "s1",
			Direction:        contracts.DirectionSent,
			CounterpartyID:   "A",
			CounterpartyName: "A치과, 본점",
			OccurredAt:       time.Date(2024, 3, 1, 1, 0, 0, 0, time.UTC),
			TotalAmount:      decimal.RequireFromString("10000.5"),
			TotalUnits:       3,
			Items:            []contracts.LineItem{{}, {IsDefect: true}},
			Notes:            "급함,\n다시 확인",
		},
		{
			ID:               "s2",
			Direction:        contracts.DirectionReceived,
			CounterpartyID:   "B",
			CounterpartyName: "B치과",
			OccurredAt:       time.Date(2024, 3, 2, 1, 0, 0, 0, time.UTC),
			TotalAmount:      decimal.NewFromInt(20000),
			Items:            []contracts.LineItem{},
		},
	}
}

func sampleCore() contracts.CoreMetrics {
	return contracts.CoreMetrics{TotalStatements: 2, TotalRevenue: decimal.RequireFromString("30000.5"), TotalUnits: 3, AverageAmount: 15000.3}
}

func TestToRows(t *testing.T) {
	labels, err := LabelsFor(LocaleKO)
	require.NoError(t, err)

	rows := ToRows(sampleStatements(), sampleCore(), labels, time.UTC)
	require.Len(t, rows, 2+5)

	assert.Equal(t, contracts.Row{
		Date:         "2024-03-01",
		Direction:    "발송",
		Counterparty: "A치과  본점",
		Items:        "2",
		Units:        "3",
		Amount:       "10000.5",
		Notes:        "급함  다시 확인",
	}, rows[0])
	assert.Equal(t, "수신", rows[1].Direction)
	assert.Equal(t, "0", rows[1].Units)

	assert.True(t, rows[2].IsBlank())
	assert.Equal(t, contracts.Row{Date: "총 건수", Direction: "2"}, rows[3])
	assert.Equal(t, contracts.Row{Date: "총 매출", Direction: "30000.5"}, rows[4])
	assert.Equal(t, contracts.Row{Date: "총 수량", Direction: "3"}, rows[5])
	assert.Equal(t, contracts.Row{Date: "평균 금액", Direction: "15000.3"}, rows[6])

	assert.False(t, IsSummary(rows[0]))
	assert.True(t, IsSummary(rows[6]))
}

func TestToRows_NoDelimiterLeaks(t *testing.T) {
	labels, _ := LabelsFor(LocaleEN)
	for _, row := range ToRows(sampleStatements(), sampleCore(), labels, time.UTC) {
		for _, cell := range row.Cells() {
			assert.NotContains(t, cell, ",")
			assert.NotContains(t, cell, "\n")
		}
	}
}

func TestToRows_Empty(t *testing.T) {
	labels, _ := LabelsFor(LocaleEN)
	rows := ToRows(nil, contracts.CoreMetrics{}, labels, nil)
	require.Len(t, rows, 5)
	assert.Equal(t, contracts.Row{Date: "Total statements", Direction: "0"}, rows[1])
	assert.Equal(t, contracts.Row{Date: "Average amount", Direction: "0"}, rows[4])
}

func TestToRows_UsesLocation(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Seoul")
	require.NoError(t, err)
	labels, _ := LabelsFor(LocaleEN)

	s := sampleStatements()[:1]
	s[0].OccurredAt = time.Date(2024, 2, 29, 16, 0, 0, 0, time.UTC)

	rows := ToRows(s, contracts.CoreMetrics{}, labels, loc)
	assert.Equal(t, "2024-03-01", rows[0].Date)
	assert.Equal(t, "Sent", rows[0].Direction)
}

func TestLabelsFor(t *testing.T) {
	l, err := LabelsFor("")
	require.NoError(t, err)
	assert.Equal(t, "발송", l.Sent)

	_, err = LabelsFor("jp")
	assert.ErrorIs(t, err, ErrUnknownLocale)
}
