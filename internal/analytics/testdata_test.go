package analytics

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/wonny/labtrade/internal/contracts"
)

func seoul(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Seoul")
	require.NoError(t, err)
	return loc
}

func day(loc *time.Location, y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 10, 0, 0, 0, loc)
}

func stmt(id string, at time.Time, amount int64, dir contracts.Direction, partner string) contracts.Statement {
	return contracts.Statement{
		ID:               id,
		Direction:        dir,
		CounterpartyID:   partner,
		CounterpartyName: partner + "치과",
		OccurredAt:       at,
		TotalAmount:      decimal.NewFromInt(amount),
		Items:            []contracts.LineItem{},
	}
}

func rangeOf(loc *time.Location, from, to string) contracts.DateRange {
	start, _ := time.ParseInLocation("2006-01-02", from, loc)
	end, _ := time.ParseInLocation("2006-01-02", to, loc)
	return contracts.DateRange{Start: start, End: end.Add(24*time.Hour - time.Nanosecond)}
}

// exampleStatements 3월 2건 (A 발송 10000, B 수신 20000), 4월 1건 (A 발송 5000)
func exampleStatements(loc *time.Location) []contracts.Statement {
	return []contracts.Statement{
		stmt("s1", day(loc, 2024, 3, 1), 10000, contracts.DirectionSent, "A"),
		stmt("s2", day(loc, 2024, 3, 1), 20000, contracts.DirectionReceived, "B"),
		stmt("s3", day(loc, 2024, 4, 1), 5000, contracts.DirectionSent, "A"),
	}
}
