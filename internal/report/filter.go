package report

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/wonny/labtrade/internal/analytics"
	"github.com/wonny/labtrade/internal/contracts"
)

// ErrInvalidDate is returned when a filter date is not YYYY-MM-DD.
var ErrInvalidDate = errors.New("report: invalid date (expected YYYY-MM-DD)")

const dateLayout = "2006-01-02"

// FilterRequest 클라이언트 필터 (쿼리 파라미터, 웹소켓 메시지 공용)
type FilterRequest struct {
	Start       string `json:"start"`
	End         string `json:"end"`
	Partner     string `json:"partner"`
	Granularity string `json:"granularity"`
	Scope       string `json:"scope"`
}

// ToQuery converts the filter into an engine query.
// 날짜는 loc 기준, end는 그날 23:59:59.999999999까지 포함.
// start/end 둘 다 비어 있으면 now가 속한 달의 1일부터 오늘 끝까지.
func (f FilterRequest) ToQuery(loc *time.Location, now time.Time) (analytics.Query, error) {
	if loc == nil {
		loc = time.UTC
	}

	start, end := strings.TrimSpace(f.Start), strings.TrimSpace(f.End)

	var rng contracts.DateRange
	switch {
	case start == "" && end == "":
		local := now.In(loc)
		rng.Start = time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, loc)
		rng.End = endOfDay(local, loc)
	case start == "" || end == "":
		return analytics.Query{}, fmt.Errorf("%w: start and end must be given together", contracts.ErrInvalidRange)
	default:
		s, err := time.ParseInLocation(dateLayout, start, loc)
		if err != nil {
			return analytics.Query{}, fmt.Errorf("%w: start=%q", ErrInvalidDate, start)
		}
		e, err := time.ParseInLocation(dateLayout, end, loc)
		if err != nil {
			return analytics.Query{}, fmt.Errorf("%w: end=%q", ErrInvalidDate, end)
		}
		rng.Start = s
		rng.End = endOfDay(e, loc)
	}

	scope, err := analytics.ParseScope(strings.TrimSpace(f.Scope))
	if err != nil {
		return analytics.Query{}, err
	}

	return analytics.Query{
		Range:          rng,
		CounterpartyID: strings.TrimSpace(f.Partner),
		Granularity:    contracts.Granularity(strings.TrimSpace(f.Granularity)),
		Scope:          scope,
	}, nil
}

// MonthRange 달력 월 범위 (1일 00:00 ~ 말일 끝)
func MonthRange(year int, month time.Month, loc *time.Location) contracts.DateRange {
	if loc == nil {
		loc = time.UTC
	}
	start := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	return contracts.DateRange{
		Start: start,
		End:   start.AddDate(0, 1, 0).Add(-time.Nanosecond),
	}
}

// PreviousMonth returns the calendar month before the one containing now
func PreviousMonth(now time.Time, loc *time.Location) contracts.DateRange {
	if loc == nil {
		loc = time.UTC
	}
	local := now.In(loc)
	first := time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, loc).AddDate(0, -1, 0)
	return MonthRange(first.Year(), first.Month(), loc)
}

// IsClientError reports whether err comes from bad caller input
func IsClientError(err error) bool {
	for _, target := range []error{
		contracts.ErrInvalidRange,
		ErrInvalidDate,
		analytics.ErrInvalidGranularity,
		analytics.ErrInvalidScope,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func endOfDay(t time.Time, loc *time.Location) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc).AddDate(0, 0, 1).Add(-time.Nanosecond)
}
