package analytics

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/wonny/labtrade/internal/contracts"
)

// 버킷 키 포맷 (모두 사전순 = 날짜순)
const (
	dayLayout   = "2006-01-02"
	monthLayout = "2006-01"
	yearLayout  = "2006"
)

// Bucketer implements PeriodBucketer
// 주 시작 요일은 일요일 고정
type Bucketer struct {
	location *time.Location
}

// NewBucketer 새 버킷터 생성 (loc == nil 이면 UTC)
func NewBucketer(loc *time.Location) *Bucketer {
	if loc == nil {
		loc = time.UTC
	}
	return &Bucketer{location: loc}
}

// Key 발생 시각의 현지 달력 날짜로 버킷 키 계산
func (b *Bucketer) Key(t time.Time, g contracts.Granularity) (string, error) {
	local := t.In(b.location)
	day := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, b.location)

	switch g {
	case contracts.GranularityDay:
		return day.Format(dayLayout), nil
	case contracts.GranularityWeek:
		sunday := day.AddDate(0, 0, -int(day.Weekday()))
		return sunday.Format(dayLayout), nil
	case contracts.GranularityMonth:
		return day.Format(monthLayout), nil
	case contracts.GranularityYear:
		return day.Format(yearLayout), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidGranularity, g)
	}
}

type bucketAcc struct {
	revenue decimal.Decimal
	count   int
	units   int
}

// Bucket 작업 집합을 기간 버킷으로 접는다
// 빈 버킷은 만들지 않음 (희소 시계열), 키 오름차순 정렬
func (b *Bucketer) Bucket(statements []contracts.Statement, g contracts.Granularity) ([]contracts.PeriodPoint, error) {
	if !g.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidGranularity, g)
	}

	buckets := make(map[string]*bucketAcc)
	for _, s := range statements {
		key, err := b.Key(s.OccurredAt, g)
		if err != nil {
			return nil, err
		}
		acc, ok := buckets[key]
		if !ok {
			acc = &bucketAcc{revenue: decimal.Zero}
			buckets[key] = acc
		}
		acc.revenue = acc.revenue.Add(s.TotalAmount)
		acc.count++
		acc.units += s.TotalUnits
	}

	keys := make([]string, 0, len(buckets))
	for key := range buckets {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	series := make([]contracts.PeriodPoint, 0, len(keys))
	for _, key := range keys {
		acc := buckets[key]
		series = append(series, contracts.PeriodPoint{
			Period:  key,
			Revenue: acc.revenue,
			Count:   acc.count,
			Units:   acc.units,
		})
	}
	return series, nil
}
