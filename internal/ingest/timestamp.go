package ingest

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// timestampFields 시각 필드 탐색 순서
var timestampFields = []string{"issuedAt", "createdAt", "date", "updatedAt"}

// epochMillisThreshold 이 값 이상의 숫자는 밀리초 epoch로 해석 (1973년 이후 초 단위와 구분)
const epochMillisThreshold = 1e11

// maxEpochSeconds 9999-12-31T23:59:59Z, 이보다 큰 epoch는 해석 불가로 취급
const maxEpochSeconds = 253402300799

// stringLayouts 문자열 시각 포맷 (순서대로 시도)
var stringLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ResolveInstant 원시 문서에서 발생 시각을 찾는다
// ⭐ SSOT: 타임스탬프 형태 판별은 이 함수에서만
//
// 필드 순서: issuedAt → createdAt → date → updatedAt.
// 값 형태: 플랫폼 타임스탬프 객체 → time.Time → epoch 숫자 → 문자열.
// 해석 불가 시 ok=false (현재 시각이나 epoch 0으로 대체하지 않음).
func ResolveInstant(raw RawRecord, loc *time.Location) (time.Time, bool) {
	if loc == nil {
		loc = time.UTC
	}
	for _, field := range timestampFields {
		v, exists := raw[field]
		if !exists || v == nil {
			continue
		}
		if t, ok := parseInstant(v, loc); ok {
			return t, true
		}
	}
	return time.Time{}, false
}

func parseInstant(v interface{}, loc *time.Location) (time.Time, bool) {
	switch val := v.(type) {
	case map[string]interface{}:
		return parsePlatformTimestamp(val)
	case time.Time:
		if val.IsZero() {
			return time.Time{}, false
		}
		return val, true
	case *time.Time:
		if val == nil || val.IsZero() {
			return time.Time{}, false
		}
		return *val, true
	case float64:
		return fromEpoch(val)
	case int:
		return fromEpoch(float64(val))
	case int64:
		return fromEpoch(float64(val))
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return time.Time{}, false
		}
		return fromEpoch(f)
	case string:
		return parseTimeString(val, loc)
	default:
		return time.Time{}, false
	}
}

// parsePlatformTimestamp {seconds, nanoseconds} 또는 {_seconds, _nanoseconds}
func parsePlatformTimestamp(m map[string]interface{}) (time.Time, bool) {
	secRaw, ok := m["seconds"]
	if !ok {
		secRaw, ok = m["_seconds"]
	}
	if !ok {
		return time.Time{}, false
	}
	sec, ok := toFloat(secRaw)
	if !ok || sec <= 0 || sec > maxEpochSeconds {
		return time.Time{}, false
	}

	nanoRaw, ok := m["nanoseconds"]
	if !ok {
		nanoRaw = m["_nanoseconds"]
	}
	nanos, _ := toFloat(nanoRaw)

	return time.Unix(int64(sec), int64(nanos)).UTC(), true
}

func fromEpoch(f float64) (time.Time, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f <= 0 {
		return time.Time{}, false
	}
	if f >= epochMillisThreshold {
		if f > maxEpochSeconds*1000 {
			return time.Time{}, false
		}
		return time.UnixMilli(int64(f)).UTC(), true
	}
	return time.Unix(int64(f), 0).UTC(), true
}

func parseTimeString(s string, loc *time.Location) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	// 숫자 문자열은 epoch
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return fromEpoch(f)
	}

	for _, layout := range stringLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
