package ingest

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/wonny/labtrade/internal/contracts"
)

var (
	// ErrMissingOwner is returned when the normalizer has no owning party id.
	ErrMissingOwner = errors.New("ingest: missing owner id")
	// ErrNotAList is returned when the raw payload is not a JSON array.
	ErrNotAList = errors.New("ingest: records payload is not a list")
)

// RawRecord 문서 저장소에서 가져온 원시 명세서 문서
type RawRecord map[string]interface{}

// StringField returns a string or numeric field as trimmed text ("" when absent)
func (r RawRecord) StringField(key string) string {
	return stringField(r, key)
}

// Exclusion 정규화 제외 사유
type Exclusion string

const (
	ExclusionNone      Exclusion = ""
	ExclusionTimestamp Exclusion = "timestamp" // 유효한 시각 없음
	ExclusionOwner     Exclusion = "owner"     // 소유자와 무관한 문서
	ExclusionShape     Exclusion = "shape"     // 객체가 아닌 원소
)

// Report 정규화 결과 요약
type Report struct {
	Total    int               `json:"total"`
	Accepted int               `json:"accepted"`
	Excluded map[Exclusion]int `json:"excluded"`
}

// ExcludedCount returns the number of excluded records across all reasons
func (r Report) ExcludedCount() int {
	n := 0
	for _, c := range r.Excluded {
		n += c
	}
	return n
}

// Normalizer implements RecordNormalizer
// ⭐ SSOT: 원시 문서 → Statement 변환은 여기서만
type Normalizer struct {
	ownerID  string
	location *time.Location
	log      zerolog.Logger
}

// NewNormalizer 새 정규화기 생성
func NewNormalizer(ownerID string, loc *time.Location, log zerolog.Logger) (*Normalizer, error) {
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return nil, ErrMissingOwner
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Normalizer{
		ownerID:  ownerID,
		location: loc,
		log:      log.With().Str("component", "ingest.normalizer").Logger(),
	}, nil
}

// Normalize 원시 문서 하나를 정규화 (제외 시 Exclusion 반환, 절대 panic 하지 않음)
func (n *Normalizer) Normalize(raw RawRecord) (contracts.Statement, Exclusion) {
	if raw == nil {
		return contracts.Statement{}, ExclusionShape
	}

	// 1. 방향 판별 (발행자 우선)
	fromID := stringField(raw, "fromId")
	toID := stringField(raw, "toId")

	var stmt contracts.Statement
	switch {
	case fromID == n.ownerID:
		stmt.Direction = contracts.DirectionSent
		stmt.CounterpartyID = toID
		stmt.CounterpartyName = stringField(raw, "toName")
	case toID == n.ownerID:
		stmt.Direction = contracts.DirectionReceived
		stmt.CounterpartyID = fromID
		stmt.CounterpartyName = stringField(raw, "fromName")
	default:
		return contracts.Statement{}, ExclusionOwner
	}

	// 2. 발생 시각
	occurredAt, ok := ResolveInstant(raw, n.location)
	if !ok {
		return contracts.Statement{}, ExclusionTimestamp
	}
	stmt.OccurredAt = occurredAt

	// 3. 나머지 필드 (parse or zero)
	stmt.ID = stringField(raw, "id")
	if stmt.CounterpartyName == "" {
		stmt.CounterpartyName = contracts.UnspecifiedPartner
	}
	stmt.TotalAmount = amountField(raw["totalAmount"])
	stmt.TotalUnits = unitsField(raw, "totalUnits", "totalTeeth")
	stmt.Items = itemsField(raw["items"])
	stmt.Notes = stringField(raw, "notes")
	if stmt.Notes == "" {
		stmt.Notes = stringField(raw, "memo")
	}

	return stmt, ExclusionNone
}

// NormalizeAll 문서 목록 정규화 (입력 순서 유지)
func (n *Normalizer) NormalizeAll(raws []RawRecord) ([]contracts.Statement, Report) {
	report := Report{
		Total:    len(raws),
		Excluded: make(map[Exclusion]int),
	}
	statements := make([]contracts.Statement, 0, len(raws))

	for _, raw := range raws {
		stmt, exclusion := n.Normalize(raw)
		if exclusion != ExclusionNone {
			report.Excluded[exclusion]++
			continue
		}
		statements = append(statements, stmt)
	}
	report.Accepted = len(statements)

	if excluded := report.ExcludedCount(); excluded > 0 {
		n.log.Debug().
			Int("total", report.Total).
			Int("excluded", excluded).
			Int("excluded_timestamp", report.Excluded[ExclusionTimestamp]).
			Int("excluded_owner", report.Excluded[ExclusionOwner]).
			Int("excluded_shape", report.Excluded[ExclusionShape]).
			Msg("records excluded during normalization")
	}

	return statements, report
}

// DecodeRecords 파이프라인 원시 입력 디코딩
// 최상위 값이 배열이 아니면 호출자 버그이므로 ErrNotAList
func DecodeRecords(data []byte) ([]RawRecord, error) {
	var elements []json.RawMessage
	if err := json.Unmarshal(data, &elements); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotAList, err)
	}
	if elements == nil {
		// JSON null
		return nil, ErrNotAList
	}

	records := make([]RawRecord, 0, len(elements))
	for _, el := range elements {
		var rec RawRecord
		dec := json.NewDecoder(strings.NewReader(string(el)))
		dec.UseNumber()
		if err := dec.Decode(&rec); err != nil {
			// 객체가 아닌 원소는 nil로 남겨 Normalize에서 shape 제외
			records = append(records, nil)
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// =============================================================================
// Field coercion helpers
// =============================================================================

func stringField(raw RawRecord, key string) string {
	switch v := raw[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	default:
		return ""
	}
}

// amountField 금액: 파싱 실패/음수/NaN → 0
func amountField(v interface{}) decimal.Decimal {
	var d decimal.Decimal
	switch val := v.(type) {
	case json.Number:
		parsed, err := decimal.NewFromString(val.String())
		if err != nil {
			return decimal.Zero
		}
		d = parsed
	case float64:
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return decimal.Zero
		}
		d = decimal.NewFromFloat(val)
	case int:
		d = decimal.NewFromInt(int64(val))
	case int64:
		d = decimal.NewFromInt(val)
	case string:
		parsed, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(val), ",", ""))
		if err != nil {
			return decimal.Zero
		}
		d = parsed
	case decimal.Decimal:
		d = val
	default:
		return decimal.Zero
	}

	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// maxUnits 단위 수량 상한, 초과 값은 파싱 실패로 취급
const maxUnits = math.MaxInt32

// unitsField 정수 단위 수량: 첫 번째로 존재하는 키 사용, 실패/음수/상한 초과 → 0
func unitsField(raw RawRecord, keys ...string) int {
	for _, key := range keys {
		v, exists := raw[key]
		if !exists || v == nil {
			continue
		}
		f, ok := toFloat(v)
		if !ok || f < 0 || f > maxUnits {
			return 0
		}
		return int(f)
	}
	return 0
}

func itemsField(v interface{}) []contracts.LineItem {
	list, ok := v.([]interface{})
	if !ok {
		return []contracts.LineItem{}
	}

	items := make([]contracts.LineItem, 0, len(list))
	for _, el := range list {
		m, ok := el.(map[string]interface{})
		if !ok {
			continue
		}
		rec := RawRecord(m)

		item := contracts.LineItem{IsDefect: boolField(rec, "isDefect", "isRemake")}
		if item.IsDefect {
			item.DefectReason = stringField(rec, "defectReason")
			if item.DefectReason == "" {
				item.DefectReason = stringField(rec, "remakeReason")
			}
		}
		items = append(items, item)
	}
	return items
}

func boolField(raw RawRecord, keys ...string) bool {
	for _, key := range keys {
		switch v := raw[key].(type) {
		case bool:
			return v
		case string:
			b, err := strconv.ParseBool(strings.TrimSpace(v))
			if err == nil {
				return b
			}
		}
	}
	return false
}

func toFloat(v interface{}) (float64, bool) {
	switch val := v.(type) {
	case float64:
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return 0, false
		}
		return val, true
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	case json.Number:
		f, err := val.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(val), ",", ""), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
