package realtime

import (
	"context"
	"time"

	"github.com/wonny/labtrade/internal/analytics"
	"github.com/wonny/labtrade/internal/ingest"
)

// MessageType 서버 → 클라이언트 메시지 종류
type MessageType string

const (
	MessageSnapshot MessageType = "snapshot"
	MessageError    MessageType = "error"
)

// Message 웹소켓 응답 프레임
// ⭐ SSOT: 실시간 응답 구조
type Message struct {
	Type    MessageType       `json:"type"`
	Session string            `json:"session"`
	Seq     int               `json:"seq"` // 세션 내 재계산 순번
	Data    *analytics.Result `json:"data,omitempty"`
	Error   string            `json:"error,omitempty"`
}

// Engine 세션이 사용하는 계산기 (report.Orchestrator가 구현)
type Engine interface {
	Location() *time.Location
	Fetch(ctx context.Context, ownerID string) ([]ingest.RawRecord, error)
	Compute(raws []ingest.RawRecord, ownerID string, q analytics.Query) (*analytics.Result, error)
}
