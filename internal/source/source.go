package source

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/wonny/labtrade/internal/ingest"
)

// ErrUpstream is returned when the document store answers with a non-2xx status.
var ErrUpstream = errors.New("source: upstream error")

// Source 원본 명세서 목록 공급자
// 엔진은 이미 가져온 목록만 받으므로 조회/캐시는 여기서 담당
type Source interface {
	Fetch(ctx context.Context, ownerID string) ([]ingest.RawRecord, error)
}

// FileSource JSON 배열 파일
type FileSource struct {
	path string
}

// NewFileSource creates a file-backed source
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Fetch reads the whole file (소유자 필터링은 정규화 단계에서)
func (s *FileSource) Fetch(ctx context.Context, ownerID string) ([]ingest.RawRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read record file: %w", err)
	}
	return ingest.DecodeRecords(data)
}
