package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/wonny/labtrade/internal/ingest"
	"github.com/wonny/labtrade/pkg/httputil"
)

// maxPayloadBytes 응답 본문 상한
const maxPayloadBytes = 64 << 20

// DocStoreSource 문서 저장소 HTTP API
// GET {base}/owners/{owner}/statements → JSON 배열
type DocStoreSource struct {
	client  *httputil.Client
	baseURL string
}

// NewDocStoreSource creates a document store source
func NewDocStoreSource(client *httputil.Client, baseURL string) *DocStoreSource {
	return &DocStoreSource{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Fetch 소유자 명세서 목록 조회
func (s *DocStoreSource) Fetch(ctx context.Context, ownerID string) ([]ingest.RawRecord, error) {
	endpoint := fmt.Sprintf("%s/owners/%s/statements", s.baseURL, url.PathEscape(ownerID))

	resp, err := s.client.Get(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("fetch statements: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxPayloadBytes))
	if err != nil {
		return nil, fmt.Errorf("read statements body: %w", err)
	}
	return ingest.DecodeRecords(data)
}
