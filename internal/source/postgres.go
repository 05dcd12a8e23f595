package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/labtrade/internal/ingest"
)

// PostgresSource lab.statements JSONB 문서
type PostgresSource struct {
	pool *pgxpool.Pool
}

// NewPostgresSource creates a new PostgreSQL-backed source
func NewPostgresSource(pool *pgxpool.Pool) *PostgresSource {
	return &PostgresSource{pool: pool}
}

// Fetch 소유자가 발행자 또는 수신자인 문서
func (s *PostgresSource) Fetch(ctx context.Context, ownerID string) ([]ingest.RawRecord, error) {
	query := `
		SELECT doc
		FROM lab.statements
		WHERE from_id = $1 OR to_id = $1
		ORDER BY id
	`

	rows, err := s.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("query statements: %w", err)
	}
	defer rows.Close()

	records := make([]ingest.RawRecord, 0)
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("scan statement: %w", err)
		}
		records = append(records, decodeDocument(doc))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate statements: %w", err)
	}

	return records, nil
}

// ErrMissingID is returned when a document to insert carries no id
var ErrMissingID = errors.New("source: statement document has no id")

// documentKeys 색인 컬럼 추출 (숫자 id도 정규화와 같은 방식으로 문자열화)
func documentKeys(doc ingest.RawRecord) (id, fromID, toID string, err error) {
	id = doc.StringField("id")
	if id == "" {
		return "", "", "", ErrMissingID
	}
	return id, doc.StringField("fromId"), doc.StringField("toId"), nil
}

// Insert 문서 저장 (id/fromId/toId는 문서에서 추출, 같은 id는 덮어씀)
func (s *PostgresSource) Insert(ctx context.Context, doc ingest.RawRecord) error {
	id, fromID, toID, err := documentKeys(doc)
	if err != nil {
		return fmt.Errorf("insert statement: %w", err)
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal statement: %w", err)
	}

	query := `
		INSERT INTO lab.statements (id, from_id, to_id, doc)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			from_id = EXCLUDED.from_id,
			to_id = EXCLUDED.to_id,
			doc = EXCLUDED.doc
	`
	if _, err := s.pool.Exec(ctx, query, id, fromID, toID, data); err != nil {
		return fmt.Errorf("insert statement %s: %w", id, err)
	}
	return nil
}

// decodeDocument JSONB → RawRecord (숫자는 json.Number 유지)
// 객체가 아니면 nil (정규화에서 shape 제외)
func decodeDocument(doc []byte) ingest.RawRecord {
	var rec ingest.RawRecord
	dec := json.NewDecoder(strings.NewReader(string(doc)))
	dec.UseNumber()
	if err := dec.Decode(&rec); err != nil {
		return nil
	}
	return rec
}
