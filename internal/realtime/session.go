package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/wonny/labtrade/internal/ingest"
	"github.com/wonny/labtrade/internal/report"
	"github.com/wonny/labtrade/pkg/logger"
	"github.com/wonny/labtrade/pkg/redis"
)

const (
	// DefaultDebounce 마지막 필터 변경 후 재계산까지 대기 시간
	DefaultDebounce = 250 * time.Millisecond

	pingInterval   = 30 * time.Second
	pongWait       = 60 * time.Second
	writeWait      = 10 * time.Second
	maxMessageSize = 64 * 1024
)

// ErrRateLimited is sent to the client when recomputes are throttled.
var ErrRateLimited = errors.New("realtime: recompute rate limit exceeded")

// Options 세션 옵션
type Options struct {
	Debounce time.Duration
	Limiter  *redis.RateLimiter // nil이면 제한 없음
	Limit    int
	Window   time.Duration
	Now      func() time.Time
}

func (o Options) withDefaults() Options {
	if o.Debounce <= 0 {
		o.Debounce = DefaultDebounce
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// Session 필터 변경 시 스냅샷을 재계산하는 웹소켓 세션
// ⭐ SSOT: 원본은 세션당 한 번만 조회, 재계산은 직렬화 (마지막 필터 우선)
type Session struct {
	id      string
	ownerID string
	conn    *websocket.Conn
	engine  Engine
	opts    Options
	logger  *logger.Logger

	writeMu sync.Mutex
	filters chan report.FilterRequest

	raws []ingest.RawRecord
	seq  int
}

// NewSession creates a session over an upgraded connection
func NewSession(conn *websocket.Conn, engine Engine, ownerID string, opts Options, log *logger.Logger) *Session {
	id := uuid.NewString()
	return &Session{
		id:      id,
		ownerID: ownerID,
		conn:    conn,
		engine:  engine,
		opts:    opts.withDefaults(),
		logger:  log.WithComponent("realtime.session").WithField("session", id),
		filters: make(chan report.FilterRequest, 16),
	}
}

// ID returns the session id
func (s *Session) ID() string {
	return s.id
}

// Run serves the session until the client disconnects or ctx is cancelled
func (s *Session) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer s.conn.Close()

	s.logger.WithField("owner", s.ownerID).Info("Realtime session opened")

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		s.debounceLoop(ctx)
	}()
	go func() {
		defer wg.Done()
		s.pingLoop(ctx)
	}()

	// 서버 종료 시 블로킹된 ReadMessage 해제
	go func() {
		<-ctx.Done()
		s.conn.Close()
	}()

	s.readLoop(ctx)
	cancel()
	wg.Wait()

	s.logger.WithField("recomputes", s.seq).Info("Realtime session closed")
}

// readLoop 클라이언트 필터 메시지 수신
func (s *Session) readLoop(ctx context.Context) {
	s.conn.SetReadLimit(maxMessageSize)
	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		s.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.WithError(err).Warn("Realtime read failed")
			}
			return
		}

		var f report.FilterRequest
		if err := json.Unmarshal(data, &f); err != nil {
			s.send(Message{Type: MessageError, Error: fmt.Sprintf("invalid filter message: %v", err)})
			continue
		}

		select {
		case s.filters <- f:
		case <-ctx.Done():
			return
		}
	}
}

// debounceLoop 마지막 필터만 Debounce 후 재계산
func (s *Session) debounceLoop(ctx context.Context) {
	timer := time.NewTimer(s.opts.Debounce)
	timer.Stop()
	defer timer.Stop()

	var pending report.FilterRequest
	for {
		select {
		case <-ctx.Done():
			return
		case f := <-s.filters:
			pending = f
			timer.Reset(s.opts.Debounce)
		case <-timer.C:
			s.recompute(ctx, pending)
		}
	}
}

func (s *Session) recompute(ctx context.Context, f report.FilterRequest) {
	if !s.allow(ctx) {
		s.send(Message{Type: MessageError, Error: ErrRateLimited.Error()})
		return
	}

	q, err := f.ToQuery(s.engine.Location(), s.opts.Now())
	if err != nil {
		s.send(Message{Type: MessageError, Error: err.Error()})
		return
	}

	if s.raws == nil {
		raws, err := s.engine.Fetch(ctx, s.ownerID)
		if err != nil {
			s.logger.WithError(err).Error("Failed to fetch records")
			s.send(Message{Type: MessageError, Error: "failed to fetch records"})
			return
		}
		if raws == nil {
			raws = []ingest.RawRecord{}
		}
		s.raws = raws
	}

	res, err := s.engine.Compute(s.raws, s.ownerID, q)
	if err != nil {
		s.send(Message{Type: MessageError, Error: err.Error()})
		return
	}

	s.seq++
	s.send(Message{Type: MessageSnapshot, Seq: s.seq, Data: res})
}

func (s *Session) allow(ctx context.Context) bool {
	if s.opts.Limiter == nil || s.opts.Limit <= 0 {
		return true
	}
	allowed, _, err := s.opts.Limiter.Allow(ctx, redis.RateLimitConfig{
		Key:    "ws:" + s.id,
		Limit:  s.opts.Limit,
		Window: s.opts.Window,
	})
	if err != nil {
		// Redis 장애 시 허용
		s.logger.WithError(err).Warn("Rate limit check failed")
		return true
	}
	return allowed
}

// pingLoop keep-alive
func (s *Session) pingLoop(ctx context.Context) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.writeMu.Lock()
			err := s.conn.WriteControl(websocket.PingMessage, []byte{}, time.Now().Add(writeWait))
			s.writeMu.Unlock()
			if err != nil {
				s.logger.WithError(err).Debug("Failed to send ping")
				return
			}
		}
	}
}

func (s *Session) send(msg Message) {
	msg.Session = s.id

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := s.conn.WriteJSON(msg); err != nil {
		s.logger.WithError(err).Debug("Failed to write message")
	}
}
