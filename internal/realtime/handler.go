package realtime

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/wonny/labtrade/pkg/logger"
)

// Handler upgrades /ws/analytics requests into sessions
type Handler struct {
	engine       Engine
	defaultOwner string
	opts         Options
	upgrader     websocket.Upgrader
	logger       *logger.Logger
}

// NewHandler creates a websocket handler
func NewHandler(engine Engine, defaultOwner string, opts Options, log *logger.Logger) *Handler {
	return &Handler{
		engine:       engine,
		defaultOwner: defaultOwner,
		opts:         opts,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 16 * 1024,
		},
		logger: log,
	}
}

// ServeHTTP GET /ws/analytics?owner=
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	owner := r.URL.Query().Get("owner")
	if owner == "" {
		owner = h.defaultOwner
	}
	if owner == "" {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "owner is required"})
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade가 이미 에러 응답을 씀
		h.logger.WithError(err).Warn("Websocket upgrade failed")
		return
	}

	NewSession(conn, h.engine, owner, h.opts, h.logger).Run(r.Context())
}
