package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	stdhttp "net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"roomcast/internal/config"
	"roomcast/internal/core"
	"roomcast/internal/proto"
)

// wsConn adapts one accepted WebSocket to core.Conn. The write timeout bounds
// each delivery attempt so a blocked peer cannot stall a broadcast forever.
type wsConn struct {
	id      string
	conn    *websocket.Conn
	timeout time.Duration
}

func (c *wsConn) ID() string { return c.id }

func (c *wsConn) Send(ctx context.Context, data []byte) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	return c.conn.Write(ctx, websocket.MessageText, data)
}

// WSHandler upgrades HTTP connections and runs one relay session per socket.
type WSHandler struct {
	reg              *core.Registry
	bcast            *core.Broadcaster
	log              *zerolog.Logger
	sendTimeout      time.Duration
	inboundPerMinute int
}

// NewWSHandler builds a new WebSocket handler.
func NewWSHandler(reg *core.Registry, bcast *core.Broadcaster, cfg config.Config, logger *zerolog.Logger) stdhttp.Handler {
	return &WSHandler{
		reg:              reg,
		bcast:            bcast,
		log:              logger,
		sendTimeout:      cfg.SendTimeout,
		inboundPerMinute: cfg.InboundPerMinute,
	}
}

func (h *WSHandler) ServeHTTP(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		h.log.Error().Err(err).Msg("ws accept error")
		return
	}
	defer conn.Close(websocket.StatusInternalError, "internal error")

	wc := &wsConn{id: uuid.NewString(), conn: conn, timeout: h.sendTimeout}
	session := core.NewSession(wc, h.reg, h.bcast, h.log)
	h.log.Debug().Str("conn_id", wc.id).Str("remote", r.RemoteAddr).Msg("ws connected")

	err = h.readLoop(r.Context(), conn, session)

	// Cleanup must not ride on the request context: once the peer hangs up
	// that context is gone, but the departure notice still has to reach the
	// remaining members.
	cleanupCtx, cancel := context.WithTimeout(context.Background(), h.sendTimeout)
	defer cancel()
	session.Close(cleanupCtx)

	status := websocket.StatusNormalClosure
	reason := "closing"
	if err != nil && !errors.Is(err, context.Canceled) {
		if errors.Is(err, io.EOF) {
			err = nil
		}
		if s := websocket.CloseStatus(err); s != -1 {
			status = s
		}
		if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
			err = nil
		}
		if err != nil {
			if status == websocket.StatusNormalClosure {
				status = websocket.StatusInternalError
			}
			reason = err.Error()
			h.log.Warn().Err(err).Str("conn_id", wc.id).Msg("ws connection closed with error")
		}
	}

	conn.Close(status, reason)
}

// readLoop pumps inbound frames into the session until the peer disconnects
// or an unrecoverable failure occurs. A panic inside frame handling becomes a
// best-effort error reply followed by the normal session teardown.
func (h *WSHandler) readLoop(ctx context.Context, conn *websocket.Conn, session *core.Session) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			h.log.Error().Interface("panic", rec).Msg("session failure")
			h.replyServerError(conn, rec)
			err = fmt.Errorf("session failure: %v", rec)
		}
	}()

	limiter := newRateLimiter(h.inboundPerMinute)
	stop := make(chan struct{})
	defer close(stop)
	limiter.startReset(stop)

	for {
		typ, data, readErr := conn.Read(ctx)
		if readErr != nil {
			return readErr
		}
		if typ != websocket.MessageText {
			continue
		}
		if !limiter.allow() {
			h.log.Debug().Msg("inbound frame dropped by rate limit")
			continue
		}
		session.Handle(ctx, data)
	}
}

func (h *WSHandler) replyServerError(conn *websocket.Conn, rec any) {
	payload, err := json.Marshal(proto.Error(fmt.Sprintf("Server error: %v", rec)))
	if err != nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), h.sendTimeout)
	defer cancel()
	_ = conn.Write(ctx, websocket.MessageText, payload)
}
