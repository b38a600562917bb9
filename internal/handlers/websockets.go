package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"todo_app/internal/ui"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// Send/receive timing configuration and message size limits.
const (
	writeWait   = 10 * time.Second
	pongWait    = 60 * time.Second
	pingPeriod  = (pongWait * 9) / 10
	maxMsgSize  = 1 << 12 // 4 KB
	stateBuffer = 8
)

// Envelope used for WebSocket messages.
type wsEnvelope struct {
	Type  string      `json:"type"`
	Data  interface{} `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
}

// Upgrader for HTTP -> WebSocket. Consider tightening CheckOrigin in production.
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// @Summary      State stream
// @Description  Upgrades to a WebSocket that sends {"type":"state","data":ViewState} on connect and after every change. Text frames carrying events are dispatched like POST /events.
// @Tags         view
// @Router       /ws [get]
func (h *Handler) wsConnect(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		if h.log != nil {
			h.log.Errorw("ws_upgrade_failed", "err", err)
		}
		return
	}
	defer func() { _ = conn.Close() }()

	// Configure read limits and pong handler to extend read deadline.
	conn.SetReadLimit(maxMsgSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	feed := ui.NewFeed(stateBuffer)
	detach := ui.Attach(feed, h.services)
	defer detach()

	// Reader goroutine to dispatch events, handle control frames and detect disconnects.
	done := make(chan struct{})
	rejected := make(chan error, 1)
	go h.startReader(conn, done, rejected)

	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	for {
		select {
		case <-done:
			return
		case <-c.Request.Context().Done():
			return
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				if h.log != nil {
					h.log.Infow("ws_ping_failed", "err", err)
				}
				return
			}
		case err := <-rejected:
			if werr := h.writeEnvelope(c.Request.Context(), conn, wsEnvelope{Type: "error", Error: err.Error()}); werr != nil {
				return
			}
		case vs := <-feed:
			if err := h.writeEnvelope(c.Request.Context(), conn, wsEnvelope{Type: "state", Data: vs}); err != nil {
				if h.log != nil {
					h.log.Infow("ws_write_failed", "err", err)
				}
				return
			}
		}
	}
}

// Helper: startReader drains incoming messages, dispatching text frames as
// events, and closes done when the peer goes away.
func (h *Handler) startReader(conn *websocket.Conn, done chan<- struct{}, rejected chan<- error) {
	defer close(done)
	for {
		kind, msg, err := conn.ReadMessage()
		if err != nil {
			if h.log != nil {
				h.log.Infow("ws_read_closed", "err", err)
			}
			return
		}
		if kind != websocket.TextMessage {
			continue
		}
		if err := h.dispatchFrame(msg); err != nil {
			select {
			case rejected <- err:
			default:
			}
		}
	}
}

// Helper: dispatchFrame decodes one event frame and applies it.
func (h *Handler) dispatchFrame(msg []byte) error {
	var ev ui.Event
	if err := json.Unmarshal(msg, &ev); err != nil {
		return fmt.Errorf("%w: %v", ui.ErrUnknownEvent, err)
	}
	return h.events.Dispatch(ev)
}

// Helper: writeEnvelope writes one message with a write deadline.
func (h *Handler) writeEnvelope(ctx context.Context, conn *websocket.Conn, env wsEnvelope) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(env)
}
