package ws

import (
	"log/slog"
	"time"

	"github.com/gorilla/websocket"

	"eventlivechat/internal/chat"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBuffer     = 32
)

// wsConnection adapts a gorilla websocket connection to chat.Connection.
// Deliver enqueues onto a buffered channel drained by a single writer
// goroutine, so fan-out never blocks on a slow socket; a participant whose
// buffer is full loses that event rather than stalling the room.
type wsConnection struct {
	id     string
	sock   *websocket.Conn
	send   chan chat.OutboundEvent
	done   chan struct{}
	logger *slog.Logger
}

func newWSConnection(id string, sock *websocket.Conn, logger *slog.Logger) *wsConnection {
	return &wsConnection{
		id:     id,
		sock:   sock,
		send:   make(chan chat.OutboundEvent, sendBuffer),
		done:   make(chan struct{}),
		logger: logger,
	}
}

func (c *wsConnection) ID() string { return c.id }

func (c *wsConnection) Deliver(event chat.OutboundEvent) {
	select {
	case c.send <- event:
	case <-c.done:
	default:
		c.logger.Warn("dropping event for slow connection", "conn_id", c.id, "type", event.Type)
	}
}

// writeLoop owns all writes to the socket. It exits when the send channel is
// starved past the ping interval and the peer stops answering, or when close
// is signalled.
func (c *wsConnection) writeLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.sock.Close()
	}()
	for {
		select {
		case event := <-c.send:
			c.sock.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.sock.WriteJSON(event); err != nil {
				return
			}
		case <-ticker.C:
			c.sock.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.sock.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.done:
			c.sock.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.sock.WriteMessage(websocket.CloseMessage, nil)
			return
		}
	}
}

func (c *wsConnection) close() {
	select {
	case <-c.done:
	default:
		close(c.done)
	}
}
