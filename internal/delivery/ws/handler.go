// Package ws exposes the event chat rooms over a websocket endpoint with a
// tagged JSON protocol: inbound {action, access_code, content}, outbound
// {type, ...}. Authorization is re-derived by the broadcaster on every join
// and send; the socket itself grants nothing.
package ws

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"eventlivechat/internal/chat"
	"eventlivechat/internal/delivery/http/middleware"
)

// Inbound actions.
const (
	actionJoin = "join"
	actionSend = "send"
)

// InboundRequest is one client request on the chat socket.
type InboundRequest struct {
	Action     string `json:"action"`
	AccessCode string `json:"access_code,omitempty"`
	Content    string `json:"content,omitempty"`
}

type Handler struct {
	broadcaster *chat.Broadcaster
	upgrader    websocket.Upgrader
	logger      *slog.Logger
}

// NewHandler creates the websocket chat handler. allowedOrigins uses the same
// origin list as the CORS middleware; an empty list allows same-origin only.
func NewHandler(broadcaster *chat.Broadcaster, allowedOrigins []string, logger *slog.Logger) *Handler {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		o = strings.TrimSuffix(strings.TrimSpace(o), "/")
		if o != "" {
			allowed[o] = struct{}{}
		}
	}
	return &Handler{
		broadcaster: broadcaster,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				if _, ok := allowed[strings.TrimSuffix(origin, "/")]; ok {
					return true
				}
				return strings.EqualFold(origin, "http://"+r.Host) || strings.EqualFold(origin, "https://"+r.Host)
			},
		},
		logger: logger,
	}
}

// ServeChat godoc
// @Summary Open the event chat websocket
// @Description Upgrades to a websocket scoped to the event room. Clients send {"action":"join","access_code":...} and {"action":"send","access_code":...,"content":...}; the server pushes {"type":"joined"|"message"|"denied"|"error",...}. Every action is authorized independently.
// @Tags chat
// @Param eventID path string true "Event ID"
// @Success 101 {string} string "Switching Protocols"
// @Router /events/{eventID}/chat [get]
func (h *Handler) ServeChat(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		http.Error(w, "missing eventID", http.StatusBadRequest)
		return
	}

	sock, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "err", err)
		return
	}

	conn := newWSConnection(uuid.NewString(), sock, h.logger)
	go conn.writeLoop()
	defer func() {
		// Unconditional cleanup covers abnormal disconnects too.
		h.broadcaster.Disconnect(conn)
		conn.close()
	}()

	// The confirmation cookie can stand in for an explicit per-message code.
	cookieCode := ""
	if cookie, err := r.Cookie(middleware.AccessCodeCookie); err == nil {
		cookieCode = cookie.Value
	}

	sock.SetReadLimit(maxMessageSize)
	sock.SetReadDeadline(time.Now().Add(pongWait))
	sock.SetPongHandler(func(string) error {
		sock.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var req InboundRequest
		if err := sock.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Debug("websocket closed unexpectedly", "conn_id", conn.ID(), "err", err)
			}
			return
		}
		code := req.AccessCode
		if code == "" {
			code = cookieCode
		}
		switch req.Action {
		case actionJoin:
			if err := h.broadcaster.Join(r.Context(), conn, eventID, code); err != nil {
				h.deny(conn, eventID, err)
				continue
			}
			conn.Deliver(chat.OutboundEvent{Type: "joined", EventID: eventID})
		case actionSend:
			if err := h.broadcaster.Send(r.Context(), conn, eventID, code, req.Content); err != nil {
				h.deny(conn, eventID, err)
			}
		default:
			conn.Deliver(chat.OutboundEvent{Type: "error", EventID: eventID, Content: "unknown action"})
		}
	}
}

// deny notifies only the requesting connection. Denials carry no reason.
func (h *Handler) deny(conn *wsConnection, eventID string, err error) {
	if chat.IsDenied(err) {
		conn.Deliver(chat.OutboundEvent{Type: "denied", EventID: eventID})
		return
	}
	h.logger.Error("chat action failed", "conn_id", conn.ID(), "event_id", eventID, "err", err)
	conn.Deliver(chat.OutboundEvent{Type: "error", EventID: eventID, Content: "internal error"})
}
