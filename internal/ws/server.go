// Package ws is the transport collaborator of the chat broker: it
// upgrades HTTP requests to websocket connections, decodes inbound
// event envelopes, dispatches them to broker operations, and delivers
// outbound events through the Hub's send primitives.
package ws

import (
	"net/http"
	"time"

	"chatbroker/internal/chat"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

type WsServer struct {
	hub      *Hub
	router   *Router
	broker   *chat.Broker
	upgrader websocket.Upgrader
}

// ConnContext is handed to every event handler.
type ConnContext struct {
	ConnID string
	Server *WsServer
}

func NewWsServer(h *Hub, broker *chat.Broker, allowedOrigin string) *WsServer {
	router := NewRouter()
	srv := &WsServer{
		hub:    h,
		router: router,
		broker: broker,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Browser clients must come from the configured origin;
			// requests without an Origin header are non-browser tools.
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || origin == allowedOrigin
			},
		},
	}
	srv.registerHandlers() // ← all WS endpoints configured here
	return srv
}

// ---------------------------------------------------------------------------
//  Public: Gin entry-point
// ---------------------------------------------------------------------------

func (s *WsServer) Handle(ginCtx *gin.Context) {
	rawConn, err := s.upgrader.Upgrade(ginCtx.Writer, ginCtx.Request, nil)
	if err != nil {
		zap.L().Warn("ws.upgrade", zap.Error(err))
		return
	}
	rawConn.SetReadLimit(maxMessageSize)

	// ─────────────────── Client joined ────────────────────────
	c := newClient(uuid.NewString(), rawConn)
	s.hub.add(c)
	s.broker.Connect(c.id)

	go c.writePump()
	go s.reader(c)
}

// ---------------------------------------------------------------------------
//  Private helpers
// ---------------------------------------------------------------------------

func (s *WsServer) registerHandlers() {
	// 🔹 login ---------------------------------------------------------------
	Register(s.router, "login", func(c *ConnContext, req LoginRequest) error {
		s.broker.Login(c.ConnID, req.Username)
		return nil
	})

	// 🔹 logout --------------------------------------------------------------
	Register(s.router, "logout", func(c *ConnContext, _ EmptyRequest) error {
		s.broker.Logout(c.ConnID)
		return nil
	})

	// 🔹 joinOrCreateRoom ----------------------------------------------------
	Register(s.router, "joinOrCreateRoom", func(c *ConnContext, req JoinOrCreateRoomRequest) error {
		s.broker.JoinOrCreateRoom(c.ConnID, req.RoomName)
		return nil
	})

	// 🔹 leaveRoom -----------------------------------------------------------
	Register(s.router, "leaveRoom", func(c *ConnContext, _ EmptyRequest) error {
		s.broker.LeaveRoom(c.ConnID)
		return nil
	})

	// 🔹 message -------------------------------------------------------------
	Register(s.router, "message", func(c *ConnContext, req MessageRequest) error {
		s.broker.SendMessage(c.ConnID, req.Message)
		return nil
	})

	// 🔹 typing --------------------------------------------------------------
	Register(s.router, "typing", func(c *ConnContext, req TypingRequest) error {
		s.broker.Typing(c.ConnID, req.Typing)
		return nil
	})
}

// reader pumps inbound frames into the router until the connection
// drops, then runs the disconnect cascade exactly once.
func (s *WsServer) reader(c *client) {
	defer func() {
		s.hub.remove(c)
		s.broker.Disconnect(c.id)
		c.conn.Close()
	}()

	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	cc := &ConnContext{ConnID: c.id, Server: s}

	for {
		var env InboundEnvelope
		if err := c.conn.ReadJSON(&env); err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				zap.L().Debug("ws.read", zap.String("conn", c.id), zap.Error(err))
			}
			return // client closed or errored
		}

		// Undecodable or unknown events are dropped, not answered:
		// protocol errors never produce error frames, only the broker's
		// own validation does.
		if err := s.router.dispatch(cc, env); err != nil {
			zap.L().Warn("ws.dispatch",
				zap.String("conn", c.id),
				zap.String("event", env.Event),
				zap.Error(err),
			)
		}
	}
}
