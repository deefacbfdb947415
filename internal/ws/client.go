package ws

import (
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 12 * time.Second
	pingPeriod     = 3 * time.Second // must be < pongWait
	maxMessageSize = 512
	sendBuffer     = 256
)

// client is one websocket connection. Outbound frames go through the
// buffered send channel and a single writer goroutine, so any number
// of broker operations can enqueue without blocking on socket I/O.
type client struct {
	id   string
	conn *websocket.Conn
	send chan []byte
}

func newClient(id string, conn *websocket.Conn) *client {
	return &client{
		id:   id,
		conn: conn,
		send: make(chan []byte, sendBuffer),
	}
}

// enqueue hands a pre-marshaled frame to the writer. A full buffer
// drops the frame: delivery is at-most-once and a stalled client must
// not stall the broker.
func (c *client) enqueue(frame []byte) {
	select {
	case c.send <- frame:
	default:
		zap.L().Debug("ws.frame_dropped", zap.String("conn", c.id))
	}
}

// writePump drains the send channel onto the socket and keeps the
// connection alive with pings. Exits when the channel closes or a
// write fails; the read side notices via the closed socket.
func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case frame, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
