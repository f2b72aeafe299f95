package ws

import (
	"errors"
	"sync"

	"github.com/gorilla/websocket"
)

// sendBuffer bounds how far a slow client may fall behind before its pushes
// start failing. Failed pushes are best-effort losses, not errors.
const sendBuffer = 32

var errChannelClosed = errors.New("channel closed")

// wsChannel adapts a gorilla websocket connection to the hub's Channel
// interface. Writes are serialized through a single writer goroutine since
// gorilla connections allow only one concurrent writer.
type wsChannel struct {
	conn *websocket.Conn
	send chan []byte

	closeOnce sync.Once
	closed    chan struct{}
}

// NewWSChannel wraps conn and starts its writer goroutine.
func NewWSChannel(conn *websocket.Conn) Channel {
	ch := &wsChannel{
		conn:   conn,
		send:   make(chan []byte, sendBuffer),
		closed: make(chan struct{}),
	}
	go ch.writeLoop()
	return ch
}

func (c *wsChannel) Send(payload []byte) error {
	select {
	case <-c.closed:
		return errChannelClosed
	case c.send <- payload:
		return nil
	default:
		return errors.New("send buffer full")
	}
}

func (c *wsChannel) Close() error {
	c.closeOnce.Do(func() {
		close(c.closed)
	})
	return c.conn.Close()
}

func (c *wsChannel) writeLoop() {
	for {
		select {
		case <-c.closed:
			return
		case payload := <-c.send:
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				c.Close()
				return
			}
		}
	}
}
