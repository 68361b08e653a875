package telemetry

import (
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/cuemby/chainflow/pkg/log"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// safeConn wraps a websocket.Conn so a write failing after the reader
// goroutine has already torn the connection down cannot panic or block
// forever: closed is checked before every operation.
type safeConn struct {
	conn   *websocket.Conn
	closed int32
}

func newSafeConn(conn *websocket.Conn) *safeConn {
	return &safeConn{conn: conn}
}

func (s *safeConn) writeJSON(v interface{}) error {
	if atomic.LoadInt32(&s.closed) == 1 {
		return websocket.ErrCloseSent
	}
	return s.conn.WriteJSON(v)
}

func (s *safeConn) close() error {
	if !atomic.CompareAndSwapInt32(&s.closed, 0, 1) {
		return nil
	}
	now := time.Now()
	_ = s.conn.SetWriteDeadline(now)
	_ = s.conn.SetReadDeadline(now)
	return s.conn.Close()
}

// Handler returns an http.HandlerFunc that upgrades to a websocket
// connection, subscribes to b, and streams every published Record to
// the client as JSON until the connection closes or the request context
// is canceled.
func Handler(b *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		wsConn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			telemetryLogger := log.WithComponent("telemetry")
			telemetryLogger.Warn().Err(err).Msg("websocket upgrade failed")
			return
		}
		conn := newSafeConn(wsConn)
		defer conn.close()

		id, sub := b.Subscribe()
		defer b.Unsubscribe(id)

		logger := log.WithComponent("telemetry")
		logger.Info().Str("subscriber_id", id.String()).Msg("telemetry subscriber connected")
		defer logger.Info().Str("subscriber_id", id.String()).Msg("telemetry subscriber disconnected")

		// Drain client-initiated control frames (ping/close) on a reader
		// goroutine so a dead connection is detected even while idle.
		closed := make(chan struct{})
		go func() {
			defer close(closed)
			for {
				if _, _, err := wsConn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		for {
			select {
			case rec, ok := <-sub:
				if !ok {
					return
				}
				if err := conn.writeJSON(rec); err != nil {
					return
				}
			case <-closed:
				return
			case <-r.Context().Done():
				return
			}
		}
	}
}
