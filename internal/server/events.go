package server

import (
	"context"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/julianstephens/companion/internal/logger"
)

const eventWriteTimeout = 5 * time.Second

// streamEvents upgrades to a WebSocket and forwards store change events
// until the client disconnects or the server shuts down.
func (s *Server) streamEvents(w http.ResponseWriter, r *http.Request) {
	// Subscribe before the handshake completes so no event after it is missed.
	events, unsubscribe := s.store.Subscribe()
	defer unsubscribe()

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		// Same-origin only, plus localhost dev servers.
		OriginPatterns: []string{"localhost:*", "127.0.0.1:*"},
	})
	if err != nil {
		logger.Warn("failed to accept websocket", "err", err)
		return
	}
	defer conn.CloseNow()

	// The client only listens; CloseRead handles control frames and cancels
	// ctx once the client goes away.
	ctx := conn.CloseRead(r.Context())

	for {
		select {
		case <-ctx.Done():
			conn.Close(websocket.StatusNormalClosure, "")
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if err := writeEvent(ctx, conn, ev); err != nil {
				logger.Debug("websocket write failed", "err", err)
				return
			}
		}
	}
}

func writeEvent(ctx context.Context, conn *websocket.Conn, v any) error {
	ctx, cancel := context.WithTimeout(ctx, eventWriteTimeout)
	defer cancel()
	return wsjson.Write(ctx, conn, v)
}
