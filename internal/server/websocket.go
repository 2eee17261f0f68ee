package server

import (
	"context"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"go.uber.org/zap"
)

const writeTimeout = 5 * time.Second

// handleWebsocket pushes a snapshot after every tick and command until the
// client goes away.
func (s *Server) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		s.logger.Debug("websocket accept failed", zap.Error(err))
		return
	}
	defer conn.CloseNow()

	// the page never sends; CloseRead handles pings and the close frame
	ctx := conn.CloseRead(r.Context())

	updates, unsubscribe := s.driver.Subscribe()
	defer unsubscribe()

	snap, err := s.driver.Snapshot(ctx)
	if err != nil {
		conn.Close(websocket.StatusGoingAway, "session driver stopped")
		return
	}
	if err := write(ctx, conn, snap); err != nil {
		return
	}

	for {
		select {
		case <-ctx.Done():
			conn.Close(websocket.StatusNormalClosure, "")
			return
		case snap := <-updates:
			if err := write(ctx, conn, snap); err != nil {
				s.logger.Debug("websocket write failed", zap.Error(err))
				return
			}
		}
	}
}

func write(ctx context.Context, conn *websocket.Conn, v any) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	return wsjson.Write(ctx, conn, v)
}
