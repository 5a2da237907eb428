package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/coder/websocket"
)

// handleWebsocket pushes the resolution on connect and then on every tick
// until the client goes away.
func (s *Server) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	loc, err := s.location(r)
	if err != nil {
		s.responder.writeJSON(r.Context(), w, http.StatusBadRequest, errorResponse{Error: msgInvalidTimezone})
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{OriginPatterns: []string{"*"}})
	if err != nil {
		s.responder.loggerFor(r.Context()).WarnContext(r.Context(), "websocket accept failed", "error", err)
		return
	}
	defer func() {
		_ = conn.CloseNow()
	}()

	ctx := conn.CloseRead(r.Context())
	ticker := time.NewTicker(s.opts.PushInterval)
	defer ticker.Stop()

	for {
		if err := s.push(ctx, conn, loc); err != nil {
			if !errors.Is(err, context.Canceled) {
				s.responder.loggerFor(ctx).DebugContext(ctx, "websocket closed", "error", err)
			}
			return
		}

		select {
		case <-ctx.Done():
			_ = conn.Close(websocket.StatusNormalClosure, "")
			return
		case <-ticker.C:
		}
	}
}

func (s *Server) push(ctx context.Context, conn *websocket.Conn, loc *time.Location) error {
	var payload any
	view, err := s.resolution(ctx, loc)
	if err != nil {
		s.responder.loggerFor(ctx).WarnContext(ctx, "websocket resolve failed", "kind", ErrorKind(err), "error", err)
		payload = errorResponse{Error: msgResolveFailed}
	} else {
		payload = view
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return conn.Write(ctx, websocket.MessageText, data)
}
