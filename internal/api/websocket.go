package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/wI2L/jsondiff"

	"github.com/goxlr-daemon/goxlrd/internal/ipc"
)

var upgrader = websocket.Upgrader{
	// Every origin is accepted. The CORS middleware in front of this
	// handler only sets response headers; it does not reject requests.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// handleWebSocket upgrades the connection and streams every status patch
// the Supervisor publishes, as an unsolicited §6 Patch(JsonPatch) frame,
// until the client disconnects or the request context is cancelled.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("api: websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	id, patches := s.sup.Broadcaster().Subscribe()
	defer s.sup.Broadcaster().Unsubscribe(id)

	// A reader goroutine drains and discards client frames so the
	// connection's close/ping control frames are still processed,
	// signalling done when the client goes away.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-done:
			return
		case body, ok := <-patches:
			if !ok {
				return
			}
			var patch jsondiff.Patch
			if err := json.Unmarshal(body, &patch); err != nil {
				slog.Error("api: failed to decode outgoing status patch", "error", err)
				continue
			}
			conn.SetWriteDeadline(time.Now().Add(writeConnDeadline))
			if err := conn.WriteJSON(ipc.PatchResponse(patch)); err != nil {
				return
			}
		}
	}
}
