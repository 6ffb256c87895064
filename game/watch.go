package game

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"
)

const (
	writeWait    = 10 * time.Second
	pongWait     = time.Minute
	pingInterval = 30 * time.Second
)

var watchUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Origin is already enforced by the server-wide middleware.
		return true
	},
}

// WatchHandler upgrades to a websocket and streams room snapshots: one
// on connect, then one per feed wakeup. The stream is read-only; clients
// act through the POST endpoints and anything they send here beyond
// control frames is drained and dropped.
func (h *GameHandler) WatchHandler(ctx *gin.Context) {
	playerID := ctx.Query("player_id")
	code := CanonicalCode(ctx.Param("code"))

	// Verify membership before tying up a socket.
	if _, err := h.service.Snapshot(ctx.Request.Context(), code, playerID); err != nil {
		abortWithGameError(ctx, err)
		return
	}

	conn, err := watchUpgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		return
	}

	h.metrics.Watchers.Inc()
	defer h.metrics.Watchers.Dec()

	wakeups, cancel := h.feed.Subscribe(code)
	defer cancel()

	done := make(chan struct{})
	go h.drainInbound(conn, done)
	defer func() {
		conn.Close()
		<-done
	}()

	ping := time.NewTicker(pingInterval)
	defer ping.Stop()

	if !h.writeSnapshot(ctx, conn, code, playerID) {
		return
	}

	for {
		select {
		case <-done:
			return
		case <-ctx.Request.Context().Done():
			return
		case <-ping.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case _, ok := <-wakeups:
			if !ok {
				return
			}
			// A wakeup carries no payload; the snapshot is re-read in
			// full, so coalesced or dropped notifications are harmless.
			if !h.writeSnapshot(ctx, conn, code, playerID) {
				return
			}
		}
	}
}

func (h *GameHandler) writeSnapshot(ctx *gin.Context, conn *websocket.Conn, code, playerID string) bool {
	snap, err := h.service.Snapshot(ctx.Request.Context(), code, playerID)
	if err != nil {
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseInternalServerErr, "snapshot-failed"))
		return false
	}

	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(snap) == nil
}

// drainInbound services control frames so pongs reset the read deadline,
// and rate-limits whatever else clients send before discarding it.
func (h *GameHandler) drainInbound(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)

	limiter := rate.NewLimiter(rate.Every(time.Second), 8)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
		if !limiter.Allow() {
			return
		}
	}
}
