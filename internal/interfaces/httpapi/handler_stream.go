package httpapi

import (
	"context"
	"net/http"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/gorilla/websocket"

	"github.com/riskibarqy/football-manager/internal/domain/match"
)

const (
	defaultPingInterval = 25 * time.Second
	streamWriteWait     = 10 * time.Second
	streamReadLimit     = 512
)

type subscribeFunc func(ctx context.Context, matchID string, fn func(match.Match)) (func(), error)

// serveStream subscribes before upgrading so an unknown match still gets a
// normal JSON error. After the upgrade every record the store delivers is
// written as one text frame, in order.
func (h *Handler) serveStream(w http.ResponseWriter, r *http.Request, managerID string, subscribe subscribeFunc) {
	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	matchID := strings.TrimSpace(r.PathValue("matchID"))
	updates := make(chan match.Match, 8)
	unsubscribe, err := subscribe(ctx, matchID, func(m match.Match) {
		select {
		case updates <- m:
		case <-ctx.Done():
		}
	})
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	defer unsubscribe()

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WarnContext(ctx, "stream upgrade failed", "match_id", matchID, "error", err)
		return
	}
	defer conn.Close()

	pongWait := h.pingInterval * 2
	conn.SetReadLimit(streamReadLimit)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	// Reads only drive pong handling and close detection.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(h.pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(streamWriteWait))
			return
		case m := <-updates:
			payload, err := sonic.Marshal(matchToDTO(m, managerID))
			if err != nil {
				h.logger.ErrorContext(ctx, "encode stream frame failed", "match_id", matchID, "error", err)
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				h.logger.DebugContext(ctx, "stream write failed", "match_id", matchID, "error", err)
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(streamWriteWait)); err != nil {
				return
			}
		}
	}
}
