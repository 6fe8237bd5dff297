package api

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/dmitrymomot/trustnotify/internal/auth"
	"github.com/dmitrymomot/trustnotify/pkg/logger"
)

const (
	streamWriteWait  = 10 * time.Second
	streamPongWait   = 60 * time.Second
	streamPingPeriod = (streamPongWait * 9) / 10
	streamReadLimit  = 512
)

func (h *handlers) upgrader() *websocket.Upgrader {
	return &websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
	}
}

// checkOrigin accepts requests without an Origin header (non-browser
// clients) and browser requests from an allowed origin.
func (h *handlers) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || slices.Contains(h.origins, "*") {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	for _, allowed := range h.origins {
		if strings.EqualFold(allowed, origin) || strings.EqualFold(allowed, u.Scheme+"://"+u.Host) {
			return true
		}
	}
	return false
}

// stream pushes every in-app write for the caller over a WebSocket until
// either side closes or the subscription ends.
func (h *handlers) stream(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	sub, err := h.inbox.Subscribe(ctx, user.ID)
	if err != nil {
		h.log.ErrorContext(ctx, "inbox subscribe failed", logger.UserID(user.ID), logger.Error(err))
		respondError(w, HTTPError{Code: http.StatusServiceUnavailable, Key: "service_unavailable"})
		return
	}
	defer sub.Close()

	conn, err := h.upgrader().Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the error response.
		h.log.WarnContext(ctx, "websocket upgrade failed", logger.UserID(user.ID), logger.Error(err))
		return
	}
	defer conn.Close()

	log := h.log.With(logger.UserID(user.ID), logger.Component("stream"))
	log.DebugContext(ctx, "stream opened")

	go readPump(conn, cancel)

	ticker := time.NewTicker(streamPingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, ""),
				time.Now().Add(streamWriteWait))
			log.DebugContext(ctx, "stream closed")
			return
		case msg, ok := <-sub.C:
			if !ok {
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseTryAgainLater, "subscription ended"),
					time.Now().Add(streamWriteWait))
				log.DebugContext(ctx, "stream subscription ended")
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
			if err := conn.WriteJSON(msg); err != nil {
				log.LogAttrs(ctx, slog.LevelWarn, "stream write failed", logger.Error(err))
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(streamWriteWait)); err != nil {
				return
			}
		}
	}
}

// readPump drains client frames so control messages are processed and
// cancels the stream once the client goes away.
func readPump(conn *websocket.Conn, cancel context.CancelFunc) {
	defer cancel()

	conn.SetReadLimit(streamReadLimit)
	_ = conn.SetReadDeadline(time.Now().Add(streamPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(streamPongWait))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
