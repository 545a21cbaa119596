package chat

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/emel-04/FlatmateHarmony/internal/middleware"
	"github.com/emel-04/FlatmateHarmony/internal/storage"
)

const (
	writeTimeout = 10 * time.Second
	pingInterval = 30 * time.Second
)

// ClientMessage is what the client sends over the socket.
type ClientMessage struct {
	Type    string `json:"type"`
	Content string `json:"content,omitempty"`
}

// ServerMessage is what the server sends over the socket.
type ServerMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// Handler upgrades chat connections and runs their read and write
// loops. One socket serves one household room.
type Handler struct {
	service        *Service
	users          storage.UserStore
	allowedOrigins []string
}

// NewHandler creates a WebSocket chat handler. allowedOrigins is the
// origin allowlist for the upgrade; empty means same-origin only.
func NewHandler(service *Service, users storage.UserStore, allowedOrigins []string) *Handler {
	return &Handler{service: service, users: users, allowedOrigins: allowedOrigins}
}

// ServeHTTP handles GET /households/{householdID}/chat/ws. Auth has
// already run; the user ID is on the request context.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	householdID := chi.URLParam(r, "householdID")

	senderName := userID
	if user, err := h.users.GetUserByID(r.Context(), userID); err == nil && user != nil {
		senderName = user.DisplayName
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: h.allowedOrigins,
	})
	if err != nil {
		slog.Error("websocket accept failed", "user_id", userID, "error", err)
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	sub := h.service.Subscribe(householdID)
	defer sub.Cancel()

	// Recent history first, so the client renders the room before live
	// messages arrive.
	history, err := h.service.History(ctx, householdID)
	if err != nil {
		slog.Error("chat history fetch failed", "household_id", householdID, "error", err)
		_ = conn.Close(websocket.StatusInternalError, "history unavailable")
		return
	}
	if err := h.send(ctx, conn, ServerMessage{Type: "history", Payload: history}); err != nil {
		return
	}

	slog.Info("chat connection established", "user_id", userID, "household_id", householdID)

	errCh := make(chan error, 3)
	go func() { errCh <- h.readLoop(ctx, conn, householdID, userID, senderName) }()
	go func() { errCh <- h.writeLoop(ctx, conn, sub) }()
	go func() { errCh <- h.pingLoop(ctx, conn) }()

	err = <-errCh
	if err != nil && websocket.CloseStatus(err) != websocket.StatusNormalClosure {
		slog.Warn("chat connection closed", "user_id", userID, "error", err)
	}
	_ = conn.Close(websocket.StatusNormalClosure, "bye")
}

func (h *Handler) readLoop(ctx context.Context, conn *websocket.Conn, householdID, userID, senderName string) error {
	for {
		var msg ClientMessage
		if err := wsjson.Read(ctx, conn, &msg); err != nil {
			return err
		}

		switch msg.Type {
		case "ping":
			if err := h.send(ctx, conn, ServerMessage{Type: "pong"}); err != nil {
				return err
			}
		case "message":
			if _, err := h.service.Send(ctx, householdID, userID, senderName, msg.Content); err != nil {
				if err := h.send(ctx, conn, ServerMessage{Type: "error", Error: err.Error()}); err != nil {
					return err
				}
			}
		default:
			slog.Debug("unknown chat message type", "type", msg.Type, "user_id", userID)
		}
	}
}

func (h *Handler) writeLoop(ctx context.Context, conn *websocket.Conn, sub *Subscription) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-sub.C():
			if !ok {
				return nil
			}
			if err := h.send(ctx, conn, ServerMessage{Type: "message", Payload: msg}); err != nil {
				return err
			}
		}
	}
}

func (h *Handler) pingLoop(ctx context.Context, conn *websocket.Conn) error {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, writeTimeout)
			err := conn.Ping(pingCtx)
			cancel()
			if err != nil {
				return err
			}
		}
	}
}

func (h *Handler) send(ctx context.Context, conn *websocket.Conn, msg ServerMessage) error {
	writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	return wsjson.Write(writeCtx, conn, msg)
}
