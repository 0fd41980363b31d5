package handlers

import (
	"net/http"
	"strconv"

	"github.com/dom/matchup-companion/internal/api/middleware"
	"github.com/dom/matchup-companion/internal/service"
	"github.com/dom/matchup-companion/internal/websocket"
	"github.com/google/uuid"
	ws "github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

type WebSocketHandler struct {
	hub         *websocket.Hub
	authService *service.AuthService
	upgrader    ws.Upgrader
}

// NewWebSocketHandler accepts browser connections from allowedOrigins. A
// "*" entry allows any origin.
func NewWebSocketHandler(hub *websocket.Hub, authService *service.AuthService, allowedOrigins []string) *WebSocketHandler {
	h := &WebSocketHandler{hub: hub, authService: authService}
	h.upgrader = ws.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     originChecker(allowedOrigins),
	}
	return h
}

func originChecker(allowed []string) func(r *http.Request) bool {
	set := make(map[string]struct{}, len(allowed))
	for _, origin := range allowed {
		if origin == "*" {
			return func(*http.Request) bool { return true }
		}
		set[origin] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := set[origin]
		return ok
	}
}

// Handle upgrades the connection. Live updates are public: a token is
// optional and only tags the client. A matchupId query parameter
// subscribes the client straight away.
func (h *WebSocketHandler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, err := h.resolveUser(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Invalid token")
		return
	}

	var initial int
	if raw := r.URL.Query().Get("matchupId"); raw != "" {
		initial, err = strconv.Atoi(raw)
		if err != nil || initial < 1 {
			writeError(w, http.StatusBadRequest, "matchupId must be a positive integer")
			return
		}
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.WithError(err).Warn("[handlers.WebSocket] upgrade failed")
		return
	}

	client := websocket.NewClient(h.hub, conn, userID)
	h.hub.Register(client)
	if initial > 0 {
		h.hub.Subscribe(client, initial)
	}

	go client.WritePump()
	go client.ReadPump()
}

// resolveUser prefers the principal set by the Authenticate middleware and
// falls back to a "token" query parameter, since browsers cannot set
// headers on a websocket handshake.
func (h *WebSocketHandler) resolveUser(r *http.Request) (*uuid.UUID, error) {
	if userID, ok := middleware.GetUserID(r.Context()); ok {
		return &userID, nil
	}

	token := r.URL.Query().Get("token")
	if token == "" {
		return nil, nil
	}
	claims, err := h.authService.ValidateToken(token)
	if err != nil {
		return nil, err
	}
	return &claims.UserID, nil
}
