package api

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"

	"github.com/poolkaro/poolkaro-backend/internal/middleware"
	"github.com/poolkaro/poolkaro-backend/ride"
	"github.com/poolkaro/poolkaro-backend/room"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 1024
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// wsFrame is an inbound client frame. "message" publishes chat to the room;
// "unsubscribe" leaves it. Subscribing is implicit in opening the socket.
type wsFrame struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func (a *API) wsHandler(c *gin.Context) {
	logger := middleware.GetLogger(c)

	roomKey := strings.TrimSpace(c.Query("room"))
	if roomKey == "" {
		c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_REQUEST", "message": "Room key is required"})
		return
	}
	username := strings.TrimSpace(c.Query("username"))
	if username == "" {
		username = ride.GuestName(time.Now())
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.ErrorContext(c, "websocket upgrade failed", "error", err)
		return
	}

	session := a.rooms.Subscribe(roomKey, username)
	roomSessions.Inc()
	logger.Info("chat session opened", "room", roomKey, "username", username, "session", session.ID)

	go a.writePump(conn, session, logger)
	a.readPump(conn, session, logger)
}

// readPump pumps inbound frames from the socket into the broadcaster. It
// owns session teardown: when the read side ends, for any reason, the
// session is unsubscribed exactly once.
func (a *API) readPump(conn *websocket.Conn, session *room.Session, logger *slog.Logger) {
	defer func() {
		a.rooms.Unsubscribe(session)
		roomSessions.Dec()
		conn.Close()
		logger.Info("chat session closed", "room", session.RoomKey, "session", session.ID)
	}()

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("websocket read error", "session", session.ID, "error", err)
			}
			return
		}

		var frame wsFrame
		if err := json.Unmarshal(raw, &frame); err != nil {
			logger.Warn("dropping malformed frame", "session", session.ID, "error", err)
			continue
		}

		switch frame.Type {
		case "message":
			a.rooms.Publish(session.RoomKey, session.Username, frame.Message)
		case "unsubscribe":
			return
		default:
			logger.Warn("dropping unknown frame type", "session", session.ID, "type", frame.Type)
		}
	}
}

// writePump pumps room events out to the socket and keeps the connection
// alive with pings. It exits when the session's event stream is closed by
// Unsubscribe or when a write fails.
func (a *API) writePump(conn *websocket.Conn, session *room.Session, logger *slog.Logger) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case ev, ok := <-session.Events():
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteJSON(ev); err != nil {
				logger.Warn("websocket write failed", "session", session.ID, "error", err)
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
