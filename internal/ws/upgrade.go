package ws

import (
	"net/http"
	"time"

	"notifyhub/config"
	"notifyhub/internal/auth"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

const maxInboundMessage = 512

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// ServeNotifications upgrades GET /ws/notifications?token=<jwt> to a push channel for the token's
// user. The connection stays registered in hub until the client goes away or a push fails.
func ServeNotifications(jwtCfg *config.JWTConfig, wsCfg config.WebSocketConfig, hub *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "token required"})
			return
		}
		claims, err := auth.ParseAccessToken(jwtCfg, token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			// Upgrade has already replied to the client.
			log.WithError(err).Debug("[ws] upgrade failed")
			return
		}

		client := NewClient(claims.UserID, wsCfg.SendBuffer)
		hub.Connect(claims.UserID, client)
		logger := log.WithField("user_id", claims.UserID)
		logger.Debug("[ws] connected")

		go writePump(client, conn, wsCfg)
		readPump(conn, wsCfg)

		client.Close()
		conn.Close()
		logger.Debug("[ws] disconnected")
	}
}

// writePump copies messages from client.Send to the connection and keeps it alive with pings.
// It exits when Send is closed or a write fails.
func writePump(c *Client, conn *websocket.Conn, cfg config.WebSocketConfig) {
	ticker := time.NewTicker(cfg.PingPeriod())
	defer func() {
		ticker.Stop()
		conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.Send:
			conn.SetWriteDeadline(time.Now().Add(cfg.WriteWait))
			if !ok {
				conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				c.Close()
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(cfg.WriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.Close()
				return
			}
		}
	}
}

// readPump blocks on client traffic; any inbound frame (keepalive text or pong) extends the
// read deadline. It returns on close, read error or deadline expiry.
func readPump(conn *websocket.Conn, cfg config.WebSocketConfig) {
	conn.SetReadLimit(maxInboundMessage)
	conn.SetReadDeadline(time.Now().Add(cfg.PongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(cfg.PongWait))
		return nil
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.WithError(err).Debug("[ws] read error")
			}
			return
		}
		conn.SetReadDeadline(time.Now().Add(cfg.PongWait))
	}
}
