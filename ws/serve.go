package ws

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// ServeWS upgrades the connection and admits it into the hub. The userId
// query parameter is the connection credential; it is produced by the auth
// layer upstream and trusted here. Registration happens only after a
// successful upgrade, so a failed handshake never leaves a registry entry.
func ServeWS(hub *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDStr := c.Query("userId")
		userID, err := strconv.ParseUint(userIDStr, 10, 64)
		if err != nil || userID == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "userId required"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("ws upgrade failed: %v", err)
			return
		}

		client := NewClient(hub, conn, uint(userID))
		hub.Register(client)

		go client.WritePump()
		go client.ReadPump()
	}
}
