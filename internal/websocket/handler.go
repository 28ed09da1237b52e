package websocket

import (
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// ServeWs registers the connection as a watcher of versionId and blocks
// until it closes. A stopped hub closes the connection right away.
func ServeWs(hub *Hub, c *websocket.Conn, versionId uuid.UUID) {
	client := newClient(hub, c, versionId)
	if !hub.join(client) {
		c.Close()
		return
	}

	go client.writePump()
	client.readPump()
}
