package controller

import (
	"github.com/gin-gonic/gin"
	gorillaws "github.com/gorilla/websocket"

	"github.com/mykitchen/kitchen/internal/middleware"
	"github.com/mykitchen/kitchen/internal/websocket"
)

type WebSocketController struct {
	hub      *websocket.Hub
	upgrader *gorillaws.Upgrader
}

func NewWebSocketController(hub *websocket.Hub, allowedOrigins []string) *WebSocketController {
	return &WebSocketController{
		hub:      hub,
		upgrader: websocket.NewUpgrader(allowedOrigins),
	}
}

// Stream upgrades the request and streams store snapshots to it
// GET /ws?token=...
func (ctrl *WebSocketController) Stream(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	userID, _ := middleware.GetUserID(c)

	ws, err := ctrl.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		log.Warn("WebSocket upgrade failed", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	client := websocket.NewClient(ctrl.hub, &websocket.Conn{Conn: ws}, userID)
	if !ctrl.hub.Register(client) {
		ws.Close()
		return
	}

	go client.WritePump()
	go client.ReadPump()
}
