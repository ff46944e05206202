package handlers

import (
	"net/http"

	"bookline/services/events"
	"bookline/utils"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Browser origin checks happen at the CORS layer; the socket itself
	// is addressed by unguessable session id.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// CallEventsHandler upgrades the request to a websocket and binds it as
// the call's event channel. Tool and summary events flow out over it
// for the duration of the call.
func (h *CallHandler) CallEventsHandler(c *gin.Context) {
	sessionID := c.Param("sessionID")
	if _, err := h.Manager.Get(sessionID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "call not found"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		utils.GetLogger().Error("websocket upgrade failed",
			zap.String("sessionId", sessionID), zap.Error(err))
		return
	}

	if err := h.Manager.AttachTransport(sessionID, events.NewWebSocketTransport(conn)); err != nil {
		conn.Close()
		return
	}
	utils.GetLogger().Info("event channel attached", zap.String("sessionId", sessionID))
}
