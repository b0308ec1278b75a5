package handlers

import (
	"net/http"

	"medicall/relay"
	"medicall/utils"

	"github.com/gin-gonic/gin"
)

// RelayHandler upgrades authenticated requests to relay connections.
type RelayHandler struct {
	Hub *relay.Hub
}

// NewRelayHandler constructs a RelayHandler.
func NewRelayHandler(hub *relay.Hub) *RelayHandler {
	return &RelayHandler{Hub: hub}
}

// ServeWSHandler performs the websocket upgrade for the authenticated user.
func (h *RelayHandler) ServeWSHandler(c *gin.Context) {
	userID := c.GetString("userID")
	if userID == "" {
		utils.JSONError(c, http.StatusUnauthorized, "unauthorized", "missing identity")
		return
	}
	relay.ServeWS(h.Hub, c.Writer, c.Request, userID)
}
