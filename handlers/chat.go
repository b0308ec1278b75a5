package handlers

import (
	"net/http"
	"strconv"

	"medicall/services/chat"
	"medicall/utils"

	"github.com/gin-gonic/gin"
)

// ChatHandler serves durable chat history for session rooms.
type ChatHandler struct {
	Bridge *chat.Bridge
}

// NewChatHandler constructs a ChatHandler.
func NewChatHandler(bridge *chat.Bridge) *ChatHandler {
	return &ChatHandler{Bridge: bridge}
}

// GetChatHistoryHandler returns the room's messages in insertion order.
// An optional limit query parameter caps the result to the most recent N.
func (h *ChatHandler) GetChatHistoryHandler(c *gin.Context) {
	roomID := c.Param("roomId")

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			utils.JSONError(c, http.StatusBadRequest, "invalid input", "limit must be a non-negative integer")
			return
		}
		limit = parsed
	}

	messages, err := h.Bridge.History(c.Request.Context(), roomID, int64(limit))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": messages})
}
