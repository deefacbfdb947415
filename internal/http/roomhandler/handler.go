package roomhandler

import (
	"fmt"
	"net/http"

	"chatbroker/internal/chat"

	"github.com/gin-gonic/gin"
)

// Handler exposes the room directory read-only over REST. All state
// mutation happens through the websocket protocol.
type Handler struct {
	broker *chat.Broker
}

func New(broker *chat.Broker) *Handler { return &Handler{broker: broker} }

func (h *Handler) Register(r gin.IRoutes) {
	r.GET("/rooms", h.list)
	r.GET("/rooms/:name", h.info)
}

func (h *Handler) list(c *gin.Context) {
	c.JSON(http.StatusOK, h.broker.Snapshot())
}

func (h *Handler) info(c *gin.Context) {
	name := c.Param("name")
	room, ok := h.broker.RoomSnapshot(name)
	if !ok {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: fmt.Sprintf("room %s not found", name)})
		return
	}
	c.JSON(http.StatusOK, room)
}
