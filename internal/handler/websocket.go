package handler

import (
	"github.com/labstack/echo/v4"
	ws "github.com/zizouhuweidi/qna/internal/websocket"
)

// WebSocketHandler handles WebSocket connections
type WebSocketHandler struct {
	hub *ws.Hub
}

// NewWebSocketHandler creates a new WebSocket handler
func NewWebSocketHandler(hub *ws.Hub) *WebSocketHandler {
	return &WebSocketHandler{
		hub: hub,
	}
}

// Register registers the event feed route
func (h *WebSocketHandler) Register(e *echo.Echo) {
	e.GET("/ws", h.HandleWebSocket)
}

// HandleWebSocket subscribes the connection to catalogue events. The optional
// question_id query parameter narrows the feed to a single question.
func (h *WebSocketHandler) HandleWebSocket(c echo.Context) error {
	return ws.ServeWS(h.hub, c.Response(), c.Request())
}
