package websocket

import (
	"auction-marketplace/pkg/logger"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type feedConn struct {
	ws      *websocket.Conn
	itemID  string
	writeMu sync.Mutex
}

func (c *feedConn) Send(message []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.ws.WriteMessage(websocket.TextMessage, message)
}

func (c *feedConn) Close() error {
	return c.ws.Close()
}

func (c *feedConn) ItemID() string {
	return c.itemID
}

// FeedHandler upgrades price feed subscriptions. Each client subscribes to a
// single item channel for the lifetime of the connection.
type FeedHandler struct {
	manager     *ConnectionManager
	onFirstConn func(itemID string)
	onLastConn  func(itemID string)
	log         logger.Logger
}

func NewFeedHandler(manager *ConnectionManager, onFirstConn, onLastConn func(itemID string), log logger.Logger) *FeedHandler {
	return &FeedHandler{
		manager:     manager,
		onFirstConn: onFirstConn,
		onLastConn:  onLastConn,
		log:         log,
	}
}

func (h *FeedHandler) Subscribe(c echo.Context) error {
	itemID := c.Param("item_id")
	if itemID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "item_id required"})
	}

	ws, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		h.log.Error("Failed to upgrade connection", "item_id", itemID, "error", err)
		return err
	}

	conn := &feedConn{ws: ws, itemID: itemID}

	if h.manager.RegisterConnection(itemID, conn) == 1 && h.onFirstConn != nil {
		h.onFirstConn(itemID)
	}

	// Block reading until the client goes away; inbound frames are ignored.
	go func() {
		defer func() {
			if h.manager.UnregisterConnection(itemID, conn) == 0 && h.onLastConn != nil {
				h.onLastConn(itemID)
			}
			conn.Close()
		}()

		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				return
			}
		}
	}()

	return nil
}
