package websocket

import (
	"auction-marketplace/internal/domain"
	"auction-marketplace/pkg/logger"
	"sync"
)

// ConnectionManager tracks feed connections per item so a price update can
// be fanned out to everyone watching that item.
type ConnectionManager struct {
	connections map[string][]domain.FeedConnection // itemID -> connections
	mutex       sync.RWMutex
	log         logger.Logger
}

func NewConnectionManager(log logger.Logger) *ConnectionManager {
	return &ConnectionManager{
		connections: make(map[string][]domain.FeedConnection),
		log:         log,
	}
}

// RegisterConnection adds the connection and returns the watcher count after
// the insert, taken under the lock. The count lets the caller detect the
// first watcher without a separate racy read.
func (cm *ConnectionManager) RegisterConnection(itemID string, conn domain.FeedConnection) int {
	cm.mutex.Lock()
	defer cm.mutex.Unlock()

	cm.connections[itemID] = append(cm.connections[itemID], conn)
	watchers := len(cm.connections[itemID])
	cm.log.Info("Feed connection registered", "item_id", itemID, "watchers", watchers)
	return watchers
}

// UnregisterConnection removes the connection and returns the remaining
// watcher count, taken under the lock.
func (cm *ConnectionManager) UnregisterConnection(itemID string, conn domain.FeedConnection) int {
	cm.mutex.Lock()
	defer cm.mutex.Unlock()

	conns := cm.connections[itemID]
	var remaining []domain.FeedConnection
	for _, existing := range conns {
		if existing != conn {
			remaining = append(remaining, existing)
		}
	}

	if len(remaining) == 0 {
		delete(cm.connections, itemID)
	} else {
		cm.connections[itemID] = remaining
	}

	cm.log.Info("Feed connection unregistered", "item_id", itemID, "watchers", len(remaining))
	return len(remaining)
}

func (cm *ConnectionManager) BroadcastToItem(itemID string, message []byte) {
	cm.mutex.RLock()
	conns := make([]domain.FeedConnection, len(cm.connections[itemID]))
	copy(conns, cm.connections[itemID])
	cm.mutex.RUnlock()

	for _, conn := range conns {
		if err := conn.Send(message); err != nil {
			cm.log.Error("Failed to send feed message", "item_id", itemID, "error", err)
			// Continue to other connections
		}
	}
}

func (cm *ConnectionManager) WatcherCount(itemID string) int {
	cm.mutex.RLock()
	defer cm.mutex.RUnlock()
	return len(cm.connections[itemID])
}

func (cm *ConnectionManager) ActiveItems() []string {
	cm.mutex.RLock()
	defer cm.mutex.RUnlock()

	items := make([]string, 0, len(cm.connections))
	for itemID := range cm.connections {
		items = append(items, itemID)
	}
	return items
}
