package websocket

import (
	"log"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/dropfour/drop-four/backend/internal/domain"
)

// connection wraps a websocket.Conn with a write mutex, since gorilla
// connections allow only one concurrent writer.
type connection struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *connection) writeJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(v)
}

// ConnectionManager tracks one live connection per authenticated user.
type ConnectionManager struct {
	connections map[int64]*connection
	mu          sync.RWMutex
}

func NewConnectionManager() *ConnectionManager {
	return &ConnectionManager{
		connections: make(map[int64]*connection),
	}
}

// AddConnection registers conn for userID, closing any previous one.
func (cm *ConnectionManager) AddConnection(userID int64, conn *websocket.Conn) {
	cm.mu.Lock()
	old := cm.connections[userID]
	cm.connections[userID] = &connection{conn: conn}
	cm.mu.Unlock()

	if old != nil {
		old.conn.Close()
		log.Printf("[WS] Replaced existing connection for user %d", userID)
	}
}

// RemoveConnection drops the user's connection if conn is still current.
func (cm *ConnectionManager) RemoveConnection(userID int64, conn *websocket.Conn) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	current, exists := cm.connections[userID]
	if exists && current.conn == conn {
		delete(cm.connections, userID)
	}
}

// SendMessage writes a frame to the user's connection.
func (cm *ConnectionManager) SendMessage(userID int64, message domain.ServerMessage) error {
	cm.mu.RLock()
	current, exists := cm.connections[userID]
	cm.mu.RUnlock()

	if !exists {
		return domain.Error("user not connected")
	}
	return current.writeJSON(message)
}

// DisconnectUser sends a final error frame and closes the connection.
func (cm *ConnectionManager) DisconnectUser(userID int64, reason string) {
	cm.mu.Lock()
	current, exists := cm.connections[userID]
	if exists {
		delete(cm.connections, userID)
	}
	cm.mu.Unlock()

	if !exists {
		return
	}
	current.writeJSON(domain.ErrorMessage{Type: "disconnected", Message: reason})
	current.conn.Close()
}
