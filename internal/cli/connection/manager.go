// Package connection provides connection management for grcbridge-cli.
package connection

// Manager manages connections to grcbridge servers.
type Manager struct {
	current *Connection
}

// Connection represents a connection profile for a grcbridge server.
type Connection struct {
	Name   string
	Server string
	TLS    bool
}

// NewManager creates a new connection manager.
func NewManager() *Manager {
	return &Manager{}
}

// Connect sets the current connection profile.
func (m *Manager) Connect(conn *Connection) error {
	m.current = conn
	return nil
}

// Disconnect clears the current connection.
func (m *Manager) Disconnect() {
	m.current = nil
}

// Current returns the current connection.
func (m *Manager) Current() *Connection {
	return m.current
}

// IsConnected returns true if a connection profile is set.
func (m *Manager) IsConnected() bool {
	return m.current != nil
}
