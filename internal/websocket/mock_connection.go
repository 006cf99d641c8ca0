package websocket

import (
	"errors"
	"sync"
	"time"
)

// MockMessage is one frame written to a MockConnection
type MockMessage struct {
	Type int
	Data []byte
}

// MockConnection records writes for tests. Reads block until Close.
type MockConnection struct {
	mu sync.Mutex

	WriteErr        error
	WrittenMessages []MockMessage
	WriteDeadline   time.Time
	ReadLimit       int64
	Closed          bool

	closed chan struct{}
}

// NewMockConnection creates an open mock connection
func NewMockConnection() *MockConnection {
	return &MockConnection{closed: make(chan struct{})}
}

// WriteMessage implements Connection
func (m *MockConnection) WriteMessage(messageType int, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.WriteErr != nil {
		return m.WriteErr
	}
	m.WrittenMessages = append(m.WrittenMessages, MockMessage{Type: messageType, Data: append([]byte(nil), data...)})
	return nil
}

// ReadMessage implements Connection
func (m *MockConnection) ReadMessage() (int, []byte, error) {
	<-m.closed
	return 0, nil, errors.New("connection closed")
}

// SetWriteDeadline implements Connection
func (m *MockConnection) SetWriteDeadline(t time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.WriteDeadline = t
	return nil
}

// SetReadLimit implements Connection
func (m *MockConnection) SetReadLimit(limit int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ReadLimit = limit
}

// Close implements Connection
func (m *MockConnection) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.Closed {
		m.Closed = true
		close(m.closed)
	}
	return nil
}

// Messages returns a copy of the written frames
func (m *MockConnection) Messages() []MockMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]MockMessage(nil), m.WrittenMessages...)
}
