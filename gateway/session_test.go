package gateway

import (
	"net"
	"testing"
)

// MockConn is a test double for the Conn interface.
type MockConn struct{}

func (m *MockConn) Send(msgID uint16, data []byte) error { return nil }
func (m *MockConn) ReadPacket() (*Packet, error)         { return nil, nil }
func (m *MockConn) Close() error                         { return nil }
func (m *MockConn) RemoteAddr() net.Addr                 { return &net.TCPAddr{} }

func TestNewManager(t *testing.T) {
	manager := NewManager()
	if manager == nil {
		t.Fatal("NewManager should not return nil")
	}
	if manager.sessions == nil {
		t.Fatal("NewManager should initialize the sessions map")
	}
}

func TestManager_Add_Get_Remove(t *testing.T) {
	manager := NewManager()
	sessionID := "test_session_1"
	sess := NewSession(sessionID, &MockConn{})

	manager.Add(sess)
	if len(manager.sessions) != 1 {
		t.Fatalf("Expected session count to be 1, got %d", len(manager.sessions))
	}

	retrievedSess, exists := manager.Get(sessionID)
	if !exists {
		t.Fatal("Get should find the added session")
	}
	if retrievedSess != sess {
		t.Fatal("Get should return the same session instance")
	}

	manager.Remove(sessionID)
	if len(manager.sessions) != 0 {
		t.Fatalf("Expected session count to be 0 after removal, got %d", len(manager.sessions))
	}

	_, exists = manager.Get(sessionID)
	if exists {
		t.Fatal("Get should not find the removed session")
	}
}

func TestManager_GetByUserID(t *testing.T) {
	manager := NewManager()

	sess1 := NewSession("session1", &MockConn{})
	sess1.UserID = 100

	sess2 := NewSession("session2", &MockConn{})
	sess2.UserID = 200

	sess3 := NewSession("session3", &MockConn{})
	sess3.UserID = 100

	manager.Add(sess1)
	manager.Add(sess2)
	manager.Add(sess3)

	if got := manager.GetByUserID(100); len(got) != 2 {
		t.Errorf("Expected 2 sessions for UserID 100, got %d", len(got))
	}
	if got := manager.GetByUserID(200); len(got) != 1 {
		t.Errorf("Expected 1 session for UserID 200, got %d", len(got))
	}
	if got := manager.GetByUserID(300); len(got) != 0 {
		t.Errorf("Expected 0 sessions for UserID 300, got %d", len(got))
	}
}

func TestSession_NextMessageID(t *testing.T) {
	sess := NewSession("test_session", &MockConn{})

	first := sess.NextMessageID()
	second := sess.NextMessageID()
	if first != 1 || second != 2 {
		t.Errorf("Expected message IDs 1 and 2, got %d and %d", first, second)
	}
}
