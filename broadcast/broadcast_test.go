package broadcast

import (
	"errors"
	"os"
	"testing"

	"github.com/wfunc/minesbot/ledger"
	"github.com/wfunc/minesbot/logger"
	"github.com/wfunc/minesbot/transport"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

// MockSender is a test double for the Sender interface.
type MockSender struct {
	Sent    []int64
	FailFor map[int64]error
}

func (m *MockSender) Send(chatID int64, text string, kb *transport.Keyboard) error {
	if err := m.FailFor[chatID]; err != nil {
		return err
	}
	m.Sent = append(m.Sent, chatID)
	return nil
}

func TestToAll_RecordsEveryDelivery(t *testing.T) {
	store := ledger.NewStore(1000)
	store.Ensure(1, "alice")
	store.Ensure(2, "bob")
	store.Ensure(3, "carol")

	blocked := errors.New("blocked")
	sender := &MockSender{FailFor: map[int64]error{2: blocked}}
	caster := New(store, sender)

	deliveries := caster.ToAll("hello")

	if len(deliveries) != 3 {
		t.Fatalf("Expected 3 deliveries, got %d", len(deliveries))
	}
	for i, want := range []int64{1, 2, 3} {
		if deliveries[i].UserID != want {
			t.Errorf("Delivery %d: expected user %d, got %d", i, want, deliveries[i].UserID)
		}
	}
	if deliveries[0].Err != nil || deliveries[2].Err != nil {
		t.Error("Reachable users should have no error")
	}
	if !errors.Is(deliveries[1].Err, blocked) {
		t.Errorf("Blocked user should carry the send error, got %v", deliveries[1].Err)
	}
	if len(sender.Sent) != 2 {
		t.Errorf("Expected 2 successful sends, got %d", len(sender.Sent))
	}
}

func TestToAll_EmptyStore(t *testing.T) {
	caster := New(ledger.NewStore(1000), &MockSender{})
	if deliveries := caster.ToAll("hello"); len(deliveries) != 0 {
		t.Errorf("Expected no deliveries, got %d", len(deliveries))
	}
}
