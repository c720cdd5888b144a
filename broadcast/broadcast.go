// broadcast fans an administrative message out to every known account and
// records the outcome per recipient instead of swallowing failures.
package broadcast

import (
	"github.com/wfunc/minesbot/ledger"
	"github.com/wfunc/minesbot/logger"
	"github.com/wfunc/minesbot/transport"
)

// Delivery is the outcome of one broadcast send.
type Delivery struct {
	UserID int64
	Err    error
}

// Broadcaster fans a message out to every known account.
type Broadcaster interface {
	ToAll(text string) []Delivery
}

// Sender is the outbound half of a Messenger.
type Sender interface {
	Send(chatID int64, text string, kb *transport.Keyboard) error
}

// LedgerBroadcaster sends to every account registered in the ledger, in
// first-seen order. A failed send is logged and recorded; the loop
// continues.
type LedgerBroadcaster struct {
	store  *ledger.Store
	sender Sender
}

func New(store *ledger.Store, sender Sender) *LedgerBroadcaster {
	return &LedgerBroadcaster{store: store, sender: sender}
}

func (b *LedgerBroadcaster) ToAll(text string) []Delivery {
	ids := b.store.UserIDs()
	deliveries := make([]Delivery, 0, len(ids))
	for _, id := range ids {
		err := b.sender.Send(id, text, nil)
		if err != nil {
			logger.Log.Warnf("Broadcast to user %d failed: %v", id, err)
		}
		deliveries = append(deliveries, Delivery{UserID: id, Err: err})
	}
	return deliveries
}
