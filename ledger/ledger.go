// ledger holds every known account in memory. The store is an explicitly
// owned object injected into the layers that need it; nothing survives a
// process restart.
package ledger

import (
	"errors"
	"sort"
	"sync"

	"github.com/wfunc/minesbot/game"
)

var (
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrInvalidAmount       = errors.New("amount must be positive")
)

// Account is one user's balance and their current game, if any. A terminal
// game stays referenced until a new wager replaces it, so "never played"
// (nil) and "finished game" remain distinguishable values.
type Account struct {
	UserID  int64
	Name    string
	Balance int64
	Game    *game.Game

	seq int // insertion order, keeps leaderboard ties stable
}

// Entry is a leaderboard row.
type Entry struct {
	UserID  int64
	Name    string
	Balance int64
}

type Store struct {
	mu           sync.RWMutex
	accounts     map[int64]*Account
	startBalance int64
	nextSeq      int
}

func NewStore(startBalance int64) *Store {
	return &Store{
		accounts:     make(map[int64]*Account),
		startBalance: startBalance,
	}
}

// ensure returns the account for userID, creating it with the starting
// balance on first sight. Caller must hold mu.
func (s *Store) ensure(userID int64, name string) *Account {
	a, ok := s.accounts[userID]
	if !ok {
		a = &Account{
			UserID:  userID,
			Name:    name,
			Balance: s.startBalance,
			seq:     s.nextSeq,
		}
		s.nextSeq++
		s.accounts[userID] = a
		return a
	}
	if name != "" {
		a.Name = name
	}
	return a
}

// Ensure registers the account if needed and returns its balance.
func (s *Store) Ensure(userID int64, name string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ensure(userID, name).Balance
}

// Balance returns the balance of a known account.
func (s *Store) Balance(userID int64) (int64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.accounts[userID]
	if !ok {
		return 0, false
	}
	return a.Balance, true
}

// Credit adds amount to the account, registering it first if needed.
func (s *Store) Credit(userID int64, name string, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	a := s.ensure(userID, name)
	a.Balance += amount
	return a.Balance, nil
}

// Transfer moves amount from sender to receiver. The sender must already
// hold at least amount; the receiver is registered lazily. Nothing is
// mutated on failure.
func (s *Store) Transfer(senderID, receiverID int64, receiverName string, amount int64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	sender, ok := s.accounts[senderID]
	if !ok || sender.Balance < amount {
		return ErrInsufficientBalance
	}
	receiver := s.ensure(receiverID, receiverName)
	sender.Balance -= amount
	receiver.Balance += amount
	return nil
}

// Update runs fn against the account under the store lock, registering the
// account first if needed. fn must not mutate the account when it returns
// an error.
func (s *Store) Update(userID int64, name string, fn func(a *Account) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.ensure(userID, name))
}

// SetBalance overwrites the balance unconditionally. Operator use only.
func (s *Store) SetBalance(userID, amount int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensure(userID, "").Balance = amount
}

// ResetAll discards every account and its game irrecoverably.
func (s *Store) ResetAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts = make(map[int64]*Account)
	s.nextSeq = 0
}

// Leaderboard returns up to limit accounts ordered by descending balance.
// Ties keep first-seen order.
func (s *Store) Leaderboard(limit int) []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	accounts := make([]*Account, 0, len(s.accounts))
	for _, a := range s.accounts {
		accounts = append(accounts, a)
	}
	sort.Slice(accounts, func(i, j int) bool {
		if accounts[i].Balance != accounts[j].Balance {
			return accounts[i].Balance > accounts[j].Balance
		}
		return accounts[i].seq < accounts[j].seq
	})

	if limit > 0 && len(accounts) > limit {
		accounts = accounts[:limit]
	}
	entries := make([]Entry, 0, len(accounts))
	for _, a := range accounts {
		entries = append(entries, Entry{UserID: a.UserID, Name: a.Name, Balance: a.Balance})
	}
	return entries
}

// UserIDs lists every known account in first-seen order.
func (s *Store) UserIDs() []int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	accounts := make([]*Account, 0, len(s.accounts))
	for _, a := range s.accounts {
		accounts = append(accounts, a)
	}
	sort.Slice(accounts, func(i, j int) bool {
		return accounts[i].seq < accounts[j].seq
	})

	ids := make([]int64, 0, len(accounts))
	for _, a := range accounts {
		ids = append(ids, a.UserID)
	}
	return ids
}

// Len reports the number of known accounts.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.accounts)
}

// ActiveGames counts accounts with a game still in play.
func (s *Store) ActiveGames() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, a := range s.accounts {
		if a.Game != nil && a.Game.Status() == game.StatusActive {
			count++
		}
	}
	return count
}
