package ledger

import (
	"testing"

	"github.com/wfunc/minesbot/game"
)

func TestEnsure_CreatesWithStartBalance(t *testing.T) {
	store := NewStore(1000)

	balance := store.Ensure(1, "alice")
	if balance != 1000 {
		t.Errorf("Expected starting balance 1000, got %d", balance)
	}
	if store.Len() != 1 {
		t.Errorf("Expected 1 account, got %d", store.Len())
	}

	// Second call returns the existing account untouched.
	store.Credit(1, "", 50)
	if balance := store.Ensure(1, "alice"); balance != 1050 {
		t.Errorf("Ensure should not reset an existing account, got %d", balance)
	}
	if store.Len() != 1 {
		t.Errorf("Ensure should not duplicate accounts, got %d", store.Len())
	}
}

func TestCredit_RejectsNonPositive(t *testing.T) {
	store := NewStore(1000)
	if _, err := store.Credit(1, "alice", 0); err != ErrInvalidAmount {
		t.Errorf("Expected ErrInvalidAmount for 0, got %v", err)
	}
	if _, err := store.Credit(1, "alice", -5); err != ErrInvalidAmount {
		t.Errorf("Expected ErrInvalidAmount for -5, got %v", err)
	}
}

func TestTransfer_MovesExactly(t *testing.T) {
	store := NewStore(1000)
	store.Ensure(1, "alice")

	if err := store.Transfer(1, 2, "bob", 300); err != nil {
		t.Fatalf("Transfer failed: %v", err)
	}

	sender, _ := store.Balance(1)
	receiver, _ := store.Balance(2)
	if sender != 700 {
		t.Errorf("Expected sender balance 700, got %d", sender)
	}
	if receiver != 1300 {
		t.Errorf("Expected receiver balance 1300, got %d", receiver)
	}
	if sender+receiver != 2000 {
		t.Errorf("Transfer must conserve total funds, got %d", sender+receiver)
	}
}

func TestTransfer_InsufficientFunds(t *testing.T) {
	store := NewStore(1000)
	store.Ensure(1, "alice")
	store.Ensure(2, "bob")

	if err := store.Transfer(1, 2, "bob", 5000); err != ErrInsufficientBalance {
		t.Fatalf("Expected ErrInsufficientBalance, got %v", err)
	}

	sender, _ := store.Balance(1)
	receiver, _ := store.Balance(2)
	if sender != 1000 || receiver != 1000 {
		t.Errorf("Failed transfer must not mutate balances, got %d and %d", sender, receiver)
	}
}

func TestTransfer_UnknownSender(t *testing.T) {
	store := NewStore(1000)
	if err := store.Transfer(1, 2, "bob", 10); err != ErrInsufficientBalance {
		t.Errorf("Expected ErrInsufficientBalance for unknown sender, got %v", err)
	}
	if store.Len() != 0 {
		t.Errorf("Failed transfer must not register accounts, got %d", store.Len())
	}
}

func TestTransfer_SelfIsNetZero(t *testing.T) {
	store := NewStore(1000)
	store.Ensure(1, "alice")

	if err := store.Transfer(1, 1, "alice", 400); err != nil {
		t.Fatalf("Self transfer failed: %v", err)
	}
	if balance, _ := store.Balance(1); balance != 1000 {
		t.Errorf("Self transfer must not change the balance, got %d", balance)
	}
}

func TestSetBalance_Overwrites(t *testing.T) {
	store := NewStore(1000)
	store.SetBalance(7, 12345)

	balance, ok := store.Balance(7)
	if !ok {
		t.Fatal("SetBalance should register the account")
	}
	if balance != 12345 {
		t.Errorf("Expected balance 12345, got %d", balance)
	}
}

func TestResetAll_DiscardsEverything(t *testing.T) {
	store := NewStore(1000)
	store.Ensure(1, "alice")
	store.Ensure(2, "bob")

	store.ResetAll()
	if store.Len() != 0 {
		t.Errorf("Expected empty store after reset, got %d accounts", store.Len())
	}
	if _, ok := store.Balance(1); ok {
		t.Error("Account should be gone after reset")
	}
}

func TestLeaderboard_OrderAndLimit(t *testing.T) {
	store := NewStore(1000)
	store.SetBalance(1, 500)
	store.SetBalance(2, 900)
	store.SetBalance(3, 700)
	store.SetBalance(4, 100)

	entries := store.Leaderboard(3)
	if len(entries) != 3 {
		t.Fatalf("Expected 3 entries, got %d", len(entries))
	}
	want := []int64{2, 3, 1}
	for i, userID := range want {
		if entries[i].UserID != userID {
			t.Errorf("Position %d: expected user %d, got %d", i, userID, entries[i].UserID)
		}
	}
}

func TestLeaderboard_TiesKeepFirstSeenOrder(t *testing.T) {
	store := NewStore(1000)
	store.Ensure(10, "first")
	store.Ensure(20, "second")
	store.Ensure(30, "third")

	entries := store.Leaderboard(10)
	want := []int64{10, 20, 30}
	for i, userID := range want {
		if entries[i].UserID != userID {
			t.Errorf("Position %d: expected user %d, got %d", i, userID, entries[i].UserID)
		}
	}
}

func TestUserIDs_FirstSeenOrder(t *testing.T) {
	store := NewStore(1000)
	store.Ensure(30, "c")
	store.Ensure(10, "a")
	store.Ensure(20, "b")

	ids := store.UserIDs()
	want := []int64{30, 10, 20}
	if len(ids) != len(want) {
		t.Fatalf("Expected %d ids, got %d", len(want), len(ids))
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("Position %d: expected %d, got %d", i, want[i], ids[i])
		}
	}
}

func TestActiveGames(t *testing.T) {
	store := NewStore(1000)
	store.Ensure(1, "alice")
	store.Ensure(2, "bob")

	if store.ActiveGames() != 0 {
		t.Errorf("Expected 0 active games, got %d", store.ActiveGames())
	}

	err := store.Update(1, "", func(a *Account) error {
		g, err := game.New(100, 5)
		if err != nil {
			return err
		}
		a.Game = g
		return nil
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	if store.ActiveGames() != 1 {
		t.Errorf("Expected 1 active game, got %d", store.ActiveGames())
	}
}
