package services

import (
	"testing"

	"github.com/wfunc/minesbot/game"
	"github.com/wfunc/minesbot/ledger"
)

func newService(startBalance int64) (*GameService, *ledger.Store) {
	store := ledger.NewStore(startBalance)
	return NewGameService(store), store
}

// findCell returns any cell index of the given kind.
func findCell(t *testing.T, g *game.Game, kind game.CellKind) int {
	t.Helper()
	for i := 0; i < game.BoardCells; i++ {
		if g.Cell(i) == kind {
			return i
		}
	}
	t.Fatal("board has no cell of requested kind")
	return -1
}

func TestStart_DebitsAndInstallsGame(t *testing.T) {
	svc, store := newService(1000)

	g, err := svc.Start(1, "alice", 100, 5)
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if g.HazardCount() != 5 || g.Wager() != 100 {
		t.Errorf("Unexpected game parameters: %d hazards, wager %d", g.HazardCount(), g.Wager())
	}

	balance, _ := store.Balance(1)
	if balance != 900 {
		t.Errorf("Expected balance 900 after wager, got %d", balance)
	}
	if store.ActiveGames() != 1 {
		t.Errorf("Expected 1 active game, got %d", store.ActiveGames())
	}
}

func TestStart_InsufficientBalanceMutatesNothing(t *testing.T) {
	svc, store := newService(1000)
	store.Ensure(1, "alice")

	if _, err := svc.Start(1, "alice", 5000, 5); err != ledger.ErrInsufficientBalance {
		t.Fatalf("Expected ErrInsufficientBalance, got %v", err)
	}

	balance, _ := store.Balance(1)
	if balance != 1000 {
		t.Errorf("Failed start must not touch the balance, got %d", balance)
	}
	if store.ActiveGames() != 0 {
		t.Errorf("Failed start must not install a game, got %d", store.ActiveGames())
	}
}

func TestStart_InvalidInputsMutateNothing(t *testing.T) {
	svc, store := newService(1000)
	store.Ensure(1, "alice")

	if _, err := svc.Start(1, "alice", 0, 5); err != game.ErrInvalidWager {
		t.Errorf("Expected ErrInvalidWager, got %v", err)
	}
	if _, err := svc.Start(1, "alice", 100, 0); err != game.ErrInvalidHazardCount {
		t.Errorf("Expected ErrInvalidHazardCount, got %v", err)
	}
	if _, err := svc.Start(1, "alice", 100, 25); err != game.ErrInvalidHazardCount {
		t.Errorf("Expected ErrInvalidHazardCount, got %v", err)
	}

	if balance, _ := store.Balance(1); balance != 1000 {
		t.Errorf("Failed start must not touch the balance, got %d", balance)
	}
}

func TestStart_ReplacesPriorGame(t *testing.T) {
	svc, store := newService(1000)

	first, err := svc.Start(1, "alice", 100, 5)
	if err != nil {
		t.Fatalf("First start failed: %v", err)
	}
	second, err := svc.Start(1, "alice", 200, 3)
	if err != nil {
		t.Fatalf("Second start failed: %v", err)
	}
	if first == second {
		t.Error("A new wager must install a fresh game")
	}

	balance, _ := store.Balance(1)
	if balance != 700 {
		t.Errorf("Expected balance 700 after both wagers, got %d", balance)
	}
	if store.ActiveGames() != 1 {
		t.Errorf("Expected exactly 1 active game, got %d", store.ActiveGames())
	}
}

func TestReveal_RequiresActiveGame(t *testing.T) {
	svc, store := newService(1000)
	store.Ensure(1, "alice")

	if _, _, err := svc.Reveal(1, 0); err != game.ErrNoActiveGame {
		t.Errorf("Expected ErrNoActiveGame, got %v", err)
	}
}

func TestCashout_RequiresActiveGame(t *testing.T) {
	svc, store := newService(1000)
	store.Ensure(1, "alice")

	if _, _, err := svc.Cashout(1); err != game.ErrNoActiveGame {
		t.Errorf("Expected ErrNoActiveGame, got %v", err)
	}
}

func TestCashout_RequiresReveal(t *testing.T) {
	svc, store := newService(1000)
	if _, err := svc.Start(1, "alice", 100, 5); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	if _, _, err := svc.Cashout(1); err != game.ErrNothingRevealed {
		t.Fatalf("Expected ErrNothingRevealed, got %v", err)
	}
	if balance, _ := store.Balance(1); balance != 900 {
		t.Errorf("Failed cashout must not credit anything, got %d", balance)
	}
}

func TestRevealHazard_EndsGame(t *testing.T) {
	svc, _ := newService(1000)
	g, err := svc.Start(1, "alice", 100, 5)
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	res, _, err := svc.Reveal(1, findCell(t, g, game.CellHazard))
	if err != nil {
		t.Fatalf("Reveal failed: %v", err)
	}
	if !res.Hit {
		t.Error("Hazard reveal should report a hit")
	}

	// The lost game rejects everything further.
	if _, _, err := svc.Reveal(1, findCell(t, g, game.CellSafe)); err != game.ErrNoActiveGame {
		t.Errorf("Reveal after loss expected ErrNoActiveGame, got %v", err)
	}
	if _, _, err := svc.Cashout(1); err != game.ErrNoActiveGame {
		t.Errorf("Cashout after loss expected ErrNoActiveGame, got %v", err)
	}
}

func TestPlayThrough(t *testing.T) {
	svc, store := newService(1000)

	g, err := svc.Start(1, "alice", 100, 5)
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if balance, _ := store.Balance(1); balance != 900 {
		t.Fatalf("Expected balance 900 after wager, got %d", balance)
	}

	revealed := 0
	for i := 0; i < game.BoardCells && revealed < 2; i++ {
		if g.Cell(i) != game.CellSafe {
			continue
		}
		res, _, err := svc.Reveal(1, i)
		if err != nil {
			t.Fatalf("Reveal failed: %v", err)
		}
		revealed++
		if revealed == 1 && res.OfferCashout {
			t.Error("Cashout should not be offered after the first reveal")
		}
		if revealed == 2 && !res.OfferCashout {
			t.Error("Cashout should be offered after the second reveal")
		}
	}

	reward, balance, err := svc.Cashout(1)
	if err != nil {
		t.Fatalf("Cashout failed: %v", err)
	}
	if reward != 160 {
		t.Errorf("Expected reward 160, got %d", reward)
	}
	if balance != 1060 {
		t.Errorf("Expected final balance 1060, got %d", balance)
	}
	if g.Status() != game.StatusCashed {
		t.Errorf("Expected StatusCashed, got %v", g.Status())
	}
}
