// services orchestrates wager, reveal and cashout across the ledger and
// the board engine.
package services

import (
	"github.com/wfunc/minesbot/game"
	"github.com/wfunc/minesbot/ledger"
)

type GameService struct {
	store *ledger.Store
}

func NewGameService(store *ledger.Store) *GameService {
	return &GameService{store: store}
}

// Start places a wager: it validates the inputs and the balance, debits
// the wager and installs a fresh active game, replacing any prior game.
// Nothing is mutated when any check fails.
func (s *GameService) Start(userID int64, name string, wager int64, hazardCount int) (*game.Game, error) {
	var g *game.Game
	err := s.store.Update(userID, name, func(a *ledger.Account) error {
		if wager <= 0 {
			return game.ErrInvalidWager
		}
		if hazardCount < game.MinHazards || hazardCount > game.MaxHazards {
			return game.ErrInvalidHazardCount
		}
		if a.Balance < wager {
			return ledger.ErrInsufficientBalance
		}

		ng, err := game.New(wager, hazardCount)
		if err != nil {
			return err
		}
		a.Balance -= wager
		a.Game = ng
		g = ng
		return nil
	})
	if err != nil {
		return nil, err
	}
	return g, nil
}

// Reveal uncovers a cell on the user's active game. The game is returned
// alongside the result so the caller can render the board.
func (s *GameService) Reveal(userID int64, index int) (game.RevealResult, *game.Game, error) {
	var (
		res game.RevealResult
		g   *game.Game
	)
	err := s.store.Update(userID, "", func(a *ledger.Account) error {
		if a.Game == nil || a.Game.Status() != game.StatusActive {
			return game.ErrNoActiveGame
		}
		r, err := a.Game.Reveal(index)
		if err != nil {
			return err
		}
		res = r
		g = a.Game
		return nil
	})
	if err != nil {
		return game.RevealResult{}, nil, err
	}
	return res, g, nil
}

// Cashout settles the user's active game, crediting the reward. It returns
// the reward and the new balance.
func (s *GameService) Cashout(userID int64) (reward, balance int64, err error) {
	err = s.store.Update(userID, "", func(a *ledger.Account) error {
		if a.Game == nil || a.Game.Status() != game.StatusActive {
			return game.ErrNoActiveGame
		}
		r, err := a.Game.Cashout()
		if err != nil {
			return err
		}
		a.Balance += r
		reward = r
		balance = a.Balance
		return nil
	})
	return reward, balance, err
}
