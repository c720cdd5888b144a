package game

// Status is the lifecycle state of a game. StatusLost and StatusCashed are
// terminal: no reveal or cashout leaves them.
type Status int

const (
	StatusActive Status = iota
	StatusLost
	StatusCashed
)

func (s Status) String() string {
	switch s {
	case StatusActive:
		return "active"
	case StatusLost:
		return "lost"
	case StatusCashed:
		return "cashed"
	}
	return "unknown"
}

// RevealResult describes the outcome of a single reveal.
type RevealResult struct {
	Repeat       bool // index was already revealed, nothing changed
	Hit          bool // a hazard was revealed, the game is lost
	OfferCashout bool // client should present a cashout control
}

// Game is one in-progress or settled wager on a generated board.
type Game struct {
	wager    int64
	hazards  int
	cells    [BoardCells]CellKind
	revealed map[int]bool
	status   Status
}

// New debits nothing by itself; it only validates the wager, generates a
// board and returns a fresh active game. Balance accounting belongs to the
// caller.
func New(wager int64, hazardCount int) (*Game, error) {
	if wager <= 0 {
		return nil, ErrInvalidWager
	}
	cells, _, err := Generate(hazardCount)
	if err != nil {
		return nil, err
	}
	return &Game{
		wager:    wager,
		hazards:  hazardCount,
		cells:    cells,
		revealed: make(map[int]bool),
		status:   StatusActive,
	}, nil
}

func (g *Game) Wager() int64 {
	return g.wager
}

func (g *Game) HazardCount() int {
	return g.hazards
}

func (g *Game) Status() Status {
	return g.status
}

func (g *Game) Cell(index int) CellKind {
	return g.cells[index]
}

func (g *Game) IsRevealed(index int) bool {
	return g.revealed[index]
}

func (g *Game) RevealedCount() int {
	return len(g.revealed)
}

// CashoutOffered reports whether the client should show a cashout control:
// at least two cells revealed on a still-active game.
func (g *Game) CashoutOffered() bool {
	return g.status == StatusActive && len(g.revealed) >= 2
}

// Reveal uncovers the cell at index. Revealing an already-revealed cell is
// a no-op reported via Repeat. Revealing a hazard moves the game to
// StatusLost. Revealing every safe cell does not settle the game; an
// explicit cashout is always required.
func (g *Game) Reveal(index int) (RevealResult, error) {
	if g.status != StatusActive {
		return RevealResult{}, ErrGameNotActive
	}
	if index < 0 || index >= BoardCells {
		return RevealResult{}, ErrIndexOutOfRange
	}
	if g.revealed[index] {
		return RevealResult{Repeat: true, OfferCashout: g.CashoutOffered()}, nil
	}

	g.revealed[index] = true
	if g.cells[index] == CellHazard {
		g.status = StatusLost
		return RevealResult{Hit: true}, nil
	}
	return RevealResult{OfferCashout: g.CashoutOffered()}, nil
}

// Reward is the settlement amount for a wager with revealedCount cells
// uncovered: wager + floor(wager * revealedCount * 0.3), in integer math.
func Reward(wager int64, revealedCount int) int64 {
	return wager + wager*int64(revealedCount)*3/10
}

// Cashout settles an active game favorably. At least one cell must have
// been revealed. The reward is returned for the caller to credit.
func (g *Game) Cashout() (int64, error) {
	if g.status != StatusActive {
		return 0, ErrGameNotActive
	}
	if len(g.revealed) == 0 {
		return 0, ErrNothingRevealed
	}
	g.status = StatusCashed
	return Reward(g.wager, len(g.revealed)), nil
}
