package bot

import (
	"fmt"

	"github.com/wfunc/minesbot/game"
	"github.com/wfunc/minesbot/transport"
)

const (
	concealedGlyph = "▫️"
	safeGlyph      = "💎"
	hazardGlyph    = "💣"
)

// gridKeyboard renders the board as a 5x5 button grid. With showAll set
// every cell is exposed, which is how a lost board is displayed. A cashout
// row is appended once the game offers it.
func gridKeyboard(g *game.Game, showAll bool) *transport.Keyboard {
	kb := &transport.Keyboard{}
	for row := 0; row < game.BoardWidth; row++ {
		buttons := make([]transport.Button, 0, game.BoardWidth)
		for col := 0; col < game.BoardWidth; col++ {
			index := row*game.BoardWidth + col
			label := concealedGlyph
			if showAll || g.IsRevealed(index) {
				if g.Cell(index) == game.CellHazard {
					label = hazardGlyph
				} else {
					label = safeGlyph
				}
			}
			buttons = append(buttons, transport.Button{
				Label: label,
				Data:  fmt.Sprintf("reveal:%d", index),
			})
		}
		kb.Rows = append(kb.Rows, buttons)
	}
	if g.CashoutOffered() {
		kb.Rows = append(kb.Rows, []transport.Button{{Label: "Cash Out", Data: "cashout"}})
	}
	return kb
}
