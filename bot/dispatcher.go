// bot parses user commands and cell actions, applies them to the ledger
// and board engine, and formats the replies.
package bot

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/wfunc/minesbot/broadcast"
	"github.com/wfunc/minesbot/game"
	"github.com/wfunc/minesbot/ledger"
	"github.com/wfunc/minesbot/logger"
	"github.com/wfunc/minesbot/monitor"
	"github.com/wfunc/minesbot/services"
	"github.com/wfunc/minesbot/transport"
)

const helpText = "🎮 Mines Game Bot Help 🎮\n\n" +
	"/start - Initialize your account\n" +
	"/help - Show this help message\n" +
	"/balance - Check your balance\n" +
	"/mine <amount> <mines> - Start a new game\n" +
	"/bonus - Claim bonus\n" +
	"/gift <amount> (reply to user) - Gift Hiwa\n" +
	"/ledboard - Show top players\n" +
	"/cashout - Collect your winnings\n" +
	"\nAdmin Commands:\n" +
	"/broadcast <msg> - Message all users\n" +
	"/resetdata - Reset all data\n" +
	"/setbalance <user_id> <amount> - Set user balance"

// Options carries the tunables the dispatcher needs from configuration.
type Options struct {
	AdminID         int64
	BonusAmount     int64
	LeaderboardSize int
}

type Dispatcher struct {
	store     *ledger.Store
	games     *services.GameService
	messenger transport.Messenger
	caster    broadcast.Broadcaster
	mon       *monitor.Monitor
	opts      Options
}

func NewDispatcher(store *ledger.Store, games *services.GameService, messenger transport.Messenger, caster broadcast.Broadcaster, mon *monitor.Monitor, opts Options) *Dispatcher {
	if opts.LeaderboardSize <= 0 {
		opts.LeaderboardSize = 10
	}
	return &Dispatcher{
		store:     store,
		games:     games,
		messenger: messenger,
		caster:    caster,
		mon:       mon,
		opts:      opts,
	}
}

// Run processes events until the messenger's event channel closes. One
// event is handled to completion before the next is taken.
func (d *Dispatcher) Run() {
	for ev := range d.messenger.Events() {
		d.Handle(ev)
	}
}

func (d *Dispatcher) Handle(ev transport.Event) {
	start := time.Now()

	switch ev.Kind {
	case transport.EventCommand:
		d.handleCommand(ev)
	case transport.EventAction:
		d.handleAction(ev)
	}

	if d.mon != nil {
		d.mon.IncCommandsHandled()
		d.mon.ObserveCommandLatency(time.Since(start))
		d.mon.SetKnownAccounts(d.store.Len())
		d.mon.SetActiveGames(d.store.ActiveGames())
	}
}

func (d *Dispatcher) handleCommand(ev transport.Event) {
	switch ev.Command {
	case "start":
		d.handleStart(ev)
	case "help":
		d.reply(ev, helpText)
	case "balance":
		balance := d.store.Ensure(ev.From.ID, ev.From.Name)
		d.reply(ev, fmt.Sprintf("Your balance: ₹%d", balance))
	case "bonus":
		d.handleBonus(ev)
	case "mine":
		d.handleMine(ev)
	case "gift":
		d.handleGift(ev)
	case "cashout":
		d.handleCashout(ev)
	case "ledboard":
		d.handleLeaderboard(ev)
	case "broadcast":
		d.handleBroadcast(ev)
	case "setbalance":
		d.handleSetBalance(ev)
	case "resetdata":
		d.handleResetData(ev)
	default:
		logger.Log.Debugf("Ignoring unknown command %q from user %d", ev.Command, ev.From.ID)
	}
}

func (d *Dispatcher) handleStart(ev transport.Event) {
	balance := d.store.Ensure(ev.From.ID, ev.From.Name)
	kb := &transport.Keyboard{Rows: [][]transport.Button{{
		{Label: "❓ Help", Data: "help"},
		{Label: "🏆 Leaderboard", Data: "ledboard"},
	}}}
	d.send(ev.ChatID, fmt.Sprintf("Welcome to Mines Game Bot!\nBalance: ₹%d", balance), kb)
}

func (d *Dispatcher) handleBonus(ev transport.Event) {
	// Deliberately no cooldown: the bonus is claimable on every invocation.
	if _, err := d.store.Credit(ev.From.ID, ev.From.Name, d.opts.BonusAmount); err != nil {
		logger.Log.Errorf("Bonus credit for user %d failed: %v", ev.From.ID, err)
		return
	}
	d.reply(ev, fmt.Sprintf("You received ₹%d bonus!", d.opts.BonusAmount))
}

func (d *Dispatcher) handleMine(ev transport.Event) {
	if len(ev.Args) != 2 {
		d.reply(ev, "Usage: /mine <amount> <mines>")
		return
	}
	amount, err1 := strconv.ParseInt(ev.Args[0], 10, 64)
	hazards, err2 := strconv.Atoi(ev.Args[1])
	if err1 != nil || err2 != nil {
		d.reply(ev, "Invalid input.")
		return
	}

	g, err := d.games.Start(ev.From.ID, ev.From.Name, amount, hazards)
	switch {
	case errors.Is(err, game.ErrInvalidHazardCount):
		d.reply(ev, "Mines must be between 1 and 24.")
		return
	case errors.Is(err, game.ErrInvalidWager):
		d.reply(ev, "Invalid input.")
		return
	case errors.Is(err, ledger.ErrInsufficientBalance):
		d.reply(ev, "Insufficient balance.")
		return
	case err != nil:
		logger.Log.Errorf("Starting game for user %d failed: %v", ev.From.ID, err)
		return
	}

	text := fmt.Sprintf("Game started with ₹%d and %d mines.\nClick to reveal gems!", amount, hazards)
	d.send(ev.ChatID, text, gridKeyboard(g, false))
}

func (d *Dispatcher) handleGift(ev transport.Event) {
	if len(ev.Args) < 1 || ev.ReplyTo == nil {
		d.reply(ev, "Reply to a user and use: /gift <amount>")
		return
	}
	amount, err := strconv.ParseInt(ev.Args[0], 10, 64)
	if err != nil {
		d.reply(ev, "Invalid amount.")
		return
	}

	err = d.store.Transfer(ev.From.ID, ev.ReplyTo.ID, ev.ReplyTo.Name, amount)
	switch {
	case errors.Is(err, ledger.ErrInvalidAmount):
		d.reply(ev, "Invalid amount.")
	case errors.Is(err, ledger.ErrInsufficientBalance):
		d.reply(ev, "Insufficient balance.")
	case err != nil:
		logger.Log.Errorf("Gift from %d to %d failed: %v", ev.From.ID, ev.ReplyTo.ID, err)
	default:
		d.reply(ev, fmt.Sprintf("You gifted ₹%d Hiwa to @%s!", amount, ev.ReplyTo.Name))
	}
}

func (d *Dispatcher) handleCashout(ev transport.Event) {
	reward, _, err := d.games.Cashout(ev.From.ID)
	switch {
	case errors.Is(err, game.ErrNoActiveGame):
		d.reply(ev, "No active game.")
	case errors.Is(err, game.ErrNothingRevealed):
		d.reply(ev, "Reveal at least 1 cell to cash out!")
	case err != nil:
		logger.Log.Errorf("Cashout for user %d failed: %v", ev.From.ID, err)
	default:
		d.reply(ev, fmt.Sprintf("Cashout successful! You won ₹%d", reward))
	}
}

func (d *Dispatcher) handleLeaderboard(ev transport.Event) {
	entries := d.store.Leaderboard(d.opts.LeaderboardSize)
	if len(entries) == 0 {
		d.reply(ev, "No data available.")
		return
	}

	var b strings.Builder
	b.WriteString("🏆 Leaderboard: Top Players 🏆\n\n")
	for i, e := range entries {
		name := e.Name
		if name == "" {
			name = strconv.FormatInt(e.UserID, 10)
		}
		fmt.Fprintf(&b, "%d. %s - ₹%d\n", i+1, name, e.Balance)
	}
	d.reply(ev, b.String())
}

func (d *Dispatcher) handleBroadcast(ev transport.Event) {
	if !d.isAdmin(ev) {
		return
	}
	msg := strings.Join(ev.Args, " ")
	deliveries := d.caster.ToAll("[Broadcast]\n" + msg)

	failed := 0
	for _, delivery := range deliveries {
		if delivery.Err != nil {
			failed++
		}
	}
	if failed > 0 {
		logger.Log.Warnf("Broadcast reached %d of %d users", len(deliveries)-failed, len(deliveries))
		if d.mon != nil {
			d.mon.AddBroadcastFailures(failed)
		}
	}
	d.reply(ev, "Broadcast sent.")
}

func (d *Dispatcher) handleSetBalance(ev transport.Event) {
	if !d.isAdmin(ev) {
		return
	}
	if len(ev.Args) != 2 {
		d.reply(ev, "Usage: /setbalance <user_id> <amount>")
		return
	}
	userID, err1 := strconv.ParseInt(ev.Args[0], 10, 64)
	amount, err2 := strconv.ParseInt(ev.Args[1], 10, 64)
	if err1 != nil || err2 != nil {
		d.reply(ev, "Usage: /setbalance <user_id> <amount>")
		return
	}
	d.store.SetBalance(userID, amount)
	d.reply(ev, "Balance set.")
}

func (d *Dispatcher) handleResetData(ev transport.Event) {
	if !d.isAdmin(ev) {
		return
	}
	d.store.ResetAll()
	d.reply(ev, "All data reset.")
}

func (d *Dispatcher) handleAction(ev transport.Event) {
	switch {
	case ev.Data == "help":
		d.reply(ev, helpText)
	case ev.Data == "ledboard":
		d.handleLeaderboard(ev)
	case ev.Data == "cashout":
		d.handleCashout(ev)
	case strings.HasPrefix(ev.Data, "reveal:"):
		d.handleReveal(ev)
	default:
		logger.Log.Debugf("Ignoring unknown action %q from user %d", ev.Data, ev.From.ID)
	}
}

func (d *Dispatcher) handleReveal(ev transport.Event) {
	index, err := strconv.Atoi(strings.TrimPrefix(ev.Data, "reveal:"))
	if err != nil {
		return
	}

	res, g, err := d.games.Reveal(ev.From.ID, index)
	switch {
	case errors.Is(err, game.ErrNoActiveGame), errors.Is(err, game.ErrGameNotActive):
		d.edit(ev, "No active game.", nil)
		return
	case err != nil:
		// Out-of-range indices only come from malformed action data.
		logger.Log.Debugf("Reveal %d for user %d rejected: %v", index, ev.From.ID, err)
		return
	}

	if res.Repeat {
		return
	}
	if res.Hit {
		d.edit(ev, "BOOM! You hit a bomb 💣\nGame over.", gridKeyboard(g, true))
		return
	}
	d.editKeyboard(ev, gridKeyboard(g, false))
}

// isAdmin gates administrative commands. Non-admin invocations are
// silently ignored, matching the user-facing contract.
func (d *Dispatcher) isAdmin(ev transport.Event) bool {
	if ev.From.ID == d.opts.AdminID {
		return true
	}
	logger.Log.Debugf("User %d attempted admin command %q", ev.From.ID, ev.Command)
	return false
}

func (d *Dispatcher) reply(ev transport.Event, text string) {
	d.send(ev.ChatID, text, nil)
}

func (d *Dispatcher) send(chatID int64, text string, kb *transport.Keyboard) {
	if err := d.messenger.Send(chatID, text, kb); err != nil {
		logger.Log.Warnf("Send to chat %d failed: %v", chatID, err)
	}
}

func (d *Dispatcher) edit(ev transport.Event, text string, kb *transport.Keyboard) {
	if err := d.messenger.EditText(ev.ChatID, ev.MessageID, text, kb); err != nil {
		logger.Log.Warnf("Edit in chat %d failed: %v", ev.ChatID, err)
	}
}

func (d *Dispatcher) editKeyboard(ev transport.Event, kb *transport.Keyboard) {
	if err := d.messenger.EditKeyboard(ev.ChatID, ev.MessageID, kb); err != nil {
		logger.Log.Warnf("Keyboard edit in chat %d failed: %v", ev.ChatID, err)
	}
}
