// transport defines the render-agnostic surface between the command
// dispatcher and a messaging platform. Implementations turn platform
// traffic into Events and deliver outbound messages and button grids.
package transport

// EventKind distinguishes parsed text commands from button actions.
type EventKind int

const (
	EventCommand EventKind = iota
	EventAction
)

// User identifies the author of an event or the target of a reply.
type User struct {
	ID   int64
	Name string
}

// Event is a single user interaction delivered by a Messenger.
type Event struct {
	Kind      EventKind
	From      User
	ChatID    int64
	MessageID int // message hosting the button grid, set for actions

	// Command fields.
	Command string // command name without the leading slash
	Args    []string
	ReplyTo *User // author of the replied-to message, if any

	// Action payload, e.g. "reveal:7", "cashout".
	Data string
}

// Button is one keyboard cell: a visible label and the action data sent
// back when pressed.
type Button struct {
	Label string
	Data  string
}

// Keyboard describes an interactive button grid without committing to any
// platform's widget types.
type Keyboard struct {
	Rows [][]Button
}

// Messenger abstracts the messaging platform.
type Messenger interface {
	Events() <-chan Event
	Send(chatID int64, text string, kb *Keyboard) error
	EditText(chatID int64, messageID int, text string, kb *Keyboard) error
	EditKeyboard(chatID int64, messageID int, kb *Keyboard) error
	Close() error
}
