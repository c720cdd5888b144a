package gateway

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/wfunc/minesbot/logger"
	"github.com/wfunc/minesbot/transport"
)

var ErrNotConnected = errors.New("user has no open session")

type helloPayload struct {
	UserID int64  `json:"user_id"`
	Name   string `json:"name"`
}

type commandPayload struct {
	Command     string   `json:"command"`
	Args        []string `json:"args,omitempty"`
	ReplyToID   int64    `json:"reply_to_id,omitempty"`
	ReplyToName string   `json:"reply_to_name,omitempty"`
}

type actionPayload struct {
	Data      string `json:"data"`
	MessageID int    `json:"message_id,omitempty"`
}

type outButton struct {
	Label string `json:"label"`
	Data  string `json:"data"`
}

type outMessage struct {
	MessageID int           `json:"message_id"`
	Edit      bool          `json:"edit,omitempty"`
	Text      string        `json:"text,omitempty"`
	Keyboard  [][]outButton `json:"keyboard,omitempty"`
}

// Gateway implements transport.Messenger over websocket connections. Each
// connection identifies itself with a hello packet; the user ID doubles as
// the chat ID.
type Gateway struct {
	addr     string
	upgrader websocket.Upgrader
	sessions *Manager
	events   chan transport.Event
}

func New(addr string) *Gateway {
	return &Gateway{
		addr:     addr,
		sessions: NewManager(),
		events:   make(chan transport.Event, 64),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

func (g *Gateway) Start() error {
	http.HandleFunc("/ws", g.handleWebSocket)
	logger.Log.Infof("Gateway listening on %s", g.addr)
	return http.ListenAndServe(g.addr, nil)
}

func (g *Gateway) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.Infof("Failed to upgrade connection: %v", err)
		return
	}
	g.handleConnection(newWSConn(conn))
}

func (g *Gateway) handleConnection(conn Conn) {
	sess := NewSession(uuid.New().String(), conn)

	logger.Log.Infof("New connection from %s, session ID: %s", conn.RemoteAddr(), sess.GetID())

	defer func() {
		logger.Log.Infof("Connection closed, session ID: %s", sess.GetID())
		g.sessions.Remove(sess.GetID())
		conn.Close()
	}()

	// The first packet must identify the user.
	packet, err := conn.ReadPacket()
	if err != nil {
		return
	}
	if packet.MsgID != MsgTypeHello {
		logger.Log.Warnf("Session %s sent %d before hello", sess.GetID(), packet.MsgID)
		return
	}
	var hello helloPayload
	if err := json.Unmarshal(packet.Data, &hello); err != nil || hello.UserID == 0 {
		logger.Log.Warnf("Session %s sent an invalid hello", sess.GetID())
		return
	}
	sess.UserID = hello.UserID
	sess.Name = hello.Name
	g.sessions.Add(sess)
	logger.Log.Infof("Session %s identified as user %d (%s)", sess.GetID(), sess.UserID, sess.Name)

	for {
		packet, err := conn.ReadPacket()
		if err != nil {
			return
		}
		g.handlePacket(sess, packet)
	}
}

func (g *Gateway) handlePacket(sess *Session, packet *Packet) {
	switch packet.MsgID {
	case MsgTypeCommand:
		var cmd commandPayload
		if err := json.Unmarshal(packet.Data, &cmd); err != nil {
			logger.Log.Warnf("Session %s sent a malformed command packet: %v", sess.GetID(), err)
			return
		}
		ev := transport.Event{
			Kind:    transport.EventCommand,
			From:    transport.User{ID: sess.UserID, Name: sess.Name},
			ChatID:  sess.UserID,
			Command: cmd.Command,
			Args:    cmd.Args,
		}
		if cmd.ReplyToID != 0 {
			ev.ReplyTo = &transport.User{ID: cmd.ReplyToID, Name: cmd.ReplyToName}
		}
		g.events <- ev
	case MsgTypeAction:
		var action actionPayload
		if err := json.Unmarshal(packet.Data, &action); err != nil {
			logger.Log.Warnf("Session %s sent a malformed action packet: %v", sess.GetID(), err)
			return
		}
		g.events <- transport.Event{
			Kind:      transport.EventAction,
			From:      transport.User{ID: sess.UserID, Name: sess.Name},
			ChatID:    sess.UserID,
			MessageID: action.MessageID,
			Data:      action.Data,
		}
	default:
		logger.Log.Infof("Unknown message type: %d", packet.MsgID)
	}
}

func (g *Gateway) Events() <-chan transport.Event {
	return g.events
}

func (g *Gateway) Send(chatID int64, text string, kb *transport.Keyboard) error {
	return g.deliver(chatID, func(s *Session) outMessage {
		return outMessage{MessageID: s.NextMessageID(), Text: text, Keyboard: outKeyboard(kb)}
	})
}

func (g *Gateway) EditText(chatID int64, messageID int, text string, kb *transport.Keyboard) error {
	return g.deliver(chatID, func(s *Session) outMessage {
		return outMessage{MessageID: messageID, Edit: true, Text: text, Keyboard: outKeyboard(kb)}
	})
}

func (g *Gateway) EditKeyboard(chatID int64, messageID int, kb *transport.Keyboard) error {
	return g.deliver(chatID, func(s *Session) outMessage {
		return outMessage{MessageID: messageID, Edit: true, Keyboard: outKeyboard(kb)}
	})
}

func (g *Gateway) deliver(chatID int64, build func(s *Session) outMessage) error {
	sessions := g.sessions.GetByUserID(chatID)
	if len(sessions) == 0 {
		return ErrNotConnected
	}

	var lastErr error
	for _, s := range sessions {
		data, err := json.Marshal(build(s))
		if err != nil {
			lastErr = err
			continue
		}
		if err := s.Send(MsgTypeMessage, data); err != nil {
			lastErr = err
		}
	}
	return lastErr
}

func outKeyboard(kb *transport.Keyboard) [][]outButton {
	if kb == nil {
		return nil
	}
	rows := make([][]outButton, 0, len(kb.Rows))
	for _, row := range kb.Rows {
		buttons := make([]outButton, 0, len(row))
		for _, b := range row {
			buttons = append(buttons, outButton{Label: b.Label, Data: b.Data})
		}
		rows = append(rows, buttons)
	}
	return rows
}

func (g *Gateway) Close() error {
	close(g.events)
	return nil
}
