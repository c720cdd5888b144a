// Interactive client for the websocket gateway. Identifies as a user,
// sends slash commands and reveal actions, and prints replies and button
// grids.
package main

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/url"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

const (
	MsgTypeHello   uint16 = 1
	MsgTypeCommand uint16 = 2
	MsgTypeAction  uint16 = 3
	MsgTypeMessage uint16 = 101
)

type outMessage struct {
	MessageID int    `json:"message_id"`
	Edit      bool   `json:"edit,omitempty"`
	Text      string `json:"text,omitempty"`
	Keyboard  [][]struct {
		Label string `json:"label"`
		Data  string `json:"data"`
	} `json:"keyboard,omitempty"`
}

// send formats and sends a message to the gateway.
func send(c *websocket.Conn, msgID uint16, data []byte) error {
	packet := make([]byte, 4+len(data))
	binary.BigEndian.PutUint16(packet[0:2], msgID)
	binary.BigEndian.PutUint16(packet[2:4], uint16(len(data)))
	copy(packet[4:], data)

	return c.WriteMessage(websocket.BinaryMessage, packet)
}

func main() {
	addr := flag.String("addr", "localhost:8082", "gateway address")
	user := flag.Int64("user", 1001, "user id to play as")
	name := flag.String("name", "guest", "display name")
	flag.Parse()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	u := url.URL{Scheme: "ws", Host: *addr, Path: "/ws"}
	log.Printf("Connecting to %s", u.String())

	c, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		log.Fatalf("Dial failed: %v", err)
	}
	defer c.Close()

	done := make(chan struct{})

	// The grid message to address reveal actions at.
	var lastMessageID int64

	// Read loop
	go func() {
		defer close(done)
		for {
			_, message, err := c.ReadMessage()
			if err != nil {
				log.Println("Read error:", err)
				return
			}
			if len(message) < 4 {
				log.Printf("Received invalid packet of size %d", len(message))
				continue
			}
			msgID := binary.BigEndian.Uint16(message[0:2])
			if msgID != MsgTypeMessage {
				log.Printf("<- RECV unknown message type %d", msgID)
				continue
			}

			var out outMessage
			if err := json.Unmarshal(message[4:], &out); err != nil {
				log.Println("Decode error:", err)
				continue
			}
			if out.Text != "" {
				fmt.Println(out.Text)
			}
			if len(out.Keyboard) > 0 {
				atomic.StoreInt64(&lastMessageID, int64(out.MessageID))
				for _, row := range out.Keyboard {
					labels := make([]string, 0, len(row))
					for _, b := range row {
						labels = append(labels, b.Label)
					}
					fmt.Println(strings.Join(labels, " "))
				}
			}
		}
	}()

	hello, _ := json.Marshal(map[string]interface{}{"user_id": *user, "name": *name})
	if err := send(c, MsgTypeHello, hello); err != nil {
		log.Fatalf("Hello failed: %v", err)
	}

	log.Println("Connected. Type /start, /mine 100 5, r <cell>, cashout, or /help.")

	// Write loop
	reader := bufio.NewReader(os.Stdin)
	for {
		select {
		case <-done:
			return
		case <-interrupt:
			log.Println("Interrupt received, closing connection.")
			err := c.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			if err != nil {
				log.Println("Write close error:", err)
			}
			select {
			case <-done:
			case <-time.After(time.Second):
			}
			return
		default:
			text, _ := reader.ReadString('\n')
			text = strings.TrimSpace(text)
			if text == "" {
				continue
			}

			var (
				msgID   uint16
				payload map[string]interface{}
			)
			switch {
			case strings.HasPrefix(text, "/"):
				fields := strings.Fields(strings.TrimPrefix(text, "/"))
				msgID = MsgTypeCommand
				payload = map[string]interface{}{"command": fields[0]}
				if len(fields) > 1 {
					payload["args"] = fields[1:]
				}
			case strings.HasPrefix(text, "r "):
				cell, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(text, "r ")))
				if err != nil {
					log.Println("Usage: r <cell 0-24>")
					continue
				}
				msgID = MsgTypeAction
				payload = map[string]interface{}{
					"data":       fmt.Sprintf("reveal:%d", cell),
					"message_id": int(atomic.LoadInt64(&lastMessageID)),
				}
			default:
				msgID = MsgTypeAction
				payload = map[string]interface{}{
					"data":       text,
					"message_id": int(atomic.LoadInt64(&lastMessageID)),
				}
			}

			data, _ := json.Marshal(payload)
			if err := send(c, msgID, data); err != nil {
				log.Println("Write error:", err)
				return
			}
		}
	}
}
