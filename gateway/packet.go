// gateway serves the bot's command surface over a websocket packet
// protocol for local play and integration testing without platform
// credentials.
package gateway

import (
	"encoding/binary"
	"io"
	"net"
	"sync"

	"github.com/gorilla/websocket"
)

// Packet message types. Client to server: hello, command, action. Server
// to client: message.
const (
	MsgTypeHello   uint16 = 1
	MsgTypeCommand uint16 = 2
	MsgTypeAction  uint16 = 3
	MsgTypeMessage uint16 = 101
)

type Packet struct {
	MsgID  uint16
	Data   []byte
	Length uint16
}

// Conn is the connection surface the gateway needs; tests substitute a
// fake for the websocket implementation.
type Conn interface {
	Send(msgID uint16, data []byte) error
	ReadPacket() (*Packet, error)
	Close() error
	RemoteAddr() net.Addr
}

type wsConn struct {
	conn      *websocket.Conn
	sendMutex sync.Mutex
}

func newWSConn(conn *websocket.Conn) *wsConn {
	return &wsConn{conn: conn}
}

// Send frames the payload as 2 bytes message ID, 2 bytes length, data.
func (c *wsConn) Send(msgID uint16, data []byte) error {
	c.sendMutex.Lock()
	defer c.sendMutex.Unlock()

	packet := make([]byte, 4+len(data))
	binary.BigEndian.PutUint16(packet[0:2], msgID)
	binary.BigEndian.PutUint16(packet[2:4], uint16(len(data)))
	copy(packet[4:], data)

	return c.conn.WriteMessage(websocket.BinaryMessage, packet)
}

func (c *wsConn) ReadPacket() (*Packet, error) {
	_, data, err := c.conn.ReadMessage()
	if err != nil {
		return nil, err
	}

	if len(data) < 4 {
		return nil, io.ErrShortBuffer
	}

	msgID := binary.BigEndian.Uint16(data[0:2])
	length := binary.BigEndian.Uint16(data[2:4])

	if len(data) < int(4+length) {
		return nil, io.ErrShortBuffer
	}

	return &Packet{
		MsgID:  msgID,
		Length: length,
		Data:   data[4 : 4+length],
	}, nil
}

func (c *wsConn) Close() error {
	return c.conn.Close()
}

func (c *wsConn) RemoteAddr() net.Addr {
	return c.conn.RemoteAddr()
}
