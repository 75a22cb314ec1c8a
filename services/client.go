package services

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/bellapacxx/bingo-caller/utils/logger"
	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	maxMessageSize = 512
	sendBuffer     = 32
)

// Command is a message sent by a websocket client to drive the lobby.
type Command struct {
	Action  string `json:"action"` // start | draw | reset | end
	Confirm bool   `json:"confirm,omitempty"`
}

type Client struct {
	conn  *websocket.Conn
	lobby *Lobby
	send  chan []byte
	once  sync.Once
}

func newClient(conn *websocket.Conn, lobby *Lobby) *Client {
	return &Client{
		conn:  conn,
		lobby: lobby,
		send:  make(chan []byte, sendBuffer),
	}
}

// Close closes the send channel; the write pump then closes the connection.
func (c *Client) Close() {
	c.once.Do(func() {
		close(c.send)
	})
}

// --------------------
// Client read/write pumps
// --------------------
func (c *Client) readPump() {
	defer func() {
		c.lobby.removeClient(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Warnf("[Lobby %s] client read error: %v", c.lobby.ID, err)
			}
			return
		}
		c.handle(message)
	}
}

func (c *Client) handle(msg []byte) {
	var cmd Command
	if err := json.Unmarshal(msg, &cmd); err != nil {
		logger.Warnf("[Lobby %s] invalid client message: %v", c.lobby.ID, err)
		return
	}

	switch cmd.Action {
	case "start":
		c.lobby.Start()
	case "draw":
		c.lobby.Draw()
	case "reset":
		c.lobby.Reset(cmd.Confirm)
	case "end":
		c.lobby.RequestEnd()
	default:
		logger.Warnf("[Lobby %s] unknown action: %q", c.lobby.ID, cmd.Action)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				logger.Warnf("[Lobby %s] client write error: %v", c.lobby.ID, err)
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
