package ws

import (
	"encoding/json"
	"sync"
	"time"

	"taskboard/internal/domain"
	"taskboard/internal/logger"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 30 * time.Second
	pingPeriod = 25 * time.Second

	sendBuffer = 16
)

type Client struct {
	ID   string
	Conn *websocket.Conn
	Hub  *Hub
	send chan []byte

	mu     sync.Mutex
	// zero filter and nil search follow the session view
	filter domain.FilterMode
	search *string
	closed bool
}

func NewClient(conn *websocket.Conn, hub *Hub, filter domain.FilterMode, search *string) *Client {
	return &Client{
		ID:     uuid.NewString(),
		Conn:   conn,
		Hub:    hub,
		send:   make(chan []byte, sendBuffer),
		filter: filter,
		search: search,
	}
}

// Run registers the client, sends the initial board and serves the
// connection until it closes.
func (c *Client) Run() {
	c.Hub.register(c)
	if !c.pushBoard() {
		c.Hub.unregister(c)
	}
	go c.writePump()
	c.readPump()
}

func (c *Client) view() (domain.FilterMode, *string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filter, c.search
}

func (c *Client) setView(filter domain.FilterMode, search *string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if filter != "" {
		c.filter = filter
	}
	if search != nil {
		q := *search
		c.search = &q
	}
}

// trySend queues msg without blocking. It reports false when the buffer
// is full.
func (c *Client) trySend(msg []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return true
	}
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

func (c *Client) closeSend() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

func (c *Client) pushBoard() bool {
	return c.trySend(encode(MsgBoard, c.Hub.board(c)))
}

func (c *Client) sendError(msg string) {
	c.trySend(encode(MsgError, ErrorPayload{Message: msg}))
}

//read
func (c *Client) readPump() {
	defer func() {
		c.Hub.unregister(c)
		_ = c.Conn.Close()
	}()

	c.Conn.SetReadLimit(4096)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, msg, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Debug("ws read error", "client", c.ID, "error", err)
			}
			return
		}
		if !c.handle(msg) {
			return
		}
	}
}

// handle processes one client frame. It returns false when the client
// has to be dropped.
func (c *Client) handle(msg []byte) bool {
	var in inbound
	if err := json.Unmarshal(msg, &in); err != nil {
		c.sendError("bad message")
		return true
	}

	switch in.Type {
	case MsgView:
		var mode domain.FilterMode
		if in.Filter != "" {
			m, err := domain.ParseFilterMode(in.Filter)
			if err != nil {
				c.sendError(err.Error())
				return true
			}
			mode = m
		}
		c.setView(mode, in.Search)
		return c.pushBoard()
	case MsgPing:
		return c.trySend(encode(MsgPong, nil))
	default:
		c.sendError("unknown message type")
		return true
	}
}

//write
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				logger.Debug("ws write error", "client", c.ID, "error", err)
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
