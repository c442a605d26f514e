// Package ws pushes live board views to websocket clients. Each client
// keeps its own filter and search; after every applied change the hub
// recomputes and sends the view for every connected client.
package ws

import (
	"sync"

	"taskboard/internal/logger"
	"taskboard/internal/service"
	"taskboard/internal/taskstore"
)

// BoardSource computes board views. *service.TaskService implements it.
type BoardSource interface {
	Board(q service.BoardQuery) service.BoardView
}

type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
	source  BoardSource
}

func NewHub(source BoardSource) *Hub {
	return &Hub{
		clients: make(map[*Client]struct{}),
		source:  source,
	}
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()
	wsClients.Set(float64(n))
	logger.Debug("ws client registered", "client", c.ID, "clients", n)
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	_, ok := h.clients[c]
	delete(h.clients, c)
	n := len(h.clients)
	h.mu.Unlock()
	if ok {
		wsClients.Set(float64(n))
		c.closeSend()
		logger.Debug("ws client unregistered", "client", c.ID, "clients", n)
	}
}

// Len is the number of connected clients.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// OnChange matches service.ChangeFunc; it pushes fresh boards to everyone.
func (h *Hub) OnChange(res taskstore.Result) {
	h.Broadcast()
}

// Broadcast sends every client its current board. Clients whose send
// buffer is full are dropped.
func (h *Hub) Broadcast() {
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		if !c.pushBoard() {
			logger.Warn("ws client too slow, dropping", "client", c.ID)
			wsDropped.Inc()
			h.unregister(c)
		}
	}
}

func (h *Hub) board(c *Client) service.BoardView {
	filter, search := c.view()
	return h.source.Board(service.BoardQuery{Filter: filter, Search: search})
}
