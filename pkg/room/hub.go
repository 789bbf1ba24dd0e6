package room

import (
	"sync"

	"card-shoggoths-server/internal/rng"

	"github.com/coder/quartz"
	"github.com/sirupsen/logrus"
)

// chat senders
const (
	SenderAncientOne = "ancient_one"
	SenderSystem     = "system"
)

// ChatMessage is a message in the chat
type ChatMessage struct {
	Sender    string `json:"sender"`
	Text      string `json:"text"`
	Type      string `json:"type"`
	Situation string `json:"situation,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

// Hub fans chat messages out to the clients watching a session
// It never touches a Dealer.
type Hub struct {
	logger  logrus.FieldLogger
	clock   quartz.Clock
	random  rng.Generator
	lock    sync.RWMutex
	clients map[string]map[*Client]bool
}

// NewHub returns a new chat hub
func NewHub(logger logrus.FieldLogger, clock quartz.Clock, random rng.Generator) *Hub {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	if clock == nil {
		clock = quartz.NewReal()
	}

	if random == nil {
		random = rng.Crypto{}
	}

	return &Hub{
		logger:  logger,
		clock:   clock,
		random:  random,
		clients: make(map[string]map[*Client]bool),
	}
}

// AddClient registers a client and greets them
func (h *Hub) AddClient(client *Client) {
	h.lock.Lock()
	clients, ok := h.clients[client.sessionID]
	if !ok {
		clients = make(map[*Client]bool)
		h.clients[client.sessionID] = clients
	}
	clients[client] = true
	h.lock.Unlock()

	h.logger.WithField("client", client.String()).Debug("client connected")
	client.Send(h.message(SenderAncientOne, "speech", "greeting", Quip(h.random, "greeting")))
}

// RemoveClient unregisters a client
// Returns true if it was the last client watching the session.
func (h *Hub) RemoveClient(client *Client) (lastClient bool) {
	h.lock.Lock()
	defer h.lock.Unlock()

	clients := h.clients[client.sessionID]
	delete(clients, client)
	if len(clients) > 0 {
		return false
	}

	delete(h.clients, client.sessionID)
	h.logger.WithField("client", client.String()).Debug("last client disconnected")
	return true
}

// HasClients returns true if anyone is watching the session
func (h *Hub) HasClients(sessionID string) bool {
	h.lock.RLock()
	defer h.lock.RUnlock()

	return len(h.clients[sessionID]) > 0
}

// Clients returns the clients (at the time) watching a session
func (h *Hub) Clients(sessionID string) []*Client {
	h.lock.RLock()
	defer h.lock.RUnlock()

	clients := make([]*Client, 0, len(h.clients[sessionID]))
	for client := range h.clients[sessionID] {
		clients = append(clients, client)
	}

	return clients
}

// Say sends the opponent's quip for the situation
func (h *Hub) Say(sessionID, situation string) {
	h.Broadcast(sessionID, h.message(SenderAncientOne, "speech", situation, Quip(h.random, situation)))
}

// Narrate sends a system message
func (h *Hub) Narrate(sessionID, text string) {
	h.Broadcast(sessionID, h.message(SenderSystem, "system", "", text))
}

// Broadcast sends the message to every client watching the session
func (h *Hub) Broadcast(sessionID string, msg interface{}) {
	for _, client := range h.Clients(sessionID) {
		if !client.Send(msg) {
			h.logger.WithField("client", client.String()).Warn("client buffer is full, dropping chat message")
		}
	}
}

// CloseSession disconnects everyone watching the session
func (h *Hub) CloseSession(sessionID, reason string) {
	for _, client := range h.Clients(sessionID) {
		select {
		case client.Close <- reason:
		default:
		}
	}
}

func (h *Hub) message(sender, kind, situation, text string) *ChatMessage {
	return &ChatMessage{
		Sender:    sender,
		Text:      text,
		Type:      kind,
		Situation: situation,
		Timestamp: h.clock.Now().Unix(),
	}
}
