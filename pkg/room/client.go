package room

import (
	"context"
	"fmt"

	"card-shoggoths-server/pkg/playable"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Client is a client connected to the server via websockets
type Client struct {
	// Conn is the underlying websocket connection
	Conn *websocket.Conn

	// send is a channel for sending messages to the client
	send chan interface{}

	// Close is a channel for closing the client
	Close chan string

	// CloseError contains the reason why the connection was closed
	CloseError error

	pitBoss *PitBoss

	sessionID string
	name      string
}

// NewClient returns a new client object
func NewClient(conn *websocket.Conn, pitBoss *PitBoss, sessionID, name string) *Client {
	return &Client{
		send:      make(chan interface{}, 256),
		Close:     make(chan string),
		Conn:      conn,
		pitBoss:   pitBoss,
		sessionID: sessionID,
		name:      name,
	}
}

// Send send a message to the web client
// If the client's buffer is full the message is dropped and false is returned.
func (c *Client) Send(msg interface{}) bool {
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

// SendChan returns a read-only channel
func (c *Client) SendChan() <-chan interface{} {
	return c.send
}

// SessionID returns the session the client is watching
func (c *Client) SessionID() string {
	return c.sessionID
}

// String returns a traceable identifier for the player and session
func (c *Client) String() string {
	return fmt.Sprintf("%s:%s", c.name, c.sessionID)
}

// ReceivedMessage is called when the server receives a message from a connected client
// Messages with an action are game intents. Anything else is chat.
func (c *Client) ReceivedMessage(ctx context.Context, msg *playable.PayloadIn) {
	if c.pitBoss == nil {
		logrus.WithField("msg", msg).Warn("received message, but pit boss not found")
		return
	}

	if msg.Action == "" || msg.Action == "chat" {
		text, _ := msg.AdditionalData.GetString("text")
		c.pitBoss.logger.WithField("client", c.String()).WithField("text", text).Debug("chat message")
		return
	}

	data := playable.AdditionalData{"name": c.name}
	resp, err := c.pitBoss.ReceivedMessage(ctx, c.sessionID, data, msg)
	if err != nil {
		c.Send(newErrorResponse(msg.Context, err))
		return
	}

	c.Send(resp)
}
