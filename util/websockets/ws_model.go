package websockets

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
)

// Message types
const (
	MsgTypeSubscribe   = "subscribe"
	MsgTypeUnsubscribe = "unsubscribe"
	MsgTypeSubscribed  = "subscribed"
	MsgTypeTripUpdate  = "trip_update"
)

// Client is a connected editor watching at most one trip draft.
type Client struct {
	Conn   *websocket.Conn
	TripID string
	mu     sync.Mutex
}

func (c *Client) write(payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Conn.WriteMessage(websocket.TextMessage, payload)
}

type WebSocketManager struct {
	clients    map[*websocket.Conn]*Client
	broadcast  chan TripMessage
	register   chan *Client
	unregister chan *websocket.Conn
	done       chan struct{}
	mu         sync.Mutex
}

// TripMessage is delivered to every client subscribed to TripID.
type TripMessage struct {
	TripID  string
	Payload []byte
}

// Message is what clients send.
type Message struct {
	Type   string `json:"type"`
	TripID string `json:"trip_id"`
}

// Event is what the server pushes after a draft changes.
type Event struct {
	Type   string          `json:"type"`
	TripID string          `json:"trip_id"`
	Action string          `json:"action"`
	Data   json.RawMessage `json:"data,omitempty"`
}
