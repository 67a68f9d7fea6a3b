package websockets

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// NewWebSocketManager initializes a WebSocketManager
func NewWebSocketManager() *WebSocketManager {
	return &WebSocketManager{
		clients:    make(map[*websocket.Conn]*Client),
		broadcast:  make(chan TripMessage, 64),
		register:   make(chan *Client),
		unregister: make(chan *websocket.Conn),
		done:       make(chan struct{}),
	}
}

// Run dispatches registrations and trip broadcasts until ctx is done.
func (manager *WebSocketManager) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(manager.done)
			manager.mu.Lock()
			for conn := range manager.clients {
				conn.Close()
				delete(manager.clients, conn)
			}
			manager.mu.Unlock()
			return

		case client := <-manager.register:
			manager.mu.Lock()
			manager.clients[client.Conn] = client
			if client.TripID != "" {
				manager.acknowledge(client, client.TripID)
			}
			manager.mu.Unlock()

		case conn := <-manager.unregister:
			manager.mu.Lock()
			if client, exists := manager.clients[conn]; exists {
				delete(manager.clients, conn)
				conn.Close()
				zap.L().Debug("websocket client disconnected", zap.String("trip_id", client.TripID))
			}
			manager.mu.Unlock()

		case message := <-manager.broadcast:
			manager.deliver(message)
		}
	}
}

// acknowledge tells a client its subscription is live. Updates broadcast after
// the acknowledgement are delivered to it.
func (manager *WebSocketManager) acknowledge(client *Client, tripID string) {
	payload, err := json.Marshal(Event{Type: MsgTypeSubscribed, TripID: tripID})
	if err != nil {
		return
	}
	if err := client.write(payload); err != nil {
		zap.L().Debug("websocket acknowledgement failed", zap.String("trip_id", tripID), zap.Error(err))
	}
}

func (manager *WebSocketManager) deliver(message TripMessage) {
	manager.mu.Lock()
	defer manager.mu.Unlock()

	for conn, client := range manager.clients {
		if client.TripID != message.TripID {
			continue
		}
		if err := client.write(message.Payload); err != nil {
			conn.Close()
			delete(manager.clients, conn)
		}
	}
}

// HandleConnections upgrades HTTP requests to WebSocket connections. A client
// picks the trip it watches with a subscribe message; a trip_id query
// parameter subscribes it straight away. Either way the client gets a
// subscribed event once updates for the trip will reach it.
func (manager *WebSocketManager) HandleConnections(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		zap.L().Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	client := &Client{Conn: conn, TripID: r.URL.Query().Get("trip_id")}
	select {
	case manager.register <- client:
	case <-manager.done:
		conn.Close()
		return
	}

	defer func() {
		select {
		case manager.unregister <- conn:
		case <-manager.done:
		}
	}()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var message Message
		if err := json.Unmarshal(msg, &message); err != nil {
			zap.L().Debug("invalid websocket message", zap.Error(err))
			continue
		}

		switch message.Type {
		case MsgTypeSubscribe:
			manager.mu.Lock()
			client.TripID = message.TripID
			manager.mu.Unlock()
			manager.acknowledge(client, message.TripID)
		case MsgTypeUnsubscribe:
			manager.mu.Lock()
			client.TripID = ""
			manager.mu.Unlock()
		}
	}
}

// BroadcastTripUpdate queues an event for the trip's subscribers. It never blocks
// the caller; events are dropped when the queue is full.
func (manager *WebSocketManager) BroadcastTripUpdate(tripID, action string, data interface{}) {
	event := Event{Type: MsgTypeTripUpdate, TripID: tripID, Action: action}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			zap.L().Error("encode trip update", zap.String("trip_id", tripID), zap.Error(err))
			return
		}
		event.Data = raw
	}
	payload, err := json.Marshal(event)
	if err != nil {
		zap.L().Error("encode trip update", zap.String("trip_id", tripID), zap.Error(err))
		return
	}

	select {
	case manager.broadcast <- TripMessage{TripID: tripID, Payload: payload}:
	default:
		zap.L().Warn("dropped trip update", zap.String("trip_id", tripID), zap.String("action", action))
	}
}
