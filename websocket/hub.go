package websocket

import (
	"log"
	"sync"

	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"
)

type Client struct {
	UserID uuid.UUID
	Conn   *websocket.Conn
}

// Event is one push to a connected panel: a balance change, a status flip, a
// commission update or an order status change. A zero UserID broadcasts to
// every connection.
type Event struct {
	UserID  uuid.UUID   `json:"-"`
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

var clients = make(map[uuid.UUID]*websocket.Conn)
var clientsMu sync.RWMutex
var Register = make(chan *Client)
var Unregister = make(chan *Client)
var events = make(chan Event, 64)

func RunHub() {
	for {
		select {
		case client := <-Register:
			log.Printf("Client registered: %s", client.UserID)
			clientsMu.Lock()
			clients[client.UserID] = client.Conn
			clientsMu.Unlock()
		case client := <-Unregister:
			log.Printf("Client unregistered: %s", client.UserID)
			clientsMu.Lock()
			if conn, ok := clients[client.UserID]; ok && conn == client.Conn {
				delete(clients, client.UserID)
			}
			clientsMu.Unlock()
		case event := <-events:
			if event.UserID == uuid.Nil {
				broadcast(event)
				continue
			}
			deliver(event.UserID, event)

			// A blocked user gets the status event and then loses the
			// connection, mirroring the sign-out-on-block behaviour of the
			// old panel.
			if event.Type == "status" && event.Payload == "blocked" {
				clientsMu.Lock()
				if conn, ok := clients[event.UserID]; ok {
					conn.Close()
					delete(clients, event.UserID)
				}
				clientsMu.Unlock()
			}
		}
	}
}

func deliver(userID uuid.UUID, event Event) {
	clientsMu.RLock()
	conn, ok := clients[userID]
	clientsMu.RUnlock()
	if !ok {
		return
	}

	if err := conn.WriteJSON(event); err != nil {
		log.Printf("Error pushing %s event to client %s: %v", event.Type, userID, err)
		conn.Close()
		clientsMu.Lock()
		delete(clients, userID)
		clientsMu.Unlock()
	}
}

func broadcast(event Event) {
	clientsMu.RLock()
	ids := make([]uuid.UUID, 0, len(clients))
	for id := range clients {
		ids = append(ids, id)
	}
	clientsMu.RUnlock()

	for _, id := range ids {
		deliver(id, event)
	}
}

func PushBalance(userID uuid.UUID, balance float64) {
	events <- Event{UserID: userID, Type: "balance", Payload: balance}
}

func PushStatus(userID uuid.UUID, status string) {
	events <- Event{UserID: userID, Type: "status", Payload: status}
}

func PushOrderStatus(userID uuid.UUID, orderID, status string) {
	events <- Event{UserID: userID, Type: "order", Payload: map[string]string{
		"order_id": orderID,
		"status":   status,
	}}
}

func PushCommission(value float64) {
	events <- Event{Type: "commission", Payload: value}
}

// PushSnapshot queues the current balance, status and commission for one
// client. Handlers must never write to a registered conn themselves; the hub
// goroutine is the only writer, so a push arriving during the handshake can
// not race the snapshot.
func PushSnapshot(userID uuid.UUID, balance float64, status string, commission float64) {
	events <- Event{UserID: userID, Type: "balance", Payload: balance}
	events <- Event{UserID: userID, Type: "status", Payload: status}
	events <- Event{UserID: userID, Type: "commission", Payload: commission}
}
