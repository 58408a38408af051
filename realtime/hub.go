// Package realtime pushes per-user notification events to WebSocket clients.
package realtime

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/personnel-api/utils"
)

const (
	EventUnreadCount = "unread_count"

	writeWait = 10 * time.Second
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Subscriber is one WebSocket connection of a user. Writes are serialized
// because gorilla/websocket allows a single concurrent writer.
type Subscriber struct {
	userID uint
	conn   *websocket.Conn
	mu     sync.Mutex
}

func (s *Subscriber) Send(msg Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return s.conn.WriteMessage(websocket.TextMessage, data)
}

// Ping sends a keep-alive control frame.
func (s *Subscriber) Ping() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
}

// Hub tracks the open connections of each user.
type Hub struct {
	mu      sync.Mutex
	clients map[uint]map[*Subscriber]struct{}
}

func NewHub() *Hub {
	return &Hub{clients: make(map[uint]map[*Subscriber]struct{})}
}

func (h *Hub) Register(userID uint, conn *websocket.Conn) *Subscriber {
	sub := &Subscriber{userID: userID, conn: conn}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.clients[userID] == nil {
		h.clients[userID] = make(map[*Subscriber]struct{})
	}
	h.clients[userID][sub] = struct{}{}
	return sub
}

// Unregister removes the subscriber and closes its connection. It is safe to
// call more than once.
func (h *Hub) Unregister(sub *Subscriber) {
	h.mu.Lock()
	if subs, ok := h.clients[sub.userID]; ok {
		delete(subs, sub)
		if len(subs) == 0 {
			delete(h.clients, sub.userID)
		}
	}
	h.mu.Unlock()

	sub.conn.Close()
}

// Subscribers reports how many connections userID currently holds.
func (h *Hub) Subscribers(userID uint) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients[userID])
}

func (h *Hub) PublishUnreadCount(userID uint, count int64) {
	h.SendTo(userID, UnreadCountMessage(count))
}

// SendTo delivers msg to every connection of userID. Connections that fail
// to accept the write are dropped.
func (h *Hub) SendTo(userID uint, msg Message) {
	h.mu.Lock()
	subs := make([]*Subscriber, 0, len(h.clients[userID]))
	for sub := range h.clients[userID] {
		subs = append(subs, sub)
	}
	h.mu.Unlock()

	for _, sub := range subs {
		if err := sub.Send(msg); err != nil {
			utils.ErrorLogger.WithFields(logrus.Fields{
				"user_id": userID,
				"event":   msg.Event,
			}).WithError(err).Error("dropping websocket subscriber")
			h.Unregister(sub)
		}
	}
}

func UnreadCountMessage(count int64) Message {
	return Message{
		Event: EventUnreadCount,
		Data:  map[string]int64{"count": count},
	}
}
