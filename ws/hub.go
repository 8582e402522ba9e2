package ws

import (
	"encoding/json"
	"log"
	"sort"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	apiError "github.com/teneola/staffx/errors"
	"github.com/teneola/staffx/models"
)

// MessageStore is what the hub needs from the chat service. Keeping it an
// interface here keeps the packages loosely coupled and lets tests plug in
// a fake store.
type MessageStore interface {
	SaveMessage(senderID, receiverID uint, content string) (*models.Message, error)
}

var validate = validator.New()

// Hub is the presence registry and fan-out layer. It is the one piece of
// shared mutable state in the chat core: many connection goroutines register,
// unregister and send through it concurrently, so every map access goes
// through the mutex.
type Hub struct {
	mu      sync.RWMutex
	clients map[uint]map[*Client]bool
	status  map[uint]string // client-requested overlay on top of online
	store   MessageStore
}

func NewHub(store MessageStore) *Hub {
	return &Hub{
		clients: make(map[uint]map[*Client]bool),
		status:  make(map[uint]string),
		store:   store,
	}
}

// Register adds a connection to the user's set. The offline→online transition
// fires only on the user's first connection, so a second tab or device never
// produces a duplicate presence event.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	conns := h.clients[c.UserID]
	if conns == nil {
		conns = make(map[*Client]bool)
		h.clients[c.UserID] = conns
	}
	first := len(conns) == 0
	conns[c] = true
	h.mu.Unlock()

	log.Printf("user %d connected (%s)", c.UserID, c.ConnID)
	if first {
		h.Broadcast(PresenceEvent{Kind: KindPresence, UserID: c.UserID, Status: StatusOnline})
	}
}

// Unregister removes the connection and, when it was the user's last one,
// announces offline exactly once. Safe to call more than once per client.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	conns, ok := h.clients[c.UserID]
	if !ok || !conns[c] {
		h.mu.Unlock()
		return
	}
	delete(conns, c)
	close(c.send)
	last := len(conns) == 0
	if last {
		delete(h.clients, c.UserID)
		delete(h.status, c.UserID)
	}
	h.mu.Unlock()

	log.Printf("user %d disconnected (%s)", c.UserID, c.ConnID)
	if last {
		h.Broadcast(PresenceEvent{Kind: KindPresence, UserID: c.UserID, Status: StatusOffline})
	}
}

func (h *Hub) IsOnline(userID uint) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID]) > 0
}

// Status reports the user's effective presence: the requested overlay if one
// is set, otherwise online/offline from the connection set.
func (h *Hub) Status(userID uint) string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if len(h.clients[userID]) == 0 {
		return StatusOffline
	}
	if s, ok := h.status[userID]; ok {
		return s
	}
	return StatusOnline
}

func (h *Hub) OnlineUserIDs() []uint {
	h.mu.RLock()
	ids := make([]uint, 0, len(h.clients))
	for id, conns := range h.clients {
		if len(conns) > 0 {
			ids = append(ids, id)
		}
	}
	h.mu.RUnlock()
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// SendToUser delivers the event to every live connection of the user.
// Best-effort: no connections, or a connection too slow to drain its buffer,
// is a no-op, not an error.
func (h *Hub) SendToUser(userID uint, event interface{}) {
	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("marshal event: %v", err)
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients[userID] {
		select {
		case c.send <- payload:
		default:
			log.Printf("dropping event for user %d (%s): send buffer full", userID, c.ConnID)
		}
	}
}

// Broadcast sends the event to every connected client. Presence changes go
// out globally; at this directory size scoping to contacts is not worth it.
func (h *Hub) Broadcast(event interface{}) {
	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("marshal event: %v", err)
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, conns := range h.clients {
		for c := range conns {
			select {
			case c.send <- payload:
			default:
			}
		}
	}
}

// HandleInbound processes one frame received on an active connection.
func (h *Hub) HandleInbound(c *Client, raw []byte) {
	var in Inbound
	if err := json.Unmarshal(raw, &in); err != nil {
		h.sendError(c, "malformed payload")
		return
	}
	switch in.Kind {
	case KindMessage, "":
		h.handleSendMessage(c, in)
	case KindStatus:
		h.handleStatus(c, in.Status)
	default:
		h.sendError(c, "unknown event kind: "+in.Kind)
	}
}

// handleSendMessage validates, persists, then fans out. Fan-out happens only
// after a successful save, and the saved record is echoed to the sender's own
// connections too: that is how other tabs stay in sync and how the sending
// client learns the server-assigned id and timestamp.
func (h *Hub) handleSendMessage(c *Client, in Inbound) {
	payload := sendMessagePayload{
		SenderID:   in.SenderID,
		ReceiverID: in.ReceiverID,
		Content:    in.Content,
	}
	if err := validate.Struct(payload); err != nil {
		h.sendError(c, "invalid message payload")
		return
	}
	if in.SenderID != c.UserID {
		// an open connection must not impersonate another user
		h.sendError(c, "sender does not match connection identity")
		return
	}

	saved, err := h.store.SaveMessage(in.SenderID, in.ReceiverID, in.Content)
	if err != nil {
		var apiErr *apiError.Error
		if errors.As(err, &apiErr) {
			h.sendError(c, apiErr.Message)
		} else {
			h.sendError(c, "failed to send message")
		}
		return
	}

	event := MessageEvent{Kind: KindMessage, Message: saved}
	h.SendToUser(saved.ReceiverID, event)
	h.SendToUser(saved.SenderID, event)
}

func (h *Hub) handleStatus(c *Client, status string) {
	if status != StatusOnline && status != StatusDND {
		h.sendError(c, "unknown status: "+status)
		return
	}
	h.mu.Lock()
	if status == StatusOnline {
		delete(h.status, c.UserID)
	} else {
		h.status[c.UserID] = status
	}
	h.mu.Unlock()
	h.Broadcast(PresenceEvent{Kind: KindPresence, UserID: c.UserID, Status: status})
}

// NotifyRead pushes a read notification to the partner whose messages were
// just marked read, so an open chat window can update its ticks.
func (h *Hub) NotifyRead(partnerID, readerID uint) {
	h.SendToUser(partnerID, ReadEvent{Kind: KindRead, UserID: readerID})
}

// sendError reports a failure to the originating connection only; failed
// requests are never broadcast.
func (h *Hub) sendError(c *Client, msg string) {
	payload, err := json.Marshal(ErrorEvent{Kind: KindError, Error: msg})
	if err != nil {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	select {
	case c.send <- payload:
	default:
	}
}
