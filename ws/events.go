package ws

import (
	"github.com/teneola/staffx/models"
)

// Event kinds on the socket. One connection carries chat messages, presence
// changes, read notifications and errors; the kind field is the discriminator
// the client switches on.
const (
	KindMessage  = "message"
	KindPresence = "presence"
	KindStatus   = "status"
	KindRead     = "read"
	KindError    = "error"
)

// Presence statuses. Offline is never requested by a client; it is the state
// the registry reports once the last connection is gone.
const (
	StatusOnline  = "online"
	StatusOffline = "offline"
	StatusDND     = "dnd"
)

// Inbound is what a client sends over an active connection. Kind selects the
// variant; an empty kind is treated as a message send, which is what the web
// client emits.
type Inbound struct {
	Kind       string `json:"kind"`
	SenderID   uint   `json:"senderId"`
	ReceiverID uint   `json:"receiverId"`
	Content    string `json:"content"`
	Status     string `json:"status"`
}

// sendMessagePayload is the validated shape of a message send.
type sendMessagePayload struct {
	SenderID   uint   `validate:"required"`
	ReceiverID uint   `validate:"required"`
	Content    string `validate:"required"`
}

// MessageEvent pushes the canonical stored record to both parties. The
// embedded message flattens into the event, so the wire shape is
// {kind, id, senderId, receiverId, content, createdAt, isRead, sender}.
type MessageEvent struct {
	Kind string `json:"kind"`
	*models.Message
}

type PresenceEvent struct {
	Kind   string `json:"kind"`
	UserID uint   `json:"userId"`
	Status string `json:"status"`
}

// ReadEvent tells a user that UserID has read their messages.
type ReadEvent struct {
	Kind   string `json:"kind"`
	UserID uint   `json:"userId"`
}

// ErrorEvent goes only to the connection whose request failed.
type ErrorEvent struct {
	Kind  string `json:"kind"`
	Error string `json:"error"`
}
