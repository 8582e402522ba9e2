package models

import (
	"time"
)

// Message is a direct message between two users. Rows are immutable once
// created except for the IsRead flag, which only the receiver's read action
// flips. JSON tags are camelCase because the field names are part of the
// realtime wire contract consumed by the web client.
type Message struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	SenderID   uint      `gorm:"index;not null" json:"senderId"`
	Sender     User      `gorm:"foreignKey:SenderID" json:"sender"`
	ReceiverID uint      `gorm:"index;not null" json:"receiverId"`
	Content    string    `gorm:"not null" json:"content"`
	CreatedAt  time.Time `json:"createdAt"`
	IsRead     bool      `gorm:"default:false" json:"isRead"`
}

// ConversationStat is a derived per-partner summary for one viewing user.
// It is never persisted; it is recomputed from Message rows on demand.
type ConversationStat struct {
	PartnerID       uint      `json:"partnerId"`
	LastMessageTime time.Time `json:"lastMessageTime"`
	LastMessage     string    `json:"lastMessage"`
	UnreadCount     int64     `json:"unreadCount"`
}

// ChatUser is one entry of the ranked conversation list: a directory user
// joined with that user's conversation stats relative to the viewer. Users
// the viewer never talked to appear with a nil LastMessageTime.
type ChatUser struct {
	ID              uint       `json:"id"`
	Name            string     `json:"name"`
	Role            string     `json:"role"`
	Status          string     `json:"status"`
	UnreadCount     int64      `json:"unreadCount"`
	LastMessage     string     `json:"lastMessage,omitempty"`
	LastMessageTime *time.Time `json:"lastMessageTime"`
}
