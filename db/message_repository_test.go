package db

import (
	"fmt"
	"testing"

	"github.com/teneola/staffx/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *GormDB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := gdb.AutoMigrate(&models.User{}, &models.Message{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return &GormDB{DB: gdb}
}

func seedTestUsers(t *testing.T, gdb *GormDB, names ...string) []models.User {
	t.Helper()
	users := make([]models.User, 0, len(names))
	for i, name := range names {
		user := models.User{
			Name:  name,
			Email: fmt.Sprintf("%s%d@test.local", name, i),
		}
		if err := gdb.DB.Create(&user).Error; err != nil {
			t.Fatalf("seed user %s: %v", name, err)
		}
		users = append(users, user)
	}
	return users
}

func TestSaveMessageAssignsServerFields(t *testing.T) {
	gdb := newTestDB(t)
	users := seedTestUsers(t, gdb, "alice", "ben")
	repo := NewMessageRepo(gdb)

	saved, err := repo.SaveMessage(&models.Message{
		SenderID:   users[0].ID,
		ReceiverID: users[1].ID,
		Content:    "hello",
	})
	if err != nil {
		t.Fatalf("save message: %v", err)
	}
	if saved.ID == 0 {
		t.Fatalf("expected server-assigned id")
	}
	if saved.CreatedAt.IsZero() {
		t.Fatalf("expected server-assigned timestamp")
	}
	if saved.IsRead {
		t.Fatalf("new message must start unread")
	}
	if saved.Sender.Name != "alice" {
		t.Fatalf("expected denormalized sender name, got %q", saved.Sender.Name)
	}
}

func TestGetHistoryOrdering(t *testing.T) {
	gdb := newTestDB(t)
	users := seedTestUsers(t, gdb, "alice", "ben", "carol")
	repo := NewMessageRepo(gdb)

	// interleave both directions, plus noise from a third user
	contents := []string{"one", "two", "three", "four"}
	for i, content := range contents {
		sender, receiver := users[0].ID, users[1].ID
		if i%2 == 1 {
			sender, receiver = users[1].ID, users[0].ID
		}
		if _, err := repo.SaveMessage(&models.Message{SenderID: sender, ReceiverID: receiver, Content: content}); err != nil {
			t.Fatalf("save %q: %v", content, err)
		}
	}
	if _, err := repo.SaveMessage(&models.Message{SenderID: users[2].ID, ReceiverID: users[0].ID, Content: "noise"}); err != nil {
		t.Fatalf("save noise: %v", err)
	}

	history, err := repo.GetHistory(users[0].ID, users[1].ID)
	if err != nil {
		t.Fatalf("get history: %v", err)
	}
	if len(history) != len(contents) {
		t.Fatalf("expected %d messages, got %d", len(contents), len(history))
	}
	for i, msg := range history {
		if msg.Content != contents[i] {
			t.Fatalf("message %d: expected %q, got %q", i, contents[i], msg.Content)
		}
		if i > 0 && history[i-1].ID >= msg.ID {
			t.Fatalf("history ids not ascending: %d then %d", history[i-1].ID, msg.ID)
		}
	}

	// both argument orders return the same conversation
	reversed, err := repo.GetHistory(users[1].ID, users[0].ID)
	if err != nil {
		t.Fatalf("get reversed history: %v", err)
	}
	if len(reversed) != len(history) {
		t.Fatalf("history not symmetric: %d vs %d", len(history), len(reversed))
	}
}

func TestMarkReadIdempotent(t *testing.T) {
	gdb := newTestDB(t)
	users := seedTestUsers(t, gdb, "alice", "ben")
	repo := NewMessageRepo(gdb)

	for i := 0; i < 3; i++ {
		if _, err := repo.SaveMessage(&models.Message{SenderID: users[0].ID, ReceiverID: users[1].ID, Content: fmt.Sprintf("m%d", i)}); err != nil {
			t.Fatalf("save: %v", err)
		}
	}

	updated, err := repo.MarkRead(users[1].ID, users[0].ID)
	if err != nil {
		t.Fatalf("mark read: %v", err)
	}
	if updated != 3 {
		t.Fatalf("expected 3 updated, got %d", updated)
	}

	// second call has nothing left to mark
	updated, err = repo.MarkRead(users[1].ID, users[0].ID)
	if err != nil {
		t.Fatalf("second mark read: %v", err)
	}
	if updated != 0 {
		t.Fatalf("expected 0 updated on repeat, got %d", updated)
	}

	count, err := repo.CountUnread(users[1].ID)
	if err != nil {
		t.Fatalf("count unread: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected 0 unread after mark read, got %d", count)
	}
}

func TestCountUnreadMatchesStats(t *testing.T) {
	gdb := newTestDB(t)
	users := seedTestUsers(t, gdb, "alice", "ben", "carol")
	repo := NewMessageRepo(gdb)

	// ben receives 3 from alice and 2 from carol, sends 1 back
	for i := 0; i < 3; i++ {
		if _, err := repo.SaveMessage(&models.Message{SenderID: users[0].ID, ReceiverID: users[1].ID, Content: "a"}); err != nil {
			t.Fatalf("save: %v", err)
		}
	}
	for i := 0; i < 2; i++ {
		if _, err := repo.SaveMessage(&models.Message{SenderID: users[2].ID, ReceiverID: users[1].ID, Content: "c"}); err != nil {
			t.Fatalf("save: %v", err)
		}
	}
	if _, err := repo.SaveMessage(&models.Message{SenderID: users[1].ID, ReceiverID: users[0].ID, Content: "reply"}); err != nil {
		t.Fatalf("save: %v", err)
	}

	total, err := repo.CountUnread(users[1].ID)
	if err != nil {
		t.Fatalf("count unread: %v", err)
	}

	stats, err := repo.ConversationStats(users[1].ID)
	if err != nil {
		t.Fatalf("conversation stats: %v", err)
	}
	var sum int64
	for _, stat := range stats {
		sum += stat.UnreadCount
	}
	if total != sum {
		t.Fatalf("total unread %d != stats sum %d", total, sum)
	}
	if total != 5 {
		t.Fatalf("expected 5 unread, got %d", total)
	}
}

func TestConversationStatsPerPartner(t *testing.T) {
	gdb := newTestDB(t)
	users := seedTestUsers(t, gdb, "alice", "ben", "carol")
	repo := NewMessageRepo(gdb)

	if _, err := repo.SaveMessage(&models.Message{SenderID: users[0].ID, ReceiverID: users[1].ID, Content: "first"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	last, err := repo.SaveMessage(&models.Message{SenderID: users[1].ID, ReceiverID: users[0].ID, Content: "latest"})
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	stats, err := repo.ConversationStats(users[1].ID)
	if err != nil {
		t.Fatalf("conversation stats: %v", err)
	}
	if len(stats) != 1 {
		t.Fatalf("expected 1 partner, got %d", len(stats))
	}
	stat := stats[0]
	if stat.PartnerID != users[0].ID {
		t.Fatalf("expected partner %d, got %d", users[0].ID, stat.PartnerID)
	}
	if stat.UnreadCount != 1 {
		t.Fatalf("expected 1 unread, got %d", stat.UnreadCount)
	}
	if stat.LastMessage != "latest" {
		t.Fatalf("expected last message %q, got %q", "latest", stat.LastMessage)
	}
	if !stat.LastMessageTime.Equal(last.CreatedAt) {
		t.Fatalf("expected last message time %v, got %v", last.CreatedAt, stat.LastMessageTime)
	}

	// marking read zeroes unread but leaves last message time untouched
	if _, err := repo.MarkRead(users[1].ID, users[0].ID); err != nil {
		t.Fatalf("mark read: %v", err)
	}
	stats, err = repo.ConversationStats(users[1].ID)
	if err != nil {
		t.Fatalf("conversation stats after read: %v", err)
	}
	if stats[0].UnreadCount != 0 {
		t.Fatalf("expected 0 unread after read, got %d", stats[0].UnreadCount)
	}
	if !stats[0].LastMessageTime.Equal(last.CreatedAt) {
		t.Fatalf("last message time changed by mark read")
	}
}
