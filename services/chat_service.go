package services

import (
	"log"
	"sort"
	"strings"

	"github.com/teneola/staffx/config"
	"github.com/teneola/staffx/db"
	apiError "github.com/teneola/staffx/errors"
	"github.com/teneola/staffx/models"
	"gorm.io/gorm"
)

// ChatService is the message store plus the conversation ranker. It owns
// validation: nothing reaches the repository that would violate the message
// invariants.
type ChatService interface {
	SaveMessage(senderID, receiverID uint, content string) (*models.Message, error)
	GetHistory(userA, userB uint) ([]models.Message, error)
	MarkRead(viewerID, partnerID uint) (int64, error)
	CountUnread(viewerID uint) (int64, error)
	RankedConversations(viewerID uint) ([]models.ChatUser, error)
}

type chatService struct {
	Config      *config.Config
	messageRepo db.MessageRepository
	userRepo    db.UserRepository
}

func NewChatService(messageRepo db.MessageRepository, userRepo db.UserRepository, conf *config.Config) ChatService {
	return &chatService{
		Config:      conf,
		messageRepo: messageRepo,
		userRepo:    userRepo,
	}
}

// SaveMessage validates and persists a direct message. Empty content and
// unknown sender/receiver ids are rejected before anything touches storage,
// so a failed send never produces a stored row.
func (s *chatService) SaveMessage(senderID, receiverID uint, content string) (*models.Message, error) {
	if strings.TrimSpace(content) == "" {
		return nil, apiError.ErrEmptyContent
	}
	for _, id := range []uint{senderID, receiverID} {
		exists, err := s.userRepo.UserExists(id)
		if err != nil {
			log.Printf("SaveMessage user lookup error: %v", err)
			return nil, apiError.ErrStorage
		}
		if !exists {
			return nil, apiError.ErrUnknownUser
		}
	}

	msg := &models.Message{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Content:    content,
	}
	saved, err := s.messageRepo.SaveMessage(msg)
	if err != nil {
		log.Printf("SaveMessage error: %v", err)
		return nil, apiError.ErrStorage
	}
	return saved, nil
}

func (s *chatService) GetHistory(userA, userB uint) ([]models.Message, error) {
	msgs, err := s.messageRepo.GetHistory(userA, userB)
	if err != nil {
		log.Printf("GetHistory error: %v", err)
		return nil, apiError.ErrStorage
	}
	return msgs, nil
}

func (s *chatService) MarkRead(viewerID, partnerID uint) (int64, error) {
	updated, err := s.messageRepo.MarkRead(viewerID, partnerID)
	if err != nil {
		log.Printf("MarkRead error: %v", err)
		return 0, apiError.ErrStorage
	}
	return updated, nil
}

func (s *chatService) CountUnread(viewerID uint) (int64, error) {
	count, err := s.messageRepo.CountUnread(viewerID)
	if err != nil {
		log.Printf("CountUnread error: %v", err)
		return 0, apiError.ErrStorage
	}
	return count, nil
}

// RankedConversations left-joins the full directory (minus the viewer) with
// the viewer's conversation stats: most recent conversation first, users
// without history at the bottom sorted by name. The tie-break by name keeps
// the ordering deterministic.
func (s *chatService) RankedConversations(viewerID uint) ([]models.ChatUser, error) {
	if _, err := s.userRepo.FindUserByID(viewerID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apiError.ErrUnknownUser
		}
		log.Printf("RankedConversations viewer lookup error: %v", err)
		return nil, apiError.ErrStorage
	}

	stats, err := s.messageRepo.ConversationStats(viewerID)
	if err != nil {
		log.Printf("RankedConversations stats error: %v", err)
		return nil, apiError.ErrStorage
	}
	statsByPartner := make(map[uint]models.ConversationStat, len(stats))
	for _, stat := range stats {
		statsByPartner[stat.PartnerID] = stat
	}

	users, err := s.userRepo.GetAllUsersExcept(viewerID)
	if err != nil {
		log.Printf("RankedConversations directory error: %v", err)
		return nil, apiError.ErrStorage
	}

	list := make([]models.ChatUser, 0, len(users))
	for _, user := range users {
		entry := models.ChatUser{
			ID:     user.ID,
			Name:   user.Name,
			Role:   user.Role,
			Status: user.Status,
		}
		if stat, ok := statsByPartner[user.ID]; ok {
			t := stat.LastMessageTime
			entry.LastMessageTime = &t
			entry.LastMessage = stat.LastMessage
			entry.UnreadCount = stat.UnreadCount
		}
		list = append(list, entry)
	}

	sort.SliceStable(list, func(i, j int) bool {
		a, b := list[i], list[j]
		switch {
		case a.LastMessageTime == nil && b.LastMessageTime == nil:
			return a.Name < b.Name
		case a.LastMessageTime == nil:
			return false
		case b.LastMessageTime == nil:
			return true
		case !a.LastMessageTime.Equal(*b.LastMessageTime):
			return a.LastMessageTime.After(*b.LastMessageTime)
		default:
			return a.Name < b.Name
		}
	})

	return list, nil
}
