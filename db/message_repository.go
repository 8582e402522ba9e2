package db

import (
	"github.com/pkg/errors"
	"github.com/teneola/staffx/models"
	"gorm.io/gorm"
)

type MessageRepository interface {
	SaveMessage(msg *models.Message) (*models.Message, error)
	GetHistory(userA, userB uint) ([]models.Message, error)
	MarkRead(viewerID, partnerID uint) (int64, error)
	CountUnread(viewerID uint) (int64, error)
	ConversationStats(viewerID uint) ([]models.ConversationStat, error)
}

type messageRepo struct {
	DB *gorm.DB
}

func NewMessageRepo(db *GormDB) MessageRepository {
	return &messageRepo{db.DB}
}

// SaveMessage persists the message and returns it with the server-assigned id
// and timestamp, plus the sender preloaded for the denormalized display name.
func (m *messageRepo) SaveMessage(msg *models.Message) (*models.Message, error) {
	if err := m.DB.Create(msg).Error; err != nil {
		return nil, errors.Wrap(err, "could not save message")
	}
	if err := m.DB.Preload("Sender").First(msg, msg.ID).Error; err != nil {
		return nil, errors.Wrap(err, "could not reload message")
	}
	return msg, nil
}

func (m *messageRepo) GetHistory(userA, userB uint) ([]models.Message, error) {
	var msgs []models.Message
	err := m.DB.Preload("Sender").
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
			userA, userB, userB, userA).
		Order("created_at asc, id asc").
		Find(&msgs).Error
	if err != nil {
		return nil, errors.Wrap(err, "could not load history")
	}
	return msgs, nil
}

// MarkRead flips the unread flag on everything the partner sent to the viewer.
// Returns the number of rows updated; 0 on a repeat call.
func (m *messageRepo) MarkRead(viewerID, partnerID uint) (int64, error) {
	result := m.DB.Model(&models.Message{}).
		Where("receiver_id = ? AND sender_id = ? AND is_read = ?", viewerID, partnerID, false).
		UpdateColumn("is_read", true)
	if result.Error != nil {
		return 0, errors.Wrap(result.Error, "could not mark messages read")
	}
	return result.RowsAffected, nil
}

func (m *messageRepo) CountUnread(viewerID uint) (int64, error) {
	var count int64
	err := m.DB.Model(&models.Message{}).
		Where("receiver_id = ? AND is_read = ?", viewerID, false).
		Count(&count).Error
	if err != nil {
		return 0, errors.Wrap(err, "could not count unread messages")
	}
	return count, nil
}

// ConversationStats folds a full scan of the viewer's messages into one entry
// per partner. The scan is deliberate: the list is recomputed on every fetch
// instead of being cached or materialized, and history is ordered, so the
// last row per pair is the latest message.
func (m *messageRepo) ConversationStats(viewerID uint) ([]models.ConversationStat, error) {
	var msgs []models.Message
	err := m.DB.
		Where("sender_id = ? OR receiver_id = ?", viewerID, viewerID).
		Order("created_at asc, id asc").
		Find(&msgs).Error
	if err != nil {
		return nil, errors.Wrap(err, "could not load conversation stats")
	}

	byPartner := make(map[uint]*models.ConversationStat)
	var order []uint
	for _, msg := range msgs {
		partnerID := msg.SenderID
		if msg.SenderID == viewerID {
			partnerID = msg.ReceiverID
		}
		stat, ok := byPartner[partnerID]
		if !ok {
			stat = &models.ConversationStat{PartnerID: partnerID}
			byPartner[partnerID] = stat
			order = append(order, partnerID)
		}
		stat.LastMessageTime = msg.CreatedAt
		stat.LastMessage = msg.Content
		if msg.ReceiverID == viewerID && !msg.IsRead {
			stat.UnreadCount++
		}
	}

	stats := make([]models.ConversationStat, 0, len(order))
	for _, partnerID := range order {
		stats = append(stats, *byPartner[partnerID])
	}
	return stats, nil
}
