package store

import (
	"context"

	"Jaffer/backend/go/internal/models"

	"gorm.io/gorm"
)

// --- History Management ---

// AppendExchange 在一个事务中先写入用户消息，再写入模型回复。
func (s *Store) AppendExchange(ctx context.Context, userMessage, reply string) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 1. 用户消息
		if err := tx.Create(&models.ConversationTurn{Role: models.SpeakerUser, Content: userMessage}).Error; err != nil {
			return err
		}
		// 2. 模型回复
		return tx.Create(&models.ConversationTurn{Role: models.SpeakerBot, Content: reply}).Error
	})
}

// RecentUserMessages 返回最近的 limit 条用户消息，最新的在前。
func (s *Store) RecentUserMessages(ctx context.Context, limit int) ([]string, error) {
	messages := []string{}
	err := s.DB.WithContext(ctx).
		Model(&models.ConversationTurn{}).
		Where("role = ?", models.SpeakerUser).
		Order("id DESC").
		Limit(limit).
		Pluck("content", &messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}

// Turns 按写入顺序返回全部对话记录。
func (s *Store) Turns(ctx context.Context) ([]models.ConversationTurn, error) {
	var turns []models.ConversationTurn
	if err := s.DB.WithContext(ctx).Order("id").Find(&turns).Error; err != nil {
		return nil, err
	}
	return turns, nil
}

// Clear 删除全部对话记录。
func (s *Store) Clear(ctx context.Context) error {
	return s.DB.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&models.ConversationTurn{}).Error
}
