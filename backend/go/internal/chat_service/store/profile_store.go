package store

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"Jaffer/backend/go/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store 封装了所有与聊天服务相关的数据库操作。
type Store struct {
	DB *gorm.DB
}

// NewStore 创建一个新的 Store 实例。
func NewStore(db *gorm.DB) *Store {
	return &Store{DB: db}
}

// Migrate 幂等地创建 profile 和 history 表。
func (s *Store) Migrate(ctx context.Context) error {
	if err := s.DB.WithContext(ctx).AutoMigrate(&models.ProfileEntry{}, &models.ConversationTurn{}); err != nil {
		return fmt.Errorf("迁移数据表失败: %w", err)
	}
	return nil
}

// --- Profile Management ---

// Seed 写入种子数据，已存在的键保持不变，运营人员的修改因此在重启后依然有效。
func (s *Store) Seed(ctx context.Context, seed map[string]string) error {
	if len(seed) == 0 {
		return nil
	}
	keys := make([]string, 0, len(seed))
	for k := range seed {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	entries := make([]models.ProfileEntry, 0, len(keys))
	for _, k := range keys {
		entries = append(entries, models.ProfileEntry{Key: k, Value: seed[k]})
	}
	return s.DB.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&entries).Error
}

// GetValue 通过键查找资料值。键不存在时 ok 为 false 且不返回错误。
func (s *Store) GetValue(ctx context.Context, key string) (value string, ok bool, err error) {
	var entry models.ProfileEntry
	err = s.DB.WithContext(ctx).Where("`key` = ?", key).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return entry.Value, true, nil
}

// All 返回所有资料条目。
func (s *Store) All(ctx context.Context) (map[string]string, error) {
	var entries []models.ProfileEntry
	if err := s.DB.WithContext(ctx).Order("`key`").Find(&entries).Error; err != nil {
		return nil, err
	}
	profile := make(map[string]string, len(entries))
	for _, e := range entries {
		profile[e.Key] = e.Value
	}
	return profile, nil
}
