package model

import (
	"time"
)

// UserTopicAffinity 用户-主题偏好得分，取值范围 [-1, 1]
// Version 用于乐观锁，防止并发更新互相覆盖
type UserTopicAffinity struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	UserID    uint64    `gorm:"not null;uniqueIndex:idx_user_topic" json:"user_id"`
	TopicID   uint64    `gorm:"not null;uniqueIndex:idx_user_topic" json:"topic_id"`
	Score     float64   `gorm:"not null;default:0" json:"score"`
	Version   uint64    `gorm:"not null;default:1" json:"version"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (UserTopicAffinity) TableName() string {
	return "user_topic_affinities"
}
