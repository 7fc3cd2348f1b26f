package model

import (
	"time"
)

// ContentItem 候选内容，由上游内容接入服务写入，本服务只读
type ContentItem struct {
	ID             uint64    `gorm:"primaryKey" json:"id"`
	Title          string    `gorm:"type:varchar(255);not null" json:"title"`
	RelevanceScore int       `gorm:"not null;default:0" json:"relevance_score"` // 编辑相关度 0-100
	PublishedAt    time.Time `gorm:"not null;index" json:"published_at"`
	CreatedAt      time.Time `json:"created_at"`

	// 关联关系
	Topics []Topic `gorm:"many2many:content_item_topics" json:"topics"`
}

func (ContentItem) TableName() string {
	return "content_items"
}
