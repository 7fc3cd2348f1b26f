package model

import (
	"time"
)

// FeedSnapshot 每日信息流快照头。(user_id, feed_date) 唯一，
// 一旦写入即不可变，同一天的重复请求以快照为准
type FeedSnapshot struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	UserID    uint64    `gorm:"not null;uniqueIndex:idx_user_date" json:"user_id"`
	FeedDate  time.Time `gorm:"not null;type:date;uniqueIndex:idx_user_date" json:"feed_date"`
	ItemCount int       `gorm:"not null;default:0" json:"item_count"`
	CreatedAt time.Time `json:"created_at"`

	// 关联关系
	Items []FeedSnapshotItem `gorm:"foreignKey:SnapshotID;references:ID"`
}

func (FeedSnapshot) TableName() string {
	return "feed_snapshots"
}

// FeedSnapshotItem 快照中的单条内容及其位次
type FeedSnapshotItem struct {
	ID            uint64 `gorm:"primaryKey" json:"id"`
	SnapshotID    uint64 `gorm:"not null;uniqueIndex:idx_snapshot_position" json:"snapshot_id"`
	Position      int    `gorm:"not null;uniqueIndex:idx_snapshot_position" json:"position"`
	ContentItemID uint64 `gorm:"not null" json:"content_item_id"`
}

func (FeedSnapshotItem) TableName() string {
	return "feed_snapshot_items"
}
