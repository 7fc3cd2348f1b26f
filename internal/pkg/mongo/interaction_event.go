package mongo

import (
	"time"

	"Meridian/internal/model"
)

// InteractionEvent 交互事件明细，追加写入的行为日志
// TopicIDs 是事件发生时内容所挂主题的冗余快照，
// 用于按 (user, topic) 维度直接检索，无需回表关联
type InteractionEvent struct {
	ID            string                `bson:"_id,omitempty" json:"id"`
	UserID        uint64                `bson:"user_id" json:"userId"`
	ContentItemID uint64                `bson:"content_item_id" json:"contentItemId"`
	Type          model.InteractionType `bson:"type" json:"type"`
	DwellTimeMs   int64                 `bson:"dwell_time_ms" json:"dwellTimeMs"`
	TopicIDs      []uint64              `bson:"topic_ids" json:"topicIds"`
	CreatedAt     time.Time             `bson:"created_at" json:"createdAt"`
}
