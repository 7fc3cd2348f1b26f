package dto

// EngagementDTO 阅读行为上报
type EngagementDTO struct {
	UserID        uint64 `json:"user_id" binding:"required"`
	ContentItemID uint64 `json:"content_item_id" binding:"required"`
	DwellTimeMs   int64  `json:"dwell_time_ms" binding:"gte=0"`
	Reaction      string `json:"reaction" binding:"omitempty,oneof=none up down"`
}

// ActionDTO 显式操作上报
type ActionDTO struct {
	UserID        uint64 `json:"user_id" binding:"required"`
	ContentItemID uint64 `json:"content_item_id" binding:"required"`
	Action        string `json:"action" binding:"required,oneof=bookmark share more_like_this"`
}
