package model

// Reaction 客户端上报的显式表态
type Reaction string

const (
	ReactionNone Reaction = "none"
	ReactionUp   Reaction = "up"
	ReactionDown Reaction = "down"
)

// InteractionType 交互事件分类结果
type InteractionType string

const (
	InteractionLike         InteractionType = "like"
	InteractionMoreLikeThis InteractionType = "more_like_this"
	InteractionBookmark     InteractionType = "bookmark"
	InteractionShare        InteractionType = "share"
	InteractionViewLong     InteractionType = "view_long"
	InteractionView         InteractionType = "view"
	InteractionSkipFast     InteractionType = "skip_fast"
	InteractionHideTopic    InteractionType = "hide_topic"
)

// IsIdempotent 单次语义的交互类型：同一 (user, item, type) 重复上报只刷新时间戳
func (t InteractionType) IsIdempotent() bool {
	switch t {
	case InteractionLike, InteractionBookmark, InteractionShare,
		InteractionMoreLikeThis, InteractionHideTopic:
		return true
	}
	return false
}
