package service

import (
	"Meridian/internal/model"
)

const (
	skipFastThresholdMs = 3000
	viewThresholdMs     = 20000
)

// ClassifyInteraction 将原始观测（停留时长 + 显式表态）归类为交互类型
// 显式表态优先于停留时长。纯函数，入参由调用方校验
//
// bookmark / share / more_like_this 不经过此分类器，
// 只能由客户端的显式操作直接上报
func ClassifyInteraction(dwellTimeMs int64, reaction model.Reaction) model.InteractionType {
	switch reaction {
	case model.ReactionUp:
		return model.InteractionLike
	case model.ReactionDown:
		return model.InteractionHideTopic
	}

	switch {
	case dwellTimeMs < skipFastThresholdMs:
		return model.InteractionSkipFast
	case dwellTimeMs < viewThresholdMs:
		return model.InteractionView
	default:
		return model.InteractionViewLong
	}
}
