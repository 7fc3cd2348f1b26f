package service

import (
	"Meridian/internal/model"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyInteraction(t *testing.T) {
	tests := []struct {
		name        string
		dwellTimeMs int64
		reaction    model.Reaction
		want        model.InteractionType
	}{
		{"快速划走", 1000, model.ReactionNone, model.InteractionSkipFast},
		{"普通浏览", 10000, model.ReactionNone, model.InteractionView},
		{"深度阅读", 25000, model.ReactionNone, model.InteractionViewLong},
		{"点赞优先于停留时长", 500000, model.ReactionUp, model.InteractionLike},
		{"秒赞也是赞", 100, model.ReactionUp, model.InteractionLike},
		{"点踩优先于停留时长", 500000, model.ReactionDown, model.InteractionHideTopic},
		{"快划阈值边界", 3000, model.ReactionNone, model.InteractionView},
		{"快划阈值边界内", 2999, model.ReactionNone, model.InteractionSkipFast},
		{"深读阈值边界", 20000, model.ReactionNone, model.InteractionViewLong},
		{"深读阈值边界内", 19999, model.ReactionNone, model.InteractionView},
		{"零停留", 0, model.ReactionNone, model.InteractionSkipFast},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyInteraction(tt.dwellTimeMs, tt.reaction)
			assert.Equal(t, tt.want, got)
		})
	}
}

// 分类器不会产出显式操作类的类型，这些只能由客户端直接上报
func TestClassifyInteractionNeverExplicit(t *testing.T) {
	explicit := map[model.InteractionType]bool{
		model.InteractionBookmark:     true,
		model.InteractionShare:        true,
		model.InteractionMoreLikeThis: true,
	}

	for _, reaction := range []model.Reaction{model.ReactionNone, model.ReactionUp, model.ReactionDown} {
		for _, dwell := range []int64{0, 2999, 3000, 19999, 20000, 1000000} {
			got := ClassifyInteraction(dwell, reaction)
			assert.False(t, explicit[got], "dwell=%d reaction=%s produced %s", dwell, reaction, got)
		}
	}
}
