package service

import (
	"Meridian/internal/model"
	"Meridian/internal/pkg/consts"
	"Meridian/internal/pkg/mongo"
	"Meridian/internal/pkg/redis"
	"Meridian/internal/repository"
	"context"
	log "log/slog"
	"strconv"
	"time"
)

type EngagementService interface {
	// Track 上报一次阅读行为（停留时长 + 可选显式表态），先分类再入账
	Track(ctx context.Context, userID, itemID uint64, dwellTimeMs int64, reaction model.Reaction) error
	// TrackAction 上报一次显式操作（收藏 / 转发 / 想看更多）
	TrackAction(ctx context.Context, userID, itemID uint64, action model.InteractionType) error
}

type engagementServiceImpl struct {
	contentRepo     repository.ContentRepo
	affinityService AffinityService
	eventRepo       mongo.InteractionEventRepo

	now        func() time.Time
	markActive func(ctx context.Context, userID uint64)
}

func NewEngagementService(
	contentRepo repository.ContentRepo,
	affinityService AffinityService,
	eventRepo mongo.InteractionEventRepo,
) EngagementService {
	return &engagementServiceImpl{
		contentRepo:     contentRepo,
		affinityService: affinityService,
		eventRepo:       eventRepo,
		now:             time.Now,
		markActive:      markActiveUser,
	}
}

// markActiveUser 标记用户活跃，供夜间预热任务圈选，失败不影响本次上报
func markActiveUser(ctx context.Context, userID uint64) {
	if err := redis.SAdd(ctx, consts.FeedActiveSetKey, strconv.FormatUint(userID, 10)); err != nil {
		log.WarnContext(ctx, "mark active user failed", "user_id", userID, "err", err)
	}
}

func (s *engagementServiceImpl) Track(ctx context.Context, userID, itemID uint64, dwellTimeMs int64, reaction model.Reaction) error {
	if userID == 0 || itemID == 0 || dwellTimeMs < 0 {
		return ErrParamInvalid
	}

	action := ClassifyInteraction(dwellTimeMs, reaction)
	return s.apply(ctx, userID, itemID, action, dwellTimeMs)
}

func (s *engagementServiceImpl) TrackAction(ctx context.Context, userID, itemID uint64, action model.InteractionType) error {
	if userID == 0 || itemID == 0 {
		return ErrParamInvalid
	}

	// 只有这三种显式操作允许直接上报，其余类型必须走分类器
	switch action {
	case model.InteractionBookmark, model.InteractionShare, model.InteractionMoreLikeThis:
	default:
		return ErrActionInvalid
	}

	return s.apply(ctx, userID, itemID, action, 0)
}

// apply 入账顺序：先更新偏好，再落事件
// 衰减窗口查的是"此前"的交互历史，本次事件必须晚于偏好更新写入
func (s *engagementServiceImpl) apply(ctx context.Context, userID, itemID uint64, action model.InteractionType, dwellTimeMs int64) error {
	item, err := s.contentRepo.GetByID(ctx, itemID)
	if err != nil {
		return ErrStorage
	}
	if item == nil {
		return ErrContentNotFound
	}

	ts := s.now()

	if err := s.affinityService.ApplyInteraction(ctx, userID, item, action, dwellTimeMs, ts); err != nil {
		return err
	}

	topicIDs := make([]uint64, 0, len(item.Topics))
	for _, topic := range item.Topics {
		topicIDs = append(topicIDs, topic.ID)
	}

	err = s.eventRepo.Record(ctx, &mongo.InteractionEvent{
		UserID:        userID,
		ContentItemID: itemID,
		Type:          action,
		DwellTimeMs:   dwellTimeMs,
		TopicIDs:      topicIDs,
		CreatedAt:     ts,
	})
	if err != nil {
		log.ErrorContext(ctx, "record interaction event failed",
			"user_id", userID, "content_item_id", itemID, "err", err)
		return ErrStorage
	}

	s.markActive(ctx, userID)

	return nil
}
