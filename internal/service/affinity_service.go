package service

import (
	"Meridian/internal/model"
	"Meridian/internal/pkg/mongo"
	"Meridian/internal/repository"
	"context"
	"errors"
	log "log/slog"
	"math"
	"time"

	"github.com/go-sql-driver/mysql"
)

// 各交互类型的基础权重
var interactionWeights = map[model.InteractionType]float64{
	model.InteractionLike:         1.0,
	model.InteractionMoreLikeThis: 0.8,
	model.InteractionBookmark:     0.7,
	model.InteractionShare:        0.5,
	model.InteractionViewLong:     0.4,
	model.InteractionView:         0.1,
	model.InteractionSkipFast:     -0.3,
	model.InteractionHideTopic:    -1.0,
}

const (
	recentWindowSize      = 10
	recentCountCap        = 5
	decayBase             = 0.95
	maxDecayDays          = 30.0
	diminishBase          = 0.8
	firstInteractionBoost = 1.5
	minEffectiveWeight    = 0.01
	momentum              = 0.7
	casMaxAttempts        = 5
)

type AffinityService interface {
	ApplyInteraction(ctx context.Context, userID uint64, item *model.ContentItem, action model.InteractionType, dwellTimeMs int64, ts time.Time) error
}

type affinityServiceImpl struct {
	affinityRepo repository.AffinityRepo
	eventRepo    mongo.InteractionEventRepo
}

func NewAffinityService(affinityRepo repository.AffinityRepo, eventRepo mongo.InteractionEventRepo) AffinityService {
	return &affinityServiceImpl{
		affinityRepo: affinityRepo,
		eventRepo:    eventRepo,
	}
}

// ApplyInteraction 将一次分类后的交互折算进该内容所有主题的偏好得分
// 单个主题更新失败只记日志，不影响其余主题
func (s *affinityServiceImpl) ApplyInteraction(ctx context.Context, userID uint64, item *model.ContentItem, action model.InteractionType, dwellTimeMs int64, ts time.Time) error {
	if userID == 0 || item == nil {
		return ErrParamInvalid
	}

	for _, topic := range item.Topics {
		if err := s.updateTopicScore(ctx, userID, topic.ID, action, dwellTimeMs, ts); err != nil {
			log.ErrorContext(ctx, "update topic affinity failed",
				"user_id", userID, "topic_id", topic.ID, "action", action, "err", err)
		}
	}
	return nil
}

func (s *affinityServiceImpl) updateTopicScore(ctx context.Context, userID, topicID uint64, action model.InteractionType, dwellTimeMs int64, ts time.Time) error {
	base, ok := interactionWeights[action]
	if !ok {
		// 未知类型按零权重处理，不让单条脏数据影响整批更新
		log.WarnContext(ctx, "unknown interaction type, skipped", "action", action)
		return nil
	}

	weight := base

	// 停留时长只修正浏览类权重
	if action == model.InteractionView || action == model.InteractionViewLong {
		dwellMinutes := float64(dwellTimeMs) / 60000
		weight *= clamp(dwellMinutes/2, 0.5, 1.5)
	}

	// 时间衰减与边际递减只作用于正向权重：
	// 负向信号（快划、屏蔽）需要全额生效
	if weight > 0 {
		events, err := s.eventRepo.RecentByUserTopic(ctx, userID, topicID, recentWindowSize)
		if err != nil {
			log.ErrorContext(ctx, "query interaction window failed", "err", err)
			return ErrStorage
		}

		daysSince := 999.0
		if len(events) > 0 {
			daysSince = ts.Sub(events[0].CreatedAt).Hours() / 24
			if daysSince < 0 {
				daysSince = 0
			}
		}
		weight *= math.Pow(decayBase, math.Min(daysSince, maxDecayDays))

		recentCount := len(events)
		if recentCount > recentCountCap {
			recentCount = recentCountCap
		}
		weight *= math.Pow(diminishBase, float64(recentCount))
	}

	for attempt := 0; attempt < casMaxAttempts; attempt++ {
		row, err := s.affinityRepo.Get(ctx, userID, topicID)
		if err != nil {
			return ErrStorage
		}

		effective := weight
		if row == nil {
			effective *= firstInteractionBoost
		}
		if math.Abs(effective) < minEffectiveWeight {
			return nil
		}

		current := 0.0
		if row != nil {
			current = row.Score
		}

		// 越接近边界学习率越低，得分自稳定
		confidence := 1 - math.Abs(current)
		learningRate := 0.1 + confidence*0.2
		delta := effective * learningRate
		newScore := clamp(current*momentum+(current+delta)*(1-momentum), -1, 1)

		if row == nil {
			err = s.affinityRepo.Create(ctx, &model.UserTopicAffinity{
				UserID:    userID,
				TopicID:   topicID,
				Score:     newScore,
				Version:   1,
				UpdatedAt: ts,
			})
			if err == nil {
				return nil
			}
			if isDuplicateError(err) {
				// 并发首次写入，重读后按已有行走 CAS
				continue
			}
			return ErrStorage
		}

		swapped, err := s.affinityRepo.CompareAndSwap(ctx, userID, topicID, row.Version, newScore, ts)
		if err != nil {
			return ErrStorage
		}
		if swapped {
			return nil
		}
	}

	log.WarnContext(ctx, "affinity update contention exhausted",
		"user_id", userID, "topic_id", topicID)
	return ErrStorage
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func isDuplicateError(err error) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
		return true
	}
	return false
}
