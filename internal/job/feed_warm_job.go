package job

import (
	"Meridian/internal/pkg/consts"
	"Meridian/internal/pkg/logger"
	"Meridian/internal/pkg/redis"
	"Meridian/internal/pkg/util"
	"Meridian/internal/service"
	"context"
	log "log/slog"
	"time"

	"github.com/google/uuid"
)

// FeedWarmJob 信息流预热任务
// 把前一天有过交互的用户圈出来，提前算好当天的快照，
// 用户清早首刷直接命中缓存
type FeedWarmJob struct {
	feedSvc service.FeedService
}

func NewFeedWarmJob(feedSvc service.FeedService) *FeedWarmJob {
	return &FeedWarmJob{
		feedSvc: feedSvc,
	}
}

func (s *FeedWarmJob) Run() {
	traceID := "job-feedwarm-" + uuid.NewString()
	ctx := context.WithValue(context.Background(), logger.TraceIDKey, traceID)

	// 多实例部署下只允许一个实例预热
	locked, err := redis.TryLock(ctx, consts.FeedWarmLock, traceID, 30*time.Minute, 0)
	if err != nil || !locked {
		return
	}
	defer redis.UnLock(ctx, consts.FeedWarmLock, traceID)

	processingKey := consts.FeedActiveSetKey + ":processing"
	err = redis.Rename(ctx, consts.FeedActiveSetKey, processingKey)
	if err != nil {
		// 活跃集为空属正常情况
		return
	}

	tempSet, err := redis.GetSet(ctx, processingKey)
	if err != nil {
		log.ErrorContext(ctx, "get active user set error", "err", err)
		return
	}

	userIDs, err := util.StrSliceToUInt64Slice(tempSet)
	if err != nil {
		log.ErrorContext(ctx, "convert active set to int slice error", "err", err)
		return
	}

	log.InfoContext(ctx, "FeedWarmJob processing", "user_count", len(userIDs))

	warmed := 0
	for _, uid := range userIDs {
		if _, err := s.feedSvc.GetOrCreateDailyFeed(ctx, uid); err != nil {
			log.ErrorContext(ctx, "warm daily feed error", "uid", uid, "err", err)
			continue
		}
		warmed++
	}

	err = redis.DeleteKey(ctx, processingKey)
	if err != nil {
		log.ErrorContext(ctx, "delete feed processing set error", "err", err)
	}

	log.InfoContext(ctx, "FeedWarmJob finished", "warmed_count", warmed)
}
