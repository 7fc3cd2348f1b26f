package service

import (
	"Meridian/internal/api/config"
	"Meridian/internal/model"
	"Meridian/internal/pkg/mongo"
	"Meridian/internal/pkg/util"
	"Meridian/internal/repository"
	"context"
	log "log/slog"
	"math/rand"
	"sort"
	"time"
)

const (
	affinityWeight  = 0.6
	recencyWeight   = 0.2
	relevanceWeight = 0.2
	jitterMax       = 0.05
	// 候选池上限，避免热门窗口把全表拉进内存打分
	candidatePoolCap = 500
	maxRelevance     = 100.0
)

// SelectionOptions 一次选题的参数，零值字段回落到配置默认
type SelectionOptions struct {
	LookbackDays      int
	MinRelevanceScore int
	MaxArticles       int
}

type FeedService interface {
	GetOrCreateDailyFeed(ctx context.Context, userID uint64) ([]*model.ContentItem, error)
	SelectTopForUser(ctx context.Context, userID uint64, opts SelectionOptions) ([]*model.ContentItem, error)
}

type feedServiceImpl struct {
	contentRepo  repository.ContentRepo
	affinityRepo repository.AffinityRepo
	snapshotRepo repository.SnapshotRepo
	eventRepo    mongo.InteractionEventRepo
	cfg          config.FeedConfig

	now    func() time.Time
	jitter func() float64
}

func NewFeedService(
	contentRepo repository.ContentRepo,
	affinityRepo repository.AffinityRepo,
	snapshotRepo repository.SnapshotRepo,
	eventRepo mongo.InteractionEventRepo,
	cfg config.FeedConfig,
) FeedService {
	return &feedServiceImpl{
		contentRepo:  contentRepo,
		affinityRepo: affinityRepo,
		snapshotRepo: snapshotRepo,
		eventRepo:    eventRepo,
		cfg:          cfg,
		now:          time.Now,
		jitter:       func() float64 { return rand.Float64() * jitterMax },
	}
}

// GetOrCreateDailyFeed 返回用户当天的信息流
// 当天首次请求现算并落快照，之后同一天内重复请求读回同一份快照，
// 内容与顺序保持不变。并发首次请求靠 (user, day) 唯一索引收敛到一份
func (s *feedServiceImpl) GetOrCreateDailyFeed(ctx context.Context, userID uint64) ([]*model.ContentItem, error) {
	if userID == 0 {
		return nil, ErrParamInvalid
	}

	feedDate := util.StartOfDayUTC(s.now())

	ids, exists, err := s.snapshotRepo.GetItemIDs(ctx, userID, feedDate)
	if err != nil {
		return nil, ErrStorage
	}
	if exists {
		return s.loadOrdered(ctx, ids)
	}

	items, err := s.SelectTopForUser(ctx, userID, SelectionOptions{})
	if err != nil {
		return nil, err
	}

	snap := &model.FeedSnapshot{
		UserID:    userID,
		FeedDate:  feedDate,
		ItemCount: len(items),
		Items:     make([]model.FeedSnapshotItem, 0, len(items)),
	}
	for i, item := range items {
		snap.Items = append(snap.Items, model.FeedSnapshotItem{
			Position:      i,
			ContentItemID: item.ID,
		})
	}

	err = s.snapshotRepo.Create(ctx, snap)
	if err != nil {
		if !isDuplicateError(err) {
			return nil, ErrStorage
		}
		// 并发请求抢先写入，读回胜者的快照保证同一天返回一致
		log.InfoContext(ctx, "feed snapshot race, reading back winner", "user_id", userID)
		ids, _, err = s.snapshotRepo.GetItemIDs(ctx, userID, feedDate)
		if err != nil {
			return nil, ErrStorage
		}
		return s.loadOrdered(ctx, ids)
	}

	return items, nil
}

// SelectTopForUser 按偏好、新鲜度、编辑相关度综合打分，选出 top N
func (s *feedServiceImpl) SelectTopForUser(ctx context.Context, userID uint64, opts SelectionOptions) ([]*model.ContentItem, error) {
	if userID == 0 {
		return nil, ErrParamInvalid
	}
	opts = s.applyDefaults(opts)

	excludeIDs, err := s.eventRepo.InteractedItemIDs(ctx, userID)
	if err != nil {
		return nil, ErrStorage
	}

	now := s.now()
	publishedAfter := now.AddDate(0, 0, -opts.LookbackDays)
	candidates, err := s.contentRepo.ListCandidates(ctx, publishedAfter, opts.MinRelevanceScore, excludeIDs, candidatePoolCap)
	if err != nil {
		return nil, ErrStorage
	}
	if len(candidates) == 0 {
		return []*model.ContentItem{}, nil
	}

	scores, err := s.affinityRepo.GetScores(ctx, userID, collectTopicIDs(candidates))
	if err != nil {
		return nil, ErrStorage
	}

	type scored struct {
		item  *model.ContentItem
		score float64
	}
	ranked := make([]scored, 0, len(candidates))
	for _, item := range candidates {
		ranked = append(ranked, scored{
			item:  item,
			score: s.composite(item, scores, now, opts.LookbackDays),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	if len(ranked) > opts.MaxArticles {
		ranked = ranked[:opts.MaxArticles]
	}

	result := make([]*model.ContentItem, 0, len(ranked))
	for _, r := range ranked {
		result = append(result, r.item)
	}
	return result, nil
}

// composite = 0.6*主题偏好均值 + 0.2*新鲜度 + 0.2*归一化相关度 + 微抖动
// 抖动只用来打散得分接近的条目，避免固定的平局顺序
func (s *feedServiceImpl) composite(item *model.ContentItem, scores map[uint64]float64, now time.Time, lookbackDays int) float64 {
	affinity := 0.0
	if len(item.Topics) > 0 {
		sum := 0.0
		for _, topic := range item.Topics {
			sum += scores[topic.ID]
		}
		affinity = sum / float64(len(item.Topics))
	}

	recency := 0.0
	windowHours := float64(lookbackDays) * 24
	if windowHours > 0 {
		ageHours := now.Sub(item.PublishedAt).Hours()
		// 发布时间在未来（时钟偏差）按满新鲜度计，上限封在 1
		recency = clamp(1-ageHours/windowHours, 0, 1)
	}

	relevance := clamp(float64(item.RelevanceScore)/maxRelevance, 0, 1)

	return affinityWeight*affinity + recencyWeight*recency + relevanceWeight*relevance + s.jitter()
}

func (s *feedServiceImpl) applyDefaults(opts SelectionOptions) SelectionOptions {
	if opts.LookbackDays <= 0 {
		opts.LookbackDays = s.cfg.LookbackDays
	}
	if opts.MinRelevanceScore <= 0 {
		opts.MinRelevanceScore = s.cfg.MinRelevanceScore
	}
	if opts.MaxArticles <= 0 {
		opts.MaxArticles = s.cfg.MaxArticles
	}
	return opts
}

// loadOrdered 按快照里的顺序还原内容列表，已下架的内容跳过
func (s *feedServiceImpl) loadOrdered(ctx context.Context, ids []uint64) ([]*model.ContentItem, error) {
	if len(ids) == 0 {
		return []*model.ContentItem{}, nil
	}

	items, err := s.contentRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, ErrStorage
	}

	byID := make(map[uint64]*model.ContentItem, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}

	ordered := make([]*model.ContentItem, 0, len(ids))
	for _, id := range ids {
		if item, ok := byID[id]; ok {
			ordered = append(ordered, item)
		}
	}
	return ordered, nil
}

func collectTopicIDs(items []*model.ContentItem) []uint64 {
	seen := make(map[uint64]struct{})
	ids := make([]uint64, 0)
	for _, item := range items {
		for _, topic := range item.Topics {
			if _, ok := seen[topic.ID]; ok {
				continue
			}
			seen[topic.ID] = struct{}{}
			ids = append(ids, topic.ID)
		}
	}
	return ids
}
