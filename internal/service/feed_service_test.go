package service

import (
	"Meridian/internal/api/config"
	"Meridian/internal/model"
	"Meridian/internal/pkg/mongo"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var feedTestNow = time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)

func newFeedFixture(items []*model.ContentItem) (*fakeAffinityRepo, *fakeEventRepo, *fakeSnapshotRepo, *feedServiceImpl) {
	affinityRepo := newFakeAffinityRepo()
	eventRepo := newFakeEventRepo()
	snapshotRepo := newFakeSnapshotRepo()

	svc := &feedServiceImpl{
		contentRepo:  &fakeContentRepo{items: items},
		affinityRepo: affinityRepo,
		snapshotRepo: snapshotRepo,
		eventRepo:    eventRepo,
		cfg: config.FeedConfig{
			LookbackDays:      1,
			MinRelevanceScore: 7,
			MaxArticles:       10,
		},
		now:    func() time.Time { return feedTestNow },
		jitter: func() float64 { return 0 },
	}
	return affinityRepo, eventRepo, snapshotRepo, svc
}

func feedTestItems() []*model.ContentItem {
	return []*model.ContentItem{
		{ID: 1, Title: "a", RelevanceScore: 90, PublishedAt: feedTestNow.Add(-1 * time.Hour),
			Topics: []model.Topic{{ID: 1, Name: "go"}}},
		{ID: 2, Title: "b", RelevanceScore: 100, PublishedAt: feedTestNow.Add(-12 * time.Hour),
			Topics: []model.Topic{{ID: 2, Name: "rust"}}},
		{ID: 3, Title: "c", RelevanceScore: 70, PublishedAt: feedTestNow.Add(-2 * time.Hour),
			Topics: []model.Topic{{ID: 1, Name: "go"}, {ID: 3, Name: "db"}}},
	}
}

func itemIDs(items []*model.ContentItem) []uint64 {
	ids := make([]uint64, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}
	return ids
}

func TestCompositeScore(t *testing.T) {
	_, _, _, svc := newFeedFixture(nil)
	scores := map[uint64]float64{1: 0.8, 3: 0.2}
	items := feedTestItems()

	// 0.6×0.8 + 0.2×(1-1/24) + 0.2×0.9
	assert.InDelta(t, 0.8517, svc.composite(items[0], scores, feedTestNow, 1), 0.0005)
	// 主题无偏好记录按 0 计
	assert.InDelta(t, 0.3, svc.composite(items[1], scores, feedTestNow, 1), 0.0005)
	// 多主题取均值：(0.8+0.2)/2
	assert.InDelta(t, 0.6233, svc.composite(items[2], scores, feedTestNow, 1), 0.0005)

	// 超出回看窗口的内容新鲜度为 0
	stale := &model.ContentItem{ID: 4, RelevanceScore: 100, PublishedAt: feedTestNow.Add(-30 * time.Hour),
		Topics: []model.Topic{{ID: 1}}}
	assert.InDelta(t, 0.68, svc.composite(stale, scores, feedTestNow, 1), 0.0005)

	// 上游时钟偏差导致的未来发布时间按满新鲜度计，不会超过 1
	skewed := &model.ContentItem{ID: 5, RelevanceScore: 0, PublishedAt: feedTestNow.Add(2 * time.Hour)}
	assert.InDelta(t, 0.2, svc.composite(skewed, scores, feedTestNow, 1), 0.0005)
}

func TestSelectTopForUserOrdering(t *testing.T) {
	affinityRepo, _, _, svc := newFeedFixture(feedTestItems())
	affinityRepo.seed(1, 1, 0.8)
	affinityRepo.seed(1, 3, 0.2)

	items, err := svc.SelectTopForUser(context.Background(), 1, SelectionOptions{})
	require.NoError(t, err)
	assert.Equal(t, []uint64{1, 3, 2}, itemIDs(items))
}

func TestSelectTopForUserMaxArticles(t *testing.T) {
	affinityRepo, _, _, svc := newFeedFixture(feedTestItems())
	affinityRepo.seed(1, 1, 0.8)

	items, err := svc.SelectTopForUser(context.Background(), 1, SelectionOptions{MaxArticles: 2})
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestSelectTopForUserExcludesInteracted(t *testing.T) {
	_, eventRepo, _, svc := newFeedFixture(feedTestItems())
	require.NoError(t, eventRepo.Record(context.Background(), &mongo.InteractionEvent{
		UserID:        1,
		ContentItemID: 1,
		Type:          model.InteractionView,
		TopicIDs:      []uint64{1},
		CreatedAt:     feedTestNow.Add(-1 * time.Hour),
	}))

	items, err := svc.SelectTopForUser(context.Background(), 1, SelectionOptions{})
	require.NoError(t, err)
	assert.NotContains(t, itemIDs(items), uint64(1))
}

func TestSelectTopForUserFiltersWindowAndRelevance(t *testing.T) {
	items := append(feedTestItems(),
		&model.ContentItem{ID: 4, RelevanceScore: 100, PublishedAt: feedTestNow.Add(-30 * time.Hour)},
		&model.ContentItem{ID: 5, RelevanceScore: 5, PublishedAt: feedTestNow.Add(-1 * time.Hour)},
	)
	_, _, _, svc := newFeedFixture(items)

	got, err := svc.SelectTopForUser(context.Background(), 1, SelectionOptions{})
	require.NoError(t, err)
	assert.NotContains(t, itemIDs(got), uint64(4))
	assert.NotContains(t, itemIDs(got), uint64(5))
}

// 同一天内重复请求返回同一份快照，只现算一次
func TestGetOrCreateDailyFeedIdempotent(t *testing.T) {
	affinityRepo, _, snapshotRepo, svc := newFeedFixture(feedTestItems())
	affinityRepo.seed(1, 1, 0.8)

	first, err := svc.GetOrCreateDailyFeed(context.Background(), 1)
	require.NoError(t, err)
	second, err := svc.GetOrCreateDailyFeed(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, itemIDs(first), itemIDs(second))
	assert.Equal(t, 1, snapshotRepo.creates)
}

// 候选为空也落一份空快照，当天不再重算
func TestGetOrCreateDailyFeedEmptyPool(t *testing.T) {
	_, _, snapshotRepo, svc := newFeedFixture(nil)

	items, err := svc.GetOrCreateDailyFeed(context.Background(), 1)
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
	assert.Equal(t, 1, snapshotRepo.creates)

	items, err = svc.GetOrCreateDailyFeed(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Equal(t, 1, snapshotRepo.creates)
}

// racingSnapshotRepo 模拟并发首刷：本实例查不到快照，
// 写入时发现别的实例已抢先落库
type racingSnapshotRepo struct {
	*fakeSnapshotRepo
	missedOnce bool
}

func (r *racingSnapshotRepo) GetItemIDs(ctx context.Context, userID uint64, feedDate time.Time) ([]uint64, bool, error) {
	if !r.missedOnce {
		r.missedOnce = true
		return nil, false, nil
	}
	return r.fakeSnapshotRepo.GetItemIDs(ctx, userID, feedDate)
}

func TestGetOrCreateDailyFeedConflictReadsBackWinner(t *testing.T) {
	_, _, snapshotRepo, svc := newFeedFixture(feedTestItems())

	feedDate := feedTestNow.Truncate(24 * time.Hour)
	snapshotRepo.snapshots[snapshotRepo.key(1, feedDate)] = []uint64{2, 3}
	svc.snapshotRepo = &racingSnapshotRepo{fakeSnapshotRepo: snapshotRepo}

	items, err := svc.GetOrCreateDailyFeed(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, []uint64{2, 3}, itemIDs(items))
}

func TestGetOrCreateDailyFeedParamInvalid(t *testing.T) {
	_, _, _, svc := newFeedFixture(nil)
	_, err := svc.GetOrCreateDailyFeed(context.Background(), 0)
	assert.ErrorIs(t, err, ErrParamInvalid)
}
