package service

import (
	"Meridian/internal/model"
	"Meridian/internal/pkg/mongo"
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/go-sql-driver/mysql"
)

// fakeAffinityRepo 内存版偏好存储，带版本号 CAS 语义
type fakeAffinityRepo struct {
	mu   sync.Mutex
	rows map[[2]uint64]*model.UserTopicAffinity

	getErr error
	casErr error
}

func newFakeAffinityRepo() *fakeAffinityRepo {
	return &fakeAffinityRepo{rows: make(map[[2]uint64]*model.UserTopicAffinity)}
}

func (f *fakeAffinityRepo) Get(_ context.Context, userID, topicID uint64) (*model.UserTopicAffinity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	row, ok := f.rows[[2]uint64{userID, topicID}]
	if !ok {
		return nil, nil
	}
	cp := *row
	return &cp, nil
}

func (f *fakeAffinityRepo) GetScores(_ context.Context, userID uint64, topicIDs []uint64) (map[uint64]float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	scores := make(map[uint64]float64)
	for _, tid := range topicIDs {
		if row, ok := f.rows[[2]uint64{userID, tid}]; ok {
			scores[tid] = row.Score
		}
	}
	return scores, nil
}

func (f *fakeAffinityRepo) Create(_ context.Context, aff *model.UserTopicAffinity) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := [2]uint64{aff.UserID, aff.TopicID}
	if _, ok := f.rows[key]; ok {
		return &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}
	}
	cp := *aff
	f.rows[key] = &cp
	return nil
}

func (f *fakeAffinityRepo) CompareAndSwap(_ context.Context, userID, topicID, oldVersion uint64, score float64, updatedAt time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.casErr != nil {
		return false, f.casErr
	}
	row, ok := f.rows[[2]uint64{userID, topicID}]
	if !ok || row.Version != oldVersion {
		return false, nil
	}
	row.Score = score
	row.Version++
	row.UpdatedAt = updatedAt
	return true, nil
}

func (f *fakeAffinityRepo) score(userID, topicID uint64) (float64, uint64, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[[2]uint64{userID, topicID}]
	if !ok {
		return 0, 0, false
	}
	return row.Score, row.Version, true
}

func (f *fakeAffinityRepo) seed(userID, topicID uint64, score float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows[[2]uint64{userID, topicID}] = &model.UserTopicAffinity{
		UserID:  userID,
		TopicID: topicID,
		Score:   score,
		Version: 1,
	}
}

// fakeEventRepo 内存版交互事件日志
type fakeEventRepo struct {
	mu     sync.Mutex
	events []*mongo.InteractionEvent

	recentErr error
	recordErr error
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{}
}

// Record 与真实实现保持一致：单次语义的类型按 (user, item, type) 覆盖，
// 浏览/跳过类每次追加
func (f *fakeEventRepo) Record(_ context.Context, ev *mongo.InteractionEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.recordErr != nil {
		return f.recordErr
	}
	if ev.Type.IsIdempotent() {
		for _, old := range f.events {
			if old.UserID == ev.UserID && old.ContentItemID == ev.ContentItemID && old.Type == ev.Type {
				old.DwellTimeMs = ev.DwellTimeMs
				old.TopicIDs = ev.TopicIDs
				old.CreatedAt = ev.CreatedAt
				return nil
			}
		}
	}
	cp := *ev
	f.events = append(f.events, &cp)
	return nil
}

func (f *fakeEventRepo) eventsFor(userID uint64) []*mongo.InteractionEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*mongo.InteractionEvent
	for _, ev := range f.events {
		if ev.UserID == userID {
			cp := *ev
			out = append(out, &cp)
		}
	}
	return out
}

func (f *fakeEventRepo) RecentByUserTopic(_ context.Context, userID, topicID uint64, limit int64) ([]*mongo.InteractionEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.recentErr != nil {
		return nil, f.recentErr
	}
	var out []*mongo.InteractionEvent
	for _, ev := range f.events {
		if ev.UserID != userID {
			continue
		}
		for _, tid := range ev.TopicIDs {
			if tid == topicID {
				out = append(out, ev)
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeEventRepo) InteractedItemIDs(_ context.Context, userID uint64) ([]uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	seen := make(map[uint64]struct{})
	var ids []uint64
	for _, ev := range f.events {
		if ev.UserID != userID {
			continue
		}
		if _, ok := seen[ev.ContentItemID]; ok {
			continue
		}
		seen[ev.ContentItemID] = struct{}{}
		ids = append(ids, ev.ContentItemID)
	}
	return ids, nil
}

// fakeContentRepo 内存版内容库
type fakeContentRepo struct {
	items []*model.ContentItem
}

func (f *fakeContentRepo) GetByID(_ context.Context, id uint64) (*model.ContentItem, error) {
	for _, item := range f.items {
		if item.ID == id {
			return item, nil
		}
	}
	return nil, nil
}

func (f *fakeContentRepo) GetByIDs(_ context.Context, ids []uint64) ([]*model.ContentItem, error) {
	var out []*model.ContentItem
	for _, id := range ids {
		for _, item := range f.items {
			if item.ID == id {
				out = append(out, item)
			}
		}
	}
	return out, nil
}

func (f *fakeContentRepo) ListCandidates(_ context.Context, publishedAfter time.Time, minRelevance int, excludeIDs []uint64, limit int) ([]*model.ContentItem, error) {
	excluded := make(map[uint64]struct{}, len(excludeIDs))
	for _, id := range excludeIDs {
		excluded[id] = struct{}{}
	}

	var out []*model.ContentItem
	for _, item := range f.items {
		if item.PublishedAt.Before(publishedAfter) {
			continue
		}
		if item.RelevanceScore < minRelevance {
			continue
		}
		if _, ok := excluded[item.ID]; ok {
			continue
		}
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PublishedAt.After(out[j].PublishedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// fakeSnapshotRepo 内存版快照存储，(user, day) 唯一
type fakeSnapshotRepo struct {
	mu        sync.Mutex
	snapshots map[string][]uint64
	creates   int

	createErr error
}

func newFakeSnapshotRepo() *fakeSnapshotRepo {
	return &fakeSnapshotRepo{snapshots: make(map[string][]uint64)}
}

func (f *fakeSnapshotRepo) key(userID uint64, feedDate time.Time) string {
	return strconv.FormatUint(userID, 10) + "/" + feedDate.Format("2006-01-02")
}

func (f *fakeSnapshotRepo) GetItemIDs(_ context.Context, userID uint64, feedDate time.Time) ([]uint64, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids, ok := f.snapshots[f.key(userID, feedDate)]
	if !ok {
		return nil, false, nil
	}
	return ids, true, nil
}

func (f *fakeSnapshotRepo) Create(_ context.Context, snap *model.FeedSnapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	key := f.key(snap.UserID, snap.FeedDate)
	if _, ok := f.snapshots[key]; ok {
		return &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}
	}
	ids := make([]uint64, 0, len(snap.Items))
	for _, item := range snap.Items {
		ids = append(ids, item.ContentItemID)
	}
	f.snapshots[key] = ids
	f.creates++
	return nil
}
