package repository

import (
	"Meridian/internal/model"
	"Meridian/internal/pkg/consts"
	"Meridian/internal/pkg/redis"
	"context"
	"errors"
	log "log/slog"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"gorm.io/gorm"
)

type SnapshotRepo interface {
	GetItemIDs(ctx context.Context, userID uint64, feedDate time.Time) ([]uint64, bool, error)
	Create(ctx context.Context, snap *model.FeedSnapshot) error
}

type snapshotRepoImpl struct {
	db *gorm.DB
}

func NewSnapshotRepository(db *gorm.DB) SnapshotRepo {
	return &snapshotRepoImpl{db: db}
}

// GetItemIDs 读取指定 (user, day) 快照的有序内容 ID 列表
// 先查 Redis 缓存，未命中回源 MySQL 并回填。第二个返回值表示快照是否存在，
// 空快照（当天无候选）也是存在的快照
func (s *snapshotRepoImpl) GetItemIDs(ctx context.Context, userID uint64, feedDate time.Time) ([]uint64, bool, error) {
	key := cacheKey(userID, feedDate)
	if cached, err := redis.GetValue(ctx, key); err == nil && cached != "" {
		var ids []uint64
		if err := json.Unmarshal([]byte(cached), &ids); err == nil {
			return ids, true, nil
		}
	}

	var snap model.FeedSnapshot
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND feed_date = ?", userID, feedDate).
		First(&snap).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}

	var items []*model.FeedSnapshotItem
	err = s.db.WithContext(ctx).
		Where("snapshot_id = ?", snap.ID).
		Order("position ASC").
		Find(&items).Error
	if err != nil {
		return nil, false, err
	}

	ids := make([]uint64, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ContentItemID)
	}

	s.cache(ctx, key, ids, feedDate)
	return ids, true, nil
}

// Create 原子写入快照头和全部条目。(user_id, feed_date) 唯一索引保证
// 并发首次请求下至多一份快照，冲突以重复键错误返回给调用方
func (s *snapshotRepoImpl) Create(ctx context.Context, snap *model.FeedSnapshot) error {
	items := snap.Items
	snap.Items = nil

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(snap).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}
		for i := range items {
			items[i].SnapshotID = snap.ID
		}
		return tx.Create(&items).Error
	})
	if err != nil {
		return err
	}

	ids := make([]uint64, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ContentItemID)
	}
	s.cache(ctx, cacheKey(snap.UserID, snap.FeedDate), ids, snap.FeedDate)
	return nil
}

func (s *snapshotRepoImpl) cache(ctx context.Context, key string, ids []uint64, feedDate time.Time) {
	payload, err := json.Marshal(ids)
	if err != nil {
		return
	}
	ttl := time.Until(feedDate.AddDate(0, 0, 1))
	if ttl <= 0 {
		return
	}
	if err := redis.SetWithExpiration(ctx, key, string(payload), ttl); err != nil {
		log.WarnContext(ctx, "cache feed snapshot failed", "key", key, "err", err)
	}
}

func cacheKey(userID uint64, feedDate time.Time) string {
	return consts.FeedDailyKey + strconv.FormatUint(userID, 10) + ":" + feedDate.Format("2006-01-02")
}
