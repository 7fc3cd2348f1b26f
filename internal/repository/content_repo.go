package repository

import (
	"Meridian/internal/model"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

type ContentRepo interface {
	GetByID(ctx context.Context, id uint64) (*model.ContentItem, error)
	GetByIDs(ctx context.Context, ids []uint64) ([]*model.ContentItem, error)
	ListCandidates(ctx context.Context, publishedAfter time.Time, minRelevance int, excludeIDs []uint64, limit int) ([]*model.ContentItem, error)
}

type contentRepoImpl struct {
	db *gorm.DB
}

func NewContentRepository(db *gorm.DB) ContentRepo {
	return &contentRepoImpl{db: db}
}

func (s *contentRepoImpl) GetByID(ctx context.Context, id uint64) (*model.ContentItem, error) {
	var item model.ContentItem
	err := s.db.WithContext(ctx).Preload("Topics").First(&item, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

func (s *contentRepoImpl) GetByIDs(ctx context.Context, ids []uint64) ([]*model.ContentItem, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var items []*model.ContentItem
	err := s.db.WithContext(ctx).Preload("Topics").Where("id IN ?", ids).Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// ListCandidates 候选内容查询：发布时间在窗口内、相关度达标、排除用户已交互过的内容
func (s *contentRepoImpl) ListCandidates(ctx context.Context, publishedAfter time.Time, minRelevance int, excludeIDs []uint64, limit int) ([]*model.ContentItem, error) {
	query := s.db.WithContext(ctx).Preload("Topics").
		Where("published_at >= ?", publishedAfter).
		Where("relevance_score >= ?", minRelevance)

	if len(excludeIDs) > 0 {
		query = query.Where("id NOT IN ?", excludeIDs)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	var items []*model.ContentItem
	err := query.Order("published_at DESC").Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
