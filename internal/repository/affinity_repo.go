package repository

import (
	"Meridian/internal/model"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

type AffinityRepo interface {
	Get(ctx context.Context, userID, topicID uint64) (*model.UserTopicAffinity, error)
	GetScores(ctx context.Context, userID uint64, topicIDs []uint64) (map[uint64]float64, error)
	Create(ctx context.Context, aff *model.UserTopicAffinity) error
	CompareAndSwap(ctx context.Context, userID, topicID, oldVersion uint64, score float64, updatedAt time.Time) (bool, error)
}

type affinityRepoImpl struct {
	db *gorm.DB
}

func NewAffinityRepository(db *gorm.DB) AffinityRepo {
	return &affinityRepoImpl{db: db}
}

func (s *affinityRepoImpl) Get(ctx context.Context, userID, topicID uint64) (*model.UserTopicAffinity, error) {
	var aff model.UserTopicAffinity
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND topic_id = ?", userID, topicID).
		First(&aff).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &aff, nil
}

// GetScores 批量读取主题得分，没有记录的主题不出现在结果里
func (s *affinityRepoImpl) GetScores(ctx context.Context, userID uint64, topicIDs []uint64) (map[uint64]float64, error) {
	scores := make(map[uint64]float64, len(topicIDs))
	if len(topicIDs) == 0 {
		return scores, nil
	}

	var rows []*model.UserTopicAffinity
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND topic_id IN ?", userID, topicIDs).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		scores[row.TopicID] = row.Score
	}
	return scores, nil
}

func (s *affinityRepoImpl) Create(ctx context.Context, aff *model.UserTopicAffinity) error {
	return s.db.WithContext(ctx).Create(aff).Error
}

// CompareAndSwap 带版本号的条件更新，版本不匹配时返回 false，
// 调用方应重新读取后重算再试
func (s *affinityRepoImpl) CompareAndSwap(ctx context.Context, userID, topicID, oldVersion uint64, score float64, updatedAt time.Time) (bool, error) {
	res := s.db.WithContext(ctx).Model(&model.UserTopicAffinity{}).
		Where("user_id = ? AND topic_id = ? AND version = ?", userID, topicID, oldVersion).
		Updates(map[string]interface{}{
			"score":      score,
			"version":    gorm.Expr("version + 1"),
			"updated_at": updatedAt,
		})

	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
