package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type InteractionEventRepo interface {
	Record(ctx context.Context, ev *InteractionEvent) error
	RecentByUserTopic(ctx context.Context, userID, topicID uint64, limit int64) ([]*InteractionEvent, error)
	InteractedItemIDs(ctx context.Context, userID uint64) ([]uint64, error)
}

type interactionEventRepoImpl struct {
	col *mongo.Collection
}

func NewInteractionEventRepo(db *mongo.Database) InteractionEventRepo {
	return &interactionEventRepoImpl{
		col: db.Collection("interaction_events"),
	}
}

// Record 写入一条交互事件
// 单次语义的类型按 (user, item, type) 做 upsert，重复上报只刷新时间戳；
// 浏览/跳过类每次都追加新纪录
func (s *interactionEventRepoImpl) Record(ctx context.Context, ev *InteractionEvent) error {
	if !ev.Type.IsIdempotent() {
		_, err := s.col.InsertOne(ctx, ev)
		return err
	}

	filter := bson.M{
		"user_id":         ev.UserID,
		"content_item_id": ev.ContentItemID,
		"type":            ev.Type,
	}
	update := bson.M{"$set": bson.M{
		"dwell_time_ms": ev.DwellTimeMs,
		"topic_ids":     ev.TopicIDs,
		"created_at":    ev.CreatedAt,
	}}

	_, err := s.col.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

// RecentByUserTopic 取该用户在指定主题下最近的若干条事件，时间倒序
func (s *interactionEventRepoImpl) RecentByUserTopic(ctx context.Context, userID, topicID uint64, limit int64) ([]*InteractionEvent, error) {
	filter := bson.M{
		"user_id":   userID,
		"topic_ids": topicID,
	}

	findOptions := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit)

	cursor, err := s.col.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var events []*InteractionEvent
	if err := cursor.All(ctx, &events); err != nil {
		return nil, err
	}

	return events, nil
}

// InteractedItemIDs 该用户有过任意交互的内容 ID 集合，用于候选排除
func (s *interactionEventRepoImpl) InteractedItemIDs(ctx context.Context, userID uint64) ([]uint64, error) {
	values, err := s.col.Distinct(ctx, "content_item_id", bson.M{"user_id": userID})
	if err != nil {
		return nil, err
	}

	ids := make([]uint64, 0, len(values))
	for _, v := range values {
		switch n := v.(type) {
		case int64:
			ids = append(ids, uint64(n))
		case int32:
			ids = append(ids, uint64(n))
		case float64:
			ids = append(ids, uint64(n))
		}
	}
	return ids, nil
}
