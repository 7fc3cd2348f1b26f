package kafka

import (
	"Meridian/internal/model"
	"Meridian/internal/service"
	"context"
	"errors"
	log "log/slog"

	"github.com/IBM/sarama"
	"github.com/goccy/go-json"
	pkgerr "github.com/pkg/errors"
)

// EngagementMessage 客户端批量埋点经网关转发进 Kafka 的消息体
// action 非空时按显式操作处理，否则按阅读行为走分类器
type EngagementMessage struct {
	UserID        uint64 `json:"user_id"`
	ContentItemID uint64 `json:"content_item_id"`
	DwellTimeMs   int64  `json:"dwell_time_ms"`
	Reaction      string `json:"reaction"`
	Action        string `json:"action"`
}

type EngagementHandler struct {
	engagementSvc service.EngagementService
}

func NewEngagementHandler(engagementSvc service.EngagementService) *EngagementHandler {
	return &EngagementHandler{
		engagementSvc: engagementSvc,
	}
}

func (s *EngagementHandler) Setup(sarama.ConsumerGroupSession) error {
	log.Info("engagement consumer setup")
	return nil
}

func (s *EngagementHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Info("engagement consumer cleanup")
	return nil
}

func (s *EngagementHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	log.Info("topic-engagement consume claim")
	err := pullMessageBatch(session, claim, s.logic)
	if err != nil {
		log.Error("topic-engagement process batch error", "err", err)
		return err
	}
	return nil
}

// logic 处理单条埋点：坏消息记日志后吞掉，存储抖动返回错误触发重试
func (s *EngagementHandler) logic(ctx context.Context, msg *sarama.ConsumerMessage) error {
	var ev EngagementMessage
	if err := json.Unmarshal(msg.Value, &ev); err != nil {
		log.ErrorContext(ctx, "unmarshal engagement message error",
			"err", err, "offset", msg.Offset)
		return nil
	}

	var err error
	if ev.Action != "" {
		err = s.engagementSvc.TrackAction(ctx, ev.UserID, ev.ContentItemID, model.InteractionType(ev.Action))
	} else {
		reaction := model.Reaction(ev.Reaction)
		if ev.Reaction == "" {
			reaction = model.ReactionNone
		}
		err = s.engagementSvc.Track(ctx, ev.UserID, ev.ContentItemID, ev.DwellTimeMs, reaction)
	}

	if err == nil {
		return nil
	}
	if errors.Is(err, service.ErrStorage) {
		return pkgerr.Wrap(err, "track engagement")
	}

	// 参数类错误重试也不会成功，按脏消息丢弃
	log.WarnContext(ctx, "drop invalid engagement message",
		"user_id", ev.UserID, "content_item_id", ev.ContentItemID, "err", err)
	return nil
}
