package handler

import (
	"Meridian/internal/api/dto"
	"Meridian/internal/model"
	"Meridian/internal/pkg/response"
	"Meridian/internal/service"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/copier"
)

type FeedHandler struct {
	feedSvc service.FeedService
}

func NewFeedHandler(feedSvc service.FeedService) *FeedHandler {
	return &FeedHandler{
		feedSvc: feedSvc,
	}
}

// Daily 当天信息流，同一天内重复请求返回同一份
func (s *FeedHandler) Daily(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Query("user_id"), 10, 64)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	items, err := s.feedSvc.GetOrCreateDailyFeed(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.FeedDTO{
		UserID: userID,
		Items:  toFeedItems(items),
	})
}

// Top 按当前偏好现算一次选题，不落快照，供调试与预览
func (s *FeedHandler) Top(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Query("user_id"), 10, 64)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	opts := service.SelectionOptions{
		LookbackDays:      atoiOrZero(c.Query("lookback_days")),
		MinRelevanceScore: atoiOrZero(c.Query("min_relevance")),
		MaxArticles:       atoiOrZero(c.Query("max_articles")),
	}

	items, err := s.feedSvc.SelectTopForUser(c.Request.Context(), userID, opts)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.FeedDTO{
		UserID: userID,
		Items:  toFeedItems(items),
	})
}

func toFeedItems(items []*model.ContentItem) []dto.FeedItemDTO {
	out := make([]dto.FeedItemDTO, 0, len(items))
	for _, item := range items {
		var d dto.FeedItemDTO
		_ = copier.Copy(&d, item)
		d.PublishedAt = item.PublishedAt.Format(time.RFC3339)
		d.Topics = make([]string, 0, len(item.Topics))
		for _, topic := range item.Topics {
			d.Topics = append(d.Topics, topic.Name)
		}
		out = append(out, d)
	}
	return out
}

func atoiOrZero(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
