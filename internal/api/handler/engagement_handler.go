package handler

import (
	"Meridian/internal/api/dto"
	"Meridian/internal/model"
	"Meridian/internal/pkg/response"
	"Meridian/internal/service"

	"github.com/gin-gonic/gin"
)

type EngagementHandler struct {
	engagementSvc service.EngagementService
}

func NewEngagementHandler(engagementSvc service.EngagementService) *EngagementHandler {
	return &EngagementHandler{
		engagementSvc: engagementSvc,
	}
}

// Track 上报一次阅读行为，reaction 缺省按 none 处理
func (s *EngagementHandler) Track(c *gin.Context) {
	var req dto.EngagementDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}

	reaction := model.Reaction(req.Reaction)
	if req.Reaction == "" {
		reaction = model.ReactionNone
	}

	err := s.engagementSvc.Track(c.Request.Context(), req.UserID, req.ContentItemID, req.DwellTimeMs, reaction)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, nil)
}

// TrackAction 上报一次显式操作
func (s *EngagementHandler) TrackAction(c *gin.Context) {
	var req dto.ActionDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}

	err := s.engagementSvc.TrackAction(c.Request.Context(), req.UserID, req.ContentItemID, model.InteractionType(req.Action))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, nil)
}
