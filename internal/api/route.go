package api

import (
	"Meridian/internal/api/middleware"
	"Meridian/internal/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
)

func SetupRouter(group *HandlersGroup) *gin.Engine {
	r := gin.New()
	_ = r.SetTrustedProxies([]string{"localhost"})

	// TraceId & Logger & CORS
	r.Use(middleware.TraceMiddleware())
	r.Use(middleware.AuditMiddleware())
	r.Use(middleware.CORSMiddleware())
	logger.SetupGin(r)

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"Code":    200,
				"Message": "pong",
				"Data":    nil,
			})
		})

		engagementGroup := apiGroup.Group("/engagement")
		{
			engagementGroup.POST("", group.EngagementHandler.Track)
			engagementGroup.POST("/action", group.EngagementHandler.TrackAction)
		}

		feedGroup := apiGroup.Group("/feed")
		{
			feedGroup.GET("/daily", group.FeedHandler.Daily)
			feedGroup.GET("/top", group.FeedHandler.Top)
		}
	}

	return r
}
