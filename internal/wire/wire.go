package wire

import (
	"Meridian/internal/api"
	"Meridian/internal/api/config"
	"Meridian/internal/api/handler"
	"Meridian/internal/job"
	"Meridian/internal/pkg/cron"
	"Meridian/internal/pkg/kafka"
	pkgmongo "Meridian/internal/pkg/mongo"
	"Meridian/internal/repository"
	"Meridian/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// ApplicationContainer 封装了应用运行所需的所有顶级组件
type ApplicationContainer struct {
	Router       *gin.Engine
	DB           *gorm.DB
	KafkaManager *kafka.ConsumerManager
	CronMgr      *cron.Manager
}

func BuildApplication(db *gorm.DB, mongoDB *mongo.Database, cfg *config.Config) (*ApplicationContainer, error) {
	contentRepo := repository.NewContentRepository(db)
	affinityRepo := repository.NewAffinityRepository(db)
	snapshotRepo := repository.NewSnapshotRepository(db)
	eventRepo := pkgmongo.NewInteractionEventRepo(mongoDB)

	affinityService := service.NewAffinityService(affinityRepo, eventRepo)
	engagementService := service.NewEngagementService(contentRepo, affinityService, eventRepo)
	feedService := service.NewFeedService(contentRepo, affinityRepo, snapshotRepo, eventRepo, cfg.Feed)

	handlers := &api.HandlersGroup{
		EngagementHandler: handler.NewEngagementHandler(engagementService),
		FeedHandler:       handler.NewFeedHandler(feedService),
	}

	router := api.SetupRouter(handlers)

	kafkaMgr, err := kafka.NewConsumerManager(cfg, engagementService)
	if err != nil {
		return nil, err
	}

	cronMgr := cron.NewCronManager(job.NewFeedWarmJob(feedService))

	return &ApplicationContainer{
		Router:       router,
		DB:           db,
		KafkaManager: kafkaMgr,
		CronMgr:      cronMgr,
	}, nil
}
