package bootstrap

import (
	"log"

	"github.com/byeager-uptime/docmost/internal/config"
	"github.com/byeager-uptime/docmost/internal/pkg/logger"
	"github.com/byeager-uptime/docmost/internal/repository/memory"
	"github.com/byeager-uptime/docmost/internal/repository/unitofwork"
	"github.com/byeager-uptime/docmost/internal/service"
	"github.com/byeager-uptime/docmost/pkg/docusaurus"
	pkgNats "github.com/byeager-uptime/docmost/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"gorm.io/gorm"
)

// syncTriggerTopic carries scheduled sync requests from the scheduler timers
// to the consumer worker.
const syncTriggerTopic = "DOCUSAURUS_SYNC_TRIGGER"

type Container struct {
	SyncService      service.ISyncService
	AnalysisService  service.IAnalysisService
	SettingsService  service.ISettingsService
	SchedulerService service.ISchedulerService

	// Background services (exposed for main.go to run)
	ConsumerService service.IConsumerService

	Logger          logger.ILogger
	EventPublisher  *pkgNats.Publisher
	EventSubscriber *pkgNats.Subscriber
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 2.5 Infrastructure
	natsPub, err := pkgNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	natsSub, err := pkgNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	}

	lastSyncCache := memory.NewLastSyncCache()
	exporter := docusaurus.NewExporter(docusaurus.NewMarkdownRenderer(), sysLogger)

	// 3. Services
	publisherService := service.NewPublisherService(pubSub, syncTriggerTopic)

	syncService := service.NewSyncService(
		uowFactory,
		exporter,
		lastSyncCache,
		natsPub,
		sysLogger,
		cfg.Sync.HistoryLimit,
	)
	analysisService := service.NewAnalysisService(uowFactory, sysLogger, cfg.Sync.SemanticAnalysis)
	schedulerService := service.NewSchedulerService(uowFactory, publisherService, sysLogger)
	settingsService := service.NewSettingsService(uowFactory, schedulerService, sysLogger)

	consumerService := service.NewConsumerService(
		pubSub,
		syncTriggerTopic,
		syncService,
		sysLogger,
	)

	return &Container{
		SyncService:      syncService,
		AnalysisService:  analysisService,
		SettingsService:  settingsService,
		SchedulerService: schedulerService,
		ConsumerService:  consumerService,
		Logger:           sysLogger,
		EventPublisher:   natsPub,
		EventSubscriber:  natsSub,
	}
}
