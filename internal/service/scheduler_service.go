package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/byeager-uptime/docmost/internal/dto"
	"github.com/byeager-uptime/docmost/internal/entity"
	"github.com/byeager-uptime/docmost/internal/pkg/logger"
	"github.com/byeager-uptime/docmost/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type ISchedulerService interface {
	// Start begins recurring syncs for the workspace at the given interval.
	// A manual interval stops any existing timer instead.
	Start(workspaceId uuid.UUID, interval entity.SyncInterval)
	Stop(workspaceId uuid.UUID)
	// Reschedule replaces the workspace timer with one at the new interval.
	Reschedule(workspaceId uuid.UUID, interval entity.SyncInterval)
	// RestoreAll rebuilds timers for every workspace with auto-sync enabled,
	// called once at startup.
	RestoreAll(ctx context.Context) error
	// StopAll tears down every timer, called on shutdown.
	StopAll()
}

type schedulerService struct {
	uowFactory unitofwork.RepositoryFactory
	publisher  IPublisherService
	log        logger.ILogger

	mu     sync.Mutex
	timers map[uuid.UUID]chan struct{}
}

func NewSchedulerService(
	uowFactory unitofwork.RepositoryFactory,
	publisher IPublisherService,
	log logger.ILogger,
) ISchedulerService {
	return &schedulerService{
		uowFactory: uowFactory,
		publisher:  publisher,
		log:        log,
		timers:     make(map[uuid.UUID]chan struct{}),
	}
}

func intervalDuration(interval entity.SyncInterval) (time.Duration, bool) {
	switch interval {
	case entity.IntervalHourly:
		return time.Hour, true
	case entity.IntervalDaily:
		return 24 * time.Hour, true
	default:
		return 0, false
	}
}

func (s *schedulerService) Start(workspaceId uuid.UUID, interval entity.SyncInterval) {
	d, ok := intervalDuration(interval)
	if !ok {
		s.Stop(workspaceId)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if stop, exists := s.timers[workspaceId]; exists {
		close(stop)
	}
	stop := make(chan struct{})
	s.timers[workspaceId] = stop

	go s.run(workspaceId, d, stop)

	s.log.Info("scheduler", "schedule started", map[string]interface{}{
		"workspace_id": workspaceId.String(),
		"interval":     string(interval),
	})
}

func (s *schedulerService) run(workspaceId uuid.UUID, d time.Duration, stop chan struct{}) {
	ticker := time.NewTicker(d)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			s.enqueue(workspaceId)
		}
	}
}

// enqueue hands the sync off to the consumer instead of running inline, so a
// slow run never blocks the timer loop.
func (s *schedulerService) enqueue(workspaceId uuid.UUID) {
	payload, err := json.Marshal(dto.TriggerSyncRequest{
		WorkspaceId: workspaceId,
		Trigger:     "scheduled",
	})
	if err != nil {
		s.log.Error("scheduler", "failed to marshal sync trigger", map[string]interface{}{
			"workspace_id": workspaceId.String(),
			"error":        err.Error(),
		})
		return
	}
	if err := s.publisher.Publish(context.Background(), payload); err != nil {
		s.log.Error("scheduler", "failed to enqueue scheduled sync", map[string]interface{}{
			"workspace_id": workspaceId.String(),
			"error":        err.Error(),
		})
	}
}

func (s *schedulerService) Stop(workspaceId uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if stop, exists := s.timers[workspaceId]; exists {
		close(stop)
		delete(s.timers, workspaceId)
		s.log.Info("scheduler", "schedule stopped", map[string]interface{}{
			"workspace_id": workspaceId.String(),
		})
	}
}

func (s *schedulerService) Reschedule(workspaceId uuid.UUID, interval entity.SyncInterval) {
	s.Stop(workspaceId)
	s.Start(workspaceId, interval)
}

func (s *schedulerService) RestoreAll(ctx context.Context) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	workspaces, err := uow.SettingsRepository().ListWorkspaces(ctx)
	if err != nil {
		return err
	}

	restored := 0
	for _, workspaceId := range workspaces {
		cfg, err := uow.SettingsRepository().GetConfig(ctx, workspaceId)
		if err != nil {
			s.log.Warn("scheduler", "skipping workspace with unreadable config", map[string]interface{}{
				"workspace_id": workspaceId.String(),
				"error":        err.Error(),
			})
			continue
		}
		if cfg == nil || !cfg.Enabled || !cfg.AutoSync.Enabled {
			continue
		}
		s.Start(workspaceId, cfg.AutoSync.Interval)
		restored++
	}

	s.log.Info("scheduler", "schedules restored", map[string]interface{}{
		"workspaces": restored,
	})
	return nil
}

func (s *schedulerService) StopAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for workspaceId, stop := range s.timers {
		close(stop)
		delete(s.timers, workspaceId)
	}
}
