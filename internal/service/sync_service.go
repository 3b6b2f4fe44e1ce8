package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/byeager-uptime/docmost/internal/dto"
	"github.com/byeager-uptime/docmost/internal/entity"
	"github.com/byeager-uptime/docmost/internal/pkg/logger"
	"github.com/byeager-uptime/docmost/internal/repository/memory"
	"github.com/byeager-uptime/docmost/internal/repository/specification"
	"github.com/byeager-uptime/docmost/internal/repository/unitofwork"
	"github.com/byeager-uptime/docmost/pkg/analysis"
	"github.com/byeager-uptime/docmost/pkg/docusaurus"
	"github.com/byeager-uptime/docmost/pkg/events"
	pkgNats "github.com/byeager-uptime/docmost/pkg/nats"

	"github.com/google/uuid"
)

var (
	ErrSyncInProgress = fmt.Errorf("a sync is already running for this workspace")
	ErrNotConfigured  = fmt.Errorf("integration is not configured for this workspace")
	ErrSyncDisabled   = fmt.Errorf("integration is disabled for this workspace")
	ErrNoMappings     = fmt.Errorf("no space mappings are configured")
)

type ISyncService interface {
	TriggerSync(ctx context.Context, req *dto.TriggerSyncRequest) (*dto.SyncReport, error)
	Status(ctx context.Context, workspaceId uuid.UUID) (*dto.SyncStatusResponse, error)
}

type syncService struct {
	uowFactory     unitofwork.RepositoryFactory
	exporter       *docusaurus.Exporter
	lastSyncCache  *memory.LastSyncCache
	eventPublisher *pkgNats.Publisher
	log            logger.ILogger
	historyLimit   int

	mu      sync.Mutex
	running map[uuid.UUID]bool
}

func NewSyncService(
	uowFactory unitofwork.RepositoryFactory,
	exporter *docusaurus.Exporter,
	lastSyncCache *memory.LastSyncCache,
	eventPublisher *pkgNats.Publisher,
	log logger.ILogger,
	historyLimit int,
) ISyncService {
	return &syncService{
		uowFactory:     uowFactory,
		exporter:       exporter,
		lastSyncCache:  lastSyncCache,
		eventPublisher: eventPublisher,
		log:            log,
		historyLimit:   historyLimit,
		running:        make(map[uuid.UUID]bool),
	}
}

// acquire marks the workspace as running. Overlapping runs are rejected
// instead of queued.
func (s *syncService) acquire(workspaceId uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running[workspaceId] {
		return false
	}
	s.running[workspaceId] = true
	return true
}

func (s *syncService) release(workspaceId uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.running, workspaceId)
}

func (s *syncService) TriggerSync(ctx context.Context, req *dto.TriggerSyncRequest) (*dto.SyncReport, error) {
	if !s.acquire(req.WorkspaceId) {
		return nil, ErrSyncInProgress
	}
	defer s.release(req.WorkspaceId)

	uow := s.uowFactory.NewUnitOfWork(ctx)

	cfg, err := uow.SettingsRepository().GetConfig(ctx, req.WorkspaceId)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		// No settings row exists yet, so there is nothing to record the
		// failure against.
		return nil, ErrNotConfigured
	}
	if !cfg.Enabled {
		return nil, s.recordRejectedRun(ctx, uow, req.WorkspaceId, cfg, ErrSyncDisabled)
	}
	if len(cfg.SpaceMappings) == 0 {
		return nil, s.recordRejectedRun(ctx, uow, req.WorkspaceId, cfg, ErrNoMappings)
	}

	syncId := uuid.New()
	startTime := time.Now()
	trigger := req.Trigger
	if trigger == "" {
		trigger = "manual"
	}

	s.publishEvent(ctx, events.NewSyncStarted(syncId.String(), req.WorkspaceId, trigger))
	s.log.Info("sync", "sync started", map[string]interface{}{
		"sync_id":      syncId.String(),
		"workspace_id": req.WorkspaceId.String(),
		"trigger":      trigger,
		"spaces":       len(cfg.SpaceMappings),
	})

	// A full run ignores the incremental baseline so every mapped space is
	// re-exported, even when nothing changed since the last success.
	var lastSuccess *time.Time
	if !req.Full {
		lastSuccess = s.lastSuccessTime(ctx, uow, req.WorkspaceId)
	}

	stats := entity.SyncStats{TotalSpaces: len(cfg.SpaceMappings)}
	var crossLinks []analysis.Relationship
	for _, mapping := range cfg.SpaceMappings {
		s.syncSpace(ctx, uow, cfg, mapping, lastSuccess, &stats, &crossLinks)
	}

	endTime := time.Now()
	result := entity.SyncResult{
		SyncId:         syncId,
		WorkspaceId:    req.WorkspaceId,
		Status:         deriveStatus(stats),
		StartTime:      startTime,
		EndTime:        endTime,
		Duration:       endTime.Sub(startTime),
		Stats:          stats,
		ConfigSnapshot: cfg,
	}

	if err := uow.SettingsRepository().AppendSyncResult(ctx, req.WorkspaceId, result); err != nil {
		s.log.Error("sync", "failed to persist sync result", map[string]interface{}{
			"sync_id": syncId.String(),
			"error":   err.Error(),
		})
	}
	s.lastSyncCache.Save(req.WorkspaceId, &result)

	s.publishEvent(ctx, events.NewSyncCompleted(
		syncId.String(), req.WorkspaceId, string(result.Status),
		stats.SuccessfulPages, stats.FailedPages, result.Duration,
	))
	s.log.Info("sync", "sync finished", map[string]interface{}{
		"sync_id":          syncId.String(),
		"workspace_id":     req.WorkspaceId.String(),
		"status":           string(result.Status),
		"successful_pages": stats.SuccessfulPages,
		"failed_pages":     stats.FailedPages,
		"conflicts":        len(stats.Conflicts),
		"duration_ms":      result.Duration.Milliseconds(),
	})

	return buildReport(result, crossLinks), nil
}

// recordRejectedRun persists a terminal failed result for a run that was
// rejected before any space was exported, then returns the rejection.
func (s *syncService) recordRejectedRun(
	ctx context.Context,
	uow unitofwork.UnitOfWork,
	workspaceId uuid.UUID,
	cfg *entity.IntegrationConfig,
	reason error,
) error {
	now := time.Now()
	result := entity.SyncResult{
		SyncId:         uuid.New(),
		WorkspaceId:    workspaceId,
		Status:         entity.SyncStatusFailed,
		StartTime:      now,
		EndTime:        now,
		Stats:          entity.SyncStats{Errors: []string{reason.Error()}},
		ConfigSnapshot: cfg,
	}

	if err := uow.SettingsRepository().AppendSyncResult(ctx, workspaceId, result); err != nil {
		s.log.Error("sync", "failed to persist rejected run", map[string]interface{}{
			"workspace_id": workspaceId.String(),
			"error":        err.Error(),
		})
	}
	s.lastSyncCache.Save(workspaceId, &result)

	s.publishEvent(ctx, events.NewSyncFailed(result.SyncId.String(), workspaceId, reason.Error()))
	s.log.Warn("sync", "sync rejected", map[string]interface{}{
		"workspace_id": workspaceId.String(),
		"reason":       reason.Error(),
	})
	return reason
}

// syncSpace exports one mapped space and folds its outcome into the run stats.
func (s *syncService) syncSpace(
	ctx context.Context,
	uow unitofwork.UnitOfWork,
	cfg *entity.IntegrationConfig,
	mapping entity.SpaceMapping,
	lastSuccess *time.Time,
	stats *entity.SyncStats,
	crossLinks *[]analysis.Relationship,
) {
	// Incremental short-circuit: a space with nothing touched since the last
	// successful run is not re-rendered. Its pages are already in sync, so
	// they count as successful without being loaded.
	if lastSuccess != nil {
		changed, err := uow.PageRepository().Count(ctx,
			specification.BySpaceID{SpaceID: mapping.SpaceId},
			specification.UpdatedAfter{After: *lastSuccess},
		)
		if err == nil && changed == 0 {
			total, err := uow.PageRepository().Count(ctx,
				specification.BySpaceID{SpaceID: mapping.SpaceId},
			)
			if err == nil {
				stats.SuccessfulSpaces++
				stats.TotalPages += int(total)
				stats.SuccessfulPages += int(total)
				return
			}
		}
	}

	pages, err := uow.PageRepository().FindAll(ctx,
		specification.BySpaceID{SpaceID: mapping.SpaceId},
	)
	if err != nil {
		stats.FailedSpaces++
		stats.Errors = append(stats.Errors, fmt.Sprintf("space %s: %v", mapping.SpaceId, err))
		return
	}

	result, err := s.exporter.ExportSpace(ctx, docusaurus.ExportOptions{
		SitePath: cfg.SitePath,
		LastSync: lastSuccess,
	}, mapping, pages)
	if err != nil {
		stats.FailedSpaces++
		stats.Errors = append(stats.Errors, fmt.Sprintf("space %s: %v", mapping.SpaceId, err))
		return
	}

	stats.TotalPages += result.ExportedPages + result.FailedPages
	stats.SuccessfulPages += result.ExportedPages
	stats.FailedPages += result.FailedPages
	stats.Conflicts = append(stats.Conflicts, result.Conflicts...)
	stats.Errors = append(stats.Errors, result.Errors...)
	for _, cl := range result.CrossLinks {
		*crossLinks = append(*crossLinks, analysis.Relationship{
			ParentId: cl.ParentId,
			ChildId:  cl.PageId,
			Kind:     analysis.RelationshipCrossLink,
		})
	}

	if result.FailedPages > 0 {
		stats.FailedSpaces++
	} else {
		stats.SuccessfulSpaces++
	}
}

func (s *syncService) Status(ctx context.Context, workspaceId uuid.UUID) (*dto.SyncStatusResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	history, err := uow.SettingsRepository().RecentSyncResults(ctx, workspaceId, s.historyLimit)
	if err != nil {
		return nil, err
	}
	if history == nil {
		history = []entity.SyncResult{}
	}

	var last *entity.SyncResult
	if cached, ok := s.lastSyncCache.Get(workspaceId); ok {
		last = cached
	} else if len(history) > 0 {
		last = &history[0]
	}

	s.mu.Lock()
	inProgress := s.running[workspaceId]
	s.mu.Unlock()

	return &dto.SyncStatusResponse{
		WorkspaceId: workspaceId,
		LastSync:    last,
		History:     history,
		InProgress:  inProgress,
	}, nil
}

// lastSuccessTime returns when the last fully successful run finished,
// preferring the in-memory cache over the settings row.
func (s *syncService) lastSuccessTime(ctx context.Context, uow unitofwork.UnitOfWork, workspaceId uuid.UUID) *time.Time {
	if cached, ok := s.lastSyncCache.Get(workspaceId); ok && cached.Status == entity.SyncStatusSuccess {
		t := cached.EndTime
		return &t
	}

	history, err := uow.SettingsRepository().RecentSyncResults(ctx, workspaceId, 0)
	if err != nil {
		s.log.Warn("sync", "failed to load sync history", map[string]interface{}{
			"workspace_id": workspaceId.String(),
			"error":        err.Error(),
		})
		return nil
	}
	for i := range history {
		if history[i].Status == entity.SyncStatusSuccess {
			t := history[i].EndTime
			return &t
		}
	}
	return nil
}

func (s *syncService) publishEvent(ctx context.Context, evt events.Event) {
	if s.eventPublisher == nil {
		return
	}
	if err := s.eventPublisher.Publish(ctx, evt); err != nil {
		s.log.Warn("sync", "failed to publish event", map[string]interface{}{
			"event_type": evt.EventType(),
			"error":      err.Error(),
		})
	}
}

func deriveStatus(stats entity.SyncStats) entity.SyncStatus {
	switch {
	case stats.FailedSpaces == 0:
		return entity.SyncStatusSuccess
	case stats.SuccessfulSpaces > 0 || stats.SuccessfulPages > 0:
		return entity.SyncStatusPartial
	default:
		return entity.SyncStatusFailed
	}
}

func buildReport(result entity.SyncResult, crossLinks []analysis.Relationship) *dto.SyncReport {
	stats := result.Stats
	summary := fmt.Sprintf("Synced %d/%d pages across %d/%d spaces in %s",
		stats.SuccessfulPages, stats.TotalPages,
		stats.SuccessfulSpaces, stats.TotalSpaces,
		result.Duration.Round(time.Millisecond),
	)

	var recommendations []string
	if stats.TotalPages > 0 {
		rate := float64(stats.SuccessfulPages) / float64(stats.TotalPages)
		if rate < 0.9 {
			recommendations = append(recommendations,
				"More than 10% of pages failed to export; validate page content and file permissions")
		}
	}
	if len(stats.Conflicts) > 0 {
		recommendations = append(recommendations,
			fmt.Sprintf("%d file conflicts were detected; review the conflict log before the next run", len(stats.Conflicts)))
	}
	if result.Status == entity.SyncStatusFailed {
		recommendations = append(recommendations,
			"No space completed; verify the site path exists and is writable")
	}

	return &dto.SyncReport{
		Result:          result,
		Summary:         summary,
		Recommendations: recommendations,
		CrossLinks:      crossLinks,
	}
}
