package service

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/byeager-uptime/docmost/internal/dto"
	"github.com/byeager-uptime/docmost/internal/entity"
	"github.com/byeager-uptime/docmost/internal/pkg/logger"
	"github.com/byeager-uptime/docmost/internal/repository/unitofwork"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type ISettingsService interface {
	GetSettings(ctx context.Context, workspaceId uuid.UUID) (*entity.IntegrationConfig, error)
	SaveSettings(ctx context.Context, req *dto.SaveSettingsRequest) error
}

type settingsService struct {
	uowFactory unitofwork.RepositoryFactory
	scheduler  ISchedulerService
	validate   *validator.Validate
	log        logger.ILogger
}

func NewSettingsService(
	uowFactory unitofwork.RepositoryFactory,
	scheduler ISchedulerService,
	log logger.ILogger,
) ISettingsService {
	return &settingsService{
		uowFactory: uowFactory,
		scheduler:  scheduler,
		validate:   validator.New(),
		log:        log,
	}
}

func (s *settingsService) GetSettings(ctx context.Context, workspaceId uuid.UUID) (*entity.IntegrationConfig, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.SettingsRepository().GetConfig(ctx, workspaceId)
}

func (s *settingsService) SaveSettings(ctx context.Context, req *dto.SaveSettingsRequest) error {
	if err := s.validate.Struct(req); err != nil {
		return err
	}
	if err := s.validate.Struct(req.Config); err != nil {
		return err
	}
	if !filepath.IsAbs(req.Config.SitePath) {
		return fmt.Errorf("site path must be absolute: %q", req.Config.SitePath)
	}

	// At most one mapping per space.
	seen := make(map[uuid.UUID]bool, len(req.Config.SpaceMappings))
	for _, m := range req.Config.SpaceMappings {
		if seen[m.SpaceId] {
			return fmt.Errorf("duplicate mapping for space %s", m.SpaceId)
		}
		seen[m.SpaceId] = true
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.SettingsRepository().SaveConfig(ctx, req.WorkspaceId, req.Config); err != nil {
		return err
	}

	// The schedule follows the stored config: enabled auto-sync gets a fresh
	// timer, anything else tears the existing one down.
	if req.Config.Enabled && req.Config.AutoSync.Enabled {
		s.scheduler.Reschedule(req.WorkspaceId, req.Config.AutoSync.Interval)
	} else {
		s.scheduler.Stop(req.WorkspaceId)
	}

	s.log.Info("settings", "integration settings saved", map[string]interface{}{
		"workspace_id": req.WorkspaceId.String(),
		"enabled":      req.Config.Enabled,
		"auto_sync":    req.Config.AutoSync.Enabled,
		"interval":     string(req.Config.AutoSync.Interval),
		"mappings":     len(req.Config.SpaceMappings),
	})
	return nil
}
