package implementation

import (
	"context"
	"errors"

	"github.com/byeager-uptime/docmost/internal/entity"
	"github.com/byeager-uptime/docmost/internal/mapper"
	"github.com/byeager-uptime/docmost/internal/model"
	"github.com/byeager-uptime/docmost/internal/repository/contract"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// maxSyncHistorySize caps the number of retained sync results per workspace.
const maxSyncHistorySize = 50

type SettingsRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.SettingsMapper
}

func NewSettingsRepository(db *gorm.DB) contract.SettingsRepository {
	return &SettingsRepositoryImpl{
		db:     db,
		mapper: mapper.NewSettingsMapper(),
	}
}

func (r *SettingsRepositoryImpl) findRow(ctx context.Context, workspaceId uuid.UUID) (*model.IntegrationSettings, error) {
	var m model.IntegrationSettings
	err := r.db.WithContext(ctx).Where("workspace_id = ?", workspaceId).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

func (r *SettingsRepositoryImpl) GetConfig(ctx context.Context, workspaceId uuid.UUID) (*entity.IntegrationConfig, error) {
	row, err := r.findRow(ctx, workspaceId)
	if err != nil || row == nil {
		return nil, err
	}
	return r.mapper.ConfigFromModel(row)
}

func (r *SettingsRepositoryImpl) SaveConfig(ctx context.Context, workspaceId uuid.UUID, cfg *entity.IntegrationConfig) error {
	data, err := r.mapper.ConfigToJSON(cfg)
	if err != nil {
		return err
	}
	row, err := r.findRow(ctx, workspaceId)
	if err != nil {
		return err
	}
	if row == nil {
		row = r.mapper.NewModel(workspaceId)
		row.Config = data
		return r.db.WithContext(ctx).Create(row).Error
	}
	row.Config = data
	return r.db.WithContext(ctx).Save(row).Error
}

func (r *SettingsRepositoryImpl) ListWorkspaces(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&model.IntegrationSettings{}).
		Pluck("workspace_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *SettingsRepositoryImpl) AppendSyncResult(ctx context.Context, workspaceId uuid.UUID, result entity.SyncResult) error {
	row, err := r.findRow(ctx, workspaceId)
	if err != nil {
		return err
	}
	isNew := row == nil
	if isNew {
		row = r.mapper.NewModel(workspaceId)
	}
	history, err := r.mapper.HistoryFromModel(row)
	if err != nil {
		return err
	}

	// Newest first, capped.
	history = append([]entity.SyncResult{result}, history...)
	if len(history) > maxSyncHistorySize {
		history = history[:maxSyncHistorySize]
	}

	data, err := r.mapper.HistoryToJSON(history)
	if err != nil {
		return err
	}
	row.SyncHistory = data
	if isNew {
		return r.db.WithContext(ctx).Create(row).Error
	}
	return r.db.WithContext(ctx).Save(row).Error
}

func (r *SettingsRepositoryImpl) RecentSyncResults(ctx context.Context, workspaceId uuid.UUID, limit int) ([]entity.SyncResult, error) {
	row, err := r.findRow(ctx, workspaceId)
	if err != nil || row == nil {
		return nil, err
	}
	history, err := r.mapper.HistoryFromModel(row)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(history) > limit {
		history = history[:limit]
	}
	return history, nil
}

func (r *SettingsRepositoryImpl) LastSyncResult(ctx context.Context, workspaceId uuid.UUID) (*entity.SyncResult, error) {
	history, err := r.RecentSyncResults(ctx, workspaceId, 1)
	if err != nil || len(history) == 0 {
		return nil, err
	}
	return &history[0], nil
}
