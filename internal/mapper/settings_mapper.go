package mapper

import (
	"encoding/json"
	"fmt"

	"github.com/byeager-uptime/docmost/internal/entity"
	"github.com/byeager-uptime/docmost/internal/model"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// SettingsMapper translates between the JSONB settings blob and the typed
// configuration and sync-history records.
type SettingsMapper struct{}

func NewSettingsMapper() *SettingsMapper {
	return &SettingsMapper{}
}

func (m *SettingsMapper) ConfigFromModel(s *model.IntegrationSettings) (*entity.IntegrationConfig, error) {
	if s == nil || len(s.Config) == 0 {
		return nil, nil
	}
	var cfg entity.IntegrationConfig
	if err := json.Unmarshal(s.Config, &cfg); err != nil {
		return nil, fmt.Errorf("corrupt integration config for workspace %s: %w", s.WorkspaceId, err)
	}
	return &cfg, nil
}

func (m *SettingsMapper) HistoryFromModel(s *model.IntegrationSettings) ([]entity.SyncResult, error) {
	if s == nil || len(s.SyncHistory) == 0 {
		return nil, nil
	}
	var history []entity.SyncResult
	if err := json.Unmarshal(s.SyncHistory, &history); err != nil {
		return nil, fmt.Errorf("corrupt sync history for workspace %s: %w", s.WorkspaceId, err)
	}
	return history, nil
}

func (m *SettingsMapper) ConfigToJSON(cfg *entity.IntegrationConfig) (datatypes.JSON, error) {
	data, err := json.Marshal(cfg)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(data), nil
}

func (m *SettingsMapper) HistoryToJSON(history []entity.SyncResult) (datatypes.JSON, error) {
	data, err := json.Marshal(history)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(data), nil
}

func (m *SettingsMapper) NewModel(workspaceId uuid.UUID) *model.IntegrationSettings {
	return &model.IntegrationSettings{WorkspaceId: workspaceId}
}
