package contract

import (
	"context"

	"github.com/byeager-uptime/docmost/internal/entity"

	"github.com/google/uuid"
)

// SettingsRepository stores per-workspace integration configuration together
// with a capped, newest-first sync history.
type SettingsRepository interface {
	// GetConfig returns the stored configuration, or nil when the workspace
	// has never been configured.
	GetConfig(ctx context.Context, workspaceId uuid.UUID) (*entity.IntegrationConfig, error)
	SaveConfig(ctx context.Context, workspaceId uuid.UUID, cfg *entity.IntegrationConfig) error
	// ListWorkspaces returns every workspace with stored settings.
	ListWorkspaces(ctx context.Context) ([]uuid.UUID, error)
	// AppendSyncResult prepends a result to the workspace history and trims
	// the history to its retention cap.
	AppendSyncResult(ctx context.Context, workspaceId uuid.UUID, result entity.SyncResult) error
	RecentSyncResults(ctx context.Context, workspaceId uuid.UUID, limit int) ([]entity.SyncResult, error)
	LastSyncResult(ctx context.Context, workspaceId uuid.UUID) (*entity.SyncResult, error)
}
