package dto

import (
	"github.com/byeager-uptime/docmost/internal/entity"
	"github.com/byeager-uptime/docmost/pkg/analysis"

	"github.com/google/uuid"
)

type TriggerSyncRequest struct {
	WorkspaceId uuid.UUID `json:"workspace_id" validate:"required"`
	// Trigger records what initiated the run: "manual" or "scheduled".
	Trigger string `json:"trigger"`
	// Full forces every mapped space to be re-exported, ignoring the
	// timestamp of the last successful run. Use it to rebuild a target
	// tree that was wiped or edited out-of-band.
	Full bool `json:"full"`
}

type SyncReport struct {
	Result          entity.SyncResult       `json:"result"`
	Summary         string                  `json:"summary"`
	Recommendations []string                `json:"recommendations,omitempty"`
	CrossLinks      []analysis.Relationship `json:"cross_links,omitempty"`
}

type SyncStatusResponse struct {
	WorkspaceId uuid.UUID           `json:"workspace_id"`
	LastSync    *entity.SyncResult  `json:"last_sync,omitempty"`
	History     []entity.SyncResult `json:"history"`
	InProgress  bool                `json:"in_progress"`
}

type SaveSettingsRequest struct {
	WorkspaceId uuid.UUID                 `json:"workspace_id" validate:"required"`
	Config      *entity.IntegrationConfig `json:"config" validate:"required"`
}
