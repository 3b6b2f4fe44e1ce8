package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// IntegrationSettings is the per-workspace settings blob: the operator
// configuration plus the capped sync-history log, both stored as JSONB.
type IntegrationSettings struct {
	WorkspaceId uuid.UUID      `gorm:"type:uuid;primaryKey"`
	Config      datatypes.JSON `gorm:"type:jsonb"`
	SyncHistory datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt   time.Time      `gorm:"autoCreateTime"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime"`
}

func (IntegrationSettings) TableName() string {
	return "docusaurus_integration_settings"
}
