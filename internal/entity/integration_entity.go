package entity

import "github.com/google/uuid"

// SyncInterval controls the recurring sync cadence of a workspace.
type SyncInterval string

const (
	IntervalManual SyncInterval = "manual"
	IntervalHourly SyncInterval = "hourly"
	IntervalDaily  SyncInterval = "daily"
)

// SpaceMapping binds a space to its target category in the generated site.
// At most one mapping exists per space.
type SpaceMapping struct {
	SpaceId      uuid.UUID `json:"spaceId" validate:"required"`
	CategoryName string    `json:"categoryName" validate:"required"`
	Position     int       `json:"position"`
	Description  string    `json:"description,omitempty"`
	Collapsed    bool      `json:"collapsed"`
}

// AutoSyncConfig is the scheduling part of the integration configuration.
type AutoSyncConfig struct {
	Enabled  bool         `json:"enabled"`
	Interval SyncInterval `json:"interval" validate:"required,oneof=manual hourly daily"`
}

// IntegrationConfig is the operator-facing configuration of the publisher
// for one workspace, persisted behind the settings repository.
type IntegrationConfig struct {
	Enabled       bool           `json:"enabled"`
	SitePath      string         `json:"sitePath" validate:"required"`
	BaseURL       string         `json:"baseUrl" validate:"omitempty,url"`
	SiteTitle     string         `json:"siteTitle,omitempty"`
	AutoSync      AutoSyncConfig `json:"autoSync"`
	SpaceMappings []SpaceMapping `json:"spaceMappings" validate:"dive"`
}

// MappingFor returns the mapping of the given space, or nil.
func (c *IntegrationConfig) MappingFor(spaceId uuid.UUID) *SpaceMapping {
	for i := range c.SpaceMappings {
		if c.SpaceMappings[i].SpaceId == spaceId {
			return &c.SpaceMappings[i]
		}
	}
	return nil
}
