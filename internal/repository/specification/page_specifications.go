package specification

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BySpaceID struct {
	SpaceID uuid.UUID
}

func (s BySpaceID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("space_id = ?", s.SpaceID)
}

type BySpaceIDs struct {
	SpaceIDs []uuid.UUID
}

func (s BySpaceIDs) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("space_id IN ?", s.SpaceIDs)
}

type ByWorkspaceID struct {
	WorkspaceID uuid.UUID
}

func (s ByWorkspaceID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("workspace_id = ?", s.WorkspaceID)
}

type UpdatedAfter struct {
	After time.Time
}

func (s UpdatedAfter) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("updated_at > ?", s.After)
}
