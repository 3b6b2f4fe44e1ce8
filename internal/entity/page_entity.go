package entity

import (
	"time"

	"github.com/google/uuid"
)

type Page struct {
	Id           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Title        string
	Content      string    // raw ProseMirror JSON
	SpaceId      uuid.UUID `gorm:"type:uuid;index"`
	WorkspaceId  uuid.UUID `gorm:"type:uuid;index"`
	ParentPageId *uuid.UUID
	CreatedAt    time.Time
	UpdatedAt    *time.Time
	DeletedAt    *time.Time
	IsDeleted    bool
}
