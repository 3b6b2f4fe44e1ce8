package entity

import (
	"time"

	"github.com/google/uuid"
)

type Space struct {
	Id          uuid.UUID
	Name        string
	Description string
	WorkspaceId uuid.UUID
	CreatedAt   time.Time
	UpdatedAt   *time.Time
	DeletedAt   *time.Time
	IsDeleted   bool
}
