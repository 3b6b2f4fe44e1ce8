package mapper

import (
	"time"

	"github.com/byeager-uptime/docmost/internal/entity"
	"github.com/byeager-uptime/docmost/internal/model"
)

type SpaceMapper struct{}

func NewSpaceMapper() *SpaceMapper {
	return &SpaceMapper{}
}

func (m *SpaceMapper) ToEntity(s *model.Space) *entity.Space {
	if s == nil {
		return nil
	}

	var deletedAt *time.Time
	if s.DeletedAt.Valid {
		t := s.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !s.UpdatedAt.IsZero() {
		t := s.UpdatedAt
		updatedAt = &t
	}

	return &entity.Space{
		Id:          s.Id,
		Name:        s.Name,
		Description: s.Description,
		WorkspaceId: s.WorkspaceId,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   updatedAt,
		DeletedAt:   deletedAt,
		IsDeleted:   s.DeletedAt.Valid,
	}
}

func (m *SpaceMapper) ToModel(s *entity.Space) *model.Space {
	if s == nil {
		return nil
	}

	var updatedAt time.Time
	if s.UpdatedAt != nil {
		updatedAt = *s.UpdatedAt
	}

	return &model.Space{
		Id:          s.Id,
		Name:        s.Name,
		Description: s.Description,
		WorkspaceId: s.WorkspaceId,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   updatedAt,
	}
}

func (m *SpaceMapper) ToEntities(spaces []*model.Space) []*entity.Space {
	entities := make([]*entity.Space, len(spaces))
	for i, s := range spaces {
		entities[i] = m.ToEntity(s)
	}
	return entities
}
