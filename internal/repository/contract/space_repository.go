package contract

import (
	"context"

	"github.com/byeager-uptime/docmost/internal/entity"
	"github.com/byeager-uptime/docmost/internal/repository/specification"

	"github.com/google/uuid"
)

type SpaceRepository interface {
	Create(ctx context.Context, space *entity.Space) error
	Update(ctx context.Context, space *entity.Space) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Space, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Space, error)
}
