package unitofwork

import (
	"context"

	"github.com/byeager-uptime/docmost/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	PageRepository() contract.PageRepository
	SpaceRepository() contract.SpaceRepository
	SettingsRepository() contract.SettingsRepository
}
