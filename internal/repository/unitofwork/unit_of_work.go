package unitofwork

import (
	"context"

	"resume-turns-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	VersionRepository() contract.VersionRepository
}
