package contract

import (
	"context"

	"resume-turns-be/internal/entity"
	"resume-turns-be/internal/repository/specification"
)

type VersionRepository interface {
	Create(ctx context.Context, version *entity.Version) error
	Update(ctx context.Context, version *entity.Version) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Version, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Version, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
