package implementation

import (
	"context"
	"errors"

	"resume-turns-be/internal/entity"
	"resume-turns-be/internal/mapper"
	"resume-turns-be/internal/model"
	"resume-turns-be/internal/repository/contract"
	"resume-turns-be/internal/repository/specification"

	"gorm.io/gorm"
)

type VersionRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.VersionMapper
}

func NewVersionRepository(db *gorm.DB) contract.VersionRepository {
	return &VersionRepositoryImpl{
		db:     db,
		mapper: mapper.NewVersionMapper(),
	}
}

func (r *VersionRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *VersionRepositoryImpl) Create(ctx context.Context, version *entity.Version) error {
	m := r.mapper.ToModel(version)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*version = *r.mapper.ToEntity(m)
	return nil
}

// Update writes every column; Save is used so an emptied payload is stored too.
func (r *VersionRepositoryImpl) Update(ctx context.Context, version *entity.Version) error {
	m := r.mapper.ToModel(version)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*version = *r.mapper.ToEntity(m)
	return nil
}

func (r *VersionRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Version, error) {
	var m model.Version
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *VersionRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Version, error) {
	var models []*model.Version
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *VersionRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Version{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
