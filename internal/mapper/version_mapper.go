package mapper

import (
	"encoding/json"

	"resume-turns-be/internal/entity"
	"resume-turns-be/internal/model"

	"gorm.io/datatypes"
)

type VersionMapper struct{}

func NewVersionMapper() *VersionMapper {
	return &VersionMapper{}
}

func (m *VersionMapper) ToEntity(v *model.Version) *entity.Version {
	if v == nil {
		return nil
	}
	return &entity.Version{
		Id:        v.Id,
		UserId:    v.UserId,
		Name:      v.Name,
		Payload:   json.RawMessage(v.Payload),
		CreatedAt: v.CreatedAt,
		UpdatedAt: v.UpdatedAt,
	}
}

func (m *VersionMapper) ToModel(v *entity.Version) *model.Version {
	if v == nil {
		return nil
	}
	return &model.Version{
		Id:        v.Id,
		UserId:    v.UserId,
		Name:      v.Name,
		Payload:   datatypes.JSON(v.Payload),
		CreatedAt: v.CreatedAt,
		UpdatedAt: v.UpdatedAt,
	}
}

func (m *VersionMapper) ToEntities(versions []*model.Version) []*entity.Version {
	entities := make([]*entity.Version, len(versions))
	for i, v := range versions {
		entities[i] = m.ToEntity(v)
	}
	return entities
}
