package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Version struct {
	Id        uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId    *uuid.UUID     `gorm:"type:uuid;index"`
	Name      string         `gorm:"type:varchar(200);not null"`
	Payload   datatypes.JSON `gorm:"type:jsonb;not null"`
	CreatedAt time.Time      `gorm:"autoCreateTime;index"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
}

func (Version) TableName() string {
	return "versions"
}
