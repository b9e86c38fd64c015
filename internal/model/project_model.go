package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Project struct {
	Id            uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name          string         `gorm:"type:varchar(255);not null"`
	Description   *string        `gorm:"type:text"`
	InitialPrompt string         `gorm:"type:text;not null"`
	TechStack     datatypes.JSON `gorm:"type:jsonb"`
	Status        string         `gorm:"type:varchar(50);not null;default:'draft'"`
	OwnerId       uuid.UUID      `gorm:"type:uuid;not null;index"` // owner binding for data isolation
	CreatedAt     time.Time      `gorm:"autoCreateTime"`
	UpdatedAt     time.Time      `gorm:"autoUpdateTime"`
	DeletedAt     gorm.DeletedAt `gorm:"index"`
}

func (Project) TableName() string {
	return "projects"
}

// ProjectFile keeps one file per (project_id, file_path). The composite
// index makes duplicates a constraint violation instead of silent shadowing.
type ProjectFile struct {
	Id        uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProjectId uuid.UUID      `gorm:"type:uuid;not null;index;uniqueIndex:idx_project_file_path"`
	FilePath  string         `gorm:"type:varchar(1024);not null;uniqueIndex:idx_project_file_path"`
	FileName  string         `gorm:"type:varchar(255);not null"`
	Content   *string        `gorm:"type:text"`
	FileType  *string        `gorm:"type:varchar(50)"`
	Language  *string        `gorm:"type:varchar(50)"`
	CreatedAt time.Time      `gorm:"autoCreateTime"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (ProjectFile) TableName() string {
	return "project_files"
}
