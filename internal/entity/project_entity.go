package entity

import (
	"time"

	"github.com/google/uuid"
)

const (
	ProjectStatusDraft    = "draft"
	ProjectStatusBuilding = "building"
	ProjectStatusReady    = "ready"
	ProjectStatusArchived = "archived"
)

// TechStack is the structured stack descriptor stored on a project.
type TechStack struct {
	Frontend string `json:"frontend"`
	Backend  string `json:"backend"`
	Database string `json:"database"`
	Styling  string `json:"styling"`
}

type Project struct {
	Id            uuid.UUID
	Name          string
	Description   *string
	InitialPrompt string
	TechStack     *TechStack
	Status        string
	OwnerId       uuid.UUID
	CreatedAt     time.Time
	UpdatedAt     *time.Time
	DeletedAt     *time.Time
	IsDeleted     bool
}

type ProjectFile struct {
	Id        uuid.UUID
	ProjectId uuid.UUID
	FilePath  string
	FileName  string
	Content   *string
	FileType  *string
	Language  *string
	CreatedAt time.Time
	UpdatedAt *time.Time
	DeletedAt *time.Time
	IsDeleted bool
}
