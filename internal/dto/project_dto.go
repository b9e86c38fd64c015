package dto

import (
	"time"

	"kidvibe-be/internal/entity"
	"kidvibe-be/internal/pkg/optional"

	"github.com/google/uuid"
)

type CreateProjectRequest struct {
	Name          string            `json:"name" validate:"required,max=200"`
	Description   *string           `json:"description"`
	InitialPrompt string            `json:"initial_prompt" validate:"required"`
	TechStack     *entity.TechStack `json:"tech_stack"`
}

type ProjectResponse struct {
	Id            uuid.UUID         `json:"id"`
	Name          string            `json:"name"`
	Description   *string           `json:"description"`
	InitialPrompt string            `json:"initial_prompt"`
	TechStack     *entity.TechStack `json:"tech_stack"`
	Status        string            `json:"status"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     *time.Time        `json:"updated_at"`
}

type ListProjectsResponse struct {
	Projects []ProjectResponse `json:"projects"`
	Total    int64             `json:"total"`
}

// UpdateProjectRequest distinguishes omitted fields from fields set to
// null or a new value. Only fields present in the request body are
// applied.
type UpdateProjectRequest struct {
	Id          uuid.UUID                         `json:"-"`
	Name        optional.Field[string]            `json:"name"`
	Description optional.Field[*string]           `json:"description"`
	TechStack   optional.Field[*entity.TechStack] `json:"tech_stack"`
	Status      optional.Field[string]            `json:"status"`
}

type AnalyzeProjectRequest struct {
	Description string `json:"description" validate:"required"`
}

type AnalyzeProjectResponse struct {
	TechStack     map[string]string `json:"tech_stack"`
	Features      []string          `json:"features"`
	Complexity    string            `json:"complexity"`
	EstimatedTime string            `json:"estimated_time"`
	Error         string            `json:"error,omitempty"`
}

type GenerateCodeRequest struct {
	Prompt  string            `json:"prompt" validate:"required"`
	Context map[string]string `json:"context"`
}

type GenerateCodeResponse struct {
	Code string `json:"code"`
}

type SuggestImprovementsRequest struct {
	Code     string `json:"code" validate:"required"`
	Feedback string `json:"feedback"`
}

type SuggestImprovementsResponse struct {
	Suggestions []string `json:"suggestions"`
}

type CreateProjectFileRequest struct {
	ProjectId uuid.UUID `json:"-"`
	FilePath  string    `json:"file_path" validate:"required,max=500"`
	FileName  string    `json:"file_name" validate:"required,max=200"`
	Content   *string   `json:"content"`
	FileType  *string   `json:"file_type"`
	Language  *string   `json:"language"`
}

type ProjectFileResponse struct {
	Id        uuid.UUID  `json:"id"`
	ProjectId uuid.UUID  `json:"project_id"`
	FilePath  string     `json:"file_path"`
	FileName  string     `json:"file_name"`
	Content   *string    `json:"content"`
	FileType  *string    `json:"file_type"`
	Language  *string    `json:"language"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

// UpdateProjectFileRequest applies only the fields present in the body.
type UpdateProjectFileRequest struct {
	Id        uuid.UUID               `json:"-"`
	ProjectId uuid.UUID               `json:"-"`
	Content   optional.Field[*string] `json:"content"`
	FileType  optional.Field[*string] `json:"file_type"`
	Language  optional.Field[*string] `json:"language"`
}
