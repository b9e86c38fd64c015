package mapper

import (
	"encoding/json"
	"time"

	"kidvibe-be/internal/entity"
	"kidvibe-be/internal/model"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ProjectMapper struct{}

func NewProjectMapper() *ProjectMapper {
	return &ProjectMapper{}
}

func (m *ProjectMapper) ToEntity(p *model.Project) *entity.Project {
	if p == nil {
		return nil
	}

	var deletedAt *time.Time
	if p.DeletedAt.Valid {
		t := p.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !p.UpdatedAt.IsZero() {
		t := p.UpdatedAt
		updatedAt = &t
	}

	var techStack *entity.TechStack
	if len(p.TechStack) > 0 {
		var ts entity.TechStack
		if err := json.Unmarshal(p.TechStack, &ts); err == nil {
			techStack = &ts
		}
	}

	return &entity.Project{
		Id:            p.Id,
		Name:          p.Name,
		Description:   p.Description,
		InitialPrompt: p.InitialPrompt,
		TechStack:     techStack,
		Status:        p.Status,
		OwnerId:       p.OwnerId,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     updatedAt,
		DeletedAt:     deletedAt,
		IsDeleted:     p.DeletedAt.Valid,
	}
}

func (m *ProjectMapper) ToModel(p *entity.Project) *model.Project {
	if p == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if p.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *p.DeletedAt, Valid: true}
	} else if p.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if p.UpdatedAt != nil {
		updatedAt = *p.UpdatedAt
	}

	var techStack datatypes.JSON
	if p.TechStack != nil {
		if raw, err := json.Marshal(p.TechStack); err == nil {
			techStack = raw
		}
	}

	return &model.Project{
		Id:            p.Id,
		Name:          p.Name,
		Description:   p.Description,
		InitialPrompt: p.InitialPrompt,
		TechStack:     techStack,
		Status:        p.Status,
		OwnerId:       p.OwnerId,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     updatedAt,
		DeletedAt:     deletedAt,
	}
}

func (m *ProjectMapper) FileToEntity(f *model.ProjectFile) *entity.ProjectFile {
	if f == nil {
		return nil
	}

	var deletedAt *time.Time
	if f.DeletedAt.Valid {
		t := f.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !f.UpdatedAt.IsZero() {
		t := f.UpdatedAt
		updatedAt = &t
	}

	return &entity.ProjectFile{
		Id:        f.Id,
		ProjectId: f.ProjectId,
		FilePath:  f.FilePath,
		FileName:  f.FileName,
		Content:   f.Content,
		FileType:  f.FileType,
		Language:  f.Language,
		CreatedAt: f.CreatedAt,
		UpdatedAt: updatedAt,
		DeletedAt: deletedAt,
		IsDeleted: f.DeletedAt.Valid,
	}
}

func (m *ProjectMapper) FileToModel(f *entity.ProjectFile) *model.ProjectFile {
	if f == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if f.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *f.DeletedAt, Valid: true}
	} else if f.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if f.UpdatedAt != nil {
		updatedAt = *f.UpdatedAt
	}

	return &model.ProjectFile{
		Id:        f.Id,
		ProjectId: f.ProjectId,
		FilePath:  f.FilePath,
		FileName:  f.FileName,
		Content:   f.Content,
		FileType:  f.FileType,
		Language:  f.Language,
		CreatedAt: f.CreatedAt,
		UpdatedAt: updatedAt,
		DeletedAt: deletedAt,
	}
}
