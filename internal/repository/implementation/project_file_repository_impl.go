package implementation

import (
	"context"
	"errors"

	"kidvibe-be/internal/entity"
	"kidvibe-be/internal/mapper"
	"kidvibe-be/internal/model"
	"kidvibe-be/internal/repository/contract"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProjectFileRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ProjectMapper
}

func NewProjectFileRepository(db *gorm.DB) contract.ProjectFileRepository {
	return &ProjectFileRepositoryImpl{
		db:     db,
		mapper: mapper.NewProjectMapper(),
	}
}

func (r *ProjectFileRepositoryImpl) Create(ctx context.Context, file *entity.ProjectFile) error {
	m := r.mapper.FileToModel(file)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*file = *r.mapper.FileToEntity(m)
	return nil
}

func (r *ProjectFileRepositoryImpl) Update(ctx context.Context, file *entity.ProjectFile) error {
	m := r.mapper.FileToModel(file)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*file = *r.mapper.FileToEntity(m)
	return nil
}

func (r *ProjectFileRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.ProjectFile{}, id).Error
}

func (r *ProjectFileRepositoryImpl) FindOneByIdAndProject(ctx context.Context, id, projectId uuid.UUID) (*entity.ProjectFile, error) {
	var m model.ProjectFile
	err := r.db.WithContext(ctx).
		Where("id = ? AND project_id = ?", id, projectId).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.FileToEntity(&m), nil
}

func (r *ProjectFileRepositoryImpl) FindOneByPath(ctx context.Context, projectId uuid.UUID, filePath string) (*entity.ProjectFile, error) {
	var m model.ProjectFile
	err := r.db.WithContext(ctx).
		Where("project_id = ? AND file_path = ?", projectId, filePath).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.FileToEntity(&m), nil
}

func (r *ProjectFileRepositoryImpl) FindAllByProject(ctx context.Context, projectId uuid.UUID) ([]*entity.ProjectFile, error) {
	var models []*model.ProjectFile
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectId).
		Order("file_path ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	entities := make([]*entity.ProjectFile, len(models))
	for i, m := range models {
		entities[i] = r.mapper.FileToEntity(m)
	}
	return entities, nil
}
