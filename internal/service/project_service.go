package service

import (
	"context"
	"time"

	"kidvibe-be/internal/apperrors"
	"kidvibe-be/internal/dto"
	"kidvibe-be/internal/entity"
	"kidvibe-be/internal/guard"
	"kidvibe-be/internal/pkg/logger"
	"kidvibe-be/internal/repository/memory"
	"kidvibe-be/internal/repository/unitofwork"
	"kidvibe-be/pkg/ai"
	"kidvibe-be/pkg/events"
	pktNats "kidvibe-be/pkg/nats"

	"github.com/google/uuid"
)

type IProjectService interface {
	Create(ctx context.Context, userId uuid.UUID, req *dto.CreateProjectRequest) (*dto.ProjectResponse, error)
	Show(ctx context.Context, userId, projectId uuid.UUID) (*dto.ProjectResponse, error)
	List(ctx context.Context, userId uuid.UUID, limit, offset int) (*dto.ListProjectsResponse, error)
	Update(ctx context.Context, userId uuid.UUID, req *dto.UpdateProjectRequest) (*dto.ProjectResponse, error)
	Delete(ctx context.Context, userId, projectId uuid.UUID) error

	Analyze(ctx context.Context, userId uuid.UUID, req *dto.AnalyzeProjectRequest) (*dto.AnalyzeProjectResponse, error)
	GenerateCode(ctx context.Context, userId uuid.UUID, req *dto.GenerateCodeRequest) (*dto.GenerateCodeResponse, error)
	SuggestImprovements(ctx context.Context, userId uuid.UUID, req *dto.SuggestImprovementsRequest) (*dto.SuggestImprovementsResponse, error)

	CreateFile(ctx context.Context, userId uuid.UUID, req *dto.CreateProjectFileRequest) (*dto.ProjectFileResponse, error)
	ShowFile(ctx context.Context, userId, projectId, fileId uuid.UUID) (*dto.ProjectFileResponse, error)
	ListFiles(ctx context.Context, userId, projectId uuid.UUID) ([]*dto.ProjectFileResponse, error)
	UpdateFile(ctx context.Context, userId uuid.UUID, req *dto.UpdateProjectFileRequest) (*dto.ProjectFileResponse, error)
	DeleteFile(ctx context.Context, userId, projectId, fileId uuid.UUID) error
}

type projectService struct {
	uowFactory     unitofwork.RepositoryFactory
	ownership      *guard.Guard
	provider       ai.Provider
	analysisCache  *memory.AnalysisCache
	eventPublisher *pktNats.Publisher
	log            logger.ILogger
}

func NewProjectService(
	uowFactory unitofwork.RepositoryFactory,
	ownership *guard.Guard,
	provider ai.Provider,
	analysisCache *memory.AnalysisCache,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
) IProjectService {
	return &projectService{
		uowFactory:     uowFactory,
		ownership:      ownership,
		provider:       provider,
		analysisCache:  analysisCache,
		eventPublisher: eventPublisher,
		log:            log,
	}
}

func (s *projectService) Create(ctx context.Context, userId uuid.UUID, req *dto.CreateProjectRequest) (*dto.ProjectResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	project := entity.Project{
		Id:            uuid.New(),
		Name:          req.Name,
		Description:   req.Description,
		InitialPrompt: req.InitialPrompt,
		TechStack:     req.TechStack,
		Status:        entity.ProjectStatusDraft,
		OwnerId:       userId,
		CreatedAt:     time.Now(),
	}

	if err := uow.ProjectRepository().Create(ctx, &project); err != nil {
		return nil, apperrors.Internal("failed to create project", err)
	}

	s.publishEvent(ctx, events.NewProjectCreated(project.Id.String(), userId.String(), project.Name))

	return projectToResponse(&project), nil
}

func (s *projectService) Show(ctx context.Context, userId, projectId uuid.UUID) (*dto.ProjectResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	project, err := s.ownership.EnsureProjectOwned(ctx, uow, projectId, userId)
	if err != nil {
		return nil, err
	}

	return projectToResponse(project), nil
}

func (s *projectService) List(ctx context.Context, userId uuid.UUID, limit, offset int) (*dto.ListProjectsResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	projects, err := uow.ProjectRepository().FindAllByOwner(ctx, userId, limit, offset)
	if err != nil {
		return nil, apperrors.Internal("failed to list projects", err)
	}
	total, err := uow.ProjectRepository().Count(ctx, userId)
	if err != nil {
		return nil, apperrors.Internal("failed to count projects", err)
	}

	res := &dto.ListProjectsResponse{
		Projects: make([]dto.ProjectResponse, 0, len(projects)),
		Total:    total,
	}
	for _, p := range projects {
		res.Projects = append(res.Projects, *projectToResponse(p))
	}
	return res, nil
}

func (s *projectService) Update(ctx context.Context, userId uuid.UUID, req *dto.UpdateProjectRequest) (*dto.ProjectResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	project, err := s.ownership.EnsureProjectOwned(ctx, uow, req.Id, userId)
	if err != nil {
		return nil, err
	}

	if name, ok := req.Name.Get(); ok {
		if name == "" {
			return nil, apperrors.Validation("name cannot be empty")
		}
		project.Name = name
	}
	if req.Description.Set {
		if desc, ok := req.Description.Get(); ok {
			project.Description = desc
		} else {
			project.Description = nil
		}
	}
	if req.TechStack.Set {
		if stack, ok := req.TechStack.Get(); ok {
			project.TechStack = stack
		} else {
			project.TechStack = nil
		}
	}
	if status, ok := req.Status.Get(); ok {
		if !validProjectStatus(status) {
			return nil, apperrors.Validation("invalid project status")
		}
		project.Status = status
	}

	now := time.Now()
	project.UpdatedAt = &now

	if err := uow.ProjectRepository().Update(ctx, project); err != nil {
		return nil, apperrors.Internal("failed to update project", err)
	}

	return projectToResponse(project), nil
}

func (s *projectService) Delete(ctx context.Context, userId, projectId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	project, err := s.ownership.EnsureProjectOwned(ctx, uow, projectId, userId)
	if err != nil {
		return err
	}

	if err := uow.ProjectRepository().Delete(ctx, project.Id); err != nil {
		return apperrors.Internal("failed to delete project", err)
	}

	s.publishEvent(ctx, events.NewProjectDeleted(project.Id.String(), userId.String()))
	return nil
}

func (s *projectService) Analyze(ctx context.Context, userId uuid.UUID, req *dto.AnalyzeProjectRequest) (*dto.AnalyzeProjectResponse, error) {
	// Validation happens before any provider call.
	if req.Description == "" {
		return nil, apperrors.Validation("description is required")
	}

	if cached, ok := s.analysisCache.Get(req.Description); ok {
		return analysisToResponse(cached), nil
	}

	analysis, err := s.provider.AnalyzeRequirements(ctx, req.Description)
	if err != nil {
		return nil, apperrors.Internal("failed to analyze requirements", err)
	}

	// Degraded results are not worth caching; the provider may recover.
	if analysis.Error == "" {
		s.analysisCache.Set(req.Description, analysis)
	}

	return analysisToResponse(analysis), nil
}

func (s *projectService) GenerateCode(ctx context.Context, userId uuid.UUID, req *dto.GenerateCodeRequest) (*dto.GenerateCodeResponse, error) {
	code, err := s.provider.GenerateCode(ctx, req.Prompt, req.Context)
	if err != nil {
		return nil, apperrors.Internal("failed to generate code", err)
	}
	return &dto.GenerateCodeResponse{Code: code}, nil
}

func (s *projectService) SuggestImprovements(ctx context.Context, userId uuid.UUID, req *dto.SuggestImprovementsRequest) (*dto.SuggestImprovementsResponse, error) {
	suggestions, err := s.provider.SuggestImprovements(ctx, req.Code, req.Feedback)
	if err != nil {
		return nil, apperrors.Internal("failed to suggest improvements", err)
	}
	return &dto.SuggestImprovementsResponse{Suggestions: suggestions}, nil
}

func (s *projectService) CreateFile(ctx context.Context, userId uuid.UUID, req *dto.CreateProjectFileRequest) (*dto.ProjectFileResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if _, err := s.ownership.EnsureProjectOwned(ctx, uow, req.ProjectId, userId); err != nil {
		return nil, err
	}

	existing, err := uow.ProjectFileRepository().FindOneByPath(ctx, req.ProjectId, req.FilePath)
	if err != nil {
		return nil, apperrors.Internal("failed to check file path", err)
	}
	if existing != nil {
		return nil, apperrors.Conflict("file path already exists in project")
	}

	file := entity.ProjectFile{
		Id:        uuid.New(),
		ProjectId: req.ProjectId,
		FilePath:  req.FilePath,
		FileName:  req.FileName,
		Content:   req.Content,
		FileType:  req.FileType,
		Language:  req.Language,
		CreatedAt: time.Now(),
	}

	if err := uow.ProjectFileRepository().Create(ctx, &file); err != nil {
		return nil, apperrors.Internal("failed to create file", err)
	}

	return fileToResponse(&file), nil
}

func (s *projectService) ShowFile(ctx context.Context, userId, projectId, fileId uuid.UUID) (*dto.ProjectFileResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if _, err := s.ownership.EnsureProjectOwned(ctx, uow, projectId, userId); err != nil {
		return nil, err
	}

	file, err := uow.ProjectFileRepository().FindOneByIdAndProject(ctx, fileId, projectId)
	if err != nil {
		return nil, apperrors.Internal("failed to load file", err)
	}
	if file == nil {
		return nil, apperrors.NotFound("file not found")
	}

	return fileToResponse(file), nil
}

func (s *projectService) ListFiles(ctx context.Context, userId, projectId uuid.UUID) ([]*dto.ProjectFileResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if _, err := s.ownership.EnsureProjectOwned(ctx, uow, projectId, userId); err != nil {
		return nil, err
	}

	files, err := uow.ProjectFileRepository().FindAllByProject(ctx, projectId)
	if err != nil {
		return nil, apperrors.Internal("failed to list files", err)
	}

	res := make([]*dto.ProjectFileResponse, 0, len(files))
	for _, f := range files {
		res = append(res, fileToResponse(f))
	}
	return res, nil
}

func (s *projectService) UpdateFile(ctx context.Context, userId uuid.UUID, req *dto.UpdateProjectFileRequest) (*dto.ProjectFileResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if _, err := s.ownership.EnsureProjectOwned(ctx, uow, req.ProjectId, userId); err != nil {
		return nil, err
	}

	file, err := uow.ProjectFileRepository().FindOneByIdAndProject(ctx, req.Id, req.ProjectId)
	if err != nil {
		return nil, apperrors.Internal("failed to load file", err)
	}
	if file == nil {
		return nil, apperrors.NotFound("file not found")
	}

	if req.Content.Set {
		content, _ := req.Content.Get()
		file.Content = content
	}
	if req.FileType.Set {
		fileType, _ := req.FileType.Get()
		file.FileType = fileType
	}
	if req.Language.Set {
		language, _ := req.Language.Get()
		file.Language = language
	}

	now := time.Now()
	file.UpdatedAt = &now

	if err := uow.ProjectFileRepository().Update(ctx, file); err != nil {
		return nil, apperrors.Internal("failed to update file", err)
	}

	return fileToResponse(file), nil
}

func (s *projectService) DeleteFile(ctx context.Context, userId, projectId, fileId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if _, err := s.ownership.EnsureProjectOwned(ctx, uow, projectId, userId); err != nil {
		return err
	}

	file, err := uow.ProjectFileRepository().FindOneByIdAndProject(ctx, fileId, projectId)
	if err != nil {
		return apperrors.Internal("failed to load file", err)
	}
	if file == nil {
		return apperrors.NotFound("file not found")
	}

	if err := uow.ProjectFileRepository().Delete(ctx, file.Id); err != nil {
		return apperrors.Internal("failed to delete file", err)
	}
	return nil
}

func (s *projectService) publishEvent(ctx context.Context, evt events.Event) {
	if s.eventPublisher == nil {
		return
	}
	if err := s.eventPublisher.Publish(ctx, evt); err != nil {
		s.log.Warn("project", "failed to publish event", map[string]interface{}{
			"event_type": evt.EventType(),
			"error":      err.Error(),
		})
	}
}

func validProjectStatus(status string) bool {
	switch status {
	case entity.ProjectStatusDraft, entity.ProjectStatusBuilding, entity.ProjectStatusReady, entity.ProjectStatusArchived:
		return true
	}
	return false
}

func projectToResponse(p *entity.Project) *dto.ProjectResponse {
	return &dto.ProjectResponse{
		Id:            p.Id,
		Name:          p.Name,
		Description:   p.Description,
		InitialPrompt: p.InitialPrompt,
		TechStack:     p.TechStack,
		Status:        p.Status,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func fileToResponse(f *entity.ProjectFile) *dto.ProjectFileResponse {
	return &dto.ProjectFileResponse{
		Id:        f.Id,
		ProjectId: f.ProjectId,
		FilePath:  f.FilePath,
		FileName:  f.FileName,
		Content:   f.Content,
		FileType:  f.FileType,
		Language:  f.Language,
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
	}
}

func analysisToResponse(a *ai.RequirementAnalysis) *dto.AnalyzeProjectResponse {
	return &dto.AnalyzeProjectResponse{
		TechStack:     a.TechStack,
		Features:      a.Features,
		Complexity:    a.Complexity,
		EstimatedTime: a.EstimatedTime,
		Error:         a.Error,
	}
}
