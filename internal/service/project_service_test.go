package service

import (
	"context"
	"testing"
	"time"

	"kidvibe-be/internal/apperrors"
	"kidvibe-be/internal/dto"
	"kidvibe-be/internal/entity"
	"kidvibe-be/internal/guard"
	"kidvibe-be/internal/pkg/optional"
	"kidvibe-be/internal/repository/memory"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type projectFixture struct {
	store    *memory.Store
	svc      IProjectService
	provider *fakeProvider
	userId   uuid.UUID
}

func newProjectFixture(t *testing.T) *projectFixture {
	t.Helper()

	store := memory.NewStore()
	provider := &fakeProvider{}

	svc := NewProjectService(
		store.Factory(),
		guard.NewGuard(),
		provider,
		memory.NewAnalysisCache(),
		nil,
		noopLogger{},
	)

	ctx := context.Background()
	uow := store.Factory().NewUnitOfWork(ctx)
	user := entity.User{Id: uuid.New(), Email: "owner@example.com", Username: "owner", IsActive: true, CreatedAt: time.Now()}
	require.NoError(t, uow.UserRepository().Create(ctx, &user))

	return &projectFixture{store: store, svc: svc, provider: provider, userId: user.Id}
}

func (f *projectFixture) createProject(t *testing.T) *dto.ProjectResponse {
	t.Helper()
	res, err := f.svc.Create(context.Background(), f.userId, &dto.CreateProjectRequest{
		Name:          "demo",
		InitialPrompt: "build a demo",
	})
	require.NoError(t, err)
	return res
}

func TestCreateAndShowProject(t *testing.T) {
	f := newProjectFixture(t)

	created := f.createProject(t)
	assert.Equal(t, entity.ProjectStatusDraft, created.Status)

	shown, err := f.svc.Show(context.Background(), f.userId, created.Id)
	require.NoError(t, err)
	assert.Equal(t, "demo", shown.Name)
}

func TestShowProjectHidesForeignProjects(t *testing.T) {
	f := newProjectFixture(t)
	created := f.createProject(t)

	_, err := f.svc.Show(context.Background(), uuid.New(), created.Id)

	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func TestUpdateProjectAppliesOnlyPresentFields(t *testing.T) {
	f := newProjectFixture(t)
	ctx := context.Background()
	created := f.createProject(t)

	desc := "a description"
	_, err := f.svc.Update(ctx, f.userId, &dto.UpdateProjectRequest{
		Id:          created.Id,
		Description: optional.Of(&desc),
	})
	require.NoError(t, err)

	// Name untouched, description set.
	shown, err := f.svc.Show(ctx, f.userId, created.Id)
	require.NoError(t, err)
	assert.Equal(t, "demo", shown.Name)
	require.NotNil(t, shown.Description)
	assert.Equal(t, desc, *shown.Description)

	// Explicit null clears the description.
	_, err = f.svc.Update(ctx, f.userId, &dto.UpdateProjectRequest{
		Id:          created.Id,
		Description: optional.Null[*string](),
	})
	require.NoError(t, err)

	shown, err = f.svc.Show(ctx, f.userId, created.Id)
	require.NoError(t, err)
	assert.Nil(t, shown.Description)
}

func TestProjectTechStackRoundTrip(t *testing.T) {
	f := newProjectFixture(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, f.userId, &dto.CreateProjectRequest{
		Name:          "stacked",
		InitialPrompt: "build a stacked demo",
		TechStack: &entity.TechStack{
			Frontend: "nextjs",
			Backend:  "fastapi",
			Database: "sqlite",
			Styling:  "tailwind",
		},
	})
	require.NoError(t, err)
	require.NotNil(t, created.TechStack)
	assert.Equal(t, "nextjs", created.TechStack.Frontend)

	// Update replaces the descriptor without touching other fields.
	updated, err := f.svc.Update(ctx, f.userId, &dto.UpdateProjectRequest{
		Id:        created.Id,
		TechStack: optional.Of(&entity.TechStack{Frontend: "react", Backend: "go", Database: "postgres", Styling: "css"}),
	})
	require.NoError(t, err)
	assert.Equal(t, "stacked", updated.Name)
	require.NotNil(t, updated.TechStack)
	assert.Equal(t, "go", updated.TechStack.Backend)

	// Explicit null clears it; an absent field leaves it alone.
	updated, err = f.svc.Update(ctx, f.userId, &dto.UpdateProjectRequest{
		Id:        created.Id,
		TechStack: optional.Null[*entity.TechStack](),
	})
	require.NoError(t, err)
	assert.Nil(t, updated.TechStack)
}

func TestUpdateProjectRejectsInvalidStatus(t *testing.T) {
	f := newProjectFixture(t)
	created := f.createProject(t)

	_, err := f.svc.Update(context.Background(), f.userId, &dto.UpdateProjectRequest{
		Id:     created.Id,
		Status: optional.Of("exploded"),
	})

	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
}

func TestAnalyzeEmptyDescriptionSkipsProvider(t *testing.T) {
	f := newProjectFixture(t)

	_, err := f.svc.Analyze(context.Background(), f.userId, &dto.AnalyzeProjectRequest{Description: ""})

	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
	assert.Equal(t, 0, f.provider.analyzeCalls)
}

func TestAnalyzeCachesSuccessfulResults(t *testing.T) {
	f := newProjectFixture(t)
	ctx := context.Background()
	req := &dto.AnalyzeProjectRequest{Description: "a todo app with auth"}

	first, err := f.svc.Analyze(ctx, f.userId, req)
	require.NoError(t, err)

	second, err := f.svc.Analyze(ctx, f.userId, req)
	require.NoError(t, err)

	assert.Equal(t, 1, f.provider.analyzeCalls)
	assert.Equal(t, first, second)
}

func TestCreateFileRejectsDuplicatePath(t *testing.T) {
	f := newProjectFixture(t)
	ctx := context.Background()
	created := f.createProject(t)

	req := &dto.CreateProjectFileRequest{
		ProjectId: created.Id,
		FilePath:  "src/main.go",
		FileName:  "main.go",
	}
	_, err := f.svc.CreateFile(ctx, f.userId, req)
	require.NoError(t, err)

	_, err = f.svc.CreateFile(ctx, f.userId, req)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))
}

func TestFileLifecycle(t *testing.T) {
	f := newProjectFixture(t)
	ctx := context.Background()
	created := f.createProject(t)

	file, err := f.svc.CreateFile(ctx, f.userId, &dto.CreateProjectFileRequest{
		ProjectId: created.Id,
		FilePath:  "README.md",
		FileName:  "README.md",
	})
	require.NoError(t, err)

	content := "# demo"
	updated, err := f.svc.UpdateFile(ctx, f.userId, &dto.UpdateProjectFileRequest{
		Id:        file.Id,
		ProjectId: created.Id,
		Content:   optional.Of(&content),
	})
	require.NoError(t, err)
	require.NotNil(t, updated.Content)
	assert.Equal(t, content, *updated.Content)

	files, err := f.svc.ListFiles(ctx, f.userId, created.Id)
	require.NoError(t, err)
	require.Len(t, files, 1)

	require.NoError(t, f.svc.DeleteFile(ctx, f.userId, created.Id, file.Id))

	files, err = f.svc.ListFiles(ctx, f.userId, created.Id)
	require.NoError(t, err)
	assert.Empty(t, files)
}
