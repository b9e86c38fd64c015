package controller

import (
	"kidvibe-be/internal/dto"
	"kidvibe-be/internal/pkg/serverutils"
	"kidvibe-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IProjectController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	Analyze(ctx *fiber.Ctx) error
	GenerateCode(ctx *fiber.Ctx) error
	SuggestImprovements(ctx *fiber.Ctx) error
	CreateFile(ctx *fiber.Ctx) error
	ListFiles(ctx *fiber.Ctx) error
	ShowFile(ctx *fiber.Ctx) error
	UpdateFile(ctx *fiber.Ctx) error
	DeleteFile(ctx *fiber.Ctx) error
}

type projectController struct {
	projectService service.IProjectService
	authMw         fiber.Handler
}

func NewProjectController(projectService service.IProjectService, authMw fiber.Handler) IProjectController {
	return &projectController{
		projectService: projectService,
		authMw:         authMw,
	}
}

func (c *projectController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/project/v1")
	h.Use(c.authMw)
	h.Post("analyze", c.Analyze)
	h.Post("generate-code", c.GenerateCode)
	h.Post("suggest-improvements", c.SuggestImprovements)
	h.Post("", c.Create)
	h.Get("", c.List)
	h.Get(":id", c.Show)
	h.Put(":id", c.Update)
	h.Delete(":id", c.Delete)
	h.Post(":id/files", c.CreateFile)
	h.Get(":id/files", c.ListFiles)
	h.Get(":id/files/:fileId", c.ShowFile)
	h.Put(":id/files/:fileId", c.UpdateFile)
	h.Delete(":id/files/:fileId", c.DeleteFile)
}

func (c *projectController) Create(ctx *fiber.Ctx) error {
	userId, err := currentUserId(ctx)
	if err != nil {
		return err
	}

	var req dto.CreateProjectRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.projectService.Create(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success create project", res))
}

func (c *projectController) List(ctx *fiber.Ctx) error {
	userId, err := currentUserId(ctx)
	if err != nil {
		return err
	}

	limit := ctx.QueryInt("limit", 20)
	offset := ctx.QueryInt("offset", 0)

	res, err := c.projectService.List(ctx.Context(), userId, limit, offset)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list projects", res))
}

func (c *projectController) Show(ctx *fiber.Ctx) error {
	userId, err := currentUserId(ctx)
	if err != nil {
		return err
	}
	projectId, err := parseIdParam(ctx, "id")
	if err != nil {
		return err
	}

	res, err := c.projectService.Show(ctx.Context(), userId, projectId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show project", res))
}

func (c *projectController) Update(ctx *fiber.Ctx) error {
	userId, err := currentUserId(ctx)
	if err != nil {
		return err
	}
	projectId, err := parseIdParam(ctx, "id")
	if err != nil {
		return err
	}

	var req dto.UpdateProjectRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	req.Id = projectId

	res, err := c.projectService.Update(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success update project", res))
}

func (c *projectController) Delete(ctx *fiber.Ctx) error {
	userId, err := currentUserId(ctx)
	if err != nil {
		return err
	}
	projectId, err := parseIdParam(ctx, "id")
	if err != nil {
		return err
	}

	if err := c.projectService.Delete(ctx.Context(), userId, projectId); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete project", nil))
}

func (c *projectController) Analyze(ctx *fiber.Ctx) error {
	userId, err := currentUserId(ctx)
	if err != nil {
		return err
	}

	var req dto.AnalyzeProjectRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.projectService.Analyze(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success analyze requirements", res))
}

func (c *projectController) GenerateCode(ctx *fiber.Ctx) error {
	userId, err := currentUserId(ctx)
	if err != nil {
		return err
	}

	var req dto.GenerateCodeRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.projectService.GenerateCode(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success generate code", res))
}

func (c *projectController) SuggestImprovements(ctx *fiber.Ctx) error {
	userId, err := currentUserId(ctx)
	if err != nil {
		return err
	}

	var req dto.SuggestImprovementsRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.projectService.SuggestImprovements(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success suggest improvements", res))
}

func (c *projectController) CreateFile(ctx *fiber.Ctx) error {
	userId, err := currentUserId(ctx)
	if err != nil {
		return err
	}
	projectId, err := parseIdParam(ctx, "id")
	if err != nil {
		return err
	}

	var req dto.CreateProjectFileRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	req.ProjectId = projectId
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.projectService.CreateFile(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success create file", res))
}

func (c *projectController) ListFiles(ctx *fiber.Ctx) error {
	userId, err := currentUserId(ctx)
	if err != nil {
		return err
	}
	projectId, err := parseIdParam(ctx, "id")
	if err != nil {
		return err
	}

	res, err := c.projectService.ListFiles(ctx.Context(), userId, projectId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list files", res))
}

func (c *projectController) ShowFile(ctx *fiber.Ctx) error {
	userId, err := currentUserId(ctx)
	if err != nil {
		return err
	}
	projectId, err := parseIdParam(ctx, "id")
	if err != nil {
		return err
	}
	fileId, err := parseIdParam(ctx, "fileId")
	if err != nil {
		return err
	}

	res, err := c.projectService.ShowFile(ctx.Context(), userId, projectId, fileId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show file", res))
}

func (c *projectController) UpdateFile(ctx *fiber.Ctx) error {
	userId, err := currentUserId(ctx)
	if err != nil {
		return err
	}
	projectId, err := parseIdParam(ctx, "id")
	if err != nil {
		return err
	}
	fileId, err := parseIdParam(ctx, "fileId")
	if err != nil {
		return err
	}

	var req dto.UpdateProjectFileRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	req.Id = fileId
	req.ProjectId = projectId

	res, err := c.projectService.UpdateFile(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success update file", res))
}

func (c *projectController) DeleteFile(ctx *fiber.Ctx) error {
	userId, err := currentUserId(ctx)
	if err != nil {
		return err
	}
	projectId, err := parseIdParam(ctx, "id")
	if err != nil {
		return err
	}
	fileId, err := parseIdParam(ctx, "fileId")
	if err != nil {
		return err
	}

	if err := c.projectService.DeleteFile(ctx.Context(), userId, projectId, fileId); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete file", nil))
}
