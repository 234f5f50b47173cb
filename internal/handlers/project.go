package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yukikurage/taskflow/internal/dto"
	apierrors "github.com/yukikurage/taskflow/internal/errors"
	"github.com/yukikurage/taskflow/internal/middleware"
	"github.com/yukikurage/taskflow/internal/models"
	"github.com/yukikurage/taskflow/internal/repository"
	"github.com/yukikurage/taskflow/internal/services"
	"github.com/yukikurage/taskflow/internal/validation"
)

type ProjectHandler struct {
	projectService *services.ProjectService
}

func NewProjectHandler(projectService *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{projectService: projectService}
}

type createProjectRequest struct {
	Name        string  `json:"name" binding:"required,min=2" message:"Project name must be at least 2 characters"`
	Description *string `json:"description"`
}

type updateProjectRequest struct {
	Name        *string               `json:"name" binding:"omitempty,min=2" message:"Project name must be at least 2 characters"`
	Description *string               `json:"description"`
	Status      *models.ProjectStatus `json:"status" binding:"omitempty,oneof=ACTIVE ARCHIVED COMPLETED"`
}

type listProjectsQuery struct {
	Status string `form:"status" binding:"omitempty,oneof=ACTIVE ARCHIVED COMPLETED"`
}

func (h *ProjectHandler) CreateProject(c *gin.Context) {
	org, userID, ok := requireScope(c)
	if !ok {
		return
	}

	var req createProjectRequest
	if !validation.BindJSON(c, &req) {
		return
	}

	project, err := h.projectService.CreateProject(c.Request.Context(), services.CreateProjectInput{
		OrganizationID: org.ID,
		CreatorID:      userID,
		Name:           req.Name,
		Description:    req.Description,
	})
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.Success(dto.ToProjectWithCountDTO(project.Project, project.TaskCount), "Project created successfully"))
}

// ListProjects returns the organization's projects, optionally filtered by status
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	org, _, ok := requireScope(c)
	if !ok {
		return
	}

	var query listProjectsQuery
	if !validation.BindQuery(c, &query) {
		return
	}
	var filter repository.ProjectFilter
	if query.Status != "" {
		status := models.ProjectStatus(query.Status)
		filter.Status = &status
	}

	projects, err := h.projectService.ListProjects(c.Request.Context(), org.ID, filter)
	if err != nil {
		respondProjectError(c, err)
		return
	}

	items := make([]dto.ProjectWithCountDTO, len(projects))
	for i, p := range projects {
		items[i] = dto.ToProjectWithCountDTO(p.Project, p.TaskCount)
	}
	c.JSON(http.StatusOK, dto.Success(items, ""))
}

// GetProject returns a project with its tasks
func (h *ProjectHandler) GetProject(c *gin.Context) {
	org, _, ok := requireScope(c)
	if !ok {
		return
	}

	project, err := h.projectService.GetProject(c.Request.Context(), org.ID, c.Param("projectId"))
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.Success(dto.ToProjectDetailDTO(*project), ""))
}

func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	org, _, ok := requireScope(c)
	if !ok {
		return
	}

	var req updateProjectRequest
	if !validation.BindJSON(c, &req) {
		return
	}

	project, err := h.projectService.UpdateProject(c.Request.Context(), services.UpdateProjectInput{
		OrganizationID: org.ID,
		ProjectID:      c.Param("projectId"),
		Name:           req.Name,
		Description:    req.Description,
		Status:         req.Status,
	})
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.Success(dto.ToProjectWithCountDTO(project.Project, project.TaskCount), "Project updated successfully"))
}

func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	org, _, ok := requireScope(c)
	if !ok {
		return
	}

	if err := h.projectService.DeleteProject(c.Request.Context(), org.ID, c.Param("projectId")); err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.Success(nil, "Project deleted successfully"))
}

// requireScope returns the organization context and the caller's ID, both
// set by the auth and tenancy middleware.
func requireScope(c *gin.Context) (middleware.OrganizationContext, string, bool) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return middleware.OrganizationContext{}, "", false
	}
	org, ok := middleware.GetOrganization(c)
	if !ok {
		apierrors.Forbidden(c, apierrors.MsgOrgContextMissing)
		return middleware.OrganizationContext{}, "", false
	}
	return org, userID, true
}

func respondProjectError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrProjectNotFound):
		apierrors.NotFound(c, "Project not found")
	default:
		respondInternal(c, "project request failed", err)
	}
}
