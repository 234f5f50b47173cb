package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yukikurage/taskflow/internal/dto"
	apierrors "github.com/yukikurage/taskflow/internal/errors"
	"github.com/yukikurage/taskflow/internal/middleware"
	"github.com/yukikurage/taskflow/internal/models"
	"github.com/yukikurage/taskflow/internal/services"
	"github.com/yukikurage/taskflow/internal/validation"
)

type OrganizationHandler struct {
	orgService *services.OrganizationService
}

func NewOrganizationHandler(orgService *services.OrganizationService) *OrganizationHandler {
	return &OrganizationHandler{orgService: orgService}
}

type createOrganizationRequest struct {
	Name string `json:"name" binding:"required,min=2" message:"Organization name must be at least 2 characters"`
	Slug string `json:"slug" binding:"required,min=3,slug" message:"min=Slug must be at least 3 characters;slug=Slug can only contain lowercase letters, numbers, and hyphens"`
}

type inviteMemberRequest struct {
	Email string `json:"email" binding:"required,email"`
	Role  string `json:"role" binding:"required,oneof=ADMIN MEMBER"`
}

// CreateOrganization creates an organization owned by the caller
func (h *OrganizationHandler) CreateOrganization(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	var req createOrganizationRequest
	if !validation.BindJSON(c, &req) {
		return
	}

	org, err := h.orgService.CreateOrganization(c.Request.Context(), services.CreateOrganizationInput{
		Name:    req.Name,
		Slug:    req.Slug,
		OwnerID: userID,
	})
	if err != nil {
		respondOrganizationError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.Success(dto.ToOrganizationWithMembersDTO(*org), "Organization created successfully"))
}

// ListOrganizations returns all organizations the user is a member of
func (h *OrganizationHandler) ListOrganizations(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	summaries, err := h.orgService.ListOrganizations(c.Request.Context(), userID)
	if err != nil {
		respondOrganizationError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.Success(dto.ToOrganizationSummaryDTOs(summaries), ""))
}

// GetOrganization returns the organization with its members and project count
func (h *OrganizationHandler) GetOrganization(c *gin.Context) {
	org, ok := middleware.GetOrganization(c)
	if !ok {
		apierrors.Forbidden(c, apierrors.MsgOrgContextMissing)
		return
	}

	detail, err := h.orgService.GetOrganizationDetail(c.Request.Context(), org.ID)
	if err != nil {
		respondOrganizationError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.Success(dto.ToOrganizationDetailDTO(*detail.Organization, detail.ProjectCount), ""))
}

// InviteMember adds a registered user to the organization
func (h *OrganizationHandler) InviteMember(c *gin.Context) {
	org, ok := middleware.GetOrganization(c)
	if !ok {
		apierrors.Forbidden(c, apierrors.MsgOrgContextMissing)
		return
	}

	var req inviteMemberRequest
	if !validation.BindJSON(c, &req) {
		return
	}

	member, err := h.orgService.InviteMember(c.Request.Context(), services.InviteMemberInput{
		OrganizationID: org.ID,
		Email:          req.Email,
		Role:           models.OrganizationRole(req.Role),
	})
	if err != nil {
		respondOrganizationError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.Success(dto.ToOrganizationMemberDTO(*member), "Member added successfully"))
}

// RemoveMember removes a member from the organization
func (h *OrganizationHandler) RemoveMember(c *gin.Context) {
	org, ok := middleware.GetOrganization(c)
	if !ok {
		apierrors.Forbidden(c, apierrors.MsgOrgContextMissing)
		return
	}

	if err := h.orgService.RemoveMember(c.Request.Context(), org.ID, c.Param("userId")); err != nil {
		respondOrganizationError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.Success(nil, "Member removed successfully"))
}

func respondOrganizationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrSlugTaken):
		apierrors.Conflict(c, "Organization slug already taken")
	case errors.Is(err, services.ErrOrganizationNotFound):
		apierrors.NotFound(c, "Organization not found")
	case errors.Is(err, services.ErrInviteeNotRegistered):
		apierrors.NotFound(c, "User not found. They need to register first.")
	case errors.Is(err, services.ErrAlreadyMember):
		apierrors.Conflict(c, "User is already a member of this organization")
	case errors.Is(err, services.ErrInvalidRole):
		apierrors.BadRequest(c, "Invalid role")
	case errors.Is(err, services.ErrCannotRemoveOwner):
		apierrors.BadRequest(c, "Cannot remove the organization owner")
	case errors.Is(err, services.ErrMemberNotFound):
		apierrors.NotFound(c, "Member not found")
	default:
		respondInternal(c, "organization request failed", err)
	}
}
