package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/yukikurage/taskflow/internal/constants"
	apierrors "github.com/yukikurage/taskflow/internal/errors"
	"github.com/yukikurage/taskflow/internal/logger"
	"github.com/yukikurage/taskflow/internal/models"
	"github.com/yukikurage/taskflow/internal/repository"
)

// OrganizationContext is the organization a request is scoped to and the
// caller's role in it.
type OrganizationContext struct {
	ID   string
	Slug string
	Role models.OrganizationRole
}

// RequireOrganizationAccess checks that the caller is a member of the
// organization named by the organizationId path parameter, or by the
// organizationId field of a JSON body when the path has none.
func RequireOrganizationAccess(orgRepo repository.OrganizationRepository, metrics *Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		orgID := strings.TrimSpace(c.Param("organizationId"))
		if orgID == "" {
			orgID = organizationIDFromBody(c)
		}
		if orgID == "" {
			metrics.TenancyDenial("missing_organization")
			apierrors.BadRequest(c, apierrors.MsgOrgIDRequired)
			return
		}

		userID, exists := GetUserID(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			return
		}

		member, err := orgRepo.FindMember(c.Request.Context(), orgID, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// Same answer whether or not the organization exists.
				metrics.TenancyDenial("not_member")
				apierrors.Forbidden(c, apierrors.MsgNotMember)
				return
			}
			logger.FromContext(c.Request.Context()).Error("failed to resolve membership",
				zap.String("organization_id", orgID), zap.Error(err))
			apierrors.InternalError(c, "")
			return
		}

		c.Set(constants.ContextKeyOrganization, OrganizationContext{
			ID:   member.OrganizationID,
			Slug: member.Organization.Slug,
			Role: member.Role,
		})
		c.Next()
	}
}

// organizationIDFromBody reads organizationId from a JSON body. The body stays
// available to later binding.
func organizationIDFromBody(c *gin.Context) string {
	if c.Request.Body == nil || c.ContentType() != binding.MIMEJSON {
		return ""
	}
	var body struct {
		OrganizationID string `json:"organizationId"`
	}
	if err := c.ShouldBindBodyWith(&body, binding.JSON); err != nil {
		return ""
	}
	return strings.TrimSpace(body.OrganizationID)
}

// GetOrganization retrieves the organization context set by RequireOrganizationAccess
func GetOrganization(c *gin.Context) (OrganizationContext, bool) {
	v, exists := c.Get(constants.ContextKeyOrganization)
	if !exists {
		return OrganizationContext{}, false
	}
	org, ok := v.(OrganizationContext)
	return org, ok
}
