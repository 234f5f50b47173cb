package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	apierrors "github.com/yukikurage/taskflow/internal/errors"
	"github.com/yukikurage/taskflow/internal/models"
)

// RequireRole rejects callers whose role in the current organization is not
// one of roles. It must run after RequireOrganizationAccess.
func RequireRole(roles ...models.OrganizationRole) gin.HandlerFunc {
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = string(r)
	}
	denied := "Insufficient permissions. Required role: " + strings.Join(names, " or ")

	return func(c *gin.Context) {
		org, ok := GetOrganization(c)
		if !ok {
			apierrors.Forbidden(c, apierrors.MsgOrgContextMissing)
			return
		}
		if !models.IsAuthorized(org.Role, roles) {
			apierrors.Forbidden(c, denied)
			return
		}
		c.Next()
	}
}
