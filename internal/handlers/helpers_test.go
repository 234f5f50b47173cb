package handlers

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/yukikurage/taskflow/internal/constants"
	"github.com/yukikurage/taskflow/internal/dto"
	"github.com/yukikurage/taskflow/internal/middleware"
	"github.com/yukikurage/taskflow/internal/models"
)

// envelope mirrors dto.Envelope with a typed payload.
type envelope[T any] struct {
	Success bool             `json:"success"`
	Data    T                `json:"data"`
	Message string           `json:"message"`
	Error   string           `json:"error"`
	Details []dto.FieldError `json:"details"`
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) envelope[T] {
	t.Helper()
	var body envelope[T]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body
}

type requestOpts struct {
	user   *models.User
	org    *models.Organization
	role   models.OrganizationRole
	params gin.Params
}

// testContext builds a context as the auth and tenancy middleware would
// leave it.
func testContext(method, url, body string, opts requestOpts) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, url, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Params = opts.params
	if opts.user != nil {
		c.Set(constants.ContextKeyUserID, opts.user.ID)
		c.Set(constants.ContextKeyUser, opts.user)
	}
	if opts.org != nil {
		role := opts.role
		if role == "" {
			role = models.RoleOwner
		}
		c.Set(constants.ContextKeyOrganization, middleware.OrganizationContext{
			ID:   opts.org.ID,
			Slug: opts.org.Slug,
			Role: role,
		})
	}
	return c, w
}
