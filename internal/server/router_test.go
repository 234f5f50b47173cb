package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/yukikurage/taskflow/internal/config"
	"github.com/yukikurage/taskflow/internal/testutil"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
}

// RouterTestSuite drives the assembled API over HTTP.
type RouterTestSuite struct {
	suite.Suite
	db     *gorm.DB
	router *gin.Engine
}

func (suite *RouterTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.db = testutil.NewDB(suite.T())
	suite.router = NewRouter(Deps{
		Config: &config.Config{
			JWTSecret:       "test-secret",
			TokenTTL:        time.Hour,
			CORSOrigin:      "http://localhost:5173",
			RateLimit:       1000,
			RateLimitWindow: time.Minute,
		},
		DB:       suite.db,
		Registry: prometheus.NewRegistry(),
	})
}

func (suite *RouterTestSuite) call(method, path, token string, body any) (int, envelope) {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		suite.Require().NoError(err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	var env envelope
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w.Code, env
}

func (suite *RouterTestSuite) register(email, name string) string {
	code, env := suite.call(http.MethodPost, "/api/auth/register", "", map[string]string{
		"email": email, "password": "Password1", "name": name,
	})
	suite.Require().Equal(http.StatusCreated, code, env.Error)

	var data struct {
		Token string `json:"token"`
	}
	suite.Require().NoError(json.Unmarshal(env.Data, &data))
	return data.Token
}

func (suite *RouterTestSuite) createOrganization(token, slug string) string {
	code, env := suite.call(http.MethodPost, "/api/organizations", token, map[string]string{"name": "Acme", "slug": slug})
	suite.Require().Equal(http.StatusCreated, code, env.Error)

	var org struct {
		ID string `json:"id"`
	}
	suite.Require().NoError(json.Unmarshal(env.Data, &org))
	return org.ID
}

func (suite *RouterTestSuite) TestRegisterLoginProjectTaskFlow() {
	suite.register("a@x.com", "Alice")

	code, env := suite.call(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "a@x.com", "password": "Password1"})
	suite.Require().Equal(http.StatusOK, code)
	var login struct {
		Token string `json:"token"`
	}
	suite.Require().NoError(json.Unmarshal(env.Data, &login))
	token := login.Token

	orgID := suite.createOrganization(token, "acme")

	code, env = suite.call(http.MethodPost, "/api/organizations/"+orgID+"/projects", token, map[string]string{"name": "Website"})
	suite.Require().Equal(http.StatusCreated, code, env.Error)
	var project struct {
		ID string `json:"id"`
	}
	suite.Require().NoError(json.Unmarshal(env.Data, &project))

	tasksPath := "/api/organizations/" + orgID + "/projects/" + project.ID + "/tasks"
	code, env = suite.call(http.MethodPost, tasksPath, token, map[string]string{"title": "Fix bug"})
	suite.Require().Equal(http.StatusCreated, code, env.Error)

	code, env = suite.call(http.MethodGet, tasksPath, token, nil)
	suite.Require().Equal(http.StatusOK, code)
	var tasks []struct {
		Title    string `json:"title"`
		Status   string `json:"status"`
		Priority string `json:"priority"`
	}
	suite.Require().NoError(json.Unmarshal(env.Data, &tasks))
	suite.Require().Len(tasks, 1)
	suite.Equal("Fix bug", tasks[0].Title)
	suite.Equal("TODO", tasks[0].Status)
	suite.Equal("MEDIUM", tasks[0].Priority)

	code, env = suite.call(http.MethodGet, "/api/auth/me", token, nil)
	suite.Require().Equal(http.StatusOK, code)
	suite.Contains(string(env.Data), `"slug":"acme"`)
}

func (suite *RouterTestSuite) TestNonMemberIsForbidden() {
	owner := suite.register("owner@x.com", "Owner")
	stranger := suite.register("stranger@x.com", "Stranger")
	orgID := suite.createOrganization(owner, "acme")

	code, env := suite.call(http.MethodGet, "/api/organizations/"+orgID, stranger, nil)
	suite.Equal(http.StatusForbidden, code)
	suite.Equal("Access denied. You are not a member of this organization.", env.Error)

	code, _ = suite.call(http.MethodGet, "/api/organizations/"+orgID+"/projects", stranger, nil)
	suite.Equal(http.StatusForbidden, code)
}

func (suite *RouterTestSuite) TestMemberCannotInvite() {
	owner := suite.register("owner@x.com", "Owner")
	member := suite.register("member@x.com", "Member")
	suite.register("third@x.com", "Third")
	orgID := suite.createOrganization(owner, "acme")

	code, env := suite.call(http.MethodPost, "/api/organizations/"+orgID+"/members", owner, map[string]string{"email": "member@x.com", "role": "MEMBER"})
	suite.Require().Equal(http.StatusCreated, code, env.Error)

	code, env = suite.call(http.MethodPost, "/api/organizations/"+orgID+"/members", member, map[string]string{"email": "third@x.com", "role": "MEMBER"})
	suite.Equal(http.StatusForbidden, code)
	suite.Equal("Insufficient permissions. Required role: OWNER or ADMIN", env.Error)
}

func (suite *RouterTestSuite) TestProjectFetchIsStable() {
	token := suite.register("a@x.com", "Alice")
	orgID := suite.createOrganization(token, "acme")
	code, env := suite.call(http.MethodPost, "/api/organizations/"+orgID+"/projects", token, map[string]string{"name": "Website"})
	suite.Require().Equal(http.StatusCreated, code)
	var project struct {
		ID string `json:"id"`
	}
	suite.Require().NoError(json.Unmarshal(env.Data, &project))

	path := "/api/organizations/" + orgID + "/projects/" + project.ID
	_, first := suite.call(http.MethodGet, path, token, nil)
	_, second := suite.call(http.MethodGet, path, token, nil)
	if diff := cmp.Diff(string(first.Data), string(second.Data)); diff != "" {
		suite.Failf("project payload changed between fetches", "(-first +second):\n%s", diff)
	}
}

func (suite *RouterTestSuite) TestAuthRequired() {
	code, env := suite.call(http.MethodGet, "/api/organizations", "", nil)
	suite.Equal(http.StatusUnauthorized, code)
	suite.Equal("Authentication required", env.Error)

	code, env = suite.call(http.MethodGet, "/api/organizations", "not-a-jwt", nil)
	suite.Equal(http.StatusUnauthorized, code)
	suite.Equal("Authentication required", env.Error)
}

func (suite *RouterTestSuite) TestHealthMetricsAndNoRoute() {
	code, env := suite.call(http.MethodGet, "/health", "", nil)
	suite.Equal(http.StatusOK, code)
	suite.True(env.Success)

	code, env = suite.call(http.MethodGet, "/api/nowhere", "", nil)
	suite.Equal(http.StatusNotFound, code)
	suite.Equal("Route not found", env.Error)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	suite.Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), "taskflow_http_requests_total")
	suite.Contains(w.Body.String(), `route="/health"`)
}

func (suite *RouterTestSuite) TestAPIDocs() {
	req := httptest.NewRequest(http.MethodGet, "/api-docs.json", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Contains(w.Header().Get("Content-Type"), "application/json")

	var doc struct {
		OpenAPI string                                `json:"openapi"`
		Paths   map[string]map[string]json.RawMessage `json:"paths"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &doc))
	suite.NotEmpty(doc.OpenAPI)

	// Every API route is documented.
	for _, route := range suite.router.Routes() {
		if !strings.HasPrefix(route.Path, "/api/") && route.Path != "/health" {
			continue
		}
		segments := strings.Split(route.Path, "/")
		for i, seg := range segments {
			if strings.HasPrefix(seg, ":") {
				segments[i] = "{" + seg[1:] + "}"
			}
		}
		path := strings.Join(segments, "/")
		suite.Contains(doc.Paths, path)
		suite.Contains(doc.Paths[path], strings.ToLower(route.Method), "%s %s", route.Method, path)
	}

	req = httptest.NewRequest(http.MethodGet, "/api-docs", nil)
	w = httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), "swagger-ui")
	suite.Contains(w.Header().Get("Content-Security-Policy"), "https://unpkg.com")

	req = httptest.NewRequest(http.MethodGet, "/api-docs/init.js", nil)
	w = httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), "/api-docs.json")
}

func TestRouterTestSuite(t *testing.T) {
	suite.Run(t, new(RouterTestSuite))
}

func TestRateLimitOnAPI(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := NewRouter(Deps{
		Config: &config.Config{
			JWTSecret:       "test-secret",
			TokenTTL:        time.Hour,
			RateLimit:       2,
			RateLimitWindow: time.Hour,
		},
		DB: testutil.NewDB(t),
	})

	var codes []int
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/auth/me", nil))
		codes = append(codes, w.Code)
	}
	if diff := cmp.Diff([]int{http.StatusUnauthorized, http.StatusUnauthorized, http.StatusTooManyRequests}, codes); diff != "" {
		t.Errorf("status codes (-want +got):\n%s", diff)
	}

	// Health checks are not limited.
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK {
		t.Errorf("health status = %d, want %d", w.Code, http.StatusOK)
	}
}
