// Package server assembles the HTTP API.
package server

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/yukikurage/taskflow/internal/config"
	"github.com/yukikurage/taskflow/internal/docs"
	apierrors "github.com/yukikurage/taskflow/internal/errors"
	"github.com/yukikurage/taskflow/internal/handlers"
	"github.com/yukikurage/taskflow/internal/middleware"
	"github.com/yukikurage/taskflow/internal/models"
	"github.com/yukikurage/taskflow/internal/repository"
	"github.com/yukikurage/taskflow/internal/services"
	"github.com/yukikurage/taskflow/internal/token"
	"github.com/yukikurage/taskflow/internal/validation"
)

// Deps are the shared resources the router is built from.
type Deps struct {
	Config   *config.Config
	DB       *gorm.DB
	Logger   *zap.Logger
	Registry *prometheus.Registry
}

// NewRouter wires repositories, services and handlers into a gin engine.
func NewRouter(deps Deps) *gin.Engine {
	cfg := deps.Config
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}
	reg := deps.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := middleware.NewMetrics(reg)

	validation.Setup()

	// Repositories
	userRepo := repository.NewUserRepository(deps.DB)
	orgRepo := repository.NewOrganizationRepository(deps.DB)
	projectRepo := repository.NewProjectRepository(deps.DB)
	taskRepo := repository.NewTaskRepository(deps.DB)

	// Services
	authService := services.NewAuthService(userRepo, token.NewManager(cfg.JWTSecret, cfg.TokenTTL))
	orgService := services.NewOrganizationService(orgRepo, userRepo)
	projectService := services.NewProjectService(projectRepo)
	taskService := services.NewTaskService(taskRepo, projectRepo, orgRepo)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	orgHandler := handlers.NewOrganizationHandler(orgService)
	projectHandler := handlers.NewProjectHandler(projectService)
	taskHandler := handlers.NewTaskHandler(taskService)
	healthHandler := handlers.NewHealthHandler(deps.DB)
	docsHandler := handlers.NewDocsHandler(docs.OpenAPI)

	r := gin.New()
	if err := r.SetTrustedProxies(nil); err != nil {
		log.Warn("failed to reset trusted proxies", zap.Error(err))
	}
	r.Use(
		middleware.RequestLogger(log),
		metrics.Handler(),
		middleware.Recovery(),
		middleware.SecurityHeaders(),
		middleware.CORS(cfg.CORSOrigin),
	)

	r.GET("/health", healthHandler.Health)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
	r.GET("/api-docs", docsHandler.UI)
	r.GET("/api-docs/init.js", docsHandler.UIInit)
	r.GET("/api-docs.json", docsHandler.Spec)

	requireAuth := middleware.RequireAuth(authService, metrics)
	tenancy := middleware.RequireOrganizationAccess(orgRepo, metrics)
	admins := middleware.RequireRole(models.RoleOwner, models.RoleAdmin)

	api := r.Group("/api")
	if cfg.RateLimit > 0 {
		api.Use(middleware.RateLimit(middleware.NewIPRateLimiter(cfg.RateLimit, cfg.RateLimitWindow)))
	}
	{
		// Auth routes (public except /me)
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.GET("/me", requireAuth, authHandler.Me)
		}

		orgs := api.Group("/organizations")
		orgs.Use(requireAuth)
		{
			orgs.POST("", orgHandler.CreateOrganization)
			orgs.GET("", orgHandler.ListOrganizations)

			org := orgs.Group("/:organizationId")
			org.Use(tenancy)
			{
				org.GET("", orgHandler.GetOrganization)
				org.POST("/members", admins, orgHandler.InviteMember)
				org.DELETE("/members/:userId", admins, orgHandler.RemoveMember)

				org.POST("/projects", projectHandler.CreateProject)
				org.GET("/projects", projectHandler.ListProjects)
				org.GET("/projects/:projectId", projectHandler.GetProject)
				org.PATCH("/projects/:projectId", projectHandler.UpdateProject)
				org.DELETE("/projects/:projectId", projectHandler.DeleteProject)

				tasks := org.Group("/projects/:projectId/tasks")
				{
					tasks.POST("", taskHandler.CreateTask)
					tasks.GET("", taskHandler.ListTasks)
					tasks.GET("/:taskId", taskHandler.GetTask)
					tasks.PATCH("/:taskId", taskHandler.UpdateTask)
					tasks.DELETE("/:taskId", taskHandler.DeleteTask)
				}
			}
		}
	}

	r.NoRoute(func(c *gin.Context) {
		apierrors.NotFound(c, apierrors.MsgRouteNotFound)
	})

	return r
}
