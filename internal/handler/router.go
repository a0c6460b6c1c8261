package handler

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/checkus/checkus-api/internal/middleware"
	"github.com/checkus/checkus-api/internal/models"
	"github.com/checkus/checkus-api/internal/service"
	"github.com/checkus/checkus-api/pkg/config"
	"github.com/checkus/checkus-api/pkg/logger"
	corsmiddleware "github.com/checkus/checkus-api/pkg/middleware/cors"
	reqidmiddleware "github.com/checkus/checkus-api/pkg/middleware/requestid"
)

// Handlers groups the HTTP handlers wired into the router.
type Handlers struct {
	Auth     *AuthHandler
	Guardian *GuardianHandler
	School   *SchoolHandler
	Student  *StudentHandler
	User     *UserHandler
	Metrics  *MetricsHandler
}

// NewRouter builds the gin engine with all middleware and routes attached.
func NewRouter(cfg *config.Config, logr *zap.Logger, tokens *service.TokenService, metrics *service.MetricsService, h Handlers) *gin.Engine {
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	r.GET("/health", h.Metrics.Health)
	r.GET("/ready", h.Metrics.Health)
	r.GET("/metrics", h.Metrics.Prometheus)
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	{
		auth.POST("/login", h.Auth.Login)
		auth.POST("/signup", h.Auth.Signup)
		auth.GET("/me", middleware.JWT(tokens), h.Auth.Me)
	}

	staff := middleware.RequireRoles(metrics, models.RoleAdmin, models.RoleTeacher)
	admin := middleware.RequireRoles(metrics, models.RoleAdmin)

	guardians := api.Group("/student-guardians", middleware.JWT(tokens))
	{
		guardians.POST("", staff, h.Guardian.Create)
		guardians.PUT("", staff, h.Guardian.Update)
		guardians.DELETE("/:studentId/:guardianId", staff, h.Guardian.Delete)
		guardians.GET("/student/:studentId", h.Guardian.ListByStudent)
		guardians.GET("/student/:studentId/export", staff, h.Guardian.Export)
		guardians.GET("/guardian/:guardianId", h.Guardian.ListByGuardian)
	}

	schools := api.Group("/schools", middleware.JWT(tokens))
	{
		schools.GET("", h.School.List)
		schools.GET("/:id", h.School.Get)
		schools.POST("", admin, h.School.Create)
		schools.PUT("/:id", admin, h.School.Update)
		schools.DELETE("/:id", admin, h.School.Delete)
	}

	students := api.Group("/students", middleware.JWT(tokens))
	{
		students.GET("", staff, h.Student.List)
		students.GET("/search", staff, h.Student.Search)
		students.GET("/school/:schoolId", staff, h.Student.ListBySchool)
		students.GET("/school/:schoolId/grade/:grade", staff, h.Student.ListBySchool)
		students.GET("/:userId", middleware.RequireRolesOrOwner(metrics, "userId", models.RoleAdmin, models.RoleTeacher), h.Student.Get)
		students.POST("/:userId", staff, h.Student.Create)
		students.PUT("/:userId", staff, h.Student.Update)
		students.DELETE("/:userId", admin, h.Student.Delete)
	}

	users := api.Group("/users", middleware.JWT(tokens))
	{
		users.PUT("/me/discord-id", h.User.UpdateOwnDiscordID)
		users.GET("/:userId", middleware.RequireRolesOrOwner(metrics, "userId", models.RoleAdmin, models.RoleTeacher), h.User.Get)
		users.PUT("/:userId/discord-id", middleware.RequireRoles(metrics, models.RoleTeacher), h.User.UpdateDiscordID)
		users.PUT("/:userId/roles", admin, h.User.UpdateRoles)
	}

	return r
}
