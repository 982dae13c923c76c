package app

import (
	"dspt_pro_backend/docs"
	"dspt_pro_backend/internal/config"
	"dspt_pro_backend/internal/middleware"
	"dspt_pro_backend/internal/model"
	"dspt_pro_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	a.registerPublicRoutes(router, c)
	a.registerPracticeRoutes(router, c, repos, cfg)
	a.registerAdminRoutes(router, c, repos)
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
	}
}

// registerPracticeRoutes holds everything a logged-in practice user can
// reach. Recalculation is the one scoring write reserved for managers.
func (a *App) registerPracticeRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		authGroup.GET("/profile", c.auth.GetProfile)
		authGroup.GET("/taxonomy/sections", c.taxonomy.ListSections)

		assessments := authGroup.Group("/assessments")
		{
			assessments.POST("", c.assessment.Start)
			assessments.GET("", c.assessment.List)
			assessments.GET("/:id", c.assessment.Get)
			assessments.GET("/:id/results", c.assessment.Results)
			assessments.PUT("/:id/responses", c.assessment.SaveResponse)
			assessments.GET("/:id/responses", c.assessment.ListResponses)
			assessments.POST("/:id/responses/:questionId/evidence", c.evidence.Upload)
			assessments.POST("/:id/complete", c.assessment.Complete)
			assessments.POST("/:id/recalculate",
				middleware.RoleMiddleware(model.Manager), c.assessment.Recalculate)
		}
	}
}

func (a *App) registerAdminRoutes(router *gin.Engine, c *controllers, repos *repositories) {
	admin := router.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware(a.Config), middleware.ActivityMiddleware(repos.user), middleware.RoleMiddleware(model.Admin))
	{
		admin.POST("/practices", c.practice.Create)
		admin.GET("/practices", c.practice.List)
		admin.GET("/practices/:id", c.practice.Get)
		admin.PUT("/practices/:id", c.practice.Update)
		admin.POST("/practices/:id/disable", c.practice.SetDisabled)
		admin.GET("/practices/:id/users", c.practice.ListUsers)

		admin.POST("/taxonomy/sections", c.taxonomy.UpsertSection)
		admin.POST("/taxonomy/questions", c.taxonomy.UpsertQuestion)
		admin.DELETE("/taxonomy/questions/:id", c.taxonomy.DeleteQuestion)
	}
}
