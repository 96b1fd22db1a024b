package app

import (
	"istqb_study_backend/docs"
	"istqb_study_backend/internal/config"
	"istqb_study_backend/internal/middleware"
	"istqb_study_backend/internal/model"
	"istqb_study_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
	}

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		a.registerContentRoutes(authGroup, c)
		a.registerQuizRoutes(authGroup, c)
		a.registerProgressRoutes(authGroup, c)
	}
}

func (a *App) registerContentRoutes(group *gin.RouterGroup, c *controllers) {
	modules := group.Group("/modules")
	{
		modules.GET("", c.module.ListModules)
		modules.GET("/:id", c.module.GetModule)
		modules.POST("", middleware.RoleMiddleware(model.Admin), c.module.CreateModule)
	}
}

func (a *App) registerQuizRoutes(group *gin.RouterGroup, c *controllers) {
	quizzes := group.Group("/quizzes")
	{
		quizzes.GET("", c.quiz.ListQuizzes)
		quizzes.GET("/:id", c.quiz.GetQuiz)
		quizzes.GET("/:id/questions", c.quiz.GetQuizQuestions)
		quizzes.POST("/:id/attempt", c.quiz.StartAttempt)
		quizzes.POST("/:id/submit", c.quiz.SubmitAttempt)
	}

	attempts := group.Group("/quiz-attempts")
	{
		attempts.GET("", c.quiz.ListAttempts)
		attempts.GET("/:id", c.quiz.GetAttempt)
	}
}

func (a *App) registerProgressRoutes(group *gin.RouterGroup, c *controllers) {
	progress := group.Group("/progress")
	{
		progress.GET("", c.progress.ListProgress)
		progress.GET("/:moduleId", c.progress.GetProgress)
		progress.POST("/:moduleId", c.progress.UpdateProgress)
		progress.POST("/:moduleId/section/:sectionId", c.progress.MarkSectionComplete)
	}

	group.GET("/dashboard/stats", c.dashboard.GetStats)
}
