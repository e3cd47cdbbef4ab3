package app

import (
	"testit_backend/docs"
	"testit_backend/internal/config"
	"testit_backend/internal/middleware"
	"testit_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 公共路由(无需登录)
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
		// 注册后选择组织时需要，无需登录
		public.GET("/organizations", c.organization.List)
	}

	// 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg, repos.user))
	{
		authGroup.GET("/profile", c.user.GetProfile)
		authGroup.PUT("/profile", c.user.UpdateProfile)
		authGroup.POST("/profile/avatar", c.user.UploadAvatar)

		authGroup.GET("/organizations/:id", c.organization.Get)

		authGroup.GET("/groups/:id", c.group.Get)

		// 学生通过公开 UUID 获取测试、提交并查看自己的作答
		authGroup.GET("/tests/p/:uuid", c.test.GetPublic)
		authGroup.POST("/completions", c.completion.Create)
		authGroup.GET("/completions/:id", c.completion.Get)
		authGroup.GET("/completions/:id/score", c.completion.GetScore)
	}

	// 教师相关接口
	teacherGroup := router.Group("/api")
	teacherGroup.Use(middleware.AuthMiddleware(cfg, repos.user), middleware.TeacherMiddleware())
	{
		teacherGroup.POST("/organizations", c.organization.Create)

		teacherGroup.POST("/groups", c.group.Create)
		teacherGroup.GET("/groups", c.group.List)
		teacherGroup.POST("/groups/:id/users", c.group.AddUser)
		teacherGroup.DELETE("/groups/:id", c.group.Delete)

		teacherGroup.POST("/tests", c.test.Create)
		teacherGroup.GET("/tests", c.test.List)
		teacherGroup.GET("/tests/:id", c.test.Get)
		teacherGroup.PUT("/tests/:id/available-for", c.test.SetAvailableFor)
		teacherGroup.GET("/tests/:id/completions", c.test.ListCompletions)

		teacherGroup.GET("/completions/:id/with-correctness", c.completion.WithCorrectness)
	}
}
