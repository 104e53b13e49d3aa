package app

import (
	"portfolio_backend/docs"
	"portfolio_backend/internal/config"
	"portfolio_backend/internal/middleware"
	"portfolio_backend/internal/model"
	"portfolio_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())
	router.GET("/health", c.health.HealthCheck)

	// 1. 公共路由（无需登录）
	a.registerPublicRoutes(router, c, repos)

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		a.registerUserRoutes(authGroup, c)
		a.registerAcademyRoutes(authGroup, c)
	}

	// 3. 管理员相关接口
	a.registerAdminRoutes(router, c, repos, cfg)
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers, repos *repositories) {
	public := router.Group("/api")
	{
		public.POST("/auth/register", c.auth.Register)
		public.POST("/auth/login", c.auth.Login)
		public.GET("/site-config/current", c.siteConfig.Get)
	}

	// 博客读接口允许游客访问，带 token 的管理员能看到未发布内容
	posts := router.Group("/api/posts")
	posts.Use(middleware.TryAuthMiddleware(a.Config), middleware.ActivityMiddleware(repos.user))
	{
		posts.GET("", c.post.List)
		posts.GET("/recent", c.post.Recent)
		posts.GET("/:id", c.post.Get)
		posts.GET("/:id/comments", c.post.Comments)
	}
}

func (a *App) registerUserRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.GET("/auth/me", c.auth.Me)
	rg.PUT("/auth/password", c.auth.ChangePassword)

	// 博客写接口
	rg.POST("/posts", c.post.Create)
	rg.PUT("/posts/:id", c.post.Update)
	rg.DELETE("/posts/:id", c.post.Delete)
	rg.POST("/posts/media", c.post.UploadMedia)
	rg.POST("/posts/:id/comments", c.post.CreateComment)
	rg.DELETE("/comments/:id", c.post.DeleteComment)

	// 个人资料
	rg.GET("/profiles/me", c.profile.Me)
	rg.PUT("/profiles/me", c.profile.UpdateMe)
	rg.POST("/profiles/me/avatar", c.profile.UploadAvatar)
}

func (a *App) registerAcademyRoutes(rg *gin.RouterGroup, c *controllers) {
	academy := rg.Group("/academy")
	{
		// 课程
		academy.GET("/courses", c.course.List)
		academy.GET("/courses/featured", c.course.Featured)
		academy.GET("/courses/:id", c.course.Get)
		academy.POST("/courses/:id/start", c.course.Start)
		academy.GET("/courses/:id/progress", c.course.Progress)
		academy.POST("/courses/:id/complete-item", c.course.CompleteItem)

		// 课程条目
		academy.GET("/course-items/:id", c.course.GetItem)
		academy.GET("/course-items/:id/navigation", c.course.Navigation)

		// 视频
		academy.GET("/videos", c.video.List)
		academy.GET("/videos/:id", c.video.Get)
		academy.POST("/videos/:id/complete", c.video.Complete)

		// 练习
		academy.GET("/exercises", c.exercise.List)
		academy.GET("/exercises/:id", c.exercise.Get)
		academy.GET("/exercises/:id/solution", c.exercise.Solution)
		academy.POST("/exercises/:id/execute", c.exercise.Execute)
		academy.POST("/exercises/:id/submit", c.exercise.Submit)

		// 学习进度
		academy.GET("/progress/me", c.progress.Me)
		academy.GET("/progress/stats", c.progress.Stats)
		academy.GET("/leaderboard", c.progress.Leaderboard)

		// 徽章
		academy.GET("/badges", c.badge.List)
		academy.GET("/badges/me", c.badge.MyBadges)
	}
}

func (a *App) registerAdminRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	admin := router.Group("/api/admin")
	admin.Use(
		middleware.AuthMiddleware(cfg),
		middleware.ActivityMiddleware(repos.user),
		middleware.RoleMiddleware(model.Admin),
	)
	{
		// 用户管理
		admin.GET("/users", c.auth.ListUsers)
		admin.PUT("/users/:id/disabled", c.auth.SetUserDisabled)

		// 博客管理
		admin.GET("/posts/stats", c.post.Stats)
		admin.POST("/comments/:id/toggle-approval", c.post.ToggleCommentApproval)

		// 站点配置
		admin.PUT("/site-config", c.siteConfig.Update)
		admin.POST("/site-config/cv", c.siteConfig.UploadCV)

		// 学院内容管理
		academy := admin.Group("/academy")
		{
			academy.POST("/courses", c.course.Create)
			academy.PUT("/courses/:id", c.course.Update)
			academy.DELETE("/courses/:id", c.course.Delete)

			academy.POST("/course-items", c.course.CreateItem)
			academy.PUT("/course-items/:id", c.course.UpdateItem)
			academy.DELETE("/course-items/:id", c.course.DeleteItem)

			academy.POST("/videos", c.video.Create)
			academy.POST("/videos/upload", c.video.Upload)
			academy.PUT("/videos/:id", c.video.Update)
			academy.DELETE("/videos/:id", c.video.Delete)

			academy.POST("/exercises", c.exercise.Create)
			academy.PUT("/exercises/:id", c.exercise.Update)
			academy.DELETE("/exercises/:id", c.exercise.Delete)

			academy.GET("/badges", c.badge.ListAll)
			academy.POST("/badges", c.badge.Create)
			academy.PUT("/badges/:id", c.badge.Update)
			academy.DELETE("/badges/:id", c.badge.Delete)
		}
	}
}
