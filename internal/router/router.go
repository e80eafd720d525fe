package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lumenblog/internal/handler"
)

// SetupRouter 配置 Gin 引擎和 /api/v1 路由
func SetupRouter(api *handler.API, uploadDir, uploadURLPath string) *gin.Engine {
	r := gin.Default()

	// 上传的图片直接静态托管
	if uploadDir != "" && uploadURLPath != "" {
		r.Static(uploadURLPath, uploadDir)
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := r.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/login", api.Login)
			auth.POST("/refresh", api.Refresh)
		}

		links := v1.Group("/links")
		{
			links.GET("", api.ListLinks)
			links.GET("/:id", api.GetLink)

			authed := links.Group("")
			authed.Use(api.AuthRequired())
			{
				authed.POST("", api.CreateLink)
				authed.PUT("/:id", api.UpdateLink)
				authed.DELETE("/:id", api.DeleteLink)
			}
		}

		// gin 的路由树按方法区分：GET 子树统一使用 :slug，
		// 写操作子树统一使用 :id，避免同名段冲突。
		articles := v1.Group("/articles")
		{
			articles.GET("", api.ListArticles)
			articles.GET("/:slug", api.GetArticleBySlug)
			articles.GET("/:slug/comments", api.ListArticleComments)
			articles.POST("/:id/comments", api.SubmitComment)

			authed := articles.Group("")
			authed.Use(api.AuthRequired())
			{
				authed.POST("", api.CreateArticle)
				authed.PUT("/:id", api.UpdateArticle)
				authed.POST("/:id/regenerate-summary", api.RegenerateArticleSummary)
				authed.DELETE("/:id", api.DeleteArticle)
			}
		}

		comments := v1.Group("/comments")
		comments.Use(api.AuthRequired())
		{
			comments.GET("/pending", api.ListPendingComments)
			comments.PUT("/:id/approve", api.ApproveComment)
			comments.DELETE("/:id", api.DeleteComment)
		}

		admin := v1.Group("/admin")
		admin.Use(api.AuthRequired())
		{
			admin.GET("/articles", api.ListAllArticles)
			admin.GET("/articles/:id", api.GetArticle)
		}

		settings := v1.Group("/settings")
		settings.Use(api.AuthRequired())
		{
			settings.GET("", api.GetSettings)
			settings.PUT("", api.UpdateSettings)
			settings.POST("/test-ai", api.TestAI)
		}

		upload := v1.Group("/upload")
		upload.Use(api.AuthRequired())
		{
			upload.POST("", api.UploadImage)
		}
	}

	return r
}
